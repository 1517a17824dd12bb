package config

import (
	"strconv"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Value is a configuration value of one of four kinds.  Exactly one payload
// is meaningful, selected by Kind.
type Value struct {
	kind Kind
	s    string
	i    int
	f    float64
	b    bool
}

func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func IntValue(i int) Value       { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind       { return v.kind }

// Str returns the string payload; ok is false for other kinds.
func (v Value) Str() (s string, ok bool) { return v.s, v.kind == KindString }

// Int returns the integer payload; ok is false for other kinds.
func (v Value) Int() (i int, ok bool) { return v.i, v.kind == KindInt }

// Float returns the float payload; ok is false for other kinds.
func (v Value) Float() (f float64, ok bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean payload; ok is false for other kinds.
func (v Value) Bool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// Interface returns the payload as a plain Go value.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// String renders the payload.  Strings are quoted so that delimiter values
// such as a lone tab stay visible.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return strconv.Quote(v.s)
	}
}

// Source tells where a resolved setting came from.
type Source int

const (
	SourceDefault Source = iota
	SourceExplicit
	SourceDerived
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceDerived:
		return "derived"
	default:
		return "default"
	}
}

// Setting is one line of the resolved-settings report.
type Setting struct {
	Key    string
	Value  Value
	Source Source
}

const maskedSecret = "****"

// Settings reports every declared option with its resolved value, followed by
// the derived dimensions once they are known.  Secret values are masked.
func (c *Config) Settings() []Setting {
	out := make([]Setting, 0, len(options)+4)
	for _, opt := range options {
		val := opt.get(c)
		if opt.secret {
			if s, _ := val.Str(); s != "" {
				val = StringValue(maskedSecret)
			}
		}
		src := SourceDefault
		if c.explicit[opt.key] {
			src = SourceExplicit
		}
		out = append(out, Setting{Key: opt.key, Value: val, Source: src})
	}
	if c.Dims.Known() {
		out = append(out,
			Setting{Key: "drugNum", Value: IntValue(c.Dims.DrugNum), Source: SourceDerived},
			Setting{Key: "subNum", Value: IntValue(c.Dims.SubNum), Source: SourceDerived},
			Setting{Key: "domainNum", Value: IntValue(c.Dims.DomainNum), Source: SourceDerived},
			Setting{Key: "proteinNum", Value: IntValue(c.Dims.ProteinNum), Source: SourceDerived},
		)
	}
	return out
}
