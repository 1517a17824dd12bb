package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/viper"

	"github.com/songpeng/inferBind/pkg/errors"
)

// envPrefix is the environment variable prefix: GIFT_ALPHAEB overrides alphaEB.
const envPrefix = "GIFT"

// newViper builds a Viper reading flat key=value sources.  The properties
// format decodes backslash escapes, so "inputDelims=\t," yields a tab and a
// comma.  ${name} references are rejected by checkReferences before the
// decoder can expand them.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("properties")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration at path, rejects unknown keys, applies the
// declared defaults and GIFT_* environment overrides, and validates the
// result.  An unreadable or unparsable source is ErrCodeConfigFile; no
// partially populated record is ever returned.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.ConfigFile(path, err)
	}
	if err := checkKeys(v); err != nil {
		return nil, errors.ConfigFile(path, err)
	}
	if err := checkReferences(path); err != nil {
		return nil, errors.ConfigFile(path, err)
	}
	if v.InConfig(legacyProteinFingerPrint) && !v.InConfig(strings.ToLower(KeyProteinFingerPrint)) {
		v.Set(KeyProteinFingerPrint, v.Get(legacyProteinFingerPrint))
	}

	explicit := make(map[string]bool, len(options))
	for _, opt := range options {
		if v.IsSet(opt.key) {
			explicit[opt.key] = true
		}
	}
	for _, opt := range options {
		v.SetDefault(opt.key, opt.def.Interface())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ConfigFile(path, err)
	}
	cfg.source = path
	cfg.explicit = explicit

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkKeys rejects keys that no option declares.
func checkKeys(v *viper.Viper) error {
	known := make(map[string]bool, len(options)+1)
	for _, opt := range options {
		known[strings.ToLower(opt.key)] = true
	}
	known[strings.ToLower(legacyProteinFingerPrint)] = true

	var unknown []string
	for _, k := range v.AllKeys() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown option(s): %s", strings.Join(unknown, ", "))
}

// checkReferences rejects values holding a ${name} reference.  Values are
// taken literally, so a reference would otherwise be replaced by whatever the
// properties decoder resolves it to, usually the empty string.
func checkReferences(path string) error {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	var refs []string
	for _, k := range p.Keys() {
		if raw, _ := p.Get(k); strings.Contains(raw, "${") {
			refs = append(refs, k)
		}
	}
	if len(refs) == 0 {
		return nil
	}
	sort.Strings(refs)
	return fmt.Errorf("${...} references are not supported: %s", strings.Join(refs, ", "))
}
