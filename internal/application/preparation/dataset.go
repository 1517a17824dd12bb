package preparation

import (
	"github.com/songpeng/inferBind/internal/config"
	"github.com/songpeng/inferBind/internal/domain/association"
	"github.com/songpeng/inferBind/internal/domain/fingerprint"
	"github.com/songpeng/inferBind/internal/domain/nameindex"
)

// Namespace names an entity namespace.
type Namespace string

const (
	NamespaceDrug         Namespace = "drug"
	NamespaceProtein      Namespace = "protein"
	NamespaceSubstructure Namespace = "substructure"
	NamespaceDomain       Namespace = "domain"
)

// Targets are the entities a prediction run scores.
type Targets struct {
	Namespace Namespace
	// Key is the configuration key the list was read from.
	Key     string
	Names   []string
	Indices []int
}

// Dataset is everything the training or prediction stage consumes.  All of
// it is read-only once Prepare returns.
type Dataset struct {
	RunID string
	// Config carries the derived dimensions.
	Config *config.Config

	DrugToProtein   *fingerprint.Relation
	DrugToSub       *fingerprint.Relation
	ProteinToDomain *fingerprint.Relation
	SubToDrug       *fingerprint.Relation
	DomainToProtein *fingerprint.Relation

	Drugs         *nameindex.Index
	Proteins      *nameindex.Index
	Substructures *nameindex.Index
	Domains       *nameindex.Index

	// Targets is nil in training mode.
	Targets *Targets

	Association *association.Result
}

// Summary is a printable digest of a Dataset.
type Summary struct {
	RunID        string         `json:"run_id" yaml:"run_id"`
	Task         string         `json:"task" yaml:"task"`
	Mode         string         `json:"mode" yaml:"mode"`
	Drugs        int            `json:"drugs" yaml:"drugs"`
	Proteins     int            `json:"proteins" yaml:"proteins"`
	Substructure int            `json:"substructures" yaml:"substructures"`
	Domains      int            `json:"domains" yaml:"domains"`
	Edges        map[string]int `json:"edges" yaml:"edges"`
	Targets      int            `json:"targets,omitempty" yaml:"targets,omitempty"`
	MinCell      float64        `json:"min_cell" yaml:"min_cell"`
	MaxCell      float64        `json:"max_cell" yaml:"max_cell"`
	Variance     bool           `json:"variance" yaml:"variance"`
}

// Summary digests d.
func (d *Dataset) Summary() Summary {
	mode := association.ModeEstimate
	if !d.Association.Estimated {
		mode = association.ModeLoad
	}
	lo, hi := d.Association.Mean.Bounds()
	s := Summary{
		RunID:        d.RunID,
		Task:         d.Config.Task,
		Mode:         mode.String(),
		Drugs:        d.Config.Dims.DrugNum,
		Proteins:     d.Config.Dims.ProteinNum,
		Substructure: d.Config.Dims.SubNum,
		Domains:      d.Config.Dims.DomainNum,
		Edges: map[string]int{
			config.KeyDrug2Protein: d.DrugToProtein.Edges(),
			config.KeyDrug2Sub:     d.DrugToSub.Edges(),
			config.KeyProtein2Sub:  d.ProteinToDomain.Edges(),
		},
		MinCell:  lo,
		MaxCell:  hi,
		Variance: d.Association.Variance != nil,
	}
	if d.Targets != nil {
		s.Targets = len(d.Targets.Indices)
	}
	return s
}
