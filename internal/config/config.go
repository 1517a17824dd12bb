// Package config holds the run parameters of a gift preparation run.  A Config
// is built once by Load, validated, and then treated as read-only; derived
// dimensions are attached with WithDimensions, which returns a copy.
package config

import (
	"math"

	"github.com/songpeng/inferBind/pkg/errors"
)

// Task values.  Only TaskPredict is recognized as prediction; see Predicting.
const (
	TaskTrain   = "train"
	TaskPredict = "predict"
)

// ArtifactConfig points at an S3-compatible bucket for publishing exported
// matrices.  An empty Endpoint disables the store.
type ArtifactConfig struct {
	Endpoint  string `mapstructure:"artifactEndpoint"`
	Bucket    string `mapstructure:"artifactBucket"`
	AccessKey string `mapstructure:"artifactAccessKey"`
	SecretKey string `mapstructure:"artifactSecretKey"`
	UseSSL    bool   `mapstructure:"artifactUseSSL"`
	Region    string `mapstructure:"artifactRegion"`
	Prefix    string `mapstructure:"artifactPrefix"`
}

// Enabled reports whether an artifact store is configured.
func (a ArtifactConfig) Enabled() bool { return a.Endpoint != "" }

// Dimensions are the namespace sizes discovered while parsing the drug to
// substructure and protein to domain files.
type Dimensions struct {
	DrugNum    int
	SubNum     int
	DomainNum  int
	ProteinNum int
}

// Known reports whether the dimensions have been derived.
func (d Dimensions) Known() bool {
	return d.DrugNum > 0 && d.SubNum > 0 && d.DomainNum > 0 && d.ProteinNum > 0
}

// Config is the resolved set of run parameters.
type Config struct {
	Drug2ProteinFile     string `mapstructure:"drug2proteinFileName"`
	Drug2SubFile         string `mapstructure:"drug2subFileName"`
	Protein2SubFile      string `mapstructure:"protein2subFileName"`
	Sub2DomainFile       string `mapstructure:"drugSub2proteinSubFileName"`
	DrugNameFile         string `mapstructure:"drugNameListFile"`
	SubNameFile          string `mapstructure:"drugSubNameListFile"`
	ProteinNameFile      string `mapstructure:"proteinNameListFile"`
	DomainNameFile       string `mapstructure:"proteinSubNameListFile"`
	PredictDrugsFile     string `mapstructure:"predictDrugsFileName"`
	PredictProteinsFile  string `mapstructure:"predictProteinFileName"`
	OutPredictionsFile   string `mapstructure:"outPredictCPIsFileName"`
	OutSub2DomainFile    string `mapstructure:"outDrugSub2ProteinSubFileName"`
	OutVarSub2DomainFile string `mapstructure:"outVarDrugSub2proteinSubFileName"`
	OutRecordFile        string `mapstructure:"outRecordFileName"`

	AlphaEB float64 `mapstructure:"alphaEB"`
	BetaEB  float64 `mapstructure:"betaEB"`
	// FP and FN are the false positive and false negative rates of the
	// observed interactions, consumed by the EM stage.
	FP float64 `mapstructure:"fp"`
	FN float64 `mapstructure:"fn"`

	ThreadNum       int    `mapstructure:"threadNum"`
	EMIterationNum  int    `mapstructure:"EMIterationNum"`
	Task            string `mapstructure:"task"`
	LoglikelyRecord bool   `mapstructure:"loglikelyRecord"`
	InputDelims     string `mapstructure:"inputDelims"`
	OutputDelims    string `mapstructure:"outputDelims"`

	ChemFingerPrintRecord       string `mapstructure:"chemFingerPrintRecord"`
	ProteinFingerPrintRecord    string `mapstructure:"proteinFingerPrintRecord"`
	ComProteinInteractionRecord string `mapstructure:"comProteinInteractionRecord"`

	Artifact ArtifactConfig `mapstructure:",squash"`

	Dims Dimensions `mapstructure:"-"`

	source   string
	explicit map[string]bool
}

// Predicting reports whether the run is in prediction mode.  Only the exact
// string "predict" selects it; any other task value, including misspellings
// and different casing, trains.
func (c *Config) Predicting() bool {
	return c.Task == TaskPredict
}

// Source returns the path the configuration was loaded from.
func (c *Config) Source() string { return c.source }

// WithDimensions returns a copy of c carrying d.
func (c *Config) WithDimensions(d Dimensions) *Config {
	cp := *c
	cp.Dims = d
	return &cp
}

// PredictionTarget returns which prediction list is configured: the config
// key and its path.  It is meaningful after Validate succeeds in predict mode.
func (c *Config) PredictionTarget() (key, path string) {
	if c.PredictDrugsFile != "" {
		return KeyPredictDrugs, c.PredictDrugsFile
	}
	return KeyPredictProteins, c.PredictProteinsFile
}

// Validate checks the record before any data file is touched.
func (c *Config) Validate() error {
	required := []struct{ key, path string }{
		{KeyDrug2Protein, c.Drug2ProteinFile},
		{KeyDrug2Sub, c.Drug2SubFile},
		{KeyProtein2Sub, c.Protein2SubFile},
		{KeyDrugNames, c.DrugNameFile},
		{KeySubNames, c.SubNameFile},
		{KeyProteinNames, c.ProteinNameFile},
		{KeyDomainNames, c.DomainNameFile},
	}
	if c.Predicting() {
		required = append(required, struct{ key, path string }{KeySub2Domain, c.Sub2DomainFile})
	}
	for _, r := range required {
		if r.path == "" {
			return errors.Newf(errors.ErrCodeMissingFile, "%s is required", r.key)
		}
	}

	if !finite(c.AlphaEB) || !finite(c.BetaEB) || c.AlphaEB < 0 || c.BetaEB < 0 || c.AlphaEB+c.BetaEB <= 0 {
		return errors.InvalidPrior(c.AlphaEB, c.BetaEB)
	}
	if !(c.FP >= 0 && c.FP <= 1) {
		return errors.InvalidConfig(KeyFP, "must be within [0,1]")
	}
	if !(c.FN >= 0 && c.FN <= 1) {
		return errors.InvalidConfig(KeyFN, "must be within [0,1]")
	}
	if c.ThreadNum < 1 {
		return errors.InvalidConfig(KeyThreadNum, "must be at least 1")
	}
	if c.EMIterationNum < 1 {
		return errors.InvalidConfig(KeyEMIterationNum, "must be at least 1")
	}
	if c.InputDelims == "" {
		return errors.InvalidConfig(KeyInputDelims, "must not be empty")
	}
	if c.OutputDelims == "" {
		return errors.InvalidConfig(KeyOutputDelims, "must not be empty")
	}
	if c.Artifact.Enabled() && c.Artifact.Bucket == "" {
		return errors.InvalidConfig(KeyArtifactBucket, "required when artifactEndpoint is set")
	}

	if c.Predicting() {
		drugs, proteins := c.PredictDrugsFile != "", c.PredictProteinsFile != ""
		switch {
		case drugs && proteins:
			return errors.AmbiguousPredictionTarget("both " + KeyPredictDrugs + " and " + KeyPredictProteins + " are set")
		case !drugs && !proteins:
			return errors.AmbiguousPredictionTarget("one of " + KeyPredictDrugs + " or " + KeyPredictProteins + " is required")
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
