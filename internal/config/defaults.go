package config

const (
	DefaultAlphaEB        = 0.05
	DefaultBetaEB         = 0.05
	DefaultFP             = 0.85
	DefaultFN             = 0.0001
	DefaultThreadNum      = 1
	DefaultEMIterationNum = 300
	DefaultTask           = TaskTrain
	DefaultDelims         = "\t,"
	DefaultOutRecordFile  = "CPIs"

	DefaultChemFingerPrint       = "ComFP: PUBCHEM"
	DefaultProteinFingerPrint    = "Pfam: 2011-07"
	DefaultComProteinInteraction = "DrugBank: 2011-07"

	DefaultArtifactRegion = "us-east-1"
	DefaultArtifactPrefix = "gift"
)

// NewDefaultConfig returns a Config holding every declared default and no
// file paths.  It does not pass Validate until the required paths are set.
func NewDefaultConfig() *Config {
	return &Config{
		OutRecordFile:               DefaultOutRecordFile,
		AlphaEB:                     DefaultAlphaEB,
		BetaEB:                      DefaultBetaEB,
		FP:                          DefaultFP,
		FN:                          DefaultFN,
		ThreadNum:                   DefaultThreadNum,
		EMIterationNum:              DefaultEMIterationNum,
		Task:                        DefaultTask,
		InputDelims:                 DefaultDelims,
		OutputDelims:                DefaultDelims,
		ChemFingerPrintRecord:       DefaultChemFingerPrint,
		ProteinFingerPrintRecord:    DefaultProteinFingerPrint,
		ComProteinInteractionRecord: DefaultComProteinInteraction,
		Artifact: ArtifactConfig{
			Region: DefaultArtifactRegion,
			Prefix: DefaultArtifactPrefix,
		},
	}
}
