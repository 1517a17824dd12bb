package config

// option declares one recognized configuration key.  The table below is the
// single source for defaults, known-key checking and the settings report.
type option struct {
	key   string
	def   Value
	usage string
	// secret values are masked in the settings report.
	secret bool
	get    func(*Config) Value
}

// Configuration keys.
const (
	KeyDrug2Protein          = "drug2proteinFileName"
	KeyDrug2Sub              = "drug2subFileName"
	KeyProtein2Sub           = "protein2subFileName"
	KeySub2Domain            = "drugSub2proteinSubFileName"
	KeyDrugNames             = "drugNameListFile"
	KeySubNames              = "drugSubNameListFile"
	KeyProteinNames          = "proteinNameListFile"
	KeyDomainNames           = "proteinSubNameListFile"
	KeyPredictDrugs          = "predictDrugsFileName"
	KeyPredictProteins       = "predictProteinFileName"
	KeyOutPredictions        = "outPredictCPIsFileName"
	KeyOutSub2Domain         = "outDrugSub2ProteinSubFileName"
	KeyOutVarSub2Domain      = "outVarDrugSub2proteinSubFileName"
	KeyOutRecord             = "outRecordFileName"
	KeyAlphaEB               = "alphaEB"
	KeyBetaEB                = "betaEB"
	KeyFP                    = "fp"
	KeyFN                    = "fn"
	KeyThreadNum             = "threadNum"
	KeyEMIterationNum        = "EMIterationNum"
	KeyTask                  = "task"
	KeyLoglikelyRecord       = "loglikelyRecord"
	KeyInputDelims           = "inputDelims"
	KeyOutputDelims          = "outputDelims"
	KeyChemFingerPrint       = "chemFingerPrintRecord"
	KeyProteinFingerPrint    = "proteinFingerPrintRecord"
	KeyComProteinInteraction = "comProteinInteractionRecord"
	KeyArtifactEndpoint      = "artifactEndpoint"
	KeyArtifactBucket        = "artifactBucket"
	KeyArtifactAccessKey     = "artifactAccessKey"
	KeyArtifactSecretKey     = "artifactSecretKey"
	KeyArtifactUseSSL        = "artifactUseSSL"
	KeyArtifactRegion        = "artifactRegion"
	KeyArtifactPrefix        = "artifactPrefix"

	// legacyProteinFingerPrint is a misspelling accepted for compatibility
	// with existing configuration files.
	legacyProteinFingerPrint = "proteinFingerPrintRecprd"
)

var options = []option{
	{key: KeyDrug2Protein, def: StringValue(""), usage: "drug to protein interaction matrix",
		get: func(c *Config) Value { return StringValue(c.Drug2ProteinFile) }},
	{key: KeyDrug2Sub, def: StringValue(""), usage: "drug to substructure matrix",
		get: func(c *Config) Value { return StringValue(c.Drug2SubFile) }},
	{key: KeyProtein2Sub, def: StringValue(""), usage: "protein to domain matrix",
		get: func(c *Config) Value { return StringValue(c.Protein2SubFile) }},
	{key: KeySub2Domain, def: StringValue(""), usage: "precomputed substructure to domain association matrix (predict)",
		get: func(c *Config) Value { return StringValue(c.Sub2DomainFile) }},
	{key: KeyDrugNames, def: StringValue(""), usage: "drug name list",
		get: func(c *Config) Value { return StringValue(c.DrugNameFile) }},
	{key: KeySubNames, def: StringValue(""), usage: "substructure name list",
		get: func(c *Config) Value { return StringValue(c.SubNameFile) }},
	{key: KeyProteinNames, def: StringValue(""), usage: "protein name list",
		get: func(c *Config) Value { return StringValue(c.ProteinNameFile) }},
	{key: KeyDomainNames, def: StringValue(""), usage: "domain name list",
		get: func(c *Config) Value { return StringValue(c.DomainNameFile) }},
	{key: KeyPredictDrugs, def: StringValue(""), usage: "drugs to predict interactions for (predict)",
		get: func(c *Config) Value { return StringValue(c.PredictDrugsFile) }},
	{key: KeyPredictProteins, def: StringValue(""), usage: "proteins to predict interactions for (predict)",
		get: func(c *Config) Value { return StringValue(c.PredictProteinsFile) }},
	{key: KeyOutPredictions, def: StringValue(""), usage: "predicted interactions output",
		get: func(c *Config) Value { return StringValue(c.OutPredictionsFile) }},
	{key: KeyOutSub2Domain, def: StringValue(""), usage: "association matrix output",
		get: func(c *Config) Value { return StringValue(c.OutSub2DomainFile) }},
	{key: KeyOutVarSub2Domain, def: StringValue(""), usage: "association variance output",
		get: func(c *Config) Value { return StringValue(c.OutVarSub2DomainFile) }},
	{key: KeyOutRecord, def: StringValue(DefaultOutRecordFile), usage: "run record output",
		get: func(c *Config) Value { return StringValue(c.OutRecordFile) }},
	{key: KeyAlphaEB, def: FloatValue(DefaultAlphaEB), usage: "Beta prior pseudo-count of interactions",
		get: func(c *Config) Value { return FloatValue(c.AlphaEB) }},
	{key: KeyBetaEB, def: FloatValue(DefaultBetaEB), usage: "Beta prior pseudo-count of non-interactions",
		get: func(c *Config) Value { return FloatValue(c.BetaEB) }},
	{key: KeyFP, def: FloatValue(DefaultFP), usage: "false positive rate",
		get: func(c *Config) Value { return FloatValue(c.FP) }},
	{key: KeyFN, def: FloatValue(DefaultFN), usage: "false negative rate",
		get: func(c *Config) Value { return FloatValue(c.FN) }},
	{key: KeyThreadNum, def: IntValue(DefaultThreadNum), usage: "worker threads",
		get: func(c *Config) Value { return IntValue(c.ThreadNum) }},
	{key: KeyEMIterationNum, def: IntValue(DefaultEMIterationNum), usage: "EM iterations",
		get: func(c *Config) Value { return IntValue(c.EMIterationNum) }},
	{key: KeyTask, def: StringValue(DefaultTask), usage: "train or predict",
		get: func(c *Config) Value { return StringValue(c.Task) }},
	{key: KeyLoglikelyRecord, def: BoolValue(false), usage: "record log likelihood per iteration",
		get: func(c *Config) Value { return BoolValue(c.LoglikelyRecord) }},
	{key: KeyInputDelims, def: StringValue(DefaultDelims), usage: "input field delimiters",
		get: func(c *Config) Value { return StringValue(c.InputDelims) }},
	{key: KeyOutputDelims, def: StringValue(DefaultDelims), usage: "output field delimiters",
		get: func(c *Config) Value { return StringValue(c.OutputDelims) }},
	{key: KeyChemFingerPrint, def: StringValue(DefaultChemFingerPrint), usage: "chemical fingerprint source",
		get: func(c *Config) Value { return StringValue(c.ChemFingerPrintRecord) }},
	{key: KeyProteinFingerPrint, def: StringValue(DefaultProteinFingerPrint), usage: "protein fingerprint source",
		get: func(c *Config) Value { return StringValue(c.ProteinFingerPrintRecord) }},
	{key: KeyComProteinInteraction, def: StringValue(DefaultComProteinInteraction), usage: "interaction source",
		get: func(c *Config) Value { return StringValue(c.ComProteinInteractionRecord) }},
	{key: KeyArtifactEndpoint, def: StringValue(""), usage: "artifact store endpoint",
		get: func(c *Config) Value { return StringValue(c.Artifact.Endpoint) }},
	{key: KeyArtifactBucket, def: StringValue(""), usage: "artifact store bucket",
		get: func(c *Config) Value { return StringValue(c.Artifact.Bucket) }},
	{key: KeyArtifactAccessKey, def: StringValue(""), usage: "artifact store access key",
		get: func(c *Config) Value { return StringValue(c.Artifact.AccessKey) }},
	{key: KeyArtifactSecretKey, def: StringValue(""), usage: "artifact store secret key", secret: true,
		get: func(c *Config) Value { return StringValue(c.Artifact.SecretKey) }},
	{key: KeyArtifactUseSSL, def: BoolValue(false), usage: "use TLS for the artifact store",
		get: func(c *Config) Value { return BoolValue(c.Artifact.UseSSL) }},
	{key: KeyArtifactRegion, def: StringValue(DefaultArtifactRegion), usage: "artifact store region",
		get: func(c *Config) Value { return StringValue(c.Artifact.Region) }},
	{key: KeyArtifactPrefix, def: StringValue(DefaultArtifactPrefix), usage: "object key prefix",
		get: func(c *Config) Value { return StringValue(c.Artifact.Prefix) }},
}

// Usage returns the usage string of key, or "" if key is not recognized.
func Usage(key string) string {
	for _, opt := range options {
		if opt.key == key {
			return opt.usage
		}
	}
	return ""
}

// Keys lists every recognized key in declaration order.
func Keys() []string {
	keys := make([]string, len(options))
	for i, opt := range options {
		keys[i] = opt.key
	}
	return keys
}
