package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpeng/inferBind/internal/testutil"
	"github.com/songpeng/inferBind/pkg/errors"
)

func validConfig() *Config {
	c := NewDefaultConfig()
	c.Drug2ProteinFile = "d2p"
	c.Drug2SubFile = "d2s"
	c.Protein2SubFile = "p2s"
	c.DrugNameFile = "drugs"
	c.SubNameFile = "subs"
	c.ProteinNameFile = "proteins"
	c.DomainNameFile = "domains"
	return c
}

func TestNewDefaultConfig(t *testing.T) {
	c := NewDefaultConfig()
	assert.Equal(t, 0.05, c.AlphaEB)
	assert.Equal(t, 0.05, c.BetaEB)
	assert.Equal(t, 0.85, c.FP)
	assert.Equal(t, 0.0001, c.FN)
	assert.Equal(t, "train", c.Task)
	assert.Equal(t, "\t,", c.InputDelims)
	assert.Equal(t, "\t,", c.OutputDelims)
	assert.Equal(t, 1, c.ThreadNum)
	assert.Equal(t, 300, c.EMIterationNum)
	assert.False(t, c.Predicting())
	assert.Error(t, c.Validate())
}

func TestPredicting_OnlyExactLiteral(t *testing.T) {
	c := NewDefaultConfig()
	c.Task = "predict"
	assert.True(t, c.Predicting())
	for _, task := range []string{"train", "Predict", "PREDICT", "predict ", "prdict", ""} {
		c.Task = task
		assert.False(t, c.Predicting(), "%q", task)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
		code   errors.ErrorCode
	}{
		{"missing relation", func(c *Config) { c.Drug2SubFile = "" }, errors.ErrCodeMissingFile},
		{"missing name list", func(c *Config) { c.DomainNameFile = "" }, errors.ErrCodeMissingFile},
		{"zero prior", func(c *Config) { c.AlphaEB, c.BetaEB = 0, 0 }, errors.ErrCodeInvalidPrior},
		{"negative prior", func(c *Config) { c.AlphaEB = -0.1 }, errors.ErrCodeInvalidPrior},
		{"nan prior", func(c *Config) { c.BetaEB = math.NaN() }, errors.ErrCodeInvalidPrior},
		{"fp above one", func(c *Config) { c.FP = 1.5 }, errors.ErrCodeInvalidConfig},
		{"fn negative", func(c *Config) { c.FN = -1 }, errors.ErrCodeInvalidConfig},
		{"no threads", func(c *Config) { c.ThreadNum = 0 }, errors.ErrCodeInvalidConfig},
		{"no iterations", func(c *Config) { c.EMIterationNum = 0 }, errors.ErrCodeInvalidConfig},
		{"no input delims", func(c *Config) { c.InputDelims = "" }, errors.ErrCodeInvalidConfig},
		{"no output delims", func(c *Config) { c.OutputDelims = "" }, errors.ErrCodeInvalidConfig},
		{"artifact without bucket", func(c *Config) { c.Artifact.Endpoint = "localhost:9000" }, errors.ErrCodeInvalidConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetCode(err), err.Error())
		})
	}
}

func TestValidate_PredictMode(t *testing.T) {
	c := validConfig()
	c.Task = TaskPredict
	c.PredictDrugsFile = "targets"

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingFile))
	assert.Contains(t, err.Error(), KeySub2Domain)

	c.Sub2DomainFile = "matrix"
	require.NoError(t, c.Validate())
	key, path := c.PredictionTarget()
	assert.Equal(t, KeyPredictDrugs, key)
	assert.Equal(t, "targets", path)

	c.PredictProteinsFile = "more"
	assert.True(t, errors.IsCode(c.Validate(), errors.ErrCodeAmbiguousPredictionTarget))

	c.PredictDrugsFile, c.PredictProteinsFile = "", ""
	assert.True(t, errors.IsCode(c.Validate(), errors.ErrCodeAmbiguousPredictionTarget))

	c.PredictProteinsFile = "proteins"
	require.NoError(t, c.Validate())
	key, _ = c.PredictionTarget()
	assert.Equal(t, KeyPredictProteins, key)
}

func TestValidate_TrainIgnoresPredictionLists(t *testing.T) {
	c := validConfig()
	c.Task = "trian"
	c.PredictDrugsFile = "a"
	c.PredictProteinsFile = "b"
	assert.NoError(t, c.Validate())
}

func TestWithDimensions_ReturnsCopy(t *testing.T) {
	c := validConfig()
	d := Dimensions{DrugNum: 2, SubNum: 3, DomainNum: 4, ProteinNum: 5}
	withDims := c.WithDimensions(d)

	assert.Equal(t, d, withDims.Dims)
	assert.False(t, c.Dims.Known())
	assert.True(t, withDims.Dims.Known())
	assert.Equal(t, c.Drug2ProteinFile, withDims.Drug2ProteinFile)
}

func TestSettings(t *testing.T) {
	c := validConfig()
	c.Artifact.SecretKey = "hunter2"
	settings := c.Settings()
	require.Len(t, settings, len(options))

	byKey := make(map[string]Setting, len(settings))
	for _, s := range settings {
		byKey[s.Key] = s
	}

	alpha := byKey[KeyAlphaEB].Value
	assert.Equal(t, KindFloat, alpha.Kind())
	f, ok := alpha.Float()
	assert.True(t, ok)
	assert.Equal(t, 0.05, f)
	_, ok = alpha.Int()
	assert.False(t, ok)

	threads, ok := byKey[KeyThreadNum].Value.Int()
	assert.True(t, ok)
	assert.Equal(t, 1, threads)

	ll, ok := byKey[KeyLoglikelyRecord].Value.Bool()
	assert.True(t, ok)
	assert.False(t, ll)

	delims, ok := byKey[KeyInputDelims].Value.Str()
	assert.True(t, ok)
	assert.Equal(t, "\t,", delims)
	assert.Equal(t, `"\t,"`, byKey[KeyInputDelims].Value.String())

	secret, _ := byKey[KeyArtifactSecretKey].Value.Str()
	assert.Equal(t, "****", secret)
	assert.Equal(t, SourceDefault, byKey[KeyAlphaEB].Source)

	withDims := c.WithDimensions(Dimensions{DrugNum: 2, SubNum: 2, DomainNum: 2, ProteinNum: 3}).Settings()
	require.Len(t, withDims, len(options)+4)
	last := withDims[len(withDims)-1]
	assert.Equal(t, "proteinNum", last.Key)
	assert.Equal(t, SourceDerived, last.Source)
	assert.Equal(t, 3, last.Value.Interface())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "3", IntValue(3).String())
	assert.Equal(t, "0.0001", FloatValue(0.0001).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, `"train"`, StringValue("train").String())
	assert.Equal(t, "float", KindFloat.String())
}

func TestUsageAndKeys(t *testing.T) {
	assert.NotEmpty(t, Usage(KeyAlphaEB))
	assert.Empty(t, Usage("nope"))
	keys := Keys()
	assert.Equal(t, KeyDrug2Protein, keys[0])
	assert.Contains(t, keys, KeyEMIterationNum)
}

func TestLoad(t *testing.T) {
	ds := testutil.WriteDataset(t)
	path := ds.WriteConfig(t,
		"# priors",
		"alphaEB=0.1",
		"threadNum=4",
		`outputDelims=\t`,
		"chemFingerPrintRecord=ComFP: MACCS",
		"loglikelyRecord=true",
	)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Source())
	assert.Equal(t, ds.Drug2Protein, c.Drug2ProteinFile)
	assert.Equal(t, ds.DomainNames, c.DomainNameFile)
	assert.Equal(t, 0.1, c.AlphaEB)
	assert.Equal(t, DefaultBetaEB, c.BetaEB)
	assert.Equal(t, 4, c.ThreadNum)
	assert.Equal(t, "\t", c.OutputDelims)
	assert.Equal(t, DefaultDelims, c.InputDelims)
	assert.Equal(t, "ComFP: MACCS", c.ChemFingerPrintRecord)
	assert.True(t, c.LoglikelyRecord)
	assert.Equal(t, TaskTrain, c.Task)

	sources := make(map[string]Source)
	for _, s := range c.Settings() {
		sources[s.Key] = s.Source
	}
	assert.Equal(t, SourceExplicit, sources[KeyAlphaEB])
	assert.Equal(t, SourceDefault, sources[KeyBetaEB])
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	ds := testutil.WriteDataset(t)
	path := ds.WriteConfig(t, "betaEB=0.2")
	t.Setenv("GIFT_BETAEB", "0.3")
	t.Setenv("GIFT_THREADNUM", "8")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, c.BetaEB)
	assert.Equal(t, 8, c.ThreadNum)
}

func TestLoad_LegacyFingerPrintKey(t *testing.T) {
	ds := testutil.WriteDataset(t)
	c, err := Load(ds.WriteConfig(t, "proteinFingerPrintRecprd=Pfam: 2020-01"))
	require.NoError(t, err)
	assert.Equal(t, "Pfam: 2020-01", c.ProteinFingerPrintRecord)
}

func TestLoad_Errors(t *testing.T) {
	ds := testutil.WriteDataset(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigFile))

	_, err = Load(ds.WriteConfig(t, "alphaBE=0.1"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigFile))
	assert.Contains(t, err.Error(), "alphabe")

	_, err = Load(ds.WriteConfig(t, "threadNum=many"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigFile))

	_, err = Load(ds.WriteConfig(t, "alphaEB=0", "betaEB=0"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPrior))

	_, err = Load(ds.WriteConfig(t, "task=predict", "drugSub2proteinSubFileName=m.tsv"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAmbiguousPredictionTarget))

	path := testutil.WriteFile(t, t.TempDir(), "partial.conf", "drug2proteinFileName="+ds.Drug2Protein+"\n")
	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingFile))
}

func TestLoad_RejectsReferences(t *testing.T) {
	ds := testutil.WriteDataset(t)

	_, err := Load(ds.WriteConfig(t, "comProteinInteractionRecord=DrugBank ${release}"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigFile))
	assert.Contains(t, err.Error(), "comProteinInteractionRecord")

	_, err = Load(ds.WriteConfig(t, "outRecordFileName=${HOME}/CPIs"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigFile))
	assert.Contains(t, err.Error(), "outRecordFileName")

	c, err := Load(ds.WriteConfig(t, "# ${not} a value", "comProteinInteractionRecord=DrugBank $5 {x}"))
	require.NoError(t, err)
	assert.Equal(t, "DrugBank $5 {x}", c.ComProteinInteractionRecord)
}
