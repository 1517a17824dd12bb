// Package preparation turns a validated configuration into the relations,
// name indices and initial association matrix that the EM stage consumes.
package preparation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/songpeng/inferBind/internal/config"
	"github.com/songpeng/inferBind/internal/domain/association"
	"github.com/songpeng/inferBind/internal/domain/fingerprint"
	"github.com/songpeng/inferBind/internal/domain/nameindex"
	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/logging"
	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/prometheus"
	artifacts "github.com/songpeng/inferBind/internal/infrastructure/storage/minio"
	"github.com/songpeng/inferBind/pkg/errors"
)

// Stage names used in logs and metrics.
const (
	StageRelations   = "relations"
	StageNames       = "names"
	StageTargets     = "targets"
	StageAssociation = "association"
	StageExport      = "export"
)

// Options tune a Prepare call.
type Options struct {
	// Variance also computes the posterior variance matrix in training mode.
	Variance bool
}

// ExportOptions select what Export writes.  Empty paths fall back to the
// configured output files.
type ExportOptions struct {
	MatrixPath   string
	VariancePath string
	Publish      bool
}

// ExportedFile is a file written by Export.
type ExportedFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// ExportResult lists written files and, when published, their object names.
type ExportResult struct {
	Files   []ExportedFile `json:"files" yaml:"files"`
	Objects []string       `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// ArtifactPublisher uploads exported files.
type ArtifactPublisher interface {
	Publish(ctx context.Context, runID string, files []artifacts.Artifact) ([]string, error)
}

// Service prepares datasets.
type Service interface {
	Prepare(ctx context.Context, cfg *config.Config, opts Options) (*Dataset, error)
	Export(ctx context.Context, ds *Dataset, opts ExportOptions) (*ExportResult, error)
}

type serviceImpl struct {
	logger    logging.Logger
	metrics   *prometheus.PrepMetrics
	publisher ArtifactPublisher
}

// NewService creates a Service.  metrics and publisher may be nil.
func NewService(logger logging.Logger, metrics *prometheus.PrepMetrics, publisher ArtifactPublisher) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{logger: logger, metrics: metrics, publisher: publisher}
}

// startStage times stage into the stage histogram when metrics are enabled.
func (s *serviceImpl) startStage(stage string) *prometheus.Timer {
	if s.metrics == nil {
		return prometheus.NewTimer(nil)
	}
	return s.metrics.StageTimer(stage)
}

func (s *serviceImpl) stageDone(l logging.Logger, stage string, timer *prometheus.Timer, fields ...logging.Field) {
	logging.LogStageElapsed(l, stage, timer.ObserveDuration(), fields...)
}

// fail counts and logs err before handing it back.
func (s *serviceImpl) fail(l logging.Logger, err error) error {
	code := errors.GetCode(err)
	if s.metrics != nil {
		s.metrics.RecordError(string(code))
	}
	l.WithError(err).Error("preparation failed",
		logging.String("reason", errors.DefaultMessageForCode(code)))
	return err
}

// Prepare loads relations and name lists, derives the dimensions, reads the
// prediction targets and initializes the association matrix.  Every failure
// aborts the run; nothing partially built is returned.
func (s *serviceImpl) Prepare(ctx context.Context, cfg *config.Config, opts Options) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, s.fail(s.logger, err)
	}
	ds := &Dataset{RunID: uuid.NewString()}
	l := s.logger.With(logging.String(logging.FieldRunID, ds.RunID))
	l.Info("preparation started",
		logging.String("task", cfg.Task),
		logging.String("config", cfg.Source()))

	if err := s.loadRelations(l, cfg, ds); err != nil {
		return nil, s.fail(l, err)
	}
	dims := config.Dimensions{
		DrugNum:    ds.DrugToSub.Rows(),
		SubNum:     ds.DrugToSub.Cols(),
		ProteinNum: ds.ProteinToDomain.Rows(),
		DomainNum:  ds.ProteinToDomain.Cols(),
	}
	if err := checkInteractionShape(cfg, ds.DrugToProtein, dims); err != nil {
		return nil, s.fail(l, err)
	}
	ds.Config = cfg.WithDimensions(dims)
	logSettings(l, ds.Config)

	if err := s.loadNames(l, ds); err != nil {
		return nil, s.fail(l, err)
	}
	if ds.Config.Predicting() {
		if err := s.loadTargets(l, ds); err != nil {
			return nil, s.fail(l, err)
		}
	}
	if err := s.initAssociation(ctx, l, ds, opts); err != nil {
		return nil, s.fail(l, err)
	}

	l.Info("preparation finished",
		logging.Int("drugs", dims.DrugNum),
		logging.Int("proteins", dims.ProteinNum),
		logging.Int("substructures", dims.SubNum),
		logging.Int("domains", dims.DomainNum))
	return ds, nil
}

func (s *serviceImpl) loadRelations(l logging.Logger, cfg *config.Config, ds *Dataset) error {
	timer := s.startStage(StageRelations)
	sources := []struct {
		key  string
		path string
		dst  **fingerprint.Relation
	}{
		{config.KeyDrug2Protein, cfg.Drug2ProteinFile, &ds.DrugToProtein},
		{config.KeyDrug2Sub, cfg.Drug2SubFile, &ds.DrugToSub},
		{config.KeyProtein2Sub, cfg.Protein2SubFile, &ds.ProteinToDomain},
	}
	for _, src := range sources {
		r, err := fingerprint.Build(src.path, cfg.InputDelims)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeUnknown, src.key)
		}
		*src.dst = r
		if s.metrics != nil {
			s.metrics.RecordRelation(src.key, r.Edges())
		}
		l.Debug("relation loaded",
			logging.String("key", src.key),
			logging.String(logging.FieldPath, src.path),
			logging.Int("rows", r.Rows()),
			logging.Int("cols", r.Cols()),
			logging.Int("edges", r.Edges()))
	}
	ds.SubToDrug = ds.DrugToSub.Reverse()
	ds.DomainToProtein = ds.ProteinToDomain.Reverse()
	s.stageDone(l, StageRelations, timer)
	return nil
}

// checkInteractionShape requires the interaction matrix to span exactly the
// drugs and proteins of the fingerprint files.
func checkInteractionShape(cfg *config.Config, r *fingerprint.Relation, dims config.Dimensions) error {
	if r.Rows() == dims.DrugNum && r.Cols() == dims.ProteinNum {
		return nil
	}
	err := errors.MalformedInput(cfg.Drug2ProteinFile, 0, fmt.Sprintf(
		"matrix is %dx%d, want %d drugs (%s) x %d proteins (%s)",
		r.Rows(), r.Cols(), dims.DrugNum, config.KeyDrug2Sub, dims.ProteinNum, config.KeyProtein2Sub))
	return errors.Wrap(err, errors.ErrCodeUnknown, config.KeyDrug2Protein)
}

func (s *serviceImpl) loadNames(l logging.Logger, ds *Dataset) error {
	timer := s.startStage(StageNames)
	cfg := ds.Config
	lists := []struct {
		key  string
		path string
		ns   Namespace
		want int
		dst  **nameindex.Index
	}{
		{config.KeyDrugNames, cfg.DrugNameFile, NamespaceDrug, cfg.Dims.DrugNum, &ds.Drugs},
		{config.KeyProteinNames, cfg.ProteinNameFile, NamespaceProtein, cfg.Dims.ProteinNum, &ds.Proteins},
		{config.KeySubNames, cfg.SubNameFile, NamespaceSubstructure, cfg.Dims.SubNum, &ds.Substructures},
		{config.KeyDomainNames, cfg.DomainNameFile, NamespaceDomain, cfg.Dims.DomainNum, &ds.Domains},
	}
	for _, list := range lists {
		idx, err := nameindex.Build(list.path)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeUnknown, list.key)
		}
		if idx.Len() != list.want {
			err := errors.MalformedInput(list.path, 0,
				fmt.Sprintf("lists %d names, want %d %ss", idx.Len(), list.want, list.ns))
			return errors.Wrap(err, errors.ErrCodeUnknown, list.key)
		}
		*list.dst = idx
		if s.metrics != nil {
			s.metrics.RecordEntities(string(list.ns), idx.Len())
		}
	}
	s.stageDone(l, StageNames, timer)
	return nil
}

func (s *serviceImpl) loadTargets(l logging.Logger, ds *Dataset) error {
	timer := s.startStage(StageTargets)
	key, path := ds.Config.PredictionTarget()
	ns, index := NamespaceDrug, ds.Drugs
	if key == config.KeyPredictProteins {
		ns, index = NamespaceProtein, ds.Proteins
	}

	list, err := nameindex.Build(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnknown, key)
	}
	if list.Len() == 0 {
		return errors.AmbiguousPredictionTarget(key + " lists no names").WithDetail(path)
	}
	names := list.Names()
	indices, err := index.Resolve(names)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnknown, key)
	}
	ds.Targets = &Targets{Namespace: ns, Key: key, Names: names, Indices: indices}
	s.stageDone(l, StageTargets, timer,
		logging.String("namespace", string(ns)),
		logging.Int("targets", len(indices)))
	return nil
}

func (s *serviceImpl) initAssociation(ctx context.Context, l logging.Logger, ds *Dataset, opts Options) error {
	timer := s.startStage(StageAssociation)
	cfg := ds.Config
	mode := association.ModeForTask(cfg.Task)
	params := association.Params{
		Mode:       mode,
		MatrixFile: cfg.Sub2DomainFile,
		Delims:     cfg.InputDelims,
		Prior:      association.Prior{Alpha: cfg.AlphaEB, Beta: cfg.BetaEB},
		Workers:    cfg.ThreadNum,
		Variance:   opts.Variance,
	}
	inputs := association.Inputs{
		SubToDrug:       ds.SubToDrug,
		DomainToProtein: ds.DomainToProtein,
		DrugToProtein:   ds.DrugToProtein,
	}
	estOpts := []association.Option{association.WithLogger(l.Named("association"))}
	if s.metrics != nil {
		estOpts = append(estOpts, association.WithProgress(s.metrics.RowEstimated))
	}

	res, err := association.Initialize(ctx, params, inputs, estOpts...)
	if err != nil {
		if mode == association.ModeLoad {
			return errors.Wrap(err, errors.ErrCodeUnknown, config.KeySub2Domain)
		}
		return err
	}
	ds.Association = res
	if s.metrics != nil {
		s.metrics.RecordAssociation(mode.String(), cfg.Dims.SubNum*cfg.Dims.DomainNum)
	}
	lo, hi := res.Mean.Bounds()
	s.stageDone(l, StageAssociation, timer,
		logging.String("mode", mode.String()),
		logging.Float64("min", lo),
		logging.Float64("max", hi))
	return nil
}

// logSettings reports the resolved configuration on one line, each value
// logged with its own type.
func logSettings(l logging.Logger, cfg *config.Config) {
	settings := cfg.Settings()
	fields := make([]logging.Field, 0, len(settings))
	for _, st := range settings {
		fields = append(fields, settingField(st))
	}
	l.Info("configuration resolved", fields...)
}

func settingField(st config.Setting) logging.Field {
	v := st.Value
	switch v.Kind() {
	case config.KindInt:
		i, _ := v.Int()
		return logging.Int(st.Key, i)
	case config.KindFloat:
		f, _ := v.Float()
		return logging.Float64(st.Key, f)
	case config.KindBool:
		b, _ := v.Bool()
		return logging.Bool(st.Key, b)
	default:
		str, _ := v.Str()
		return logging.String(st.Key, str)
	}
}

// Export writes the association matrix, and the variance matrix when one was
// computed, using the output delimiter.  With opts.Publish the written files
// are uploaded under the run id.
func (s *serviceImpl) Export(ctx context.Context, ds *Dataset, opts ExportOptions) (*ExportResult, error) {
	timer := s.startStage(StageExport)
	l := s.logger.With(logging.String(logging.FieldRunID, ds.RunID))
	cfg := ds.Config

	matrixPath := firstNonEmpty(opts.MatrixPath, cfg.OutSub2DomainFile)
	variancePath := firstNonEmpty(opts.VariancePath, cfg.OutVarSub2DomainFile)
	if opts.Publish && s.publisher == nil {
		return nil, s.fail(l, errors.InvalidConfig(config.KeyArtifactEndpoint, "publishing requires an artifact store"))
	}

	res := &ExportResult{}
	if matrixPath != "" {
		if err := ds.Association.Mean.WriteFile(matrixPath, cfg.OutputDelims); err != nil {
			return nil, s.fail(l, errors.Wrap(err, errors.ErrCodeUnknown, config.KeyOutSub2Domain))
		}
		res.Files = append(res.Files, ExportedFile{Name: "association", Path: matrixPath})
	}
	if variancePath != "" {
		if ds.Association.Variance == nil {
			l.Warn("variance not computed, skipping export", logging.String(logging.FieldPath, variancePath))
		} else {
			if err := ds.Association.Variance.WriteFile(variancePath, cfg.OutputDelims); err != nil {
				return nil, s.fail(l, errors.Wrap(err, errors.ErrCodeUnknown, config.KeyOutVarSub2Domain))
			}
			res.Files = append(res.Files, ExportedFile{Name: "variance", Path: variancePath})
		}
	}

	if opts.Publish && len(res.Files) > 0 {
		files := make([]artifacts.Artifact, len(res.Files))
		for i, f := range res.Files {
			files[i] = artifacts.Artifact{Name: f.Name, Path: f.Path}
		}
		objects, err := s.publisher.Publish(ctx, ds.RunID, files)
		if err != nil {
			return nil, s.fail(l, err)
		}
		res.Objects = objects
	}

	s.stageDone(l, StageExport, timer, logging.Int("files", len(res.Files)))
	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
