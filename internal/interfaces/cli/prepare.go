package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/songpeng/inferBind/internal/application/preparation"
	"github.com/songpeng/inferBind/internal/config"
	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/logging"
	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/prometheus"
	artifacts "github.com/songpeng/inferBind/internal/infrastructure/storage/minio"
	"github.com/songpeng/inferBind/pkg/errors"
)

type prepareOptions struct {
	variance       bool
	exportMatrix   string
	exportVariance string
	metricsFile    string
	metricsRuntime bool
	publish        bool
}

// NewPrepareCmd creates the prepare command.
func NewPrepareCmd() *cobra.Command {
	opts := &prepareOptions{}
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Load inputs and initialize the association matrix",
		Long: "prepare loads the relations and name lists named by the configuration,\n" +
			"derives the namespace sizes and initializes the substructure-domain\n" +
			"association matrix: estimated from co-occurrence counts when training,\n" +
			"loaded from drugSub2proteinSubFileName when task=predict.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.variance, "variance", false, "also compute the posterior variance of every cell")
	f.StringVar(&opts.exportMatrix, "export-matrix", "", "write the association matrix here (overrides "+config.KeyOutSub2Domain+")")
	f.StringVar(&opts.exportVariance, "export-variance", "", "write the variance matrix here (overrides "+config.KeyOutVarSub2Domain+")")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics to this node_exporter textfile")
	f.BoolVar(&opts.metricsRuntime, "metrics-runtime", false, "include Go runtime metrics (heap, GC, goroutines) in the metrics textfile")
	f.BoolVar(&opts.publish, "publish", false, "upload exported files to the artifact store")
	return cmd
}

// prepareResult is the printable outcome of prepare.
type prepareResult struct {
	Summary preparation.Summary       `json:"summary" yaml:"summary"`
	Export  *preparation.ExportResult `json:"export,omitempty" yaml:"export,omitempty"`
}

func (r prepareResult) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (r prepareResult) TableRows() [][]string {
	s := r.Summary
	rows := [][]string{
		{"run_id", s.RunID},
		{"task", s.Task},
		{"mode", s.Mode},
		{"drugs", strconv.Itoa(s.Drugs)},
		{"proteins", strconv.Itoa(s.Proteins)},
		{"substructures", strconv.Itoa(s.Substructure)},
		{"domains", strconv.Itoa(s.Domains)},
	}
	for _, key := range []string{config.KeyDrug2Protein, config.KeyDrug2Sub, config.KeyProtein2Sub} {
		rows = append(rows, []string{"edges." + key, strconv.Itoa(s.Edges[key])})
	}
	if s.Targets > 0 {
		rows = append(rows, []string{"targets", strconv.Itoa(s.Targets)})
	}
	rows = append(rows,
		[]string{"cell_range", fmt.Sprintf("[%g, %g]", s.MinCell, s.MaxCell)},
		[]string{"variance", strconv.FormatBool(s.Variance)},
	)
	if r.Export != nil {
		for _, f := range r.Export.Files {
			rows = append(rows, []string{"exported." + f.Name, f.Path})
		}
		if len(r.Export.Objects) > 0 {
			rows = append(rows, []string{"published", strings.Join(r.Export.Objects, ", ")})
		}
	}
	return rows
}

func runPrepare(cmd *cobra.Command, opts *prepareOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	logger := cliCtx.Logger
	defer func() { _ = logger.Sync() }()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:       prometheus.Namespace,
		Subsystem:       prometheus.Subsystem,
		EnableGoMetrics: opts.metricsRuntime,
	}, logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewPrepMetrics(collector)
	if opts.metricsFile != "" {
		defer func() {
			if werr := collector.WriteTextfile(opts.metricsFile); werr != nil {
				logger.Warn("metrics textfile not written", logging.Err(werr))
			}
		}()
	}

	cfg, err := cliCtx.LoadConfig()
	if err != nil {
		metrics.RecordError(string(errors.GetCode(err)))
		return err
	}

	var publisher preparation.ArtifactPublisher
	if opts.publish {
		if !cfg.Artifact.Enabled() {
			return errors.InvalidConfig(config.KeyArtifactEndpoint, "required by --publish")
		}
		store, err := artifacts.NewArtifactStore(minioConfig(cfg), logger)
		if err != nil {
			return err
		}
		publisher = store
	}

	ctx, cancel := cliCtx.WithTimeout(cmd.Context())
	defer cancel()

	svc := preparation.NewService(logger, metrics, publisher)
	variance := opts.variance || opts.exportVariance != "" || cfg.OutVarSub2DomainFile != ""
	ds, err := svc.Prepare(ctx, cfg, preparation.Options{Variance: variance})
	if err != nil {
		return err
	}

	result := prepareResult{Summary: ds.Summary()}
	exportOpts := preparation.ExportOptions{
		MatrixPath:   opts.exportMatrix,
		VariancePath: opts.exportVariance,
		Publish:      opts.publish,
	}
	if wantsExport(cfg, exportOpts) {
		exported, err := svc.Export(ctx, ds, exportOpts)
		if err != nil {
			return err
		}
		result.Export = exported
	}
	return PrintResult(cmd, result)
}

func wantsExport(cfg *config.Config, opts preparation.ExportOptions) bool {
	return opts.Publish || opts.MatrixPath != "" || opts.VariancePath != "" ||
		cfg.OutSub2DomainFile != "" || cfg.OutVarSub2DomainFile != ""
}

func minioConfig(cfg *config.Config) artifacts.MinIOConfig {
	return artifacts.MinIOConfig{
		Endpoint:        cfg.Artifact.Endpoint,
		AccessKeyID:     cfg.Artifact.AccessKey,
		SecretAccessKey: cfg.Artifact.SecretKey,
		UseSSL:          cfg.Artifact.UseSSL,
		Region:          cfg.Artifact.Region,
		Bucket:          cfg.Artifact.Bucket,
		Prefix:          cfg.Artifact.Prefix,
	}
}
