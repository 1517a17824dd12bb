package cli

import (
	"github.com/spf13/cobra"

	"github.com/songpeng/inferBind/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigKeysCmd())
	return cmd
}

type settingRow struct {
	Key    string      `json:"key" yaml:"key"`
	Kind   string      `json:"kind" yaml:"kind"`
	Source string      `json:"source" yaml:"source"`
	Value  interface{} `json:"value" yaml:"value"`
	text   string
}

type settingsReport []settingRow

func (r settingsReport) TableHeaders() []string { return []string{"KEY", "KIND", "SOURCE", "VALUE"} }

func (r settingsReport) TableRows() [][]string {
	rows := make([][]string, len(r))
	for i, s := range r {
		rows[i] = []string{s.Key, s.Kind, s.Source, s.text}
	}
	return rows
}

func newSettingsReport(settings []config.Setting) settingsReport {
	report := make(settingsReport, len(settings))
	for i, s := range settings {
		report[i] = settingRow{
			Key:    s.Key,
			Kind:   s.Value.Kind().String(),
			Source: s.Source.String(),
			Value:  s.Value.Interface(),
			text:   s.Value.String(),
		}
	}
	return report
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every option with its resolved value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg, err := cliCtx.LoadConfig()
			if err != nil {
				return err
			}
			return PrintResult(cmd, newSettingsReport(cfg.Settings()))
		},
	}
}

type keyRow struct {
	Key   string `json:"key" yaml:"key"`
	Usage string `json:"usage" yaml:"usage"`
}

type keysReport []keyRow

func (r keysReport) TableHeaders() []string { return []string{"KEY", "USAGE"} }

func (r keysReport) TableRows() [][]string {
	rows := make([][]string, len(r))
	for i, k := range r {
		rows[i] = []string{k.Key, k.Usage}
	}
	return rows
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List recognized configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := config.Keys()
			report := make(keysReport, len(keys))
			for i, k := range keys {
				report[i] = keyRow{Key: k, Usage: config.Usage(k)}
			}
			return PrintResult(cmd, report)
		},
	}
}
