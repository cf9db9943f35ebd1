package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"workshopzones/internal/scoring"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// rootOptions holds the flags shared by every subcommand
type rootOptions struct {
	Output         string
	InstrumentPath string
	ScaleMin       int
	ScaleMax       int
	Epsilon        float64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "zonectl",
		Short:   "Score workshop questionnaire rosters offline",
		Long:    "zonectl classifies respondents into A/B/C/D zones and reports both group\nreadings: the zone of the mean scores and the plurality of individual zones.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.Output {
			case formatTable, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (table, json, yaml)", opts.Output)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := scoring.DefaultOptions()
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.Output, "output", "o", formatTable, "output format (table, json, yaml)")
	pf.StringVar(&opts.InstrumentPath, "instrument", "", "YAML question map (default: built-in 36 items)")
	pf.IntVar(&opts.ScaleMin, "scale-min", defaults.ScaleMin, "lowest answer on the scale")
	pf.IntVar(&opts.ScaleMax, "scale-max", defaults.ScaleMax, "highest answer on the scale")
	pf.Float64Var(&opts.Epsilon, "epsilon", defaults.Epsilon, "tie tolerance between category scores")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newInstrumentCmd(opts),
	)
	return cmd
}

// engine builds a scoring engine from the shared flags
func (o *rootOptions) engine(preferStored bool) (*scoring.Engine, error) {
	var qm *scoring.QuestionMap
	if o.InstrumentPath != "" {
		f, err := os.Open(o.InstrumentPath)
		if err != nil {
			return nil, fmt.Errorf("open instrument: %w", err)
		}
		defer f.Close()
		if qm, err = scoring.LoadQuestionMap(f); err != nil {
			return nil, fmt.Errorf("load instrument: %w", err)
		}
	}
	return scoring.NewEngine(qm, scoring.Options{
		ScaleMin:           o.ScaleMin,
		ScaleMax:           o.ScaleMax,
		Epsilon:            o.Epsilon,
		PreferStoredLabels: preferStored,
	}), nil
}

// encode writes v as JSON or YAML
func encode(w io.Writer, format string, v interface{}) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
