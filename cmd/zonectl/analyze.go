package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"workshopzones/internal/model"
)

type analyzeOptions struct {
	RosterPath   string
	GroupID      string
	PreferStored bool
	Summary      bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify every respondent of a roster and report the group zones",
		Example: `  zonectl analyze --roster roster.json --group team-7
  zonectl analyze --roster roster.yaml -o yaml
  cat roster.json | zonectl analyze --roster -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := readRoster(cmd.InOrStdin(), opts.RosterPath)
			if err != nil {
				return err
			}
			engine, err := root.engine(opts.PreferStored)
			if err != nil {
				return err
			}

			result := engine.Analyze(roster, opts.GroupID)
			if opts.Summary {
				result.Respondents = []model.RespondentResult{}
			}

			out := cmd.OutOrStdout()
			if root.Output != formatTable {
				return encode(out, root.Output, result)
			}
			return renderAnalysis(out, &result)
		},
	}

	cmd.Flags().StringVarP(&opts.RosterPath, "roster", "r", "", "roster file (.json, .yaml or - for JSON on stdin)")
	cmd.Flags().StringVarP(&opts.GroupID, "group", "g", "workshop", "workshop id to report")
	cmd.Flags().BoolVar(&opts.PreferStored, "prefer-stored", false, "vote with stored zone labels even when answers are present")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "omit per-respondent results")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

// rosterEnvelope is the object form of a roster file
type rosterEnvelope struct {
	Respondents []model.RosterRecord `json:"respondents" yaml:"respondents"`
}

// readRoster accepts a bare list of records or an object with a
// "respondents" list, as JSON or YAML depending on the file extension
func readRoster(stdin io.Reader, path string) ([]model.RosterRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("roster is empty")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var list []model.RosterRecord
		if err := yaml.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		var env rosterEnvelope
		if err := yaml.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode roster: %w", err)
		}
		return env.Respondents, nil
	default:
		if data[0] == '[' {
			var list []model.RosterRecord
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, fmt.Errorf("decode roster: %w", err)
			}
			return list, nil
		}
		var env rosterEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode roster: %w", err)
		}
		return env.Respondents, nil
	}
}

func renderAnalysis(w io.Writer, r *model.GroupAnalysisResult) error {
	var buf strings.Builder

	fmt.Fprintf(&buf, "\n=== Workshop %s ===\n\n", r.GroupID)

	group := newTable("", "A", "B", "C", "D", "Zone")
	group.Row(append([]string{"Mean score"}, scoreCells(r.GroupScores)...)...)
	group.Row(countRow("Votes", r.ZoneCounts, r.ZoneByCount)...)
	group.Row("Mean zone", "", "", "", "", r.ZoneByAverage.String())
	buf.WriteString(group.String())
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "Respondents: %d (valid %d, voting %d)\n",
		r.RespondentCount, r.ValidRespondentCount, r.VotingRespondentCount)
	if r.Divergent {
		buf.WriteString(warnStyle.Render("Mean zone and vote zone disagree"))
		buf.WriteString("\n")
	}

	if len(r.Respondents) > 0 {
		buf.WriteString("\n")
		people := newTable("Respondent", "Name", "A", "B", "C", "D", "Zone", "Answered")
		for _, res := range r.Respondents {
			row := []string{res.RespondentID, res.Name}
			row = append(row, scoreCells(res.Scores)...)
			row = append(row, res.Zone.String(), strconv.Itoa(res.AnsweredItems))
			people.Row(row...)
		}
		buf.WriteString(people.String())
		buf.WriteString("\n")
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func scoreCells(s model.CategoryScores) []string {
	cells := make([]string, 0, len(model.CanonicalOrder))
	for _, c := range model.CanonicalOrder {
		cells = append(cells, strconv.FormatFloat(s.Get(c), 'f', 2, 64))
	}
	return cells
}

func countRow(label string, z model.ZoneCounts, zone model.ZoneAssignment) []string {
	row := []string{label}
	for _, c := range model.CanonicalOrder {
		row = append(row, strconv.Itoa(z.Get(c)))
	}
	return append(row, zone.String())
}
