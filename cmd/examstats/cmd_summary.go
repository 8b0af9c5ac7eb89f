package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	var (
		flags  viewFlags
		output string
		metric string
		sort   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the statistics report of an attempts file",
		Long: `Print the statistics report for the selected period: summary metrics,
score distribution, chart series, weekly progress, level and rank.`,
		Example: `  examstats summary --input attempts.json --period month
  examstats summary -i attempts.json -p custom --start 2025-01-01 --end 2025-01-31 -o table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query(opts)
			if err != nil {
				return err
			}
			q.Metric = metric
			q.Sort = sort

			v, err := view(q)
			if err != nil {
				return err
			}

			attempts, err := readAttempts(cmd, opts, flags.input)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				return errNoAttempts
			}

			report := stats.BuildReport(attempts, v, opts.now())
			return writeReport(cmd.OutOrStdout(), report, output)
		},
	}

	flags.register(cmd, string(stats.PeriodMonth))
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json, yaml or table")
	cmd.Flags().StringVar(&metric, "metric", string(stats.MetricScore), "Chart metric: score, time or completion")
	cmd.Flags().StringVar(&sort, "sort", string(stats.SortDateDesc), "Attempt order: date_desc, date_asc, score_desc or score_asc")

	return cmd
}

func writeReport(w io.Writer, report stats.Report, output string) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case outputYAML:
		return writeYAML(w, report)
	case outputTable:
		return writeTable(w, report)
	default:
		return fmt.Errorf("unknown output format %q: use json, yaml or table", output)
	}
}

// writeYAML renders v with its JSON field names and order.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow style JSON input parses into.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func writeTable(w io.Writer, report stats.Report) error {
	s := report.Summary
	rows := [][2]string{
		{"period", string(report.Period)},
		{"total_attempts", strconv.Itoa(s.TotalAttempts)},
		{"average_score", strconv.FormatFloat(s.AverageScore, 'f', 1, 64)},
		{"highest_score", strconv.Itoa(s.HighestScore)},
		{"lowest_score", strconv.Itoa(s.LowestScore)},
		{"total_time", strconv.Itoa(s.TotalTime)},
		{"average_time", strconv.Itoa(s.AverageTime)},
		{"success_rate", strconv.FormatFloat(s.SuccessRate, 'f', 1, 64)},
		{"improvement_trend", strconv.FormatFloat(s.ImprovementTrend, 'f', 1, 64)},
		{"level", report.Level.Label},
		{"rank", report.Rank.Icon + " " + report.Rank.Label},
	}
	for _, d := range report.Distribution {
		rows = append(rows, [2]string{d.Label, fmt.Sprintf("%d (%.1f%%)", d.Count, d.Percentage)})
	}
	for _, wk := range report.Weekly {
		rows = append(rows, [2]string{wk.Week, fmt.Sprintf("%d attempts, %.1f", wk.Count, wk.Score)})
	}

	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r[0]))
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(padRight(r[0], width))
		b.WriteString("  ")
		b.WriteString(r[1])
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
