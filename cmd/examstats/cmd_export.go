package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var (
		flags  viewFlags
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the attempts of a period as csv, json or xlsx",
		Long: `Write the attempts of the selected period to exam-statistics-<date>.<format>
in the output directory. Exports of an empty selection fail.`,
		Example: `  examstats export --input attempts.json --format csv --out exports/
  examstats export -i attempts.json -f xlsx -p week --locale en`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stats.ExportFormat(format).Valid() {
				return fmt.Errorf("%w: %q", stats.ErrUnsupportedFormat, format)
			}

			q, err := flags.query(opts)
			if err != nil {
				return err
			}
			v, err := view(q)
			if err != nil {
				return err
			}

			attempts, err := readAttempts(cmd, opts, flags.input)
			if err != nil {
				return err
			}

			now := opts.now()
			file, err := stats.Export(stats.FilterByPeriod(attempts, v.Period, v.Custom, now), stats.ExportOptions{
				Format:   stats.ExportFormat(format),
				Period:   v.Period,
				Custom:   v.Custom,
				Locale:   v.Locale,
				Location: v.Location,
				Now:      now,
			})
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			path := filepath.Join(outDir, file.Filename)
			if err := os.WriteFile(path, file.Content, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d attempts to %s\n", file.Records, path)
			return nil
		},
	}

	flags.register(cmd, string(stats.PeriodAll))
	cmd.Flags().StringVarP(&format, "format", "f", string(stats.FormatCSV), "Export format: csv, json or xlsx")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory the export file is written to")

	return cmd
}
