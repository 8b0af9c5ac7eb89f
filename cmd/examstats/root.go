package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/services"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/SAP-F-2025/exam-prep-service/internal/utils"
	"github.com/SAP-F-2025/exam-prep-service/internal/validator"
	"github.com/spf13/cobra"
)

var version = "dev"

var errNoAttempts = errors.New("no completed attempts in input")

const dateFlagLayout = "2006-01-02"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	locale   string
	timezone string
	now      func() time.Time
	logger   utils.Logger
}

// viewFlags select the attempts a command works on.
type viewFlags struct {
	input  string
	period string
	start  string
	end    string
}

func (f *viewFlags) register(cmd *cobra.Command, defaultPeriod string) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", "Attempts JSON file, - for stdin")
	cmd.Flags().StringVarP(&f.period, "period", "p", defaultPeriod, "week, month, quarter, year, all or custom")
	cmd.Flags().StringVar(&f.start, "start", "", "First day of a custom period (yyyy-mm-dd)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day of a custom period (yyyy-mm-dd)")
}

// query turns the flags into the same query the HTTP API accepts.
func (f *viewFlags) query(opts *globalOptions) (*models.StatsQuery, error) {
	q := &models.StatsQuery{
		Period:   f.period,
		Locale:   opts.locale,
		Timezone: opts.timezone,
	}
	var err error
	if q.Start, err = parseDateFlag("start", f.start); err != nil {
		return nil, err
	}
	if q.End, err = parseDateFlag("end", f.end); err != nil {
		return nil, err
	}
	return q, nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFlagLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected yyyy-mm-dd", name, value)
	}
	return &t, nil
}

// view validates q and resolves it into a view configuration.
func view(q *models.StatsQuery) (stats.ViewConfig, error) {
	if err := validator.New().Validate(q); err != nil {
		return stats.ViewConfig{}, err
	}
	return services.ViewConfigFromQuery(q, stats.LocaleFor(q.Locale), time.UTC)
}

// readAttempts loads and validates the attempts file. Malformed records are
// skipped the same way the service skips them.
func readAttempts(cmd *cobra.Command, opts *globalOptions, path string) ([]stats.Attempt, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading attempts: %w", err)
	}

	attempts, err := stats.ValidateJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing attempts: %w", err)
	}
	opts.logger.Debug("attempts loaded", "path", path, "valid", len(attempts))
	return attempts, nil
}

func newRootCommand() *cobra.Command {
	return newRootCommandAt(time.Now)
}

// newRootCommandAt builds the command tree with the given clock.
func newRootCommandAt(now func() time.Time) *cobra.Command {
	opts := &globalOptions{now: now, logger: utils.NewTextLogger(os.Stderr, slog.LevelWarn)}

	cmd := &cobra.Command{
		Use:   "examstats",
		Short: "Offline exam attempt statistics",
		Long: `examstats computes the statistics report and the exports of the exam prep
service from an attempts JSON file, without a database.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.locale, "locale", "ar", "Label language: ar or en")
	cmd.PersistentFlags().StringVar(&opts.timezone, "tz", "UTC", "IANA timezone for dates")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if *debugLogging {
			level = slog.LevelDebug
		}
		opts.logger = utils.NewTextLogger(cmd.ErrOrStderr(), level)
	}

	cmd.AddCommand(newSummaryCommand(opts))
	cmd.AddCommand(newExportCommand(opts))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
