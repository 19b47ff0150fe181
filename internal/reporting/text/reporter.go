package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

// NewReporterTo targets an explicit writer; tests use a buffer.
func NewReporterTo(cfg Config, w io.Writer, logger ports.Logger) *Reporter {
	if cfg.NoColor {
		color.NoColor = true
	}
	return &Reporter{config: cfg, writer: w, logger: logger}
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, outcomes []domain.Outcome) error {
	if len(outcomes) == 0 {
		fmt.Fprintln(r.writer, "No resources processed.")
		return nil
	}

	sorted := make([]domain.Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kind < sorted[j].Kind
	})

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(tw, "Reconciliation Report")
	fmt.Fprintln(tw, "=====================")
	fmt.Fprintln(tw, "Action\tKind\tDetails")
	fmt.Fprintln(tw, "------\t----\t-------")

	var changed, unchanged, planned, failed int

	for _, out := range sorted {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var label string
		switch out.Action {
		case domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted:
			label = green(string(out.Action))
			changed++
		case domain.ActionWouldCreate, domain.ActionWouldUpdate, domain.ActionWouldDelete:
			label = yellow(string(out.Action))
			planned++
		case domain.ActionFailed:
			label = red(string(out.Action))
			failed++
		default:
			label = cyan(string(out.Action))
			unchanged++
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", label, out.Kind, out.Message)
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Summary: %d changed, %d planned, %d unchanged, %d failed\n",
		changed, planned, unchanged, failed)
	return nil
}
