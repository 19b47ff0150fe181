package json

import (
	"context"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
	"github.com/nasadm/truenasctl/internal/errors"
)

const ReporterTypeJSON = "json"

type Reporter struct {
	writer io.Writer
	logger ports.Logger
}

func NewReporter(logger ports.Logger) (*Reporter, error) {
	return &Reporter{writer: os.Stdout, logger: logger}, nil
}

func NewReporterTo(w io.Writer, logger ports.Logger) *Reporter {
	return &Reporter{writer: w, logger: logger}
}

type jsonReport struct {
	Summary  jsonSummary      `json:"summary"`
	Outcomes []domain.Outcome `json:"outcomes"`
}

type jsonSummary struct {
	Total     int `json:"total"`
	Changed   int `json:"changed"`
	Planned   int `json:"planned"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

func (r *Reporter) Report(ctx context.Context, outcomes []domain.Outcome) error {
	report := jsonReport{
		Summary:  jsonSummary{Total: len(outcomes)},
		Outcomes: outcomes,
	}
	if report.Outcomes == nil {
		report.Outcomes = []domain.Outcome{}
	}

	for _, out := range outcomes {
		switch out.Action {
		case domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted:
			report.Summary.Changed++
		case domain.ActionWouldCreate, domain.ActionWouldUpdate, domain.ActionWouldDelete:
			report.Summary.Planned++
		case domain.ActionFailed:
			report.Summary.Failed++
		default:
			report.Summary.Unchanged++
		}
	}

	enc := jsoniter.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encoding json report")
	}
	return nil
}
