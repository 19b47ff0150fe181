package ports

import (
	"context"

	"github.com/nasadm/truenasctl/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, outcomes []domain.Outcome) error
}
