package ports

import (
	"context"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

// CheckUseCase is the driving port for running a database separation check.
type CheckUseCase interface {
	Check(ctx context.Context) (domain.Report, error)
}
