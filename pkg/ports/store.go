package ports

import (
	"context"

	"github.com/aretw0/hpos-config/pkg/domain"
)

// ReportStore defines the interface for persisting validation reports.
// Reports are addressed by domain.Report.ID.
type ReportStore interface {
	// Save persists the report under report.ID, replacing any previous one.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves the report for a given ID.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, id string) (*domain.Report, error)

	// Delete removes the report for a given ID. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored reports.
	List(ctx context.Context) ([]string, error)
}
