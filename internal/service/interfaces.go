// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/normalize"
)

// RecordFilter defines paging options for record queries.
type RecordFilter struct {
	Query  string
	Limit  int
	Offset int
}

// RecordPage is one page of records plus the total match count.
type RecordPage struct {
	Records []model.SARRecord
	Total   int
	Limit   int
	Offset  int
}

// RecordStore defines the contract for the SAR record persistence layer.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec *model.SARRecord) error
	GetRecord(ctx context.Context, id string) (*model.SARRecord, error)
	SearchRecords(ctx context.Context, filter RecordFilter) (*RecordPage, error)
	CountRecords(ctx context.Context) (int, error)
	DeleteRecord(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// XMLGenerator produces a FinCEN Form 8300 batch document for one record.
type XMLGenerator interface {
	Build(rec normalize.Record, recordID string) ([]byte, error)
}

// PDFGenerator produces a SAR PDF for one record. template may be nil,
// meaning no fillable template is available.
type PDFGenerator interface {
	Generate(rec normalize.Record, recordID string, template []byte) ([]byte, error)
}

// RetryOptions configures retry behavior for transient failures.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
