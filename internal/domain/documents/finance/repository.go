package finance

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// CreditNoteRepository defines operations for credit notes.
type CreditNoteRepository interface {
	Create(ctx context.Context, doc *CreditNote) error
	GetByID(ctx context.Context, docID id.ID) (*CreditNote, error)
	GetByNumber(ctx context.Context, number string) (*CreditNote, error)
	Update(ctx context.Context, doc *CreditNote) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]NoteItem, error)
	SaveLines(ctx context.Context, docID id.ID, lines []NoteItem) error

	GetRefund(ctx context.Context, docID id.ID) (*Refund, error)
	SaveRefund(ctx context.Context, refund *Refund) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*CreditNote], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*CreditNote, error)
}

// DebitNoteRepository defines operations for debit notes.
type DebitNoteRepository interface {
	Create(ctx context.Context, doc *DebitNote) error
	GetByID(ctx context.Context, docID id.ID) (*DebitNote, error)
	GetByNumber(ctx context.Context, number string) (*DebitNote, error)
	Update(ctx context.Context, doc *DebitNote) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]NoteItem, error)
	SaveLines(ctx context.Context, docID id.ID, lines []NoteItem) error

	GetRecover(ctx context.Context, docID id.ID) (*Recover, error)
	SaveRecover(ctx context.Context, recover *Recover) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*DebitNote], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*DebitNote, error)
}

// ListFilter for filtering credit and debit notes.
type ListFilter struct {
	domain.ListFilter

	PartyID       *id.ID
	SourceID      *id.ID
	PaymentStatus string
	DateFrom      *time.Time
	DateTo        *time.Time
}
