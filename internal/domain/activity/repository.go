package activity

import (
	"context"

	"orderflow/internal/core/id"
)

// Repository persists history entries, comments and attachments.
type Repository interface {
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	ListHistory(ctx context.Context, docType string, docID id.ID) ([]HistoryEntry, error)

	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, docType string, docID id.ID) ([]Comment, error)

	AddAttachment(ctx context.Context, attachment *Attachment) error
	ListAttachments(ctx context.Context, docType string, docID id.ID) ([]Attachment, error)

	// DeleteForDocument removes all activity rows of a document.
	// Used when a draft document is deleted.
	DeleteForDocument(ctx context.Context, docType string, docID id.ID) error
}
