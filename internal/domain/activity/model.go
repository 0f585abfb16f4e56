// Package activity tracks per-document history, comments and attachments.
// Entries are keyed by (doc_type, doc_id) so every document type shares
// the same tables.
package activity

import (
	"context"
	"time"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
)

// HistoryEntry records one applied action on a document.
type HistoryEntry struct {
	ID        id.ID     `db:"id" json:"id"`
	DocType   string    `db:"doc_type" json:"docType"`
	DocID     id.ID     `db:"doc_id" json:"docId"`
	Action    string    `db:"action" json:"action"`
	FromState string    `db:"from_state" json:"fromState"`
	ToState   string    `db:"to_state" json:"toState"`
	Actor     string    `db:"actor" json:"actor"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Comment is a free-form user note on a document.
type Comment struct {
	ID        id.ID     `db:"id" json:"id"`
	DocType   string    `db:"doc_type" json:"docType"`
	DocID     id.ID     `db:"doc_id" json:"docId"`
	Body      string    `db:"body" json:"body"`
	Author    string    `db:"author" json:"author"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks comment invariants.
func (c *Comment) Validate(_ context.Context) error {
	if c.Body == "" {
		return apperror.NewValidation("comment body is required")
	}
	return nil
}

// Attachment is file metadata linked to a document. The payload itself
// lives in external storage; only the reference is kept here.
type Attachment struct {
	ID         id.ID     `db:"id" json:"id"`
	DocType    string    `db:"doc_type" json:"docType"`
	DocID      id.ID     `db:"doc_id" json:"docId"`
	FileName   string    `db:"file_name" json:"fileName"`
	FileSize   int64     `db:"file_size" json:"fileSize"`
	StorageKey string    `db:"storage_key" json:"storageKey"`
	UploadedBy string    `db:"uploaded_by" json:"uploadedBy"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks attachment invariants.
func (a *Attachment) Validate(_ context.Context) error {
	if a.FileName == "" {
		return apperror.NewValidation("file name is required")
	}
	if a.StorageKey == "" {
		return apperror.NewValidation("storage key is required")
	}
	return nil
}
