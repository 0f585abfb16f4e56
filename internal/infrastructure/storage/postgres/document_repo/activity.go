package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/infrastructure/storage/postgres"
)

// ActivityRepo persists document history, comments and attachments in
// shared tables keyed by (doc_type, doc_id).
type ActivityRepo struct {
	txManager *postgres.TxManager
}

var _ activity.Repository = (*ActivityRepo)(nil)

// NewActivityRepo creates an activity repository.
func NewActivityRepo(txManager *postgres.TxManager) *ActivityRepo {
	return &ActivityRepo{txManager: txManager}
}

func (r *ActivityRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ActivityRepo) insert(ctx context.Context, table string, row any) error {
	data := postgres.StructToMap(row)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in row")
	}

	q := r.builder().
		Insert(table).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// AppendHistory records one applied action.
func (r *ActivityRepo) AppendHistory(ctx context.Context, entry *activity.HistoryEntry) error {
	return r.insert(ctx, "document_history", entry)
}

// ListHistory returns the action log for a document, oldest first.
func (r *ActivityRepo) ListHistory(ctx context.Context, docType string, docID id.ID) ([]activity.HistoryEntry, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[activity.HistoryEntry]()...).
		From("document_history").
		Where(squirrel.Eq{"doc_type": docType, "doc_id": docID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []activity.HistoryEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select document_history: %w", err)
	}
	return entries, nil
}

// AddComment stores a comment.
func (r *ActivityRepo) AddComment(ctx context.Context, comment *activity.Comment) error {
	return r.insert(ctx, "document_comments", comment)
}

// ListComments returns comments for a document, oldest first.
func (r *ActivityRepo) ListComments(ctx context.Context, docType string, docID id.ID) ([]activity.Comment, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[activity.Comment]()...).
		From("document_comments").
		Where(squirrel.Eq{"doc_type": docType, "doc_id": docID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var comments []activity.Comment
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &comments, sql, args...); err != nil {
		return nil, fmt.Errorf("select document_comments: %w", err)
	}
	return comments, nil
}

// AddAttachment stores attachment metadata.
func (r *ActivityRepo) AddAttachment(ctx context.Context, attachment *activity.Attachment) error {
	return r.insert(ctx, "document_attachments", attachment)
}

// ListAttachments returns attachment metadata for a document, oldest first.
func (r *ActivityRepo) ListAttachments(ctx context.Context, docType string, docID id.ID) ([]activity.Attachment, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[activity.Attachment]()...).
		From("document_attachments").
		Where(squirrel.Eq{"doc_type": docType, "doc_id": docID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var attachments []activity.Attachment
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &attachments, sql, args...); err != nil {
		return nil, fmt.Errorf("select document_attachments: %w", err)
	}
	return attachments, nil
}

// DeleteForDocument removes all activity rows of a document.
func (r *ActivityRepo) DeleteForDocument(ctx context.Context, docType string, docID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)
	for _, table := range []string{"document_history", "document_comments", "document_attachments"} {
		q := r.builder().
			Delete(table).
			Where(squirrel.Eq{"doc_type": docType, "doc_id": docID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
