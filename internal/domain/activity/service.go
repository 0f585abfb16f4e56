package activity

import (
	"context"
	"time"

	"orderflow/internal/core/id"
)

// Service provides document activity operations. Append runs inside
// whatever transaction is on the context, so history lands atomically
// with the status change that caused it.
type Service struct {
	repo Repository
}

// NewService creates an activity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append records an applied action for a document.
func (s *Service) Append(ctx context.Context, docType string, docID id.ID, action, fromState, toState, actor string) error {
	return s.repo.AppendHistory(ctx, &HistoryEntry{
		ID:        id.New(),
		DocType:   docType,
		DocID:     docID,
		Action:    action,
		FromState: fromState,
		ToState:   toState,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	})
}

// History returns the action log for a document, oldest first.
func (s *Service) History(ctx context.Context, docType string, docID id.ID) ([]HistoryEntry, error) {
	return s.repo.ListHistory(ctx, docType, docID)
}

// AddComment stores a user comment on a document.
func (s *Service) AddComment(ctx context.Context, docType string, docID id.ID, body, author string) (*Comment, error) {
	c := &Comment{
		ID:        id.New(),
		DocType:   docType,
		DocID:     docID,
		Body:      body,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Comments returns comments for a document, oldest first.
func (s *Service) Comments(ctx context.Context, docType string, docID id.ID) ([]Comment, error) {
	return s.repo.ListComments(ctx, docType, docID)
}

// AddAttachment stores attachment metadata for a document.
func (s *Service) AddAttachment(ctx context.Context, a *Attachment) error {
	if id.IsNil(a.ID) {
		a.ID = id.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if err := a.Validate(ctx); err != nil {
		return err
	}
	return s.repo.AddAttachment(ctx, a)
}

// Attachments returns attachment metadata for a document.
func (s *Service) Attachments(ctx context.Context, docType string, docID id.ID) ([]Attachment, error) {
	return s.repo.ListAttachments(ctx, docType, docID)
}

// DeleteForDocument removes all activity rows of a document.
func (s *Service) DeleteForDocument(ctx context.Context, docType string, docID id.ID) error {
	return s.repo.DeleteForDocument(ctx, docType, docID)
}
