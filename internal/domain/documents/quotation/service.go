// Package quotation provides the Quotation document service.
package quotation

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/notify"
	"orderflow/internal/core/numerator"
	"orderflow/internal/core/status"
	"orderflow/internal/core/tx"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
	"orderflow/pkg/logger"
)

// Service provides business operations for quotation documents.
type Service struct {
	repo      Repository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
	mailer    notify.Mailer
	hooks     *domain.HookRegistry[*Quotation]
}

// NewService creates a new quotation service.
func NewService(repo Repository, act *activity.Service, gen numerator.Generator, txManager tx.Manager, mailer notify.Mailer) *Service {
	return &Service{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
		mailer:    mailer,
		hooks:     domain.NewHookRegistry[*Quotation](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Quotation] {
	return s.hooks
}

// Create creates a new quotation in Draft.
func (s *Service) Create(ctx context.Context, doc *Quotation) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = string(Machine.Initial())
	}
	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.CompactConfig("QUO", 3), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "quotation created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a quotation with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Quotation, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Items = items
	return doc, nil
}

// Update updates a quotation. Items are bulk-replaced. Editing a
// quotation that already left Draft bumps the revise counter.
func (s *Service) Update(ctx context.Context, doc *Quotation) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if Machine.IsTerminal(status.State(doc.Status)) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
	}

	if doc.Status != string(StatusDraft) {
		doc.ReviseCount++
	}

	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete removes a Draft quotation with its items and activity.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.activity.DeleteForDocument(ctx, DocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
}

// List retrieves quotations with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quotation], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action to the quotation and appends a history
// entry in the same transaction.
func (s *Service) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*Quotation, error) {
	var doc *Quotation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		from := d.Status
		next, err := Machine.Apply(status.State(from), action)
		if err != nil {
			return err
		}
		d.Status = string(next)

		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.activity.Append(ctx, DocType, d.ID, string(action), from, d.Status, actor); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quotation action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}

// SendEmail mails the quotation to the given recipients. Failures are
// logged, never retried, and never fail the caller.
func (s *Service) SendEmail(ctx context.Context, docID id.ID, to []string) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Quotation %s", doc.Number)
	body := fmt.Sprintf(
		"<p>Please find quotation <b>%s</b> dated %s.</p><p>Grand total: %s %s</p>",
		doc.Number, doc.Date.Format("2006-01-02"), doc.GrandTotal.StringFixed(2), doc.Currency)

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		logger.Warn(ctx, "quotation email failed", "id", docID, "error", err)
	}
	return nil
}
