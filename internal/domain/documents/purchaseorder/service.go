// Package purchaseorder provides the PurchaseOrder document service.
package purchaseorder

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/numerator"
	"orderflow/internal/core/status"
	"orderflow/internal/core/tx"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
	"orderflow/pkg/logger"
)

// Service provides business operations for purchase order documents.
type Service struct {
	repo      Repository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*PurchaseOrder]
}

// NewService creates a new purchase order service.
func NewService(repo Repository, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*PurchaseOrder](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PurchaseOrder] {
	return s.hooks
}

// Create creates a new purchase order in Draft. Numbers are dated with
// a daily counter (PO-20240101-001).
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
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
		number, err := s.numerator.GetNextNumber(ctx, numerator.DatedConfig("PO", 3), nil, time.Now())
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

	logger.Info(ctx, "purchase order created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a purchase order with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
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

// Update updates a purchase order. Items are bulk-replaced.
func (s *Service) Update(ctx context.Context, doc *PurchaseOrder) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if Machine.IsTerminal(status.State(doc.Status)) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
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

// Delete removes a Draft purchase order with its items and activity.
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

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically.
func (s *Service) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*PurchaseOrder, error) {
	var doc *PurchaseOrder
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

	logger.Info(ctx, "purchase order action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}
