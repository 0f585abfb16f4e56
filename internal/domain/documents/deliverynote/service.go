// Package deliverynote provides the DeliveryNote document service.
package deliverynote

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

// SerialClaimer claims serial numbers from a stock receipt ledger on
// behalf of a delivery note item. Implemented by the stock receipt
// service.
type SerialClaimer interface {
	ClaimSerials(ctx context.Context, receiptItemID, productID id.ID, serialIDs []id.ID, claimedBy string, claimRef id.ID) error
	ReleaseClaims(ctx context.Context, claimRef id.ID) error
}

// Service provides business operations for delivery note documents.
type Service struct {
	repo      Repository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
	claimer   SerialClaimer
	hooks     *domain.HookRegistry[*DeliveryNote]
}

// NewService creates a new delivery note service.
func NewService(repo Repository, act *activity.Service, gen numerator.Generator, txManager tx.Manager, claimer SerialClaimer) *Service {
	return &Service{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
		claimer:   claimer,
		hooks:     domain.NewHookRegistry[*DeliveryNote](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*DeliveryNote] {
	return s.hooks
}

// Create creates a new delivery note in Draft. Serial claims on items
// are registered in the same transaction; a claim failure rolls back
// the whole document.
func (s *Service) Create(ctx context.Context, doc *DeliveryNote) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = string(Machine.Initial())
	}
	if doc.DeliveryDate.IsZero() {
		doc.DeliveryDate = time.Now().UTC()
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DN"), nil, time.Now())
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
		return s.claimItemSerials(ctx, doc)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "delivery note created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *Service) claimItemSerials(ctx context.Context, doc *DeliveryNote) error {
	for _, item := range doc.Items {
		if len(item.SerialIDs) == 0 {
			continue
		}
		if err := s.claimer.ClaimSerials(ctx, *item.ReceiptItemID, item.ProductID, item.SerialIDs, DocType, item.LineID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a delivery note with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*DeliveryNote, error) {
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

// Update updates a delivery note. Items are bulk-replaced and their
// serial claims re-registered.
func (s *Service) Update(ctx context.Context, doc *DeliveryNote) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if Machine.IsTerminal(status.State(doc.Status)) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetLines(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		for _, item := range old {
			if err := s.claimer.ReleaseClaims(ctx, item.LineID); err != nil {
				return fmt.Errorf("release claims: %w", err)
			}
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.claimItemSerials(ctx, doc)
	})
}

// Delete removes a Draft delivery note with its items, claims and
// activity.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.removeDocument(ctx, doc)
	})
}

// CancelDN removes the delivery note entirely regardless of status.
// This mirrors the cancel_dn action, which is a hard delete rather than
// a transition.
func (s *Service) CancelDN(ctx context.Context, docID id.ID, actor string) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.removeDocument(ctx, doc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "delivery note removed", "id", docID, "number", doc.Number, "actor", actor)
	return nil
}

func (s *Service) removeDocument(ctx context.Context, doc *DeliveryNote) error {
	for _, item := range doc.Items {
		if err := s.claimer.ReleaseClaims(ctx, item.LineID); err != nil {
			return fmt.Errorf("release claims: %w", err)
		}
	}
	if err := s.activity.DeleteForDocument(ctx, DocType, doc.ID); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return s.repo.Delete(ctx, doc.ID)
}

// List retrieves delivery notes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNote], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically.
func (s *Service) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*DeliveryNote, error) {
	var doc *DeliveryNote
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

	logger.Info(ctx, "delivery note action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}

// Acknowledge records the customer acknowledgement on delivery.
func (s *Service) Acknowledge(ctx context.Context, docID id.ID, name, note string) (*DeliveryNote, error) {
	var doc *DeliveryNote
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		d.AckName = &name
		d.AckDate = &now
		if note != "" {
			d.AckNote = &note
		}

		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		doc = d
		return nil
	})
	return doc, err
}
