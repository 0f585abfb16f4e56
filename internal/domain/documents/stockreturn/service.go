// Package stockreturn provides the StockReturn document service.
package stockreturn

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
	"orderflow/internal/domain/documents/stockreceipt"
	"orderflow/pkg/logger"
)

// ReceiptLedger is the slice of the stock receipt service the return
// flow needs: item lookup for defaults and bounds, serial claims, and
// the mark_returned transition on submit.
type ReceiptLedger interface {
	GetItem(ctx context.Context, itemID id.ID) (*stockreceipt.Item, error)
	ClaimSerials(ctx context.Context, receiptItemID, productID id.ID, serialIDs []id.ID, claimedBy string, claimRef id.ID) error
	ReleaseClaims(ctx context.Context, claimRef id.ID) error
	Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*stockreceipt.StockReceipt, error)
}

// Service provides business operations for stock return documents.
type Service struct {
	repo      Repository
	receipts  ReceiptLedger
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*StockReturn]
}

// NewService creates a new stock return service.
func NewService(repo Repository, receipts ReceiptLedger, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		receipts:  receipts,
		activity:  act,
		numerator: gen,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*StockReturn](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*StockReturn] {
	return s.hooks
}

// Create creates a new stock return in Draft. Item fields default from
// the source receipt item, returned quantities are bounded by its
// rejected quantity, and serial claims land in the same transaction.
func (s *Service) Create(ctx context.Context, doc *StockReturn) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = string(Machine.Initial())
	}

	if err := s.applyReceiptDefaults(ctx, doc); err != nil {
		return err
	}
	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DatedConfig("SRN", 4), nil, time.Now())
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

	logger.Info(ctx, "stock return created", "id", doc.ID, "number", doc.Number)
	return nil
}

// applyReceiptDefaults fills product, uom and pricing from the source
// receipt item when omitted and enforces the rejected-quantity bound.
func (s *Service) applyReceiptDefaults(ctx context.Context, doc *StockReturn) error {
	for i := range doc.Items {
		item := &doc.Items[i]
		src, err := s.receipts.GetItem(ctx, item.ReceiptItemID)
		if err != nil {
			return err
		}

		if id.IsNil(item.ProductID) {
			item.ProductID = src.ProductID
		}
		if item.UOM == "" {
			item.UOM = src.UOM
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = src.UnitPrice
			item.DiscountPct = src.DiscountPct
			item.TaxPct = src.TaxPct
		}

		if item.QtyReturned.GreaterThan(src.QtyRejected) {
			return apperror.NewValidation("returned quantity cannot exceed rejected quantity of the receipt item").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("rejected", src.QtyRejected.String())
		}
	}
	return nil
}

func (s *Service) claimItemSerials(ctx context.Context, doc *StockReturn) error {
	for _, item := range doc.Items {
		if len(item.SerialIDs) == 0 {
			continue
		}
		if err := s.receipts.ClaimSerials(ctx, item.ReceiptItemID, item.ProductID, item.SerialIDs, DocType, item.LineID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a stock return with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*StockReturn, error) {
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

// Update updates a Draft stock return. Items are bulk-replaced and
// serial claims re-registered.
func (s *Service) Update(ctx context.Context, doc *StockReturn) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
	}

	if err := s.applyReceiptDefaults(ctx, doc); err != nil {
		return err
	}
	if err := doc.Recalculate(); err != nil {
		return err
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
			if err := s.receipts.ReleaseClaims(ctx, item.LineID); err != nil {
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

// Delete removes a Draft stock return with its items, claims and
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
		for _, item := range doc.Items {
			if err := s.receipts.ReleaseClaims(ctx, item.LineID); err != nil {
				return fmt.Errorf("release claims: %w", err)
			}
		}
		if err := s.activity.DeleteForDocument(ctx, DocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
}

// List retrieves stock returns with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockReturn], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically. Submitting
// the return marks the source receipt Returned in the same transaction.
func (s *Service) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*StockReturn, error) {
	var doc *StockReturn
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

		if action == ActionSubmit {
			if _, err := s.receipts.Act(ctx, d.StockReceiptID, stockreceipt.ActionMarkReturned, actor); err != nil {
				return fmt.Errorf("mark receipt returned: %w", err)
			}
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock return action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}
