// Package returns provides the return document services.
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/numerator"
	"orderflow/internal/core/status"
	"orderflow/internal/core/tx"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/deliverynote"
	"orderflow/internal/domain/documents/invoice"
	"orderflow/pkg/logger"
)

// InvoiceStore is the slice of the invoice service the return flow
// needs: source lookup for bounds and the returned-quantity writeback
// on submit.
type InvoiceStore interface {
	GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error)
	ApplyReturnedQuantities(ctx context.Context, invoiceID id.ID, byLine map[id.ID]decimal.Decimal) error
}

// DeliveryStore marks the source delivery note Returned on submit.
type DeliveryStore interface {
	Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*deliverynote.DeliveryNote, error)
}

// InvoiceReturnService provides business operations for invoice
// returns.
type InvoiceReturnService struct {
	repo      InvoiceReturnRepository
	invoices  InvoiceStore
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
}

// NewInvoiceReturnService creates a new invoice return service.
func NewInvoiceReturnService(repo InvoiceReturnRepository, invoices InvoiceStore, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *InvoiceReturnService {
	return &InvoiceReturnService{
		repo:      repo,
		invoices:  invoices,
		activity:  act,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new invoice return in Draft. Item pricing defaults
// from the billed line; returned quantity is bounded by the invoiced
// quantity minus what earlier returns already took.
func (s *InvoiceReturnService) Create(ctx context.Context, doc *InvoiceReturn) error {
	if doc.Status == "" {
		doc.Status = string(InvoiceReturnMachine.Initial())
	}

	if err := s.applyInvoiceDefaults(ctx, doc); err != nil {
		return err
	}
	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("INVR"), nil, time.Now())
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

	logger.Info(ctx, "invoice return created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *InvoiceReturnService) applyInvoiceDefaults(ctx context.Context, doc *InvoiceReturn) error {
	src, err := s.invoices.GetByID(ctx, doc.InvoiceID)
	if err != nil {
		return err
	}

	byLine := make(map[id.ID]invoice.Item, len(src.Items))
	for _, item := range src.Items {
		byLine[item.LineID] = item
	}

	for i := range doc.Items {
		item := &doc.Items[i]
		srcItem, ok := byLine[item.InvoiceItemID]
		if !ok {
			return apperror.NewValidation("invoice item does not belong to the invoice").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}

		if id.IsNil(item.ProductID) {
			item.ProductID = srcItem.ProductID
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = srcItem.UnitPrice
			item.DiscountPct = srcItem.DiscountPct
			item.TaxPct = srcItem.TaxPct
		}

		available := srcItem.Quantity.Sub(srcItem.ReturnedQty)
		if item.QtyReturned.GreaterThan(available) {
			return apperror.NewValidation("returned quantity cannot exceed invoiced quantity").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("available", available.String())
		}
	}
	return nil
}

// GetByID retrieves an invoice return with items.
func (s *InvoiceReturnService) GetByID(ctx context.Context, docID id.ID) (*InvoiceReturn, error) {
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

// Update updates a Draft invoice return. Items are bulk-replaced.
func (s *InvoiceReturnService) Update(ctx context.Context, doc *InvoiceReturn) error {
	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(InvoiceReturnDocType, doc.Status)
	}

	if err := s.applyInvoiceDefaults(ctx, doc); err != nil {
		return err
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

// Delete removes a Draft invoice return with its items and activity.
func (s *InvoiceReturnService) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(InvoiceReturnDocType, doc.Status)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.activity.DeleteForDocument(ctx, InvoiceReturnDocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
}

// List retrieves invoice returns with filtering.
func (s *InvoiceReturnService) List(ctx context.Context, filter ListFilter) (domain.ListResult[*InvoiceReturn], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically. Submitting
// the return writes the returned quantities back to the invoice lines
// in the same transaction.
func (s *InvoiceReturnService) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*InvoiceReturn, error) {
	var doc *InvoiceReturn
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		from := d.Status
		next, err := InvoiceReturnMachine.Apply(status.State(from), action)
		if err != nil {
			return err
		}
		d.Status = string(next)

		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.activity.Append(ctx, InvoiceReturnDocType, d.ID, string(action), from, d.Status, actor); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if action == ActionSubmit {
			items, err := s.repo.GetLines(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("get lines: %w", err)
			}
			byLine := make(map[id.ID]decimal.Decimal, len(items))
			for _, item := range items {
				byLine[item.InvoiceItemID] = byLine[item.InvoiceItemID].Add(item.QtyReturned)
			}
			if err := s.invoices.ApplyReturnedQuantities(ctx, d.InvoiceID, byLine); err != nil {
				return fmt.Errorf("apply returned quantities: %w", err)
			}
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice return action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}

// DeliveryReturnService provides business operations for delivery note
// returns.
type DeliveryReturnService struct {
	repo       DeliveryReturnRepository
	deliveries DeliveryStore
	activity   *activity.Service
	numerator  numerator.Generator
	txManager  tx.Manager
}

// NewDeliveryReturnService creates a new delivery note return service.
func NewDeliveryReturnService(repo DeliveryReturnRepository, deliveries DeliveryStore, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *DeliveryReturnService {
	return &DeliveryReturnService{
		repo:       repo,
		deliveries: deliveries,
		activity:   act,
		numerator:  gen,
		txManager:  txManager,
	}
}

// Create creates a new delivery note return in Draft.
func (s *DeliveryReturnService) Create(ctx context.Context, doc *DeliveryNoteReturn) error {
	if doc.Status == "" {
		doc.Status = string(DeliveryReturnMachine.Initial())
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DNR"), nil, time.Now())
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

	logger.Info(ctx, "delivery note return created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a delivery note return with items.
func (s *DeliveryReturnService) GetByID(ctx context.Context, docID id.ID) (*DeliveryNoteReturn, error) {
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

// Update updates a Draft delivery note return. Items are bulk-replaced.
func (s *DeliveryReturnService) Update(ctx context.Context, doc *DeliveryNoteReturn) error {
	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(DeliveryReturnDocType, doc.Status)
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

// Delete removes a Draft delivery note return with its items and
// activity.
func (s *DeliveryReturnService) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(DeliveryReturnDocType, doc.Status)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.activity.DeleteForDocument(ctx, DeliveryReturnDocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
}

// List retrieves delivery note returns with filtering.
func (s *DeliveryReturnService) List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNoteReturn], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically. Submitting
// the return flips the source delivery note to Returned in the same
// transaction.
func (s *DeliveryReturnService) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*DeliveryNoteReturn, error) {
	var doc *DeliveryNoteReturn
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		from := d.Status
		next, err := DeliveryReturnMachine.Apply(status.State(from), action)
		if err != nil {
			return err
		}
		d.Status = string(next)

		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.activity.Append(ctx, DeliveryReturnDocType, d.ID, string(action), from, d.Status, actor); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if action == ActionSubmit {
			if _, err := s.deliveries.Act(ctx, d.DeliveryNoteID, deliverynote.ActionMarkReturned, actor); err != nil {
				return fmt.Errorf("mark delivery note returned: %w", err)
			}
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note return action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}
