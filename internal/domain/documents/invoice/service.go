// Package invoice provides the Invoice document service.
package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

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

// Service provides business operations for invoice documents.
type Service struct {
	repo      Repository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
	mailer    notify.Mailer
	hooks     *domain.HookRegistry[*Invoice]
}

// NewService creates a new invoice service.
func NewService(repo Repository, act *activity.Service, gen numerator.Generator, txManager tx.Manager, mailer notify.Mailer) *Service {
	return &Service{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
		mailer:    mailer,
		hooks:     domain.NewHookRegistry[*Invoice](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Invoice] {
	return s.hooks
}

// Create creates a new invoice in Draft.
func (s *Service) Create(ctx context.Context, doc *Invoice) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = string(Machine.Initial())
	}
	if doc.PaymentStatus == "" {
		doc.PaymentStatus = PaymentUnpaid
	}
	if doc.DueDate.IsZero() {
		doc.DueDate = time.Now().UTC().AddDate(0, 0, 30)
	}
	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("INV"), nil, time.Now())
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

	logger.Info(ctx, "invoice created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves an invoice with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
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

// Update updates an invoice. Items are bulk-replaced and the summary
// recomputed from the new item set.
func (s *Service) Update(ctx context.Context, doc *Invoice) error {
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

// Delete removes a Draft invoice with its items and activity.
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

// CancelInvoice removes the invoice record entirely. This mirrors the
// cancel_invoice action, which is a hard delete rather than a
// transition.
func (s *Service) CancelInvoice(ctx context.Context, docID id.ID, actor string) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.activity.DeleteForDocument(ctx, DocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice removed", "id", docID, "number", doc.Number, "actor", actor)
	return nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically.
// mark_as_paid settles the payment status and the paid amount together
// with the transition.
func (s *Service) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*Invoice, error) {
	var doc *Invoice
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

		if action == ActionMarkAsPaid {
			d.PaymentStatus = PaymentPaid
			d.AmountPaid = d.GrandTotal
			d.BalanceDue = d.GrandTotal.Sub(d.AmountPaid)
		}

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

	logger.Info(ctx, "invoice action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}

// ApplyReturnedQuantities adds returned quantities to invoice lines on
// behalf of a submitted invoice return. Runs in the caller's
// transaction; exceeding the invoiced quantity fails validation.
func (s *Service) ApplyReturnedQuantities(ctx context.Context, invoiceID id.ID, byLine map[id.ID]decimal.Decimal) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		items, err := s.repo.GetLines(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}

		for i := range items {
			qty, ok := byLine[items[i].LineID]
			if !ok {
				continue
			}
			items[i].ReturnedQty = items[i].ReturnedQty.Add(qty)
			if items[i].ReturnedQty.GreaterThan(items[i].Quantity) {
				return apperror.NewValidation("returned quantity cannot exceed invoiced quantity").
					WithDetail("lineId", items[i].LineID.String())
			}
		}

		doc.Items = items
		if err := s.repo.SaveLines(ctx, invoiceID, items); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.repo.Update(ctx, doc)
	})
}

// SendEmail mails the invoice to the given recipients. Failures are
// logged, never retried, and never fail the caller.
func (s *Service) SendEmail(ctx context.Context, docID id.ID, to []string) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Invoice %s", doc.Number)
	body := fmt.Sprintf(
		"<p>Invoice <b>%s</b> dated %s is due %s.</p><p>Balance due: %s %s</p>",
		doc.Number, doc.Date.Format("2006-01-02"), doc.DueDate.Format("2006-01-02"),
		doc.BalanceDue.StringFixed(2), doc.Currency)

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		logger.Warn(ctx, "invoice email failed", "id", docID, "error", err)
	}
	return nil
}
