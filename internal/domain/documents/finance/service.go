package finance

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

// CreditNoteService provides business operations for credit notes.
type CreditNoteService struct {
	repo      CreditNoteRepository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
}

// NewCreditNoteService creates a new credit note service.
func NewCreditNoteService(repo CreditNoteRepository, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *CreditNoteService {
	return &CreditNoteService{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new credit note in Draft.
func (s *CreditNoteService) Create(ctx context.Context, doc *CreditNote) error {
	if doc.Status == "" {
		doc.Status = string(CreditNoteMachine.Initial())
	}
	if doc.PaymentStatus == "" {
		doc.PaymentStatus = PaymentUnpaid
	}
	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CN"), nil, time.Now())
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
		return s.saveRefund(ctx, doc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "credit note created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *CreditNoteService) saveRefund(ctx context.Context, doc *CreditNote) error {
	if doc.Refund == nil {
		return nil
	}
	if id.IsNil(doc.Refund.ID) {
		doc.Refund.ID = id.New()
	}
	doc.Refund.CreditNoteID = doc.ID
	if err := s.repo.SaveRefund(ctx, doc.Refund); err != nil {
		return fmt.Errorf("save refund: %w", err)
	}
	return nil
}

// GetByID retrieves a credit note with items and its refund record.
func (s *CreditNoteService) GetByID(ctx context.Context, docID id.ID) (*CreditNote, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Items = items

	refund, err := s.repo.GetRefund(ctx, docID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, fmt.Errorf("get refund: %w", err)
		}
	} else {
		doc.Refund = refund
	}
	return doc, nil
}

// Update updates a credit note. Items are bulk-replaced.
func (s *CreditNoteService) Update(ctx context.Context, doc *CreditNote) error {
	if CreditNoteMachine.IsTerminal(status.State(doc.Status)) {
		return apperror.NewDocumentLocked(CreditNoteDocType, doc.Status)
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
		return s.saveRefund(ctx, doc)
	})
}

// DeleteCreditNote removes the credit note record entirely. This
// mirrors the delete_credit_note action, which is a hard delete rather
// than a transition.
func (s *CreditNoteService) DeleteCreditNote(ctx context.Context, docID id.ID, actor string) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.activity.DeleteForDocument(ctx, CreditNoteDocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "credit note removed", "id", docID, "number", doc.Number, "actor", actor)
	return nil
}

// List retrieves credit notes with filtering.
func (s *CreditNoteService) List(ctx context.Context, filter ListFilter) (domain.ListResult[*CreditNote], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically.
// mark_as_paid settles the payment status and stamps the refund record
// together with the transition.
func (s *CreditNoteService) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*CreditNote, error) {
	var doc *CreditNote
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		from := d.Status
		next, err := CreditNoteMachine.Apply(status.State(from), action)
		if err != nil {
			return err
		}
		d.Status = string(next)

		if action == ActionMarkAsPaid {
			d.PaymentStatus = PaymentPaid
			refund, err := s.repo.GetRefund(ctx, d.ID)
			if err != nil && !apperror.IsNotFound(err) {
				return fmt.Errorf("get refund: %w", err)
			}
			if refund != nil {
				now := time.Now().UTC()
				refund.RefundPaid = true
				refund.RefundDate = &now
				if err := s.repo.SaveRefund(ctx, refund); err != nil {
					return fmt.Errorf("save refund: %w", err)
				}
			}
		}

		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.activity.Append(ctx, CreditNoteDocType, d.ID, string(action), from, d.Status, actor); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "credit note action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}

// DebitNoteService provides business operations for debit notes.
type DebitNoteService struct {
	repo      DebitNoteRepository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
}

// NewDebitNoteService creates a new debit note service.
func NewDebitNoteService(repo DebitNoteRepository, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *DebitNoteService {
	return &DebitNoteService{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new debit note in Draft.
func (s *DebitNoteService) Create(ctx context.Context, doc *DebitNote) error {
	if doc.Status == "" {
		doc.Status = string(DebitNoteMachine.Initial())
	}
	if doc.PaymentStatus == "" {
		doc.PaymentStatus = PaymentUnpaid
	}
	if err := doc.Recalculate(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DBN"), nil, time.Now())
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
		return s.saveRecover(ctx, doc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "debit note created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *DebitNoteService) saveRecover(ctx context.Context, doc *DebitNote) error {
	if doc.Recover == nil {
		return nil
	}
	if id.IsNil(doc.Recover.ID) {
		doc.Recover.ID = id.New()
	}
	doc.Recover.DebitNoteID = doc.ID
	if err := s.repo.SaveRecover(ctx, doc.Recover); err != nil {
		return fmt.Errorf("save recover: %w", err)
	}
	return nil
}

// GetByID retrieves a debit note with items and its recover record.
func (s *DebitNoteService) GetByID(ctx context.Context, docID id.ID) (*DebitNote, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Items = items

	recover, err := s.repo.GetRecover(ctx, docID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, fmt.Errorf("get recover: %w", err)
		}
	} else {
		doc.Recover = recover
	}
	return doc, nil
}

// Update updates a debit note. Items are bulk-replaced.
func (s *DebitNoteService) Update(ctx context.Context, doc *DebitNote) error {
	if DebitNoteMachine.IsTerminal(status.State(doc.Status)) {
		return apperror.NewDocumentLocked(DebitNoteDocType, doc.Status)
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
		return s.saveRecover(ctx, doc)
	})
}

// DeleteDebitNote removes the debit note record entirely. This mirrors
// the delete_debit_note action, which is a hard delete rather than a
// transition.
func (s *DebitNoteService) DeleteDebitNote(ctx context.Context, docID id.ID, actor string) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.activity.DeleteForDocument(ctx, DebitNoteDocType, docID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "debit note removed", "id", docID, "number", doc.Number, "actor", actor)
	return nil
}

// List retrieves debit notes with filtering.
func (s *DebitNoteService) List(ctx context.Context, filter ListFilter) (domain.ListResult[*DebitNote], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically.
// mark_as_settled flips the payment status to Paid without moving the
// document state; it is rejected once already settled.
func (s *DebitNoteService) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*DebitNote, error) {
	var doc *DebitNote
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		from := d.Status
		next, err := DebitNoteMachine.Apply(status.State(from), action)
		if err != nil {
			return err
		}
		d.Status = string(next)

		if action == ActionMarkAsSettled {
			if d.PaymentStatus == PaymentPaid {
				return apperror.NewConflict("debit note is already settled").
					WithDetail("id", d.ID.String())
			}
			d.PaymentStatus = PaymentPaid
			recover, err := s.repo.GetRecover(ctx, d.ID)
			if err != nil && !apperror.IsNotFound(err) {
				return fmt.Errorf("get recover: %w", err)
			}
			if recover != nil {
				now := time.Now().UTC()
				recover.RefundReceived = true
				recover.RefundDate = &now
				if err := s.repo.SaveRecover(ctx, recover); err != nil {
					return fmt.Errorf("save recover: %w", err)
				}
			}
		}

		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.activity.Append(ctx, DebitNoteDocType, d.ID, string(action), from, d.Status, actor); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "debit note action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}
