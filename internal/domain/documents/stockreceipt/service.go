// Package stockreceipt provides the StockReceipt document service.
package stockreceipt

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

// Service provides business operations for stock receipt documents and
// the serial claim ledger consumed by delivery notes and returns.
type Service struct {
	repo      Repository
	activity  *activity.Service
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*StockReceipt]
}

// NewService creates a new stock receipt service.
func NewService(repo Repository, act *activity.Service, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		activity:  act,
		numerator: gen,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*StockReceipt](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*StockReceipt] {
	return s.hooks
}

// Create creates a new stock receipt in Draft. Serial and batch rows
// land in the same transaction as the document and its lines.
func (s *Service) Create(ctx context.Context, doc *StockReceipt) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = string(Machine.Initial())
	}
	if err := doc.Normalize(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DatedConfig("GRN", 4), nil, time.Now())
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
		return s.saveLedgers(ctx, doc)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "stock receipt created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *Service) saveLedgers(ctx context.Context, doc *StockReceipt) error {
	for i := range doc.Items {
		item := &doc.Items[i]
		if len(item.Serials) > 0 {
			for j := range item.Serials {
				item.Serials[j].ReceiptItemID = item.LineID
				item.Serials[j].ProductID = item.ProductID
			}
			if err := s.repo.SaveSerials(ctx, item.LineID, item.Serials); err != nil {
				return fmt.Errorf("save serials: %w", err)
			}
		}
		if len(item.Batches) > 0 {
			for j := range item.Batches {
				item.Batches[j].ReceiptItemID = item.LineID
			}
			if err := s.repo.SaveBatches(ctx, item.LineID, item.Batches); err != nil {
				return fmt.Errorf("save batches: %w", err)
			}
		}
	}
	return nil
}

// GetByID retrieves a stock receipt with items and identity ledgers.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*StockReceipt, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	for i := range items {
		serials, err := s.repo.GetSerials(ctx, items[i].LineID)
		if err != nil {
			return nil, fmt.Errorf("get serials: %w", err)
		}
		items[i].Serials = serials

		batches, err := s.repo.GetBatches(ctx, items[i].LineID)
		if err != nil {
			return nil, fmt.Errorf("get batches: %w", err)
		}
		items[i].Batches = batches
	}
	doc.Items = items
	return doc, nil
}

// Update updates a Draft stock receipt. Items and ledgers are
// bulk-replaced.
func (s *Service) Update(ctx context.Context, doc *StockReceipt) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if doc.Status != string(StatusDraft) {
		return apperror.NewDocumentLocked(DocType, doc.Status)
	}

	if err := doc.Normalize(); err != nil {
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
		return s.saveLedgers(ctx, doc)
	})
}

// Delete removes a Draft stock receipt with its items, ledgers and
// activity.
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

// List retrieves stock receipts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockReceipt], error) {
	return s.repo.List(ctx, filter)
}

// Act applies a named action and appends history atomically.
func (s *Service) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*StockReceipt, error) {
	var doc *StockReceipt
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

	logger.Info(ctx, "stock receipt action applied",
		"id", docID, "action", action, "status", doc.Status, "actor", actor)
	return doc, nil
}

// GetItem retrieves a single receipt line. Returns and deliveries use
// it to read accepted quantities and default pricing.
func (s *Service) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetItem(ctx, itemID)
}

// ClaimSerials claims the requested serial rows for a downstream line.
// The claim is bounded by the unclaimed remainder and every requested
// serial must exist on the receipt item and belong to the given
// product; a mismatch is rejected, not silently accepted.
func (s *Service) ClaimSerials(ctx context.Context, receiptItemID, productID id.ID, serialIDs []id.ID, claimedBy string, claimRef id.ID) error {
	if len(serialIDs) == 0 {
		return nil
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetItem(ctx, receiptItemID)
		if err != nil {
			return err
		}
		if item.ProductID != productID {
			return apperror.NewValidation("serial claim references a different product").
				WithDetail("receiptItemId", receiptItemID.String()).
				WithDetail("productId", productID.String())
		}

		serials, err := s.repo.GetSerials(ctx, receiptItemID)
		if err != nil {
			return fmt.Errorf("get serials: %w", err)
		}

		byID := make(map[id.ID]*SerialNumber, len(serials))
		claimed := int64(0)
		for i := range serials {
			byID[serials[i].ID] = &serials[i]
			if serials[i].ClaimRef != nil {
				claimed++
			}
		}

		remaining := int64(len(serials)) - claimed
		if int64(len(serialIDs)) > remaining {
			return apperror.NewQuantityExceeded(receiptItemID.String(), int64(len(serialIDs)), remaining)
		}

		for _, sid := range serialIDs {
			row, ok := byID[sid]
			if !ok {
				return apperror.NewValidation("serial does not belong to the receipt item").
					WithDetail("serialId", sid.String())
			}
			if row.ClaimRef != nil {
				return apperror.NewConflict("serial is already claimed").
					WithDetail("serialId", sid.String())
			}
		}

		return s.repo.MarkSerialsClaimed(ctx, serialIDs, claimedBy, claimRef)
	})
}

// ReleaseClaims releases all serial claims held by the given line.
func (s *Service) ReleaseClaims(ctx context.Context, claimRef id.ID) error {
	return s.repo.ReleaseSerialClaims(ctx, claimRef)
}
