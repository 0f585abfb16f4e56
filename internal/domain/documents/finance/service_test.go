package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/numerator"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCreditNoteRepo struct {
	docs    map[id.ID]*CreditNote
	lines   map[id.ID][]NoteItem
	refunds map[id.ID]*Refund
}

func newFakeCreditNoteRepo() *fakeCreditNoteRepo {
	return &fakeCreditNoteRepo{
		docs:    make(map[id.ID]*CreditNote),
		lines:   make(map[id.ID][]NoteItem),
		refunds: make(map[id.ID]*Refund),
	}
}

func (r *fakeCreditNoteRepo) Create(ctx context.Context, doc *CreditNote) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeCreditNoteRepo) GetByID(ctx context.Context, docID id.ID) (*CreditNote, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("credit_note", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeCreditNoteRepo) GetByNumber(ctx context.Context, number string) (*CreditNote, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("credit_note", number)
}

func (r *fakeCreditNoteRepo) Update(ctx context.Context, doc *CreditNote) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeCreditNoteRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	delete(r.refunds, docID)
	return nil
}

func (r *fakeCreditNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]NoteItem, error) {
	return r.lines[docID], nil
}

func (r *fakeCreditNoteRepo) SaveLines(ctx context.Context, docID id.ID, lines []NoteItem) error {
	r.lines[docID] = append([]NoteItem(nil), lines...)
	return nil
}

func (r *fakeCreditNoteRepo) GetRefund(ctx context.Context, docID id.ID) (*Refund, error) {
	refund, ok := r.refunds[docID]
	if !ok {
		return nil, apperror.NewNotFound("refund", docID)
	}
	cp := *refund
	return &cp, nil
}

func (r *fakeCreditNoteRepo) SaveRefund(ctx context.Context, refund *Refund) error {
	cp := *refund
	r.refunds[refund.CreditNoteID] = &cp
	return nil
}

func (r *fakeCreditNoteRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*CreditNote], error) {
	return domain.ListResult[*CreditNote]{}, nil
}

func (r *fakeCreditNoteRepo) GetForUpdate(ctx context.Context, docID id.ID) (*CreditNote, error) {
	return r.GetByID(ctx, docID)
}

type fakeDebitNoteRepo struct {
	docs     map[id.ID]*DebitNote
	lines    map[id.ID][]NoteItem
	recovers map[id.ID]*Recover
}

func newFakeDebitNoteRepo() *fakeDebitNoteRepo {
	return &fakeDebitNoteRepo{
		docs:     make(map[id.ID]*DebitNote),
		lines:    make(map[id.ID][]NoteItem),
		recovers: make(map[id.ID]*Recover),
	}
}

func (r *fakeDebitNoteRepo) Create(ctx context.Context, doc *DebitNote) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDebitNoteRepo) GetByID(ctx context.Context, docID id.ID) (*DebitNote, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("debit_note", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDebitNoteRepo) GetByNumber(ctx context.Context, number string) (*DebitNote, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("debit_note", number)
}

func (r *fakeDebitNoteRepo) Update(ctx context.Context, doc *DebitNote) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDebitNoteRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	delete(r.recovers, docID)
	return nil
}

func (r *fakeDebitNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]NoteItem, error) {
	return r.lines[docID], nil
}

func (r *fakeDebitNoteRepo) SaveLines(ctx context.Context, docID id.ID, lines []NoteItem) error {
	r.lines[docID] = append([]NoteItem(nil), lines...)
	return nil
}

func (r *fakeDebitNoteRepo) GetRecover(ctx context.Context, docID id.ID) (*Recover, error) {
	rec, ok := r.recovers[docID]
	if !ok {
		return nil, apperror.NewNotFound("recover", docID)
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeDebitNoteRepo) SaveRecover(ctx context.Context, recover *Recover) error {
	cp := *recover
	r.recovers[recover.DebitNoteID] = &cp
	return nil
}

func (r *fakeDebitNoteRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*DebitNote], error) {
	return domain.ListResult[*DebitNote]{}, nil
}

func (r *fakeDebitNoteRepo) GetForUpdate(ctx context.Context, docID id.ID) (*DebitNote, error) {
	return r.GetByID(ctx, docID)
}

type fakeActivityRepo struct {
	history []activity.HistoryEntry
}

func (r *fakeActivityRepo) AppendHistory(ctx context.Context, entry *activity.HistoryEntry) error {
	r.history = append(r.history, *entry)
	return nil
}

func (r *fakeActivityRepo) ListHistory(ctx context.Context, docType string, docID id.ID) ([]activity.HistoryEntry, error) {
	return r.history, nil
}

func (r *fakeActivityRepo) AddComment(ctx context.Context, comment *activity.Comment) error {
	return nil
}

func (r *fakeActivityRepo) ListComments(ctx context.Context, docType string, docID id.ID) ([]activity.Comment, error) {
	return nil, nil
}

func (r *fakeActivityRepo) AddAttachment(ctx context.Context, attachment *activity.Attachment) error {
	return nil
}

func (r *fakeActivityRepo) ListAttachments(ctx context.Context, docType string, docID id.ID) ([]activity.Attachment, error) {
	return nil, nil
}

func (r *fakeActivityRepo) DeleteForDocument(ctx context.Context, docType string, docID id.ID) error {
	return nil
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func noteItem(qty, price string) NoteItem {
	return NoteItem{
		LineID:      id.New(),
		ProductID:   id.New(),
		ReturnedQty: d(qty),
		UnitPrice:   d(price),
	}
}

func TestCreditNote_CreateDefaultsPaymentStatus(t *testing.T) {
	repo := newFakeCreditNoteRepo()
	svc := NewCreditNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewCreditNote(id.New(), id.New())
	doc.PaymentStatus = ""
	doc.Items = append(doc.Items, noteItem("2", "50"))

	require.NoError(t, svc.Create(ctx, doc))
	assert.NotEmpty(t, doc.Number)
	assert.Equal(t, PaymentUnpaid, doc.PaymentStatus)
	assert.True(t, doc.Total.Equal(d("100")), "total %s", doc.Total)
}

func TestCreditNote_CreateRejectsUnknownPaymentStatus(t *testing.T) {
	repo := newFakeCreditNoteRepo()
	svc := NewCreditNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})

	doc := NewCreditNote(id.New(), id.New())
	doc.PaymentStatus = "Settled"
	doc.Items = append(doc.Items, noteItem("1", "10"))

	err := svc.Create(context.Background(), doc)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreditNote_MarkAsPaidSettlesRefund(t *testing.T) {
	repo := newFakeCreditNoteRepo()
	actRepo := &fakeActivityRepo{}
	svc := NewCreditNoteService(repo, activity.NewService(actRepo), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewCreditNote(id.New(), id.New())
	doc.Items = append(doc.Items, noteItem("1", "80"))
	doc.Refund = &Refund{
		InvoiceReturnAmount:  d("80"),
		AmountPaidByCustomer: d("30"),
	}

	require.NoError(t, svc.Create(ctx, doc))
	assert.True(t, doc.Refund.BalanceToRefund.Equal(d("50")))

	out, err := svc.Act(ctx, doc.ID, ActionMarkAsPaid, "dana")
	require.NoError(t, err)
	assert.Equal(t, string(StatusPaid), out.Status)
	assert.Equal(t, PaymentPaid, out.PaymentStatus)

	refund, err := repo.GetRefund(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, refund.RefundPaid)
	require.NotNil(t, refund.RefundDate)

	require.Len(t, actRepo.history, 1)
	assert.Equal(t, string(ActionMarkAsPaid), actRepo.history[0].Action)
}

func TestCreditNote_UpdateAfterPaidLocked(t *testing.T) {
	repo := newFakeCreditNoteRepo()
	svc := NewCreditNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewCreditNote(id.New(), id.New())
	doc.Items = append(doc.Items, noteItem("1", "80"))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.Act(ctx, doc.ID, ActionMarkAsPaid, "dana")
	require.NoError(t, err)

	doc.Status = string(StatusPaid)
	err = svc.Update(ctx, doc)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeDocumentLocked, appErr.Code)
}

func TestCreditNote_DeleteIsHardDelete(t *testing.T) {
	repo := newFakeCreditNoteRepo()
	svc := NewCreditNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewCreditNote(id.New(), id.New())
	doc.Items = append(doc.Items, noteItem("1", "80"))
	require.NoError(t, svc.Create(ctx, doc))

	// Paid notes are still deletable: delete is an action, not a transition.
	_, err := svc.Act(ctx, doc.ID, ActionMarkAsPaid, "dana")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCreditNote(ctx, doc.ID, "dana"))
	_, err = repo.GetByID(ctx, doc.ID)
	require.Error(t, err)
}

func TestDebitNote_MarkAsSettledKeepsDraft(t *testing.T) {
	repo := newFakeDebitNoteRepo()
	svc := NewDebitNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewDebitNote(id.New(), id.New())
	doc.Items = append(doc.Items, noteItem("3", "25"))
	doc.Recover = &Recover{
		PurchaseReturnAmount: d("75"),
		AmountPaidToVendor:   d("20"),
	}
	require.NoError(t, svc.Create(ctx, doc))
	assert.True(t, doc.Recover.BalanceToRecover.Equal(d("55")))

	out, err := svc.Act(ctx, doc.ID, ActionMarkAsSettled, "erin")
	require.NoError(t, err)

	// Settlement flips the payment status without moving the document.
	assert.Equal(t, string(StatusDraft), out.Status)
	assert.Equal(t, PaymentPaid, out.PaymentStatus)

	rec, err := repo.GetRecover(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, rec.RefundReceived)
	require.NotNil(t, rec.RefundDate)
}

func TestDebitNote_SettleTwiceConflicts(t *testing.T) {
	repo := newFakeDebitNoteRepo()
	svc := NewDebitNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewDebitNote(id.New(), id.New())
	doc.Items = append(doc.Items, noteItem("1", "25"))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.Act(ctx, doc.ID, ActionMarkAsSettled, "erin")
	require.NoError(t, err)

	_, err = svc.Act(ctx, doc.ID, ActionMarkAsSettled, "erin")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestDebitNote_CancelTerminal(t *testing.T) {
	repo := newFakeDebitNoteRepo()
	svc := NewDebitNoteService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	ctx := context.Background()

	doc := NewDebitNote(id.New(), id.New())
	doc.Items = append(doc.Items, noteItem("1", "25"))
	require.NoError(t, svc.Create(ctx, doc))

	out, err := svc.Act(ctx, doc.ID, ActionCancel, "erin")
	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), out.Status)

	_, err = svc.Act(ctx, doc.ID, ActionMarkAsSettled, "erin")
	require.Error(t, err, "cancelled note must not accept further actions")
}
