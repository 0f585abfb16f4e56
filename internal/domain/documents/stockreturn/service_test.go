package stockreturn

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
	"orderflow/internal/core/status"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/stockreceipt"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]*StockReturn
	lines map[id.ID][]Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*StockReturn),
		lines: make(map[id.ID][]Item),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *StockReturn) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*StockReturn, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("stock_return", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*StockReturn, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("stock_return", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *StockReturn) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]Item, error) {
	return r.lines[docID], nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []Item) error {
	r.lines[docID] = append([]Item(nil), lines...)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockReturn], error) {
	return domain.ListResult[*StockReturn]{}, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*StockReturn, error) {
	return r.GetByID(ctx, docID)
}

type claimCall struct {
	receiptItemID id.ID
	productID     id.ID
	serialIDs     []id.ID
	claimedBy     string
	claimRef      id.ID
}

type actCall struct {
	docID  id.ID
	action status.Action
	actor  string
}

type fakeLedger struct {
	items    map[id.ID]*stockreceipt.Item
	claims   []claimCall
	releases []id.ID
	acts     []actCall
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{items: make(map[id.ID]*stockreceipt.Item)}
}

func (l *fakeLedger) GetItem(ctx context.Context, itemID id.ID) (*stockreceipt.Item, error) {
	item, ok := l.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("stock_receipt_item", itemID)
	}
	cp := *item
	return &cp, nil
}

func (l *fakeLedger) ClaimSerials(ctx context.Context, receiptItemID, productID id.ID, serialIDs []id.ID, claimedBy string, claimRef id.ID) error {
	l.claims = append(l.claims, claimCall{receiptItemID, productID, serialIDs, claimedBy, claimRef})
	return nil
}

func (l *fakeLedger) ReleaseClaims(ctx context.Context, claimRef id.ID) error {
	l.releases = append(l.releases, claimRef)
	return nil
}

func (l *fakeLedger) Act(ctx context.Context, docID id.ID, action status.Action, actor string) (*stockreceipt.StockReceipt, error) {
	l.acts = append(l.acts, actCall{docID, action, actor})
	return &stockreceipt.StockReceipt{}, nil
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

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeLedger) {
	t.Helper()

	repo := newFakeRepo()
	ledger := newFakeLedger()
	svc := NewService(repo, ledger, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	return svc, repo, ledger
}

// seedReceiptItem registers a receipt line in the fake ledger with the
// given rejected quantity.
func seedReceiptItem(ledger *fakeLedger, rejected string) *stockreceipt.Item {
	item := &stockreceipt.Item{
		LineID:      id.New(),
		ProductID:   id.New(),
		UOM:         "pcs",
		QtyReceived: d("10"),
		QtyAccepted: d("10").Sub(d(rejected)),
		QtyRejected: d(rejected),
		UnitPrice:   d("40"),
		DiscountPct: d("10"),
		TaxPct:      d("5"),
	}
	ledger.items[item.LineID] = item
	return item
}

func TestCreate_DefaultsFromReceiptItem(t *testing.T) {
	svc, repo, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "3")

	doc := New(id.New(), id.New())
	doc.Items = append(doc.Items, Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("2"),
	})

	require.NoError(t, svc.Create(ctx, doc))
	assert.NotEmpty(t, doc.Number)

	lines := repo.lines[doc.ID]
	require.Len(t, lines, 1)
	assert.Equal(t, src.ProductID, lines[0].ProductID)
	assert.Equal(t, "pcs", lines[0].UOM)
	assert.True(t, lines[0].UnitPrice.Equal(d("40")))
	assert.True(t, lines[0].DiscountPct.Equal(d("10")))
	assert.True(t, lines[0].TaxPct.Equal(d("5")))

	// 2 * 40 with 10% discount and 5% tax = 75.60
	assert.True(t, lines[0].Total.Equal(d("75.60")), "total %s", lines[0].Total)
	assert.True(t, doc.AmountToRecover.Equal(d("75.60")))
}

func TestCreate_ExplicitPricingKept(t *testing.T) {
	svc, repo, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "5")

	doc := New(id.New(), id.New())
	doc.Items = append(doc.Items, Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("1"),
		UnitPrice:     d("35"),
	})

	require.NoError(t, svc.Create(ctx, doc))

	lines := repo.lines[doc.ID]
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(d("35")), "caller price must win")
	assert.True(t, lines[0].DiscountPct.IsZero(), "receipt discount must not leak onto priced lines")
}

func TestCreate_BoundedByRejectedQuantity(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "3")

	doc := New(id.New(), id.New())
	doc.Items = append(doc.Items, Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("4"),
	})

	err := svc.Create(ctx, doc)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_RegistersSerialClaims(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "2")
	serialIDs := []id.ID{id.New(), id.New()}

	doc := New(id.New(), id.New())
	line := Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("2"),
		SerialIDs:     serialIDs,
	}
	doc.Items = append(doc.Items, line)

	require.NoError(t, svc.Create(ctx, doc))

	require.Len(t, ledger.claims, 1)
	assert.Equal(t, src.LineID, ledger.claims[0].receiptItemID)
	assert.Equal(t, src.ProductID, ledger.claims[0].productID)
	assert.Equal(t, serialIDs, ledger.claims[0].serialIDs)
	assert.Equal(t, DocType, ledger.claims[0].claimedBy)
	assert.Equal(t, line.LineID, ledger.claims[0].claimRef)
}

func TestAct_SubmitMarksReceiptReturned(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "1")
	receiptID := id.New()

	doc := New(id.New(), receiptID)
	doc.Items = append(doc.Items, Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("1"),
	})
	require.NoError(t, svc.Create(ctx, doc))

	out, err := svc.Act(ctx, doc.ID, ActionSubmit, "carol")
	require.NoError(t, err)
	assert.Equal(t, string(StatusSubmitted), out.Status)

	require.Len(t, ledger.acts, 1)
	assert.Equal(t, receiptID, ledger.acts[0].docID)
	assert.Equal(t, stockreceipt.ActionMarkReturned, ledger.acts[0].action)
	assert.Equal(t, "carol", ledger.acts[0].actor)
}

func TestAct_CancelDoesNotTouchReceipt(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "1")

	doc := New(id.New(), id.New())
	doc.Items = append(doc.Items, Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("1"),
	})
	require.NoError(t, svc.Create(ctx, doc))

	out, err := svc.Act(ctx, doc.ID, ActionCancel, "carol")
	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), out.Status)
	assert.Empty(t, ledger.acts)
}

func TestDelete_ReleasesClaims(t *testing.T) {
	svc, repo, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "2")

	doc := New(id.New(), id.New())
	line := Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("1"),
		SerialIDs:     []id.ID{id.New()},
	}
	doc.Items = append(doc.Items, line)
	require.NoError(t, svc.Create(ctx, doc))

	require.NoError(t, svc.Delete(ctx, doc.ID))

	require.Len(t, ledger.releases, 1)
	assert.Equal(t, line.LineID, ledger.releases[0])
	_, ok := repo.docs[doc.ID]
	assert.False(t, ok)
}

func TestDelete_SubmittedLocked(t *testing.T) {
	svc, repo, ledger := newTestService(t)
	ctx := context.Background()

	src := seedReceiptItem(ledger, "1")

	doc := New(id.New(), id.New())
	doc.Items = append(doc.Items, Item{
		LineID:        id.New(),
		ReceiptItemID: src.LineID,
		QtyReturned:   d("1"),
	})
	require.NoError(t, svc.Create(ctx, doc))

	doc.Status = string(StatusSubmitted)
	require.NoError(t, repo.Update(ctx, doc))

	err := svc.Delete(ctx, doc.ID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeDocumentLocked, appErr.Code)
	assert.Empty(t, ledger.releases)
}
