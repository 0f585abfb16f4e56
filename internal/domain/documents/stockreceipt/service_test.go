package stockreceipt

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
	"orderflow/internal/domain/catalogs/product"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs    map[id.ID]*StockReceipt
	lines   map[id.ID][]Item
	items   map[id.ID]*Item
	serials map[id.ID][]SerialNumber
	batches map[id.ID][]BatchNumber
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:    make(map[id.ID]*StockReceipt),
		lines:   make(map[id.ID][]Item),
		items:   make(map[id.ID]*Item),
		serials: make(map[id.ID][]SerialNumber),
		batches: make(map[id.ID][]BatchNumber),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *StockReceipt) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*StockReceipt, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("stock_receipt", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*StockReceipt, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("stock_receipt", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *StockReceipt) error {
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
	for i := range lines {
		cp := lines[i]
		r.items[lines[i].LineID] = &cp
	}
	return nil
}

func (r *fakeRepo) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("stock_receipt_item", itemID)
	}
	cp := *item
	return &cp, nil
}

func (r *fakeRepo) SaveSerials(ctx context.Context, itemID id.ID, serials []SerialNumber) error {
	r.serials[itemID] = append([]SerialNumber(nil), serials...)
	return nil
}

func (r *fakeRepo) GetSerials(ctx context.Context, itemID id.ID) ([]SerialNumber, error) {
	return append([]SerialNumber(nil), r.serials[itemID]...), nil
}

func (r *fakeRepo) MarkSerialsClaimed(ctx context.Context, serialIDs []id.ID, claimedBy string, claimRef id.ID) error {
	want := make(map[id.ID]bool, len(serialIDs))
	for _, sid := range serialIDs {
		want[sid] = true
	}
	for itemID, rows := range r.serials {
		for i := range rows {
			if want[rows[i].ID] {
				by := claimedBy
				ref := claimRef
				rows[i].ClaimedBy = &by
				rows[i].ClaimRef = &ref
			}
		}
		r.serials[itemID] = rows
	}
	return nil
}

func (r *fakeRepo) ReleaseSerialClaims(ctx context.Context, claimRef id.ID) error {
	for itemID, rows := range r.serials {
		for i := range rows {
			if rows[i].ClaimRef != nil && *rows[i].ClaimRef == claimRef {
				rows[i].ClaimedBy = nil
				rows[i].ClaimRef = nil
			}
		}
		r.serials[itemID] = rows
	}
	return nil
}

func (r *fakeRepo) SaveBatches(ctx context.Context, itemID id.ID, batches []BatchNumber) error {
	r.batches[itemID] = append([]BatchNumber(nil), batches...)
	return nil
}

func (r *fakeRepo) GetBatches(ctx context.Context, itemID id.ID) ([]BatchNumber, error) {
	return r.batches[itemID], nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockReceipt], error) {
	return domain.ListResult[*StockReceipt]{}, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*StockReceipt, error) {
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

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()

	repo := newFakeRepo()
	svc := NewService(repo, activity.NewService(&fakeActivityRepo{}), &numerator.MockGenerator{}, nopTxManager{})
	return svc, repo
}

// seedSerialItem creates a submitted receipt with one serial-tracked
// line carrying n serials, and returns the line id and serial ids.
func seedSerialItem(t *testing.T, svc *Service, n int) (productID, itemID id.ID, serialIDs []id.ID) {
	t.Helper()

	productID = id.New()
	doc := New(id.New())
	item := Item{
		LineID:      id.New(),
		ProductID:   productID,
		UOM:         "pcs",
		QtyReceived: decimal.NewFromInt(int64(n)),
		QtyAccepted: decimal.NewFromInt(int64(n)),
		UnitPrice:   d("100"),
		StockDim:    product.DimSerial,
	}
	for i := 0; i < n; i++ {
		s := SerialNumber{ID: id.New(), Serial: "SN-" + id.New().String()[:8]}
		item.Serials = append(item.Serials, s)
		serialIDs = append(serialIDs, s.ID)
	}
	doc.Items = append(doc.Items, item)

	require.NoError(t, svc.Create(context.Background(), doc))
	return productID, item.LineID, serialIDs
}

func TestCreate_DefaultsRejectedQuantity(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	doc := New(id.New())
	doc.Items = append(doc.Items, Item{
		LineID:      id.New(),
		ProductID:   id.New(),
		UOM:         "pcs",
		QtyReceived: d("10"),
		QtyAccepted: d("7"),
		UnitPrice:   d("20"),
		StockDim:    product.DimNone,
	})

	require.NoError(t, svc.Create(ctx, doc))
	assert.NotEmpty(t, doc.Number)

	lines := repo.lines[doc.ID]
	require.Len(t, lines, 1)
	assert.True(t, lines[0].QtyRejected.Equal(d("3")), "rejected %s", lines[0].QtyRejected)
	assert.True(t, lines[0].Total.Equal(d("140")), "total computed from accepted quantity")
}

func TestClaimSerials_MarksRows(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	productID, itemID, serialIDs := seedSerialItem(t, svc, 3)
	claimRef := id.New()

	require.NoError(t, svc.ClaimSerials(ctx, itemID, productID, serialIDs[:2], "delivery_note", claimRef))

	rows, err := repo.GetSerials(ctx, itemID)
	require.NoError(t, err)
	claimed := 0
	for _, row := range rows {
		if row.ClaimRef != nil {
			claimed++
			assert.Equal(t, claimRef, *row.ClaimRef)
			require.NotNil(t, row.ClaimedBy)
			assert.Equal(t, "delivery_note", *row.ClaimedBy)
		}
	}
	assert.Equal(t, 2, claimed)
}

func TestClaimSerials_BoundedByUnclaimedRemainder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	productID, itemID, serialIDs := seedSerialItem(t, svc, 3)
	require.NoError(t, svc.ClaimSerials(ctx, itemID, productID, serialIDs[:2], "delivery_note", id.New()))

	// Two of three serials are claimed, only one remains.
	err := svc.ClaimSerials(ctx, itemID, productID, serialIDs[1:], "delivery_note", id.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeQuantityExceeded, appErr.Code)
}

func TestClaimSerials_ProductMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, itemID, serialIDs := seedSerialItem(t, svc, 2)

	err := svc.ClaimSerials(ctx, itemID, id.New(), serialIDs[:1], "delivery_note", id.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestClaimSerials_AlreadyClaimedConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	productID, itemID, serialIDs := seedSerialItem(t, svc, 3)
	require.NoError(t, svc.ClaimSerials(ctx, itemID, productID, serialIDs[:1], "delivery_note", id.New()))

	err := svc.ClaimSerials(ctx, itemID, productID, serialIDs[:1], "delivery_note", id.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestClaimSerials_UnknownSerialRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	productID, itemID, _ := seedSerialItem(t, svc, 2)

	err := svc.ClaimSerials(ctx, itemID, productID, []id.ID{id.New()}, "delivery_note", id.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReleaseClaims_RestoresAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	productID, itemID, serialIDs := seedSerialItem(t, svc, 2)
	claimRef := id.New()
	require.NoError(t, svc.ClaimSerials(ctx, itemID, productID, serialIDs, "delivery_note", claimRef))

	require.NoError(t, svc.ReleaseClaims(ctx, claimRef))

	// All serials are free again.
	require.NoError(t, svc.ClaimSerials(ctx, itemID, productID, serialIDs, "delivery_note", id.New()))
}
