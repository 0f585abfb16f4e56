package convert

import (
	"context"
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
	"orderflow/internal/domain/documents/invoice"
	"orderflow/internal/domain/documents/salesorder"
)

func notFound(entity string, key any) error {
	return apperror.NewNotFound(entity, key)
}

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	docs  map[id.ID]*salesorder.SalesOrder
	lines map[id.ID][]salesorder.Item
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		docs:  make(map[id.ID]*salesorder.SalesOrder),
		lines: make(map[id.ID][]salesorder.Item),
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, doc *salesorder.SalesOrder) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, docID id.ID) (*salesorder.SalesOrder, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, notFound("sales_order", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeOrderRepo) GetByNumber(ctx context.Context, number string) (*salesorder.SalesOrder, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, notFound("sales_order", number)
}

func (r *fakeOrderRepo) Update(ctx context.Context, doc *salesorder.SalesOrder) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *fakeOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]salesorder.Item, error) {
	return r.lines[docID], nil
}

func (r *fakeOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []salesorder.Item) error {
	r.lines[docID] = append([]salesorder.Item(nil), lines...)
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter salesorder.ListFilter) (domain.ListResult[*salesorder.SalesOrder], error) {
	return domain.ListResult[*salesorder.SalesOrder]{}, nil
}

func (r *fakeOrderRepo) GetForUpdate(ctx context.Context, docID id.ID) (*salesorder.SalesOrder, error) {
	return r.GetByID(ctx, docID)
}

type fakeInvoiceRepo struct {
	docs  map[id.ID]*invoice.Invoice
	lines map[id.ID][]invoice.Item
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		docs:  make(map[id.ID]*invoice.Invoice),
		lines: make(map[id.ID][]invoice.Item),
	}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, doc *invoice.Invoice) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, notFound("invoice", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, notFound("invoice", number)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, doc *invoice.Invoice) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *fakeInvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Item, error) {
	return r.lines[docID], nil
}

func (r *fakeInvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Item) error {
	r.lines[docID] = append([]invoice.Item(nil), lines...)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return domain.ListResult[*invoice.Invoice]{}, nil
}

func (r *fakeInvoiceRepo) GetForUpdate(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
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

type fakeProductRepo struct {
	products map[id.ID]*product.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error  { return nil }
func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error  { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, entityID id.ID) error      { return nil }
func (r *fakeProductRepo) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	_, ok := r.products[entityID]
	return ok, nil
}

func (r *fakeProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, entityID id.ID) (*product.Product, error) {
	p, ok := r.products[entityID]
	if !ok {
		return nil, notFound("product", entityID)
	}
	return p, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	return nil, notFound("product", code)
}

func (r *fakeProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{}, nil
}

func (r *fakeProductRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product, len(ids))
	for _, pid := range ids {
		if p, ok := r.products[pid]; ok {
			out[pid] = p
		}
	}
	return out, nil
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeOrderRepo, *fakeInvoiceRepo, *fakeProductRepo) {
	t.Helper()

	orderRepo := newFakeOrderRepo()
	invoiceRepo := newFakeInvoiceRepo()
	productRepo := &fakeProductRepo{products: make(map[id.ID]*product.Product)}
	act := activity.NewService(&fakeActivityRepo{})
	gen := &numerator.MockGenerator{}
	txm := nopTxManager{}

	orders := salesorder.NewService(orderRepo, act, gen, txm)
	invoices := invoice.NewService(invoiceRepo, act, gen, txm, notifyNoop{})

	p := NewPipeline(nil, orders, nil, invoices, nil, nil, productRepo, txm)
	return p, orderRepo, invoiceRepo, productRepo
}

type notifyNoop struct{}

func (notifyNoop) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	return nil
}

func seedProduct(repo *fakeProductRepo, taxPct string) id.ID {
	p := product.NewProduct("CVB001", "Widget")
	p.UnitPrice = d("100")
	p.TaxPct = d(taxPct)
	repo.products[p.ID] = p
	return p.ID
}

func TestSalesOrderToInvoice_ItemsMatchOneToOne(t *testing.T) {
	p, orderRepo, invoiceRepo, productRepo := newTestPipeline(t)
	ctx := context.Background()

	customerID := id.New()
	order := salesorder.New(customerID)
	order.Status = string(salesorder.StatusSubmitted)
	order.Number = "SO0001"
	for i := 0; i < 3; i++ {
		order.Items = append(order.Items, salesorder.Item{
			LineID:    id.New(),
			ProductID: seedProduct(productRepo, "5"),
			Quantity:  d("2"),
			UnitPrice: d("100"),
		})
	}
	require.NoError(t, order.Recalculate())
	require.NoError(t, orderRepo.Create(ctx, order))
	require.NoError(t, orderRepo.SaveLines(ctx, order.ID, order.Items))

	inv, err := p.SalesOrderToInvoice(ctx, order.ID, "tester")
	require.NoError(t, err)

	require.Len(t, inv.Items, 3)
	for i, item := range inv.Items {
		assert.Equal(t, order.Items[i].ProductID, item.ProductID, "line %d product mismatch", i+1)
		assert.True(t, item.Quantity.Equal(order.Items[i].Quantity))
		assert.True(t, item.TaxPct.Equal(d("5")), "tax must come from product master")
	}

	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Total)
	}
	assert.True(t, inv.Subtotal.Equal(total), "subtotal %s != sum of item totals %s", inv.Subtotal, total)

	stored, err := invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(invoice.StatusDraft), stored.Status)
	require.NotNil(t, stored.SalesOrderID)
	assert.Equal(t, order.ID, *stored.SalesOrderID)
}

func TestSalesOrderToInvoice_MissingProductRejected(t *testing.T) {
	p, orderRepo, invoiceRepo, productRepo := newTestPipeline(t)
	ctx := context.Background()

	order := salesorder.New(id.New())
	order.Status = string(salesorder.StatusSubmitted)
	order.Number = "SO0002"
	order.Items = append(order.Items,
		salesorder.Item{
			LineID:    id.New(),
			ProductID: seedProduct(productRepo, "5"),
			Quantity:  d("1"),
			UnitPrice: d("100"),
		},
		salesorder.Item{
			LineID:    id.New(),
			ProductID: id.New(),
			Quantity:  d("1"),
			UnitPrice: d("100"),
		},
	)
	require.NoError(t, order.Recalculate())
	require.NoError(t, orderRepo.Create(ctx, order))
	require.NoError(t, orderRepo.SaveLines(ctx, order.ID, order.Items))

	_, err := p.SalesOrderToInvoice(ctx, order.ID, "tester")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Nothing half-written: no invoice created for the failed conversion.
	assert.Empty(t, invoiceRepo.docs)
}

func TestSalesOrderToInvoice_RejectedFromDraft(t *testing.T) {
	p, orderRepo, _, productRepo := newTestPipeline(t)
	ctx := context.Background()

	order := salesorder.New(id.New())
	order.Items = append(order.Items, salesorder.Item{
		LineID:    id.New(),
		ProductID: seedProduct(productRepo, "0"),
		Quantity:  d("1"),
		UnitPrice: d("50"),
	})
	require.NoError(t, orderRepo.Create(ctx, order))
	require.NoError(t, orderRepo.SaveLines(ctx, order.ID, order.Items))

	_, err := p.SalesOrderToInvoice(ctx, order.ID, "tester")
	require.Error(t, err)
}
