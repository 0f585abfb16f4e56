package quotation

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

type notifyNoop struct{}

func (notifyNoop) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	return nil
}

type fakeRepo struct {
	docs  map[id.ID]*Quotation
	lines map[id.ID][]Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Quotation),
		lines: make(map[id.ID][]Item),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *Quotation) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Quotation, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("quotation", docID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*Quotation, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("quotation", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *Quotation) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("quotation", doc.ID)
	}
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

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quotation], error) {
	return domain.ListResult[*Quotation]{}, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Quotation, error) {
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

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeActivityRepo) {
	t.Helper()

	repo := newFakeRepo()
	actRepo := &fakeActivityRepo{}
	svc := NewService(repo, activity.NewService(actRepo), &numerator.MockGenerator{}, nopTxManager{}, notifyNoop{})
	return svc, repo, actRepo
}

func validQuotation() *Quotation {
	q := New(id.New())
	q.Items = append(q.Items, Item{
		LineID:    id.New(),
		ProductID: id.New(),
		Quantity:  d("2"),
		UnitPrice: d("100"),
		TaxPct:    d("5"),
	})
	return q
}

func TestCreate_AssignsNumberAndRecalculates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	q := validQuotation()
	q.Items[0].DiscountPct = d("10")

	require.NoError(t, svc.Create(ctx, q))

	assert.NotEmpty(t, q.Number)
	assert.Equal(t, string(StatusDraft), q.Status)

	// 2 * 100 with 10% discount and 5% tax = 189
	assert.True(t, q.GrandTotal.Equal(d("189")), "grand total %s", q.GrandTotal)
	assert.Equal(t, 1, q.Items[0].LineNo)

	stored, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Number, stored.Number)
	require.Len(t, repo.lines[q.ID], 1)
}

func TestCreate_RejectsEmptyItems(t *testing.T) {
	svc, _, _ := newTestService(t)

	q := New(id.New())
	err := svc.Create(context.Background(), q)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdate_BumpsReviseCountAfterSend(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	q := validQuotation()
	require.NoError(t, svc.Create(ctx, q))

	q.Status = string(StatusSend)
	require.NoError(t, repo.Update(ctx, q))

	require.NoError(t, svc.Update(ctx, q))
	assert.Equal(t, 1, q.ReviseCount)

	require.NoError(t, svc.Update(ctx, q))
	assert.Equal(t, 2, q.ReviseCount)
}

func TestUpdate_TerminalStatusLocked(t *testing.T) {
	svc, _, _ := newTestService(t)

	q := validQuotation()
	q.Status = string(StatusConverted)

	err := svc.Update(context.Background(), q)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeDocumentLocked, appErr.Code)
}

func TestDelete_DraftOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	q := validQuotation()
	require.NoError(t, svc.Create(ctx, q))

	q.Status = string(StatusSend)
	require.NoError(t, repo.Update(ctx, q))

	err := svc.Delete(ctx, q.ID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeDocumentLocked, appErr.Code)

	q.Status = string(StatusDraft)
	require.NoError(t, repo.Update(ctx, q))

	require.NoError(t, svc.Delete(ctx, q.ID))
	_, err = repo.GetByID(ctx, q.ID)
	require.Error(t, err)
}

func TestAct_SubmitThenApprove(t *testing.T) {
	svc, _, actRepo := newTestService(t)
	ctx := context.Background()

	q := validQuotation()
	require.NoError(t, svc.Create(ctx, q))

	doc, err := svc.Act(ctx, q.ID, ActionSubmit, "alice")
	require.NoError(t, err)
	assert.Equal(t, string(StatusSend), doc.Status)

	doc, err = svc.Act(ctx, q.ID, ActionApprove, "bob")
	require.NoError(t, err)
	assert.Equal(t, string(StatusApproved), doc.Status)

	require.Len(t, actRepo.history, 2)
	assert.Equal(t, string(ActionSubmit), actRepo.history[0].Action)
	assert.Equal(t, string(StatusDraft), actRepo.history[0].FromState)
	assert.Equal(t, "alice", actRepo.history[0].Actor)
	assert.Equal(t, string(ActionApprove), actRepo.history[1].Action)
}

func TestAct_ApproveFromDraftRejected(t *testing.T) {
	svc, _, actRepo := newTestService(t)
	ctx := context.Background()

	q := validQuotation()
	require.NoError(t, svc.Create(ctx, q))

	_, err := svc.Act(ctx, q.ID, ActionApprove, "alice")
	require.Error(t, err)
	assert.Empty(t, actRepo.history, "failed transition must not leave history")

	// Document stays untouched.
	stored, err := svc.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, string(StatusDraft), stored.Status)
}
