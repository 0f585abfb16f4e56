package hr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/numerator"
	"orderflow/internal/domain"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCandidateRepo struct {
	candidates map[id.ID]*Candidate
	documents  map[id.ID][]CandidateDocument
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{
		candidates: make(map[id.ID]*Candidate),
		documents:  make(map[id.ID][]CandidateDocument),
	}
}

func (r *fakeCandidateRepo) Create(ctx context.Context, c *Candidate) error {
	cp := *c
	r.candidates[c.ID] = &cp
	return nil
}

func (r *fakeCandidateRepo) GetByID(ctx context.Context, entityID id.ID) (*Candidate, error) {
	c, ok := r.candidates[entityID]
	if !ok {
		return nil, apperror.NewNotFound("candidates", entityID)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCandidateRepo) GetByCode(ctx context.Context, code string) (*Candidate, error) {
	for _, c := range r.candidates {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("candidates", code)
}

func (r *fakeCandidateRepo) Update(ctx context.Context, c *Candidate) error {
	cp := *c
	r.candidates[c.ID] = &cp
	return nil
}

func (r *fakeCandidateRepo) Delete(ctx context.Context, entityID id.ID) error {
	delete(r.candidates, entityID)
	return nil
}

func (r *fakeCandidateRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Candidate], error) {
	return domain.ListResult[*Candidate]{}, nil
}

func (r *fakeCandidateRepo) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	_, ok := r.candidates[entityID]
	return ok, nil
}

func (r *fakeCandidateRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	return err == nil, nil
}

func (r *fakeCandidateRepo) FindByEmail(ctx context.Context, email string) (*Candidate, error) {
	for _, c := range r.candidates {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("candidates", email)
}

func (r *fakeCandidateRepo) AddDocument(ctx context.Context, doc *CandidateDocument) error {
	r.documents[doc.CandidateID] = append(r.documents[doc.CandidateID], *doc)
	return nil
}

func (r *fakeCandidateRepo) ListDocuments(ctx context.Context, candidateID id.ID) ([]CandidateDocument, error) {
	return r.documents[candidateID], nil
}

type fakeAttendanceRepo struct {
	days     map[string]*Attendance
	holidays map[string]*Holiday
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		days:     make(map[string]*Attendance),
		holidays: make(map[string]*Holiday),
	}
}

func dayKey(userID id.ID, day time.Time) string {
	return userID.String() + "/" + day.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) GetDay(ctx context.Context, userID id.ID, day time.Time) (*Attendance, error) {
	rec, ok := r.days[dayKey(userID, day)]
	if !ok {
		return nil, apperror.NewNotFound("attendance", day.Format("2006-01-02"))
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeAttendanceRepo) Save(ctx context.Context, record *Attendance) error {
	cp := *record
	r.days[dayKey(record.UserID, record.Day)] = &cp
	return nil
}

func (r *fakeAttendanceRepo) ListRange(ctx context.Context, userID id.ID, from, to time.Time) ([]Attendance, error) {
	var out []Attendance
	for _, rec := range r.days {
		if rec.UserID == userID && !rec.Day.Before(from) && !rec.Day.After(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) CreateHoliday(ctx context.Context, h *Holiday) error {
	key := h.Day.Format("2006-01-02")
	if _, ok := r.holidays[key]; ok {
		return apperror.NewDuplicate("government_holidays", "holiday_date", key)
	}
	cp := *h
	r.holidays[key] = &cp
	return nil
}

func (r *fakeAttendanceRepo) ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	var out []Holiday
	for _, h := range r.holidays {
		if !h.Day.Before(from) && !h.Day.After(to) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) IsHoliday(ctx context.Context, day time.Time) (bool, error) {
	_, ok := r.holidays[day.Format("2006-01-02")]
	return ok, nil
}

type fakeTaskRepo struct {
	tasks map[id.ID]*Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[id.ID]*Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, t *Task) error {
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, taskID id.ID) (*Task, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, apperror.NewNotFound("task", taskID)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, t *Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return apperror.NewNotFound("task", t.ID)
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, taskID id.ID) error {
	delete(r.tasks, taskID)
	return nil
}

func (r *fakeTaskRepo) List(ctx context.Context, assignee *id.ID, status string) ([]Task, error) {
	var out []Task
	for _, t := range r.tasks {
		if assignee != nil && t.AssignedTo != *assignee {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func validCandidate() *Candidate {
	c := NewCandidate("Asha", "Rao", "asha@example.com")
	c.PersonalNumber = "+91 98765 43210"
	c.AadharNumber = "1234 5678 9012"
	c.PANNumber = "ABCDE1234F"
	return c
}

func TestCandidateCreate_AssignsEmployeeCode(t *testing.T) {
	repo := newFakeCandidateRepo()
	svc := NewCandidateService(repo, nopTxManager{}, &numerator.MockGenerator{})
	ctx := context.Background()

	c := validCandidate()
	require.NoError(t, svc.Create(ctx, c))

	assert.Equal(t, "STA0001", c.Code)
	assert.Equal(t, "Asha Rao", c.Name)

	second := validCandidate()
	second.Email = "ravi@example.com"
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, "STA0002", second.Code)
}

func TestCandidateCreate_KeepsSuppliedCode(t *testing.T) {
	repo := newFakeCandidateRepo()
	svc := NewCandidateService(repo, nopTxManager{}, &numerator.MockGenerator{})

	c := validCandidate()
	c.Code = "STA0099"
	require.NoError(t, svc.Create(context.Background(), c))
	assert.Equal(t, "STA0099", c.Code)
}

func TestCandidateValidate_Rules(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(c *Candidate)
	}{
		{"missing first name", func(c *Candidate) { c.FirstName = "" }},
		{"bad email", func(c *Candidate) { c.Email = "not-an-email" }},
		{"bad personal number", func(c *Candidate) { c.PersonalNumber = "98765abc" }},
		{"bad emergency number", func(c *Candidate) { c.EmergencyContactNumber = "call me" }},
		{"short aadhar", func(c *Candidate) { c.AadharNumber = "1234 5678" }},
		{"bad pan", func(c *Candidate) { c.PANNumber = "ABC1234567" }},
		{"bad status", func(c *Candidate) { c.Status = "Paused" }},
		{"account with letters", func(c *Candidate) {
			acc := "12345X"
			c.AccountNumber = &acc
		}},
		{"asset without type", func(c *Candidate) { c.Asset = "Y" }},
		{"laptop without company", func(c *Candidate) {
			c.Asset = "Y"
			c.AssetType = AssetLaptop
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCandidate()
			tc.mutate(c)

			err := c.Validate(ctx)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}

	c := validCandidate()
	c.Asset = "Y"
	c.AssetType = AssetLaptop
	c.LaptopCompanyName = "Dell"
	assert.NoError(t, c.Validate(ctx))
}

func TestCandidateAttachDocument_RequiresCandidate(t *testing.T) {
	repo := newFakeCandidateRepo()
	svc := NewCandidateService(repo, nopTxManager{}, &numerator.MockGenerator{})
	ctx := context.Background()

	_, err := svc.AttachDocument(ctx, id.New(), "offer.pdf", "/uploads/offer.pdf")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	c := validCandidate()
	require.NoError(t, svc.Create(ctx, c))

	doc, err := svc.AttachDocument(ctx, c.ID, "offer.pdf", "/uploads/offer.pdf")
	require.NoError(t, err)
	assert.Equal(t, c.ID, doc.CandidateID)

	docs, err := svc.Documents(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "offer.pdf", docs[0].FileName)
}

func TestAttendancePunch_ComputesPairedHours(t *testing.T) {
	var a Attendance
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	a.Punch(base)
	assert.True(t, a.TotalHours.IsZero(), "dangling check-in must not count")

	a.Punch(base.Add(4 * time.Hour))
	assert.Equal(t, "4", a.TotalHours.String())

	a.Punch(base.Add(5 * time.Hour))
	assert.Equal(t, "4", a.TotalHours.String())

	a.Punch(base.Add(9 * time.Hour))
	assert.Equal(t, "8", a.TotalHours.String())
}

func TestAttendanceService_PunchCreatesThenExtendsDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(repo, nopTxManager{})
	ctx := context.Background()

	userID := id.New()
	morning := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	first, err := svc.Punch(ctx, userID, morning)
	require.NoError(t, err)
	require.Len(t, first.Punches, 1)
	assert.Equal(t, DayOf(morning), first.Day)

	second, err := svc.Punch(ctx, userID, morning.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same day must reuse the record")
	require.Len(t, second.Punches, 2)
	assert.Equal(t, "8", second.TotalHours.String())

	_, err = svc.Punch(ctx, id.Nil(), morning)
	require.Error(t, err)
}

func TestAttendanceService_HolidayPerDateIsUnique(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(repo, nopTxManager{})
	ctx := context.Background()

	day := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	require.NoError(t, svc.AddHoliday(ctx, &Holiday{Day: day, Description: "Independence Day"}))

	// The time-of-day part is stripped before storage.
	isHoliday, err := svc.IsHoliday(ctx, day.Add(5*time.Hour))
	require.NoError(t, err)
	assert.True(t, isHoliday)

	err = svc.AddHoliday(ctx, &Holiday{Day: day})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestTaskService_ValidatesStatusAndPriority(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nopTxManager{})
	ctx := context.Background()

	task := NewTask("prepare onboarding kit", id.New())
	task.StartDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	task.DueDate = task.StartDate.AddDate(0, 0, 7)
	require.NoError(t, svc.Create(ctx, task))

	task.Status = "Done"
	err := svc.Update(ctx, task)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	task.Status = TaskCompleted
	require.NoError(t, svc.Update(ctx, task))

	stored, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, stored.Status)
}

func TestTaskList_FiltersByAssigneeAndStatus(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nopTxManager{})
	ctx := context.Background()

	mine := id.New()
	other := id.New()
	for _, owner := range []id.ID{mine, mine, other} {
		task := NewTask("task", owner)
		require.NoError(t, svc.Create(ctx, task))
	}

	tasks, err := svc.List(ctx, &mine, "")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	_, err = svc.List(ctx, nil, "Blocked")
	require.Error(t, err)
}
