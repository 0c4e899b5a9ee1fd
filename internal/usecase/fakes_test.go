package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/mailtemplate"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/token"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "0123456789abcdef-test-secret"
	testInterviewer = "lead@example.com"
	testHR          = "hr@example.com"
	testFormLink    = "https://forms.example.com/technical"
	testHRFormLink  = "https://forms.example.com/hr"
)

// testLoc avoids depending on the tz database in tests.
var testLoc = time.FixedZone("IST", 5*3600+1800)

// tuesday is 2025-03-04 10:00 local.
var tuesday = time.Date(2025, 3, 4, 10, 0, 0, 0, testLoc)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type memOutreachRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Outreach
}

func newMemOutreachRepo() *memOutreachRepo {
	return &memOutreachRepo{rows: map[uuid.UUID]model.Outreach{}}
}

func (r *memOutreachRepo) Create(ctx context.Context, o *model.Outreach) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if _, ok := r.rows[o.ID]; ok {
		return repository.ErrDuplicate
	}
	r.rows[o.ID] = *o
	return nil
}

func (r *memOutreachRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Outreach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *memOutreachRepo) SetAcknowledgement(ctx context.Context, id uuid.UUID, ack model.Acknowledgement, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.rows[id]
	if !ok || o.Acknowledgement != nil {
		return false, nil
	}
	o.Acknowledgement = &ack
	o.AcknowledgedAt = &at
	r.rows[id] = o
	return true, nil
}

func (r *memOutreachRepo) ListInterested(ctx context.Context, jobID uuid.UUID) ([]model.Outreach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.Outreach
	for _, o := range r.rows {
		if o.JobID == jobID && o.Acknowledgement != nil && *o.Acknowledgement == model.AckInterested {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Rank < list[j].Rank })
	return list, nil
}

type memInterviewRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Interview
	// beforeCreate runs without the lock held, to simulate a concurrent insert.
	beforeCreate func(iv *model.Interview)
}

func newMemInterviewRepo() *memInterviewRepo {
	return &memInterviewRepo{rows: map[uuid.UUID]model.Interview{}}
}

func (r *memInterviewRepo) Create(ctx context.Context, iv *model.Interview) error {
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook(iv)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(iv)
}

// insertLocked enforces the partial unique index on (outreach_id, interview_round).
func (r *memInterviewRepo) insertLocked(iv *model.Interview) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	for _, other := range r.rows {
		if other.OutreachID == iv.OutreachID && other.InterviewRound == iv.InterviewRound && other.Status.IsActive() {
			return repository.ErrDuplicate
		}
	}
	r.rows[iv.ID] = *iv
	return nil
}

func (r *memInterviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &iv, nil
}

func (r *memInterviewRepo) FindActive(ctx context.Context, outreachID uuid.UUID, round int) (*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, iv := range r.rows {
		if iv.OutreachID == outreachID && iv.InterviewRound == round && iv.Status.IsActive() {
			return &iv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memInterviewRepo) ListActiveByOutreach(ctx context.Context, outreachID uuid.UUID) ([]model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.Interview
	for _, iv := range r.rows {
		if iv.OutreachID == outreachID && iv.Status.IsActive() {
			list = append(list, iv)
		}
	}
	return list, nil
}

func (r *memInterviewRepo) Transition(ctx context.Context, iv *model.Interview, from model.InterviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[iv.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrStaleState
	}
	next := *iv
	next.FeedbackSentAt = stored.FeedbackSentAt
	r.rows[iv.ID] = next
	return nil
}

func (r *memInterviewRepo) CountActiveOnDate(ctx context.Context, day time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, iv := range r.rows {
		if sameDay(iv.InterviewDate, day) && iv.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *memInterviewRepo) ListDueForFeedback(ctx context.Context, cutoff time.Time) ([]model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.Interview
	for _, iv := range r.rows {
		if iv.Status == model.StatusScheduled && iv.FeedbackSentAt == nil &&
			iv.ConfirmedSlotTime != nil && !iv.ConfirmedSlotTime.After(cutoff) {
			list = append(list, iv)
		}
	}
	return list, nil
}

func (r *memInterviewRepo) MarkFeedbackSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.rows[id]
	if !ok || iv.FeedbackSentAt != nil {
		return false, nil
	}
	iv.FeedbackSentAt = &at
	r.rows[id] = iv
	return true, nil
}

func (r *memInterviewRepo) CreateHRRound(ctx context.Context, firstRoundID uuid.UUID, next *model.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	first, ok := r.rows[firstRoundID]
	if !ok {
		return repository.ErrNotFound
	}
	if first.HRRoundScheduled {
		return repository.ErrStaleState
	}
	if err := r.insertLocked(next); err != nil {
		return err
	}
	first.HRRoundScheduled = true
	r.rows[firstRoundID] = first
	return nil
}

func (r *memInterviewRepo) SetDecision(ctx context.Context, id uuid.UUID, decision model.Decision) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.rows[id]
	if !ok || iv.Decision != "" {
		return false, nil
	}
	iv.Decision = decision
	r.rows[id] = iv
	return true, nil
}

func (r *memInterviewRepo) List(ctx context.Context, filter model.InterviewFilter, page, pageSize int) ([]model.Interview, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Interview
	for _, iv := range r.rows {
		if filter.JobID != nil && iv.JobID != *filter.JobID {
			continue
		}
		if filter.Status != "" && iv.Status != filter.Status {
			continue
		}
		all = append(all, iv)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CandidateName < all[j].CandidateName })
	total := int64(len(all))
	if pageSize > 0 {
		from := (page - 1) * pageSize
		if from > len(all) {
			from = len(all)
		}
		to := from + pageSize
		if to > len(all) {
			to = len(all)
		}
		all = all[from:to]
	}
	return all, total, nil
}

func (r *memInterviewRepo) CountByStatus(ctx context.Context, jobID *uuid.UUID) (map[model.InterviewStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[model.InterviewStatus]int64{}
	for _, iv := range r.rows {
		if jobID != nil && iv.JobID != *jobID {
			continue
		}
		counts[iv.Status]++
	}
	return counts, nil
}

func (r *memInterviewRepo) get(t *testing.T, id uuid.UUID) model.Interview {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.rows[id]
	require.True(t, ok, "interview %s not stored", id)
	return iv
}

// update edits a stored row in place, as a concurrent writer would.
func (r *memInterviewRepo) update(t *testing.T, id uuid.UUID, edit func(iv *model.Interview)) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.rows[id]
	require.True(t, ok, "interview %s not stored", id)
	edit(&iv)
	r.rows[id] = iv
}

func (r *memInterviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memFeedbackRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Feedback
}

func newMemFeedbackRepo() *memFeedbackRepo {
	return &memFeedbackRepo{rows: map[uuid.UUID]model.Feedback{}}
}

func (r *memFeedbackRepo) Upsert(ctx context.Context, fb *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[fb.InterviewID]; ok {
		fb.ID = existing.ID
	} else if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	r.rows[fb.InterviewID] = *fb
	return nil
}

func (r *memFeedbackRepo) FindByInterview(ctx context.Context, interviewID uuid.UUID) (*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fb, ok := r.rows[interviewID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &fb, nil
}

type memJobRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Job
}

func newMemJobRepo(jobs ...model.Job) *memJobRepo {
	r := &memJobRepo{rows: map[uuid.UUID]model.Job{}}
	for _, j := range jobs {
		r.rows[j.ID] = j
	}
	return r
}

func (r *memJobRepo) Create(ctx context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now()
	r.rows[job.ID] = *job
	return nil
}

func (r *memJobRepo) Update(ctx context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[job.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[job.ID] = *job
	return nil
}

func (r *memJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &j, nil
}

func (r *memJobRepo) FindLatestByRole(ctx context.Context, role string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *model.Job
	for _, j := range r.rows {
		if !strings.EqualFold(j.Role, role) && !strings.EqualFold(j.Title, role) {
			continue
		}
		if best == nil || j.CreatedAt.After(best.CreatedAt) {
			cp := j
			best = &cp
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

// memResumeRepo scores resumes by a fixed distance per id instead of by embedding.
type memResumeRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]model.Resume
	distance map[uuid.UUID]float64
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{rows: map[uuid.UUID]model.Resume{}, distance: map[uuid.UUID]float64{}}
}

func (r *memResumeRepo) add(res model.Resume, distance float64) model.Resume {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	r.rows[res.ID] = res
	r.distance[res.ID] = distance
	return res
}

func (r *memResumeRepo) Create(ctx context.Context, res *model.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.rows {
		if res.Email != "" && other.Email == res.Email {
			return repository.ErrDuplicate
		}
	}
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	r.rows[res.ID] = *res
	return nil
}

func (r *memResumeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.Resume
	for _, id := range ids {
		if res, ok := r.rows[id]; ok {
			list = append(list, res)
		}
	}
	return list, nil
}

func (r *memResumeRepo) TopMatches(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.ResumeMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.ResumeMatch
	for id, res := range r.rows {
		list = append(list, model.ResumeMatch{Resume: res, Distance: r.distance[id]})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Distance < list[j].Distance })
	if len(list) > topK {
		list = list[:topK]
	}
	return list, nil
}

func (r *memResumeRepo) MatchesFor(ctx context.Context, embedding pgvector.Vector, ids []uuid.UUID) ([]model.ResumeMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.ResumeMatch
	for _, id := range ids {
		if res, ok := r.rows[id]; ok {
			list = append(list, model.ResumeMatch{Resume: res, Distance: r.distance[id]})
		}
	}
	return list, nil
}

type fakeCalendar struct {
	mu        sync.Mutex
	busy      []model.TimeWindow
	busyErr   error
	createErr error
	created   []model.EventRequest
}

func (c *fakeCalendar) GetBusyBlocks(ctx context.Context, calendarID string, start, end time.Time) ([]model.TimeWindow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busyErr != nil {
		return nil, c.busyErr
	}
	return c.busy, nil
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, req model.EventRequest) (*model.CalendarEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, req)
	return &model.CalendarEvent{
		EventID:  "evt-" + strings.Repeat("x", len(c.created)),
		HTMLLink: "https://calendar.example.com/event",
		MeetLink: "https://meet.google.com/abc-defg-hij",
	}, nil
}

type fakeMailer struct {
	mu sync.Mutex
	// failFor makes sends to these recipients fail.
	failFor map[string]bool
	sent    []model.Email
}

var errSMTP = errors.New("smtp: connection refused")

func (m *fakeMailer) Send(ctx context.Context, email model.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range email.To {
		if m.failFor[to] {
			return errSMTP
		}
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *fakeMailer) sentTo(addr string) []model.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Email
	for _, e := range m.sent {
		for _, to := range e.To {
			if to == addr {
				out = append(out, e)
			}
		}
	}
	return out
}

func (m *fakeMailer) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) reset() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}

type fakeGemini struct {
	err   error
	calls int
}

func (g *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// harness wires the scheduling stack over in-memory fakes.
type harness struct {
	clock      *clock
	outreach   *memOutreachRepo
	interviews *memInterviewRepo
	feedback   *memFeedbackRepo
	jobs       *memJobRepo
	resumes    *memResumeRepo
	calendar   *fakeCalendar
	mailer     *fakeMailer
	signer     *token.Signer
	composer   *MailComposer
	scheduling *SchedulingUsecase
	outreachUC *OutreachUsecase
	feedbackUC *FeedbackUsecase
	job        model.Job
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	signer, err := token.NewSigner(testSecret)
	require.NoError(t, err)
	templates, err := mailtemplate.New()
	require.NoError(t, err)

	h := &harness{
		clock:      &clock{now: tuesday},
		outreach:   newMemOutreachRepo(),
		interviews: newMemInterviewRepo(),
		feedback:   newMemFeedbackRepo(),
		resumes:    newMemResumeRepo(),
		calendar:   &fakeCalendar{},
		mailer:     &fakeMailer{failFor: map[string]bool{}},
		signer:     signer,
		job:        model.Job{ID: uuid.New(), Title: "Backend Engineer", Role: "Backend Engineer"},
	}
	h.jobs = newMemJobRepo(h.job)
	h.composer = NewMailComposer(templates, signer, "https://hire.example.com/", "Acme", testLoc)
	slots := NewSlotGenerator(h.calendar, time.Hour, testLoc)
	h.scheduling = NewSchedulingUsecase(h.outreach, h.interviews, h.feedback, slots, h.calendar, h.mailer, h.composer, signer,
		SchedulingOptions{
			Location:           testLoc,
			InterviewerEmail:   testInterviewer,
			HRInterviewerEmail: testHR,
			SlotCount:          3,
			FeedbackFormLink:   testFormLink,
			HRFeedbackFormLink: testHRFormLink,
		})
	h.scheduling.now = h.clock.Now
	h.outreachUC = NewOutreachUsecase(h.outreach, h.jobs, h.resumes, h.scheduling, h.mailer, h.composer, signer)
	h.outreachUC.now = h.clock.Now
	h.feedbackUC = NewFeedbackUsecase(h.interviews, h.feedback, h.scheduling, h.mailer, h.composer, 15*time.Minute)
	h.feedbackUC.now = h.clock.Now
	return h
}

// addOutreach stores an outreach that has already been emailed.
func (h *harness) addOutreach(t *testing.T, name, email string) *model.Outreach {
	t.Helper()
	o := &model.Outreach{
		ID:             uuid.New(),
		ResumeID:       uuid.New(),
		JobID:          h.job.ID,
		CandidateName:  name,
		CandidateEmail: email,
		JobTitle:       h.job.DisplayRole(),
		Rank:           1,
		Score:          87,
		SentAt:         h.clock.Now(),
	}
	require.NoError(t, h.outreach.Create(context.Background(), o))
	return o
}

func (h *harness) outreachToken(o *model.Outreach) string {
	return h.signer.Sign(token.PurposeOutreach, o.ID.String())
}

// scheduledInterview drives an outreach through ack, slot confirmation and approval.
func (h *harness) scheduledInterview(t *testing.T, o *model.Outreach) *model.Interview {
	t.Helper()
	ctx := context.Background()
	res, err := h.scheduling.ScheduleForCandidate(ctx, o.ID)
	require.NoError(t, err)
	_, err = h.scheduling.ConfirmSlot(ctx, res.Interview.ID, "slot1", h.outreachToken(o))
	require.NoError(t, err)
	approved, err := h.scheduling.Approve(ctx, res.Interview.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusScheduled, approved.Interview.Status)
	return approved.Interview
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
