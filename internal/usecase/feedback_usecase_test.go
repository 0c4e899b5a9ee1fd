package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDueRequestsOncePerInterview(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	iv := h.scheduledInterview(t, h.addOutreach(t, "Asha Rao", "asha@example.com"))
	start := *h.interviews.get(t, iv.ID).ConfirmedSlotTime
	h.mailer.reset()

	h.clock.Set(start.Add(10 * time.Minute))
	stats, err := h.feedbackUC.SendDueRequests(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Due, "delay has not passed yet")

	h.clock.Set(start.Add(20 * time.Minute))
	stats, err = h.feedbackUC.SendDueRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, FeedbackRunStats{Due: 1, Sent: 1}, stats)

	mails := h.mailer.sentTo(testInterviewer)
	require.Len(t, mails, 1)
	assert.Contains(t, mails[0].Subject, "Asha Rao")
	assert.Contains(t, mails[0].HTML, "/feedback/confirm/"+iv.ID.String())

	stored := h.interviews.get(t, iv.ID)
	require.NotNil(t, stored.FeedbackSentAt)
	assert.Equal(t, start.Add(20*time.Minute), *stored.FeedbackSentAt)
	assert.Equal(t, model.StatusScheduled, stored.Status)

	h.clock.Set(start.Add(40 * time.Minute))
	stats, err = h.feedbackUC.SendDueRequests(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Sent)
	assert.Len(t, h.mailer.sentTo(testInterviewer), 1)
}

func TestSendDueRequestsContinuesAfterFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.scheduledInterview(t, h.addOutreach(t, "Asha Rao", "asha@example.com"))
	b := h.scheduledInterview(t, h.addOutreach(t, "Ben Ode", "ben@example.com"))

	// route the first interview to an address that fails
	broken := h.interviews.get(t, a.ID)
	broken.InterviewerEmail = "broken@example.com"
	h.interviews.rows[a.ID] = broken
	h.mailer.failFor["broken@example.com"] = true

	h.clock.Set(tuesday.AddDate(0, 0, 2))
	stats, err := h.feedbackUC.SendDueRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Due)
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 1, stats.Failed)

	assert.Nil(t, h.interviews.get(t, a.ID).FeedbackSentAt)
	assert.NotNil(t, h.interviews.get(t, b.ID).FeedbackSentAt)
}

func validSubmission(h *harness, interviewID uuid.UUID) FeedbackSubmission {
	return FeedbackSubmission{
		InterviewID:          interviewID,
		Token:                h.signer.Sign(token.PurposeInterviewer, interviewID.String()),
		TechnicalSkills:      4,
		EducationTraining:    3,
		WorkExperience:       4,
		OrganizationalSkills: 3,
		Communication:        5,
		Attitude:             5,
		OverallRating:        8,
		FinalRecommendation:  model.RecommendMakeOffer,
		Comments:             "Strong Go fundamentals.",
		CurrentCTC:           "12 LPA",
	}
}

func TestSubmitFeedback(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	iv := h.scheduledInterview(t, h.addOutreach(t, "Asha Rao", "asha@example.com"))

	fb, err := h.feedbackUC.Submit(ctx, validSubmission(h, iv.ID))
	require.NoError(t, err)
	assert.Equal(t, model.RoundTechnical, fb.InterviewRound)
	assert.Empty(t, fb.CurrentCTC, "compensation is only kept for HR rounds")
	assert.Equal(t, model.StatusCompleted, h.interviews.get(t, iv.ID).Status)

	second := validSubmission(h, iv.ID)
	second.FinalRecommendation = model.RecommendHold
	_, err = h.feedbackUC.Submit(ctx, second)
	require.NoError(t, err)

	view, err := h.feedbackUC.View(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RecommendHold, view.Feedback.FinalRecommendation)
	assert.Equal(t, fb.ID, view.Feedback.ID)
	assert.Len(t, h.feedback.rows, 1)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	iv := h.scheduledInterview(t, h.addOutreach(t, "Asha Rao", "asha@example.com"))

	tests := []struct {
		name   string
		mutate func(*FeedbackSubmission)
		want   Kind
	}{
		{"rating below range", func(s *FeedbackSubmission) { s.TechnicalSkills = 0 }, KindInvalidInput},
		{"rating above range", func(s *FeedbackSubmission) { s.Attitude = 6 }, KindInvalidInput},
		{"overall above range", func(s *FeedbackSubmission) { s.OverallRating = 11 }, KindInvalidInput},
		{"unknown recommendation", func(s *FeedbackSubmission) { s.FinalRecommendation = "Maybe" }, KindInvalidInput},
		{"candidate token", func(s *FeedbackSubmission) {
			s.Token = h.signer.Sign(token.PurposeOutreach, iv.OutreachID.String())
		}, KindUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission(h, iv.ID)
			tt.mutate(&in)
			_, err := h.feedbackUC.Submit(ctx, in)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
	assert.Empty(t, h.feedback.rows)
	assert.Equal(t, model.StatusScheduled, h.interviews.get(t, iv.ID).Status)
}

func TestSubmitFeedbackRequiresHeldInterview(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.scheduling.ScheduleForCandidate(ctx, h.addOutreach(t, "Asha Rao", "asha@example.com").ID)
	require.NoError(t, err)

	_, err = h.feedbackUC.Submit(ctx, validSubmission(h, res.Interview.ID))
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestViewFeedbackMissing(t *testing.T) {
	h := newHarness(t)
	iv := h.scheduledInterview(t, h.addOutreach(t, "Asha Rao", "asha@example.com"))

	_, err := h.feedbackUC.View(context.Background(), iv.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
