package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/service"
	"github.com/google/uuid"
)

type FeedbackSubmission struct {
	InterviewID          uuid.UUID
	Token                string
	TechnicalSkills      int
	EducationTraining    int
	WorkExperience       int
	OrganizationalSkills int
	Communication        int
	Attitude             int
	OverallRating        int
	FinalRecommendation  model.Recommendation
	Comments             string
	CurrentCTC           string
	ExpectedCTC          string
	NoticePeriod         string
}

type FeedbackRunStats struct {
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type FeedbackView struct {
	Interview *model.Interview `json:"interview"`
	Feedback  *model.Feedback  `json:"feedback"`
}

type FeedbackUsecase struct {
	interviewRepo repository.InterviewRepositoryInterface
	feedbackRepo  repository.FeedbackRepositoryInterface
	scheduling    *SchedulingUsecase
	mailer        service.MailServiceInterface
	mail          *MailComposer
	delay         time.Duration
	now           func() time.Time
	log           *slog.Logger
}

func NewFeedbackUsecase(
	interviewRepo repository.InterviewRepositoryInterface,
	feedbackRepo repository.FeedbackRepositoryInterface,
	scheduling *SchedulingUsecase,
	mailer service.MailServiceInterface,
	mail *MailComposer,
	delay time.Duration,
) *FeedbackUsecase {
	return &FeedbackUsecase{
		interviewRepo: interviewRepo,
		feedbackRepo:  feedbackRepo,
		scheduling:    scheduling,
		mailer:        mailer,
		mail:          mail,
		delay:         delay,
		now:           time.Now,
		log:           slog.With(slog.String("component", "feedback")),
	}
}

// SendDueRequests emails the interviewer of every scheduled interview that
// started at least delay ago and has not been asked yet. One interview
// failing does not stop the rest.
func (uc *FeedbackUsecase) SendDueRequests(ctx context.Context) (FeedbackRunStats, error) {
	var stats FeedbackRunStats
	now := uc.now()
	due, err := uc.interviewRepo.ListDueForFeedback(ctx, now.Add(-uc.delay))
	if err != nil {
		return stats, fmt.Errorf("list interviews due for feedback: %w", err)
	}
	stats.Due = len(due)

	for i := range due {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		iv := &due[i]
		interviewer := iv.InterviewerEmail
		if interviewer == "" {
			interviewer = uc.scheduling.interviewerFor(iv.InterviewRound)
		}
		if interviewer == "" {
			uc.log.Warn("no interviewer address for feedback request", slog.String("interview_id", iv.ID.String()))
			stats.Skipped++
			continue
		}

		email, err := uc.mail.FeedbackRequest(iv, interviewer)
		if err == nil {
			err = uc.mailer.Send(ctx, email)
		}
		if err != nil {
			uc.log.Error("feedback request failed",
				slog.String("interview_id", iv.ID.String()), slog.Any("error", err))
			stats.Failed++
			continue
		}

		marked, err := uc.interviewRepo.MarkFeedbackSent(ctx, iv.ID, uc.now())
		if err != nil {
			uc.log.Error("feedback request sent but not recorded",
				slog.String("interview_id", iv.ID.String()), slog.Any("error", err))
			stats.Failed++
			continue
		}
		if !marked {
			stats.Skipped++
			continue
		}
		stats.Sent++
		uc.log.Info("feedback request sent",
			slog.String("interview_id", iv.ID.String()), slog.String("interviewer", interviewer))
	}
	return stats, nil
}

// Submit stores the interviewer's evaluation, replacing any earlier one, and
// completes the interview if it was still scheduled.
func (uc *FeedbackUsecase) Submit(ctx context.Context, in FeedbackSubmission) (*model.Feedback, error) {
	const op = "submit feedback"
	if err := validateFeedback(in); err != nil {
		return nil, err
	}
	if err := uc.scheduling.VerifyInterviewerToken(in.InterviewID, in.Token); err != nil {
		return nil, err
	}
	iv, err := uc.interviewRepo.FindByID(ctx, in.InterviewID)
	if err != nil {
		return nil, lookupError(op, "interview", err)
	}
	switch iv.Status {
	case model.StatusScheduled, model.StatusCompleted:
	default:
		return nil, newError(KindInvalidTransition, op,
			fmt.Sprintf("feedback cannot be submitted for a %s interview", iv.Status), nil)
	}

	fb := &model.Feedback{
		InterviewID:          iv.ID,
		InterviewRound:       iv.InterviewRound,
		InterviewerEmail:     iv.InterviewerEmail,
		TechnicalSkills:      in.TechnicalSkills,
		EducationTraining:    in.EducationTraining,
		WorkExperience:       in.WorkExperience,
		OrganizationalSkills: in.OrganizationalSkills,
		Communication:        in.Communication,
		Attitude:             in.Attitude,
		OverallRating:        in.OverallRating,
		FinalRecommendation:  in.FinalRecommendation,
		Comments:             in.Comments,
	}
	if iv.InterviewRound == model.RoundHR {
		fb.CurrentCTC, fb.ExpectedCTC, fb.NoticePeriod = in.CurrentCTC, in.ExpectedCTC, in.NoticePeriod
	}
	if err := uc.feedbackRepo.Upsert(ctx, fb); err != nil {
		return nil, newError(KindInternal, op, "could not save feedback", err)
	}

	if iv.Status == model.StatusScheduled {
		if _, err := uc.scheduling.ConfirmHeld(ctx, iv.ID, true); err != nil {
			uc.log.Warn("feedback saved but interview not completed",
				slog.String("interview_id", iv.ID.String()), slog.Any("error", err))
		}
	}
	uc.log.Info("feedback submitted",
		slog.String("interview_id", iv.ID.String()),
		slog.String("recommendation", string(fb.FinalRecommendation)))
	return fb, nil
}

func (uc *FeedbackUsecase) View(ctx context.Context, interviewID uuid.UUID) (*FeedbackView, error) {
	const op = "view feedback"
	iv, err := uc.interviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return nil, lookupError(op, "interview", err)
	}
	fb, err := uc.feedbackRepo.FindByInterview(ctx, interviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, op, "no feedback has been submitted for this interview", err)
		}
		return nil, newError(KindInternal, op, "could not load feedback", err)
	}
	return &FeedbackView{Interview: iv, Feedback: fb}, nil
}

func validateFeedback(in FeedbackSubmission) error {
	const op = "submit feedback"
	ratings := []struct {
		name  string
		value int
	}{
		{"technical_skills", in.TechnicalSkills},
		{"education_training", in.EducationTraining},
		{"work_experience", in.WorkExperience},
		{"organizational_skills", in.OrganizationalSkills},
		{"communication", in.Communication},
		{"attitude", in.Attitude},
	}
	for _, r := range ratings {
		if r.value < 1 || r.value > 5 {
			return newError(KindInvalidInput, op, r.name+" must be between 1 and 5", nil)
		}
	}
	if in.OverallRating < 1 || in.OverallRating > 10 {
		return newError(KindInvalidInput, op, "overall_rating must be between 1 and 10", nil)
	}
	if !in.FinalRecommendation.Valid() {
		return newError(KindInvalidInput, op, "final_recommendation must be Make Offer, Hold or Reject", nil)
	}
	return nil
}
