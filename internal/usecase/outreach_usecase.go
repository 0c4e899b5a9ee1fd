package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/service"
	"github.com/fadilmartias/recruit-scheduler/internal/token"
	"github.com/google/uuid"
)

type OutreachSendItem struct {
	ResumeID      uuid.UUID  `json:"resume_id"`
	CandidateName string     `json:"candidate_name,omitempty"`
	Email         string     `json:"email,omitempty"`
	Rank          int        `json:"rank"`
	Score         int        `json:"score"`
	Status        string     `json:"status"`
	OutreachID    *uuid.UUID `json:"outreach_id,omitempty"`
	Message       string     `json:"message,omitempty"`
}

type OutreachSendResult struct {
	Sent   int                `json:"sent"`
	Failed int                `json:"failed"`
	Items  []OutreachSendItem `json:"items"`
}

type AcknowledgeResult struct {
	Outreach        *model.Outreach       `json:"outreach"`
	Acknowledgement model.Acknowledgement `json:"acknowledgement"`
	// Repeated is true when an earlier click already recorded the answer.
	Repeated bool            `json:"repeated"`
	Schedule *ScheduleResult `json:"schedule,omitempty"`
	// ScheduleErr is logged for operators and never shown to the candidate.
	ScheduleErr error `json:"-"`
}

type OutreachUsecase struct {
	outreachRepo repository.OutreachRepositoryInterface
	jobRepo      repository.JobRepositoryInterface
	resumeRepo   repository.ResumeRepositoryInterface
	scheduling   *SchedulingUsecase
	mailer       service.MailServiceInterface
	mail         *MailComposer
	signer       *token.Signer
	now          func() time.Time
	log          *slog.Logger
}

func NewOutreachUsecase(
	outreachRepo repository.OutreachRepositoryInterface,
	jobRepo repository.JobRepositoryInterface,
	resumeRepo repository.ResumeRepositoryInterface,
	scheduling *SchedulingUsecase,
	mailer service.MailServiceInterface,
	mail *MailComposer,
	signer *token.Signer,
) *OutreachUsecase {
	return &OutreachUsecase{
		outreachRepo: outreachRepo,
		jobRepo:      jobRepo,
		resumeRepo:   resumeRepo,
		scheduling:   scheduling,
		mailer:       mailer,
		mail:         mail,
		signer:       signer,
		now:          time.Now,
		log:          slog.With(slog.String("component", "outreach")),
	}
}

// Send emails each candidate in the order given; the position is the rank.
// The outreach row is only written once its email went out, so a failed
// send leaves nothing the candidate could respond to.
func (uc *OutreachUsecase) Send(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) (*OutreachSendResult, error) {
	const op = "send outreach"
	if len(resumeIDs) == 0 {
		return nil, newError(KindInvalidInput, op, "candidate_ids must not be empty", nil)
	}
	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, lookupError(op, "job", err)
	}

	matches, err := uc.resumeRepo.MatchesFor(ctx, job.Embedding, resumeIDs)
	if err != nil {
		return nil, newError(KindInternal, op, "could not load candidates", err)
	}
	byID := make(map[uuid.UUID]model.ResumeMatch, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	result := &OutreachSendResult{Items: make([]OutreachSendItem, 0, len(resumeIDs))}
	for i, id := range resumeIDs {
		item := OutreachSendItem{ResumeID: id, Rank: i + 1}
		m, ok := byID[id]
		if !ok {
			item.Status, item.Message = "failed", "candidate not found"
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}
		item.CandidateName, item.Email, item.Score = m.CandidateName, m.Email, model.ATSScore(m.Distance)
		if m.Email == "" {
			item.Status, item.Message = "failed", "candidate has no email address"
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		o := &model.Outreach{
			ID:             uuid.New(),
			ResumeID:       id,
			JobID:          job.ID,
			CandidateName:  m.CandidateName,
			CandidateEmail: m.Email,
			JobTitle:       job.DisplayRole(),
			Rank:           item.Rank,
			Score:          item.Score,
			SentAt:         uc.now(),
		}
		if err := uc.sendOne(ctx, o, job.DisplayRole()); err != nil {
			uc.log.Error("outreach failed",
				slog.String("resume_id", id.String()), slog.String("job_id", job.ID.String()), slog.Any("error", err))
			item.Status, item.Message = "failed", MessageOf(err)
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}
		item.Status = "sent"
		item.OutreachID = &o.ID
		result.Sent++
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (uc *OutreachUsecase) sendOne(ctx context.Context, o *model.Outreach, role string) error {
	const op = "send outreach"
	email, err := uc.mail.Outreach(o, role)
	if err != nil {
		return newError(KindInternal, op, "could not render email", err)
	}
	if err := uc.mailer.Send(ctx, email); err != nil {
		return newError(KindExternal, op, "email could not be sent", err)
	}
	if err := uc.outreachRepo.Create(ctx, o); err != nil {
		return newError(KindInternal, op, "email sent but outreach was not recorded", err)
	}
	return nil
}

// Acknowledge records the candidate's answer to an outreach email. Only the
// first answer is stored; a repeated "interested" click re-runs the
// idempotent scheduling step so a failed first attempt can recover.
func (uc *OutreachUsecase) Acknowledge(ctx context.Context, outreachToken string, response model.Acknowledgement) (*AcknowledgeResult, error) {
	const op = "acknowledge outreach"
	if !response.Valid() {
		return nil, newError(KindInvalidInput, op, "response must be interested or not_interested", nil)
	}
	subject, err := uc.signer.Verify(token.PurposeOutreach, outreachToken)
	if err != nil {
		return nil, newError(KindUnauthorized, op, "this link is not valid", err)
	}
	outreachID, err := uuid.Parse(subject)
	if err != nil {
		return nil, newError(KindUnauthorized, op, "this link is not valid", err)
	}

	updated, err := uc.outreachRepo.SetAcknowledgement(ctx, outreachID, response, uc.now())
	if err != nil {
		return nil, newError(KindInternal, op, "could not record response", err)
	}
	o, err := uc.outreachRepo.FindByID(ctx, outreachID)
	if err != nil {
		return nil, lookupError(op, "outreach", err)
	}

	res := &AcknowledgeResult{Outreach: o, Acknowledgement: response, Repeated: !updated}
	if o.Acknowledgement != nil {
		res.Acknowledgement = *o.Acknowledgement
	}

	switch res.Acknowledgement {
	case model.AckInterested:
		res.Schedule, res.ScheduleErr = uc.scheduling.ScheduleForCandidate(ctx, o.ID)
		if res.ScheduleErr != nil {
			uc.log.Error("scheduling after acknowledgement failed",
				slog.String("outreach_id", o.ID.String()), slog.Any("error", res.ScheduleErr))
		}
	case model.AckNotInterested:
		if err := uc.scheduling.DeclineActive(ctx, o.ID); err != nil {
			uc.log.Error("declining interviews failed",
				slog.String("outreach_id", o.ID.String()), slog.Any("error", err))
		}
	}
	uc.log.Info("outreach acknowledged",
		slog.String("outreach_id", o.ID.String()),
		slog.String("acknowledgement", string(res.Acknowledgement)),
		slog.Bool("repeated", res.Repeated))
	return res, nil
}
