package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type JobRepositoryInterface interface {
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	FindLatestByRole(ctx context.Context, role string) (*model.Job, error)
}

type ResumeRepositoryInterface interface {
	Create(ctx context.Context, resume *model.Resume) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Resume, error)
	TopMatches(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.ResumeMatch, error)
	MatchesFor(ctx context.Context, embedding pgvector.Vector, ids []uuid.UUID) ([]model.ResumeMatch, error)
}

type OutreachRepositoryInterface interface {
	Create(ctx context.Context, outreach *model.Outreach) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Outreach, error)
	// SetAcknowledgement stores ack only if none was recorded yet and
	// reports whether it did.
	SetAcknowledgement(ctx context.Context, id uuid.UUID, ack model.Acknowledgement, at time.Time) (bool, error)
	ListInterested(ctx context.Context, jobID uuid.UUID) ([]model.Outreach, error)
}

type InterviewRepositoryInterface interface {
	Create(ctx context.Context, interview *model.Interview) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Interview, error)
	FindActive(ctx context.Context, outreachID uuid.UUID, round int) (*model.Interview, error)
	ListActiveByOutreach(ctx context.Context, outreachID uuid.UUID) ([]model.Interview, error)
	// Transition persists interview only if its stored status is still from.
	Transition(ctx context.Context, interview *model.Interview, from model.InterviewStatus) error
	CountActiveOnDate(ctx context.Context, day time.Time) (int64, error)
	ListDueForFeedback(ctx context.Context, cutoff time.Time) ([]model.Interview, error)
	MarkFeedbackSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// CreateHRRound flips hr_round_scheduled on the first round and inserts
	// next in one transaction.
	CreateHRRound(ctx context.Context, firstRoundID uuid.UUID, next *model.Interview) error
	SetDecision(ctx context.Context, id uuid.UUID, decision model.Decision) (bool, error)
	List(ctx context.Context, filter model.InterviewFilter, page, pageSize int) ([]model.Interview, int64, error)
	CountByStatus(ctx context.Context, jobID *uuid.UUID) (map[model.InterviewStatus]int64, error)
}

type FeedbackRepositoryInterface interface {
	Upsert(ctx context.Context, feedback *model.Feedback) error
	FindByInterview(ctx context.Context, interviewID uuid.UUID) (*model.Feedback, error)
}
