package usecase

import (
	"context"
	"strings"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultTopK = 10
	maxTopK     = 100
)

type RankedCandidate struct {
	Rank            int       `json:"rank"`
	ResumeID        uuid.UUID `json:"resume_id"`
	CandidateName   string    `json:"candidate_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Skills          string    `json:"skills"`
	ExperienceYears float64   `json:"experience_years"`
	ATSScore        int       `json:"ats_score"`
}

type MatchResult struct {
	Job        *model.Job        `json:"job"`
	Candidates []RankedCandidate `json:"candidates"`
}

type MatchUsecase struct {
	jobRepo    repository.JobRepositoryInterface
	resumeRepo repository.ResumeRepositoryInterface
}

func NewMatchUsecase(jobRepo repository.JobRepositoryInterface, resumeRepo repository.ResumeRepositoryInterface) *MatchUsecase {
	return &MatchUsecase{jobRepo: jobRepo, resumeRepo: resumeRepo}
}

func (uc *MatchUsecase) TopByJob(ctx context.Context, jobID uuid.UUID, topK int) (*MatchResult, error) {
	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, lookupError("match by job", "job", err)
	}
	return uc.rank(ctx, "match by job", job, topK)
}

// TopByRole ranks against the most recent job whose role or title matches.
func (uc *MatchUsecase) TopByRole(ctx context.Context, role string, topK int) (*MatchResult, error) {
	const op = "match by role"
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, newError(KindInvalidInput, op, "role_name is required", nil)
	}
	job, err := uc.jobRepo.FindLatestByRole(ctx, role)
	if err != nil {
		return nil, lookupError(op, "job for role "+role, err)
	}
	return uc.rank(ctx, op, job, topK)
}

func (uc *MatchUsecase) rank(ctx context.Context, op string, job *model.Job, topK int) (*MatchResult, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	matches, err := uc.resumeRepo.TopMatches(ctx, job.Embedding, topK)
	if err != nil {
		return nil, newError(KindInternal, op, "could not rank candidates", err)
	}
	out := make([]RankedCandidate, 0, len(matches))
	for i, m := range matches {
		out = append(out, RankedCandidate{
			Rank:            i + 1,
			ResumeID:        m.ID,
			CandidateName:   m.CandidateName,
			Email:           m.Email,
			Phone:           m.Phone,
			Skills:          m.Skills,
			ExperienceYears: m.ExperienceYears,
			ATSScore:        model.ATSScore(m.Distance),
		})
	}
	return &MatchResult{Job: job, Candidates: out}, nil
}
