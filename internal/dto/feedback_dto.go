package dto

import (
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/google/uuid"
)

type FeedbackSubmitRequest struct {
	InterviewID          uuid.UUID `json:"interview_id" validate:"required"`
	Token                string    `json:"token" validate:"required"`
	TechnicalSkills      int       `json:"technical_skills" validate:"min=1,max=5"`
	EducationTraining    int       `json:"education_training" validate:"min=1,max=5"`
	WorkExperience       int       `json:"work_experience" validate:"min=1,max=5"`
	OrganizationalSkills int       `json:"organizational_skills" validate:"min=1,max=5"`
	Communication        int       `json:"communication" validate:"min=1,max=5"`
	Attitude             int       `json:"attitude" validate:"min=1,max=5"`
	OverallRating        int       `json:"overall_rating" validate:"min=1,max=10"`
	FinalRecommendation  string    `json:"final_recommendation" validate:"required,oneof='Make Offer' 'Hold' 'Reject'"`
	Comments             string    `json:"comments" validate:"max=5000"`
	CurrentCTC           string    `json:"current_ctc" validate:"max=100"`
	ExpectedCTC          string    `json:"expected_ctc" validate:"max=100"`
	NoticePeriod         string    `json:"notice_period" validate:"max=100"`
}

func (r FeedbackSubmitRequest) ToSubmission() usecase.FeedbackSubmission {
	return usecase.FeedbackSubmission{
		InterviewID:          r.InterviewID,
		Token:                r.Token,
		TechnicalSkills:      r.TechnicalSkills,
		EducationTraining:    r.EducationTraining,
		WorkExperience:       r.WorkExperience,
		OrganizationalSkills: r.OrganizationalSkills,
		Communication:        r.Communication,
		Attitude:             r.Attitude,
		OverallRating:        r.OverallRating,
		FinalRecommendation:  model.Recommendation(r.FinalRecommendation),
		Comments:             r.Comments,
		CurrentCTC:           r.CurrentCTC,
		ExpectedCTC:          r.ExpectedCTC,
		NoticePeriod:         r.NoticePeriod,
	}
}
