package model

import (
	"time"

	"github.com/google/uuid"
)

type Recommendation string

const (
	RecommendMakeOffer Recommendation = "Make Offer"
	RecommendHold      Recommendation = "Hold"
	RecommendReject    Recommendation = "Reject"
)

func (r Recommendation) Valid() bool {
	return r == RecommendMakeOffer || r == RecommendHold || r == RecommendReject
}

// Feedback is the single authoritative evaluation of an interview. Ratings
// are 1-5, OverallRating is 1-10. The compensation fields are only filled
// for HR rounds.
type Feedback struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InterviewID          uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"interview_id"`
	InterviewRound       int            `json:"interview_round"`
	InterviewerEmail     string         `gorm:"type:varchar(255)" json:"interviewer_email"`
	TechnicalSkills      int            `json:"technical_skills"`
	EducationTraining    int            `json:"education_training"`
	WorkExperience       int            `json:"work_experience"`
	OrganizationalSkills int            `json:"organizational_skills"`
	Communication        int            `json:"communication"`
	Attitude             int            `json:"attitude"`
	OverallRating        int            `json:"overall_rating"`
	FinalRecommendation  Recommendation `gorm:"type:varchar(20)" json:"final_recommendation"`
	Comments             string         `gorm:"type:text" json:"comments"`
	CurrentCTC           string         `gorm:"type:varchar(100)" json:"current_ctc,omitempty"`
	ExpectedCTC          string         `gorm:"type:varchar(100)" json:"expected_ctc,omitempty"`
	NoticePeriod         string         `gorm:"type:varchar(100)" json:"notice_period,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func (f *Feedback) TableName() string {
	return "feedback"
}
