package model

import (
	"time"

	"github.com/google/uuid"
)

type Acknowledgement string

const (
	AckInterested    Acknowledgement = "interested"
	AckNotInterested Acknowledgement = "not_interested"
)

func (a Acknowledgement) Valid() bool {
	return a == AckInterested || a == AckNotInterested
}

// Outreach records one recruiting email sent to a candidate about a job.
type Outreach struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ResumeID        uuid.UUID        `gorm:"type:uuid;index" json:"resume_id"`
	JobID           uuid.UUID        `gorm:"type:uuid;index" json:"job_id"`
	CandidateName   string           `gorm:"type:varchar(255)" json:"candidate_name"`
	CandidateEmail  string           `gorm:"type:varchar(255)" json:"candidate_email"`
	JobTitle        string           `gorm:"type:varchar(255)" json:"job_title"`
	Rank            int              `json:"rank"`
	Score           int              `json:"score"`
	Acknowledgement *Acknowledgement `gorm:"type:varchar(20)" json:"acknowledgement"`
	AcknowledgedAt  *time.Time       `json:"acknowledged_at"`
	SentAt          time.Time        `json:"sent_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (o *Outreach) TableName() string {
	return "candidate_outreach"
}
