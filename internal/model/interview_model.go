package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoundTechnical = 1
	RoundHR        = 2
)

func RoundName(round int) string {
	if round == RoundHR {
		return "HR Round"
	}
	return "Technical Round"
}

type Decision string

const (
	DecisionOffer  Decision = "offer"
	DecisionReject Decision = "reject"
)

// Interview is one scheduling workflow instance for an outreach and round.
// Only one active row per (outreach_id, interview_round) is allowed; the
// partial unique index is created during migration.
type Interview struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OutreachID        uuid.UUID       `gorm:"type:uuid;index" json:"outreach_id"`
	ResumeID          uuid.UUID       `gorm:"type:uuid;index" json:"resume_id"`
	JobID             uuid.UUID       `gorm:"type:uuid;index" json:"job_id"`
	CandidateName     string          `gorm:"type:varchar(255)" json:"candidate_name"`
	CandidateEmail    string          `gorm:"type:varchar(255)" json:"candidate_email"`
	JobTitle          string          `gorm:"type:varchar(255)" json:"job_title"`
	InterviewRound    int             `gorm:"default:1" json:"interview_round"`
	InterviewerEmail  string          `gorm:"type:varchar(255)" json:"interviewer_email"`
	InterviewDate     time.Time       `gorm:"type:date" json:"interview_date"`
	ProposedSlots     ProposedSlots   `gorm:"type:jsonb" json:"proposed_slots"`
	SelectedSlot      string          `gorm:"type:varchar(20)" json:"selected_slot"`
	ConfirmedSlotTime *time.Time      `json:"confirmed_slot_time"`
	RescheduleTime    *time.Time      `json:"reschedule_time"`
	Status            InterviewStatus `gorm:"type:varchar(30);index;not null;default:'pending'" json:"status"`
	EventID           string          `gorm:"type:varchar(255)" json:"event_id"`
	EventLink         string          `gorm:"type:text" json:"event_link"`
	MeetLink          string          `gorm:"type:text" json:"meet_link"`
	FeedbackFormLink  string          `gorm:"type:text" json:"feedback_form_link"`
	FeedbackSentAt    *time.Time      `json:"feedback_sent_at"`
	HRRoundScheduled  bool            `gorm:"not null;default:false" json:"hr_round_scheduled"`
	Decision          Decision        `gorm:"type:varchar(20)" json:"decision"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (i *Interview) TableName() string {
	return "interview_schedules"
}

// Apply moves the interview along the transition table and returns the
// status it left, for compare-and-set persistence.
func (i *Interview) Apply(event InterviewEvent) (InterviewStatus, error) {
	from := i.Status
	to, err := NextStatus(from, event)
	if err != nil {
		return from, err
	}
	i.Status = to
	return from, nil
}

// SlotDuration falls back to an hour for rows without proposed slots.
func (i *Interview) SlotDuration() time.Duration {
	if len(i.ProposedSlots) > 0 {
		if d := i.ProposedSlots[0].End.Sub(i.ProposedSlots[0].Start); d > 0 {
			return d
		}
	}
	return time.Hour
}

type InterviewFilter struct {
	JobID  *uuid.UUID
	Status InterviewStatus
}
