package dto

import (
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
)

// InterviewDTO is the dashboard view of an interview; tokens and slot
// internals stay server side.
type InterviewDTO struct {
	ID                uuid.UUID             `json:"id"`
	OutreachID        uuid.UUID             `json:"outreach_id"`
	JobID             uuid.UUID             `json:"jd_id"`
	CandidateName     string                `json:"candidate_name"`
	CandidateEmail    string                `json:"candidate_email"`
	JobTitle          string                `json:"job_title"`
	InterviewRound    int                   `json:"interview_round"`
	RoundName         string                `json:"round_name"`
	Status            model.InterviewStatus `json:"status"`
	InterviewDate     string                `json:"interview_date"`
	ConfirmedSlotTime *time.Time            `json:"confirmed_slot_time,omitempty"`
	RescheduleTime    *time.Time            `json:"reschedule_time,omitempty"`
	InterviewerEmail  string                `json:"interviewer_email"`
	MeetLink          string                `json:"meet_link,omitempty"`
	FeedbackSentAt    *time.Time            `json:"feedback_sent_at,omitempty"`
	HRRoundScheduled  bool                  `json:"hr_round_scheduled"`
	Decision          model.Decision        `json:"decision,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func NewInterviewDTO(iv *model.Interview) InterviewDTO {
	return InterviewDTO{
		ID:                iv.ID,
		OutreachID:        iv.OutreachID,
		JobID:             iv.JobID,
		CandidateName:     iv.CandidateName,
		CandidateEmail:    iv.CandidateEmail,
		JobTitle:          iv.JobTitle,
		InterviewRound:    iv.InterviewRound,
		RoundName:         model.RoundName(iv.InterviewRound),
		Status:            iv.Status,
		InterviewDate:     iv.InterviewDate.Format(time.DateOnly),
		ConfirmedSlotTime: iv.ConfirmedSlotTime,
		RescheduleTime:    iv.RescheduleTime,
		InterviewerEmail:  iv.InterviewerEmail,
		MeetLink:          iv.MeetLink,
		FeedbackSentAt:    iv.FeedbackSentAt,
		HRRoundScheduled:  iv.HRRoundScheduled,
		Decision:          iv.Decision,
		CreatedAt:         iv.CreatedAt,
		UpdatedAt:         iv.UpdatedAt,
	}
}

func NewInterviewDTOs(list []model.Interview) []InterviewDTO {
	out := make([]InterviewDTO, 0, len(list))
	for i := range list {
		out = append(out, NewInterviewDTO(&list[i]))
	}
	return out
}
