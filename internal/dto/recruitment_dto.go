package dto

import (
	"github.com/google/uuid"
)

type MatchByJobRequest struct {
	JobID uuid.UUID `json:"jd_id" validate:"required"`
	TopK  int       `json:"top_k" validate:"min=0,max=100"`
}

type MatchByRoleRequest struct {
	RoleName string `json:"role_name" validate:"required"`
	TopK     int    `json:"top_k" validate:"min=0,max=100"`
}

type SendEmailsRequest struct {
	JobID        uuid.UUID   `json:"jd_id" validate:"required"`
	CandidateIDs []uuid.UUID `json:"candidate_ids" validate:"required,min=1,max=200,dive,required"`
}

type ScheduleInterviewsRequest struct {
	JobID         uuid.UUID `json:"jd_id" validate:"required"`
	InterviewDate string    `json:"interview_date" validate:"required,datetime=2006-01-02"`
}

// RescheduleRequest is posted by the interviewer's reschedule form.
type RescheduleRequest struct {
	NewDate string `json:"new_date" form:"new_date" validate:"required,datetime=2006-01-02"`
	NewTime string `json:"new_time" form:"new_time" validate:"required,datetime=15:04"`
	Token   string `json:"token" form:"token" validate:"required"`
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=offer reject"`
}

type CancelRequest struct {
	// Declined records a candidate withdrawal instead of an admin cancel.
	Declined bool `json:"declined"`
}

type AnalyzeJDForm struct {
	JobID     string `form:"job_id" validate:"omitempty,uuid"`
	SourceURL string `form:"source_url" validate:"omitempty,url"`
}
