package config

import (
	"log/slog"
	"sync"
	"time"
)

type SchedulingConfig struct {
	InterviewerEmail   string
	HRInterviewerEmail string
	SlotDuration       time.Duration
	TimeZone           string
	Location           *time.Location
	ProposedSlotCount  int
	// MaxInterviewsPerDay of 0 means no daily cap.
	MaxInterviewsPerDay int
	LookaheadDays       int
	PollInterval        time.Duration
	FeedbackDelay       time.Duration
	FeedbackFormLink    string
	HRFeedbackFormLink  string
}

var (
	schedulingConfig *SchedulingConfig
	schedulingOnce   sync.Once
)

func LoadSchedulingConfig() *SchedulingConfig {
	schedulingOnce.Do(func() {
		tz := getEnv("SCHEDULING_TIMEZONE", "Asia/Kolkata")
		loc, err := time.LoadLocation(tz)
		if err != nil {
			slog.Warn("unknown scheduling timezone, using UTC", slog.String("timezone", tz), slog.Any("error", err))
			tz, loc = "UTC", time.UTC
		}
		interviewer := getEnv("INTERVIEWER_EMAIL", "")
		schedulingConfig = &SchedulingConfig{
			InterviewerEmail:    interviewer,
			HRInterviewerEmail:  getEnv("HR_INTERVIEWER_EMAIL", interviewer),
			SlotDuration:        time.Duration(getEnvInt("INTERVIEW_DURATION_MINUTES", 60)) * time.Minute,
			TimeZone:            tz,
			Location:            loc,
			ProposedSlotCount:   getEnvInt("PROPOSED_SLOT_COUNT", 3),
			MaxInterviewsPerDay: getEnvInt("MAX_INTERVIEWS_PER_DAY", 0),
			LookaheadDays:       getEnvInt("SCHEDULING_LOOKAHEAD_DAYS", 30),
			PollInterval:        getEnvDuration("FEEDBACK_POLL_INTERVAL", 10*time.Minute),
			FeedbackDelay:       getEnvDuration("FEEDBACK_DELAY", 15*time.Minute),
			FeedbackFormLink:    getEnv("FEEDBACK_FORM_LINK", ""),
			HRFeedbackFormLink:  getEnv("HR_FEEDBACK_FORM_LINK", ""),
		}
	})
	return schedulingConfig
}
