package model

import "time"

type EventRequest struct {
	CalendarID     string
	Summary        string
	Description    string
	Start          time.Time
	End            time.Time
	Organizer      string
	Attendees      []string
	WantConference bool
}

type CalendarEvent struct {
	EventID  string `json:"event_id"`
	HTMLLink string `json:"html_link"`
	MeetLink string `json:"meet_link"`
}
