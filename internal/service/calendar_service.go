package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/config"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type CalendarServiceInterface interface {
	GetBusyBlocks(ctx context.Context, calendarID string, start, end time.Time) ([]model.TimeWindow, error)
	CreateEvent(ctx context.Context, req model.EventRequest) (*model.CalendarEvent, error)
}

type GoogleCalendarService struct {
	srv      *calendar.Service
	timeZone string
}

// NewGoogleCalendarService authenticates with the OAuth client in
// credentials.json and a previously authorized token.json. The server never
// runs the interactive consent flow itself.
func NewGoogleCalendarService(ctx context.Context, timeZone string) (*GoogleCalendarService, error) {
	cfg := config.LoadCalendarConfig()

	b, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read calendar credentials file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse calendar credentials: %w", err)
	}
	tok, err := tokenFromFile(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read calendar token %s (authorize the account first): %w", cfg.TokenPath, err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}
	return &GoogleCalendarService{srv: srv, timeZone: timeZone}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func (s *GoogleCalendarService) GetBusyBlocks(ctx context.Context, calendarID string, start, end time.Time) ([]model.TimeWindow, error) {
	resp, err := s.srv.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: s.timeZone,
		Items:    []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("free/busy query for %s: %w", calendarID, err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("free/busy response has no entry for %s", calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("free/busy query for %s: %s", calendarID, cal.Errors[0].Reason)
	}
	return parseBusy(cal.Busy)
}

func parseBusy(periods []*calendar.TimePeriod) ([]model.TimeWindow, error) {
	blocks := make([]model.TimeWindow, 0, len(periods))
	for _, p := range periods {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", p.Start, err)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", p.End, err)
		}
		blocks = append(blocks, model.TimeWindow{Start: start, End: end})
	}
	return blocks, nil
}

func (s *GoogleCalendarService) CreateEvent(ctx context.Context, req model.EventRequest) (*model.CalendarEvent, error) {
	ev := s.buildEvent(req)
	if req.WantConference {
		ev.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             "meet-" + strings.ReplaceAll(uuid.NewString(), "-", ""),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}

	created, err := s.insert(ctx, req.CalendarID, ev, req.WantConference)
	if err != nil && req.WantConference && strings.Contains(strings.ToLower(err.Error()), "conference") {
		slog.Warn("conference creation failed, retrying without meet link",
			slog.String("calendar_id", req.CalendarID), slog.Any("error", err))
		ev.ConferenceData = nil
		created, err = s.insert(ctx, req.CalendarID, ev, false)
	}
	if err != nil {
		return nil, fmt.Errorf("create calendar event %q: %w", req.Summary, err)
	}

	return &model.CalendarEvent{
		EventID:  created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: meetLink(created),
	}, nil
}

func (s *GoogleCalendarService) insert(ctx context.Context, calendarID string, ev *calendar.Event, conference bool) (*calendar.Event, error) {
	call := s.srv.Events.Insert(calendarID, ev).
		SendUpdates("all").
		MaxAttendees(10).
		Context(ctx)
	if conference {
		call = call.ConferenceDataVersion(1)
	}
	return call.Do()
}

func (s *GoogleCalendarService) buildEvent(req model.EventRequest) *calendar.Event {
	seen := make(map[string]bool)
	var attendees []*calendar.EventAttendee
	add := func(email string, organizer bool) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		attendees = append(attendees, &calendar.EventAttendee{Email: email, Organizer: organizer})
	}
	add(req.Organizer, true)
	for _, a := range req.Attendees {
		add(a, false)
	}

	return &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339), TimeZone: s.timeZone},
		End:         &calendar.EventDateTime{DateTime: req.End.Format(time.RFC3339), TimeZone: s.timeZone},
		Attendees:   attendees,
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 15},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// meetLink prefers hangoutLink and falls back to the first video entry point.
func meetLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData == nil {
		return ""
	}
	for _, ep := range ev.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" && ep.Uri != "" {
			return ep.Uri
		}
	}
	if len(ev.ConferenceData.EntryPoints) > 0 {
		return ev.ConferenceData.EntryPoints[0].Uri
	}
	return ""
}
