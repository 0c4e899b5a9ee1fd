package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/service"
	"github.com/fadilmartias/recruit-scheduler/internal/token"
	"github.com/google/uuid"
)

const rescheduleLayout = "2006-01-02 15:04"

type SchedulingOptions struct {
	CalendarID         string
	Location           *time.Location
	InterviewerEmail   string
	HRInterviewerEmail string
	SlotCount          int
	// MaxPerDay of 0 disables the daily capacity check.
	MaxPerDay          int
	LookaheadDays      int
	FeedbackFormLink   string
	HRFeedbackFormLink string
}

type ScheduleResult struct {
	Interview        *model.Interview `json:"interview"`
	AlreadyScheduled bool             `json:"already_scheduled"`
	// Warning reports a side effect that failed after the state change was saved.
	Warning string `json:"warning,omitempty"`
}

type TransitionResult struct {
	Interview   *model.Interview `json:"interview"`
	Warning     string           `json:"warning,omitempty"`
	RedirectURL string           `json:"redirect_url,omitempty"`
}

type BulkScheduleItem struct {
	OutreachID    uuid.UUID  `json:"outreach_id"`
	CandidateName string     `json:"candidate_name"`
	Status        string     `json:"status"`
	InterviewID   *uuid.UUID `json:"interview_id,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// SchedulingUsecase is the only writer of interview status.
type SchedulingUsecase struct {
	outreachRepo  repository.OutreachRepositoryInterface
	interviewRepo repository.InterviewRepositoryInterface
	feedbackRepo  repository.FeedbackRepositoryInterface
	slots         *SlotGenerator
	calendar      service.CalendarServiceInterface
	mailer        service.MailServiceInterface
	mail          *MailComposer
	signer        *token.Signer
	opts          SchedulingOptions
	now           func() time.Time
	log           *slog.Logger
}

func NewSchedulingUsecase(
	outreachRepo repository.OutreachRepositoryInterface,
	interviewRepo repository.InterviewRepositoryInterface,
	feedbackRepo repository.FeedbackRepositoryInterface,
	slots *SlotGenerator,
	calendar service.CalendarServiceInterface,
	mailer service.MailServiceInterface,
	mail *MailComposer,
	signer *token.Signer,
	opts SchedulingOptions,
) *SchedulingUsecase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SlotCount <= 0 {
		opts.SlotCount = 3
	}
	if opts.LookaheadDays <= 0 {
		opts.LookaheadDays = 30
	}
	if opts.CalendarID == "" {
		opts.CalendarID = "primary"
	}
	return &SchedulingUsecase{
		outreachRepo:  outreachRepo,
		interviewRepo: interviewRepo,
		feedbackRepo:  feedbackRepo,
		slots:         slots,
		calendar:      calendar,
		mailer:        mailer,
		mail:          mail,
		signer:        signer,
		opts:          opts,
		now:           time.Now,
		log:           slog.With(slog.String("component", "scheduling")),
	}
}

// ScheduleForCandidate opens the technical round for an interested outreach.
// A second call for the same outreach returns the existing interview.
func (uc *SchedulingUsecase) ScheduleForCandidate(ctx context.Context, outreachID uuid.UUID) (*ScheduleResult, error) {
	const op = "schedule for candidate"
	o, err := uc.outreachRepo.FindByID(ctx, outreachID)
	if err != nil {
		return nil, lookupError(op, "outreach", err)
	}
	return uc.scheduleRound(ctx, op, o, model.RoundTechnical, nil)
}

// ScheduleForJob schedules every interested candidate of a job. Each
// candidate is handled independently.
func (uc *SchedulingUsecase) ScheduleForJob(ctx context.Context, jobID uuid.UUID, date string) ([]BulkScheduleItem, error) {
	const op = "schedule for job"
	var day *time.Time
	if date != "" {
		d, err := time.ParseInLocation(time.DateOnly, date, uc.opts.Location)
		if err != nil {
			return nil, newError(KindInvalidInput, op, "interview_date must be YYYY-MM-DD", err)
		}
		if isWeekend(d) {
			return nil, newError(KindInvalidInput, op, "interview_date falls on a weekend", nil)
		}
		if !d.After(uc.today()) {
			return nil, newError(KindInvalidInput, op, "interview_date must be in the future", nil)
		}
		day = &d
	}

	outreach, err := uc.outreachRepo.ListInterested(ctx, jobID)
	if err != nil {
		return nil, newError(KindInternal, op, "could not load interested candidates", err)
	}

	items := make([]BulkScheduleItem, 0, len(outreach))
	for i := range outreach {
		o := &outreach[i]
		item := BulkScheduleItem{OutreachID: o.ID, CandidateName: o.CandidateName}
		res, err := uc.scheduleRound(ctx, op, o, model.RoundTechnical, day)
		switch {
		case err != nil:
			item.Status = "failed"
			item.Message = MessageOf(err)
			uc.log.Warn("bulk scheduling failed for candidate",
				slog.String("outreach_id", o.ID.String()), slog.Any("error", err))
		case res.AlreadyScheduled:
			item.Status = "already_scheduled"
			item.InterviewID = &res.Interview.ID
		default:
			item.Status = "scheduled"
			item.InterviewID = &res.Interview.ID
			item.Message = res.Warning
		}
		items = append(items, item)
	}
	return items, nil
}

func (uc *SchedulingUsecase) scheduleRound(ctx context.Context, op string, o *model.Outreach, round int, day *time.Time) (*ScheduleResult, error) {
	if existing, err := uc.interviewRepo.FindActive(ctx, o.ID, round); err == nil {
		return &ScheduleResult{Interview: existing, AlreadyScheduled: true}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindInternal, op, "could not check existing interviews", err)
	}

	var date time.Time
	if day != nil {
		if err := uc.checkCapacity(ctx, op, *day); err != nil {
			return nil, err
		}
		date = *day
	} else {
		d, err := uc.pickDate(ctx, op)
		if err != nil {
			return nil, err
		}
		date = d
	}

	iv := &model.Interview{
		ID:               uuid.New(),
		OutreachID:       o.ID,
		ResumeID:         o.ResumeID,
		JobID:            o.JobID,
		CandidateName:    o.CandidateName,
		CandidateEmail:   o.CandidateEmail,
		JobTitle:         o.JobTitle,
		InterviewRound:   round,
		InterviewerEmail: uc.interviewerFor(round),
		InterviewDate:    date,
		ProposedSlots:    uc.slots.Generate(ctx, date, uc.opts.SlotCount, uc.opts.CalendarID),
		Status:           model.StatusPending,
	}
	if err := uc.interviewRepo.Create(ctx, iv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			existing, ferr := uc.interviewRepo.FindActive(ctx, o.ID, round)
			if ferr != nil {
				return nil, newError(KindConflict, op, "interview already scheduled", err)
			}
			return &ScheduleResult{Interview: existing, AlreadyScheduled: true}, nil
		}
		return nil, newError(KindInternal, op, "could not save interview", err)
	}

	uc.log.Info("interview created",
		slog.String("interview_id", iv.ID.String()),
		slog.String("outreach_id", o.ID.String()),
		slog.Int("round", round),
		slog.String("date", date.Format(time.DateOnly)),
		slog.Int("slots", len(iv.ProposedSlots)))

	return &ScheduleResult{Interview: iv, Warning: uc.sendInvitation(ctx, iv)}, nil
}

// pickDate returns the first weekday after today that still has capacity.
func (uc *SchedulingUsecase) pickDate(ctx context.Context, op string) (time.Time, error) {
	day := NextWeekday(uc.today())
	for i := 0; i < uc.opts.LookaheadDays; i++ {
		if isWeekend(day) {
			day = day.AddDate(0, 0, 1)
			continue
		}
		if uc.opts.MaxPerDay <= 0 {
			return day, nil
		}
		n, err := uc.interviewRepo.CountActiveOnDate(ctx, day)
		if err != nil {
			return time.Time{}, newError(KindInternal, op, "could not check interview capacity", err)
		}
		if n < int64(uc.opts.MaxPerDay) {
			return day, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, newError(KindConflict, op,
		fmt.Sprintf("no interview capacity in the next %d days", uc.opts.LookaheadDays), nil)
}

func (uc *SchedulingUsecase) checkCapacity(ctx context.Context, op string, day time.Time) error {
	if uc.opts.MaxPerDay <= 0 {
		return nil
	}
	n, err := uc.interviewRepo.CountActiveOnDate(ctx, day)
	if err != nil {
		return newError(KindInternal, op, "could not check interview capacity", err)
	}
	if n >= int64(uc.opts.MaxPerDay) {
		return newError(KindConflict, op, day.Format(time.DateOnly)+" is fully booked", nil)
	}
	return nil
}

// ResendInvitation re-sends the slot email for a pending interview.
func (uc *SchedulingUsecase) ResendInvitation(ctx context.Context, interviewID uuid.UUID) (*TransitionResult, error) {
	const op = "resend invitation"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != model.StatusPending {
		return nil, newError(KindInvalidTransition, op, fmt.Sprintf("interview is %s", iv.Status), nil)
	}
	if warning := uc.sendInvitation(ctx, iv); warning != "" {
		return nil, newError(KindExternal, op, warning, nil)
	}
	return &TransitionResult{Interview: iv}, nil
}

// ConfirmSlot records the candidate's slot choice. The token must have been
// issued for the interview's own outreach.
func (uc *SchedulingUsecase) ConfirmSlot(ctx context.Context, interviewID uuid.UUID, slotID, outreachToken string) (*TransitionResult, error) {
	const op = "confirm slot"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if err := uc.signer.VerifySubject(token.PurposeOutreach, outreachToken, iv.OutreachID.String()); err != nil {
		return nil, newError(KindUnauthorized, op, "this link is not valid for this interview", err)
	}
	slot, ok := iv.ProposedSlots.Find(slotID)
	if !ok {
		return nil, newError(KindInvalidInput, op, fmt.Sprintf("unknown slot %q", slotID), nil)
	}
	if iv.Status == model.StatusWaitingApproval && iv.SelectedSlot == slotID {
		return &TransitionResult{Interview: iv}, nil
	}

	from, err := iv.Apply(model.EventSlotSelected)
	if err != nil {
		return nil, transitionError(op, err)
	}
	start := slot.Start
	iv.SelectedSlot = slotID
	iv.ConfirmedSlotTime = &start
	if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
		return nil, persistError(op, err)
	}

	res := &TransitionResult{Interview: iv}
	email, err := uc.mail.ApprovalRequest(iv)
	res.Warning = uc.deliver(ctx, "approval request", iv, email, err)
	return res, nil
}

// VerifyInterviewerToken guards the interviewer email links.
func (uc *SchedulingUsecase) VerifyInterviewerToken(interviewID uuid.UUID, tok string) error {
	if err := uc.signer.VerifySubject(token.PurposeInterviewer, tok, interviewID.String()); err != nil {
		return newError(KindUnauthorized, "verify interviewer link", "this link is not valid for this interview", err)
	}
	return nil
}

// Approve creates the calendar event and schedules the interview. A calendar
// failure leaves the interview in waiting_approval; approving an already
// scheduled interview returns it unchanged.
func (uc *SchedulingUsecase) Approve(ctx context.Context, interviewID uuid.UUID) (*TransitionResult, error) {
	const op = "approve interview"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status == model.StatusScheduled {
		return &TransitionResult{Interview: iv}, nil
	}
	return uc.finalize(ctx, op, iv, model.EventApproved)
}

// RejectAndPropose is the interviewer turning down the selected slot and
// suggesting newDate (YYYY-MM-DD) at newTime (HH:MM) instead.
func (uc *SchedulingUsecase) RejectAndPropose(ctx context.Context, interviewID uuid.UUID, newDate, newTime string) (*TransitionResult, error) {
	const op = "propose new time"
	proposed, err := time.ParseInLocation(rescheduleLayout,
		strings.TrimSpace(newDate)+" "+strings.TrimSpace(newTime), uc.opts.Location)
	if err != nil {
		return nil, newError(KindInvalidInput, op, "new_date must be YYYY-MM-DD and new_time HH:MM", err)
	}
	if !proposed.After(uc.now()) {
		return nil, newError(KindInvalidInput, op, "the proposed time must be in the future", nil)
	}

	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	from, err := iv.Apply(model.EventRejected)
	if err != nil {
		return nil, transitionError(op, err)
	}
	iv.RescheduleTime = &proposed
	if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
		return nil, persistError(op, err)
	}

	res := &TransitionResult{Interview: iv}
	email, err := uc.mail.RescheduleProposal(iv)
	res.Warning = uc.deliver(ctx, "reschedule proposal", iv, email, err)
	return res, nil
}

// PrepareReschedule checks that the interviewer may still reject the selected
// slot and returns the interview with the earliest date they may propose.
func (uc *SchedulingUsecase) PrepareReschedule(ctx context.Context, interviewID uuid.UUID) (*model.Interview, time.Time, error) {
	const op = "propose new time"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if _, err := model.NextStatus(iv.Status, model.EventRejected); err != nil {
		return nil, time.Time{}, transitionError(op, err)
	}
	return iv, uc.today().AddDate(0, 0, 1), nil
}

// AcceptReschedule schedules the interview at the interviewer's proposed time.
func (uc *SchedulingUsecase) AcceptReschedule(ctx context.Context, interviewID uuid.UUID, outreachToken string) (*TransitionResult, error) {
	const op = "accept reschedule"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if err := uc.signer.VerifySubject(token.PurposeOutreach, outreachToken, iv.OutreachID.String()); err != nil {
		return nil, newError(KindUnauthorized, op, "this link is not valid for this interview", err)
	}
	if iv.Status == model.StatusScheduled {
		return &TransitionResult{Interview: iv}, nil
	}
	if iv.Status == model.StatusPendingReschedule {
		if iv.RescheduleTime == nil {
			return nil, newError(KindInvalidInput, op, "no proposed time to accept", nil)
		}
		proposed := *iv.RescheduleTime
		iv.ConfirmedSlotTime = &proposed
		iv.SelectedSlot = "reschedule"
		local := proposed.In(uc.opts.Location)
		iv.InterviewDate = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.opts.Location)
	}
	return uc.finalize(ctx, op, iv, model.EventRescheduleAccepted)
}

// DeclineReschedule sends the candidate back to slot selection with fresh slots.
func (uc *SchedulingUsecase) DeclineReschedule(ctx context.Context, interviewID uuid.UUID, outreachToken string) (*TransitionResult, error) {
	const op = "decline reschedule"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if err := uc.signer.VerifySubject(token.PurposeOutreach, outreachToken, iv.OutreachID.String()); err != nil {
		return nil, newError(KindUnauthorized, op, "this link is not valid for this interview", err)
	}
	from, err := iv.Apply(model.EventRescheduleDeclined)
	if err != nil {
		return nil, transitionError(op, err)
	}

	date := uc.localDay(iv.InterviewDate)
	if !date.After(uc.today()) {
		if date, err = uc.pickDate(ctx, op); err != nil {
			return nil, err
		}
	}
	iv.InterviewDate = date
	iv.ProposedSlots = uc.slots.Generate(ctx, date, uc.opts.SlotCount, uc.opts.CalendarID)
	iv.SelectedSlot = ""
	iv.ConfirmedSlotTime = nil
	iv.RescheduleTime = nil
	if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
		return nil, persistError(op, err)
	}
	return &TransitionResult{Interview: iv, Warning: uc.sendInvitation(ctx, iv)}, nil
}

// ConfirmHeld is the interviewer answering the feedback email. A held
// interview completes and redirects to the feedback form; otherwise it is
// cancelled.
func (uc *SchedulingUsecase) ConfirmHeld(ctx context.Context, interviewID uuid.UUID, held bool) (*TransitionResult, error) {
	const op = "confirm interview held"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}

	event, target := model.EventCancelled, model.StatusCancelled
	if held {
		event, target = model.EventCompleted, model.StatusCompleted
	}
	res := &TransitionResult{Interview: iv}
	if held {
		res.RedirectURL = iv.FeedbackFormLink
	}
	if iv.Status == target {
		return res, nil
	}

	from, err := iv.Apply(event)
	if err != nil {
		return nil, transitionError(op, err)
	}
	if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
		return nil, persistError(op, err)
	}
	uc.log.Info("interview outcome recorded",
		slog.String("interview_id", iv.ID.String()), slog.String("status", string(iv.Status)))
	return res, nil
}

// Cancel stops all automation for an interview. declined marks a candidate
// withdrawal rather than an administrative cancel.
func (uc *SchedulingUsecase) Cancel(ctx context.Context, interviewID uuid.UUID, declined bool) (*TransitionResult, error) {
	const op = "cancel interview"
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	event := model.EventCancelled
	if declined {
		event = model.EventDeclined
	}
	from, err := iv.Apply(event)
	if err != nil {
		return nil, transitionError(op, err)
	}
	if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
		return nil, persistError(op, err)
	}
	return &TransitionResult{Interview: iv}, nil
}

// DeclineActive declines every open interview of an outreach after the
// candidate said they are not interested.
func (uc *SchedulingUsecase) DeclineActive(ctx context.Context, outreachID uuid.UUID) error {
	list, err := uc.interviewRepo.ListActiveByOutreach(ctx, outreachID)
	if err != nil {
		return newError(KindInternal, "decline interviews", "could not load interviews", err)
	}
	for i := range list {
		iv := &list[i]
		if iv.Status.IsTerminal() {
			continue
		}
		from, err := iv.Apply(model.EventDeclined)
		if err != nil {
			continue
		}
		if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
			uc.log.Warn("could not decline interview",
				slog.String("interview_id", iv.ID.String()), slog.Any("error", err))
		}
	}
	return nil
}

// ScheduleHRRound opens round 2 once round 1 feedback recommends an offer.
func (uc *SchedulingUsecase) ScheduleHRRound(ctx context.Context, firstRoundID uuid.UUID) (*ScheduleResult, error) {
	const op = "schedule hr round"
	first, err := uc.loadInterview(ctx, op, firstRoundID)
	if err != nil {
		return nil, err
	}
	if first.InterviewRound != model.RoundTechnical {
		return nil, newError(KindInvalidInput, op, "HR round can only follow a technical round", nil)
	}
	if first.HRRoundScheduled {
		return nil, newError(KindConflict, op, "HR round already scheduled", nil)
	}
	fb, err := uc.feedbackRepo.FindByInterview(ctx, first.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindInvalidInput, op, "technical round feedback has not been submitted", nil)
		}
		return nil, newError(KindInternal, op, "could not load feedback", err)
	}
	if fb.FinalRecommendation != model.RecommendMakeOffer {
		return nil, newError(KindInvalidInput, op,
			fmt.Sprintf("technical round recommendation is %q, not %q", fb.FinalRecommendation, model.RecommendMakeOffer), nil)
	}

	date, err := uc.pickDate(ctx, op)
	if err != nil {
		return nil, err
	}
	next := &model.Interview{
		ID:               uuid.New(),
		OutreachID:       first.OutreachID,
		ResumeID:         first.ResumeID,
		JobID:            first.JobID,
		CandidateName:    first.CandidateName,
		CandidateEmail:   first.CandidateEmail,
		JobTitle:         first.JobTitle,
		InterviewRound:   model.RoundHR,
		InterviewerEmail: uc.interviewerFor(model.RoundHR),
		InterviewDate:    date,
		ProposedSlots:    uc.slots.Generate(ctx, date, uc.opts.SlotCount, uc.opts.CalendarID),
		Status:           model.StatusPending,
	}
	if err := uc.interviewRepo.CreateHRRound(ctx, first.ID, next); err != nil {
		if errors.Is(err, repository.ErrStaleState) || errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, op, "HR round already scheduled", err)
		}
		return nil, newError(KindInternal, op, "could not save HR round", err)
	}
	first.HRRoundScheduled = true

	uc.log.Info("hr round created",
		slog.String("interview_id", next.ID.String()), slog.String("first_round_id", first.ID.String()))
	return &ScheduleResult{Interview: next, Warning: uc.sendInvitation(ctx, next)}, nil
}

// Decide records the hiring decision on a completed interview and notifies
// the candidate. The decision can be recorded once.
func (uc *SchedulingUsecase) Decide(ctx context.Context, interviewID uuid.UUID, decision model.Decision) (*TransitionResult, error) {
	const op = "record decision"
	if decision != model.DecisionOffer && decision != model.DecisionReject {
		return nil, newError(KindInvalidInput, op, "decision must be offer or reject", nil)
	}
	iv, err := uc.loadInterview(ctx, op, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != model.StatusCompleted {
		return nil, newError(KindInvalidTransition, op, fmt.Sprintf("interview is %s, not completed", iv.Status), nil)
	}
	ok, err := uc.interviewRepo.SetDecision(ctx, iv.ID, decision)
	if err != nil {
		return nil, persistError(op, err)
	}
	if !ok {
		return nil, newError(KindConflict, op, "a decision was already recorded", nil)
	}
	iv.Decision = decision

	res := &TransitionResult{Interview: iv}
	email, err := uc.mail.Decision(iv, decision)
	res.Warning = uc.deliver(ctx, "decision", iv, email, err)
	return res, nil
}

// finalize books the calendar event and moves the interview to scheduled.
func (uc *SchedulingUsecase) finalize(ctx context.Context, op string, iv *model.Interview, event model.InterviewEvent) (*TransitionResult, error) {
	if _, err := model.NextStatus(iv.Status, event); err != nil {
		return nil, transitionError(op, err)
	}
	if iv.ConfirmedSlotTime == nil {
		return nil, newError(KindInvalidInput, op, "interview has no confirmed time", nil)
	}
	if uc.calendar == nil {
		return nil, newError(KindExternal, op, "calendar integration is not configured", nil)
	}
	start := *iv.ConfirmedSlotTime
	roundName := model.RoundName(iv.InterviewRound)
	description := fmt.Sprintf("%s for %s with %s (%s).", roundName, iv.JobTitle, iv.CandidateName, iv.CandidateEmail)

	created, err := uc.calendar.CreateEvent(ctx, model.EventRequest{
		CalendarID:     uc.opts.CalendarID,
		Summary:        fmt.Sprintf("%s: %s - %s", roundName, iv.CandidateName, iv.JobTitle),
		Description:    description,
		Start:          start,
		End:            start.Add(iv.SlotDuration()),
		Organizer:      iv.InterviewerEmail,
		Attendees:      []string{iv.CandidateEmail, iv.InterviewerEmail},
		WantConference: true,
	})
	if err != nil {
		uc.log.Error("calendar event creation failed",
			slog.String("interview_id", iv.ID.String()), slog.Any("error", err))
		return nil, newError(KindExternal, op, "could not create the calendar event, please try again", err)
	}

	from, err := iv.Apply(event)
	if err != nil {
		return nil, transitionError(op, err)
	}
	iv.EventID = created.EventID
	iv.EventLink = created.HTMLLink
	iv.MeetLink = created.MeetLink
	iv.FeedbackFormLink = uc.feedbackFormFor(iv.InterviewRound)
	if err := uc.interviewRepo.Transition(ctx, iv, from); err != nil {
		uc.log.Error("calendar event created but interview was not updated",
			slog.String("interview_id", iv.ID.String()), slog.String("event_id", created.EventID), slog.Any("error", err))
		return nil, persistError(op, err)
	}

	res := &TransitionResult{Interview: iv}
	emails, err := uc.mail.Confirmations(iv)
	if err != nil {
		res.Warning = uc.deliver(ctx, "confirmation", iv, model.Email{}, err)
		return res, nil
	}
	var warnings []string
	for _, e := range emails {
		if w := uc.deliver(ctx, "confirmation", iv, e, nil); w != "" {
			warnings = append(warnings, w)
		}
	}
	res.Warning = strings.Join(warnings, "; ")
	return res, nil
}

func (uc *SchedulingUsecase) sendInvitation(ctx context.Context, iv *model.Interview) string {
	email, err := uc.mail.Invitation(iv)
	return uc.deliver(ctx, "invitation", iv, email, err)
}

// deliver sends a rendered email and turns any failure into a warning; the
// state change that triggered it is already saved.
func (uc *SchedulingUsecase) deliver(ctx context.Context, kind string, iv *model.Interview, email model.Email, renderErr error) string {
	err := renderErr
	if err == nil {
		err = uc.mailer.Send(ctx, email)
	}
	if err == nil {
		return ""
	}
	uc.log.Error("email delivery failed",
		slog.String("kind", kind), slog.String("interview_id", iv.ID.String()), slog.Any("error", err))
	return fmt.Sprintf("%s email could not be sent", kind)
}

func (uc *SchedulingUsecase) interviewerFor(round int) string {
	if round == model.RoundHR && uc.opts.HRInterviewerEmail != "" {
		return uc.opts.HRInterviewerEmail
	}
	return uc.opts.InterviewerEmail
}

func (uc *SchedulingUsecase) feedbackFormFor(round int) string {
	if round == model.RoundHR && uc.opts.HRFeedbackFormLink != "" {
		return uc.opts.HRFeedbackFormLink
	}
	return uc.opts.FeedbackFormLink
}

func (uc *SchedulingUsecase) today() time.Time {
	y, m, d := uc.now().In(uc.opts.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.opts.Location)
}

// localDay keeps the calendar day of t as midnight in the scheduling location.
// Dates read back from a date column come in as midnight UTC.
func (uc *SchedulingUsecase) localDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.opts.Location)
}

func (uc *SchedulingUsecase) loadInterview(ctx context.Context, op string, id uuid.UUID) (*model.Interview, error) {
	iv, err := uc.interviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(op, "interview", err)
	}
	return iv, nil
}

func lookupError(op, what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(KindNotFound, op, what+" not found", err)
	}
	return newError(KindInternal, op, "could not load "+what, err)
}

func persistError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrStaleState):
		return newError(KindConflict, op, "the interview was updated by another request", err)
	case errors.Is(err, repository.ErrNotFound):
		return newError(KindNotFound, op, "interview not found", err)
	default:
		return newError(KindInternal, op, "could not save interview", err)
	}
}

func transitionError(op string, err error) error {
	return newError(KindInvalidTransition, op, "this action is not available for the interview's current status", err)
}
