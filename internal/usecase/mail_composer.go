package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/mailtemplate"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/token"
)

const (
	slotDayLayout  = "Monday, January 02"
	slotTimeLayout = "3:04 PM"
	fullTimeLayout = "Monday, January 2, 2006 at 3:04 PM MST"
)

// MailComposer builds every outbound email and the signed links inside them.
type MailComposer struct {
	templates *mailtemplate.Renderer
	signer    *token.Signer
	baseURL   string
	company   string
	loc       *time.Location
}

func NewMailComposer(templates *mailtemplate.Renderer, signer *token.Signer, baseURL, company string, loc *time.Location) *MailComposer {
	if loc == nil {
		loc = time.UTC
	}
	return &MailComposer{
		templates: templates,
		signer:    signer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		company:   company,
		loc:       loc,
	}
}

func (m *MailComposer) Company() string {
	return m.company
}

func (m *MailComposer) FormatTime(t time.Time) string {
	return t.In(m.loc).Format(fullTimeLayout)
}

func (m *MailComposer) outreachToken(outreachID fmt.Stringer) string {
	return m.signer.Sign(token.PurposeOutreach, outreachID.String())
}

func (m *MailComposer) interviewerToken(interviewID fmt.Stringer) string {
	return m.signer.Sign(token.PurposeInterviewer, interviewID.String())
}

func (m *MailComposer) link(path string, query url.Values) string {
	if len(query) == 0 {
		return m.baseURL + path
	}
	return m.baseURL + path + "?" + query.Encode()
}

func (m *MailComposer) render(name string, data any, subject string, to ...string) (model.Email, error) {
	body, err := m.templates.Render(name, data)
	if err != nil {
		return model.Email{}, err
	}
	return model.Email{To: to, Subject: subject, HTML: body}, nil
}

func (m *MailComposer) Outreach(o *model.Outreach, role string) (model.Email, error) {
	ackPath := "/acknowledge/" + m.outreachToken(o.ID)
	return m.render(mailtemplate.Outreach, mailtemplate.OutreachData{
		CandidateName:    o.CandidateName,
		Role:             role,
		Company:          m.company,
		Score:            o.Score,
		InterestedURL:    m.link(ackPath, url.Values{"response": {string(model.AckInterested)}}),
		NotInterestedURL: m.link(ackPath, url.Values{"response": {string(model.AckNotInterested)}}),
	}, fmt.Sprintf("Opportunity at %s - %s", m.company, role), o.CandidateEmail)
}

func (m *MailComposer) Invitation(iv *model.Interview) (model.Email, error) {
	tok := m.outreachToken(iv.OutreachID)
	options := make([]mailtemplate.SlotOption, 0, len(iv.ProposedSlots))
	for i, s := range iv.ProposedSlots {
		options = append(options, mailtemplate.SlotOption{
			Label: fmt.Sprintf("Option %d: %s", i+1, s.Start.In(m.loc).Format(slotDayLayout)),
			Time:  s.Start.In(m.loc).Format(slotTimeLayout) + " - " + s.End.In(m.loc).Format(slotTimeLayout),
			URL:   m.link("/confirm-interview/"+iv.ID.String(), url.Values{"slot": {s.ID}, "token": {tok}}),
		})
	}
	roundName := model.RoundName(iv.InterviewRound)
	return m.render(mailtemplate.Invitation, mailtemplate.InvitationData{
		CandidateName:    iv.CandidateName,
		Role:             iv.JobTitle,
		Company:          m.company,
		RoundName:        roundName,
		InterviewerEmail: iv.InterviewerEmail,
		Slots:            options,
	}, fmt.Sprintf("%s Invitation - %s at %s", roundName, iv.JobTitle, m.company), iv.CandidateEmail)
}

func (m *MailComposer) ApprovalRequest(iv *model.Interview) (model.Email, error) {
	tok := m.interviewerToken(iv.ID)
	path := "/interviewer/response/" + iv.ID.String()
	roundName := model.RoundName(iv.InterviewRound)
	return m.render(mailtemplate.ApprovalRequest, mailtemplate.ApprovalRequestData{
		CandidateName:  iv.CandidateName,
		CandidateEmail: iv.CandidateEmail,
		Role:           iv.JobTitle,
		RoundName:      roundName,
		SlotTime:       m.formatPtr(iv.ConfirmedSlotTime),
		ApproveURL:     m.link(path, url.Values{"action": {"approve"}, "token": {tok}}),
		RejectURL:      m.link(path, url.Values{"action": {"reject"}, "token": {tok}}),
	}, fmt.Sprintf("Action Required: %s Request for %s", roundName, iv.CandidateName), iv.InterviewerEmail)
}

func (m *MailComposer) RescheduleProposal(iv *model.Interview) (model.Email, error) {
	tok := m.outreachToken(iv.OutreachID)
	base := "/interviews/" + iv.ID.String() + "/reschedule/"
	return m.render(mailtemplate.RescheduleProposal, mailtemplate.RescheduleProposalData{
		CandidateName: iv.CandidateName,
		Role:          iv.JobTitle,
		Company:       m.company,
		ProposedTime:  m.formatPtr(iv.RescheduleTime),
		AcceptURL:     m.link(base+"accept", url.Values{"token": {tok}}),
		DeclineURL:    m.link(base+"decline", url.Values{"token": {tok}}),
	}, fmt.Sprintf("Interview Reschedule Request - %s at %s", iv.JobTitle, m.company), iv.CandidateEmail)
}

// Confirmations returns one message for the candidate and one for the interviewer.
func (m *MailComposer) Confirmations(iv *model.Interview) ([]model.Email, error) {
	data := mailtemplate.ConfirmationData{
		RecipientName:    iv.CandidateName,
		CandidateName:    iv.CandidateName,
		Role:             iv.JobTitle,
		Company:          m.company,
		RoundName:        model.RoundName(iv.InterviewRound),
		SlotTime:         m.formatPtr(iv.ConfirmedSlotTime),
		MeetLink:         iv.MeetLink,
		EventLink:        iv.EventLink,
		InterviewerEmail: iv.InterviewerEmail,
	}
	subject := fmt.Sprintf("Interview Confirmed - %s", iv.JobTitle)
	candidate, err := m.render(mailtemplate.Confirmation, data, subject, iv.CandidateEmail)
	if err != nil {
		return nil, err
	}
	data.RecipientName = iv.InterviewerEmail
	data.ForInterviewer = true
	interviewer, err := m.render(mailtemplate.Confirmation, data, subject+" with "+iv.CandidateName, iv.InterviewerEmail)
	if err != nil {
		return nil, err
	}
	return []model.Email{candidate, interviewer}, nil
}

func (m *MailComposer) FeedbackRequest(iv *model.Interview, interviewer string) (model.Email, error) {
	tok := m.interviewerToken(iv.ID)
	path := "/feedback/confirm/" + iv.ID.String()
	return m.render(mailtemplate.FeedbackRequest, mailtemplate.FeedbackRequestData{
		CandidateName: iv.CandidateName,
		Role:          iv.JobTitle,
		RoundName:     model.RoundName(iv.InterviewRound),
		SlotTime:      m.formatPtr(iv.ConfirmedSlotTime),
		HeldURL:       m.link(path, url.Values{"status": {"yes"}, "token": {tok}}),
		NotHeldURL:    m.link(path, url.Values{"status": {"no"}, "token": {tok}}),
	}, fmt.Sprintf("Action Required: Interview Status for %s", iv.CandidateName), interviewer)
}

func (m *MailComposer) Decision(iv *model.Interview, decision model.Decision) (model.Email, error) {
	data := mailtemplate.DecisionData{CandidateName: iv.CandidateName, Role: iv.JobTitle, Company: m.company}
	if decision == model.DecisionOffer {
		return m.render(mailtemplate.Offer, data,
			fmt.Sprintf("Congratulations! Interview Decision - %s", iv.JobTitle), iv.CandidateEmail)
	}
	return m.render(mailtemplate.Rejection, data,
		fmt.Sprintf("Interview Decision - %s", iv.JobTitle), iv.CandidateEmail)
}

func (m *MailComposer) formatPtr(t *time.Time) string {
	if t == nil {
		return "to be confirmed"
	}
	return m.FormatTime(*t)
}
