// Package mailtemplate renders the HTML emails and candidate-facing pages.
package mailtemplate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

const (
	Outreach           = "outreach"
	Invitation         = "invitation"
	ApprovalRequest    = "approval_request"
	RescheduleProposal = "reschedule_proposal"
	Confirmation       = "confirmation"
	FeedbackRequest    = "feedback_request"
	Offer              = "offer"
	Rejection          = "rejection"
	Page               = "page"
	RescheduleForm     = "reschedule_form"
)

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("mail").ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

type OutreachData struct {
	CandidateName    string
	Role             string
	Company          string
	Score            int
	InterestedURL    string
	NotInterestedURL string
}

type SlotOption struct {
	Label string
	Time  string
	URL   string
}

type InvitationData struct {
	CandidateName    string
	Role             string
	Company          string
	RoundName        string
	InterviewerEmail string
	Slots            []SlotOption
}

type ApprovalRequestData struct {
	CandidateName  string
	CandidateEmail string
	Role           string
	RoundName      string
	SlotTime       string
	ApproveURL     string
	RejectURL      string
}

type RescheduleProposalData struct {
	CandidateName string
	Role          string
	Company       string
	ProposedTime  string
	AcceptURL     string
	DeclineURL    string
}

type ConfirmationData struct {
	RecipientName    string
	CandidateName    string
	Role             string
	Company          string
	RoundName        string
	SlotTime         string
	MeetLink         string
	EventLink        string
	InterviewerEmail string
	ForInterviewer   bool
}

type FeedbackRequestData struct {
	CandidateName string
	Role          string
	RoundName     string
	SlotTime      string
	HeldURL       string
	NotHeldURL    string
}

type DecisionData struct {
	CandidateName string
	Role          string
	Company       string
}

type PageData struct {
	Title     string
	Message   string
	LinkURL   string
	LinkLabel string
}

type RescheduleFormData struct {
	CandidateName string
	Role          string
	ActionURL     string
	Token         string
	MinDate       string
}
