// Package sdr answers questions about the company and collects a sales
// lead along the way. Every capture is saved as a new revision of the lead.
package sdr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/slots"
	"github.com/koscakluka/ema-assist/core/tools"
)

const (
	CaptureLeadInfo tools.Name = "capture_lead_info"
	SubmitLead      tools.Name = "submit_lead"
	AnswerFAQ       tools.Name = "answer_faq"
	EndCallSummary  tools.Name = "end_call_summary"
)

// StoreName identifies the lead log in persisted record events.
const StoreName = "leads"

const (
	fieldName     = "name"
	fieldEmail    = "email"
	fieldRole     = "role"
	fieldCompany  = "company"
	fieldUseCase  = "use_case"
	fieldTimeline = "timeline"
)

func NewForm() *slots.Form {
	return slots.New(
		slots.Field{Key: fieldName, Label: "name", Required: true},
		slots.Field{Key: fieldEmail, Label: "email", Required: true},
		slots.Field{Key: fieldRole, Label: "role", Required: true},
		slots.Field{Key: fieldCompany, Label: "company", Required: true},
		slots.Field{Key: fieldUseCase, Label: "use case", Required: true},
		slots.Field{Key: fieldTimeline, Label: "timeline", Required: true},
	)
}

type captureLeadInfoArgs struct {
	Name     string `json:"name,omitempty" jsonschema:"description=The name of the user"`
	Email    string `json:"email,omitempty" jsonschema:"description=The email address of the user"`
	Role     string `json:"role,omitempty" jsonschema:"description=The job role of the user"`
	Company  string `json:"company,omitempty" jsonschema:"description=The company the user works for"`
	UseCase  string `json:"use_case,omitempty" jsonschema:"description=What the user wants to use the product for"`
	Timeline string `json:"timeline,omitempty" jsonschema:"description=When the user plans to start such as now or soon or later"`
}

type answerFAQArgs struct {
	Query string `json:"query" jsonschema:"description=The user's question about the company"`
}

// Tools binds the SDR tool set to state, starting a fresh lead.
func Tools(env *session.Env, state *session.State, host session.Host) []tools.Tool {
	state.Form = NewForm()
	state.LeadID = ""
	s := &sdr{env: env, state: state, host: host}

	company := "the company"
	if env.Catalog != nil {
		company = env.Catalog.Company.Name()
	}
	return []tools.Tool{
		tools.New(CaptureLeadInfo, "Capture lead information provided by the user. Only pass the details that were mentioned.", s.captureLeadInfo),
		tools.New(SubmitLead, "Submit the lead once name, email, role, company, use case and timeline are known.", s.submitLead),
		tools.New(AnswerFAQ, "Answer questions about "+company+", its pricing or its FAQs from the knowledge base.", s.answerFAQ),
		tools.New(EndCallSummary, "Give a verbal summary of the call and the lead, then end the call.", s.endCallSummary),
	}
}

type sdr struct {
	env      *session.Env
	state    *session.State
	host     session.Host
	revision int
	status   records.LeadStatus
}

func (s *sdr) captureLeadInfo(ctx context.Context, args captureLeadInfoArgs) (string, error) {
	changed := false
	for _, update := range []struct{ key, value string }{
		{fieldName, args.Name},
		{fieldEmail, args.Email},
		{fieldRole, args.Role},
		{fieldCompany, args.Company},
		{fieldUseCase, args.UseCase},
		{fieldTimeline, args.Timeline},
	} {
		set, err := s.state.Form.Set(update.key, update.value)
		if err != nil {
			return "", err
		}
		changed = changed || set
	}
	if !changed {
		return "Nothing new to note down.", nil
	}

	if err := s.save(ctx, records.LeadInProgress); err != nil {
		return "", err
	}
	return "Thanks, I've noted that down.", nil
}

func (s *sdr) submitLead(ctx context.Context, _ tools.NoArgs) (string, error) {
	if missing := s.state.Form.MissingLabels(); len(missing) > 0 {
		return fmt.Sprintf("Cannot submit the lead yet. Missing details: %s. Ask for them naturally.", strings.Join(missing, ", ")), nil
	}
	if err := s.save(ctx, records.LeadSubmitted); err != nil {
		return "", err
	}
	return "Lead submitted. Let the user know someone from the team will follow up.", nil
}

func (s *sdr) answerFAQ(_ context.Context, args answerFAQArgs) (string, error) {
	if s.env.Catalog == nil {
		return "I'm not sure about that specific detail.", nil
	}
	return s.env.Catalog.Company.Answer(args.Query), nil
}

func (s *sdr) endCallSummary(_ context.Context, _ tools.NoArgs) (string, error) {
	form := s.state.Form
	var b strings.Builder
	b.WriteString("Summary of the call:\n")
	fmt.Fprintf(&b, "Lead Name: %s\n", valueOr(form.Value(fieldName), "Not provided"))
	fmt.Fprintf(&b, "Role: %s\n", valueOr(form.Value(fieldRole), "Not provided"))
	fmt.Fprintf(&b, "Interest: %s\n", valueOr(form.Value(fieldUseCase), "General inquiry"))
	fmt.Fprintf(&b, "Timeline: %s\n", valueOr(form.Value(fieldTimeline), "Unknown"))
	if s.status == records.LeadSubmitted {
		b.WriteString("Lead status: submitted\n")
	}

	s.host.EndCall("call summary given")
	return b.String(), nil
}

func (s *sdr) save(ctx context.Context, status records.LeadStatus) error {
	if s.state.LeadID == "" {
		s.state.LeadID = uuid.NewString()
	}
	form := s.state.Form
	lead := records.Lead{
		ID:        s.state.LeadID,
		Revision:  s.revision + 1,
		Name:      form.Value(fieldName),
		Email:     form.Value(fieldEmail),
		Role:      form.Value(fieldRole),
		Company:   form.Value(fieldCompany),
		UseCase:   form.Value(fieldUseCase),
		Timeline:  form.Value(fieldTimeline),
		Status:    status,
		Timestamp: s.env.Time(),
	}

	err := s.env.Pool.Do(ctx, "leads.append", func(ctx context.Context) error {
		return s.env.Stores.Leads.Append(ctx, lead)
	})
	if err != nil {
		return fmt.Errorf("save lead revision %d: %w", lead.Revision, err)
	}
	s.revision = lead.Revision
	s.status = status
	s.host.Persisted(StoreName, lead.ID)
	return nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
