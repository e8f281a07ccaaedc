// Package fraud confirms a suspicious card transaction with the customer
// after a single security question.
package fraud

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/koscakluka/ema-assist/core/verification"
)

const (
	GetFraudCase         tools.Name = "get_fraud_case"
	VerifySecurityAnswer tools.Name = "verify_security_answer"
	UpdateCaseStatus     tools.Name = "update_case_status"
)

// StoreName identifies the fraud case table in persisted record events.
const StoreName = "fraud_cases"

type getFraudCaseArgs struct {
	UserName string `json:"user_name" jsonschema:"description=The name of the customer"`
}

type verifySecurityAnswerArgs struct {
	UserAnswer string `json:"user_answer" jsonschema:"description=The answer provided by the user"`
}

type updateCaseStatusArgs struct {
	Status string `json:"status" jsonschema:"description=The outcome of the call,enum=confirmed_safe,enum=confirmed_fraud,enum=verification_failed,enum=pending_review"`
	Notes  string `json:"notes" jsonschema:"description=A short note about the outcome"`
}

// Tools binds the fraud tool set to state, starting with no case loaded.
func Tools(env *session.Env, state *session.State, host session.Host) []tools.Tool {
	state.Case = verification.New()
	f := &fraud{env: env, state: state, host: host}
	return []tools.Tool{
		tools.New(GetFraudCase, "Look up a fraud case by the customer's name.", f.getFraudCase),
		tools.New(VerifySecurityAnswer, "Verify the user's answer to the security question. Only one attempt is allowed.", f.verifySecurityAnswer),
		tools.New(UpdateCaseStatus, "Record the outcome of the call on the fraud case, then end the call.", f.updateCaseStatus),
	}
}

type fraud struct {
	env   *session.Env
	state *session.State
	host  session.Host
}

func (f *fraud) getFraudCase(ctx context.Context, args getFraudCaseArgs) (string, error) {
	name := strings.TrimSpace(args.UserName)
	if name == "" {
		return "Please ask the user for their name.", nil
	}

	cases, err := store.Run(ctx, f.env.Pool, "fraud_cases.find", func(ctx context.Context) ([]records.FraudCase, error) {
		return f.env.Stores.Cases.FindByName(ctx, name)
	})
	if err != nil {
		return "", fmt.Errorf("look up fraud case for %q: %w", name, err)
	}
	if len(cases) == 0 {
		return "No case found for that name. Please ask the user to repeat their name.", nil
	}

	c := cases[0]
	switch err := f.state.Case.Load(c); {
	case errors.Is(err, verification.ErrAlreadyDisposed):
		return "The case on this call is already closed. End the call politely.", nil
	case err != nil:
		return "Verification was already attempted on this call. Another case cannot be looked up.", nil
	}

	// The expected answer is handed to the model along with the question.
	return fmt.Sprintf(
		"Found case for %s. Security Question: %s. Expected Answer: %s. Transaction: %s, %s, at %s on %s.",
		c.UserName, c.SecurityQuestion, c.SecurityAnswer, c.Merchant, c.Amount, c.Location, c.Timestamp,
	), nil
}

func (f *fraud) verifySecurityAnswer(_ context.Context, args verifySecurityAnswerArgs) (string, error) {
	matched, err := f.state.Case.Verify(args.UserAnswer)
	switch {
	case errors.Is(err, verification.ErrNoCase):
		return "No case loaded. Please ask for the name first.", nil
	case errors.Is(err, verification.ErrBlankAnswer):
		return "Please ask the user for their answer to the security question.", nil
	case errors.Is(err, verification.ErrAlreadyAttempted):
		return "Verification was already attempted on this call and cannot be retried.", nil
	case errors.Is(err, verification.ErrAlreadyDisposed):
		return "The case on this call is already closed.", nil
	case err != nil:
		return "", err
	}

	if matched {
		return "Verification successful. Proceed to discuss the transaction.", nil
	}
	return "Verification failed. The answer does not match our records. Apologize, record the case as verification_failed and end the call.", nil
}

func (f *fraud) updateCaseStatus(ctx context.Context, args updateCaseStatusArgs) (string, error) {
	status := records.CaseStatus(strings.ToLower(strings.TrimSpace(args.Status)))
	notes := strings.TrimSpace(args.Notes)

	err := f.state.Case.Dispose(status, func(c records.FraudCase) error {
		return f.env.Pool.Do(ctx, "fraud_cases.update_status", func(ctx context.Context) error {
			return f.env.Stores.Cases.UpdateStatus(ctx, c.ID, status, notes)
		})
	})
	switch {
	case errors.Is(err, verification.ErrInvalidStatus):
		return fmt.Sprintf("Unknown status %q. Use one of %s.", args.Status, statusNames()), nil
	case errors.Is(err, verification.ErrNoCase):
		return "No case loaded.", nil
	case errors.Is(err, verification.ErrNotVerified):
		return "The caller is not verified. Only verification_failed can be recorded.", nil
	case errors.Is(err, verification.ErrAlreadyDisposed):
		closed, _ := f.state.Case.DisposedAs()
		return fmt.Sprintf("This case was already closed as %s.", closed), nil
	case err != nil:
		return "", fmt.Errorf("update fraud case status: %w", err)
	}

	c, _ := f.state.Case.Case()
	f.host.Persisted(StoreName, strconv.FormatUint(uint64(c.ID), 10))
	f.host.EndCall("case " + string(status))
	return fmt.Sprintf("Case updated to %s. You can now end the call.", status), nil
}

func statusNames() string {
	var names []string
	for _, s := range records.CaseStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
