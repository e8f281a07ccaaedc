// Package records defines everything the assistants persist.
package records

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const OrderReceived OrderStatus = "received"

type LeadStatus string

const (
	LeadInProgress LeadStatus = "in_progress"
	LeadSubmitted  LeadStatus = "submitted"
)

type CaseStatus string

const (
	CasePendingReview      CaseStatus = "pending_review"
	CaseConfirmedSafe      CaseStatus = "confirmed_safe"
	CaseConfirmedFraud     CaseStatus = "confirmed_fraud"
	CaseVerificationFailed CaseStatus = "verification_failed"
)

// CaseStatuses lists every status a fraud case may carry.
func CaseStatuses() []CaseStatus {
	return []CaseStatus{CasePendingReview, CaseConfirmedSafe, CaseConfirmedFraud, CaseVerificationFailed}
}

func (s CaseStatus) Valid() bool {
	return slices.Contains(CaseStatuses(), s)
}

// DrinkOrder is a finalized coffee order.
type DrinkOrder struct {
	ID        string      `json:"id"`
	DrinkType string      `json:"drinkType"`
	Size      string      `json:"size"`
	Milk      string      `json:"milk"`
	Extras    []string    `json:"extras"`
	Name      string      `json:"name"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// Lead is one revision of a sales lead. Revisions of the same lead share an
// ID and carry every field captured so far.
type Lead struct {
	ID        string     `json:"id"`
	Revision  int        `json:"revision"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	Company   string     `json:"company,omitempty"`
	UseCase   string     `json:"use_case,omitempty"`
	Timeline  string     `json:"timeline,omitempty"`
	Status    LeadStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

type OrderItem struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// GroceryOrder is a placed grocery cart.
type GroceryOrder struct {
	ID        string          `json:"id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// FraudCase is a suspicious transaction awaiting customer confirmation.
type FraudCase struct {
	ID                 uint       `json:"id"`
	UserName           string     `json:"user_name"`
	SecurityIdentifier string     `json:"security_identifier"`
	CardEnding         string     `json:"card_ending"`
	Status             CaseStatus `json:"status"`
	Merchant           string     `json:"merchant"`
	Amount             string     `json:"amount"`
	Timestamp          string     `json:"timestamp"`
	Location           string     `json:"location"`
	SecurityQuestion   string     `json:"security_question"`
	SecurityAnswer     string     `json:"security_answer"`
	Notes              string     `json:"notes,omitempty"`
}
