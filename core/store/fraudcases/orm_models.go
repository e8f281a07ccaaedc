package fraudcases

import "github.com/koscakluka/ema-assist/core/records"

type caseRow struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement"`
	UserName           string `gorm:"column:user_name;not null;index"`
	SecurityIdentifier string `gorm:"column:security_identifier;not null"`
	CardEnding         string `gorm:"column:card_ending;not null"`
	Status             string `gorm:"column:status;not null;default:pending_review"`
	Merchant           string `gorm:"column:merchant;not null"`
	Amount             string `gorm:"column:amount;not null"`
	Timestamp          string `gorm:"column:timestamp;not null"`
	Location           string `gorm:"column:location;not null"`
	SecurityQuestion   string `gorm:"column:security_question;not null"`
	SecurityAnswer     string `gorm:"column:security_answer;not null"`
	Notes              string `gorm:"column:notes"`
}

func (caseRow) TableName() string {
	return "fraud_cases"
}

func (r caseRow) toRecord() records.FraudCase {
	return records.FraudCase{
		ID:                 r.ID,
		UserName:           r.UserName,
		SecurityIdentifier: r.SecurityIdentifier,
		CardEnding:         r.CardEnding,
		Status:             records.CaseStatus(r.Status),
		Merchant:           r.Merchant,
		Amount:             r.Amount,
		Timestamp:          r.Timestamp,
		Location:           r.Location,
		SecurityQuestion:   r.SecurityQuestion,
		SecurityAnswer:     r.SecurityAnswer,
		Notes:              r.Notes,
	}
}

func caseRowFromRecord(c records.FraudCase) caseRow {
	status := c.Status
	if status == "" {
		status = records.CasePendingReview
	}
	return caseRow{
		ID:                 c.ID,
		UserName:           c.UserName,
		SecurityIdentifier: c.SecurityIdentifier,
		CardEnding:         c.CardEnding,
		Status:             string(status),
		Merchant:           c.Merchant,
		Amount:             c.Amount,
		Timestamp:          c.Timestamp,
		Location:           c.Location,
		SecurityQuestion:   c.SecurityQuestion,
		SecurityAnswer:     c.SecurityAnswer,
		Notes:              c.Notes,
	}
}
