package fraudcases

import "github.com/koscakluka/ema-assist/core/records"

// SampleCases are the demo cases loaded by `ema-assist fraud seed`.
func SampleCases() []records.FraudCase {
	return []records.FraudCase{
		{
			UserName:           "John",
			SecurityIdentifier: "12345",
			CardEnding:         "4242",
			Status:             records.CasePendingReview,
			Merchant:           "ABC Industry",
			Amount:             "$125.50",
			Timestamp:          "2023-10-27 14:30:00",
			Location:           "New York, NY",
			SecurityQuestion:   "What is your mother's maiden name?",
			SecurityAnswer:     "Smith",
		},
		{
			UserName:           "Jane",
			SecurityIdentifier: "67890",
			CardEnding:         "1111",
			Status:             records.CasePendingReview,
			Merchant:           "Global Electronics",
			Amount:             "$999.99",
			Timestamp:          "2023-10-28 09:15:00",
			Location:           "San Francisco, CA",
			SecurityQuestion:   "What was the name of your first pet?",
			SecurityAnswer:     "Fluffy",
		},
	}
}
