package usecase

import "time"

const (
	StatusSaved   = "saved"
	StatusDeleted = "deleted"
	StatusIgnored = "ignored"

	ReasonPhoneIncomplete = "phone_incomplete"
)

type CaptureLeadInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Landing    string `json:"landing"`
	RequestURL string `json:"-"` // derivada pelo transporte (Referer ou URL da requisição)
}

type CaptureLeadOutput struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Phone  string `json:"phone"`
	LeadID string `json:"-"`
}

type ReleaseLeadInput struct {
	Phone           string `json:"phone"`
	Landing         string `json:"landing"`
	LandingOriginal string `json:"landing_original"`
	RequestURL      string `json:"-"`
}

type ReleaseLeadOutput struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Phone   string `json:"phone"`
	Deleted int64  `json:"-"`
}

type SweepExpiredOutput struct {
	Cutoff  time.Time `json:"cutoff"`
	Deleted int64     `json:"deleted"`
}
