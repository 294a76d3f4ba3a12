package mail

import (
	"time"

	"gopkg.in/gomail.v2"
)

type NewLeadEmailData struct {
	Name         string
	Phone        string
	Email        string
	LandingURL   string
	LastActivity time.Time
}

// Dialer é o subconjunto de *gomail.Dialer usado pelo sender.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     string
	Dialer Dialer
}
