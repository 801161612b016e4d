package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Sender dispatches the activation letter. The orchestrator only cares
// about success or failure.
type Sender interface {
	SendActivationMail(to, link string) error
}

type Service struct {
	dialer *gomail.Dialer
	from   string
	apiURL string
}

func New(host string, port int, user, password, apiURL string) *Service {
	return &Service{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
		apiURL: apiURL,
	}
}

func (s *Service) SendActivationMail(to, link string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Account activation on %s", s.apiURL))
	m.SetBody("text/html", fmt.Sprintf(
		`<div><h1>To activate your account, please follow the link</h1><a href="%s">%s</a></div>`,
		link, link,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: send activation to %s: %w", to, err)
	}
	return nil
}
