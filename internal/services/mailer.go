package services

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends transactional mail (currently only password resets)
// over plain SMTP with STARTTLS.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewMailer(host, port, user, pass string) *Mailer {
	return &Mailer{
		Host: host,
		Port: port,
		User: user,
		Pass: pass,
		From: user,
	}
}

// SendPasswordReset mails a reset link to the given address.
func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	subject := "Återställ ditt lösenord"
	body := strings.Join([]string{
		"Hej,",
		"",
		"Du har begärt att återställa ditt lösenord. Klicka på länken nedan för att välja ett nytt:",
		"",
		resetURL,
		"",
		"Länken är giltig i en timme. Om du inte begärde detta kan du ignorera mailet.",
	}, "\r\n")

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.From, to, subject, body)

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	addr := m.Host + ":" + m.Port
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
