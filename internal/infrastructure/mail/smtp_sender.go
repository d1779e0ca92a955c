// Package mail entrega los correos de notificación de OC por SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Compras-api/internal/application/notify"
)

var _ notify.EmailSender = (*SMTPSender)(nil)

// Transport envía mensajes ya armados. *gomail.Dialer lo implementa.
type Transport interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender implementa notify.EmailSender sobre gomail.
type SMTPSender struct {
	transport   Transport
	defaultFrom string
	defaultName string
}

// NewSMTPSender crea el remitente con un dialer SMTP. from/fromName se usan cuando el
// mensaje no trae remitente propio.
func NewSMTPSender(host string, port int, user, password, from, fromName string) *SMTPSender {
	return NewSender(gomail.NewDialer(host, port, user, password), from, fromName)
}

// NewSender permite inyectar el transporte (tests).
func NewSender(t Transport, from, fromName string) *SMTPSender {
	return &SMTPSender{transport: t, defaultFrom: from, defaultName: fromName}
}

// Send arma un multipart texto + HTML y lo entrega. El contexto solo se consulta antes de
// conectar: gomail no admite cancelación a mitad de la sesión SMTP.
func (s *SMTPSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.transport.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(msg notify.EmailMessage) (*gomail.Message, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, errors.New("mail: destinatario vacío")
	}
	from, fromName := msg.From, msg.FromName
	if from == "" {
		from, fromName = s.defaultFrom, s.defaultName
	}
	if from == "" {
		return nil, errors.New("mail: remitente no configurado")
	}

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetAddressHeader("From", from, fromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	if cc := strings.TrimSpace(msg.CC); cc != "" {
		m.SetHeader("Cc", cc)
	}
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	return m, nil
}
