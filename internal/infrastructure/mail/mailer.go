// Package mail envía las notificaciones de preventa por SMTP.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/unatienda/store-api/internal/application/presale"
	"github.com/unatienda/store-api/pkg/config"
)

var _ presale.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía correos con gomail sobre la configuración SMTP de la app.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendOrderLinked notifica al acudiente que su orden de preventa quedó
// vinculada al estudiante registrado.
func (m *SMTPMailer) SendOrderLinked(to, customerName, studentName, orderNumber string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Orden %s vinculada", orderNumber))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nTu orden de preventa %s quedó vinculada al estudiante %s. "+
			"Ya puedes ver los libros del año escolar en tu cuenta.\n\nUnatienda",
		customerName, orderNumber, studentName,
	))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}
