package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	mail "gopkg.in/mail.v2"
)

type SMTPClient struct {
	dialer    *mail.Dialer
	fromEmail string
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (*SMTPClient, error) {
	if host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if fromEmail == "" {
		fromEmail = username
	}

	return &SMTPClient{
		dialer:    mail.NewDialer(host, port, username, password),
		fromEmail: fromEmail,
	}, nil
}

func (c *SMTPClient) Send(templateFile, username, email string, data any) error {
	subject, body, err := RenderTemplate(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", c.fromEmail, FromName)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return c.dialer.DialAndSend(msg)
}

// RenderTemplate executes the subject and body blocks of an embedded mail
// template.
func RenderTemplate(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	var subjectBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subjectBuf, "subject", data); err != nil {
		return "", "", err
	}

	var bodyBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&bodyBuf, "body", data); err != nil {
		return "", "", err
	}

	return subjectBuf.String(), bodyBuf.String(), nil
}
