package mailer

import "embed"

const (
	FromName                 = "AllSpace"
	VerificationCodeTemplate = "verification_code.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) error
}
