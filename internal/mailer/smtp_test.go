package mailer

import (
	"strings"
	"testing"
)

func TestRenderVerificationCodeTemplate(t *testing.T) {
	subject, body, err := RenderTemplate(VerificationCodeTemplate, map[string]any{
		"Username":   "Иван",
		"Code":       "123456",
		"TTLMinutes": 15,
	})
	if err != nil {
		t.Fatal(err)
	}

	if subject == "" {
		t.Fatal("empty subject")
	}
	if !strings.Contains(body, "123456") {
		t.Errorf("body does not contain the code: %q", body)
	}
	if !strings.Contains(body, "Иван") {
		t.Errorf("body does not greet the user: %q", body)
	}
	if !strings.Contains(body, "15") {
		t.Errorf("body does not mention the TTL: %q", body)
	}
}

func TestRenderTemplateWithoutUsername(t *testing.T) {
	_, body, err := RenderTemplate(VerificationCodeTemplate, map[string]any{
		"Username":   "",
		"Code":       "654321",
		"TTLMinutes": 15,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "654321") {
		t.Errorf("body does not contain the code: %q", body)
	}
}

func TestRenderTemplateUnknownFile(t *testing.T) {
	if _, _, err := RenderTemplate("missing.tmpl", nil); err == nil {
		t.Fatal("expected an error for a template that does not exist")
	}
}

func TestNewSMTPClientRequiresHost(t *testing.T) {
	if _, err := NewSMTPClient("", 587, "u", "p", "from@example.com"); err == nil {
		t.Fatal("expected an error for an empty host")
	}
}
