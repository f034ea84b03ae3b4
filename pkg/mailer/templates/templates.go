package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// VerifyEmailData carries everything the verify_email template renders.
type VerifyEmailData struct {
	AppName       string    `json:"AppName"`
	Email         string    `json:"Email"`
	VerifyURL     string    `json:"VerifyURL"`
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
}

// NewVerifyEmailData builds template data for a verification email.
func NewVerifyEmailData(appName, email, verifyURL string, expiresAt time.Time) VerifyEmailData {
	utc := expiresAt.UTC()
	return VerifyEmailData{
		AppName:       appName,
		Email:         email,
		VerifyURL:     verifyURL,
		ExpiresAt:     utc,
		ExpiresAtText: utc.Format("02 January 2006, 15:04 MST"),
	}
}

// ToMap converts template data to a map[string]any for EmailJob.Data.
func ToMap(d VerifyEmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// Subject returns the subject line for a known template name.
func Subject(name string) string {
	switch name {
	case "verify_email":
		return "Verify your email address"
	default:
		return "Notification"
	}
}

// Render renders the text and HTML bodies for the named template.
func Render(name string, data map[string]any) (text string, html string, err error) {
	tb, err := FS.ReadFile(name + ".text.tmpl")
	if err != nil {
		return "", "", fmt.Errorf("template %s: %w", name, err)
	}
	tt, err := texttpl.New(name).Parse(string(tb))
	if err != nil {
		return "", "", err
	}
	var tbuf bytes.Buffer
	if err := tt.Execute(&tbuf, data); err != nil {
		return "", "", err
	}

	hb, err := FS.ReadFile(name + ".html.tmpl")
	if err != nil {
		return "", "", fmt.Errorf("template %s: %w", name, err)
	}
	ht, err := htmpl.New(name).Parse(string(hb))
	if err != nil {
		return "", "", err
	}
	var hbuf bytes.Buffer
	if err := ht.Execute(&hbuf, data); err != nil {
		return "", "", err
	}

	return tbuf.String(), hbuf.String(), nil
}
