package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

// Template names accepted on EmailJob.Template.
const (
	VerifyEmail    = "verify_email"
	ProfileUpdated = "profile_updated"
)

type tplPair struct {
	subject string
	text    string
	html    string
}

var registry = map[string]tplPair{
	VerifyEmail: {
		subject: "Verify your email address",
		text:    "Hi {{.Name}},\n\nVerify your email address by opening the link below:\n{{.VerifyURL}}\n\nIf you did not request this, you can ignore this message.\n",
		html:    `<p>Hi {{.Name}},</p><p>Verify your email address by clicking <a href="{{.VerifyURL}}">this link</a>.</p><p>If you did not request this, you can ignore this message.</p>`,
	},
	ProfileUpdated: {
		subject: "Your profile was updated",
		text:    "Hi {{.Name}},\n\nYour profile was updated. If this wasn't you, contact support right away.\n",
		html:    `<p>Hi {{.Name}},</p><p>Your profile was updated. If this wasn't you, contact support right away.</p>`,
	},
}

// Render renders the named template with data and returns subject, text and
// HTML bodies. Unknown template names are an error so the worker can dead-letter
// the job instead of sending something half-formed.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	p, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	tt, err := texttpl.New(name + ".txt").Parse(p.text)
	if err != nil {
		return "", "", "", err
	}
	var tbuf bytes.Buffer
	if err := tt.Execute(&tbuf, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmpl.New(name + ".html").Parse(p.html)
	if err != nil {
		return "", "", "", err
	}
	var hbuf bytes.Buffer
	if err := ht.Execute(&hbuf, data); err != nil {
		return "", "", "", err
	}

	return p.subject, tbuf.String(), hbuf.String(), nil
}
