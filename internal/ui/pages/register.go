package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// RegisterForm is the state of the sign-up form.
type RegisterForm struct {
	AppName          string
	CSRFToken        string
	PhoneNumber      string
	EmergencyContact string
	Error            string
	Registered       bool
}

const registerStyle = `body{font-family:system-ui,sans-serif;max-width:28rem;margin:3rem auto;padding:0 1rem;color:#1f2937}
label{display:block;margin-top:1rem;font-weight:600}
input{width:100%;padding:.5rem;margin-top:.25rem;border:1px solid #d1d5db;border-radius:.375rem;box-sizing:border-box}
button{margin-top:1.5rem;padding:.6rem 1.2rem;border:0;border-radius:.375rem;background:#2563eb;color:#fff;font-weight:600}
.error{color:#b91c1c;margin-top:1rem}
.success{color:#15803d;margin-top:1rem}
`

// RegisterPage renders the sign-up form. The inline style carries the
// request's CSP nonce.
func RegisterPage(form RegisterForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>Register · `)
		b.WriteString(templ.EscapeString(form.AppName))
		b.WriteString(`</title><style nonce="`)
		b.WriteString(templ.EscapeString(templ.GetNonce(ctx)))
		b.WriteString(`">`)
		b.WriteString(registerStyle)
		b.WriteString(`</style></head><body><h1>`)
		b.WriteString(templ.EscapeString(form.AppName))
		b.WriteString(`</h1>`)

		if form.Registered {
			b.WriteString(`<p class="success">You're registered! Watch for a welcome text, then reply each morning with your goals.</p>`)
		} else {
			writeRegisterForm(&b, form)
		}

		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeRegisterForm(b *strings.Builder, form RegisterForm) {
	b.WriteString(`<p>Text your daily goals, report back the next day, and we'll check in with your emergency contact if you go quiet.</p>`)
	b.WriteString(`<form method="post" action="/register">`)
	b.WriteString(`<input type="hidden" name="csrf_token" value="`)
	b.WriteString(templ.EscapeString(form.CSRFToken))
	b.WriteString(`">`)

	b.WriteString(`<label for="phone_number">Your mobile number</label>`)
	b.WriteString(`<input id="phone_number" name="phone_number" type="tel" autocomplete="tel" placeholder="+1 555 123 4567" value="`)
	b.WriteString(templ.EscapeString(form.PhoneNumber))
	b.WriteString(`" required>`)

	b.WriteString(`<label for="emergency_contact">Emergency contact number</label>`)
	b.WriteString(`<input id="emergency_contact" name="emergency_contact" type="tel" placeholder="+1 555 765 4321" value="`)
	b.WriteString(templ.EscapeString(form.EmergencyContact))
	b.WriteString(`" required>`)

	if form.Error != "" {
		b.WriteString(`<p class="error">`)
		b.WriteString(templ.EscapeString(form.Error))
		b.WriteString(`</p>`)
	}

	b.WriteString(`<button type="submit">Register</button></form>`)
}
