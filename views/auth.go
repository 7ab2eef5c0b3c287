package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Login is the sign-in form.
func Login(p newsdesk.AuthPage) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		h.raw(`<section class="auth"><h1>Prijava</h1>`)
		formError(h, p.Error)
		h.raw(`<form method="post" action="/login">`)
		csrfField(h, p.CSRF)
		if p.Next != "" {
			h.raw(`<input type="hidden" name="next"`)
			h.attr("value", p.Next)
			h.raw(`/>`)
		}
		input(h, "email", "Email", "email", p.Values.Email, "")
		input(h, "password", "Lozinka", "password", "", "")
		h.raw(`<button type="submit">Prijavi se</button></form>`)
		h.raw(`<p>Nemate račun? <a href="/sign-up">Registrirajte se</a></p></section>`)
	}))
}

// SignUp is the registration form.
func SignUp(p newsdesk.AuthPage) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		h.raw(`<section class="auth"><h1>Registracija</h1>`)
		formError(h, p.Error)
		h.raw(`<form method="post" action="/sign-up">`)
		csrfField(h, p.CSRF)
		input(h, "first_name", "Ime", "text", p.Values.FirstName, p.Errors["first_name"])
		input(h, "last_name", "Prezime", "text", p.Values.LastName, p.Errors["last_name"])
		input(h, "email", "Email", "email", p.Values.Email, p.Errors["email"])
		input(h, "password", "Lozinka", "password", "", p.Errors["password"])
		input(h, "repeat_password", "Ponovite lozinku", "password", "", p.Errors["repeat_password"])
		h.raw(`<button type="submit">Registriraj se</button></form>`)
		h.raw(`<p>Već imate račun? <a href="/login">Prijava</a></p></section>`)
	}))
}

func csrfField(h *writer, token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw(`/>`)
}

func formError(h *writer, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="form-error" role="alert">`)
	h.text(msg)
	h.raw(`</p>`)
}

func fieldError(h *writer, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<span class="field-error">`)
	h.text(msg)
	h.raw(`</span>`)
}

func input(h *writer, name, label, typ, value, errMsg string) {
	h.raw(`<label`)
	h.attr("for", name)
	h.raw(`>`)
	h.text(label)
	h.raw(`</label><input`)
	h.attr("id", name)
	h.attr("name", name)
	h.attr("type", typ)
	if value != "" {
		h.attr("value", value)
	}
	h.raw(`/>`)
	fieldError(h, errMsg)
}
