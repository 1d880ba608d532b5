package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"chirp/internal/model"
	"chirp/internal/util"
)

type formKind int

const (
	formLogin formKind = iota
	formRegister
	formCompose
	formEdit
	formComment
)

type field struct {
	label  string
	value  string
	secret bool
}

// form is a minimal modal input: a set of fields, one active at a time.
// Tab cycles, enter submits, esc cancels.
type form struct {
	kind   formKind
	title  string
	fields []field
	active int
	prior  model.Tweet // edit target
}

func newLoginForm() *form {
	return &form{kind: formLogin, title: "Log In", fields: []field{
		{label: "Username"},
		{label: "Password", secret: true},
	}}
}

func newRegisterForm() *form {
	return &form{kind: formRegister, title: "Register", fields: []field{
		{label: "Username"},
		{label: "Password", secret: true},
		{label: "Confirmation", secret: true},
	}}
}

func newComposeForm() *form {
	return &form{kind: formCompose, title: "New Tweet", fields: []field{
		{label: "What's happening?"},
	}}
}

func newEditForm(t model.Tweet) *form {
	return &form{kind: formEdit, title: "Edit Tweet", prior: t, fields: []field{
		{label: "Tweet", value: t.Tweet},
	}}
}

func newCommentForm() *form {
	return &form{kind: formComment, title: "Add Comment", fields: []field{
		{label: "Comment"},
	}}
}

func (f *form) activeField() *field { return &f.fields[f.active] }

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		m.errMsg = ""
		return m, nil
	case "tab", "shift+tab":
		if msg.String() == "tab" {
			f.active = (f.active + 1) % len(f.fields)
		} else {
			f.active = (f.active - 1 + len(f.fields)) % len(f.fields)
		}
		return m, nil
	case "enter":
		return m.submitForm()
	case "backspace":
		fld := f.activeField()
		if len(fld.value) > 0 {
			r := []rune(fld.value)
			fld.value = string(r[:len(r)-1])
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes || msg.String() == " " {
		fld := f.activeField()
		if msg.String() == " " {
			fld.value += " "
		} else {
			fld.value += string(msg.Runes)
		}
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	m.form = nil
	switch f.kind {
	case formLogin:
		username, password := f.fields[0].value, f.fields[1].value
		return m, func() tea.Msg {
			if err := m.sess.Login(m.ctx, username, password); err != nil {
				return errMsg{err}
			}
			return refreshMsg{"logged in as " + username}
		}
	case formRegister:
		username, password, conf := f.fields[0].value, f.fields[1].value, f.fields[2].value
		return m, func() tea.Msg {
			if err := m.sess.Register(m.ctx, username, password, conf); err != nil {
				return errMsg{err}
			}
			return refreshMsg{"registered; you can log in now"}
		}
	case formCompose:
		text := f.fields[0].value
		return m, func() tea.Msg {
			if _, err := m.composer.Create(m.ctx, text); err != nil {
				return errMsg{err}
			}
			return refreshMsg{"tweet posted"}
		}
	case formEdit:
		text, prior := f.fields[0].value, f.prior
		return m, func() tea.Msg {
			if _, err := m.composer.Edit(m.ctx, prior, text); err != nil {
				return errMsg{err}
			}
			return refreshMsg{"tweet updated"}
		}
	case formComment:
		text := f.fields[0].value
		return m, func() tea.Msg {
			if err := m.detail.AddComment(m.ctx, text); err != nil {
				return errMsg{err}
			}
			return refreshMsg{"comment added"}
		}
	}
	return m, nil
}

func renderForm(f *form, width int) string {
	body := titleStyle.Render(f.title) + "\n\n"
	for i := range f.fields {
		fld := &f.fields[i]
		val := fld.value
		if fld.secret {
			val = maskRunes(val)
		}
		line := dimStyle.Render(fld.label+": ") + val
		if i == f.active {
			line += mutedStyle.Render("▏")
		}
		body += line + "\n"
	}
	if f.kind == formCompose || f.kind == formEdit || f.kind == formComment {
		body += "\n" + mutedStyle.Render(remainingLabel(f.fields[0].value))
	}
	body += "\n" + helpStyle.Render("enter submit · tab next field · esc cancel")
	w := width - 20
	if w < 30 {
		w = 30
	}
	return modalStyle.Width(w).Render(body)
}

func maskRunes(s string) string {
	out := make([]rune, 0, len(s))
	for range s {
		out = append(out, '•')
	}
	return string(out)
}

func remainingLabel(s string) string {
	n := util.Remaining(s)
	if n < 0 {
		return errStyle.Render("over the 280 character limit")
	}
	return fmt.Sprintf("%d characters remaining", n)
}
