package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a focus ring of text inputs.
type form struct {
	inputs []textinput.Model
	focus  int
}

type field struct {
	placeholder string
	value       string
	secret      bool
	limit       int
}

func newForm(fields ...field) form {
	f := form{inputs: make([]textinput.Model, len(fields))}
	for i, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.Prompt = "› "
		if fd.limit > 0 {
			in.CharLimit = fd.limit
		}
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(fd.value)
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// value returns the trimmed value of the i-th input.
func (f form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f form) view(labels ...string) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if i == f.focus {
			b.WriteString(styles.ok.Render(label))
		} else {
			b.WriteString(styles.help.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	return b.String()
}

func loginForm(register bool) form {
	fields := []field{
		{placeholder: "you@example.com", limit: 254},
		{placeholder: "password", secret: true, limit: 128},
	}
	if register {
		fields = append(fields, field{placeholder: "Your name", limit: 100})
	}
	return newForm(fields...)
}

func watchlistForm() form {
	return newForm(
		field{placeholder: "Weekend picks", limit: 100},
		field{placeholder: "optional", limit: 500},
	)
}

func reviewForm(rating, text string) form {
	return newForm(
		field{placeholder: "1-10", value: rating, limit: 4},
		field{placeholder: "What did you think?", value: text, limit: 2000},
	)
}
