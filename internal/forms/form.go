// Package forms contains the modal create/edit/delete dialogs bound to
// a table controller. A form owns its field inputs and submit state;
// it reports back to the table only through its success callback.
package forms

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stockgrid/internal/api"
	"github.com/jask/stockgrid/internal/grid"
)

// SuccessPolicy is the explicit, per-action-kind choice of what a
// successful submit does to the table. Refetch is required whenever the
// change can affect fields that are not loaded, or the record's
// membership in the current filtered/sorted page. Patch is valid only
// when the success response is the complete updated record and
// membership cannot change.
type SuccessPolicy int

const (
	SuccessRefetch SuccessPolicy = iota
	SuccessPatch
)

// Success builds the standard success callback for a controller under
// the given policy. A patch that cannot find its row (or an empty
// response body) falls back to a full refetch rather than silently
// desynchronizing.
func Success(ctrl *grid.Controller, policy SuccessPolicy) func(record map[string]any) tea.Cmd {
	return func(record map[string]any) tea.Cmd {
		if policy == SuccessPatch && record != nil && ctrl.UpdateRecord(record) {
			return nil
		}
		return ctrl.Refresh()
	}
}

// Submitter is the slice of the API client a form needs.
type Submitter interface {
	Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, resource string, pk int64, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource string, pk int64) error
}

// Field declares one input of a form schema.
type Field struct {
	Name     string
	Label    string
	Required bool
	Value    string
}

// Performer posts to a domain action sub-endpoint (e.g. receiving
// items against an order).
type Performer interface {
	Perform(ctx context.Context, resource string, pk int64, action string, payload map[string]any) (map[string]any, error)
}

type kind int

const (
	kindCreate kind = iota
	kindEdit
	kindDelete
	kindPerform
)

// Form is one CRUD dialog instance. It is created per intent and torn
// down when the dialog closes.
type Form struct {
	ctx        context.Context
	api        Submitter
	performer  Performer
	kind       kind
	url        string
	pk         int64
	action     string
	title      string
	fields     []Field
	inputs     []textinput.Model
	focus      int
	fieldErrs  map[string][]string
	submitting bool
	done       bool
	onSuccess  func(record map[string]any) tea.Cmd

	// MapPayload, when set, transforms the flat field values into the
	// request body. Domain actions with nested payloads use it.
	MapPayload func(values map[string]any) map[string]any
}

// NewCreate builds a create dialog. Initial values prefill the inputs,
// which is how duplicate actions seed the form from a source record.
func NewCreate(ctx context.Context, client Submitter, url, title string, fields []Field, onSuccess func(map[string]any) tea.Cmd) *Form {
	f := &Form{ctx: ctx, api: client, kind: kindCreate, url: url, title: title, fields: fields, onSuccess: onSuccess}
	f.buildInputs()
	return f
}

// NewEdit builds an edit dialog bound to a primary key. Field values
// missing from the schema are taken from the record being edited.
func NewEdit(ctx context.Context, client Submitter, url string, pk int64, title string, fields []Field, rec grid.Record, onSuccess func(map[string]any) tea.Cmd) *Form {
	for i := range fields {
		if fields[i].Value == "" {
			fields[i].Value = grid.FormatValue(grid.Resolve(rec, fields[i].Name))
			if fields[i].Value == "-" {
				fields[i].Value = ""
			}
		}
	}
	f := &Form{ctx: ctx, api: client, kind: kindEdit, url: url, pk: pk, title: title, fields: fields, onSuccess: onSuccess}
	f.buildInputs()
	return f
}

// NewDelete builds a delete confirmation dialog.
func NewDelete(ctx context.Context, client Submitter, url string, pk int64, title string, onSuccess func(map[string]any) tea.Cmd) *Form {
	return &Form{ctx: ctx, api: client, kind: kindDelete, url: url, pk: pk, title: title, onSuccess: onSuccess}
}

// NewPerform builds a dialog that posts to an action sub-endpoint of
// one record instead of a plain CRUD resource.
func NewPerform(ctx context.Context, client Performer, url string, pk int64, action, title string, fields []Field, onSuccess func(map[string]any) tea.Cmd) *Form {
	f := &Form{ctx: ctx, performer: client, kind: kindPerform, url: url, pk: pk, action: action, title: title, fields: fields, onSuccess: onSuccess}
	f.buildInputs()
	return f
}

func (f *Form) buildInputs() {
	f.inputs = make([]textinput.Model, len(f.fields))
	for i, field := range f.fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.Label
		in.SetValue(field.Value)
		in.CharLimit = 250
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}

func (f *Form) Title() string    { return f.title }
func (f *Form) Done() bool       { return f.done }
func (f *Form) Submitting() bool { return f.submitting }

// FieldErrors exposes the messages attached to one field after a
// rejected submit.
func (f *Form) FieldErrors(name string) []string { return f.fieldErrs[name] }

// ResultMsg carries the outcome of an async submit back to the form.
type ResultMsg struct {
	Form   *Form
	Record map[string]any
	Err    error
}

// OpenMsg asks the shell to present a form as the active modal.
type OpenMsg struct {
	Form *Form
}

func OpenCmd(f *Form) tea.Cmd {
	return func() tea.Msg { return OpenMsg{Form: f} }
}

// Update handles a key while the dialog is open. The second return
// value reports whether the key was consumed.
func (f *Form) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	if f.submitting {
		// No edits mid-flight; esc still abandons the dialog.
		if msg.Type == tea.KeyEsc {
			f.done = true
		}
		return nil, true
	}
	if f.kind == kindDelete {
		switch msg.String() {
		case "y", "Y", "enter":
			return f.submitCmd(), true
		case "n", "N", "esc":
			f.done = true
			return nil, true
		}
		return nil, true
	}
	switch msg.Type {
	case tea.KeyEsc:
		f.done = true
		return nil, true
	case tea.KeyEnter:
		if err := f.validate(); err != "" {
			return nil, true
		}
		return f.submitCmd(), true
	case tea.KeyTab, tea.KeyDown:
		f.setFocus(f.focus + 1)
		return nil, true
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus(f.focus - 1)
		return nil, true
	}
	if f.focus >= 0 && f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd, true
	}
	return nil, true
}

func (f *Form) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// validate applies local required-field checks before any round trip.
func (f *Form) validate() string {
	f.fieldErrs = map[string][]string{}
	first := ""
	for i, field := range f.fields {
		if field.Required && strings.TrimSpace(f.inputs[i].Value()) == "" {
			f.fieldErrs[field.Name] = []string{"this field is required"}
			if first == "" {
				first = field.Name
			}
		}
	}
	return first
}

func (f *Form) payload() map[string]any {
	out := make(map[string]any, len(f.fields))
	for i, field := range f.fields {
		out[field.Name] = f.inputs[i].Value()
	}
	return out
}

func (f *Form) submitCmd() tea.Cmd {
	f.submitting = true
	f.fieldErrs = map[string][]string{}
	form := f
	payload := f.payload()
	if f.MapPayload != nil {
		payload = f.MapPayload(payload)
	}
	return func() tea.Msg {
		switch form.kind {
		case kindCreate:
			rec, err := form.api.Create(form.ctx, form.url, payload)
			return ResultMsg{Form: form, Record: rec, Err: err}
		case kindEdit:
			rec, err := form.api.Update(form.ctx, form.url, form.pk, payload)
			return ResultMsg{Form: form, Record: rec, Err: err}
		case kindPerform:
			rec, err := form.performer.Perform(form.ctx, form.url, form.pk, form.action, payload)
			return ResultMsg{Form: form, Record: rec, Err: err}
		default:
			err := form.api.Delete(form.ctx, form.url, form.pk)
			return ResultMsg{Form: form, Err: err}
		}
	}
}

// HandleResult applies a submit outcome. A rejection keeps the dialog
// open with its field messages; success closes it and runs the success
// callback.
func (f *Form) HandleResult(msg ResultMsg) tea.Cmd {
	if msg.Form != f {
		return nil
	}
	f.submitting = false
	if msg.Err != nil {
		if submitErr, ok := msg.Err.(*api.SubmitError); ok {
			f.fieldErrs = submitErr.Fields
		} else {
			f.fieldErrs = map[string][]string{"non_field_errors": {msg.Err.Error()}}
		}
		return nil
	}
	f.done = true
	if f.onSuccess == nil {
		return nil
	}
	return f.onSuccess(msg.Record)
}

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	formLabelStyle = lipgloss.NewStyle().Faint(true)
	formErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

// View renders the dialog body; the shell composites it into a popup.
func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render(f.title))
	b.WriteString("\n")
	if f.kind == kindDelete {
		b.WriteString("This action cannot be undone.\n")
		for _, msg := range f.fieldErrs["non_field_errors"] {
			b.WriteString(formErrorStyle.Render(msg) + "\n")
		}
		b.WriteString("[y] Delete  [n] Cancel")
		return b.String()
	}
	for i, field := range f.fields {
		b.WriteString(formLabelStyle.Render(field.Label) + "\n")
		b.WriteString(f.inputs[i].View() + "\n")
		for _, msg := range f.fieldErrs[field.Name] {
			b.WriteString(formErrorStyle.Render(msg) + "\n")
		}
	}
	for _, msg := range f.fieldErrs["non_field_errors"] {
		b.WriteString(formErrorStyle.Render(msg) + "\n")
	}
	if f.submitting {
		b.WriteString("saving...")
	} else {
		b.WriteString("[enter] Save  [tab] Next field  [esc] Cancel")
	}
	return b.String()
}
