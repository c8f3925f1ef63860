// Package forms implements the create/edit dialog of a list view: draft
// values, local validation and the submit lifecycle.
package forms

import (
	"maps"
	"sync"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

type State int

const (
	Closed State = iota
	Creating
	Editing
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Draft is the in-progress form. Mode is Creating or Editing, also while
// the machine is Submitting.
type Draft struct {
	Mode         State
	TargetID     models.ID
	Values       map[string]string
	Files        []models.Attachment
	ExistingLogo string
	Errors       map[string]string
}

func (d Draft) clone() Draft {
	d.Values = maps.Clone(d.Values)
	d.Errors = maps.Clone(d.Errors)
	d.Files = append([]models.Attachment(nil), d.Files...)
	return d
}

type Machine struct {
	schema   Schema
	previews Previewer

	mu      sync.Mutex
	state   State
	draft   Draft
	preview string
}

func NewMachine(schema Schema, previews Previewer) *Machine {
	if previews == nil {
		previews = NewPreviewRegistry()
	}
	return &Machine{schema: schema, previews: previews}
}

func (m *Machine) Schema() Schema { return m.schema }

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Draft returns a copy of the current draft.
func (m *Machine) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.clone()
}

func (m *Machine) OpenCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Closed {
		return ErrAlreadyOpen
	}
	m.state = Creating
	m.draft = Draft{Mode: Creating, Values: m.schema.blank()}
	return nil
}

// OpenEdit seeds the draft from one entity. No file is preselected; logo is
// remembered so an unchanged edit keeps it.
func (m *Machine) OpenEdit(id models.ID, values map[string]string, logo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Closed {
		return ErrAlreadyOpen
	}
	vals := m.schema.blank()
	for k := range vals {
		vals[k] = values[k]
	}
	m.state = Editing
	m.draft = Draft{Mode: Editing, TargetID: id, Values: vals, ExistingLogo: logo}
	return nil
}

func (m *Machine) editable() error {
	switch m.state {
	case Closed:
		return ErrClosed
	case Submitting:
		return ErrSubmitting
	}
	return nil
}

func (m *Machine) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.editable(); err != nil {
		return err
	}
	if _, ok := m.schema.field(name); !ok {
		return ErrUnknownField
	}
	m.draft.Values[name] = value
	delete(m.draft.Errors, name)
	return nil
}

// Attach replaces the picked files. The preview of the previous pick is
// released and a new one opened for the first file.
func (m *Machine) Attach(files ...models.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.editable(); err != nil {
		return err
	}
	if m.schema.Image == nil {
		return ErrUnknownField
	}

	m.releasePreview()
	m.draft.Files = append([]models.Attachment(nil), files...)
	if len(files) > 0 {
		m.preview = m.previews.Open(files[0])
	}
	delete(m.draft.Errors, m.schema.Image.Name)
	return nil
}

// PreviewRef is what the form shows as the logo: the new pick if there is
// one, otherwise the entity's current logo.
func (m *Machine) PreviewRef() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.preview != "" {
		return m.preview
	}
	return m.draft.ExistingLogo
}

// Validate reports field errors without changing state.
func (m *Machine) Validate() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schema.check(m.draft)
}

// Begin validates the draft and, when it is valid, moves to Submitting and
// returns what to send. On failure the draft keeps its values, gets the
// field errors and a *ValidationError is returned.
func (m *Machine) Begin() (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.editable(); err != nil {
		return Submission{}, err
	}

	if errs := m.schema.check(m.draft); errs != nil {
		m.draft.Errors = errs
		return Submission{}, &ValidationError{Fields: maps.Clone(errs)}
	}

	m.draft.Errors = nil
	m.state = Submitting

	sub := Submission{
		Mode:      m.draft.Mode,
		TargetID:  m.draft.TargetID,
		FileField: m.schema.imageField(),
		Files:     append([]models.Attachment(nil), m.draft.Files...),
	}
	for _, f := range m.schema.Fields {
		sub.Values = append(sub.Values, Value{Name: f.Name, Value: m.draft.Values[f.Name]})
	}
	return sub, nil
}

// Reject returns a submitting form to the state it was submitted from, with
// the server's field errors attached.
func (m *Machine) Reject(fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Submitting {
		return ErrNotSubmitting
	}
	m.state = m.draft.Mode
	m.draft.Errors = maps.Clone(fields)
	return nil
}

// Close discards the draft and releases its preview. It is a no-op on a
// closed machine.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releasePreview()
	m.state = Closed
	m.draft = Draft{}
}

func (m *Machine) releasePreview() {
	if m.preview != "" {
		m.previews.Release(m.preview)
		m.preview = ""
	}
}
