package forms

import (
	"testing"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func companySchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "name", Label: "Name", Required: "Company name is required"},
			{Name: "email", Label: "Email", Required: "Email is required"},
			{Name: "website", Label: "Website", Required: "Website is required"},
		},
		Image: &Image{Name: "imageUrl", Required: "At least one image is required"},
	}
}

func logo(name string) models.Attachment {
	return models.NewAttachment(name, pngHeader)
}

func fill(t *testing.T, m *Machine, kv ...string) {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		require.NoError(t, m.Set(kv[i], kv[i+1]))
	}
}

func TestOpenCreate_StartsEmpty(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())

	assert.Equal(t, Creating, m.State())
	d := m.Draft()
	assert.Equal(t, map[string]string{"name": "", "email": "", "website": ""}, d.Values)
	assert.Empty(t, d.Files)

	assert.ErrorIs(t, m.OpenCreate(), ErrAlreadyOpen)
	assert.ErrorIs(t, m.OpenEdit("1", nil, ""), ErrAlreadyOpen)
}

func TestBegin_EmptyCreateFailsWithAllMessages(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())

	_, err := m.Begin()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{
		"name":     "Company name is required",
		"email":    "Email is required",
		"website":  "Website is required",
		"imageUrl": "At least one image is required",
	}, ve.Fields)
	assert.Equal(t, Creating, m.State())
	assert.Equal(t, ve.Fields, m.Draft().Errors)
}

func TestBegin_WhitespaceCountsAsEmpty(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())
	fill(t, m, "name", "   ", "email", "a@x.com", "website", "x.com")
	require.NoError(t, m.Attach(logo("a.png")))

	_, err := m.Begin()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{"name": "Company name is required"}, ve.Fields)
}

func TestBegin_CreateProducesOrderedSubmission(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())
	fill(t, m, "website", "acme.com", "email", "a@acme.com", "name", "Acme")
	require.NoError(t, m.Attach(logo("acme.png")))

	sub, err := m.Begin()
	require.NoError(t, err)
	assert.Equal(t, Submitting, m.State())
	assert.Equal(t, Creating, sub.Mode)
	assert.Equal(t, []Value{
		{Name: "name", Value: "Acme"},
		{Name: "email", Value: "a@acme.com"},
		{Name: "website", Value: "acme.com"},
	}, sub.Values)
	assert.Equal(t, "imageUrl", sub.FileField)
	require.Len(t, sub.Files, 1)
	assert.Equal(t, "acme.png", sub.Files[0].Filename)

	assert.ErrorIs(t, m.Set("name", "x"), ErrSubmitting)
	_, err = m.Begin()
	assert.ErrorIs(t, err, ErrSubmitting)
}

func TestOpenEdit_KeepsExistingLogoWithoutFile(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenEdit("c1", map[string]string{
		"name": "Acme", "email": "a@acme.com", "website": "acme.com", "ignored": "x",
	}, "/uploads/acme.png"))

	d := m.Draft()
	assert.Equal(t, Editing, d.Mode)
	assert.Equal(t, models.ID("c1"), d.TargetID)
	assert.NotContains(t, d.Values, "ignored")
	assert.Empty(t, d.Files)
	assert.Equal(t, "/uploads/acme.png", m.PreviewRef())

	sub, err := m.Begin()
	require.NoError(t, err)
	assert.Equal(t, Editing, sub.Mode)
	assert.Equal(t, models.ID("c1"), sub.TargetID)
	assert.Empty(t, sub.Files)
}

func TestOpenEdit_WithoutLogoRequiresImage(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenEdit("c1", map[string]string{
		"name": "Acme", "email": "a@acme.com", "website": "acme.com",
	}, ""))

	errs := m.Validate()
	assert.Equal(t, map[string]string{"imageUrl": "At least one image is required"}, errs)
}

func TestAttach_RejectsNonImages(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())
	fill(t, m, "name", "Acme", "email", "a@acme.com", "website", "acme.com")
	require.NoError(t, m.Attach(models.NewAttachment("notes.txt", []byte("plain text"))))

	assert.Equal(t, map[string]string{"imageUrl": NotAnImageMessage}, m.Validate())
}

func TestReject_ReturnsToPriorStateWithValues(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())
	fill(t, m, "name", "Acme", "email", "dup@acme.com", "website", "acme.com")
	require.NoError(t, m.Attach(logo("a.png")))

	_, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Reject(map[string]string{"email": "taken"}))

	assert.Equal(t, Creating, m.State())
	d := m.Draft()
	assert.Equal(t, "dup@acme.com", d.Values["email"])
	assert.Len(t, d.Files, 1)
	assert.Equal(t, map[string]string{"email": "taken"}, d.Errors)

	require.NoError(t, m.Set("email", "new@acme.com"))
	assert.Empty(t, m.Draft().Errors)

	assert.ErrorIs(t, m.Reject(nil), ErrNotSubmitting)
}

func TestReject_EditReturnsToEditing(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenEdit("c1", map[string]string{"name": "A", "email": "e", "website": "w"}, "/l.png"))
	_, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Reject(nil))
	assert.Equal(t, Editing, m.State())
}

func TestPreviews_ReleasedOnReplaceAndClose(t *testing.T) {
	reg := NewPreviewRegistry()
	m := NewMachine(companySchema(), reg)
	require.NoError(t, m.OpenEdit("c1", map[string]string{"name": "A"}, "/old.png"))

	require.NoError(t, m.Attach(logo("one.png")))
	first := m.PreviewRef()
	assert.Contains(t, first, "blob:")
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, m.Attach(logo("two.png")))
	second := m.PreviewRef()
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, reg.Len())
	name, ok := reg.Name(second)
	require.True(t, ok)
	assert.Equal(t, "two.png", name)

	require.NoError(t, m.Attach())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, "/old.png", m.PreviewRef())

	require.NoError(t, m.Attach(logo("three.png")))
	m.Close()
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, Closed, m.State())
	assert.Empty(t, m.PreviewRef())
}

func TestClose_ResetsDraftAndAllowsReopen(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())
	fill(t, m, "name", "Acme")
	m.Close()
	m.Close()

	assert.Equal(t, Closed, m.State())
	assert.ErrorIs(t, m.Set("name", "x"), ErrClosed)
	_, err := m.Begin()
	assert.ErrorIs(t, err, ErrClosed)

	require.NoError(t, m.OpenCreate())
	assert.Equal(t, "", m.Draft().Values["name"])
}

func TestSet_UnknownField(t *testing.T) {
	m := NewMachine(companySchema(), nil)
	require.NoError(t, m.OpenCreate())
	assert.ErrorIs(t, m.Set("phone", "1"), ErrUnknownField)
}

func TestAttach_WithoutImageField(t *testing.T) {
	m := NewMachine(Schema{Fields: []Field{{Name: "x"}}}, nil)
	require.NoError(t, m.OpenCreate())
	assert.ErrorIs(t, m.Attach(logo("a.png")), ErrUnknownField)

	sub, err := m.Begin()
	require.NoError(t, err)
	assert.Empty(t, sub.FileField)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "B is required", "a": "A is required"}}
	assert.Equal(t, "validation failed: A is required; B is required", err.Error())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "creating", Creating.String())
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "unknown", State(42).String())
}
