package forms

import (
	"strings"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/go-playground/validator/v10"
)

const NotAnImageMessage = "Logo must be an image file"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Field is a scalar form input. Required is the message shown when the
// value is empty; an empty Required makes the field optional.
type Field struct {
	Name     string
	Label    string
	Required string
}

// Image describes the logo upload. Required applies when the entity has
// no logo yet.
type Image struct {
	Name     string
	Required string
}

type Schema struct {
	Fields []Field
	Image  *Image
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// check returns per-field messages for d; nil means d is valid.
func (s Schema) check(d Draft) map[string]string {
	errs := map[string]string{}

	for _, f := range s.Fields {
		if f.Required == "" {
			continue
		}
		if err := validate.Var(strings.TrimSpace(d.Values[f.Name]), "required"); err != nil {
			errs[f.Name] = f.Required
		}
	}

	if img := s.Image; img != nil {
		needsFile := d.Mode == Creating || d.ExistingLogo == ""
		if len(d.Files) == 0 && needsFile && img.Required != "" {
			errs[img.Name] = img.Required
		}
		for _, f := range d.Files {
			if !f.IsImage() {
				errs[img.Name] = NotAnImageMessage
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s Schema) blank() map[string]string {
	vals := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		vals[f.Name] = ""
	}
	return vals
}

func (s Schema) imageField() string {
	if s.Image == nil {
		return ""
	}
	return s.Image.Name
}

// Value is one submitted scalar field.
type Value struct {
	Name  string
	Value string
}

// Submission is what a validated draft sends to the server.
type Submission struct {
	Mode      State
	TargetID  models.ID
	Values    []Value
	FileField string
	Files     []models.Attachment
}
