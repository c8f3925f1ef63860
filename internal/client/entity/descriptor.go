// Package entity describes the entity types the console manages: their
// endpoints, form schema, table columns and user-facing messages.
package entity

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffdesk/internal/client/events"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

const UnexpectedErrorMessage = "Unexpected error occurred. Please try again."

type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Prompt is a yes/no question shown before a destructive action.
type Prompt struct {
	Title   string
	Text    string
	Confirm string
}

type Descriptor[T any] struct {
	Kind    events.Kind
	Noun    string
	Title   string
	Path    string
	Schema  forms.Schema
	Columns []Column[T]

	ID     func(T) models.ID
	Values func(T) map[string]string
	Logo   func(T) string
}

func (d Descriptor[T]) capitalNoun() string {
	if d.Noun == "" {
		return ""
	}
	return strings.ToUpper(d.Noun[:1]) + d.Noun[1:]
}

func (d Descriptor[T]) AddedMessage() string {
	return fmt.Sprintf("%s added successfully!", d.capitalNoun())
}

func (d Descriptor[T]) UpdatedMessage() string {
	return fmt.Sprintf("%s updated successfully!", d.capitalNoun())
}

func (d Descriptor[T]) AddFailedMessage() string {
	return fmt.Sprintf("An error occurred while adding the %s.", d.Noun)
}

func (d Descriptor[T]) UpdateFailedMessage() string {
	return fmt.Sprintf("An error occurred while updating the %s.", d.Noun)
}

func (d Descriptor[T]) DeletedMessage() string {
	return fmt.Sprintf("The %s has been deleted.", d.Noun)
}

func (d Descriptor[T]) DeleteFailedMessage() string {
	return fmt.Sprintf("Failed to delete the %s.", d.Noun)
}

func (d Descriptor[T]) DeleteUnexpectedMessage() string {
	return fmt.Sprintf("An unexpected error occurred while deleting the %s.", d.Noun)
}

func (d Descriptor[T]) DeletePrompt() Prompt {
	return Prompt{
		Title:   "Are you sure?",
		Text:    fmt.Sprintf("Do you want to delete this %s?", d.Noun),
		Confirm: "Yes, delete it!",
	}
}

// LogoOf returns the entity's logo, or "" for types without one.
func (d Descriptor[T]) LogoOf(v T) string {
	if d.Logo == nil {
		return ""
	}
	return d.Logo(v)
}
