package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffdesk/internal/client/cache"
	"github.com/dmitrijs2005/staffdesk/internal/client/entity"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/listview"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

// List reloads the current page and prints it.
func (a *App) List(ctx context.Context) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	err = s.Refresh(ctx)
	a.render()
	a.report(err)
	return err
}

// Search shows page 1 of the rows matching text. An empty text clears
// the search.
func (a *App) Search(ctx context.Context, text string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	err = s.ChangeSearch(ctx, text)
	a.render()
	a.report(err)
	return err
}

func (a *App) Page(ctx context.Context, n int) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	err = s.ChangePage(ctx, n)
	if errors.Is(err, listview.ErrPageOutOfRange) {
		fmt.Fprintf(a.out, "Page %d is out of range.\n", n)
		return err
	}
	a.render()
	a.report(err)
	return err
}

// Add opens an empty form, asks for every field and submits it.
func (a *App) Add(ctx context.Context) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	if err := s.OpenCreate(); err != nil {
		a.report(err)
		return err
	}
	if err := a.fillForm(ctx, s.Form(), false); err != nil {
		return err
	}
	return a.Submit(ctx)
}

// Edit opens the form for the row with id on the current page. Empty
// answers keep the current values.
func (a *App) Edit(ctx context.Context, id string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	if err := s.OpenEditByID(models.ID(id)); err != nil {
		if errors.Is(err, listview.ErrRowNotFound) {
			fmt.Fprintf(a.out, "No row with id %s on this page.\n", id)
		} else {
			a.report(err)
		}
		return err
	}
	if err := a.fillForm(ctx, s.Form(), true); err != nil {
		return err
	}
	return a.Submit(ctx)
}

// fillForm prompts for each field of the open form. On an attachment
// problem the form stays open for 'attach' and 'submit'.
func (a *App) fillForm(ctx context.Context, m *forms.Machine, editing bool) error {
	schema := m.Schema()
	draft := m.Draft()

	for _, f := range schema.Fields {
		if f.Name == entity.CompanyField {
			a.printCompanyChoices(ctx)
		}
		prompt := f.Label
		if editing {
			prompt += fmt.Sprintf(" [%s]", draft.Values[f.Name])
		}
		answer, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if answer == "" && editing {
			continue
		}
		if err := m.Set(f.Name, answer); err != nil {
			a.report(err)
			return err
		}
	}

	if schema.Image == nil {
		return nil
	}
	prompt := "Logo file path(s), separated by spaces"
	if editing && draft.ExistingLogo != "" {
		prompt += ", empty keeps " + draft.ExistingLogo
	}
	answer, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if answer == "" {
		return nil
	}
	return a.attach(m, strings.Fields(answer))
}

// printCompanyChoices lists every company, walking all pages of the
// unfiltered list.
func (a *App) printCompanyChoices(ctx context.Context) {
	var all []models.Company
	for page, total := 1, 1; page <= total; page++ {
		res := a.companyCache.Get(ctx, cache.Key{Page: page})
		if !res.HasPage {
			break
		}
		all = append(all, res.Page.Items...)
		total = res.Page.TotalPages
	}

	if len(all) == 0 {
		fmt.Fprintln(a.out, "No companies to choose from.")
		return
	}
	fmt.Fprintln(a.out, "Companies:")
	for _, c := range all {
		fmt.Fprintf(a.out, "  %s  %s\n", c.ID, c.Name)
	}
}

// Set changes one field of the open form.
func (a *App) Set(_ context.Context, field, value string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	if err := s.Form().Set(field, value); err != nil {
		if errors.Is(err, forms.ErrUnknownField) {
			fmt.Fprintf(a.out, "Unknown field %q.\n", field)
		} else {
			a.report(err)
		}
		return err
	}
	return nil
}

// Attach replaces the form's logo files.
func (a *App) Attach(_ context.Context, paths []string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(a.out, "Usage: attach <path...>")
		return nil
	}
	return a.attach(s.Form(), paths)
}

func (a *App) attach(m *forms.Machine, paths []string) error {
	files := make([]models.Attachment, 0, len(paths))
	for _, p := range paths {
		f, err := models.LoadAttachment(p)
		if err != nil {
			a.report(err)
			return err
		}
		files = append(files, f)
	}
	if err := m.Attach(files...); err != nil {
		if errors.Is(err, forms.ErrUnknownField) {
			fmt.Fprintln(a.out, "This form has no logo.")
		} else {
			a.report(err)
		}
		return err
	}
	fmt.Fprintf(a.out, "Logo: %s\n", a.logoLine(m))
	return nil
}

// ShowForm prints the open form with its current values and errors.
func (a *App) ShowForm(_ context.Context) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	m := s.Form()
	if m.State() == forms.Closed {
		fmt.Fprintln(a.out, "No form is open.")
		return nil
	}

	d := m.Draft()
	if d.Mode == forms.Editing {
		fmt.Fprintf(a.out, "Editing %s\n", d.TargetID)
	} else {
		fmt.Fprintln(a.out, "New entry")
	}

	schema := m.Schema()
	for _, f := range schema.Fields {
		fmt.Fprintf(a.out, "  %s (%s): %s\n", f.Label, f.Name, d.Values[f.Name])
		if msg := d.Errors[f.Name]; msg != "" {
			fmt.Fprintf(a.out, "    ! %s\n", msg)
		}
	}
	if schema.Image != nil {
		fmt.Fprintf(a.out, "  Logo: %s\n", a.logoLine(m))
		if msg := d.Errors[schema.Image.Name]; msg != "" {
			fmt.Fprintf(a.out, "    ! %s\n", msg)
		}
	}
	return nil
}

// logoLine shows a newly chosen file in preference to the saved logo.
func (a *App) logoLine(m *forms.Machine) string {
	ref := m.PreviewRef()
	if name, ok := a.previews.Name(ref); ok {
		return fmt.Sprintf("%s (%s)", name, ref)
	}
	if ref == "" {
		return "none"
	}
	return ref
}

// Submit sends the open form and prints the list again on success.
func (a *App) Submit(ctx context.Context) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	if err := s.Submit(ctx); err != nil {
		a.report(err)
		return err
	}
	a.render()
	return nil
}

func (a *App) Cancel(_ context.Context) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	s.Cancel()
	fmt.Fprintln(a.out, "Form closed.")
	return nil
}

// Delete asks for confirmation and deletes the row with id.
func (a *App) Delete(ctx context.Context, id string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	if err := s.RequestDelete(ctx, models.ID(id)); err != nil {
		a.report(err)
		return err
	}
	a.render()
	return nil
}

func (a *App) printFieldErrors(fields map[string]string) {
	fmt.Fprintln(a.out, "Please fix the following:")

	var schema forms.Schema
	if a.screen != nil {
		schema = a.screen.Form().Schema()
	}
	seen := map[string]bool{}
	for _, f := range schema.Fields {
		if msg, ok := fields[f.Name]; ok {
			fmt.Fprintf(a.out, "  %s: %s\n", f.Label, msg)
			seen[f.Name] = true
		}
	}
	for name, msg := range fields {
		if seen[name] {
			continue
		}
		label := name
		if schema.Image != nil && name == schema.Image.Name {
			label = "Logo"
		}
		fmt.Fprintf(a.out, "  %s: %s\n", label, msg)
	}
}
