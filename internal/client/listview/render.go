package listview

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render writes the table, the pagination bar and, when the last load
// failed, an error line.
func (c *Controller[T]) Render(w io.Writer) error {
	v := c.View()

	title := c.desc.Title
	if v.Key.Search != "" {
		title += fmt.Sprintf(" matching %q", v.Key.Search)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	if !v.Loaded && v.Err == nil {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headers := []string{"Sl No", "ID"}
	for _, col := range c.desc.Columns {
		headers = append(headers, col.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for i, row := range v.Rows {
		cells := []string{fmt.Sprint(i + 1), c.desc.ID(row).String()}
		for _, col := range c.desc.Columns {
			cells = append(cells, col.Value(row))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.Rows) == 0 && v.Err == nil {
		fmt.Fprintf(w, "No %s found.\n", strings.ToLower(c.desc.Title))
	}

	if v.Err != nil {
		if v.Stale {
			fmt.Fprintf(w, "! Could not refresh %s, showing last known data: %v\n", strings.ToLower(c.desc.Title), v.Err)
		} else {
			fmt.Fprintf(w, "! Could not load %s: %v\n", strings.ToLower(c.desc.Title), v.Err)
		}
	}

	_, err := fmt.Fprintln(w, pageBar(v.Key.Page, v.TotalPages))
	return err
}

func pageBar(current, total int) string {
	if total < 1 {
		total = 1
	}
	parts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if i == current {
			parts = append(parts, fmt.Sprintf("[%d]", i))
		} else {
			parts = append(parts, fmt.Sprint(i))
		}
	}
	return "Page: " + strings.Join(parts, " ")
}
