package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/staffdesk/internal/client/entity"
)

// consoleNotifier prints toast-style notifications.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Success(msg string) {
	fmt.Fprintf(n.w, "[ok] %s\n", msg)
}

func (n consoleNotifier) Error(msg string) {
	fmt.Fprintf(n.w, "[error] %s\n", msg)
}

// consoleConfirmer asks on the console and blocks until the user answers.
type consoleConfirmer struct {
	reader *bufio.Reader
	w      io.Writer
}

func (c consoleConfirmer) Confirm(ctx context.Context, p entity.Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintln(c.w, p.Title)
	fmt.Fprintln(c.w, p.Text)
	return getConfirmation(c.reader, p.Confirm, c.w)
}
