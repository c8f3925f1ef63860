package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffdesk/internal/client/client"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/routes"
)

var errNoScreen = errors.New("no list is open, use 'companies' or 'employees'")

// Goto switches to path, subject to the session guard. The previous list
// is unmounted first so its late results are dropped.
func (a *App) Goto(ctx context.Context, path string) error {
	route := a.guard.Admit(path)
	a.leave()
	a.route = route

	switch route.Path {
	case routes.Companies:
		a.screen = a.companies
	case routes.Employees:
		a.screen = a.employees
	case routes.Login:
		if routes.Resolve(path).Protected {
			fmt.Fprintln(a.out, "Please log in first.")
		}
		fmt.Fprintln(a.out, "Type 'login' to sign in.")
		return nil
	default:
		fmt.Fprintf(a.out, "%s: %s\n", route.Title, path)
		return nil
	}

	err := a.screen.Mount(ctx)
	a.render()
	a.report(err)
	return err
}

func (a *App) leave() {
	if a.screen != nil {
		a.screen.Unmount()
		a.screen = nil
	}
}

func (a *App) current() (screen, error) {
	if a.screen == nil {
		a.report(errNoScreen)
		return nil, errNoScreen
	}
	return a.screen, nil
}

func (a *App) render() {
	if a.screen == nil {
		return
	}
	if err := a.screen.Render(a.out); err != nil {
		a.logger.Error(context.Background(), "render failed", "err", err)
	}
}

// report prints err unless the list or a notification already showed it.
func (a *App) report(err error) {
	if err == nil {
		return
	}

	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		a.printFieldErrors(verr.Fields)
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "The server did not accept your session. Use 'logout' and 'login' to sign in again.")
	case isServerError(err), errors.Is(err, context.Canceled):
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}

func isServerError(err error) bool {
	var rej *client.RejectedError
	var se *client.StatusError
	return errors.As(err, &rej) || errors.As(err, &se) || client.IsTransport(err)
}
