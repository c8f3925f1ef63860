package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staffdesk/internal/client/routes"
	"github.com/dmitrijs2005/staffdesk/internal/client/services"
	"github.com/dmitrijs2005/staffdesk/internal/client/session"
	"github.com/dmitrijs2005/staffdesk/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

// Login prompts for credentials and signs in. After a short pause the
// companies list is shown.
//
// The password is wiped before returning. A failed login prints the
// server's message, or a generic one, and stays on the login screen.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "err", err)
		a.notify.Error(services.LoginFailureMessage(err))
		return err
	}

	a.notify.Success("Login successful.")

	if err := a.sleep(ctx, a.config.LoginRedirectDelay); err != nil {
		return err
	}
	return a.Goto(ctx, routes.Companies)
}

// Logout forgets the session and returns to the login screen even when
// the local store could not be cleared.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not clear the saved session: %v\n", err)
	}

	// Unmount first so the invalidation does not trigger a signed-out reload.
	a.leave()
	a.companyCache.Invalidate()
	a.employeeCache.Invalidate()

	fmt.Fprintln(a.out, "Logged out.")
	_ = a.Goto(ctx, routes.Login)
	return err
}

// WhoAmI prints the signed-in admin and, when the token is a JWT, its
// subject and expiry. The token is not verified.
func (a *App) WhoAmI(_ context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "Admin: %s\n", a.session.AdminID())

	info, err := session.Describe(a.session.Token())
	if err != nil {
		fmt.Fprintln(a.out, "Token: opaque")
		return nil
	}
	if info.Subject != "" {
		fmt.Fprintf(a.out, "Subject: %s\n", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		line := "Expires: " + info.ExpiresAt.UTC().Format(time.RFC3339)
		if info.Expired(time.Now()) {
			line += " (expired)"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}
