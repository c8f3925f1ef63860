// Package services contains application services for the staffdesk
// console. This file defines the authentication service: admin login and
// logout on top of the persisted session.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffdesk/internal/client/client"
	"github.com/dmitrijs2005/staffdesk/internal/logging"
)

const LoginFailedMessage = "Login failed. Please try again."

// AuthService defines authentication operations for the console.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Logout: drop the session, locally and in the store, unconditionally.
//   - IsAuthenticated: report whether a token is present.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
}

type LoginAPI interface {
	Login(ctx context.Context, email string, password []byte) (*client.LoginResult, error)
}

type SessionStore interface {
	Save(ctx context.Context, adminID, token string) error
	Clear(ctx context.Context) error
	IsAuthenticated() bool
}

type authService struct {
	api     LoginAPI
	session SessionStore
	logger  logging.Logger
}

func NewAuthService(api LoginAPI, session SessionStore, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{api: api, session: session, logger: logger}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.session.Save(ctx, res.ID.String(), res.Token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.logger.Info(ctx, "admin signed in", "admin_id", res.ID.String())
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "session store not cleared", "err", err)
		return err
	}
	return nil
}

func (a *authService) IsAuthenticated() bool {
	return a.session.IsAuthenticated()
}

// LoginFailureMessage is the text shown for a failed login: the server's
// own message when it sent one.
func LoginFailureMessage(err error) string {
	var rej *client.RejectedError
	if errors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	var se *client.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return LoginFailedMessage
}
