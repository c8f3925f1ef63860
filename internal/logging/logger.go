// Package logging is the diagnostic logger shared by staffdesk packages.
// Console output meant for the admin never goes through it.
package logging

import "context"

// Logger takes alternating key and value arguments after the message:
//
//	log.Debug(ctx, "list fetched", "kind", "company", "page", 2)
//
// Debug is for per-request detail such as HTTP round trips and cache hits.
// Warn is for failures the user recovers from, like a rejected login.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds attrs that every later record carries.
	With(args ...any) Logger
}
