// Package common contains constants and helpers shared across staffdesk
// client packages.
package common

// Outbound request headers.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
)

// Keys under which the admin session is persisted in the local metadata store.
const (
	SessionAdminIDKey    = "adminId"
	SessionAdminTokenKey = "adminToken"
)
