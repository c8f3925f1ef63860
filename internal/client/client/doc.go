// Package client contains the HTTP building blocks of the staffdesk console.
//
// # Overview
//
// The package provides:
//  1. RESTClient, a thin JSON/multipart client for the admin backend that
//     attaches the bearer token, request id and Accept headers to every call
//     and maps transport and status failures to the errors below.
//  2. Resource, a typed CRUD binding for one collection endpoint
//     (GET list, POST create, PUT update, DELETE).
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     session store, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Network failures wrap ErrUnavailable. HTTP 400 responses become
// *RejectedError carrying the server message verbatim; any other non-2xx
// response becomes *StatusError, which also matches ErrUnauthorized for
// 401 and 403.
package client
