// Package cli provides the interactive staffdesk admin console.
//
// It wires configuration, the local session store, the REST API client,
// the entity caches and the two list views (companies and employees) into
// a REPL. Typical flow: log in, browse or search a list, then add, edit or
// delete rows.
//
// Key features:
//   - Login / Logout with a session that survives restarts
//   - Searchable, paginated company and employee tables
//   - Create and edit forms with local validation and logo upload
//   - Delete with confirmation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Goto and runREPL for details.
package cli
