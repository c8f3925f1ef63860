package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/staffdesk/internal/client/routes"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Goto(ctx context.Context, path string) error
	List(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Page(ctx context.Context, n int) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Set(ctx context.Context, field, value string) error
	Attach(ctx context.Context, paths []string) error
	ShowForm(ctx context.Context) error
	Submit(ctx context.Context) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

const (
	guestHelp = "Available commands: login, goto <path>, whoami, help, exit"
	adminHelp = "Available commands: companies, employees, goto <path>, (l)ist, search [text], page <n>, " +
		"add, edit <id>, set <field> <value>, attach <path...>, form, submit, cancel, delete <id>, " +
		"whoami, logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the staffdesk console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Search text and set values are taken verbatim from the rest of the line.
//
// Any errors returned by command handlers are ignored here; handlers
// print their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("staffdesk %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		cmd, rest, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(adminHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "companies":
			_ = a.Goto(ctx, routes.Companies)

		case "employees":
			_ = a.Goto(ctx, routes.Employees)

		case "goto":
			path := strings.TrimSpace(rest)
			if path == "" {
				printlnFn("Usage: goto <path>")
				continue
			}
			_ = a.Goto(ctx, path)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, rest)

		case "page":
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				printlnFn("Usage: page <n>")
				continue
			}
			_ = a.Page(ctx, n)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			id := strings.TrimSpace(rest)
			if id == "" {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, id)

		case "set":
			field, value, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
			if field == "" {
				printlnFn("Usage: set <field> <value>")
				continue
			}
			_ = a.Set(ctx, field, value)

		case "attach":
			_ = a.Attach(ctx, strings.Fields(rest))

		case "form":
			_ = a.ShowForm(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "delete":
			id := strings.TrimSpace(rest)
			if id == "" {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, id)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
