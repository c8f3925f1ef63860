// Package routes is the console's route table and the guard that keeps
// signed-out users on the login screen.
package routes

import "strings"

const (
	Login     = "/login"
	Companies = "/"
	Employees = "/employee"
	NotFound  = "*"
)

type Route struct {
	Path      string
	Title     string
	Protected bool
}

var table = []Route{
	{Path: Login, Title: "Login"},
	{Path: Companies, Title: "Companies", Protected: true},
	{Path: Employees, Title: "Employees", Protected: true},
}

// Resolve maps a path to its route. Unknown paths resolve to the
// not-found route. A trailing slash is ignored.
func Resolve(path string) Route {
	if path == "" {
		path = Companies
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = Companies
		}
	}
	for _, r := range table {
		if r.Path == path {
			return r
		}
	}
	return Route{Path: NotFound, Title: "Page not found"}
}

type Authenticator interface {
	IsAuthenticated() bool
}

type Guard struct {
	auth Authenticator
}

func NewGuard(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Admit returns the route to show for path: protected routes turn into
// the login route for a signed-out user.
func (g *Guard) Admit(path string) Route {
	r := Resolve(path)
	if r.Protected && !g.auth.IsAuthenticated() {
		return Resolve(Login)
	}
	return r
}
