// Package fakeapi is an in-memory admin backend for tests. It serves the
// same routes as the real API on a chi router behind httptest.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	DefaultEmail    = "admin@staffdesk.test"
	DefaultPassword = "secret"
	DefaultPageSize = 3
)

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	pageSize  int
	email     string
	password  string
	adminID   string
	token     string
	nextID    int
	companies []models.Company
	employees []models.Employee
	uploads   map[models.ID][]string
	hits      map[string]int
	fail      map[string]failure
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		pageSize: DefaultPageSize,
		email:    DefaultEmail,
		password: DefaultPassword,
		adminID:  "admin-1",
		uploads:  map[models.ID][]string{},
		hits:     map[string]int{},
		fail:     map[string]failure{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)

	r.Post("/admin/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/companies", s.listCompanies)
		r.Post("/companies", s.createCompany)
		r.Put("/companies/{id}", s.updateCompany)
		r.Delete("/companies/{id}", s.deleteCompany)

		r.Get("/employees", s.listEmployees)
		r.Post("/employees", s.createEmployee)
		r.Put("/employees/{id}", s.updateEmployee)
		r.Delete("/employees/{id}", s.deleteEmployee)
	})
	return r
}

// Route names used by Hits and FailNext look like "GET /companies" or
// "DELETE /companies/{id}".
func routeName(r *http.Request) string {
	path := r.URL.Path
	if i := strings.LastIndex(path, "/"); i > 0 && (strings.HasPrefix(path, "/companies/") || strings.HasPrefix(path, "/employees/")) {
		path = path[:i] + "/{id}"
	}
	return r.Method + " " + path
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := routeName(r)

		s.mu.Lock()
		s.hits[name]++
		f, failing := s.fail[name]
		delete(s.fail, name)
		s.mu.Unlock()

		if failing {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()

		if token == "" || r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetPageSize changes how many rows a list page holds.
func (s *Server) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
}

// IssueToken makes tok a valid bearer token without a login round trip.
func (s *Server) IssueToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

// FailNext makes the next request to route answer with status and body.
func (s *Server) FailNext(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[route] = failure{status: status, body: body}
}

func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

func (s *Server) ResetHits() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = map[string]int{}
}

// Uploads lists the file names last stored for an entity.
func (s *Server) Uploads(id models.ID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads[id]...)
}

func (s *Server) AddCompany(c models.Company) models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.newID()
	}
	s.companies = append(s.companies, c)
	return c
}

func (s *Server) AddEmployee(e models.Employee) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = s.newID()
	}
	if c, ok := s.company(e.CompanyID); ok {
		e.CompanyName = c.Name
	}
	s.employees = append(s.employees, e)
	return e
}

func (s *Server) Companies() []models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Company(nil), s.companies...)
}

func (s *Server) Employees() []models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Employee(nil), s.employees...)
}

func (s *Server) newID() models.ID {
	s.nextID++
	return models.ID(strconv.Itoa(s.nextID))
}

func (s *Server) company(id models.ID) (models.Company, bool) {
	for _, c := range s.companies {
		if c.ID == id {
			return c, true
		}
	}
	return models.Company{}, false
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Email != s.email || req.Password != s.password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
		return
	}
	s.token = uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]string{"_id": s.adminID, "token": s.token})
}

type pagination struct {
	TotalPages int `json:"totalPages"`
}

type listBody[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func paginate[T any](items []T, r *http.Request, size int) listBody[T] {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	total := (len(items) + size - 1) / size
	if total < 1 {
		total = 1
	}

	from := (page - 1) * size
	if from > len(items) {
		from = len(items)
	}
	to := from + size
	if to > len(items) {
		to = len(items)
	}

	data := make([]T, to-from)
	copy(data, items[from:to])
	return listBody[T]{Data: data, Pagination: pagination{TotalPages: total}}
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func reject(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": msg})
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("%s not found", what)})
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		reject(w, "Malformed form")
		return false
	}
	return true
}

func uploadedNames(r *http.Request) []string {
	if r.MultipartForm == nil {
		return nil
	}
	var names []string
	for _, fh := range r.MultipartForm.File["imageUrl"] {
		names = append(names, fh.Filename)
	}
	return names
}
