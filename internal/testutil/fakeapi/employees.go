package fakeapi

import (
	"net/http"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	var found []models.Employee
	for _, e := range s.employees {
		if matches(search, e.Firstname, e.Lastname, e.Email, e.CompanyName) {
			found = append(found, e)
		}
	}
	body := paginate(found, r, s.pageSize)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	e := models.Employee{
		Firstname: r.FormValue("firstname"),
		Lastname:  r.FormValue("lastname"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		CompanyID: models.ID(r.FormValue("company_id")),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Firstname == "" || e.Lastname == "" || e.Email == "" || e.Phone == "" {
		reject(w, "All fields are required")
		return
	}
	c, ok := s.company(e.CompanyID)
	if !ok {
		reject(w, "Company not found")
		return
	}

	e.ID = s.newID()
	e.CompanyName = c.Name
	s.employees = append(s.employees, e)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := models.ID(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.employees {
		e := &s.employees[i]
		if e.ID != id {
			continue
		}
		if v := models.ID(r.FormValue("company_id")); v != "" {
			c, ok := s.company(v)
			if !ok {
				reject(w, "Company not found")
				return
			}
			e.CompanyID = v
			e.CompanyName = c.Name
		}
		if v := r.FormValue("firstname"); v != "" {
			e.Firstname = v
		}
		if v := r.FormValue("lastname"); v != "" {
			e.Lastname = v
		}
		if v := r.FormValue("email"); v != "" {
			e.Email = v
		}
		if v := r.FormValue("phone"); v != "" {
			e.Phone = v
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": *e})
		return
	}
	notFound(w, "Employee")
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.employees {
		if e.ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted"})
			return
		}
	}
	notFound(w, "Employee")
}
