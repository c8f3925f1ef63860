package fakeapi

import (
	"net/http"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	var found []models.Company
	for _, c := range s.companies {
		if matches(search, c.Name, c.Email, c.Website) {
			found = append(found, c)
		}
	}
	body := paginate(found, r, s.pageSize)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) emailTaken(email string, except models.ID) bool {
	for _, c := range s.companies {
		if c.Email == email && c.ID != except {
			return true
		}
	}
	return false
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	c := models.Company{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Website: r.FormValue("website"),
	}
	files := uploadedNames(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Name == "" || c.Email == "" || c.Website == "" {
		reject(w, "All fields are required")
		return
	}
	if len(files) == 0 {
		reject(w, "At least one image is required")
		return
	}
	if s.emailTaken(c.Email, "") {
		reject(w, "Email already exists")
		return
	}

	c.ID = s.newID()
	c.Logo = "/uploads/" + files[0]
	s.uploads[c.ID] = files
	s.companies = append(s.companies, c)
	writeJSON(w, http.StatusCreated, map[string]any{"data": c})
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := models.ID(chi.URLParam(r, "id"))
	files := uploadedNames(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.companies {
		c := &s.companies[i]
		if c.ID != id {
			continue
		}
		email := r.FormValue("email")
		if email != "" && s.emailTaken(email, id) {
			reject(w, "Email already exists")
			return
		}
		if v := r.FormValue("name"); v != "" {
			c.Name = v
		}
		if email != "" {
			c.Email = email
		}
		if v := r.FormValue("website"); v != "" {
			c.Website = v
		}
		if len(files) > 0 {
			c.Logo = "/uploads/" + files[0]
			s.uploads[id] = files
		}
		for j := range s.employees {
			if s.employees[j].CompanyID == id {
				s.employees[j].CompanyName = c.Name
			}
		}
		writeJSON(w, http.StatusOK, *c)
		return
	}
	notFound(w, "Company")
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.companies {
		if c.ID == id {
			s.companies = append(s.companies[:i], s.companies[i+1:]...)
			delete(s.uploads, id)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Company deleted"})
			return
		}
	}
	notFound(w, "Company")
}
