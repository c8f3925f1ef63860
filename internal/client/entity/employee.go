package entity

import (
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

const CompanyField = "company_id"

var Employees = Descriptor[models.Employee]{
	Kind:  "employee",
	Noun:  "employee",
	Title: "Employees",
	Path:  "/employees",
	Schema: forms.Schema{
		Fields: []forms.Field{
			{Name: "firstname", Label: "First Name", Required: "First name is required"},
			{Name: "lastname", Label: "Last Name", Required: "Last name is required"},
			{Name: CompanyField, Label: "Company", Required: "Company is required"},
			{Name: "email", Label: "Email", Required: "Email is required"},
			{Name: "phone", Label: "Phone", Required: "Phone number is required"},
		},
	},
	Columns: []Column[models.Employee]{
		{Header: "First Name", Value: func(e models.Employee) string { return e.Firstname }},
		{Header: "Last Name", Value: func(e models.Employee) string { return e.Lastname }},
		{Header: "Email", Value: func(e models.Employee) string { return e.Email }},
		{Header: "Phone", Value: func(e models.Employee) string { return e.Phone }},
		{Header: "Company", Value: func(e models.Employee) string { return e.CompanyName }},
	},
	ID: func(e models.Employee) models.ID { return e.ID },
	Values: func(e models.Employee) map[string]string {
		return map[string]string{
			"firstname":  e.Firstname,
			"lastname":   e.Lastname,
			CompanyField: e.CompanyID.String(),
			"email":      e.Email,
			"phone":      e.Phone,
		}
	},
}
