package entity

import (
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

const ImageField = "imageUrl"

var Companies = Descriptor[models.Company]{
	Kind:  "company",
	Noun:  "company",
	Title: "Companies",
	Path:  "/companies",
	Schema: forms.Schema{
		Fields: []forms.Field{
			{Name: "name", Label: "Company Name", Required: "Company name is required"},
			{Name: "email", Label: "Email", Required: "Email is required"},
			{Name: "website", Label: "Website", Required: "Website is required"},
		},
		Image: &forms.Image{Name: ImageField, Required: "At least one image is required"},
	},
	Columns: []Column[models.Company]{
		{Header: "Company Name", Value: func(c models.Company) string { return c.Name }},
		{Header: "Email", Value: func(c models.Company) string { return c.Email }},
		{Header: "Website", Value: func(c models.Company) string { return c.Website }},
		{Header: "Logo", Value: func(c models.Company) string { return c.Logo }},
	},
	ID: func(c models.Company) models.ID { return c.ID },
	Values: func(c models.Company) map[string]string {
		return map[string]string{"name": c.Name, "email": c.Email, "website": c.Website}
	},
	Logo: func(c models.Company) string { return c.Logo },
}
