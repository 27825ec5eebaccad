package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDefaultDocument(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidateRejectsEmptyName(t *testing.T) {
	doc := Default()
	doc.Personal.Name = ""
	assert.Error(t, Validate(doc))
}

func TestValidateAcceptsPopulatedDocument(t *testing.T) {
	doc := Default()
	doc.Personal.Name = "Jane Smith"
	doc.Experience = append(doc.Experience, Experience{
		Company:        "Acme",
		Role:           "Engineer",
		StartDate:      "Jan 2020",
		EndDate:        "Present",
		Achievements:   []string{},
		StartDateValue: &DateValue{Year: 2020, Month: 1},
		EndDateValue:   &DateValue{Year: 2024, IsPresent: true},
	})
	doc.Skills.Technical = []string{"Go"}
	assert.NoError(t, Validate(doc))
}
