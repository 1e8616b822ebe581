package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/precall-audit/internal/model"
)

func validInputs() model.AuditInputs {
	return model.AuditInputs{
		BusinessName:   "Smith Pest Control",
		City:           "Springfield",
		PrimaryService: "pest_control",
		WebsiteURL:     "https://smithpest.com",
	}
}

func TestValidateInputs(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validateInputs(validInputs()))
	})

	t.Run("bare domain website", func(t *testing.T) {
		t.Parallel()
		in := validInputs()
		in.WebsiteURL = "smithpest.com"
		assert.NoError(t, validateInputs(in))
	})

	t.Run("hyphenated city", func(t *testing.T) {
		t.Parallel()
		in := validInputs()
		in.City = "Winston-Salem"
		assert.NoError(t, validateInputs(in))
	})

	tests := []struct {
		name   string
		mutate func(*model.AuditInputs)
	}{
		{"name too short", func(in *model.AuditInputs) { in.BusinessName = "A" }},
		{"name too long", func(in *model.AuditInputs) { in.BusinessName = strings.Repeat("x", 51) }},
		{"city with digits", func(in *model.AuditInputs) { in.City = "Spr1ngfield" }},
		{"city too short", func(in *model.AuditInputs) { in.City = "X" }},
		{"unknown service", func(in *model.AuditInputs) { in.PrimaryService = "roof_repair" }},
		{"unparseable website", func(in *model.AuditInputs) { in.WebsiteURL = "://" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validInputs()
			tt.mutate(&in)
			assert.Error(t, validateInputs(in))
		})
	}
}
