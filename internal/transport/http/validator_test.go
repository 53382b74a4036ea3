package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexdesk/lexdesk/internal/practice"
)

func TestValidator_BlankPointerFields(t *testing.T) {
	empty := ""
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"client name", &practice.ClientInput{Name: &empty}, "name must be at least 1 characters"},
		{"project title", &practice.ProjectInput{Title: &empty}, "title must be at least 1 characters"},
		{"task title", &practice.TaskInput{Title: &empty}, "title must be at least 1 characters"},
		{"notification title", &practice.NotificationInput{Title: &empty}, "title must be at least 1 characters"},
		{"invoice number", &practice.InvoiceInput{Number: &empty}, "number must be at least 1 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.want)
		})
	}
}

func TestValidator_AbsentPointerFieldsPass(t *testing.T) {
	for _, in := range []any{
		&practice.ClientInput{},
		&practice.ProjectInput{},
		&practice.TaskInput{},
		&practice.NotificationInput{},
		&practice.InvoiceInput{},
	} {
		assert.NoError(t, validate.Struct(in))
	}
}
