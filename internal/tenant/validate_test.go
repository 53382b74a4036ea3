package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsWellFormedIDs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a", "a"},
		{"client-a-1", "clienta1"},
		{"ABC-123", "ABC123"},
		{"-x-", "x"},
		{"0192f5f2-7c1b-7a3e-9d4e-0c1f2a3b4c5d", "0192f5f27c1b7a3e9d4e0c1f2a3b4c5d"},
		{strings.Repeat("z", MaxIDLength), strings.Repeat("z", MaxIDLength)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Validate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_RejectsUnsafeIDs(t *testing.T) {
	inputs := []string{
		"",
		"---",
		"-",
		"; DROP TABLE x;",
		"a b",
		"a'b",
		`a"b`,
		"a;b",
		"a.b",
		"a_b",
		"a\tb",
		"a\nb",
		"a/*b*/",
		"tenant$1",
		"ünïcode",
		strings.Repeat("a", MaxIDLength+1),
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Validate(in)
			assert.ErrorIs(t, err, ErrInvalidTenantID)
		})
	}
}

func TestSchemaName(t *testing.T) {
	schema, err := SchemaName("client-a-1")
	require.NoError(t, err)
	assert.Equal(t, "tenant_clienta1", schema)

	schema, err = SchemaName("Acme-LLP")
	require.NoError(t, err)
	assert.Equal(t, "tenant_acmellp", schema)

	_, err = SchemaName("x'; --")
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}
