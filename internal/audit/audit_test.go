package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit_IsSecret(t *testing.T) {
	tests := []struct {
		key      string
		isSecret bool
	}{
		{"password", true},
		{"Password", true},
		{"token", true},
		{"access_token", true},
		{"secret", true},
		{"secret_hash", true},
		{"registration_key", true},
		{"api_key", true},
		{"key_id", false},
		{"tenant_id", false},
		{"record_id", false},
		{"email", false},
		{"schema", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.isSecret, isSecret(tt.key))
		})
	}
}

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// TestPurpose: Validates that audit metadata never carries secret values into logs.
// Scope: Unit Test
// Security: Sensitive data exposure (CWE-532)
// Expected: Secret-looking keys are redacted, others are kept.
func TestSlogLogger_RedactsMetadata(t *testing.T) {
	buf := captureDefault(t)
	l := NewSlogLogger()
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Log(context.Background(), Event{
		Type:     TypeKeyIssued,
		ActorID:  "root",
		Resource: "registration_key",
		Metadata: map[string]any{"key_id": "k1", "secret": "plaintext", "label": "spring"},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "AUDIT_EVENT", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "audit", line["component"])
	assert.Equal(t, TypeKeyIssued, line["audit_type"])
	assert.Equal(t, "2026-01-02T03:04:05Z", line["timestamp"])

	meta := line["metadata"].(map[string]any)
	assert.Equal(t, "k1", meta["key_id"])
	assert.Equal(t, "spring", meta["label"])
	assert.Equal(t, "[REDACTED]", meta["secret"])
	assert.NotContains(t, buf.String(), "plaintext")
}

func TestSlogLogger_AccessDeniedIsWarning(t *testing.T) {
	buf := captureDefault(t)

	NewSlogLogger().Log(context.Background(), Event{
		Type:      TypeAccessDenied,
		TenantID:  "acme",
		ActorID:   "user-1",
		Resource:  "tenant_header",
		IPAddress: "203.0.113.7",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "acme", line["tenant_id"])
	assert.Equal(t, "203.0.113.7", line["ip_address"])
	assert.NotContains(t, line, "record_id")
}
