// Copyright 2026 The LexDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/lexdesk/lexdesk/internal/observability/logger"
)

// Event types
const (
	TypeTenantCreated   = "tenant_created"
	TypeTenantSuspended = "tenant_suspended"
	TypeKeyIssued       = "registration_key_issued"
	TypeKeyRevoked      = "registration_key_revoked"
	TypeRecordCreated   = "record_created"
	TypeRecordUpdated   = "record_updated"
	TypeRecordDeleted   = "record_deleted"
	TypeAccessDenied    = "access_denied"
)

// Event is one auditable action. TenantID is empty for platform-level actions.
type Event struct {
	Type      string
	TenantID  string
	ActorID   string
	Resource  string
	RecordID  string
	Metadata  map[string]any
	Timestamp time.Time
	IPAddress string
	UserAgent string
}

// Logger records audit events
type Logger interface {
	Log(ctx context.Context, event Event)
}

// SlogLogger writes audit events to the default slog logger
type SlogLogger struct {
	now func() time.Time
}

func NewSlogLogger() *SlogLogger {
	return &SlogLogger{now: time.Now}
}

// Log records an audit event. Metadata values under secret-looking keys are
// replaced before they reach the log.
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}

	attrs := []any{
		logger.Component("audit"),
		slog.String("audit_type", event.Type),
		logger.TenantID(event.TenantID),
		slog.String("actor_id", event.ActorID),
		logger.Resource(event.Resource),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.RecordID != "" {
		attrs = append(attrs, logger.RecordID(event.RecordID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, logger.UserAgent(event.UserAgent))
	}

	if len(event.Metadata) > 0 {
		group := make([]any, 0, len(event.Metadata))
		for _, k := range slices.Sorted(maps.Keys(event.Metadata)) {
			v := event.Metadata[k]
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	level := slog.LevelInfo
	if event.Type == TypeAccessDenied {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "AUDIT_EVENT", attrs...)
}

// isSecret checks if a metadata key likely holds a secret
func isSecret(key string) bool {
	k := strings.ToLower(key)
	if k == "key_id" {
		return false
	}
	for _, s := range []string{"password", "secret", "token", "key", "hash", "credential", "authorization"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
