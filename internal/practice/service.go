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

package practice

import (
	"context"
	"fmt"

	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/lexdesk/lexdesk/internal/id"
)

// Service exposes the operations of one resource kind.
type Service[T any] struct {
	kind        string
	repo        Repository[T]
	auditLogger audit.Logger
}

// NewService creates a service for records of the given kind. Kind doubles as
// the record ID prefix.
func NewService[T any](kind string, repo Repository[T], auditLogger audit.Logger) *Service[T] {
	return &Service[T]{
		kind:        kind,
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// Kind returns the resource kind served.
func (s *Service[T]) Kind() string {
	return s.kind
}

// EnsureSchema creates the backing table inside the tenant schema.
func (s *Service[T]) EnsureSchema(ctx context.Context, tenantID string) error {
	return s.repo.EnsureSchema(ctx, tenantID)
}

// List returns one page of active records.
func (s *Service[T]) List(ctx context.Context, tenantID string, filter ListFilter) (*Page[T], error) {
	return s.repo.List(ctx, tenantID, filter)
}

// Get returns an active record by ID.
func (s *Service[T]) Get(ctx context.Context, tenantID, recordID string) (*T, error) {
	return s.repo.GetByID(ctx, tenantID, recordID)
}

// Create validates and stores a new record attributed to actorID.
func (s *Service[T]) Create(ctx context.Context, tenantID, actorID string, in Input) (*T, error) {
	if n, ok := in.(Normalizer); ok {
		n.Normalize()
	}
	if err := in.CheckCreate(); err != nil {
		return nil, err
	}

	recordID := id.NewResourceID(s.kind)
	rec, err := s.repo.Create(ctx, tenantID, recordID, actorID, in.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}

	s.audit(ctx, audit.TypeRecordCreated, tenantID, actorID, recordID)
	return rec, nil
}

// Update applies the present fields of in to an existing record.
func (s *Service[T]) Update(ctx context.Context, tenantID, actorID, recordID string, in Input) (*T, error) {
	if n, ok := in.(Normalizer); ok {
		n.Normalize()
	}
	values := in.Values()
	if len(values) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	rec, err := s.repo.Update(ctx, tenantID, recordID, values)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, audit.TypeRecordUpdated, tenantID, actorID, recordID)
	return rec, nil
}

// Delete soft-deletes a record.
func (s *Service[T]) Delete(ctx context.Context, tenantID, actorID, recordID string) error {
	if err := s.repo.SoftDelete(ctx, tenantID, recordID); err != nil {
		return err
	}
	s.audit(ctx, audit.TypeRecordDeleted, tenantID, actorID, recordID)
	return nil
}

// Stats returns aggregates over the active records matching filter.
func (s *Service[T]) Stats(ctx context.Context, tenantID string, filter ListFilter) (Stats, error) {
	return s.repo.Stats(ctx, tenantID, filter)
}

func (s *Service[T]) audit(ctx context.Context, eventType, tenantID, actorID, recordID string) {
	if s.auditLogger == nil {
		return
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     eventType,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: s.kind,
		RecordID: recordID,
	})
}

func missing(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing required fields %v", ErrInvalidInput, fields)
}
