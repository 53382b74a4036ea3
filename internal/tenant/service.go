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

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/lexdesk/lexdesk/internal/id"
	"github.com/lexdesk/lexdesk/internal/observability/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo        Repository
	keyRepo     KeyRepository
	hasher      *KeyHasher
	provisioner Provisioner
	auditLogger audit.Logger
	now         func() time.Time
}

func NewService(repo Repository, keyRepo KeyRepository, hasher *KeyHasher, provisioner Provisioner, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		keyRepo:     keyRepo,
		hasher:      hasher,
		provisioner: provisioner,
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

// CreateTenant registers a tenant and provisions its schema. When
// provisioning fails the control-plane row is removed again, so no tenant
// is left that cannot serve requests.
func (s *Service) CreateTenant(ctx context.Context, name, actorID string) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}

	tenantID := id.NewUUIDv7()
	schema, err := SchemaName(tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &Tenant{
		ID:        tenantID,
		Name:      name,
		Schema:    schema,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, ErrTenantExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	if err := s.provisioner.Provision(ctx, t.ID); err != nil {
		if delErr := s.repo.Delete(ctx, t.ID); delErr != nil {
			slog.ErrorContext(ctx, "failed to remove unprovisioned tenant",
				logger.TenantID(t.ID),
				logger.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to provision tenant schema: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: t.ID,
		ActorID:  actorID,
		Resource: "tenant",
		Metadata: map[string]any{"name": name, "schema": schema},
	})

	return t, nil
}

func (s *Service) GetTenant(ctx context.Context, tenantID string) (*Tenant, error) {
	if _, err := Validate(tenantID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, tenantID)
}

// EnsureActive fails unless the tenant exists and is not suspended.
func (s *Service) EnsureActive(ctx context.Context, tenantID string) error {
	t, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if t.Status != StatusActive {
		return ErrTenantSuspended
	}
	return nil
}

func (s *Service) ListTenants(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SuspendTenant(ctx context.Context, tenantID, actorID string) error {
	if _, err := Validate(tenantID); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, tenantID, StatusSuspended); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantSuspended,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: "tenant",
	})
	return nil
}

// IssueRegistrationKey creates a key and returns its plaintext form.
// The plaintext cannot be recovered later.
func (s *Service) IssueRegistrationKey(ctx context.Context, label string, maxUses int, ttl time.Duration, actorID string) (string, *RegistrationKey, error) {
	if maxUses < 0 {
		return "", nil, fmt.Errorf("max uses must not be negative")
	}

	secret, err := newKeySecret()
	if err != nil {
		return "", nil, err
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash registration key: %w", err)
	}

	now := s.now()
	key := &RegistrationKey{
		ID:         id.NewUUIDv7(),
		Label:      label,
		SecretHash: hash,
		MaxUses:    maxUses,
		CreatedBy:  actorID,
		CreatedAt:  now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		key.ExpiresAt = &exp
	}

	if err := s.keyRepo.Create(ctx, key); err != nil {
		return "", nil, fmt.Errorf("failed to store registration key: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeKeyIssued,
		ActorID:  actorID,
		Resource: "registration_key",
		Metadata: map[string]any{"key_id": key.ID, "label": label, "max_uses": maxUses},
	})

	return formatKey(key.ID, secret), key, nil
}

func (s *Service) ListRegistrationKeys(ctx context.Context) ([]*RegistrationKey, error) {
	return s.keyRepo.List(ctx)
}

func (s *Service) RevokeRegistrationKey(ctx context.Context, keyID, actorID string) error {
	if err := s.keyRepo.Revoke(ctx, keyID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeKeyRevoked,
		ActorID:  actorID,
		Resource: "registration_key",
		Metadata: map[string]any{"key_id": keyID},
	})
	return nil
}

// Register redeems a registration key and creates the tenant it pays for.
// The key use is reserved first and given back if the tenant cannot be
// created.
func (s *Service) Register(ctx context.Context, plaintext, tenantName string) (*Tenant, error) {
	keyID, secret, ok := parseKey(plaintext)
	if !ok {
		return nil, ErrKeyNotFound
	}

	key, err := s.keyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}

	valid, err := s.hasher.Verify(secret, key.SecretHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify registration key: %w", err)
	}
	if !valid {
		// Same answer as an unknown key.
		return nil, ErrKeyNotFound
	}

	if err := key.Usable(s.now()); err != nil {
		return nil, err
	}
	if err := s.keyRepo.Consume(ctx, key.ID); err != nil {
		return nil, err
	}

	t, err := s.CreateTenant(ctx, tenantName, "registration_key:"+key.ID)
	if err != nil {
		if relErr := s.keyRepo.Release(ctx, key.ID); relErr != nil {
			slog.ErrorContext(ctx, "failed to release registration key use",
				logger.Operation("register"),
				logger.Error(relErr),
			)
		}
		return nil, err
	}
	return t, nil
}
