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
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrTenantExists    = errors.New("tenant schema already claimed")
	ErrTenantSuspended = errors.New("tenant suspended")
	ErrKeyNotFound     = errors.New("registration key not found")
	ErrKeyExpired      = errors.New("registration key expired")
	ErrKeyExhausted    = errors.New("registration key has no uses left")
	ErrKeyRevoked      = errors.New("registration key revoked")
)

type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)
	Delete(ctx context.Context, id string) error
}

type KeyRepository interface {
	Create(ctx context.Context, key *RegistrationKey) error
	GetByID(ctx context.Context, id string) (*RegistrationKey, error)
	List(ctx context.Context) ([]*RegistrationKey, error)
	// Consume atomically increments the use count if the key is still usable.
	Consume(ctx context.Context, id string) error
	// Release gives back one use taken by Consume.
	Release(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string) error
}

// Provisioner creates the schema and resource tables of a newly created tenant.
type Provisioner interface {
	Provision(ctx context.Context, tenantID string) error
}
