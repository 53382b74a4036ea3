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
	"time"
)

// Tenant is an isolated customer organization whose data lives in its own schema.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Schema    string    `json:"schema"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// RegistrationKey allows a new organization to sign up without an operator.
// Only the hash of the secret part is ever stored.
type RegistrationKey struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	SecretHash string     `json:"-"`
	MaxUses    int        `json:"max_uses"`
	Uses       int        `json:"uses"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// Usable reports whether the key can still be redeemed at the given time.
func (k *RegistrationKey) Usable(now time.Time) error {
	switch {
	case k.RevokedAt != nil:
		return ErrKeyRevoked
	case k.ExpiresAt != nil && now.After(*k.ExpiresAt):
		return ErrKeyExpired
	case k.MaxUses > 0 && k.Uses >= k.MaxUses:
		return ErrKeyExhausted
	}
	return nil
}
