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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lexdesk/lexdesk/internal/tenant"
)

const keyColumns = `id, label, secret_hash, max_uses, uses, expires_at, created_by, created_at, revoked_at`

// KeyRepository implements tenant.KeyRepository
type KeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewKeyRepository creates a new registration key repository
func NewKeyRepository(db *DB) *KeyRepository {
	return &KeyRepository{db: db, now: time.Now}
}

func scanKey(row pgx.Row) (*tenant.RegistrationKey, error) {
	var k tenant.RegistrationKey
	err := row.Scan(&k.ID, &k.Label, &k.SecretHash, &k.MaxUses, &k.Uses, &k.ExpiresAt, &k.CreatedBy, &k.CreatedAt, &k.RevokedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Create stores a new key
func (r *KeyRepository) Create(ctx context.Context, key *tenant.RegistrationKey) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO public.registration_keys (
			id, label, secret_hash, max_uses, uses, expires_at, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		key.ID, key.Label, key.SecretHash, key.MaxUses, key.Uses, key.ExpiresAt, key.CreatedBy, key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create registration key: %w", err)
	}
	return nil
}

// GetByID retrieves a key by ID
func (r *KeyRepository) GetByID(ctx context.Context, id string) (*tenant.RegistrationKey, error) {
	k, err := scanKey(r.db.pool.QueryRow(ctx, `
		SELECT `+keyColumns+`
		FROM public.registration_keys
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenant.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get registration key: %w", err)
	}
	return k, nil
}

// List returns all keys, newest first
func (r *KeyRepository) List(ctx context.Context) ([]*tenant.RegistrationKey, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+keyColumns+`
		FROM public.registration_keys
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list registration keys: %w", err)
	}
	defer rows.Close()

	var keys []*tenant.RegistrationKey
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list registration keys: %w", err)
	}
	return keys, nil
}

// Consume increments the use count of a key that is still usable. Two
// concurrent redemptions of a single-use key cannot both succeed.
func (r *KeyRepository) Consume(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE public.registration_keys
		SET uses = uses + 1
		WHERE id = $1
		  AND revoked_at IS NULL
		  AND (expires_at IS NULL OR expires_at > $2)
		  AND (max_uses = 0 OR uses < max_uses)
	`, id, r.now())
	if err != nil {
		return fmt.Errorf("failed to consume registration key: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	k, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := k.Usable(r.now()); err != nil {
		return err
	}
	return tenant.ErrKeyExhausted
}

// Release undoes one Consume. The use count never drops below zero.
func (r *KeyRepository) Release(ctx context.Context, id string) error {
	if _, err := r.db.pool.Exec(ctx, `
		UPDATE public.registration_keys
		SET uses = uses - 1
		WHERE id = $1 AND uses > 0
	`, id); err != nil {
		return fmt.Errorf("failed to release registration key: %w", err)
	}
	return nil
}

// Revoke marks a key revoked; revoking twice keeps the first timestamp
func (r *KeyRepository) Revoke(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE public.registration_keys
		SET revoked_at = COALESCE(revoked_at, NOW())
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke registration key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrKeyNotFound
	}
	return nil
}
