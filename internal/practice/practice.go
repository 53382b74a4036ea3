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

// Package practice holds the tenant-scoped resources of a legal practice:
// clients, projects, tasks, transactions, invoices and notifications.
package practice

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrInvalidInput     = errors.New("invalid input")
)

// Values maps column names to the values written for them.
type Values map[string]any

// Stats maps aggregate names to their values.
type Stats map[string]float64

// Record carries the bookkeeping columns shared by every resource table.
type Record struct {
	ID        string    `json:"id" db:"id"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	IsActive  bool      `json:"-" db:"is_active"`
}

// Input is a partial payload. Nil fields are absent.
type Input interface {
	// Values returns only the fields that are present.
	Values() Values
	// CheckCreate reports missing fields required to create a record.
	CheckCreate() error
}

// Normalizer is implemented by inputs that derive fields before writing.
type Normalizer interface {
	Normalize()
}

// Repository is the storage contract of one resource kind inside a tenant schema.
type Repository[T any] interface {
	EnsureSchema(ctx context.Context, tenantID string) error
	List(ctx context.Context, tenantID string, filter ListFilter) (*Page[T], error)
	GetByID(ctx context.Context, tenantID, id string) (*T, error)
	Create(ctx context.Context, tenantID, id, createdBy string, values Values) (*T, error)
	Update(ctx context.Context, tenantID, id string, values Values) (*T, error)
	SoftDelete(ctx context.Context, tenantID, id string) error
	Stats(ctx context.Context, tenantID string, filter ListFilter) (Stats, error)
}
