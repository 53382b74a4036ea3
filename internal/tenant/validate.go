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
	"errors"
	"strings"
)

// MaxIDLength is the longest tenant identifier accepted.
const MaxIDLength = 50

// SchemaPrefix is prepended to every tenant schema name.
const SchemaPrefix = "tenant_"

// ErrInvalidTenantID is returned for identifiers that cannot be safely
// turned into a schema name.
var ErrInvalidTenantID = errors.New("invalid tenant id")

// Validate checks a tenant identifier and returns it with hyphens removed.
//
// Only [a-zA-Z0-9-] is accepted, with a length of 1 to 50, and the
// identifier must not consist of hyphens alone.
func Validate(tenantID string) (string, error) {
	if tenantID == "" || len(tenantID) > MaxIDLength {
		return "", ErrInvalidTenantID
	}
	for i := 0; i < len(tenantID); i++ {
		c := tenantID[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return "", ErrInvalidTenantID
		}
	}

	suffix := strings.ReplaceAll(tenantID, "-", "")
	if suffix == "" {
		return "", ErrInvalidTenantID
	}
	return suffix, nil
}

// SchemaName derives the PostgreSQL schema that holds a tenant's data.
// It is the only place a schema name may come from.
//
// The name is lower-cased because PostgreSQL folds unquoted identifiers.
func SchemaName(tenantID string) (string, error) {
	suffix, err := Validate(tenantID)
	if err != nil {
		return "", err
	}
	return SchemaPrefix + strings.ToLower(suffix), nil
}
