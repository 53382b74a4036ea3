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
	"fmt"

	"github.com/lexdesk/lexdesk/internal/practice"
)

// SchemaEnsurer creates a table inside a tenant schema.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context, tenantID string) error
}

// Provisioner implements tenant.Provisioner by ensuring every resource table.
type Provisioner struct {
	tables []SchemaEnsurer
}

func NewProvisioner(tables ...SchemaEnsurer) *Provisioner {
	return &Provisioner{tables: tables}
}

// Provision creates the schema of tenantID and all of its tables.
func (p *Provisioner) Provision(ctx context.Context, tenantID string) error {
	for _, t := range p.tables {
		if err := t.EnsureSchema(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to provision tenant %s: %w", tenantID, err)
		}
	}
	return nil
}

// Tables groups the resource repositories of a tenant schema.
type Tables struct {
	Clients       *Table[practice.Client]
	Projects      *Table[practice.Project]
	Tasks         *Table[practice.Task]
	Transactions  *Table[practice.Transaction]
	Invoices      *Table[practice.Invoice]
	Notifications *Table[practice.Notification]
}

func NewTables(router *Router) *Tables {
	return &Tables{
		Clients:       NewTable[practice.Client](router, Clients),
		Projects:      NewTable[practice.Project](router, Projects),
		Tasks:         NewTable[practice.Task](router, Tasks),
		Transactions:  NewTable[practice.Transaction](router, Transactions),
		Invoices:      NewTable[practice.Invoice](router, Invoices),
		Notifications: NewTable[practice.Notification](router, Notifications),
	}
}

// Provisioner returns a provisioner over every table in t.
func (t *Tables) Provisioner() *Provisioner {
	return NewProvisioner(t.Clients, t.Projects, t.Tasks, t.Transactions, t.Invoices, t.Notifications)
}
