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

// Stat is one aggregate reported by Table.Stats. Expr is evaluated over the
// filtered active rows.
type Stat struct {
	Name string
	Expr string
}

// Entity describes a resource table inside a tenant schema. Column names are
// trusted; only Writable columns accept caller values.
type Entity struct {
	Kind  string
	Table string
	// Columns lists every selected column, matching the db tags of the row type.
	Columns  []string
	Writable []string
	// DDL statements reference the tenant schema as ${schema}.
	DDL    []string
	Search []string
	Status string
	Tags   string
	Date   string
	Refs   []string
	Stats  []Stat
}

var recordColumns = []string{"id", "created_by", "created_at", "updated_at", "is_active"}

const recordDDL = `
    id         TEXT PRIMARY KEY,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active  BOOLEAN NOT NULL DEFAULT TRUE`

func columns(writable ...string) []string {
	return append(append([]string{}, recordColumns...), writable...)
}

func count(name, filter string) Stat {
	return Stat{Name: name, Expr: "COUNT(*) FILTER (WHERE " + filter + ")"}
}

var clientWritable = []string{"name", "email", "phone", "company", "client_type", "status", "address", "tags", "notes"}

// Clients is the clients table.
var Clients = Entity{
	Kind:     "client",
	Table:    "clients",
	Columns:  columns(clientWritable...),
	Writable: clientWritable,
	DDL: []string{
		`CREATE TABLE IF NOT EXISTS ${schema}.clients (` + recordDDL + `,
    name        TEXT NOT NULL,
    email       TEXT,
    phone       TEXT,
    company     TEXT,
    client_type TEXT NOT NULL DEFAULT 'individual',
    status      TEXT NOT NULL DEFAULT 'active',
    address     JSONB,
    tags        JSONB NOT NULL DEFAULT '[]'::jsonb,
    notes       TEXT
)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_status ON ${schema}.clients (status) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_clients_created ON ${schema}.clients (created_at DESC, id DESC)`,
	},
	Search: []string{"name", "email", "company"},
	Status: "status",
	Tags:   "tags",
	Date:   "created_at",
	Stats: []Stat{
		{Name: "total", Expr: "COUNT(*)"},
		count("active", "status = 'active'"),
		count("inactive", "status = 'inactive'"),
		count("prospect", "status = 'prospect'"),
		count("business", "client_type = 'business'"),
		count("individual", "client_type = 'individual'"),
	},
}

var projectWritable = []string{"title", "description", "client_id", "status", "priority", "start_date", "due_date", "budget", "tags"}

// Projects is the projects table.
var Projects = Entity{
	Kind:     "project",
	Table:    "projects",
	Columns:  columns(projectWritable...),
	Writable: projectWritable,
	DDL: []string{
		`CREATE TABLE IF NOT EXISTS ${schema}.projects (` + recordDDL + `,
    title       TEXT NOT NULL,
    description TEXT,
    client_id   TEXT,
    status      TEXT NOT NULL DEFAULT 'planning',
    priority    TEXT NOT NULL DEFAULT 'medium',
    start_date  DATE,
    due_date    DATE,
    budget      NUMERIC(14,2),
    tags        JSONB NOT NULL DEFAULT '[]'::jsonb
)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_client ON ${schema}.projects (client_id) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_projects_created ON ${schema}.projects (created_at DESC, id DESC)`,
	},
	Search: []string{"title", "description"},
	Status: "status",
	Tags:   "tags",
	Date:   "due_date",
	Refs:   []string{"client_id"},
	Stats: []Stat{
		{Name: "total", Expr: "COUNT(*)"},
		count("planning", "status = 'planning'"),
		count("active", "status = 'active'"),
		count("on_hold", "status = 'on_hold'"),
		count("completed", "status = 'completed'"),
		count("cancelled", "status = 'cancelled'"),
		count("overdue", "due_date < CURRENT_DATE AND status NOT IN ('completed', 'cancelled')"),
		{Name: "total_budget", Expr: "SUM(budget)"},
	},
}

var taskWritable = []string{"title", "description", "project_id", "client_id", "status", "priority", "assigned_to", "due_date", "estimated_hours", "subtasks", "tags"}

// Tasks is the tasks table.
var Tasks = Entity{
	Kind:     "task",
	Table:    "tasks",
	Columns:  columns(taskWritable...),
	Writable: taskWritable,
	DDL: []string{
		`CREATE TABLE IF NOT EXISTS ${schema}.tasks (` + recordDDL + `,
    title           TEXT NOT NULL,
    description     TEXT,
    project_id      TEXT,
    client_id       TEXT,
    status          TEXT NOT NULL DEFAULT 'todo',
    priority        TEXT NOT NULL DEFAULT 'medium',
    assigned_to     TEXT,
    due_date        DATE,
    estimated_hours NUMERIC(8,2),
    subtasks        JSONB NOT NULL DEFAULT '[]'::jsonb,
    tags            JSONB NOT NULL DEFAULT '[]'::jsonb
)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON ${schema}.tasks (project_id) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created ON ${schema}.tasks (created_at DESC, id DESC)`,
	},
	Search: []string{"title", "description"},
	Status: "status",
	Tags:   "tags",
	Date:   "due_date",
	Refs:   []string{"project_id", "client_id", "assigned_to"},
	Stats: []Stat{
		{Name: "total", Expr: "COUNT(*)"},
		count("todo", "status = 'todo'"),
		count("in_progress", "status = 'in_progress'"),
		count("review", "status = 'review'"),
		count("done", "status = 'done'"),
		count("overdue", "due_date < CURRENT_DATE AND status <> 'done'"),
		{Name: "estimated_hours", Expr: "SUM(estimated_hours)"},
	},
}

var transactionWritable = []string{"type", "category", "amount", "currency", "description", "date", "client_id", "project_id", "invoice_id", "payment_method", "status", "tags"}

// Transactions is the transactions table.
var Transactions = Entity{
	Kind:     "transaction",
	Table:    "transactions",
	Columns:  columns(transactionWritable...),
	Writable: transactionWritable,
	DDL: []string{
		`CREATE TABLE IF NOT EXISTS ${schema}.transactions (` + recordDDL + `,
    type           TEXT NOT NULL,
    category       TEXT NOT NULL,
    amount         NUMERIC(14,2) NOT NULL,
    currency       TEXT NOT NULL DEFAULT 'USD',
    description    TEXT,
    date           DATE NOT NULL DEFAULT CURRENT_DATE,
    client_id      TEXT,
    project_id     TEXT,
    invoice_id     TEXT,
    payment_method TEXT,
    status         TEXT NOT NULL DEFAULT 'completed',
    tags           JSONB NOT NULL DEFAULT '[]'::jsonb
)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON ${schema}.transactions (date) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created ON ${schema}.transactions (created_at DESC, id DESC)`,
	},
	Search: []string{"category", "description"},
	Status: "status",
	Tags:   "tags",
	Date:   "date",
	Refs:   []string{"type", "client_id", "project_id", "invoice_id"},
	Stats: []Stat{
		{Name: "total", Expr: "COUNT(*)"},
		{Name: "income", Expr: "SUM(amount) FILTER (WHERE type = 'income' AND status = 'completed')"},
		{Name: "expenses", Expr: "SUM(amount) FILTER (WHERE type = 'expense' AND status = 'completed')"},
		{Name: "net", Expr: "SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END) FILTER (WHERE status = 'completed')"},
		count("pending", "status = 'pending'"),
	},
}

var invoiceWritable = []string{"number", "client_id", "project_id", "status", "issue_date", "due_date", "items", "subtotal", "tax", "currency", "notes"}

// Invoices is the invoices table. Total is a generated column, so partial
// updates of items or tax keep total = subtotal + tax.
var Invoices = Entity{
	Kind:     "invoice",
	Table:    "invoices",
	Columns:  append(columns(invoiceWritable...), "total"),
	Writable: invoiceWritable,
	DDL: []string{
		`CREATE TABLE IF NOT EXISTS ${schema}.invoices (` + recordDDL + `,
    number     TEXT NOT NULL,
    client_id  TEXT NOT NULL,
    project_id TEXT,
    status     TEXT NOT NULL DEFAULT 'draft',
    issue_date DATE NOT NULL DEFAULT CURRENT_DATE,
    due_date   DATE,
    items      JSONB NOT NULL DEFAULT '[]'::jsonb,
    subtotal   NUMERIC(14,2) NOT NULL DEFAULT 0,
    tax        NUMERIC(14,2) NOT NULL DEFAULT 0,
    total      NUMERIC(14,2) GENERATED ALWAYS AS (subtotal + tax) STORED,
    currency   TEXT NOT NULL DEFAULT 'USD',
    notes      TEXT
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number ON ${schema}.invoices (number) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_created ON ${schema}.invoices (created_at DESC, id DESC)`,
	},
	Search: []string{"number", "notes"},
	Status: "status",
	Date:   "issue_date",
	Refs:   []string{"client_id", "project_id"},
	Stats: []Stat{
		{Name: "total", Expr: "COUNT(*)"},
		count("draft", "status = 'draft'"),
		count("sent", "status = 'sent'"),
		count("paid", "status = 'paid'"),
		count("overdue", "status = 'overdue'"),
		{Name: "outstanding_amount", Expr: "SUM(total) FILTER (WHERE status IN ('sent', 'overdue'))"},
		{Name: "paid_amount", Expr: "SUM(total) FILTER (WHERE status = 'paid')"},
	},
}

var notificationWritable = []string{"user_id", "title", "message", "type", "link", "is_read"}

// Notifications is the notifications table.
var Notifications = Entity{
	Kind:     "notification",
	Table:    "notifications",
	Columns:  columns(notificationWritable...),
	Writable: notificationWritable,
	DDL: []string{
		`CREATE TABLE IF NOT EXISTS ${schema}.notifications (` + recordDDL + `,
    user_id TEXT NOT NULL,
    title   TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    type    TEXT NOT NULL DEFAULT 'info',
    link    TEXT,
    is_read BOOLEAN NOT NULL DEFAULT FALSE
)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON ${schema}.notifications (user_id, is_read) WHERE is_active`,
	},
	Search: []string{"title", "message"},
	Date:   "created_at",
	Refs:   []string{"user_id", "type"},
	Stats: []Stat{
		{Name: "total", Expr: "COUNT(*)"},
		count("unread", "NOT is_read"),
	},
}

// Entities lists every resource table provisioned for a tenant.
var Entities = []Entity{Clients, Projects, Tasks, Transactions, Invoices, Notifications}
