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
	"math"
	"time"
)

// InvoiceItem is one billed line.
type InvoiceItem struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Amount      float64 `json:"amount"`
}

// Invoice bills a client. Subtotal is derived from Items. Total is computed by
// the database as subtotal + tax and is never written.
type Invoice struct {
	Record
	Number    string        `json:"number" db:"number"`
	ClientID  string        `json:"client_id" db:"client_id"`
	ProjectID *string       `json:"project_id,omitempty" db:"project_id"`
	Status    string        `json:"status" db:"status"`
	IssueDate time.Time     `json:"issue_date" db:"issue_date"`
	DueDate   *time.Time    `json:"due_date,omitempty" db:"due_date"`
	Items     []InvoiceItem `json:"items" db:"items"`
	Subtotal  float64       `json:"subtotal" db:"subtotal"`
	Tax       float64       `json:"tax" db:"tax"`
	Total     float64       `json:"total" db:"total"`
	Currency  string        `json:"currency" db:"currency"`
	Notes     *string       `json:"notes,omitempty" db:"notes"`
}

type InvoiceInput struct {
	Number    *string       `json:"number" validate:"omitnil,min=1,max=50"`
	ClientID  *string       `json:"client_id" validate:"omitempty,max=64"`
	ProjectID *string       `json:"project_id" validate:"omitempty,max=64"`
	Status    *string       `json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	IssueDate *time.Time    `json:"issue_date"`
	DueDate   *time.Time    `json:"due_date"`
	Items     []InvoiceItem `json:"items" validate:"omitempty,max=200,dive"`
	Tax       *float64      `json:"tax" validate:"omitempty,gte=0"`
	Currency  *string       `json:"currency" validate:"omitempty,len=3,uppercase"`
	Notes     *string       `json:"notes" validate:"omitempty,max=10000"`

	subtotal *float64
}

// Normalize recomputes line amounts and the subtotal when items are present.
func (in *InvoiceInput) Normalize() {
	if in.Items == nil {
		return
	}
	var subtotal float64
	for i := range in.Items {
		in.Items[i].Amount = round2(in.Items[i].Quantity * in.Items[i].Rate)
		subtotal += in.Items[i].Amount
	}
	subtotal = round2(subtotal)
	in.subtotal = &subtotal
}

func (in *InvoiceInput) Values() Values {
	v := Values{}
	put(v, "number", in.Number)
	put(v, "client_id", in.ClientID)
	put(v, "project_id", in.ProjectID)
	put(v, "status", in.Status)
	put(v, "issue_date", in.IssueDate)
	put(v, "due_date", in.DueDate)
	putSlice(v, "items", in.Items)
	put(v, "subtotal", in.subtotal)
	put(v, "tax", in.Tax)
	put(v, "currency", in.Currency)
	put(v, "notes", in.Notes)
	return v
}

func (in *InvoiceInput) CheckCreate() error {
	var fields []string
	if blank(in.Number) {
		fields = append(fields, "number")
	}
	if blank(in.ClientID) {
		fields = append(fields, "client_id")
	}
	return missing(fields...)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
