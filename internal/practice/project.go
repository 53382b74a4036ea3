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

import "time"

// Project is a matter handled for a client.
type Project struct {
	Record
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	ClientID    *string    `json:"client_id,omitempty" db:"client_id"`
	Status      string     `json:"status" db:"status"`
	Priority    string     `json:"priority" db:"priority"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Budget      *float64   `json:"budget,omitempty" db:"budget"`
	Tags        []string   `json:"tags" db:"tags"`
}

type ProjectInput struct {
	Title       *string    `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	ClientID    *string    `json:"client_id" validate:"omitempty,max=64"`
	Status      *string    `json:"status" validate:"omitempty,oneof=planning active on_hold completed cancelled"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Budget      *float64   `json:"budget" validate:"omitempty,gte=0"`
	Tags        []string   `json:"tags" validate:"omitempty,max=50,dive,min=1,max=50"`
}

func (in *ProjectInput) Values() Values {
	v := Values{}
	put(v, "title", in.Title)
	put(v, "description", in.Description)
	put(v, "client_id", in.ClientID)
	put(v, "status", in.Status)
	put(v, "priority", in.Priority)
	put(v, "start_date", in.StartDate)
	put(v, "due_date", in.DueDate)
	put(v, "budget", in.Budget)
	putSlice(v, "tags", in.Tags)
	return v
}

func (in *ProjectInput) CheckCreate() error {
	if blank(in.Title) {
		return missing("title")
	}
	return nil
}
