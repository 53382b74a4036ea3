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

// Subtask is a checklist entry embedded in a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task is a unit of work, optionally attached to a project or client.
type Task struct {
	Record
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description,omitempty" db:"description"`
	ProjectID      *string    `json:"project_id,omitempty" db:"project_id"`
	ClientID       *string    `json:"client_id,omitempty" db:"client_id"`
	Status         string     `json:"status" db:"status"`
	Priority       string     `json:"priority" db:"priority"`
	AssignedTo     *string    `json:"assigned_to,omitempty" db:"assigned_to"`
	DueDate        *time.Time `json:"due_date,omitempty" db:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty" db:"estimated_hours"`
	Subtasks       []Subtask  `json:"subtasks" db:"subtasks"`
	Tags           []string   `json:"tags" db:"tags"`
}

type TaskInput struct {
	Title          *string    `json:"title" validate:"omitnil,min=1,max=200"`
	Description    *string    `json:"description" validate:"omitempty,max=10000"`
	ProjectID      *string    `json:"project_id" validate:"omitempty,max=64"`
	ClientID       *string    `json:"client_id" validate:"omitempty,max=64"`
	Status         *string    `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo     *string    `json:"assigned_to" validate:"omitempty,max=128"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" validate:"omitempty,gte=0"`
	Subtasks       []Subtask  `json:"subtasks" validate:"omitempty,max=100"`
	Tags           []string   `json:"tags" validate:"omitempty,max=50,dive,min=1,max=50"`
}

func (in *TaskInput) Values() Values {
	v := Values{}
	put(v, "title", in.Title)
	put(v, "description", in.Description)
	put(v, "project_id", in.ProjectID)
	put(v, "client_id", in.ClientID)
	put(v, "status", in.Status)
	put(v, "priority", in.Priority)
	put(v, "assigned_to", in.AssignedTo)
	put(v, "due_date", in.DueDate)
	put(v, "estimated_hours", in.EstimatedHours)
	putSlice(v, "subtasks", in.Subtasks)
	putSlice(v, "tags", in.Tags)
	return v
}

func (in *TaskInput) CheckCreate() error {
	if blank(in.Title) {
		return missing("title")
	}
	return nil
}
