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

// Address is a postal address stored as JSONB.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Client is a person or organization the practice works for.
type Client struct {
	Record
	Name       string   `json:"name" db:"name"`
	Email      *string  `json:"email,omitempty" db:"email"`
	Phone      *string  `json:"phone,omitempty" db:"phone"`
	Company    *string  `json:"company,omitempty" db:"company"`
	ClientType string   `json:"client_type" db:"client_type"`
	Status     string   `json:"status" db:"status"`
	Address    *Address `json:"address,omitempty" db:"address"`
	Tags       []string `json:"tags" db:"tags"`
	Notes      *string  `json:"notes,omitempty" db:"notes"`
}

// ClientInput is the writable subset of Client.
type ClientInput struct {
	Name       *string  `json:"name" validate:"omitnil,min=1,max=200"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	Company    *string  `json:"company" validate:"omitempty,max=200"`
	ClientType *string  `json:"client_type" validate:"omitempty,oneof=individual business"`
	Status     *string  `json:"status" validate:"omitempty,oneof=active inactive prospect"`
	Address    *Address `json:"address"`
	Tags       []string `json:"tags" validate:"omitempty,max=50,dive,min=1,max=50"`
	Notes      *string  `json:"notes" validate:"omitempty,max=10000"`
}

func (in *ClientInput) Values() Values {
	v := Values{}
	put(v, "name", in.Name)
	put(v, "email", in.Email)
	put(v, "phone", in.Phone)
	put(v, "company", in.Company)
	put(v, "client_type", in.ClientType)
	put(v, "status", in.Status)
	if in.Address != nil {
		v["address"] = in.Address
	}
	putSlice(v, "tags", in.Tags)
	put(v, "notes", in.Notes)
	return v
}

func (in *ClientInput) CheckCreate() error {
	if blank(in.Name) {
		return missing("name")
	}
	return nil
}
