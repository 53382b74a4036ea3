package practice

import "time"

// Transaction is an income or expense entry in the practice ledger.
type Transaction struct {
	Record
	Type          string    `json:"type" db:"type"`
	Category      string    `json:"category" db:"category"`
	Amount        float64   `json:"amount" db:"amount"`
	Currency      string    `json:"currency" db:"currency"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Date          time.Time `json:"date" db:"date"`
	ClientID      *string   `json:"client_id,omitempty" db:"client_id"`
	ProjectID     *string   `json:"project_id,omitempty" db:"project_id"`
	InvoiceID     *string   `json:"invoice_id,omitempty" db:"invoice_id"`
	PaymentMethod *string   `json:"payment_method,omitempty" db:"payment_method"`
	Status        string    `json:"status" db:"status"`
	Tags          []string  `json:"tags" db:"tags"`
}

type TransactionInput struct {
	Type          *string    `json:"type" validate:"omitempty,oneof=income expense"`
	Category      *string    `json:"category" validate:"omitnil,min=1,max=100"`
	Amount        *float64   `json:"amount" validate:"omitempty,gte=0"`
	Currency      *string    `json:"currency" validate:"omitempty,len=3,uppercase"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	Date          *time.Time `json:"date"`
	ClientID      *string    `json:"client_id" validate:"omitempty,max=64"`
	ProjectID     *string    `json:"project_id" validate:"omitempty,max=64"`
	InvoiceID     *string    `json:"invoice_id" validate:"omitempty,max=64"`
	PaymentMethod *string    `json:"payment_method" validate:"omitempty,max=50"`
	Status        *string    `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Tags          []string   `json:"tags" validate:"omitempty,max=50,dive,min=1,max=50"`
}

func (in *TransactionInput) Values() Values {
	v := Values{}
	put(v, "type", in.Type)
	put(v, "category", in.Category)
	put(v, "amount", in.Amount)
	put(v, "currency", in.Currency)
	put(v, "description", in.Description)
	put(v, "date", in.Date)
	put(v, "client_id", in.ClientID)
	put(v, "project_id", in.ProjectID)
	put(v, "invoice_id", in.InvoiceID)
	put(v, "payment_method", in.PaymentMethod)
	put(v, "status", in.Status)
	putSlice(v, "tags", in.Tags)
	return v
}

func (in *TransactionInput) CheckCreate() error {
	var fields []string
	if blank(in.Type) {
		fields = append(fields, "type")
	}
	if blank(in.Category) {
		fields = append(fields, "category")
	}
	if in.Amount == nil {
		fields = append(fields, "amount")
	}
	return missing(fields...)
}
