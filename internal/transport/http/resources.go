package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexdesk/lexdesk/internal/practice"
)

// PracticeServices bundles the resource services exposed over HTTP.
type PracticeServices struct {
	Clients       *practice.Service[practice.Client]
	Projects      *practice.Service[practice.Project]
	Tasks         *practice.Service[practice.Task]
	Transactions  *practice.Service[practice.Transaction]
	Invoices      *practice.Service[practice.Invoice]
	Notifications *practice.Service[practice.Notification]
}

// Resources returns the route sets of every practice collection.
func (s PracticeServices) Resources() []ResourceRoutes {
	return []ResourceRoutes{
		NewResource("clients", s.Clients, func() practice.Input { return &practice.ClientInput{} }),
		NewResource("projects", s.Projects, func() practice.Input { return &practice.ProjectInput{} }, "client_id"),
		NewResource("tasks", s.Tasks, func() practice.Input { return &practice.TaskInput{} }, "project_id", "client_id", "assigned_to"),
		NewResource("transactions", s.Transactions, func() practice.Input { return &practice.TransactionInput{} }, "type", "client_id", "project_id", "invoice_id"),
		NewResource("invoices", s.Invoices, func() practice.Input { return &practice.InvoiceInput{} }, "client_id", "project_id"),
		NewNotificationResource(s.Notifications),
	}
}

// NewNotificationResource adds the mark-as-read route to the notification
// collection.
func NewNotificationResource(svc *practice.Service[practice.Notification]) *Resource[practice.Notification] {
	res := NewResource("notifications", svc, func() practice.Input { return &practice.NotificationInput{} }, "user_id", "type")
	res.extra = func(r chi.Router) {
		r.Post("/read", func(w http.ResponseWriter, r *http.Request) {
			n, err := practice.MarkRead(r.Context(), svc, GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "id"))
			if err != nil {
				respondServiceError(w, r, err, "mark notification read")
				return
			}
			respondJSON(w, http.StatusOK, n)
		})
	}
	return res
}
