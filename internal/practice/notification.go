package practice

import "context"

// Notification is a message addressed to a user of the tenant.
type Notification struct {
	Record
	UserID  string  `json:"user_id" db:"user_id"`
	Title   string  `json:"title" db:"title"`
	Message string  `json:"message" db:"message"`
	Type    string  `json:"type" db:"type"`
	Link    *string `json:"link,omitempty" db:"link"`
	IsRead  bool    `json:"is_read" db:"is_read"`
}

type NotificationInput struct {
	UserID  *string `json:"user_id" validate:"omitempty,max=128"`
	Title   *string `json:"title" validate:"omitnil,min=1,max=200"`
	Message *string `json:"message" validate:"omitempty,max=5000"`
	Type    *string `json:"type" validate:"omitempty,oneof=info success warning error reminder"`
	Link    *string `json:"link" validate:"omitempty,max=2000"`
	IsRead  *bool   `json:"is_read"`
}

func (in *NotificationInput) Values() Values {
	v := Values{}
	put(v, "user_id", in.UserID)
	put(v, "title", in.Title)
	put(v, "message", in.Message)
	put(v, "type", in.Type)
	put(v, "link", in.Link)
	put(v, "is_read", in.IsRead)
	return v
}

func (in *NotificationInput) CheckCreate() error {
	var fields []string
	if blank(in.UserID) {
		fields = append(fields, "user_id")
	}
	if blank(in.Title) {
		fields = append(fields, "title")
	}
	return missing(fields...)
}

// MarkRead flags a notification as read.
func MarkRead(ctx context.Context, svc *Service[Notification], tenantID, actorID, notificationID string) (*Notification, error) {
	read := true
	return svc.Update(ctx, tenantID, actorID, notificationID, &NotificationInput{IsRead: &read})
}
