package domain

// NotificationTemplate names an email the notifier knows how to render.
type NotificationTemplate string

const (
	TemplateNewApplication      NotificationTemplate = "new_application"
	TemplateApplicationReceived NotificationTemplate = "application_received"
	TemplateApplicationAccepted NotificationTemplate = "application_accepted"
	TemplateApplicationRejected NotificationTemplate = "application_rejected"
)

// Notification is a queued email addressed to a user by ID. The recipient's
// address is resolved when the notification is delivered.
type Notification struct {
	Template  NotificationTemplate
	Recipient string
	Payload   map[string]string
}
