package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Raw Subject/Text/HTML may be given directly, or a Template name with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_email", "profile_updated"
	Data     map[string]any `json:"data,omitempty"`
}
