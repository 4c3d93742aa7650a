package services

import (
	"fmt"
	"html"

	"nexus/internal/domain"
)

const confirmationSubject = "Message Received - Nexus Team"

// confirmationEmail renders the acknowledgement sent to the submitter.
func confirmationEmail(inquiry *domain.Inquiry) (subject, body string) {
	body = fmt.Sprintf(`<h2>Hi %s,</h2>`+
		`<p>Thank you for contacting Nexus. We have received your message: "%s".</p>`+
		`<p>Our team will get back to you shortly.</p>`+
		`<p>Best,<br/>Nexus Team</p>`,
		html.EscapeString(inquiry.Name), html.EscapeString(inquiry.Message))
	return confirmationSubject, body
}

// adminAlertEmail renders the new-lead summary sent to the configured admin.
func adminAlertEmail(inquiry *domain.Inquiry) (subject, body string) {
	subject = "New Inquiry: " + inquiry.Name
	body = fmt.Sprintf(`<h2>New Lead</h2>`+
		`<p><strong>Name:</strong> %s</p>`+
		`<p><strong>Email:</strong> %s</p>`+
		`<p><strong>Message:</strong> %s</p>`+
		`<p><strong>Received:</strong> %s</p>`+
		`<p style="color: #64748B; font-size: 14px;">Inquiry ID: %s</p>`,
		html.EscapeString(inquiry.Name), html.EscapeString(inquiry.Email),
		html.EscapeString(inquiry.Message), inquiry.Date(), inquiry.ID)
	return subject, body
}
