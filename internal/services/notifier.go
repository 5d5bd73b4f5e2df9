package services

import (
	"context"
	"fmt"
	"strings"

	"lodgekeep/inquiries/internal/config"
	"lodgekeep/inquiries/internal/email"
	"lodgekeep/inquiries/internal/models"
)

// Notifier sends a templated message to an inquiry's contact address when
// its workflow status changes.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, inq *models.Inquiry) error
}

// emailNotifier implements Notifier over an email.Sender.
type emailNotifier struct {
	cfg    *config.Config
	sender email.Sender
}

// NewEmailNotifier creates a Notifier that delivers status updates by email.
func NewEmailNotifier(cfg *config.Config, sender email.Sender) Notifier {
	return &emailNotifier{cfg: cfg, sender: sender}
}

// NotifyStatusChange composes and sends the status-update email.
func (n *emailNotifier) NotifyStatusChange(ctx context.Context, inq *models.Inquiry) error {
	subject := fmt.Sprintf("%s: your inquiry for room %s is %s", n.cfg.AppName, inq.RoomNumber, inq.InquiryStatus)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", inq.FullName)
	fmt.Fprintf(&body, "The status of your inquiry for room %s has been updated to %q.\r\n", inq.RoomNumber, inq.InquiryStatus)
	if inq.InquiryStatus == models.InquiryStatusApproved {
		body.WriteString("Please get in touch with us to arrange the next steps.\r\n")
	}
	fmt.Fprintf(&body, "\r\nThank you,\r\n%s\r\n", n.cfg.AppName)

	raw := buildRawMessage(n.cfg.SmtpFromAddress, inq.Email, subject, body.String())
	if err := n.sender.Send(ctx, []string{inq.Email}, subject, raw); err != nil {
		return fmt.Errorf("failed to send status notification to %s: %w", inq.Email, err)
	}
	return nil
}

// buildRawMessage assembles a complete RFC 5322 message with headers.
func buildRawMessage(from, to, subject, body string) []byte {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}
