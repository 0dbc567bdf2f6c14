package notifier

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/notification"
)

// SMTPEmitter sends member-targeted notifications by email. Role-wide
// notifications go to a fixed admin address.
type SMTPEmitter struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
	members    member.Repository
}

func NewSMTPEmitter(host string, port int, username, password, from, adminEmail string, members member.Repository) *SMTPEmitter {
	return &SMTPEmitter{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       from,
		adminEmail: adminEmail,
		members:    members,
	}
}

func (e *SMTPEmitter) Emit(ctx context.Context, n notification.Notification) error {
	to := e.adminEmail
	if n.MemberID != "" {
		m, err := e.members.GetByMemberID(ctx, n.MemberID)
		if err != nil {
			return fmt.Errorf("resolve recipient %s: %w", n.MemberID, err)
		}
		to = m.Email
	}
	if to == "" {
		return fmt.Errorf("no recipient address for notification %s", n.NotificationID)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", e.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", n.Title)
	msg.SetBody("text/plain", n.Message)

	if err := e.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
