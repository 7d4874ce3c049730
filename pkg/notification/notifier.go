package notification

import "fmt"

// NotificationData carries one outbound message
type NotificationData struct {
	To      string // Recipient address
	Subject string
	Body    string
}

// Notifier delivers notifications to team members. Delivery is best effort;
// callers decide whether a failure is fatal to the surrounding operation.
type Notifier interface {
	Send(notification NotificationData) error
}

// NewInviteEmail builds the invite message carrying a plaintext setup token
func NewInviteEmail(to, token string) NotificationData {
	return NotificationData{
		To:      to,
		Subject: "You are invited to join the team",
		Body: fmt.Sprintf(
			"Hello,\n\nYou have been invited to join the team. Use the token below to set your password and activate your account.\n\nToken: %s\n",
			token,
		),
	}
}
