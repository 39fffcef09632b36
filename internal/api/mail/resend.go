// Package mail delivers transactional email through Resend. Delivery is
// always best-effort from the caller's point of view; services log send
// failures and move on.
package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// SendInvitation emails an invitation link. The raw token is embedded in
// the link and exists nowhere else once this returns.
func (n *ResendNotifier) SendInvitation(ctx context.Context, email, orgName, link string) error {
	subject := "You have been invited to join " + orgName
	if orgName == "" {
		subject = "You have been invited"
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: subject,
		Html: fmt.Sprintf(
			`<p>You have been invited to join <strong>%s</strong>.</p>`+
				`<p><a href="%s">Accept your invitation</a></p>`+
				`<p>This link expires in 48 hours.</p>`,
			orgName, link,
		),
	}

	_, err := n.client.Emails.SendWithContext(ctx, params)
	return err
}
