package mail

import "context"

// NoopNotifier drops all mail. Used when no Resend API key is
// configured, and in tests.
type NoopNotifier struct{}

func (NoopNotifier) SendInvitation(context.Context, string, string, string) error { return nil }
