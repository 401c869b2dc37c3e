package port

import "context"

// Mailer delivers account lifecycle mail. Callers dispatch it
// fire-and-forget; a delivery failure never reaches the HTTP response.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendGoodbye(ctx context.Context, email, name string) error
}
