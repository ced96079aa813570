package dashboard

import "context"

type confirmKey struct{}

// WithConfirmation records on the context whether the caller has already
// confirmed a destructive action, for transports where confirmation happens
// before the request is made.
func WithConfirmation(ctx context.Context, ok bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, ok)
}

// ContextConfirmer reads the confirmation decision from the context.
// Absent a decision it refuses, keeping delete a deliberate operation.
type ContextConfirmer struct{}

func (ContextConfirmer) Confirm(ctx context.Context, _ string) bool {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	return ok
}
