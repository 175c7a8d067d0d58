package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxIdentity ctxKey = iota

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// FromContext returns the identity established by the gate for this request.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(*Identity)
	return id, ok && id != nil
}

func UID(ctx context.Context) (string, error) {
	if id, ok := FromContext(ctx); ok && id.UID != "" {
		return id.UID, nil
	}
	return "", errors.New("uid not in context")
}
