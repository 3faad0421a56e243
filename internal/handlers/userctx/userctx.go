package userctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// New returns a context carrying the authenticated subject id
func New(ctx context.Context, subject uuid.UUID) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// Subject extracts the authenticated subject id from the context
func Subject(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(subjectKey).(uuid.UUID)
	return id, ok
}
