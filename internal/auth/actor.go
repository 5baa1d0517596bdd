package auth

import (
	"context"

	"github.com/microblog/app/internal/models"
)

// Actor is whoever is making the current request: an authenticated user or
// nobody. The zero value is Anonymous.
type Actor struct {
	user *models.User
}

// Anonymous is the actor of requests without a valid session.
var Anonymous = Actor{}

// Authenticated returns the actor for a logged-in user.
func Authenticated(user *models.User) Actor {
	return Actor{user: user}
}

// User returns the logged-in user, if any.
func (a Actor) User() (*models.User, bool) {
	return a.user, a.user != nil
}

func (a Actor) IsAuthenticated() bool { return a.user != nil }

// ID returns the user id, or 0 for Anonymous.
func (a Actor) ID() int64 {
	if a.user == nil {
		return 0
	}
	return a.user.ID
}

type actorKey struct{}

// WithActor stores the actor in ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored in ctx, or Anonymous.
func ActorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}
