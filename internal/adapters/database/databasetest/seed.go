package databasetest

import (
	"context"
	"testing"

	"devhub/internal/core/post"
	"devhub/internal/core/user"
	"devhub/internal/ports/uow"

	"github.com/stretchr/testify/require"
)

// SeedUser inserts a user and returns it as an actor.
func SeedUser(t testing.TB, r uow.Repositories, name string) user.Actor {
	t.Helper()
	u, err := r.Users.Create(context.Background(), &user.User{Email: name + "@example.com", DisplayName: name})
	require.NoError(t, err)
	return user.Actor{ID: u.ID}
}

// SeedPost inserts a general post by author with zeroed counters.
func SeedPost(t testing.TB, r uow.Repositories, author user.Actor) *post.Post {
	t.Helper()
	p, err := r.Posts.Create(context.Background(), &post.Post{
		AuthorID: author.ID,
		Kind:     post.KindGeneral,
		Title:    "post by " + author.ID.String(),
		Content:  "body",
	})
	require.NoError(t, err)
	return p
}
