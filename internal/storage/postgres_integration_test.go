//go:build integration
// +build integration

package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yourusername/bloghub/internal/models"
)

// setupPostgresStore は PostgreSQL コンテナを起動し、接続済みの Store を返します。
func setupPostgresStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("blog"),
		postgres.WithUsername("blog"),
		postgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, connStr, Options{MaxOpenConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestPostgresBlogFlow(t *testing.T) {
	ctx := context.Background()
	store := setupPostgresStore(t)
	assert.Equal(t, DialectPostgres, store.Dialect())

	admin, err := store.CreateUser(ctx, "admin@example.com", "admin", "hash")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	_, err = store.CreateUser(ctx, "admin@example.com", "again", "hash")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	reader, err := store.CreateUser(ctx, "reader@example.com", "reader", "hash")
	require.NoError(t, err)

	post := &models.Post{AuthorID: admin.ID, Title: "X", Subtitle: "s", Date: "October 16, 2026", Body: "b", ImgURL: "u"}
	require.NoError(t, store.CreatePost(ctx, post))

	err = store.CreatePost(ctx, &models.Post{AuthorID: admin.ID, Title: "X", Subtitle: "s", Date: "d", Body: "b", ImgURL: "u"})
	require.ErrorIs(t, err, ErrDuplicateTitle)

	_, err = store.AddComment(ctx, post.ID, reader.ID, "hello")
	require.NoError(t, err)

	_, err = store.UpdatePost(ctx, post.ID, models.PostInput{Title: "Y", Subtitle: "s", Body: "b", ImgURL: "u"})
	require.NoError(t, err)

	posts, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Y", posts[0].Title)

	require.NoError(t, store.DeletePost(ctx, post.ID))
	_, err = store.PostByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresConcurrentFirstRegistration(t *testing.T) {
	ctx := context.Background()
	store := setupPostgresStore(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.CreateUser(ctx, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("user%d", i), "hash")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, n)

	admins := 0
	for _, u := range users {
		if u.IsAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}
