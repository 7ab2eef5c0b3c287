package newsdesk

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, repo UserStore) User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), User{
		Email:        "Ana@Example.org",
		PasswordHash: "x",
		FirstName:    "Ana",
		LastName:     "Horvat",
	})
	require.NoError(t, err)
	return u
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	s := setupTestStore(t)
	assert.NotNil(t, s.db)
}

func TestInsertAndGetPost(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	u := seedUser(t, s)

	in := BlogPost{
		Title:       "Naslov",
		Description: "Opis",
		ImageURL:    "https://cdn.example.org/images/a.jpg",
		ImageAlt:    "Naslov",
		Category:    "ISHA",
		Content:     "<p>Tekst</p>",
		Hashtags:    []string{"a", "b", ""},
		Author:      u.DisplayName(),
		AuthorID:    u.ID,
	}
	saved, err := s.InsertPost(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.GetPost(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, []string{"a", "b", ""}, got.Hashtags)
	assert.Equal(t, "<p>Tekst</p>", got.Content)
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertPostUnknownAuthor(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.InsertPost(context.Background(), BlogPost{Title: "x", AuthorID: "nobody"})
	assert.Error(t, err)
}

func TestListPostsNewestFirstAndByCategory(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	u := seedUser(t, s)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, cat := range []string{"ISHA", "Hercul", "ISHA"} {
		_, err := s.InsertPost(ctx, BlogPost{
			Title:     cat,
			Category:  cat,
			AuthorID:  u.ID,
			Author:    u.DisplayName(),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	all, err := s.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))

	isha, err := s.ListPosts(ctx, "ISHA")
	require.NoError(t, err)
	assert.Len(t, isha, 2)

	mine, err := s.ListPostsByAuthor(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	none, err := s.ListPostsByAuthor(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListHashtags(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	u := seedUser(t, s)

	for _, tags := range [][]string{{"Go", "web"}, {"go", " sport ", ""}} {
		_, err := s.InsertPost(ctx, BlogPost{Title: "t", AuthorID: u.ID, Hashtags: tags})
		require.NoError(t, err)
	}
	tags, err := s.ListHashtags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sport", "web"}, tags)
}

func TestCreateUserAndLookup(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	u := seedUser(t, s)
	assert.Equal(t, "ana@example.org", u.Email)

	byID, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byEmail, err := s.GetUserByEmail(ctx, "  ANA@example.org ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	seedUser(t, s)
	_, err := s.CreateUser(context.Background(), User{Email: "ana@example.org", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestOpenRepositorySQLite(t *testing.T) {
	repo, err := OpenRepository(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer repo.Close()
	assert.IsType(t, &Store{}, repo)
}
