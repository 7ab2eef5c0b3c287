package newsdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Repository on PostgreSQL through a pgx pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to dsn, verifies the connection and creates the schema.
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PGStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close releases the pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS blogs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    image_alt TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    hashtags TEXT[] NOT NULL DEFAULT '{}',
    author TEXT NOT NULL,
    author_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blogs_created_at ON blogs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_blogs_author_id ON blogs(author_id);
`)
	return err
}

// InsertPost stores a new post and returns it as persisted.
func (s *PGStore) InsertPost(ctx context.Context, p BlogPost) (BlogPost, error) {
	p = preparePost(p)
	_, err := s.pool.Exec(ctx, `INSERT INTO blogs (`+blogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Title, p.Description, p.ImageURL, p.ImageAlt, p.Category, p.Content,
		p.Hashtags, p.Author, p.AuthorID, p.CreatedAt)
	if err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// GetPost returns a single post by id.
func (s *PGStore) GetPost(ctx context.Context, id string) (BlogPost, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id)
	if err != nil {
		return BlogPost{}, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPGPost)
	if errors.Is(err, pgx.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	return p, err
}

// ListPosts returns posts newest first, optionally filtered by category.
func (s *PGStore) ListPosts(ctx context.Context, category string) ([]BlogPost, error) {
	if category == "" {
		return s.queryPosts(ctx, `SELECT `+blogColumns+` FROM blogs ORDER BY created_at DESC`)
	}
	return s.queryPosts(ctx, `SELECT `+blogColumns+` FROM blogs WHERE category = $1 ORDER BY created_at DESC`, category)
}

// ListPostsByAuthor returns the posts written by authorID, newest first.
func (s *PGStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]BlogPost, error) {
	return s.queryPosts(ctx, `SELECT `+blogColumns+` FROM blogs WHERE author_id = $1 ORDER BY created_at DESC`, authorID)
}

// ListHashtags returns a sorted, deduplicated, lowercase slice of all hashtags.
func (s *PGStore) ListHashtags(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT hashtags FROM blogs`)
	if err != nil {
		return nil, err
	}
	all, err := pgx.CollectRows(rows, pgx.RowTo[[]string])
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, tags := range all {
		addTags(set, tags)
	}
	return sortedTags(set), nil
}

func (s *PGStore) queryPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	posts, err := pgx.CollectRows(rows, scanPGPost)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts, nil
}

func scanPGPost(row pgx.CollectableRow) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.ImageAlt, &p.Category,
		&p.Content, &p.Hashtags, &p.Author, &p.AuthorID, &p.CreatedAt)
	return p, err
}

// CreateUser stores a new account.
func (s *PGStore) CreateUser(ctx context.Context, u User) (User, error) {
	u = prepareUser(u)
	_, err := s.pool.Exec(ctx, `INSERT INTO users (id, email, password_hash, first_name, last_name, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

// GetUser returns the account with the given id.
func (s *PGStore) GetUser(ctx context.Context, id string) (User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, first_name, last_name, created_at FROM users WHERE id = $1`, id)
}

// GetUserByEmail returns the account registered under email.
func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, first_name, last_name, created_at FROM users WHERE email = $1`, normalizeEmail(email))
}

func (s *PGStore) queryUser(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
