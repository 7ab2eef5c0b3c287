package newsdesk

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a requested post or user does not exist.
	ErrNotFound = errors.New("newsdesk: not found")
	// ErrEmailTaken is returned when signing up with an email that already has an account.
	ErrEmailTaken = errors.New("newsdesk: email already registered")
)

// PostRepository persists blog posts.
type PostRepository interface {
	InsertPost(ctx context.Context, p BlogPost) (BlogPost, error)
	GetPost(ctx context.Context, id string) (BlogPost, error)
	ListPosts(ctx context.Context, category string) ([]BlogPost, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]BlogPost, error)
	ListHashtags(ctx context.Context) ([]string, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// Repository is the full storage surface the App needs.
type Repository interface {
	PostRepository
	UserStore
	Close() error
}

// OpenRepository picks the backend from the DATABASE_URL form: postgres:// and
// postgresql:// URLs open a pgx pool, anything else is a SQLite file path.
func OpenRepository(ctx context.Context, databaseURL string) (Repository, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return NewPGStore(ctx, databaseURL)
	}
	return NewStore(databaseURL)
}

// sqliteTime is fixed width so created_at sorts lexically.
const sqliteTime = "2006-01-02T15:04:05.000000Z"

// Store wraps a SQLite database and implements Repository.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during the insert; writers wait on busy_timeout
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS blogs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    image_alt TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    hashtags TEXT NOT NULL DEFAULT '[]',
    author TEXT NOT NULL,
    author_id TEXT NOT NULL REFERENCES users(id),
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blogs_created_at ON blogs(created_at);
CREATE INDEX IF NOT EXISTS idx_blogs_author_id ON blogs(author_id);
`)
	return err
}

const blogColumns = `id, title, description, image_url, image_alt, category, content, hashtags, author, author_id, created_at`

// InsertPost stores a new post and returns it as persisted. ID and CreatedAt
// are assigned when empty.
func (s *Store) InsertPost(ctx context.Context, p BlogPost) (BlogPost, error) {
	p = preparePost(p)
	tags, err := json.Marshal(p.Hashtags)
	if err != nil {
		return BlogPost{}, fmt.Errorf("encode hashtags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO blogs (`+blogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.ImageURL, p.ImageAlt, p.Category, p.Content,
		string(tags), p.Author, p.AuthorID, p.CreatedAt.Format(sqliteTime))
	if err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// GetPost returns a single post by id.
func (s *Store) GetPost(ctx context.Context, id string) (BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	return p, err
}

// ListPosts returns posts newest first. A non-empty category filters by exact label.
func (s *Store) ListPosts(ctx context.Context, category string) ([]BlogPost, error) {
	if category == "" {
		return s.queryPosts(ctx, `SELECT `+blogColumns+` FROM blogs ORDER BY created_at DESC`)
	}
	return s.queryPosts(ctx, `SELECT `+blogColumns+` FROM blogs WHERE category = ? ORDER BY created_at DESC`, category)
}

// ListPostsByAuthor returns the posts written by authorID, newest first.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID string) ([]BlogPost, error) {
	return s.queryPosts(ctx, `SELECT `+blogColumns+` FROM blogs WHERE author_id = ? ORDER BY created_at DESC`, authorID)
}

// ListHashtags returns a sorted, deduplicated, lowercase slice of all hashtags.
func (s *Store) ListHashtags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hashtags FROM blogs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		tags, err := decodeHashtags(raw)
		if err != nil {
			return nil, err
		}
		addTags(set, tags)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortedTags(set), nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (BlogPost, error) {
	var p BlogPost
	var tags, created string
	if err := r.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.ImageAlt, &p.Category,
		&p.Content, &tags, &p.Author, &p.AuthorID, &created); err != nil {
		return BlogPost{}, err
	}
	var err error
	if p.Hashtags, err = decodeHashtags(tags); err != nil {
		return BlogPost{}, err
	}
	if p.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
		return BlogPost{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return p, nil
}

func decodeHashtags(raw string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode hashtags: %w", err)
	}
	return tags, nil
}

func addTags(set map[string]struct{}, tags []string) {
	for _, t := range tags {
		if n := normalizeTag(t); n != "" {
			set[n] = struct{}{}
		}
	}
}

func sortedTags(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// CreateUser stores a new account. Email is lower-cased; ID and CreatedAt are
// assigned when empty.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	u = prepareUser(u)
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, email, password_hash, first_name, last_name, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt.Format(sqliteTime))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

// GetUser returns the account with the given id.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, first_name, last_name, created_at FROM users WHERE id = ?`, id)
}

// GetUserByEmail returns the account registered under email (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, first_name, last_name, created_at FROM users WHERE email = ?`, normalizeEmail(email))
}

func (s *Store) queryUser(ctx context.Context, query string, arg string) (User, error) {
	var u User
	var created string
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if u.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
		return User{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return u, nil
}

func preparePost(p BlogPost) BlogPost {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.CreatedAt = p.CreatedAt.UTC().Truncate(time.Microsecond)
	if p.Hashtags == nil {
		p.Hashtags = []string{}
	}
	return p
}

func prepareUser(u User) User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.CreatedAt = u.CreatedAt.UTC().Truncate(time.Microsecond)
	u.Email = normalizeEmail(u.Email)
	return u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
