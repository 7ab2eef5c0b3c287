package newsdesk

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eringen/newsdesk/events"
)

var errBoom = errors.New("boom")

// memRepo is an in-memory Repository.
type memRepo struct {
	mu         sync.Mutex
	posts      []BlogPost
	users      map[string]User
	failInsert error
	listCalls  int
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]User)}
}

func (r *memRepo) InsertPost(_ context.Context, p BlogPost) (BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return BlogPost{}, r.failInsert
	}
	p = preparePost(p)
	r.posts = append(r.posts, p)
	return p, nil
}

func (r *memRepo) GetPost(_ context.Context, id string) (BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

func (r *memRepo) ListPosts(_ context.Context, category string) ([]BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var out []BlogPost
	for _, p := range r.posts {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) ListPostsByAuthor(_ context.Context, authorID string) ([]BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []BlogPost
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) ListHashtags(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]struct{})
	for _, p := range r.posts {
		addTags(set, p.Hashtags)
	}
	return sortedTags(set), nil
}

func (r *memRepo) CreateUser(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u = prepareUser(u)
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrEmailTaken
		}
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *memRepo) GetUser(_ context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == normalizeEmail(email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memRepo) Close() error { return nil }

// memBucket records uploads and serves them under a fixed CDN prefix.
type memBucket struct {
	mu         sync.Mutex
	objects    map[string][]byte
	types      map[string]string
	failUpload error
}

func newMemBucket() *memBucket {
	return &memBucket{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (b *memBucket) Upload(_ context.Context, objectPath, contentType string, body io.Reader) error {
	if b.failUpload != nil {
		return b.failUpload
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectPath] = data
	b.types[objectPath] = contentType
	return nil
}

func (b *memBucket) PublicURL(objectPath string) string {
	return "https://cdn.example.org/" + objectPath
}

func (b *memBucket) Delete(_ context.Context, objectPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, objectPath)
	return nil
}

func (b *memBucket) Backend() string { return "mem" }

func (b *memBucket) paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for p := range b.objects {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// recordingAnnouncer keeps every announcement it is handed.
type recordingAnnouncer struct {
	mu   sync.Mutex
	sent []events.Announcement
	err  error
}

func (a *recordingAnnouncer) Announce(_ context.Context, ann events.Announcement) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, ann)
	return a.err
}

func (a *recordingAnnouncer) Close() {}

func testAuthor() User {
	return User{ID: uuid.NewString(), FirstName: "Ana", LastName: "Horvat", Email: "ana@example.org", CreatedAt: time.Now()}
}

func validInput() NewBlogInput {
	return NewBlogInput{
		Title:       "Humanitarni koncert",
		Description: "Koncert u subotu",
		Category:    "Una Corda",
		Content:     "<p>Dođite!</p>",
		Hashtags:    "glazba, koncert",
	}
}

// pngImage encodes a w x h PNG.
func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeaderOnly returns a PNG signature and IHDR chunk for an 8-bit
// grayscale image of w x h, with no pixel data.
func pngHeaderOnly(t *testing.T, w, h uint32) []byte {
	t.Helper()
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth, color type 0 (gray)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(len(ihdr))))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	require.NoError(t, binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk)))
	return buf.Bytes()
}

func upload(t *testing.T, name string, data []byte) *ImageUpload {
	t.Helper()
	return &ImageUpload{Filename: name, Body: io.NopCloser(bytes.NewReader(data))}
}

func hasPrefixAll(list []string, prefix string) bool {
	for _, s := range list {
		if !strings.HasPrefix(s, prefix) {
			return false
		}
	}
	return true
}
