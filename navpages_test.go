package newsdesk

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNavEmbedded(t *testing.T) {
	pages, err := loadNav(ContentFS())
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, NavPage{Slug: "o-nama", Title: "O nama"}, pages[0])
}

func TestLoadNavFallsBackToScan(t *testing.T) {
	fsys := fstest.MapFS{
		"kontakt.md":  {Data: []byte("# Kontakt\n\nMail nam.")},
		"about.md":    {Data: []byte("Nema naslova")},
		"Bad_Slug.md": {Data: []byte("# Skip")},
		"notes.txt":   {Data: []byte("ignored")},
	}
	pages, err := loadNav(fsys)
	require.NoError(t, err)
	assert.Equal(t, []NavPage{
		{Slug: "about", Title: "about"},
		{Slug: "kontakt", Title: "Kontakt"},
	}, pages)
}

func TestLoadNavRejectsBadSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"nav.yaml": {Data: []byte("pages:\n  - slug: ../etc\n    title: X\n")},
	}
	_, err := loadNav(fsys)
	assert.Error(t, err)
}

func TestLoadNavDefaultsTitle(t *testing.T) {
	fsys := fstest.MapFS{
		"nav.yaml": {Data: []byte("pages:\n  - slug: udruge\n")},
	}
	pages, err := loadNav(fsys)
	require.NoError(t, err)
	assert.Equal(t, []NavPage{{Slug: "udruge", Title: "udruge"}}, pages)
}

func TestReadNavPage(t *testing.T) {
	a := &App{
		contentFS: fstest.MapFS{"kontakt.md": {Data: []byte("# Pišite nam\n\ntekst")}},
		Nav:       []NavPage{{Slug: "kontakt", Title: "Kontakt"}},
	}
	page, src, err := a.readNavPage("kontakt")
	require.NoError(t, err)
	assert.Equal(t, "Kontakt", page.Title)
	assert.Contains(t, src, "tekst")

	_, _, err = a.readNavPage("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = a.readNavPage("../secret")
	assert.ErrorIs(t, err, ErrNotFound)
}
