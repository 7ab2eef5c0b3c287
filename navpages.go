package newsdesk

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const navFile = "nav.yaml"

var reSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type navConfig struct {
	Pages []NavPage `yaml:"pages"`
}

// loadNav reads the menu from nav.yaml. Without one, every *.md file is
// listed in name order, titled by its first heading.
func loadNav(fsys fs.FS) ([]NavPage, error) {
	data, err := fs.ReadFile(fsys, navFile)
	if errors.Is(err, fs.ErrNotExist) {
		return scanNav(fsys)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", navFile, err)
	}
	var cfg navConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", navFile, err)
	}
	for i, p := range cfg.Pages {
		if !reSlug.MatchString(p.Slug) {
			return nil, fmt.Errorf("%s: invalid slug %q", navFile, p.Slug)
		}
		if p.Title == "" {
			cfg.Pages[i].Title = p.Slug
		}
	}
	return cfg.Pages, nil
}

func scanNav(fsys fs.FS) ([]NavPage, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	var pages []NavPage
	for _, name := range names {
		slug := strings.TrimSuffix(name, ".md")
		if !reSlug.MatchString(slug) {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		pages = append(pages, NavPage{Slug: slug, Title: firstHeading(string(data), slug)})
	}
	return pages, nil
}

func firstHeading(md, fallback string) string {
	for _, line := range strings.Split(md, "\n") {
		if h, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return fallback
}

// readNavPage returns the markdown source of slug. Unknown or malformed
// slugs yield ErrNotFound.
func (a *App) readNavPage(slug string) (NavPage, string, error) {
	if !reSlug.MatchString(slug) {
		return NavPage{}, "", ErrNotFound
	}
	data, err := fs.ReadFile(a.contentFS, slug+".md")
	if errors.Is(err, fs.ErrNotExist) {
		return NavPage{}, "", ErrNotFound
	}
	if err != nil {
		return NavPage{}, "", err
	}
	src := string(data)
	page := NavPage{Slug: slug, Title: firstHeading(src, slug)}
	for _, p := range a.Nav {
		if p.Slug == slug {
			page.Title = p.Title
			break
		}
	}
	return page, src, nil
}
