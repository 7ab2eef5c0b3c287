package newsdesk

import (
	"embed"
	"io/fs"
)

//go:embed content/*.md content/nav.yaml
var contentFiles embed.FS

//go:embed public/*
var publicFiles embed.FS

// ContentFS is the embedded navigation pages directory.
func ContentFS() fs.FS {
	sub, err := fs.Sub(contentFiles, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

// PublicFS holds the stylesheet served under /public/.
func PublicFS() fs.FS {
	sub, err := fs.Sub(publicFiles, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
