package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static file system.
func StaticFS() fs.FS {
	return sub("static")
}

// TemplatesFS returns the templates file system.
func TemplatesFS() fs.FS {
	return sub("templates")
}

// sub panics on failure; the directories are embedded at build time.
func sub(dir string) fs.FS {
	fsys, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return fsys
}
