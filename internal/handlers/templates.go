package handlers

import (
	"embed"
	"html/template"
	"net/url"
	"time"

	"microblog/internal/avatar"
)

//go:embed templates/*.html
var templatesFS embed.FS

const timestampLayout = "Jan 2, 2006 15:04"

var pageTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"timestamp":  func(t time.Time) string { return t.Format(timestampLayout) },
		"initial":    avatar.FirstLetter,
		"pathescape": url.PathEscape,
	}).ParseFS(templatesFS, "templates/*.html"),
)
