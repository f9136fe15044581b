package web

import (
	"net/http"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())

	_ = ws.sync.FetchCategories(r.Context())
	if s.sessionLost(w, r, ws) {
		return
	}
	categories := ws.sync.Categories()

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		CategoryCount int
		Loaded        bool
	}{
		PageData: PageData{
			Title:  "Nadzorna plošča",
			User:   GetWebClaims(r.Context()),
			Notice: ws.sync.Notice(),
		},
		CategoryCount: len(categories.Items),
		Loaded:        categories.Err == nil,
	})
}
