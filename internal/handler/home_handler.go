package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"todoapi/web"
)

type HomeHandler struct {
	tmpl *template.Template
}

func NewHomeHandler() *HomeHandler {
	tmpl := template.Must(template.ParseFS(web.FS, "index.html"))
	return &HomeHandler{tmpl: tmpl}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, nil); err != nil {
		slog.Error("rendering index page", "error", err)
	}
}
