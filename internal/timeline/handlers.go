package timeline

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/web"
)

// Handler serves the shell page, the static assets and a health endpoint.
type Handler struct {
	clientConfig ClientConfig
	staticDir    string
	log          logger.Logger
}

func NewHandler(clientConfig ClientConfig, staticDir string, log logger.Logger) *Handler {
	return &Handler{clientConfig: clientConfig, staticDir: staticDir, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/", h.Home)

	if info, err := os.Stat(h.staticDir); err == nil && info.IsDir() {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir)))
		r.Handle("/static/*", fileServer)
	} else {
		h.log.Warn("static directory missing, assets will 404",
			logger.String("dir", h.staticDir))
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "timeline-ui"})
}

func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buildPageHTML(h.clientConfig)))
}
