package carousel

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mxkvch/valentine/internal/blobstore"
	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/web"
)

const viewDefaultRefreshSeconds = 10

// Handler serves the carousel image endpoint and the HTML view.
type Handler struct {
	store   blobstore.Store
	cache   *ListingCache
	chooser *Chooser
	log     logger.Logger
}

// NewHandler wires the carousel over an object store. cache may be nil.
func NewHandler(store blobstore.Store, cache *ListingCache, log logger.Logger) *Handler {
	return &Handler{store: store, cache: cache, chooser: NewChooser(), log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	for _, prefix := range []string{"/carousel", "/api/carousel"} {
		r.Get(prefix, h.Image)
		r.Get(prefix+"/view", h.View)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("object store ping failed", logger.Error(err))
		web.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "storage": "down"})
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "up"})
}

func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// The old auto-refresh behavior moved to the view page.
	if params.Has("refresh") {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation,
			"Query parameter 'refresh' is no longer supported")
		return
	}

	useRandom, err := web.ParseBoolParam(params.Get("random"), false, "random")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation,
			"Invalid 'random' value. Use one of: true/false, 1/0, yes/no")
		return
	}

	index, cached := h.cache.Get(r.Context())
	if !cached {
		keys, err := h.store.ListKeys(r.Context(), "")
		if err != nil {
			h.log.Error("failed to list carousel bucket", logger.Error(err))
			web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable,
				"Image storage is unavailable")
			return
		}
		index = BuildUniqueImageIndex(keys)
		h.cache.Set(r.Context(), index)
	}

	name, key, err := h.chooser.Choose(index, useRandom)
	if err != nil {
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound,
			"No images available for carousel")
		return
	}

	object, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, blobstore.ErrObjectNotFound) {
			web.WriteError(w, http.StatusNotFound, web.CodeNotFound,
				"No images available for carousel")
			return
		}
		h.log.Error("failed to fetch carousel image",
			logger.String("key", key), logger.Error(err))
		web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable,
			"Image storage is unavailable")
		return
	}

	mode := "sequence"
	if useRandom {
		mode = "random"
	}
	h.log.Info("selected carousel image",
		logger.String("name", name),
		logger.String("key", key),
		logger.String("mode", mode))

	filename := strings.NewReplacer("\\", "_", `"`, "").Replace(path.Base(key))
	contentType := object.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Carousel-Mode", mode)
	w.Header().Set("X-Carousel-Image", name)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(object.Data)
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	useRandom, err := web.ParseBoolParam(params.Get("random"), false, "random")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation,
			"Invalid 'random' value. Use one of: true/false, 1/0, yes/no")
		return
	}

	refreshSeconds, err := parseViewRefreshSeconds(params.Get("refresh"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	_, _ = w.Write([]byte(buildViewHTML(useRandom, refreshSeconds)))
}

func parseViewRefreshSeconds(raw string) (int, error) {
	if raw == "" {
		return viewDefaultRefreshSeconds, nil
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds < 1 || seconds > 3600 {
		return 0, errors.New("Invalid 'refresh' value. Use integer seconds between 1 and 3600")
	}
	return seconds, nil
}

func buildViewHTML(useRandom bool, refreshSeconds int) string {
	randomValue := "false"
	if useRandom {
		randomValue = "true"
	}

	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Carousel View</title>
    <style>
      html, body {
        width: 100%%;
        height: 100%%;
        margin: 0;
        padding: 0;
        overflow: hidden;
      }
      img {
        display: block;
        width: 100vw;
        height: 100vh;
        object-fit: contain;
      }
    </style>
  </head>
  <body>
    <img id="carousel" alt="carousel" />
    <script>
      const intervalMs = %d;
      const image = document.getElementById("carousel");
      const baseUrl = "/carousel?random=%s";

      function nextUrl() {
        return baseUrl + "&t=" + Date.now();
      }

      function reload() {
        image.src = nextUrl();
      }

      reload();
      setInterval(reload, intervalMs);
    </script>
  </body>
</html>
`, refreshSeconds*1000, randomValue)
}
