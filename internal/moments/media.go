package moments

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mxkvch/valentine/internal/logger"
)

// Media proxies an image through the photostock service. Pure pass-through:
// no bytes are buffered beyond the copy window and no state is kept.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	if h.photostockBaseURL == "" {
		http.Error(w, "Media service is not configured", http.StatusServiceUnavailable)
		return
	}

	filename := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(filename); err == nil {
		filename = unescaped
	}

	_, name, err := PhotostockBasename(filename)
	if err != nil {
		writeError(w, h.log, validationError(fmt.Sprintf("Invalid filename: %s", err)))
		return
	}

	upstreamURL := h.photostockBaseURL + "/images/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
	if err != nil {
		h.log.Error("failed to build media request", logger.Error(err))
		writeError(w, h.log, internalError("Internal server error"))
		return
	}

	client := &http.Client{Timeout: h.photostockTimeout}
	resp, err := client.Do(req)
	if err != nil {
		h.log.Error("failed to proxy image via photostock",
			logger.String("filename", filename),
			logger.Error(err))
		http.Error(w, "Media service is unavailable", http.StatusServiceUnavailable)
		return
	}
	defer resp.Body.Close()

	// Upstream error statuses stream through unchanged, like success bodies.
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if cacheControl := resp.Header.Get("Cache-Control"); cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
