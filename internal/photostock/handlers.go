package photostock

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mxkvch/valentine/internal/blobstore"
	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/web"
)

const cacheControlValue = "public, max-age=3600"

// Handler serves image lookups over the object store.
type Handler struct {
	store blobstore.Store
	log   logger.Logger
}

func NewHandler(store blobstore.Store, log logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	for _, prefix := range []string{"/images", "/api/images"} {
		r.Get(prefix+"/{image}", h.GetImage)
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

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	name, err := validateImageName(chi.URLParam(r, "image"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation, err.Error())
		return
	}

	displayInline, err := web.ParseBoolParam(r.URL.Query().Get("display"), true, "display")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation,
			"Invalid 'display' value. Use one of: true/false, 1/0, yes/no")
		return
	}

	// Listing with the "name." prefix keeps the scan narrow even on a large
	// bucket; the exact-stem match happens client side.
	keys, err := h.store.ListKeys(r.Context(), name+".")
	if err != nil {
		h.log.Error("failed to list bucket for image",
			logger.String("image", name), logger.Error(err))
		web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable,
			"Image storage is unavailable")
		return
	}

	matches := findMatchingKeys(name, keys)
	if len(matches) == 0 {
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "Image not found")
		return
	}
	if len(matches) > 1 {
		web.WriteError(w, http.StatusConflict, web.CodeConflict,
			fmt.Sprintf("Multiple files found for '%s': %s", name, strings.Join(matches, ", ")))
		return
	}

	key := matches[0]
	object, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, blobstore.ErrObjectNotFound) {
			web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "Image not found")
			return
		}
		h.log.Error("failed to fetch image",
			logger.String("key", key), logger.Error(err))
		web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable,
			"Image storage is unavailable")
		return
	}

	filename := strings.NewReplacer("\\", "_", `"`, "").Replace(path.Base(key))
	contentType := object.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	disposition := "inline"
	if !displayInline {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Header().Set("Cache-Control", cacheControlValue)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(object.Data)
}
