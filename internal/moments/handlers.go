package moments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mxkvch/valentine/internal/config"
	"github.com/mxkvch/valentine/internal/logger"
)

// Handler serves the moments API, the HTML card views and the media proxy.
type Handler struct {
	repo              Repository
	log               logger.Logger
	photostockBaseURL string
	photostockTimeout time.Duration
	now               func() time.Time
}

func NewHandler(repo Repository, log logger.Logger, cfg *config.Moments) *Handler {
	return &Handler{
		repo:              repo,
		log:               log,
		photostockBaseURL: cfg.PhotostockBaseURL,
		photostockTimeout: cfg.PhotostockTimeout,
		now:               time.Now,
	}
}

// Routes registers every endpoint, including the legacy path aliases. The
// aliases behave identically to the canonical paths.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	for _, prefix := range []string{"/api/v1/cards", "/api/v1/moments"} {
		r.Route(prefix, func(r chi.Router) {
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Patch)
			r.Delete("/{id}", h.Delete)
		})
	}

	for _, prefix := range []string{"/cards/view", "/view"} {
		r.Get(prefix, h.View)
		r.Get(prefix+"/{id}", h.ViewByID)
	}

	r.Get("/media/*", h.Media)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		h.log.Error("mongo ping failed", logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "mongo": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mongo": "up"})
}

type createPayload struct {
	Title      *string  `json:"title"`
	Text       *string  `json:"text"`
	Date       *string  `json:"date"`
	Images     []string `json:"images"`
	Visibility *string  `json:"visibility"`
	Tags       []string `json:"tags"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, h.log, validationError("Request body must be valid JSON"))
		return
	}

	title, err := validateTitle(payload.Title, true)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	text, err := validateText(payload.Text)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if payload.Date == nil {
		writeError(w, h.log, validationError("'date' is required"))
		return
	}
	date, err := parseTimestamp("date", *payload.Date)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	images, err := validateImageList(payload.Images)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	visibility := VisibilityPublic
	if payload.Visibility != nil {
		visibility, err = validateVisibility(*payload.Visibility)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
	}

	tags, err := validateTags(payload.Tags)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	now := h.now().UTC()
	doc := Document{
		Title:      title,
		Text:       text,
		Date:       date,
		Images:     images,
		Visibility: visibility,
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := h.repo.Insert(r.Context(), doc)
	if err != nil {
		h.log.Error("failed to create moment", logger.Error(err))
		writeError(w, h.log, internalError("Failed to create moment"))
		return
	}

	stored, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		h.log.Error("failed to load created moment", logger.Error(err))
		writeError(w, h.log, internalError("Failed to load created moment"))
		return
	}

	writeJSON(w, http.StatusCreated, Serialize(stored, h.log))
}

type listResponse struct {
	Moments    []Moment `json:"moments"`
	NextCursor *string  `json:"nextCursor"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit, err := parseLimit(params.Get("limit"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	order, err := parseOrder(params.Get("order"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	query := ListQuery{Order: order}

	if raw := params.Get("from"); raw != "" {
		from, err := parseTimestamp("from", raw)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		query.From = &from
	}
	if raw := params.Get("to"); raw != "" {
		to, err := parseTimestamp("to", raw)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		query.To = &to
	}

	if raw := params.Get("visibility"); raw != "" {
		visibility, err := validateVisibility(raw)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		query.Visibility = visibility
	}

	if raw := params.Get("cursor"); raw != "" {
		cursor, err := DecodeCursor(raw)
		if err != nil {
			writeError(w, h.log, invalidCursorError("Invalid cursor format"))
			return
		}
		query.Cursor = &cursor
	}

	filter, sort, err := query.Build()
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	// Fetch one extra row to learn whether another page exists.
	docs, err := h.repo.Find(r.Context(), filter, sort, int64(limit+1))
	if err != nil {
		h.log.Error("failed to list moments", logger.Error(err))
		writeError(w, h.log, internalError("Failed to list moments"))
		return
	}

	hasNext := len(docs) > limit
	if hasNext {
		docs = docs[:limit]
	}

	response := listResponse{Moments: make([]Moment, 0, len(docs))}
	for _, doc := range docs {
		response.Moments = append(response.Moments, Serialize(doc, h.log))
	}

	if hasNext && len(docs) > 0 {
		last := docs[len(docs)-1]
		cursor := EncodeCursor(last.Date, last.ID, order)
		response.NextCursor = &cursor
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseMomentID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	doc, err := h.findByID(r.Context(), id, "Failed to load moment")
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, Serialize(doc, h.log))
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := parseMomentID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	updates, err := h.parsePatch(r.Body)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	updates["updatedAt"] = h.now().UTC()

	doc, err := h.repo.PatchByID(r.Context(), id, updates)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, h.log, notFoundError("Moment not found"))
			return
		}
		h.log.Error("failed to update moment", logger.Error(err))
		writeError(w, h.log, internalError("Failed to update moment"))
		return
	}

	writeJSON(w, http.StatusOK, Serialize(doc, h.log))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseMomentID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, h.log, notFoundError("Moment not found"))
			return
		}
		h.log.Error("failed to delete moment", logger.Error(err))
		writeError(w, h.log, internalError("Failed to delete moment"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) findByID(ctx context.Context, id primitive.ObjectID, failMessage string) (Document, error) {
	doc, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, notFoundError("Moment not found")
		}
		h.log.Error("failed to load moment", logger.Error(err))
		return Document{}, internalError(failMessage)
	}
	return doc, nil
}

// parsePatch validates a partial update. Field presence matters: an absent
// field is left alone, an explicit null is either rejected (fields the data
// model cannot hold as null) or applied (text) or defaulted (tags).
func (h *Handler) parsePatch(body io.Reader) (bson.M, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return nil, validationError("Request body must be a JSON object")
	}

	updates := bson.M{}

	if raw, ok := fields["title"]; ok {
		var title *string
		if err := json.Unmarshal(raw, &title); err != nil {
			return nil, validationError("'title' must be a string")
		}
		validated, err := validateTitle(title, true)
		if err != nil {
			return nil, err
		}
		updates["title"] = validated
	}

	if raw, ok := fields["text"]; ok {
		var text *string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, validationError("'text' must be a string")
		}
		validated, err := validateText(text)
		if err != nil {
			return nil, err
		}
		updates["text"] = validated
	}

	if raw, ok := fields["date"]; ok {
		var date *string
		if err := json.Unmarshal(raw, &date); err != nil || date == nil {
			return nil, validationError("'date' must be an RFC 3339 timestamp")
		}
		parsed, err := parseTimestamp("date", *date)
		if err != nil {
			return nil, err
		}
		updates["date"] = parsed
	}

	if raw, ok := fields["images"]; ok {
		var images []string
		if err := json.Unmarshal(raw, &images); err != nil || images == nil {
			return nil, validationError("'images' must be a non-empty array")
		}
		validated, err := validateImageList(images)
		if err != nil {
			return nil, err
		}
		updates["images"] = validated
	}

	if raw, ok := fields["visibility"]; ok {
		var visibility *string
		if err := json.Unmarshal(raw, &visibility); err != nil || visibility == nil {
			return nil, validationError("'visibility' must be one of: draft, public")
		}
		validated, err := validateVisibility(*visibility)
		if err != nil {
			return nil, err
		}
		updates["visibility"] = validated
	}

	if raw, ok := fields["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return nil, validationError("'tags' must be an array of strings")
		}
		validated, err := validateTags(tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = validated
	}

	if len(updates) == 0 {
		return nil, validationError("At least one field is required for patch")
	}

	return updates, nil
}

// field validation

func validateTitle(title *string, required bool) (string, error) {
	if title == nil {
		if required {
			return "", validationError("'title' must not be empty")
		}
		return "", nil
	}
	normalized := strings.TrimSpace(*title)
	if normalized == "" {
		return "", validationError("'title' must not be empty")
	}
	if utf8.RuneCountInString(normalized) > titleMaxLength {
		return "", validationError(fmt.Sprintf("'title' must be at most %d characters", titleMaxLength))
	}
	return normalized, nil
}

func validateText(text *string) (*string, error) {
	if text == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*text) > textMaxLength {
		return nil, validationError(fmt.Sprintf("'text' must be at most %d characters", textMaxLength))
	}
	return text, nil
}

func validateImageList(images []string) ([]string, error) {
	if len(images) == 0 {
		return nil, validationError("'images' must be a non-empty array")
	}
	validated := make([]string, 0, len(images))
	for i, image := range images {
		name, err := ValidateImageFilename(image)
		if err != nil {
			return nil, validationError(fmt.Sprintf("'images[%d]' %s", i, err))
		}
		validated = append(validated, name)
	}
	return validated, nil
}

func validateVisibility(value string) (string, error) {
	if value != VisibilityDraft && value != VisibilityPublic {
		return "", validationError("'visibility' must be one of: draft, public")
	}
	return value, nil
}

func validateTags(tags []string) ([]string, error) {
	if tags == nil {
		return []string{}, nil
	}
	validated := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.TrimSpace(tag)
		if normalized == "" {
			return nil, validationError("'tags' must not contain empty values")
		}
		validated = append(validated, normalized)
	}
	return validated, nil
}

// query-parameter parsing

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, validationError(fmt.Sprintf("'limit' must be an integer between 1 and %d", maxLimit))
	}
	return limit, nil
}

func parseOrder(raw string) (Order, error) {
	switch raw {
	case "", string(OrderDesc):
		return OrderDesc, nil
	case string(OrderAsc):
		return OrderAsc, nil
	default:
		return "", validationError("'order' must be one of: asc, desc")
	}
}

// parseTimestamp accepts RFC 3339 only, which always carries an explicit
// offset; a zoneless timestamp therefore fails here.
func parseTimestamp(name, raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, validationError(fmt.Sprintf("'%s' must be an RFC 3339 timestamp with timezone", name))
	}
	return parsed.UTC(), nil
}

func parseMomentID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, invalidIDError("Invalid moment id")
	}
	return id, nil
}
