package photostock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mxkvch/valentine/internal/blobstore"
	"github.com/mxkvch/valentine/internal/logger"
)

type fakeStore struct {
	keys    []string
	objects map[string]blobstore.Object
	listErr error
	pingErr error
}

func (f *fakeStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	matched := []string{}
	for _, key := range f.keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (blobstore.Object, error) {
	object, ok := f.objects[key]
	if !ok {
		return blobstore.Object{}, blobstore.ErrObjectNotFound
	}
	return object, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func newPhotostockHandler(store blobstore.Store) http.Handler {
	h := NewHandler(store, logger.Nop())
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestGetImage(t *testing.T) {
	store := &fakeStore{
		keys: []string{"sunset.jpg", "other.png"},
		objects: map[string]blobstore.Object{
			"sunset.jpg": {Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"},
		},
	}
	handler := newPhotostockHandler(store)

	rec := get(handler, "/images/sunset")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `inline; filename="sunset.jpg"` {
		t.Errorf("content disposition = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("cache control = %q", got)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGetImageDisplayFlag(t *testing.T) {
	store := &fakeStore{
		keys:    []string{"sunset.jpg"},
		objects: map[string]blobstore.Object{"sunset.jpg": {Data: []byte("x")}},
	}
	handler := newPhotostockHandler(store)

	rec := get(handler, "/images/sunset?display=no")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment;") {
		t.Errorf("content disposition = %q, want attachment", got)
	}

	rec = get(handler, "/images/sunset?display=maybe")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetImageLookupOutcomes(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		rec := get(newPhotostockHandler(&fakeStore{}), "/images/missing")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if code := errorCode(t, rec); code != "NOT_FOUND" {
			t.Errorf("error code = %s", code)
		}
	})

	t.Run("ambiguous variants", func(t *testing.T) {
		store := &fakeStore{keys: []string{"sunset.jpg", "sunset.webp"}}
		rec := get(newPhotostockHandler(store), "/images/sunset")
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409 (%s)", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Multiple files found for 'sunset': sunset.jpg, sunset.webp") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		rec := get(newPhotostockHandler(&fakeStore{}), "/images/sunset.jpg")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
			t.Errorf("error code = %s", code)
		}
	})

	t.Run("storage down", func(t *testing.T) {
		rec := get(newPhotostockHandler(&fakeStore{listErr: errors.New("boom")}), "/images/sunset")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	store := &fakeStore{}
	handler := newPhotostockHandler(store)

	if rec := get(handler, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	store.pingErr = errors.New("no bucket")
	if rec := get(handler, "/health"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
