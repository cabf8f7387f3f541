package carousel

import (
	"context"
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
	getErr  error
}

func (f *fakeStore) ListKeys(context.Context, string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keys, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (blobstore.Object, error) {
	if f.getErr != nil {
		return blobstore.Object{}, f.getErr
	}
	object, ok := f.objects[key]
	if !ok {
		return blobstore.Object{}, blobstore.ErrObjectNotFound
	}
	return object, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func newCarouselHandler(store blobstore.Store) http.Handler {
	h := NewHandler(store, nil, logger.Nop())
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCarouselImage(t *testing.T) {
	store := &fakeStore{
		keys: []string{"sunset.webp", "sunset.jpg", "beach.png", "skip/nested.jpg"},
		objects: map[string]blobstore.Object{
			"sunset.webp": {Data: []byte("webp-bytes"), ContentType: "image/webp"},
			"beach.png":   {Data: []byte("png-bytes"), ContentType: "image/png"},
		},
	}
	handler := newCarouselHandler(store)

	rec := get(handler, "/carousel")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Carousel-Image"); got != "beach" {
		t.Errorf("first image = %q, want first sorted basename", got)
	}
	if got := rec.Header().Get("X-Carousel-Mode"); got != "sequence" {
		t.Errorf("mode header = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("content type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Errorf("cache control = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "beach.png") {
		t.Errorf("content disposition = %q", got)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}

	// Second request advances the rotation; the webp variant shadows the jpg.
	rec = get(handler, "/carousel")
	if got := rec.Header().Get("X-Carousel-Image"); got != "sunset" {
		t.Errorf("second image = %q, want sunset", got)
	}
	if rec.Body.String() != "webp-bytes" {
		t.Errorf("second body = %q, want the webp variant", rec.Body.String())
	}
}

func TestCarouselImageRandomMode(t *testing.T) {
	store := &fakeStore{
		keys:    []string{"a.jpg"},
		objects: map[string]blobstore.Object{"a.jpg": {Data: []byte("x"), ContentType: "image/jpeg"}},
	}

	rec := get(newCarouselHandler(store), "/carousel?random=yes")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Carousel-Mode"); got != "random" {
		t.Errorf("mode header = %q, want random", got)
	}
}

func TestCarouselImageRejections(t *testing.T) {
	store := &fakeStore{keys: []string{"a.jpg"},
		objects: map[string]blobstore.Object{"a.jpg": {Data: []byte("x")}}}
	handler := newCarouselHandler(store)

	t.Run("refresh no longer supported", func(t *testing.T) {
		rec := get(handler, "/carousel?refresh=5")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad random value", func(t *testing.T) {
		rec := get(handler, "/carousel?random=maybe")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("empty bucket", func(t *testing.T) {
		rec := get(newCarouselHandler(&fakeStore{}), "/carousel")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("listing failure", func(t *testing.T) {
		rec := get(newCarouselHandler(&fakeStore{listErr: errors.New("boom")}), "/carousel")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("selected object vanished", func(t *testing.T) {
		rec := get(newCarouselHandler(&fakeStore{keys: []string{"a.jpg"}}), "/carousel")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestCarouselView(t *testing.T) {
	handler := newCarouselHandler(&fakeStore{})

	t.Run("defaults", func(t *testing.T) {
		rec := get(handler, "/carousel/view")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "const intervalMs = 10000;") {
			t.Errorf("view missing default interval: %s", body)
		}
		if !strings.Contains(body, `"/carousel?random=false"`) {
			t.Errorf("view missing base url: %s", body)
		}
	})

	t.Run("explicit refresh and random", func(t *testing.T) {
		rec := get(handler, "/carousel/view?refresh=60&random=1")
		body := rec.Body.String()
		if !strings.Contains(body, "const intervalMs = 60000;") {
			t.Errorf("view missing interval: %s", body)
		}
		if !strings.Contains(body, `"/carousel?random=true"`) {
			t.Errorf("view missing random flag: %s", body)
		}
	})

	t.Run("rejects out-of-range refresh", func(t *testing.T) {
		for _, target := range []string{
			"/carousel/view?refresh=0",
			"/carousel/view?refresh=3601",
			"/carousel/view?refresh=abc",
			"/carousel/view?refresh=%20",
		} {
			if rec := get(handler, target); rec.Code != http.StatusBadRequest {
				t.Errorf("%s status = %d, want 400", target, rec.Code)
			}
		}
	})
}
