package moments

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRepo is an in-memory Repository that evaluates the subset of filter
// syntax the query builder produces. It lets the handler and migration suites
// run without a live document store.
type fakeRepo struct {
	mu         sync.Mutex
	docs       []Document
	pingErr    error
	findErr    error
	imageWrite int
}

func newFakeRepo() *fakeRepo { return &fakeRepo{} }

func (f *fakeRepo) Insert(_ context.Context, doc Document) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	f.docs = append(f.docs, doc)
	return doc.ID, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id primitive.ObjectID) (Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return Document{}, ErrNotFound
}

func (f *fakeRepo) Find(_ context.Context, filter bson.M, sortSpec bson.D, limit int64) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}

	var matched []Document
	for _, doc := range f.docs {
		if matchDoc(doc, filter) {
			matched = append(matched, doc)
		}
	}

	direction := 1
	for _, field := range sortSpec {
		if field.Key == "date" {
			direction = field.Value.(int)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			if direction > 0 {
				return a.Date.Before(b.Date)
			}
			return a.Date.After(b.Date)
		}
		if direction > 0 {
			return a.ID.Hex() < b.ID.Hex()
		}
		return a.ID.Hex() > b.ID.Hex()
	})

	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeRepo) PatchByID(_ context.Context, id primitive.ObjectID, set bson.M) (Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs {
		if doc.ID != id {
			continue
		}
		for key, value := range set {
			switch key {
			case "title":
				doc.Title = value.(string)
			case "text":
				if value == nil {
					doc.Text = nil
				} else {
					doc.Text = value.(*string)
				}
			case "date":
				doc.Date = value.(time.Time)
			case "images":
				doc.Images = value
			case "visibility":
				doc.Visibility = value.(string)
			case "tags":
				doc.Tags = value.([]string)
			case "updatedAt":
				doc.UpdatedAt = value.(time.Time)
			}
		}
		f.docs[i] = doc
		return doc, nil
	}
	return Document{}, ErrNotFound
}

func (f *fakeRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs {
		if doc.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) Latest(ctx context.Context) (Document, error) {
	docs, err := f.Find(ctx, bson.M{}, bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}, 1)
	if err != nil {
		return Document{}, err
	}
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	return docs[0], nil
}

func (f *fakeRepo) Sample(_ context.Context) (Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.docs) == 0 {
		return Document{}, ErrNotFound
	}
	return f.docs[rand.Intn(len(f.docs))], nil
}

func (f *fakeRepo) ForEach(_ context.Context, fn func(Document) error) error {
	f.mu.Lock()
	snapshot := append([]Document(nil), f.docs...)
	f.mu.Unlock()
	for _, doc := range snapshot {
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) SetImages(_ context.Context, id primitive.ObjectID, images []string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs {
		if doc.ID == id {
			doc.Images = images
			doc.UpdatedAt = updatedAt
			f.docs[i] = doc
			f.imageWrite++
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }

func matchDoc(doc Document, filter bson.M) bool {
	for key, value := range filter {
		switch key {
		case "$and":
			for _, sub := range value.(bson.A) {
				if !matchDoc(doc, sub.(bson.M)) {
					return false
				}
			}
		case "$or":
			anyMatch := false
			for _, sub := range value.(bson.A) {
				if matchDoc(doc, sub.(bson.M)) {
					anyMatch = true
					break
				}
			}
			if !anyMatch {
				return false
			}
		case "date":
			if !matchDate(doc.Date, value) {
				return false
			}
		case "_id":
			if !matchID(doc.ID, value) {
				return false
			}
		case "visibility":
			if doc.Visibility != value.(string) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchDate(date time.Time, condition interface{}) bool {
	if exact, ok := condition.(time.Time); ok {
		return date.Equal(exact)
	}
	for op, raw := range condition.(bson.M) {
		bound := raw.(time.Time)
		switch op {
		case "$gte":
			if date.Before(bound) {
				return false
			}
		case "$lte":
			if date.After(bound) {
				return false
			}
		case "$gt":
			if !date.After(bound) {
				return false
			}
		case "$lt":
			if !date.Before(bound) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchID(id primitive.ObjectID, condition interface{}) bool {
	for op, raw := range condition.(bson.M) {
		bound := raw.(primitive.ObjectID)
		switch op {
		case "$gt":
			if id.Hex() <= bound.Hex() {
				return false
			}
		case "$lt":
			if id.Hex() >= bound.Hex() {
				return false
			}
		default:
			return false
		}
	}
	return true
}
