package moments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mxkvch/valentine/internal/logger"
)

const (
	titleMaxLength = 200
	textMaxLength  = 5000

	defaultLimit = 20
	maxLimit     = 100

	// VisibilityDraft and VisibilityPublic are the only visibility states.
	VisibilityDraft  = "draft"
	VisibilityPublic = "public"
)

// Document is the stored shape of a moment. Images stays untyped because
// historical records carry three different shapes; the normalizer is the only
// place allowed to interpret it.
type Document struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Text       *string            `bson:"text"`
	Date       time.Time          `bson:"date"`
	Images     interface{}        `bson:"images"`
	Visibility string             `bson:"visibility"`
	Tags       []string           `bson:"tags"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// Moment is the serialized API shape of a document.
type Moment struct {
	ID         string   `json:"_id"`
	Title      string   `json:"title"`
	Text       *string  `json:"text"`
	Date       string   `json:"date"`
	Images     []string `json:"images"`
	Visibility string   `json:"visibility"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// Serialize converts a stored document into the API shape. The images field
// goes through tolerant normalization so a dirty record degrades instead of
// breaking the read path.
func Serialize(doc Document, log logger.Logger) Moment {
	images, _ := NormalizeStoredImages(doc.Images, doc.ID.Hex(), false, log)

	visibility := doc.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	return Moment{
		ID:         doc.ID.Hex(),
		Title:      doc.Title,
		Text:       doc.Text,
		Date:       formatUTC(doc.Date),
		Images:     images,
		Visibility: visibility,
		Tags:       tags,
		CreatedAt:  formatUTC(doc.CreatedAt),
		UpdatedAt:  formatUTC(doc.UpdatedAt),
	}
}

func formatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
