package moments

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is the pagination sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Cursor points into the total order defined by the (date, id) composite key.
// It is opaque to callers and must round-trip exactly through the codec.
type Cursor struct {
	Date  time.Time
	ID    primitive.ObjectID
	Order Order
}

// ErrInvalidCursor is the single error returned for any structurally broken
// cursor. Internal parse detail is deliberately not exposed.
var ErrInvalidCursor = errors.New("invalid cursor format")

type cursorPayload struct {
	Date  string `json:"date"`
	ID    string `json:"id"`
	Order string `json:"order"`
}

// EncodeCursor serializes (date, id, order) as compact JSON wrapped in
// URL-safe base64 without padding. The date is UTC ISO-8601 with a literal
// "Z" suffix.
func EncodeCursor(date time.Time, id primitive.ObjectID, order Order) string {
	payload := cursorPayload{
		Date:  date.UTC().Format(time.RFC3339Nano),
		ID:    id.Hex(),
		Order: string(order),
	}
	raw, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor, tolerating padded input.
func DecodeCursor(cursor string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(cursor, "="))
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	var payload cursorPayload
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	if err := decoder.Decode(&payload); err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	date, err := time.Parse(time.RFC3339Nano, payload.Date)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	id, err := primitive.ObjectIDFromHex(payload.ID)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	order := Order(payload.Order)
	if order != OrderAsc && order != OrderDesc {
		return Cursor{}, ErrInvalidCursor
	}

	return Cursor{Date: date.UTC(), ID: id, Order: order}, nil
}
