package moments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// ListQuery carries the optional list parameters after request validation.
type ListQuery struct {
	From       *time.Time
	To         *time.Time
	Visibility string // "" => not filtered
	Cursor     *Cursor
	Order      Order
}

// Build composes the document-store filter and sort for a list request.
//
// The cursor filter implements strict-after/strict-before semantics on the
// (date, _id) composite key:
//
//	(date OP cursor.date) OR (date = cursor.date AND _id OP cursor.id)
//
// with OP being $gt for ascending and $lt for descending. Sorting applies the
// same direction to both key parts; together these guarantee that no result
// repeats or goes missing across pages, even when many moments share a date.
func (q ListQuery) Build() (bson.M, bson.D, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, nil, validationError("'from' must be less than or equal to 'to'")
	}

	base := bson.M{}
	if q.From != nil || q.To != nil {
		dateFilter := bson.M{}
		if q.From != nil {
			dateFilter["$gte"] = *q.From
		}
		if q.To != nil {
			dateFilter["$lte"] = *q.To
		}
		base["date"] = dateFilter
	}
	if q.Visibility != "" {
		base["visibility"] = q.Visibility
	}

	filter := base
	if q.Cursor != nil {
		cursorFilter, err := buildCursorFilter(*q.Cursor, q.Order)
		if err != nil {
			return nil, nil, err
		}
		if len(base) == 0 {
			filter = cursorFilter
		} else {
			filter = bson.M{"$and": bson.A{base, cursorFilter}}
		}
	}

	direction := -1
	if q.Order == OrderAsc {
		direction = 1
	}
	sort := bson.D{{Key: "date", Value: direction}, {Key: "_id", Value: direction}}

	return filter, sort, nil
}

func buildCursorFilter(cursor Cursor, order Order) (bson.M, error) {
	// A cursor minted for one direction is not reinterpreted for the other.
	if cursor.Order != order {
		return nil, invalidCursorError("Cursor order does not match request order")
	}

	op := "$lt"
	if order == OrderAsc {
		op = "$gt"
	}

	return bson.M{
		"$or": bson.A{
			bson.M{"date": bson.M{op: cursor.Date}},
			bson.M{"date": cursor.Date, "_id": bson.M{op: cursor.ID}},
		},
	}, nil
}
