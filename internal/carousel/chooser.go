package carousel

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
)

// ErrEmptyIndex is returned when there is nothing to choose from.
var ErrEmptyIndex = errors.New("image index is empty")

// Chooser picks the next carousel image. Sequential mode walks the sorted
// basenames with a mutex-guarded cursor owned by the instance, so two services
// in one process never share rotation state.
type Chooser struct {
	mu        sync.Mutex
	cursor    int
	randIndex func(n int) int
}

func NewChooser() *Chooser {
	return &Chooser{randIndex: rand.Intn}
}

// Choose returns the selected basename and its object key. Random mode does
// not advance the sequential cursor.
func (c *Chooser) Choose(index map[string]string, useRandom bool) (string, string, error) {
	if len(index) == 0 {
		return "", "", ErrEmptyIndex
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	c.mu.Lock()
	var selected string
	if useRandom {
		selected = names[c.randIndex(len(names))]
	} else {
		selected = names[c.cursor%len(names)]
		c.cursor = (c.cursor + 1) % len(names)
	}
	c.mu.Unlock()

	return selected, index[selected], nil
}
