package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Concept struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SampleQuestion string `json:"sample_question"`
}

// Tutor is the ordered list of concepts the tutor can teach.
type Tutor struct {
	concepts []Concept
}

func ParseTutor(data []byte) (*Tutor, error) {
	var concepts []Concept
	if err := json.Unmarshal(data, &concepts); err != nil {
		return nil, fmt.Errorf("failed to decode tutor content: %w", err)
	}
	if len(concepts) == 0 {
		return nil, errors.New("tutor content has no concepts")
	}

	seen := make(map[string]struct{}, len(concepts))
	for _, c := range concepts {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("concept %q needs an id and a title", c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("duplicate concept id %s", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return &Tutor{concepts: slices.Clone(concepts)}, nil
}

func (t *Tutor) Len() int {
	if t == nil {
		return 0
	}
	return len(t.concepts)
}

func (t *Tutor) Concepts() []Concept {
	if t == nil {
		return nil
	}
	return slices.Clone(t.concepts)
}

// At returns the concept at index i.
func (t *Tutor) At(i int) (Concept, bool) {
	if t == nil || i < 0 || i >= len(t.concepts) {
		return Concept{}, false
	}
	return t.concepts[i], true
}

// Find returns the index of the concept with the given id, ignoring case.
func (t *Tutor) Find(id string) (int, bool) {
	if t == nil {
		return 0, false
	}
	id = strings.TrimSpace(id)
	for i, c := range t.concepts {
		if strings.EqualFold(c.ID, id) {
			return i, true
		}
	}
	return 0, false
}
