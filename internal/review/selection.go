package review

import (
	"github.com/google/uuid"
)

// Selection is an immutable set of preview ids. Every transition returns a new value
// and ids keep the order in which they were first selected.
type Selection struct {
	ids []uuid.UUID
}

func NewSelection(ids ...uuid.UUID) Selection {
	return Selection{}.Select(ids...)
}

func (s Selection) Has(id uuid.UUID) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s Selection) Len() int {
	return len(s.ids)
}

func (s Selection) IDs() []uuid.UUID {
	return append([]uuid.UUID{}, s.ids...)
}

func (s Selection) Select(ids ...uuid.UUID) Selection {
	next := s.IDs()
	seen := idSet(next)
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			next = append(next, id)
		}
	}
	return Selection{ids: next}
}

func (s Selection) Deselect(ids ...uuid.UUID) Selection {
	drop := idSet(ids)
	next := make([]uuid.UUID, 0, len(s.ids))
	for _, v := range s.ids {
		if _, ok := drop[v]; !ok {
			next = append(next, v)
		}
	}
	return Selection{ids: next}
}

func (s Selection) Toggle(id uuid.UUID) Selection {
	if s.Has(id) {
		return s.Deselect(id)
	}
	return s.Select(id)
}

// SelectAll adds every item of a lane to the selection.
func (s Selection) SelectAll(items []Item) Selection {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Preview.ID)
	}
	return s.Select(ids...)
}

func (s Selection) Clear() Selection {
	return Selection{}
}

// Expansion tracks which previews show their raw extraction instead of the summary.
// It has the same transitions as Selection and is equally independent of lanes.
type Expansion = Selection

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
