package models

// Set is an immutable collection of items holding at most one item per type.
// Mutating methods return a new Set and leave the receiver untouched, so a
// Set can be shared with stream subscribers without copying.
type Set struct {
	values map[ItemType]string
}

// NewSet builds a set from items. A later item replaces an earlier item of
// the same type.
func NewSet(items ...Item) Set {
	values := make(map[ItemType]string, len(items))
	for _, item := range items {
		values[item.Type] = item.Value
	}
	return Set{values: values}
}

func (s Set) Len() int {
	return len(s.values)
}

func (s Set) IsEmpty() bool {
	return len(s.values) == 0
}

// Get returns the item of type t, if present.
func (s Set) Get(t ItemType) (Item, bool) {
	v, ok := s.values[t]
	if !ok {
		return Item{}, false
	}
	return Item{Type: t, Value: v}, true
}

func (s Set) Contains(t ItemType) bool {
	_, ok := s.values[t]
	return ok
}

// With returns a copy of s where the item of type t holds value, inserting
// it when absent.
func (s Set) With(t ItemType, value string) Set {
	next := s.clone(1)
	next.values[t] = value
	return next
}

// Without returns a copy of s minus every item matching drop.
func (s Set) Without(drop func(ItemType) bool) Set {
	next := s.clone(0)
	for t := range next.values {
		if drop(t) {
			delete(next.values, t)
		}
	}
	return next
}

// Ordered lists the items in DisplayOrder, skipping unpopulated categories.
func (s Set) Ordered() []Item {
	items := make([]Item, 0, len(s.values))
	for _, t := range DisplayOrder {
		if v, ok := s.values[t]; ok {
			items = append(items, Item{Type: t, Value: v})
		}
	}
	return items
}

func (s Set) clone(extra int) Set {
	values := make(map[ItemType]string, len(s.values)+extra)
	for t, v := range s.values {
		values[t] = v
	}
	return Set{values: values}
}
