package result

// Item is a single search hit. Every field value is a sequence.
type Item struct {
	id     string
	score  float64
	fields map[string][]any
}

// New creates a search hit.
func New(id string, score float64, fields map[string][]any) Item {
	if fields == nil {
		fields = map[string][]any{}
	}
	return Item{id: id, score: score, fields: fields}
}

// ID returns the document identifier.
func (r *Item) ID() string { return r.id }

// Score returns the engine-assigned relevance score.
func (r *Item) Score() float64 { return r.score }

// Fields returns the source fields of the hit.
func (r *Item) Fields() map[string][]any { return r.fields }

// Set is a page of hits plus the total number of matches.
type Set struct {
	total int
	items []Item
}

// NewSet creates a result set. Total and items are independent.
func NewSet(total int, items []Item) Set {
	return Set{total: total, items: items}
}

// Empty is the result of a search against a missing index.
func Empty() Set { return Set{} }

// Total returns the total number of matching documents.
func (s *Set) Total() int { return s.total }

// Items returns the hits of the current page.
func (s *Set) Items() []Item { return s.items }
