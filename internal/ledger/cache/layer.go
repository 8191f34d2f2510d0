package cache

// Layer groups the regions used by the transaction service.
type Layer struct {
	Query *Region
	Stats *Region
}

// NewLayer builds a Layer with the given region sizes.
func NewLayer(querySize, statsSize int) *Layer {
	return &Layer{
		Query: NewRegion("query", querySize),
		Stats: NewRegion("stats", statsSize),
	}
}

// InvalidateAll empties every region. It must run after each committed write.
func (l *Layer) InvalidateAll() {
	l.Query.Invalidate()
	l.Stats.Invalidate()
}

// Same returns v unchanged. It is the clone func for immutable values.
func Same[T any](v T) T {
	return v
}
