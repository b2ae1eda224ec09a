package entity

// Preference is a user's content preference profile, supplied by the caller
// and consumed as a query filter. Each dimension is matched disjunctively
// (any preferred source, any category, any author fragment) and dimensions
// are combined conjunctively; an empty dimension is omitted from the query
// entirely rather than matching nothing.
type Preference struct {
	SourceIDs  []int64
	Categories []string
	Authors    []string
}

// Empty reports whether no preference dimension is configured.
func (p Preference) Empty() bool {
	return len(p.SourceIDs) == 0 && len(p.Categories) == 0 && len(p.Authors) == 0
}
