package matcher

// Filter names.
const (
	// FilterType keeps candidates typed under any of the filter classes.
	FilterType = "type"
	// FilterTarget keeps candidates typed under all of the filter classes.
	FilterTarget = "target"
)

// Filter restricts the candidates before scoring. A filter without class
// ids does not restrict anything.
type Filter struct {
	Name     string   `json:"name"`
	ClassIDs []string `json:"class_ids,omitempty"`
}

// Query is a profile of class ids to match against.
type Query struct {
	IDs        []string `json:"query_ids"`
	NegatedIDs []string `json:"negated_query_ids,omitempty"`
	Filter     *Filter  `json:"filter,omitempty"`
	// Limit truncates the ranked list; 0 means no limit. Entries tied with
	// the last kept rank are kept too.
	Limit int `json:"limit,omitempty"`
}

// Match is one ranked candidate.
type Match struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// MatchSet is the result of a Match call: the resolved query (ids replaced
// by their representative ids) and the ranked matches.
type MatchSet struct {
	Matcher string  `json:"matcher"`
	Query   Query   `json:"query"`
	Matches []Match `json:"matches"`
}

// MatchesWithRank returns the matches sharing rank r.
func (s *MatchSet) MatchesWithRank(r int) []Match {
	var out []Match
	for _, m := range s.Matches {
		if m.Rank == r {
			out = append(out, m)
		}
	}
	return out
}

// Rank returns the rank of the individual id, or false if it is not among
// the matches.
func (s *MatchSet) Rank(id string) (int, bool) {
	for _, m := range s.Matches {
		if m.ID == id {
			return m.Rank, true
		}
	}
	return 0, false
}
