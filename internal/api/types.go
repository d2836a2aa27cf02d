package api

// User is a single search hit. Two users with the same ID are the same account.
type User struct {
	ID        int64   `json:"id" yaml:"id"`
	Login     string  `json:"login" yaml:"login"`
	Type      string  `json:"type" yaml:"type"`
	AvatarURL string  `json:"avatar_url" yaml:"avatar_url"`
	HTMLURL   string  `json:"html_url" yaml:"html_url"`
	Score     float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// SearchPage is one page of a user search.
type SearchPage struct {
	Items      []User
	TotalCount int
	// Incomplete mirrors GitHub's incomplete_results flag, set when the
	// search timed out server side.
	Incomplete bool
}

// clampTotal caps the reported total at the number of results the search
// API will actually serve.
func clampTotal(total, maxResults int) int {
	if total < 0 {
		return 0
	}
	if maxResults > 0 && total > maxResults {
		return maxResults
	}
	return total
}
