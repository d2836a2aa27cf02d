package output

import "github.com/lox/ghsearch/internal/search"

type SearchResult struct {
	ID        int64  `json:"id" yaml:"id"`
	Login     string `json:"login" yaml:"login"`
	Type      string `json:"type" yaml:"type"`
	URL       string `json:"url" yaml:"url"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
}

type SearchResults struct {
	Query      string         `json:"query" yaml:"query"`
	TotalCount int            `json:"total_count" yaml:"total_count"`
	Pages      int            `json:"pages" yaml:"pages"`
	Items      []SearchResult `json:"items" yaml:"items"`
}

// NewSearchResults converts a controller snapshot into printable results.
func NewSearchResults(snap search.Snapshot) SearchResults {
	items := make([]SearchResult, 0, len(snap.Items))
	for _, u := range snap.Items {
		items = append(items, SearchResult{
			ID:        u.ID,
			Login:     u.Login,
			Type:      u.Type,
			URL:       u.HTMLURL,
			AvatarURL: u.AvatarURL,
		})
	}
	return SearchResults{
		Query:      snap.Query,
		TotalCount: snap.TotalCount,
		Pages:      snap.Page,
		Items:      items,
	}
}
