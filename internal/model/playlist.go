package model

// VideoRef is a single entry of a resolved playlist
type VideoRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaylistMetadata is a resolved playlist. Items keep the order reported by
// the resolver, which is also the download order.
type PlaylistMetadata struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	URL   string     `json:"url"`
	Items []VideoRef `json:"items"`
}

// TotalItems returns the number of items advertised by the playlist
func (p *PlaylistMetadata) TotalItems() int {
	return len(p.Items)
}
