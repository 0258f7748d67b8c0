package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytmp3/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
)

// URL parameters and templates
const (
	PlaylistURLParam        = "list="
	PlaylistParamSeparator  = "&"
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
	YouTubePlaylistBaseURL  = "https://www.youtube.com/playlist"
)

// Playlist title constants
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	PlaylistSuffix       = " Playlist"
	MinPrefixLength      = 10
	PageTitleSuffix      = " - YouTube"
)

// PlaylistParserService enumerates playlist items through yt-dlp's playlist
// API. The playlist title is not part of that API, so it is scraped from the
// public playlist page and otherwise derived from the item titles.
type PlaylistParserService struct {
	timeout    time.Duration
	httpClient *http.Client
	pageURL    string
	logger     *slog.Logger
}

// NewPlaylistParserService creates a new playlist parser service
func NewPlaylistParserService(logger *slog.Logger) *PlaylistParserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistParserService{
		timeout:    DefaultPlaylistParseTimeout,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageURL:    YouTubePlaylistBaseURL,
		logger:     logger,
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParserService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// ParsePlaylist resolves a YouTube playlist URL into its ordered items
func (p *PlaylistParserService) ParsePlaylist(ctx context.Context, url string) (*model.PlaylistMetadata, error) {
	playlistID, err := p.extractPlaylistID(url)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist URL %s: %w", url, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	refs := make([]model.VideoRef, 0, len(items))
	for _, it := range items {
		refs = append(refs, model.VideoRef{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}

	title, err := p.FetchPlaylistTitle(ctx, playlistID)
	if err != nil || title == "" {
		p.logger.Debug("playlist page title unavailable, deriving from items", "playlist_id", playlistID, "error", err)
		title = p.extractPlaylistTitle(refs)
	}

	return &model.PlaylistMetadata{
		ID:    playlistID,
		Title: title,
		URL:   url,
		Items: refs,
	}, nil
}

// FetchPlaylistTitle scrapes the playlist title from the public playlist page
func (p *PlaylistParserService) FetchPlaylistTitle(ctx context.Context, playlistID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL+"?list="+playlistID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("playlist page returned %s", resp.Status)
	}

	return titleFromPage(resp.Body)
}

// titleFromPage reads og:title, falling back to the document title
func titleFromPage(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse playlist page: %w", err)
	}

	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title, nil
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(strings.TrimSuffix(title, PageTitleSuffix))
	if title == "" || title == "YouTube" {
		return "", fmt.Errorf("playlist page has no title")
	}
	return title, nil
}

// isValidPlaylistURL checks if the URL is a valid YouTube playlist URL
func (p *PlaylistParserService) isValidPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistURLParam)
}

// extractPlaylistID extracts the playlist ID from a YouTube playlist URL
// Supported formats:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func (p *PlaylistParserService) extractPlaylistID(url string) (string, error) {
	if !p.isValidPlaylistURL(url) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	parts := strings.Split(url, PlaylistURLParam)
	if len(parts) < 2 {
		return "", fmt.Errorf("could not extract playlist ID from URL")
	}

	playlistID := parts[1]
	if strings.Contains(playlistID, PlaylistParamSeparator) {
		playlistID = strings.Split(playlistID, PlaylistParamSeparator)[0]
	}

	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID")
	}

	return playlistID, nil
}

// extractPlaylistTitle generates a title for the playlist based on its items
func (p *PlaylistParserService) extractPlaylistTitle(items []model.VideoRef) string {
	if len(items) == 0 {
		return DefaultPlaylistTitle
	}
	if len(items) > 1 {
		commonPrefix := findCommonPrefix(items[0].Title, items[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return items[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings without
// splitting a multi-byte character
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	end := minLen
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			end = i
			break
		}
	}
	prefix := s1[:end]
	for !utf8.ValidString(prefix) {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
