package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/booxsync/internal/entities"
)

// titleDenylist filters machine-generated companion works out of search
// results. Matching is case-insensitive substring; a denylisted volume is
// never selected automatically, though its identifiers may still seed a
// secondary lookup.
var titleDenylist = []string{
	"summary",
	"study guide",
	"key insights",
	"milkyway media",
}

// PrimaryResult is what a primary source search yields: the first usable
// match after filtering, plus any identifier recovered from the raw
// response even when no volume survived the filter.
type PrimaryResult struct {
	Match         *entities.BookMetadata
	RecoveredISBN string
}

// GoogleBooksClient searches the Google Books volumes API by title and
// author.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewGoogleBooksClient creates a Google Books API client with rate
// limiting and a bounded request timeout.
func NewGoogleBooksClient(timeout time.Duration) *GoogleBooksClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     "https://www.googleapis.com",
		rateLimiter: newRateLimiter(time.Second),
	}
}

// Search queries the volumes API with a combined title+author query and
// returns the first result that survives the denylist filter, preserving
// the API's own result ordering.
func (c *GoogleBooksClient) Search(ctx context.Context, title string, authors []string) (*PrimaryResult, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	c.rateLimiter.wait()

	query := title
	if len(authors) > 0 {
		query = fmt.Sprintf("%s %s", title, strings.Join(authors, " "))
	}
	searchURL := fmt.Sprintf("%s/books/v1/volumes?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "BooxSync/1.0 (https://github.com/mrlokans/booxsync)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var searchResult googleVolumesResult
	if err := json.NewDecoder(resp.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &PrimaryResult{}
	for i := range searchResult.Items {
		info := &searchResult.Items[i].VolumeInfo

		// Remember the first identifier seen regardless of filtering, so
		// the resolver can fall back to an ISBN-keyed lookup.
		if result.RecoveredISBN == "" {
			if isbn13, isbn10 := info.identifiers(); isbn13 != "" {
				result.RecoveredISBN = isbn13
			} else if isbn10 != "" {
				result.RecoveredISBN = isbn10
			}
		}

		if isDenylisted(info.Title) {
			continue
		}
		if result.Match == nil {
			result.Match = convertVolumeInfo(info, title, authors)
		}
	}

	return result, nil
}

func isDenylisted(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range titleDenylist {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func convertVolumeInfo(info *googleVolumeInfo, fallbackTitle string, fallbackAuthors []string) *entities.BookMetadata {
	metadata := &entities.BookMetadata{
		Title:       info.Title,
		Author:      info.Authors,
		Source:      entities.MetadataSourceGoogleBooks,
		Publisher:   info.Publisher,
		PublishDate: info.PublishedDate,
		Description: info.Description,
		URL:         info.InfoLink,
	}
	if metadata.Title == "" {
		metadata.Title = fallbackTitle
	}
	if len(metadata.Author) == 0 {
		metadata.Author = fallbackAuthors
	}
	if info.PageCount > 0 {
		metadata.PageCount = strconv.Itoa(info.PageCount)
	}
	if len(info.Categories) > 0 {
		metadata.Category = info.Categories[0]
	}
	if info.Language != "" {
		metadata.Language = info.Language
	}
	if info.ImageLinks.Thumbnail != "" {
		metadata.Cover = info.ImageLinks.Thumbnail
	}

	isbn13, isbn10 := info.identifiers()
	metadata.ISBN13 = isbn13
	metadata.ISBN10 = isbn10

	return metadata
}

// Google Books API response types (internal)

type googleVolumesResult struct {
	TotalItems int            `json:"totalItems"`
	Items      []googleVolume `json:"items"`
}

type googleVolume struct {
	ID         string           `json:"id"`
	VolumeInfo googleVolumeInfo `json:"volumeInfo"`
}

type googleVolumeInfo struct {
	Title               string           `json:"title"`
	Authors             []string         `json:"authors"`
	Publisher           string           `json:"publisher"`
	PublishedDate       string           `json:"publishedDate"`
	PageCount           int              `json:"pageCount"`
	IndustryIdentifiers []industryID     `json:"industryIdentifiers"`
	Categories          []string         `json:"categories"`
	Description         string           `json:"description"`
	InfoLink            string           `json:"infoLink"`
	Language            string           `json:"language"`
	ImageLinks          googleImageLinks `json:"imageLinks"`
}

type googleImageLinks struct {
	Thumbnail string `json:"thumbnail"`
}

type industryID struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

func (v *googleVolumeInfo) identifiers() (isbn13, isbn10 string) {
	for _, id := range v.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			if isbn13 == "" {
				isbn13 = id.Identifier
			}
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn13, isbn10
}
