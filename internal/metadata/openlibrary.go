package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/booxsync/internal/entities"
)

// OpenLibraryClient looks up book metadata by ISBN via the OpenLibrary
// Books API. It serves as the secondary source when the primary search
// yields nothing usable but an identifier was recovered.
type OpenLibraryClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

// NewOpenLibraryClient creates an OpenLibrary API client with rate
// limiting and a bounded request timeout.
func NewOpenLibraryClient(timeout time.Duration) *OpenLibraryClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     "https://openlibrary.org",
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// LookupISBN fetches metadata for a single ISBN. The API returns a JSON
// map keyed "ISBN:<isbn>"; an ISBN the service does not know yields an
// empty map, which is reported as not found.
func (c *OpenLibraryClient) LookupISBN(ctx context.Context, isbn string) (*entities.BookMetadata, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}

	c.rateLimiter.wait()

	lookupURL := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=data", c.baseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "BooxSync/1.0 (https://github.com/mrlokans/booxsync)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ISBN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload map[string]openLibraryRecord
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	record, ok := payload["ISBN:"+isbn]
	if !ok {
		return nil, fmt.Errorf("ISBN not found: %s", isbn)
	}

	return convertOpenLibraryRecord(&record, isbn), nil
}

func convertOpenLibraryRecord(record *openLibraryRecord, isbn string) *entities.BookMetadata {
	metadata := &entities.BookMetadata{
		Title:       record.Title,
		Source:      entities.MetadataSourceOpenLibrary,
		PublishDate: record.PublishDate,
		Description: record.Notes,
		URL:         record.URL,
	}

	for _, author := range record.Authors {
		if author.Name != "" {
			metadata.Author = append(metadata.Author, author.Name)
		}
	}
	if len(record.Publishers) > 0 {
		metadata.Publisher = record.Publishers[0].Name
	}
	if record.NumberOfPages > 0 {
		metadata.PageCount = strconv.Itoa(record.NumberOfPages)
	}
	if len(isbn) == 13 {
		metadata.ISBN13 = isbn
	} else {
		metadata.ISBN10 = isbn
	}
	metadata.Cover = fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn)

	return metadata
}

// normalizeISBN removes hyphens and spaces from an ISBN and rejects
// anything that is not 10 or 13 digits long.
func normalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.TrimSpace(isbn)

	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}
	return isbn
}

// OpenLibrary API response types (internal)

type openLibraryRecord struct {
	Title         string            `json:"title"`
	Authors       []openLibraryName `json:"authors"`
	Publishers    []openLibraryName `json:"publishers"`
	PublishDate   string            `json:"publish_date"`
	NumberOfPages int               `json:"number_of_pages"`
	Notes         string            `json:"notes"`
	URL           string            `json:"url"`
}

type openLibraryName struct {
	Name string `json:"name"`
}
