// Package arxiv fetches candidate papers from the arXiv Atom API.
package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/FaroutYLq/whatsup/internal/library"
)

const (
	apiURL    = "http://export.arxiv.org/api/query"
	userAgent = "FaroutYLq/whatsup"

	defaultMaxResults = 100
	defaultSortBy     = "submittedDate"
)

type Client struct {
	logger     *zap.Logger
	parser     *gofeed.Parser
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
}

// SearchParams selects which papers to fetch.
type SearchParams struct {
	Categories []string `mapstructure:"categories"`
	MaxResults int      `mapstructure:"max-results"`
	SortBy     string   `mapstructure:"sort-by"`
}

func New(logger *zap.Logger) *Client {
	return &Client{
		logger: logger,
		parser: gofeed.NewParser(),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		APIURL:    apiURL,
		UserAgent: userAgent,
	}
}

// Search queries the arXiv API and returns the latest submissions for the
// configured categories.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*library.Papers, error) {
	if params == nil || len(params.Categories) == 0 {
		return nil, fmt.Errorf("at least one arxiv category is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.URL.RawQuery = buildQuery(params).Encode()

	c.logger.Debug("fetching arxiv feed", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	papers := &library.Papers{}
	for _, item := range feed.Items {
		papers.Items = append(papers.Items, itemToPaper(item))
	}

	c.logger.Debug("got arxiv feed", zap.Int("entries", papers.Len()))

	return papers, nil
}

func buildQuery(params *SearchParams) url.Values {
	terms := make([]string, 0, len(params.Categories))
	for _, category := range params.Categories {
		if category = strings.TrimSpace(category); category != "" {
			terms = append(terms, "cat:"+category)
		}
	}

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	sortBy := strings.TrimSpace(params.SortBy)
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	q := url.Values{}
	q.Set("search_query", strings.Join(terms, " OR "))
	q.Set("sortBy", sortBy)
	q.Set("sortOrder", "descending")
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(maxResults))

	return q
}

func itemToPaper(item *gofeed.Item) *library.Paper {
	authors := make([]string, 0, len(item.Authors))
	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			authors = append(authors, author.Name)
		}
	}

	year := ""
	if item.PublishedParsed != nil {
		year = strconv.Itoa(item.PublishedParsed.Year())
	}

	return &library.Paper{
		ID:         idFromEntry(item.GUID),
		Title:      collapseWhitespace(item.Title),
		Abstract:   collapseWhitespace(item.Description),
		Authors:    strings.Join(authors, ", "),
		Year:       year,
		Categories: item.Categories,
		URL:        item.Link,
	}
}

// idFromEntry extracts the arXiv identifier from an Atom entry id such as
// "http://arxiv.org/abs/2401.01234v1".
func idFromEntry(entryID string) string {
	if idx := strings.Index(entryID, "/abs/"); idx != -1 {
		return entryID[idx+len("/abs/"):]
	}
	return entryID
}

// collapseWhitespace flattens the hard-wrapped text arXiv returns in titles
// and abstracts.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
