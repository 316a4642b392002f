package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"samivl/internal/models"
	"samivl/pkg/utils"
)

// DateLayout is the MM/DD/YYYY format the search endpoint expects.
const DateLayout = "01/02/2006"

// API errors.
var (
	ErrQuotaExhausted = errors.New("daily API quota exhausted")
	ErrNoRoster       = errors.New("notice has no interested vendor list")
	ErrInvalidBaseURL = errors.New("invalid API base URL")
)

// SearchParams selects one page of notices.
type SearchParams struct {
	Limit      int
	Offset     int
	PostedFrom time.Time
	PostedTo   time.Time
	PType      string
	OrgCode    string
}

type searchResponse struct {
	TotalRecords      int            `json:"totalRecords"`
	OpportunitiesData []noticeResult `json:"opportunitiesData"`
}

type noticeResult struct {
	NoticeID   string `json:"noticeId"`
	Title      string `json:"title"`
	PostedDate string `json:"postedDate"`
}

type rosterResponse struct {
	IVL []vendorResult `json:"ivl"`
}

type vendorResult struct {
	UEISAM     string `json:"ueiSAM"`
	CageNumber string `json:"cageNumber"`
	Name       string `json:"name"`
}

// Client talks to the SAM.gov opportunities v2 API.
type Client struct {
	scraper *Scraper
	baseURL *url.URL
	apiKey  string
}

// NewClient creates a client for baseURL, e.g. https://api.sam.gov/opportunities/v2.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	return NewClientWithScraper(baseURL, apiKey, NewScraper(timeout))
}

// NewClientWithScraper creates a client with an injected scraper.
func NewClientWithScraper(baseURL, apiKey string, scraper *Scraper) (*Client, error) {
	trimmed := strings.TrimRight(baseURL, "/")
	if !utils.IsValidURL(trimmed) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	return &Client{scraper: scraper, baseURL: u, apiKey: apiKey}, nil
}

// SearchNotices fetches one page of notices sorted newest first.
func (c *Client) SearchNotices(ctx context.Context, p SearchParams) ([]models.NoticeRecord, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(p.Offset))
	q.Set("postedFrom", p.PostedFrom.Format(DateLayout))
	q.Set("postedTo", p.PostedTo.Format(DateLayout))
	q.Set("ptype", p.PType)
	q.Set("sortBy", "-postedDate")
	q.Set("organizationCode", p.OrgCode)

	resp, err := c.scraper.Fetch(ctx, c.endpoint(q, "search"))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExhausted
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	notices := make([]models.NoticeRecord, 0, len(body.OpportunitiesData))
	for _, n := range body.OpportunitiesData {
		notices = append(notices, models.NoticeRecord{
			NoticeID:   n.NoticeID,
			Title:      strings.TrimSpace(n.Title),
			PostedDate: n.PostedDate,
			PType:      p.PType,
		})
	}

	return notices, nil
}

// FetchRoster returns the interested vendor list of one notice.
func (c *Client) FetchRoster(ctx context.Context, noticeID string) ([]models.RosterEntry, error) {
	resp, err := c.scraper.Fetch(ctx, c.endpoint(url.Values{}, "opportunities", noticeID, "ivl"))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrQuotaExhausted
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: status %d", ErrNoRoster, resp.StatusCode)
	case !resp.OK():
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var body rosterResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode roster response: %w", err)
	}

	entries := make([]models.RosterEntry, 0, len(body.IVL))
	for _, v := range body.IVL {
		entries = append(entries, models.RosterEntry{
			NoticeID:   noticeID,
			UEI:        v.UEISAM,
			CAGE:       v.CageNumber,
			VendorName: v.Name,
		})
	}

	return entries, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.scraper.Close()
}

func (c *Client) endpoint(q url.Values, segments ...string) string {
	u := *c.baseURL

	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	u.RawPath = c.baseURL.EscapedPath() + "/" + strings.Join(escaped, "/")
	u.Path = c.baseURL.Path + "/" + strings.Join(segments, "/")

	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String()
}
