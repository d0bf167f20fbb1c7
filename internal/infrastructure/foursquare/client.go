package foursquare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/travel-advisor/internal/domain"
	"github.com/travel-advisor/internal/pkg/metrics"
)

const (
	searchFields  = "fsq_id,location,name"
	detailsFields = "description,website,hours,rating,price,photos,tips"
)

// Client calls the Foursquare Places v3 API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	metrics *metrics.Metrics
}

// NewClient returns a client for baseURL (e.g. https://api.foursquare.com/v3).
// httpClient may be nil to use http.DefaultClient; m may be nil.
func NewClient(baseURL, apiKey string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		metrics: m,
	}
}

type searchResponse struct {
	Results []struct {
		FsqID    string `json:"fsq_id"`
		Name     string `json:"name"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
			Locality         string `json:"locality"`
		} `json:"location"`
	} `json:"results"`
}

type detailsResponse struct {
	Description string `json:"description"`
	Website     string `json:"website"`
	Hours       struct {
		Display string `json:"display"`
	} `json:"hours"`
	Rating *float64 `json:"rating"`
	Price  *int     `json:"price"`
	Photos []struct {
		Prefix string `json:"prefix"`
		Suffix string `json:"suffix"`
	} `json:"photos"`
	Tips []struct {
		Text string `json:"text"`
	} `json:"tips"`
}

// Search finds places matching query near a city. Results keep provider order.
func (c *Client) Search(ctx context.Context, query, near string, limit int) ([]domain.PlaceCandidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("near", near)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", searchFields)

	var resp searchResponse
	err := c.get(ctx, "/places/search", q, &resp)
	c.metrics.ObserveProvider("foursquare", "search", err)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PlaceCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, domain.PlaceCandidate{
			ID:       r.FsqID,
			Name:     r.Name,
			Address:  r.Location.FormattedAddress,
			Locality: r.Location.Locality,
		})
	}
	return out, nil
}

// Details fetches the enrichment fields of one place. Photos and tips keep provider order.
func (c *Client) Details(ctx context.Context, placeID string) (*domain.PlaceDetails, error) {
	q := url.Values{}
	q.Set("fields", detailsFields)

	var resp detailsResponse
	err := c.get(ctx, "/places/"+url.PathEscape(placeID), q, &resp)
	c.metrics.ObserveProvider("foursquare", "details", err)
	if err != nil {
		return nil, err
	}

	d := &domain.PlaceDetails{
		Description: resp.Description,
		Website:     resp.Website,
		Hours:       resp.Hours.Display,
		Rating:      resp.Rating,
		Price:       resp.Price,
	}
	for _, p := range resp.Photos {
		d.Photos = append(d.Photos, domain.Photo{Prefix: p.Prefix, Suffix: p.Suffix})
	}
	for _, t := range resp.Tips {
		d.Tips = append(d.Tips, t.Text)
	}
	return d, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build foursquare request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("foursquare %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("foursquare %s: status %d: %s", path, res.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode foursquare %s: %w", path, err)
	}
	return nil
}
