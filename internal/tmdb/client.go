package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotFound is returned when TMDB has no movie with the requested id.
var ErrNotFound = errors.New("tmdb: movie not found")

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// Movie carries the fields the list UI snapshots into a movie entry.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

type Page struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

func New(apiKey, base string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("tmdb url: %w", err)
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode != http.StatusOK:
		return fmt.Errorf("tmdb status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page, error) {
	q := url.Values{"query": {query}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out Page
	if err := c.get(ctx, "/search/movie", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	var out Movie
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendingMovies lists trending movies for window "day" (default) or "week".
func (c *Client) TrendingMovies(ctx context.Context, window string, page int) (*Page, error) {
	if window == "" {
		window = "day"
	}
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out Page
	if err := c.get(ctx, "/trending/movie/"+url.PathEscape(window), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
