package fetcher

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-price-books/config"
	"github.com/aluiziolira/go-price-books/models"
)

// Static fetches result pages over plain HTTP. It works against targets
// that serve search results without a browser session; the browser engine
// is the default for the marketplace proper.
type Static struct {
	cfg       *config.Config
	transport http.RoundTripper
}

// NewStatic builds a static fetcher configured from cfg.
func NewStatic(cfg *config.Config) *Static {
	return &Static{
		cfg: cfg,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// Fetch performs one synchronous page fetch for the term.
func (s *Static) Fetch(ctx context.Context, term models.SearchTerm) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.cfg.Timeout)
	if s.transport != nil {
		c.WithTransport(s.transport)
	}

	var body string
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = classifyError(err, status)
	})

	if err := c.Visit(SearchURL(term)); err != nil {
		// The collector runs synchronously, so OnError has already fired
		// and fetchErr carries the status-aware classification when the
		// failure was an HTTP error.
		if fetchErr != nil {
			return "", fetchErr
		}
		return "", classifyError(err, 0)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fetchErr != nil {
		return "", fetchErr
	}
	if body == "" {
		return "", ErrConnection{Err: errors.New("empty response body")}
	}
	return body, nil
}

// Close is a no-op; the static fetcher holds no session state.
func (s *Static) Close() error {
	return nil
}
