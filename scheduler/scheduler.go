// Package scheduler drives a book list sequentially through search,
// parsing, and aggregation while honoring the politeness delay between
// marketplace fetches.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aluiziolira/go-price-books/aggregate"
	"github.com/aluiziolira/go-price-books/config"
	"github.com/aluiziolira/go-price-books/fetcher"
	"github.com/aluiziolira/go-price-books/models"
	"github.com/aluiziolira/go-price-books/parser"
	"github.com/aluiziolira/go-price-books/query"
	"github.com/aluiziolira/go-price-books/results"
)

// Event is one entry on the progress stream. Exactly one event with a
// non-empty Status is emitted per recorded book; events with an empty
// Status are informational.
type Event struct {
	Index   int
	Term    models.SearchTerm
	Status  models.Status
	Message string
}

var errCancelled = errors.New("run cancelled")

// Scheduler processes an ordered book list into a result table. Books are
// handled strictly one at a time; the scheduler is the only writer of the
// table and the event stream.
type Scheduler struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
	Metrics *Metrics
	events  chan Event
}

// New builds a scheduler around the given fetch capability.
func New(cfg *config.Config, f fetcher.Fetcher) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		fetcher: f,
		Metrics: NewMetrics(),
		events:  make(chan Event, 64),
	}
}

// Events returns the progress stream. It is closed when Run returns, and
// must only be consumed by one reader.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Run processes the book list in order. Each book's failure is contained
// at the book boundary and recorded as an Error row; only losing the
// fetch session ends the run early with an error. Cancellation stops the
// run promptly, keeps already-recorded rows, and leaves the remaining
// books unprocessed.
func (s *Scheduler) Run(ctx context.Context, queries []models.BookQuery) (*results.Table, *models.RunSummary, error) {
	defer close(s.events)

	table := results.NewTable()
	summary := &models.RunSummary{
		StartTime: time.Now(),
		Outcome:   models.OutcomeCompleted,
	}
	defer func() {
		summary.EndTime = time.Now()
	}()

	for i, q := range queries {
		if ctx.Err() != nil {
			summary.Outcome = models.OutcomeCancelled
			slog.Info("run cancelled", slog.Int("recorded", table.Len()))
			break
		}

		term, ok := query.Build(q)
		if !ok {
			// No external request was made, so no delay slot is consumed.
			res := models.BookResult{Query: q, Status: models.StatusSkipped}
			table.Append(res)
			summary.Record(res.Status)
			s.Metrics.IncBook(string(res.Status))
			s.emit(Event{Index: i, Status: models.StatusSkipped, Message: "no viable query, skipping"})
			continue
		}

		slog.Info("processing book",
			slog.Int("index", i),
			slog.String("title", q.Title),
			slog.String("author", q.Author),
			slog.String("isbn", q.ISBN),
		)

		res, err := s.searchBook(ctx, i, q, term, summary)
		if err != nil {
			if errors.Is(err, errCancelled) {
				summary.Outcome = models.OutcomeCancelled
				slog.Info("run cancelled", slog.Int("recorded", table.Len()))
				break
			}
			// Session loss is run-fatal; rows recorded so far stand.
			summary.Outcome = models.OutcomeFailed
			s.emit(Event{Index: i, Term: term, Status: models.StatusError, Message: err.Error()})
			return table, summary, err
		}

		table.Append(res)
		summary.Record(res.Status)
		s.Metrics.IncBook(string(res.Status))
		s.emit(Event{Index: i, Term: res.SearchTermUsed, Status: res.Status, Message: res.ErrorDetail})

		if i < len(queries)-1 {
			if !s.wait(ctx) {
				summary.Outcome = models.OutcomeCancelled
				slog.Info("run cancelled during delay", slog.Int("recorded", table.Len()))
				break
			}
		}
	}

	return table, summary, nil
}

// searchBook performs the fetch/parse/aggregate sequence for one book,
// retrying a fruitless ISBN search with "<title> <author>". The retry
// happens inside the same delay slot.
func (s *Scheduler) searchBook(ctx context.Context, idx int, q models.BookQuery, term models.SearchTerm, summary *models.RunSummary) (models.BookResult, error) {
	res, err := s.fetchOnce(ctx, idx, q, term, summary)
	if err != nil {
		return models.BookResult{}, err
	}

	if res.Status != models.StatusFound && term.Strategy == models.StrategyISBN {
		fb, ok := query.Fallback(q)
		if !ok {
			return res, nil
		}
		summary.FallbackCount++
		s.Metrics.IncFallback()
		s.emit(Event{Index: idx, Term: fb, Message: "retrying with title and author"})

		retry, err := s.fetchOnce(ctx, idx, q, fb, summary)
		if err != nil {
			return models.BookResult{}, err
		}
		if retry.Status == models.StatusFound {
			return retry, nil
		}
	}
	return res, nil
}

// fetchOnce issues one search and reduces the response to a BookResult.
// Fetch and parse failures are converted into Error rows here, at the book
// boundary; only cancellation and session loss propagate as errors.
func (s *Scheduler) fetchOnce(ctx context.Context, idx int, q models.BookQuery, term models.SearchTerm, summary *models.RunSummary) (models.BookResult, error) {
	summary.FetchCount++
	s.Metrics.IncFetch()

	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx, term)
	s.Metrics.ObserveFetch(time.Since(start))
	if err != nil {
		if errors.Is(err, fetcher.ErrSession) {
			return models.BookResult{}, err
		}
		if ctx.Err() != nil {
			return models.BookResult{}, errCancelled
		}
		s.Metrics.IncFetchError(fetcher.ErrorLabel(err))
		slog.Error("fetch failed",
			slog.Int("index", idx),
			slog.String("query", term.Query),
			slog.Any("error", err),
		)
		return models.BookResult{
			Query:          q,
			SearchTermUsed: term,
			Status:         models.StatusError,
			ErrorDetail:    "fetch: " + err.Error(),
		}, nil
	}

	listings, dropped, err := parser.Parse(doc)
	if err != nil {
		s.Metrics.IncParseError()
		slog.Error("parse failed",
			slog.Int("index", idx),
			slog.String("query", term.Query),
			slog.Any("error", err),
		)
		return models.BookResult{
			Query:          q,
			SearchTermUsed: term,
			Status:         models.StatusError,
			ErrorDetail:    err.Error(),
		}, nil
	}

	s.Metrics.AddListings(len(listings), dropped)
	if len(listings) > 0 || dropped > 0 {
		s.emit(Event{
			Index:   idx,
			Term:    term,
			Message: fmt.Sprintf("%d items parsed, %d discarded", len(listings), dropped),
		})
	}
	return aggregate.Summarize(q, term, listings), nil
}

// drawDelay picks a politeness delay uniformly from the inclusive
// [DelayMin, DelayMax] window.
func (s *Scheduler) drawDelay() time.Duration {
	min, max := s.cfg.DelayMin, s.cfg.DelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

// wait sleeps the politeness delay, returning false if the run was
// cancelled before the delay elapsed.
func (s *Scheduler) wait(ctx context.Context) bool {
	delay := s.drawDelay()
	slog.Info("sleeping before next search", slog.Duration("delay", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Scheduler) emit(e Event) {
	s.events <- e
}
