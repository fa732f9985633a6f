package guidance

import (
	"context"
	"slices"
	"sync"

	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/redact"
	"golang.org/x/sync/errgroup"
)

// DashboardRequest selects the content of a learner's home screen.
type DashboardRequest struct {
	Language string
	Interest string
	Goal     string
	Level    string
}

// Dashboard bundles the home screen's AI-generated content. A part that could
// not be produced is left empty and named in Unavailable.
type Dashboard struct {
	Quote       string            `json:"quote"`
	News        []domain.NewsItem `json:"news"`
	Advice      string            `json:"advice"`
	Unavailable []string          `json:"unavailable,omitempty"`
}

// Dashboard fetches the quote, news and advice concurrently. All three share
// the gateway's concurrency bound, so with the default limit of two the third
// request waits for a slot. A failing part does not fail the dashboard; only
// cancellation of ctx does.
func (s *Service) Dashboard(ctx context.Context, req DashboardRequest) (Dashboard, error) {
	var (
		mu     sync.Mutex
		result Dashboard
	)
	log := s.logger.With("operation", "dashboard")

	g, gctx := errgroup.WithContext(ctx)
	part := func(name string, fetch func(context.Context) error) {
		g.Go(func() error {
			err := fetch(gctx)
			if err == nil {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.WarnContext(ctx, "dashboard part unavailable",
				"part", name,
				"error", redact.Error(err))
			mu.Lock()
			result.Unavailable = append(result.Unavailable, name)
			mu.Unlock()
			return nil
		})
	}

	part("quote", func(ctx context.Context) error {
		quote, err := s.MotivationQuote(ctx, req.Language)
		mu.Lock()
		result.Quote = quote
		mu.Unlock()
		return err
	})
	part("news", func(ctx context.Context) error {
		news, err := s.MarketNews(ctx, req.Interest)
		mu.Lock()
		result.News = news
		mu.Unlock()
		return err
	})
	part("advice", func(ctx context.Context) error {
		advice, err := s.Advice(ctx, req.Goal, req.Level)
		mu.Lock()
		result.Advice = advice
		mu.Unlock()
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	slices.Sort(result.Unavailable)
	return result, nil
}
