package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"marquee/internal/logging"
	"marquee/internal/providers"
	"marquee/internal/title"
)

// settled is the outcome of one provider call.
type settled[T any] struct {
	source  title.Source
	value   T
	err     error
	latency time.Duration
}

// settleAll runs call once per provider concurrently and returns after every
// call has finished. Each outcome lands in its own slot in input order. A
// panicking provider is reported as an error for its slot only.
func settleAll[T any](ctx context.Context, list []providers.Provider, call func(context.Context, providers.Provider) (T, error)) []settled[T] {
	out := make([]settled[T], len(list))
	var wg sync.WaitGroup
	for i, p := range list {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			slot := settled[T]{source: p.Source()}
			defer func() {
				if r := recover(); r != nil {
					slot.err = fmt.Errorf("provider panic: %v", r)
				}
				slot.latency = time.Since(start)
				out[i] = slot
			}()
			slot.value, slot.err = call(ctx, p)
		}()
	}
	wg.Wait()
	return out
}

// logFailures reports failed slots and returns how many succeeded.
func logFailures[T any](logger *slog.Logger, operation string, outcomes []settled[T]) int {
	ok := 0
	for _, o := range outcomes {
		if o.err == nil {
			ok++
			continue
		}
		logging.WarnWithContext(logger, "provider call failed", "provider_failed",
			logging.String(logging.FieldProvider, string(o.source)),
			logging.String(logging.FieldOperation, operation),
			logging.Duration("latency", o.latency),
			logging.Error(wrap(ErrProvider, operation, string(o.source), o.err)),
			logging.Bool("transient", providers.IsTransient(o.err)),
			logging.String(logging.FieldImpact, "no data from this provider for this operation"),
		)
	}
	return ok
}

// searchAll queries every registered provider and concatenates the results of
// the providers that succeeded, in priority order.
func (s *Service) searchAll(ctx context.Context, operation, query string) []title.ProviderResult {
	outcomes := settleAll(ctx, s.registry.All(), func(ctx context.Context, p providers.Provider) ([]title.ProviderResult, error) {
		return p.SearchByName(ctx, query)
	})
	logger := s.log(ctx)
	logFailures(logger, operation, outcomes)

	var combined []title.ProviderResult
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		logger.Debug("provider search settled",
			logging.String(logging.FieldProvider, string(o.source)),
			logging.Int("results", len(o.value)),
			logging.Duration("latency", o.latency),
		)
		combined = append(combined, o.value...)
	}
	return combined
}

// fetchAll looks up ids on the providers that serve them. Sources without a
// registered provider are skipped.
func (s *Service) fetchAll(ctx context.Context, operation string, ids map[title.Source]string, mediaType title.MediaType) []settled[*title.ProviderResult] {
	var targets []providers.Provider
	for _, p := range s.registry.All() {
		if ids[p.Source()] != "" {
			targets = append(targets, p)
		}
	}
	outcomes := settleAll(ctx, targets, func(ctx context.Context, p providers.Provider) (*title.ProviderResult, error) {
		return p.FetchByID(ctx, ids[p.Source()], mediaType)
	})
	logFailures(s.log(ctx), operation, outcomes)
	return outcomes
}
