// package matcher selects the best target catalog candidate for a source song.
//
// Candidates arrive as raw catalog records. Each is adapted to a [models.Song], scored with
// [compare.CompareSong] and folded into a running best in the order the catalog returned them. A candidate
// only replaces the running best when it scores strictly higher, so equal scores keep the earliest one.
package matcher

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songmatch/internal/compare"
	"github.com/desertthunder/songmatch/internal/models"
	"golang.org/x/sync/errgroup"
)

// Adapter converts a raw candidate record of type R into a canonical song.
type Adapter[R any] interface {
	Adapt(ctx context.Context, raw R) (models.Song, error)
}

// AdapterFunc lets an ordinary function serve as an [Adapter].
type AdapterFunc[R any] func(ctx context.Context, raw R) (models.Song, error)

func (f AdapterFunc[R]) Adapt(ctx context.Context, raw R) (models.Song, error) {
	return f(ctx, raw)
}

// Match is a scored candidate.
type Match struct {
	Song  models.Song
	Score uint
	Notes []models.Note
	Index int // position in the candidate list
}

// Skip records a candidate that could not be adapted and was left out of scoring.
type Skip struct {
	Index int
	Err   error
}

// Result is the outcome of a single [Matcher.BestMatch] call. Best is nil when no candidate adapted.
type Result struct {
	Best    *Match
	Scored  int
	Skipped []Skip
}

// Options configures a [Matcher].
type Options struct {
	// Concurrency is the number of candidates adapted at once. Values below 2 adapt sequentially.
	Concurrency int
	Logger      *log.Logger
}

// Matcher picks the best candidate of raw type R.
type Matcher[R any] struct {
	adapter Adapter[R]
	opts    Options
	logger  *log.Logger
}

// New creates a matcher that adapts candidates with adapter.
func New[R any](adapter Adapter[R], opts Options) *Matcher[R] {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher[R]{adapter: adapter, opts: opts, logger: logger.WithPrefix("matcher")}
}

// BestMatch adapts and scores every candidate against source.
//
// Adaptation failures are logged and recorded in [Result.Skipped]. The only error returned is a context
// error, since a cancelled run leaves later candidates unexamined.
func (m *Matcher[R]) BestMatch(ctx context.Context, source models.Song, candidates []R) (Result, error) {
	adapted, err := m.adaptAll(ctx, candidates)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for i, a := range adapted {
		if a.err != nil {
			m.logger.Warn("skipping candidate", "source", source.Source, "index", i, "err", a.err)
			result.Skipped = append(result.Skipped, Skip{Index: i, Err: a.err})
			continue
		}

		score, notes := compare.CompareSong(source, a.song)
		result.Scored++
		m.logger.Debug("scored candidate", "source", source.Source, "candidate", a.song.Source, "score", score)

		if result.Best == nil || score > result.Best.Score {
			result.Best = &Match{Song: a.song, Score: score, Notes: notes, Index: i}
		}
	}

	return result, nil
}

type adaptation struct {
	song models.Song
	err  error
}

// adaptAll returns one entry per candidate, in candidate order, regardless of concurrency.
func (m *Matcher[R]) adaptAll(ctx context.Context, candidates []R) ([]adaptation, error) {
	out := make([]adaptation, len(candidates))

	if m.opts.Concurrency < 2 {
		for i, raw := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			song, err := m.adapter.Adapt(ctx, raw)
			if isContextErr(err) {
				return nil, err
			}
			out[i] = adaptation{song: song, err: err}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Concurrency)
	for i, raw := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			song, err := m.adapter.Adapt(gctx, raw)
			if isContextErr(err) {
				return err
			}
			out[i] = adaptation{song: song, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// BestMatch is a convenience wrapper that runs a sequential [Matcher] and returns only the winning song.
func BestMatch[R any](ctx context.Context, adapter Adapter[R], source models.Song, candidates []R) (*models.Song, error) {
	result, err := New(adapter, Options{}).BestMatch(ctx, source, candidates)
	if err != nil || result.Best == nil {
		return nil, err
	}
	return &result.Best.Song, nil
}
