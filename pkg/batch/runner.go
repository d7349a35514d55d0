package batch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/workerpool"
)

// DefaultBatchTimeout is the per-batch-operation deadline applied to
// every stage call, independent of (and nested inside) the workflow's
// overall timeout.
const DefaultBatchTimeout = 60 * time.Second

// Mode selects how RunBatchWithTimeout schedules per-item work.
type Mode int

const (
	// ModeSync runs items sequentially on the calling goroutine, each
	// under the batch deadline — used by both coordinators when no
	// worker pool is configured.
	ModeSync Mode = iota
	// ModeAsync fans items out across the shared bounded worker pool —
	// used by both coordinators when a worker pool is configured.
	ModeAsync
)

// Fn is one batch item's unit of work.
type Fn[T, R any] func(ctx context.Context, item T) (R, error)

// RunBatchWithTimeout runs fn over items under a context deadline of
// timeout, either sequentially (ModeSync) or fanned out across pool
// (ModeAsync via golang.org/x/sync/errgroup, cancel-on-first-error).
// On timeout it returns an *errs.TimeoutError naming stage.
func RunBatchWithTimeout[T, R any](ctx context.Context, pool *workerpool.Pool, stage string, mode Mode, timeout time.Duration, items []T, fn Fn[T, R]) ([]R, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]R, len(items))

	if mode == ModeSync {
		for i, item := range items {
			r, err := fn(ctx, item)
			if err != nil {
				if ctx.Err() != nil {
					return nil, errs.NewTimeoutError(stage, timeout.Seconds())
				}
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			var itemErr error
			err := pool.Submit(gctx, func(ctx context.Context) {
				r, e := fn(ctx, item)
				if e != nil {
					itemErr = e
					return
				}
				results[i] = r
			})
			if err != nil {
				return err
			}
			return itemErr
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, errs.NewTimeoutError(stage, timeout.Seconds())
		}
		return nil, err
	}
	return results, nil
}

// UpdateCandidatesWithResults merges one result per candidate into
// candidates via setField, keyed by position. Missing indices (results
// shorter than candidates) get a placeholder and a logged warning
// rather than failing the batch.
func UpdateCandidatesWithResults[C, R any](candidates []C, results []R, placeholder func() R, setField func(candidate *C, result R)) {
	for i := range candidates {
		if i < len(results) {
			setField(&candidates[i], results[i])
			continue
		}
		slog.Warn("batch result missing for candidate index, using placeholder", "index", i)
		setField(&candidates[i], placeholder())
	}
}

// NormalizedKind is normalizeAgentResponse's target shape.
type NormalizedKind int

const (
	NormalizedDict NormalizedKind = iota
	NormalizedList
	NormalizedString
)

// NormalizeAgentResponse converts a raw decoded JSON value into the
// shape expected∈{dict,list,string} calls for, following a fixed
// conversion table: empty values map to type-appropriate empties,
// invalid content targeting a dict becomes {} with a warning, and a
// string target always passes the raw text through unchanged.
func NormalizeAgentResponse(value interface{}, expected NormalizedKind) interface{} {
	switch expected {
	case NormalizedDict:
		if m, ok := value.(map[string]interface{}); ok {
			return m
		}
		if value == nil {
			return map[string]interface{}{}
		}
		slog.Warn("agent response could not be normalized to a dict, using empty map")
		return map[string]interface{}{}
	case NormalizedList:
		if l, ok := value.([]interface{}); ok {
			return l
		}
		if value == nil {
			return []interface{}{}
		}
		return []interface{}{value}
	case NormalizedString:
		if s, ok := value.(string); ok {
			return s
		}
		if value == nil {
			return ""
		}
		return value
	default:
		return value
	}
}
