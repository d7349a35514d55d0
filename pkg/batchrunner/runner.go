// Package batchrunner implements the Batch Job Runner (C11): running
// many independent workflow requests under a bounded concurrency
// limit, tracking each item's lifecycle, and producing a summary.
//
// Items run as a single bounded fan-out over an explicit in-memory item
// list, guarded by an active-item registry of cancel functions, rather
// than a database-backed queue — there is no persistence requirement.
package batchrunner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/coordinator"
	"github.com/madspark-dev/madspark/pkg/models"
)

// ItemStatus is one batch item's lifecycle state.
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemProcessing ItemStatus = "processing"
	ItemCompleted  ItemStatus = "completed"
	ItemFailed     ItemStatus = "failed"
)

// DefaultMaxConcurrentAsync and DefaultMaxConcurrentSync are the
// default per-mode concurrency caps.
const (
	DefaultMaxConcurrentAsync = 3
	DefaultMaxConcurrentSync  = 1
)

// ItemRequest is one workflow run's input within a batch.
type ItemRequest struct {
	Topic             string
	Context           string
	TemperaturePreset config.Preset
	NumCandidates     int
	Tags              []string
}

// Item tracks one ItemRequest's execution, from submission through
// either a result or an error.
type Item struct {
	Request        ItemRequest
	Status         ItemStatus
	StartedAt      time.Time
	FinishedAt     time.Time
	ProcessingTime time.Duration
	Result         *models.WorkflowResult
	Err            error
}

// Summary is the batch's final report: totals plus every item's
// outcome in submission order. Persistence, reporting, and export
// formats are a collaborator's concern, out of scope here.
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Elapsed   time.Duration
	Items     []Item
}

// Runner executes a batch of ItemRequests through a Coordinator, one
// goroutine per item, bounded to MaxConcurrent simultaneous workflow
// runs via a weighted semaphore.
type Runner struct {
	Coordinator *coordinator.Coordinator
	Async       bool
	MaxConcurrent int

	mu       sync.Mutex
	registry map[int]context.CancelFunc
}

// NewRunner builds a Runner. maxConcurrent <= 0 selects the default
// for the chosen mode (3 for async, 1 for sync).
func NewRunner(co *coordinator.Coordinator, async bool, maxConcurrent int) *Runner {
	if maxConcurrent <= 0 {
		if async {
			maxConcurrent = DefaultMaxConcurrentAsync
		} else {
			maxConcurrent = DefaultMaxConcurrentSync
		}
	}
	return &Runner{
		Coordinator:   co,
		Async:         async,
		MaxConcurrent: maxConcurrent,
		registry:      make(map[int]context.CancelFunc),
	}
}

// Run executes every request, preserving input order in the returned
// Summary regardless of completion order.
func (r *Runner) Run(ctx context.Context, requests []ItemRequest) Summary {
	start := time.Now()
	items := make([]Item, len(requests))
	for i, req := range requests {
		items[i] = Item{Request: req, Status: ItemPending}
	}

	sem := semaphore.NewWeighted(int64(r.MaxConcurrent))
	var wg sync.WaitGroup

	for i := range items {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				items[i].Status = ItemFailed
				items[i].Err = fmt.Errorf("batch item not scheduled: %w", err)
				return
			}
			defer sem.Release(1)
			r.runItem(ctx, i, &items[i])
		}()
	}
	wg.Wait()

	summary := Summary{Total: len(items), Items: items, Elapsed: time.Since(start)}
	for _, it := range items {
		switch it.Status {
		case ItemCompleted:
			summary.Completed++
		case ItemFailed:
			summary.Failed++
		}
	}
	return summary
}

// CancelItem cancels a still-processing item by its index in the
// submitted request slice, via a registry lookup of its cancel func.
func (r *Runner) CancelItem(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cancel, ok := r.registry[index]
	if !ok {
		return false
	}
	cancel()
	return true
}

func (r *Runner) runItem(ctx context.Context, index int, item *Item) {
	itemCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.register(index, cancel)
	defer r.unregister(index)

	item.Status = ItemProcessing
	item.StartedAt = time.Now()

	temps := config.NewTemperatureManager(item.Request.TemperaturePreset)
	run := *r.Coordinator
	run.Temperatures = temps

	params := coordinator.Params{
		Topic:            item.Request.Topic,
		Context:          item.Request.Context,
		NumTopCandidates: item.Request.NumCandidates,
	}

	var result models.WorkflowResult
	var err error
	if r.Async {
		result, err = run.RunAsync(itemCtx, params)
	} else {
		result, err = run.RunSync(itemCtx, params)
	}

	item.FinishedAt = time.Now()
	item.ProcessingTime = item.FinishedAt.Sub(item.StartedAt)
	if err != nil {
		item.Status = ItemFailed
		item.Err = err
		return
	}
	item.Status = ItemCompleted
	item.Result = &result
}

func (r *Runner) register(index int, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[index] = cancel
}

func (r *Runner) unregister(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.registry, index)
}
