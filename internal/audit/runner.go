package audit

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// Func performs one check. Returning an error (or panicking) marks the check
// as unable to complete; the runner turns that into a warning.
type Func func(ctx context.Context) (Result, error)

// Check is a registered check function with its stable title.
type Check struct {
	Title string
	Run   Func
}

// ResultHook is called after every check completes.
type ResultHook func(category Category, result Result, duration time.Duration)

const (
	faultMessage     = "Could not complete this check."
	faultExplanation = "The check stopped unexpectedly, so this result is lower confidence."
	faultFix         = "Re-run the audit; if the warning persists, verify the site is reachable and the host snapshot is complete."
)

// Runner executes the checks registered for a category.
type Runner struct {
	mu          sync.RWMutex
	checks      map[Category][]Check
	concurrency int
	logger      *zap.SugaredLogger
	onResult    ResultHook
}

// NewRunner creates a sequential runner. A nil logger disables logging.
func NewRunner(logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		checks:      make(map[Category][]Check),
		concurrency: 1,
		logger:      logger,
	}
}

// WithConcurrency sets how many checks of one category may run at once.
// Results keep their registration order regardless.
func (r *Runner) WithConcurrency(n int) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 1 {
		n = 1
	}
	r.concurrency = n
	return r
}

// OnResult registers a hook invoked after each check. With concurrency above
// one the hook may be called from several goroutines.
func (r *Runner) OnResult(hook ResultHook) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResult = hook
	return r
}

// Register appends checks to a category. Checks run in the order they are added.
func (r *Runner) Register(category Category, checks ...Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[category] = append(r.checks[category], checks...)
}

// Count returns the number of checks registered for category.
func (r *Runner) Count(category Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checks[category])
}

// Run executes every check of category and returns one result per check in
// registration order. It never fails: faulting checks degrade to warnings.
func (r *Runner) Run(ctx context.Context, category Category) []Result {
	r.mu.RLock()
	checks := make([]Check, len(r.checks[category]))
	copy(checks, r.checks[category])
	concurrency := r.concurrency
	hook := r.onResult
	r.mu.RUnlock()

	if len(checks) == 0 {
		return nil
	}

	results := make([]Result, len(checks))
	run := func(i int) {
		start := time.Now()
		results[i] = r.runOne(ctx, checks[i])
		duration := time.Since(start)

		r.logger.Infow("check completed",
			"category", category,
			"check", results[i].Title,
			"status", results[i].Status,
			"duration", duration,
		)
		if hook != nil {
			hook(category, results[i], duration)
		}
	}

	if concurrency <= 1 {
		for i := range checks {
			run(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range checks {
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, check Check) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %v", sharederrors.ErrCheckPanicked, rec)
			r.logger.Errorw("check panicked", "check", check.Title, "error", err, "stack", string(debug.Stack()))
			result = faultResult(check.Title)
		}
	}()

	if check.Run == nil {
		r.logger.Warnw("check has no function", "check", check.Title)
		return faultResult(check.Title)
	}

	res, err := check.Run(ctx)
	if err != nil {
		r.logger.Warnw("check could not complete", "check", check.Title, "error", err)
		return faultResult(check.Title)
	}
	if !res.Status.Valid() {
		r.logger.Warnw("check returned invalid status", "check", check.Title, "status", string(res.Status))
		return faultResult(check.Title)
	}

	res.Title = check.Title
	if res.Passed() {
		res.Fix = ""
	}
	return res
}

func faultResult(title string) Result {
	return Warn(title, faultMessage, faultExplanation, faultFix)
}
