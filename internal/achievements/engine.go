// Package achievements evaluates the achievement catalog against user activity
// counters and records grants exactly once per (user, achievement).
package achievements

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 3 * time.Second

// Options configures an Engine. Zero values are usable.
type Options struct {
	// Timeout bounds one background evaluation triggered by an On* hook.
	Timeout  time.Duration
	Notifier Notifier
	Recorder Recorder
	Logger   *slog.Logger
}

type Engine struct {
	catalog  *Catalog
	registry *MetricRegistry
	activity ActivitySource
	grants   GrantStore
	notifier Notifier
	recorder Recorder
	logger   *slog.Logger
	timeout  time.Duration

	inflight sync.WaitGroup
}

func NewEngine(catalog *Catalog, registry *MetricRegistry, activity ActivitySource, grants GrantStore, opts Options) *Engine {
	e := &Engine{
		catalog:  catalog,
		registry: registry,
		activity: activity,
		grants:   grants,
		notifier: opts.Notifier,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.notifier == nil {
		e.notifier = LogNotifier{Logger: e.logger}
	}
	if e.timeout <= 0 {
		e.timeout = defaultTimeout
	}
	return e
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// ResolveCount returns the current value of metric for userID.
func (e *Engine) ResolveCount(ctx context.Context, userID uuid.UUID, metric Metric) (int, error) {
	return e.registry.Resolve(ctx, e.activity, userID, metric)
}

// EvaluateAndGrant grants every auto-grantable achievement of metric whose threshold
// is <= currentCount and returns the slugs that were newly created by this call.
// Each insert is independent: a failed insert is reported in the joined error while
// the remaining candidates are still attempted.
func (e *Engine) EvaluateAndGrant(ctx context.Context, userID uuid.UUID, metric Metric, currentCount int) ([]string, error) {
	if !e.registry.Has(metric) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	var (
		granted []string
		errs    []error
	)
	for _, d := range e.catalog.Candidates(metric, currentCount) {
		created, err := e.grants.InsertGrantIfAbsent(ctx, userID, d.Slug, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("grant %s: %w", d.Slug, err))
			continue
		}
		if created {
			granted = append(granted, d.Slug)
			e.grantCreated(d.Slug)
		}
	}
	return granted, errors.Join(errs...)
}

// EvaluateMeta grants the meta achievement once the user owns every prerequisite.
func (e *Engine) EvaluateMeta(ctx context.Context, userID uuid.UUID) (bool, error) {
	meta, ok := e.catalog.Meta()
	if !ok || !meta.IsActive {
		return false, nil
	}
	required := e.catalog.MetaPrerequisites()
	if len(required) == 0 {
		return false, nil
	}

	owned, err := e.grants.ListGrantedSlugs(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list grants for %s: %w", userID, err)
	}
	if _, done := owned[meta.Slug]; done {
		return false, nil
	}
	for _, slug := range required {
		if _, ok := owned[slug]; !ok {
			return false, nil
		}
	}

	created, err := e.grants.InsertGrantIfAbsent(ctx, userID, meta.Slug, nil)
	if err != nil {
		return false, fmt.Errorf("grant %s: %w", meta.Slug, err)
	}
	if created {
		e.grantCreated(meta.Slug)
	}
	return created, nil
}

// Evaluate runs resolve -> grant -> meta for one metric and notifies about new grants.
func (e *Engine) Evaluate(ctx context.Context, userID uuid.UUID, metric Metric) (granted []string, err error) {
	start := time.Now()
	defer func() { e.evaluation(metric, err, time.Since(start)) }()

	if !e.registry.Has(metric) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	if len(e.catalog.Candidates(metric, math.MaxInt)) == 0 {
		return nil, nil
	}

	count, err := e.ResolveCount(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	granted, grantErr := e.EvaluateAndGrant(ctx, userID, metric, count)
	// Re-checked even without new grants so a failed meta insert is retried.
	if len(granted) > 0 || e.catalog.feedsMeta(metric, count) {
		metaGranted, metaErr := e.EvaluateMeta(ctx, userID)
		if metaErr != nil {
			grantErr = errors.Join(grantErr, metaErr)
		}
		if metaGranted {
			granted = append(granted, e.metaSlug())
		}
	}
	if len(granted) > 0 {
		e.notifier.AchievementsUnlocked(ctx, userID, granted)
	}
	return granted, grantErr
}

// GrantManually records an administrator grant, bypassing thresholds.
// It returns false when the user already owned the achievement.
func (e *Engine) GrantManually(ctx context.Context, userID uuid.UUID, slug string, grantedBy uuid.UUID) (bool, error) {
	d, ok := e.catalog.Get(slug)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAchievement, slug)
	}
	if !d.IsActive {
		return false, fmt.Errorf("%w: %q", ErrAchievementInactive, slug)
	}
	if d.Kind == KindMeta {
		return false, ErrMetaNotGrantable
	}

	exists, err := e.activity.UserExists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check user %s: %w", userID, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	// uuid.Nil means the admin token was used without a user identity.
	var by *uuid.UUID
	if grantedBy != uuid.Nil {
		by = &grantedBy
	}
	created, err := e.grants.InsertGrantIfAbsent(ctx, userID, slug, by)
	if err != nil {
		return false, fmt.Errorf("grant %s: %w", slug, err)
	}
	var unlocked []string
	if created {
		e.grantCreated(slug)
		unlocked = append(unlocked, slug)
	}
	if created || d.metaPrerequisite() {
		metaGranted, err := e.EvaluateMeta(ctx, userID)
		if err != nil {
			e.logger.Warn("meta evaluation after manual grant failed", "user_id", userID.String(), "error", err.Error())
		}
		if metaGranted {
			unlocked = append(unlocked, e.metaSlug())
		}
	}
	if len(unlocked) > 0 {
		e.notifier.AchievementsUnlocked(ctx, userID, unlocked)
	}
	return created, nil
}

// GrantedAchievement pairs a grant with its catalog row.
type GrantedAchievement struct {
	Definition
	UnlockedAt time.Time
	GrantedBy  *uuid.UUID
}

// Summary is the display view of a user's achievements.
type Summary struct {
	CatalogVersion    int
	Granted           []GrantedAchievement
	TotalActive       int
	CompletionPercent float64
}

// GetUserAchievementSummary lists the user's grants with completion against active, non-hidden achievements.
// Grants for slugs no longer in the catalog are omitted.
func (e *Engine) GetUserAchievementSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	grants, err := e.grants.ListGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants for %s: %w", userID, err)
	}

	s := &Summary{CatalogVersion: e.catalog.Version(), Granted: make([]GrantedAchievement, 0, len(grants))}
	for _, d := range e.catalog.All() {
		if d.countsTowardCompletion() {
			s.TotalActive++
		}
	}

	owned := 0
	for _, g := range grants {
		d, ok := e.catalog.Get(g.Slug)
		if !ok {
			continue
		}
		s.Granted = append(s.Granted, GrantedAchievement{Definition: d, UnlockedAt: g.UnlockedAt, GrantedBy: g.GrantedBy})
		if d.countsTowardCompletion() {
			owned++
		}
	}
	if s.TotalActive > 0 {
		s.CompletionPercent = math.Round(float64(owned)/float64(s.TotalActive)*1000) / 10
	}
	return s, nil
}

// VisibleCatalog is the catalog as the user may see it: active achievements,
// with hidden ones shown only once unlocked.
func (e *Engine) VisibleCatalog(ctx context.Context, userID uuid.UUID) ([]Definition, error) {
	granted, err := e.grants.ListGrantedSlugs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list granted slugs for %s: %w", userID, err)
	}
	return e.catalog.Visible(granted), nil
}

func (e *Engine) metaSlug() string {
	meta, _ := e.catalog.Meta()
	return meta.Slug
}

func (e *Engine) grantCreated(slug string) {
	if e.recorder != nil {
		e.recorder.GrantCreated(slug)
	}
}

func (e *Engine) evaluation(metric Metric, err error, took time.Duration) {
	if e.recorder == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case IsInputError(err):
		outcome = "input_error"
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	e.recorder.Evaluation(string(metric), outcome, took)
}

// LogNotifier writes unlocks to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) AchievementsUnlocked(ctx context.Context, userID uuid.UUID, slugs []string) {
	n.Logger.InfoContext(ctx, "achievements unlocked", "user_id", userID.String(), "slugs", slugs)
}
