package achievements

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Metric names a counter achievements are keyed by.
type Metric string

const (
	// MetricApplicationsCreated counts every help request the user submitted.
	MetricApplicationsCreated Metric = "applications_created"
	// MetricApplicationsApproved counts approved requests, including ones excluded from trust.
	MetricApplicationsApproved Metric = "applications_approved"
	// MetricTrustedApprovals counts approved requests that still count toward trust.
	MetricTrustedApprovals     Metric = "trusted_approvals"
	MetricLikesGiven           Metric = "likes_given"
	MetricMaxLikesOnSingleItem Metric = "max_likes_on_single_item"
	MetricFriendsAccepted      Metric = "friends_accepted"
	MetricLoginStreak          Metric = "login_streak"
	MetricGamePlays            Metric = "game_plays"
)

// ResolveFunc computes the current value of one metric for a user.
type ResolveFunc func(ctx context.Context, src ActivitySource, userID uuid.UUID) (int, error)

// MetricRegistry maps metric names to resolvers.
type MetricRegistry struct {
	resolvers map[Metric]ResolveFunc
}

// NewMetricRegistry returns a registry with every built-in metric.
func NewMetricRegistry() *MetricRegistry {
	r := &MetricRegistry{resolvers: make(map[Metric]ResolveFunc)}
	r.Register(MetricApplicationsCreated, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetCreatedRequestCount(ctx, id)
	})
	r.Register(MetricApplicationsApproved, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetApprovedRequestCount(ctx, id, false)
	})
	r.Register(MetricTrustedApprovals, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetApprovedRequestCount(ctx, id, true)
	})
	r.Register(MetricLikesGiven, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetLikesGivenCount(ctx, id)
	})
	r.Register(MetricMaxLikesOnSingleItem, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetMaxLikesOnSingleAuthoredItem(ctx, id)
	})
	r.Register(MetricFriendsAccepted, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetAcceptedFriendCount(ctx, id)
	})
	r.Register(MetricLoginStreak, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetConsecutiveLoginDays(ctx, id)
	})
	r.Register(MetricGamePlays, func(ctx context.Context, src ActivitySource, id uuid.UUID) (int, error) {
		return src.GetGamePlayCount(ctx, id)
	})
	return r
}

// Register adds or replaces the resolver for metric.
func (r *MetricRegistry) Register(metric Metric, fn ResolveFunc) {
	r.resolvers[metric] = fn
}

func (r *MetricRegistry) Has(metric Metric) bool {
	_, ok := r.resolvers[metric]
	return ok
}

// Resolve runs the resolver for metric. Repository failures are returned as-is;
// a failed count is never reported as zero.
func (r *MetricRegistry) Resolve(ctx context.Context, src ActivitySource, userID uuid.UUID, metric Metric) (int, error) {
	fn, ok := r.resolvers[metric]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	exists, err := src.UserExists(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("check user %s: %w", userID, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	n, err := fn(ctx, src, userID)
	if err != nil {
		return 0, fmt.Errorf("resolve %s for %s: %w", metric, userID, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}
