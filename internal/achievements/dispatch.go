package achievements

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// The On* hooks are called from request handlers after the domain write has
// committed. They return immediately; evaluation runs in the background under
// the engine timeout and failures are only logged.

func (e *Engine) OnApplicationCreated(userID uuid.UUID) {
	e.dispatch("application_created", userID, MetricApplicationsCreated)
}

func (e *Engine) OnApplicationApproved(userID uuid.UUID) {
	e.dispatch("application_approved", userID, MetricApplicationsApproved, MetricTrustedApprovals)
}

// OnStoryLiked evaluates likes given for the liker and likes received for the author.
func (e *Engine) OnStoryLiked(likerID, storyAuthorID uuid.UUID) {
	e.dispatch("story_liked", likerID, MetricLikesGiven)
	e.dispatch("story_liked", storyAuthorID, MetricMaxLikesOnSingleItem)
}

func (e *Engine) OnFriendAccepted(userIDA, userIDB uuid.UUID) {
	e.dispatch("friend_accepted", userIDA, MetricFriendsAccepted)
	e.dispatch("friend_accepted", userIDB, MetricFriendsAccepted)
}

func (e *Engine) OnLoginRecorded(userID uuid.UUID) {
	e.dispatch("login_recorded", userID, MetricLoginStreak)
}

func (e *Engine) OnGamePlayed(userID uuid.UUID) {
	e.dispatch("game_played", userID, MetricGamePlays)
}

// Wait blocks until every background evaluation has finished.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

func (e *Engine) dispatch(event string, userID uuid.UUID, metrics ...Metric) {
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("achievement evaluation panicked", "action", event, "user_id", userID.String(), "error", fmt.Sprint(r))
				sentry.CurrentHub().Recover(r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		for _, m := range metrics {
			if _, err := e.Evaluate(ctx, userID, m); err != nil {
				e.reportFailure(event, userID, m, err)
			}
		}
	}()
}

func (e *Engine) reportFailure(event string, userID uuid.UUID, metric Metric, err error) {
	attrs := []any{"action", event, "user_id", userID.String(), "metric", string(metric), "error", err.Error()}
	if IsInputError(err) {
		e.logger.Warn("achievement evaluation rejected", attrs...)
		return
	}
	e.logger.Error("achievement evaluation failed", attrs...)

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("action", event)
		scope.SetTag("metric", string(metric))
		scope.SetUser(sentry.User{ID: userID.String()})
		hub.CaptureException(err)
	})
}
