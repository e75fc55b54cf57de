package achievements

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errDBDown = errors.New("connection refused")

type fakeActivity struct {
	mu     sync.Mutex
	users  map[uuid.UUID]bool
	counts map[Metric]int
	err    error
}

func newFakeActivity(users ...uuid.UUID) *fakeActivity {
	f := &fakeActivity{users: make(map[uuid.UUID]bool), counts: make(map[Metric]int)}
	for _, u := range users {
		f.users[u] = true
	}
	return f
}

func (f *fakeActivity) set(m Metric, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[m] = n
}

func (f *fakeActivity) get(m Metric) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[m], nil
}

func (f *fakeActivity) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeActivity) GetCreatedRequestCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.get(MetricApplicationsCreated)
}

func (f *fakeActivity) GetApprovedRequestCount(_ context.Context, _ uuid.UUID, trusted bool) (int, error) {
	if trusted {
		return f.get(MetricTrustedApprovals)
	}
	return f.get(MetricApplicationsApproved)
}

func (f *fakeActivity) GetLikesGivenCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.get(MetricLikesGiven)
}

func (f *fakeActivity) GetMaxLikesOnSingleAuthoredItem(_ context.Context, _ uuid.UUID) (int, error) {
	return f.get(MetricMaxLikesOnSingleItem)
}

func (f *fakeActivity) GetAcceptedFriendCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.get(MetricFriendsAccepted)
}

func (f *fakeActivity) GetConsecutiveLoginDays(_ context.Context, _ uuid.UUID) (int, error) {
	return f.get(MetricLoginStreak)
}

func (f *fakeActivity) GetGamePlayCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.get(MetricGamePlays)
}

type grantKey struct {
	user uuid.UUID
	slug string
}

// memGrants behaves like a table with a unique (user_id, slug) constraint.
type memGrants struct {
	mu      sync.Mutex
	rows    map[grantKey]Grant
	inserts int
	failOn  map[string]error
}

func newMemGrants() *memGrants {
	return &memGrants{rows: make(map[grantKey]Grant), failOn: make(map[string]error)}
}

func (m *memGrants) InsertGrantIfAbsent(_ context.Context, userID uuid.UUID, slug string, by *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[slug]; err != nil {
		return false, err
	}
	m.inserts++
	k := grantKey{userID, slug}
	if _, ok := m.rows[k]; ok {
		return false, nil
	}
	m.rows[k] = Grant{UserID: userID, Slug: slug, UnlockedAt: time.Now(), GrantedBy: by}
	return true, nil
}

func (m *memGrants) ListGrantedSlugs(_ context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{})
	for k := range m.rows {
		if k.user == userID {
			out[k.slug] = struct{}{}
		}
	}
	return out, nil
}

func (m *memGrants) ListGrants(_ context.Context, userID uuid.UUID) ([]Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Grant
	for k, g := range m.rows {
		if k.user == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGrants) count(userID uuid.UUID, slug string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[grantKey{userID, slug}]; ok {
		return 1
	}
	return 0
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *recordingNotifier) AchievementsUnlocked(_ context.Context, _ uuid.UUID, slugs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, append([]string(nil), slugs...))
}
