package trust

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Limits bounds the amount a user may request, in whole currency units.
type Limits struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Tier is one trust level; it covers effective counts in [Floor, next tier's Floor).
type Tier struct {
	Level  int
	Floor  int
	Limits Limits
}

// Table is an ascending, non-overlapping list of tiers starting at count 0.
type Table struct {
	tiers []Tier
}

var ErrInvalidTiers = errors.New("invalid trust tiers")

// DefaultTiers is used when no table is configured.
var DefaultTiers = []Tier{
	{Level: 1, Floor: 0, Limits: Limits{Min: 100, Max: 1000}},
	{Level: 2, Floor: 3, Limits: Limits{Min: 100, Max: 3000}},
	{Level: 3, Floor: 10, Limits: Limits{Min: 100, Max: 10000}},
}

// NewTable validates tiers. Levels are renumbered 1..n in floor order.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidTiers)
	}
	if tiers[0].Floor != 0 {
		return nil, fmt.Errorf("%w: first tier must start at 0, got %d", ErrInvalidTiers, tiers[0].Floor)
	}

	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		if i > 0 && t.Floor <= tiers[i-1].Floor {
			return nil, fmt.Errorf("%w: floor %d is not above %d", ErrInvalidTiers, t.Floor, tiers[i-1].Floor)
		}
		if t.Limits.Min < 0 || t.Limits.Max < t.Limits.Min {
			return nil, fmt.Errorf("%w: tier at floor %d has limits %d..%d", ErrInvalidTiers, t.Floor, t.Limits.Min, t.Limits.Max)
		}
		t.Level = i + 1
		out[i] = t
	}
	return &Table{tiers: out}, nil
}

// MustTable panics on an invalid table.
func MustTable(tiers []Tier) *Table {
	t, err := NewTable(tiers)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTiers reads "floor:min:max" entries separated by commas, e.g. "0:100:1000,3:100:3000".
func ParseTiers(s string) (*Table, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewTable(DefaultTiers)
	}

	parts := strings.Split(s, ",")
	tiers := make([]Tier, 0, len(parts))
	for _, p := range parts {
		fields := strings.Split(strings.TrimSpace(p), ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q is not floor:min:max", ErrInvalidTiers, p)
		}
		floor, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: floor %q: %v", ErrInvalidTiers, fields[0], err)
		}
		lo, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: min %q: %v", ErrInvalidTiers, fields[1], err)
		}
		hi, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: max %q: %v", ErrInvalidTiers, fields[2], err)
		}
		tiers = append(tiers, Tier{Floor: floor, Limits: Limits{Min: lo, Max: hi}})
	}
	return NewTable(tiers)
}

// Tiers returns a copy of the table.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Lowest is the tier used when nothing is known about a user.
func (t *Table) Lowest() Tier { return t.tiers[0] }

// TierFor returns the tier covering count and the next tier, if any.
func (t *Table) TierFor(count int) (Tier, *Tier) {
	if count < 0 {
		count = 0
	}
	idx := 0
	for i, tier := range t.tiers {
		if count >= tier.Floor {
			idx = i
		}
	}
	if idx+1 < len(t.tiers) {
		next := t.tiers[idx+1]
		return t.tiers[idx], &next
	}
	return t.tiers[idx], nil
}

// SnapshotFor derives the snapshot for an effective approved count.
func (t *Table) SnapshotFor(count int) Snapshot {
	if count < 0 {
		count = 0
	}
	cur, next := t.TierFor(count)
	s := Snapshot{
		EffectiveApprovedCount: count,
		TrustLevel:             cur.Level,
		Limits:                 cur.Limits,
	}
	if next != nil {
		required := next.Floor
		progress := count - cur.Floor
		total := next.Floor - cur.Floor
		s.NextTierRequiredCount = &required
		s.ProgressCurrent = &progress
		s.ProgressTotal = &total
	}
	return s
}
