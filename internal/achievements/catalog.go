package achievements

import (
	"fmt"
	"sort"
)

// Kind separates threshold achievements from the single aggregate one.
type Kind string

const (
	KindNormal Kind = "NORMAL"
	KindMeta   Kind = "META"
)

// Category is display-only grouping.
type Category string

const (
	CategoryApplications Category = "applications"
	CategoryCommunity    Category = "community"
	CategoryCreativity   Category = "creativity"
	CategoryGames        Category = "games"
	CategorySocial       Category = "social"
	CategoryStreak       Category = "streak"
	CategorySpecial      Category = "special"
)

// Rarity is an ordinal display label.
type Rarity int

const (
	RarityCommon Rarity = iota + 1
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// Definition is an immutable catalog row.
type Definition struct {
	Slug        string
	Name        string
	Description string
	Kind        Kind
	Category    Category
	Metric      Metric
	Threshold   int
	Rarity      Rarity
	IsExclusive bool
	IsHidden    bool
	IsSeasonal  bool
	IsActive    bool
}

// autoGrantable reports whether the grant engine may award the definition from a counter.
// Exclusive achievements are only ever granted by an administrator.
func (d Definition) autoGrantable() bool {
	return d.IsActive && d.Kind == KindNormal && !d.IsExclusive && d.Metric != ""
}

// metaPrerequisite reports whether owning the definition is required for the meta achievement.
func (d Definition) metaPrerequisite() bool {
	return d.IsActive && d.Kind == KindNormal && !d.IsHidden && !d.IsExclusive && !d.IsSeasonal
}

// Catalog is a versioned, read-only set of achievement definitions.
type Catalog struct {
	version  int
	defs     []Definition
	bySlug   map[string]Definition
	byMetric map[Metric][]Definition
	meta     *Definition
}

// NewCatalog validates defs and indexes them by slug and metric.
func NewCatalog(version int, defs []Definition) (*Catalog, error) {
	c := &Catalog{
		version:  version,
		defs:     make([]Definition, 0, len(defs)),
		bySlug:   make(map[string]Definition, len(defs)),
		byMetric: make(map[Metric][]Definition),
	}

	for _, d := range defs {
		if d.Slug == "" {
			return nil, fmt.Errorf("catalog v%d: definition with empty slug", version)
		}
		if _, dup := c.bySlug[d.Slug]; dup {
			return nil, fmt.Errorf("catalog v%d: duplicate slug %q", version, d.Slug)
		}

		switch d.Kind {
		case KindMeta:
			if c.meta != nil {
				return nil, fmt.Errorf("catalog v%d: second meta achievement %q (already have %q)", version, d.Slug, c.meta.Slug)
			}
			if d.Metric != "" {
				return nil, fmt.Errorf("catalog v%d: meta achievement %q must not have a metric", version, d.Slug)
			}
			meta := d
			c.meta = &meta
		case KindNormal:
			if !d.IsExclusive && d.Metric == "" {
				return nil, fmt.Errorf("catalog v%d: %q needs a metric unless exclusive", version, d.Slug)
			}
			if d.Metric != "" && d.Threshold < 1 {
				return nil, fmt.Errorf("catalog v%d: %q threshold must be >= 1", version, d.Slug)
			}
		default:
			return nil, fmt.Errorf("catalog v%d: %q has unknown kind %q", version, d.Slug, d.Kind)
		}

		c.defs = append(c.defs, d)
		c.bySlug[d.Slug] = d
		if d.Metric != "" {
			c.byMetric[d.Metric] = append(c.byMetric[d.Metric], d)
		}
	}

	for m := range c.byMetric {
		list := c.byMetric[m]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Threshold < list[j].Threshold })
	}
	return c, nil
}

// MustCatalog is NewCatalog for package-level tables known to be valid.
func MustCatalog(version int, defs []Definition) *Catalog {
	c, err := NewCatalog(version, defs)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Version() int { return c.version }

// All returns every definition in declaration order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Get(slug string) (Definition, bool) {
	d, ok := c.bySlug[slug]
	return d, ok
}

// Meta returns the aggregate achievement, if the catalog has one.
func (c *Catalog) Meta() (Definition, bool) {
	if c.meta == nil {
		return Definition{}, false
	}
	return *c.meta, true
}

// Metrics lists every metric at least one definition is keyed by.
func (c *Catalog) Metrics() []Metric {
	out := make([]Metric, 0, len(c.byMetric))
	for m := range c.byMetric {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Candidates returns the auto-grantable definitions of metric whose threshold is <= count,
// lowest threshold first.
func (c *Catalog) Candidates(metric Metric, count int) []Definition {
	var out []Definition
	for _, d := range c.byMetric[metric] {
		if d.Threshold > count {
			break
		}
		if d.autoGrantable() {
			out = append(out, d)
		}
	}
	return out
}

// MetaPrerequisites returns the slugs a user must own before the meta achievement unlocks.
func (c *Catalog) MetaPrerequisites() []string {
	var out []string
	for _, d := range c.defs {
		if d.metaPrerequisite() {
			out = append(out, d.Slug)
		}
	}
	return out
}

// feedsMeta reports whether a meta prerequisite of metric has a threshold <= count.
func (c *Catalog) feedsMeta(metric Metric, count int) bool {
	if c.meta == nil {
		return false
	}
	for _, d := range c.Candidates(metric, count) {
		if d.metaPrerequisite() {
			return true
		}
	}
	return false
}

// Visible returns active definitions, dropping hidden ones the user has not unlocked.
func (c *Catalog) Visible(granted map[string]struct{}) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if !d.IsActive {
			continue
		}
		if d.IsHidden {
			if _, ok := granted[d.Slug]; !ok {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// countsTowardCompletion reports whether a definition is part of the completion denominator.
func (d Definition) countsTowardCompletion() bool {
	return d.IsActive && !d.IsHidden
}
