// Package pricefeed decides which Pyth price feeds need an on-chain update
package pricefeed

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Operator combines a feed value into the running composite of an item
type Operator string

const (
	OperatorNone     Operator = ""
	OperatorMultiply Operator = "mul"
	OperatorDivide   Operator = "div"
)

// Valid reports whether the operator can be applied to a non-seed feed
func (o Operator) Valid() bool {
	return o == OperatorMultiply || o == OperatorDivide
}

// FeedReference points at one underlying feed of an item
type FeedReference struct {
	ID       string   // Pyth price feed id
	Operator Operator // Ignored for the first feed of an item
}

// PriceSnapshot is a price as published by Pyth: Mantissa * 10^Exponent
type PriceSnapshot struct {
	Mantissa    int64
	Exponent    int32
	PublishTime int64 // Unix seconds
}

// Value returns the exact real value of the snapshot
func (p PriceSnapshot) Value() decimal.Decimal {
	return decimal.New(p.Mantissa, p.Exponent)
}

// SnapshotMap holds one snapshot per normalized feed id
type SnapshotMap map[string]PriceSnapshot

// Set stores a snapshot under the normalized id
func (m SnapshotMap) Set(id string, p PriceSnapshot) {
	m[NormalizeID(id)] = p
}

// Get looks up a snapshot by id, normalizing it first
func (m SnapshotMap) Get(id string) (PriceSnapshot, bool) {
	p, ok := m[NormalizeID(id)]

	return p, ok
}

// Missing returns the ids that have no snapshot, in the given order
func (m SnapshotMap) Missing(ids []string) []string {
	var missing []string

	for _, id := range ids {
		if _, ok := m.Get(id); !ok {
			missing = append(missing, id)
		}
	}

	return missing
}

// ItemConfig maps a logical item name to its ordered feed references
type ItemConfig map[string][]FeedReference

// Names returns the item names in sorted order
func (c ItemConfig) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Normalized returns a copy of the config with every feed id normalized
func (c ItemConfig) Normalized() ItemConfig {
	out := make(ItemConfig, len(c))

	for name, feeds := range c {
		refs := make([]FeedReference, len(feeds))
		for i, f := range feeds {
			refs[i] = FeedReference{ID: NormalizeID(f.ID), Operator: f.Operator}
		}

		out[name] = refs
	}

	return out
}

// FeedIDs returns every distinct normalized feed id referenced by the config
func (c ItemConfig) FeedIDs() []string {
	set := NewUpdateSet()

	for _, name := range c.Names() {
		for _, f := range c[name] {
			set.Add(f.ID)
		}
	}

	return set.IDs()
}

// ItemFeedIDs returns the normalized ids of one item in configuration order
func ItemFeedIDs(feeds []FeedReference) []string {
	ids := make([]string, len(feeds))
	for i, f := range feeds {
		ids[i] = NormalizeID(f.ID)
	}

	return ids
}

// UpdateSet is an insertion-ordered set of feed ids
type UpdateSet struct {
	ids  []string
	seen map[string]struct{}
}

// NewUpdateSet creates an empty UpdateSet
func NewUpdateSet() *UpdateSet {
	return &UpdateSet{seen: make(map[string]struct{})}
}

// Add inserts the normalized ids that are not yet present
func (s *UpdateSet) Add(ids ...string) {
	for _, id := range ids {
		id = NormalizeID(id)
		if _, ok := s.seen[id]; ok {
			continue
		}

		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

// Contains reports whether the id is in the set
func (s *UpdateSet) Contains(id string) bool {
	_, ok := s.seen[NormalizeID(id)]

	return ok
}

// IDs returns the members in first insertion order
func (s *UpdateSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)

	return out
}

// Len returns the number of members
func (s *UpdateSet) Len() int {
	return len(s.ids)
}
