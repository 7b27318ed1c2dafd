// Package upgrade holds the stadium upgrade table and the pure rules over it.
// The policy never touches storage; callers pair a successful check with
// storage.ClubStore.UpgradeTier.
package upgrade

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrTerminalTier is returned when no tier follows the current one.
	ErrTerminalTier = errors.New("stadium is already at the maximum tier")

	// ErrUnknownTier is returned for tiers outside the table.
	ErrUnknownTier = errors.New("unknown tier")
)

//go:embed tiers.yaml
var defaultTable []byte

// Tier is one row of the upgrade table.
type Tier struct {
	Level    int
	Name     string
	Capacity int
	Cost     decimal.Decimal
}

// Policy is an ordered, immutable tier table indexed by level.
type Policy struct {
	tiers []Tier
}

// Default returns the policy built from the embedded table.
func Default() *Policy {
	p, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("upgrade: embedded tier table: %v", err))
	}
	return p
}

// Parse builds a policy from a YAML document. Levels must be contiguous
// from 0 and tier 0 must be free.
func Parse(data []byte) (*Policy, error) {
	var doc struct {
		Tiers []struct {
			Level    int    `yaml:"tier"`
			Name     string `yaml:"name"`
			Capacity int    `yaml:"capacity"`
			Cost     string `yaml:"cost"`
		} `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tier table: %w", err)
	}
	if len(doc.Tiers) == 0 {
		return nil, fmt.Errorf("tier table is empty")
	}

	tiers := make([]Tier, len(doc.Tiers))
	for i, raw := range doc.Tiers {
		if raw.Level != i {
			return nil, fmt.Errorf("tier %d listed at position %d", raw.Level, i)
		}
		cost, err := decimal.NewFromString(raw.Cost)
		if err != nil {
			return nil, fmt.Errorf("tier %d cost %q: %w", raw.Level, raw.Cost, err)
		}
		if cost.IsNegative() {
			return nil, fmt.Errorf("tier %d cost is negative", raw.Level)
		}
		tiers[i] = Tier{Level: raw.Level, Name: raw.Name, Capacity: raw.Capacity, Cost: cost}
	}
	if !tiers[0].Cost.IsZero() {
		return nil, fmt.Errorf("tier 0 must cost nothing")
	}
	return &Policy{tiers: tiers}, nil
}

// MaxTier is the highest reachable level.
func (p *Policy) MaxTier() int {
	return len(p.tiers) - 1
}

// Lookup returns the row of a tier.
func (p *Policy) Lookup(tier int) (Tier, error) {
	if tier < 0 || tier > p.MaxTier() {
		return Tier{}, fmt.Errorf("%w: %d", ErrUnknownTier, tier)
	}
	return p.tiers[tier], nil
}

// NextTier returns current+1, or ErrTerminalTier at the top of the table.
func (p *Policy) NextTier(current int) (int, error) {
	if current < 0 || current > p.MaxTier() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTier, current)
	}
	if current == p.MaxTier() {
		return 0, ErrTerminalTier
	}
	return current + 1, nil
}

// CostOf returns the price of reaching tier from the previous one.
func (p *Policy) CostOf(tier int) (decimal.Decimal, error) {
	t, err := p.Lookup(tier)
	if err != nil {
		return decimal.Zero, err
	}
	return t.Cost, nil
}

// CapacityOf returns the stadium capacity at tier.
func (p *Policy) CapacityOf(tier int) (int, error) {
	t, err := p.Lookup(tier)
	if err != nil {
		return 0, err
	}
	return t.Capacity, nil
}

// NameOf returns the display name of tier, or "" for unknown tiers.
func (p *Policy) NameOf(tier int) string {
	t, err := p.Lookup(tier)
	if err != nil {
		return ""
	}
	return t.Name
}

// CanAfford reports balance >= CostOf(tier). Unknown tiers are unaffordable.
func (p *Policy) CanAfford(balance decimal.Decimal, tier int) bool {
	cost, err := p.CostOf(tier)
	if err != nil {
		return false
	}
	return balance.GreaterThanOrEqual(cost)
}
