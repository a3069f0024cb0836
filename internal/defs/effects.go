package defs

import "stardust/internal/domain"

// Stat names a derived snapshot field an effect can modify.
type Stat int

const (
	StatClickDamage Stat = iota
	StatDPS
	StatLootMultiplier
	StatCritChance
	StatCritMult
	StatBossDamageMult
)

func (s Stat) field(snap *domain.Snapshot) *float64 {
	switch s {
	case StatClickDamage:
		return &snap.ClickDamage
	case StatDPS:
		return &snap.DPS
	case StatLootMultiplier:
		return &snap.LootMultiplier
	case StatCritChance:
		return &snap.CritChance
	case StatCritMult:
		return &snap.CritMult
	case StatBossDamageMult:
		return &snap.BossDamageMult
	}
	return nil
}

// Effect mutates the derived fields of a working snapshot for an owned level.
type Effect interface {
	Apply(snap *domain.Snapshot, level int)
}

// FlatAdd adds PerLevel for every owned level.
type FlatAdd struct {
	Stat     Stat
	PerLevel float64
}

func (e FlatAdd) Apply(snap *domain.Snapshot, level int) {
	*e.Stat.field(snap) += e.PerLevel * float64(level)
}

// MulStack multiplies each stat by 1 + Rate*level.
type MulStack struct {
	Stats []Stat
	Rate  float64
}

func (e MulStack) Apply(snap *domain.Snapshot, level int) {
	m := 1 + e.Rate*float64(level)
	for _, st := range e.Stats {
		*st.field(snap) *= m
	}
}

// Scale multiplies a stat by a fixed factor while the owner is active.
type Scale struct {
	Stat   Stat
	Factor float64
}

func (e Scale) Apply(snap *domain.Snapshot, _ int) {
	*e.Stat.field(snap) *= e.Factor
}

// CompanionDPS grants each companion a share of the current click damage as dps.
type CompanionDPS struct {
	ClickShare float64
}

func (e CompanionDPS) Apply(snap *domain.Snapshot, level int) {
	if level <= 0 {
		return
	}
	snap.DPS += snap.ClickDamage * e.ClickShare * float64(snap.CompanionCount)
}

// NoEffect marks definitions whose bonus is read directly by the engine.
type NoEffect struct{}

func (NoEffect) Apply(*domain.Snapshot, int) {}
