package engine

import (
	"math"

	"stardust/internal/domain"
)

const (
	baseClickDamage    = 1
	baseDPS            = 0
	baseLootMultiplier = 1
	baseCritChance     = 0.02
	baseCritMult       = 3
	baseBossDamageMult = 1
)

// DeriveStats folds upgrades, artifacts, prestige rank, combo, gems and
// active skills into the derived fields of a copy of s. The step order is
// fixed: later steps multiply or clamp earlier results.
func (e *Engine) DeriveStats(s domain.Snapshot, nowMs int64) domain.Snapshot {
	out := s.Clone()
	out.ClickDamage = baseClickDamage
	out.DPS = baseDPS
	out.LootMultiplier = baseLootMultiplier
	out.CritChance = baseCritChance
	out.CritMult = baseCritMult
	out.BossDamageMult = baseBossDamageMult
	out.Combo = domain.ComboBonus{}
	out.GemMultiplier = 1
	out.PassiveStardustPerSecond = 0

	for _, u := range e.reg.Upgrades {
		u.Effect.Apply(&out, s.UpgradeLevel(u.ID))
	}
	for _, a := range e.reg.Artifacts {
		if lvl := s.ArtifactLevel(a.ID); lvl > 0 {
			a.Effect.Apply(&out, lvl)
		}
	}

	if s.TotalPrestiges > 0 {
		rank := float64(s.TotalPrestiges)
		m := 1 + rank*e.cfg.Rank.DamageBonus
		out.DPS *= m
		out.ClickDamage *= m
		out.CritMult += rank * e.cfg.Rank.CritMultBonus
	}

	if s.ComboActive(nowMs) {
		out.Combo = e.comboBonus(s.ComboCount)
		out.CritChance += out.Combo.CritChanceAdd
		out.CritMult += out.Combo.CritMultAdd
		out.DPS *= out.Combo.DpsMult
	}

	out.CritChance = math.Max(0, math.Min(out.CritChance, e.cfg.CritChanceCap))

	out.GemMultiplier = e.GemMultiplier(s.PrestigeGems, e.polishLevel(s))
	out.LootMultiplier *= out.GemMultiplier
	out.DPS *= out.GemMultiplier
	out.ClickDamage *= out.GemMultiplier

	if rate := e.passiveIncomeRate(s); rate > 0 {
		out.PassiveStardustPerSecond = s.Ship.Reward * out.LootMultiplier * rate
	}

	for _, sk := range e.reg.Skills {
		if s.Skills[sk.ID].ActiveRemaining > 0 {
			sk.Effect.Apply(&out, 1)
		}
	}
	return out
}

func (e *Engine) comboBonus(count int) domain.ComboBonus {
	c := e.cfg.Combo
	n := float64(count)
	b := domain.ComboBonus{
		Active:        true,
		CritChanceAdd: n * c.CritChancePerStack,
		DpsMult:       math.Min(1+n*c.DpsPerStack, c.MaxDpsMult),
	}
	if c.CritTierSize > 0 {
		b.CritMultAdd = float64(count/c.CritTierSize) * c.CritMultPerTier
	}
	return b
}

func (e *Engine) polishLevel(s domain.Snapshot) int {
	lvl := 0
	for _, a := range e.reg.Artifacts {
		if a.PolishesGems {
			lvl += s.ArtifactLevel(a.ID)
		}
	}
	return lvl
}

func (e *Engine) passiveIncomeRate(s domain.Snapshot) float64 {
	rate := 0.0
	for _, a := range e.reg.Artifacts {
		if a.PassiveIncomeRate > 0 {
			rate += float64(s.ArtifactLevel(a.ID)) * a.PassiveIncomeRate
		}
	}
	return rate
}

func (e *Engine) headStartZones(s domain.Snapshot) int {
	zones := 0
	for _, a := range e.reg.Artifacts {
		if a.HeadStartZones > 0 {
			zones += s.ArtifactLevel(a.ID) * a.HeadStartZones
		}
	}
	return zones
}
