package engine

import "stardust/internal/domain"

// AttackOutcome describes a resolved player click.
type AttackOutcome struct {
	HitResult
	Damage            float64
	Crit              bool
	Unlocked          []string
	AchievementReward float64
}

// Click resolves one player attack at nowMs. Target follows the Hit.Target
// rules. A click that lands damage extends the combo; every click counts
// towards lifetime clicks.
func (e *Engine) Click(s domain.Snapshot, nowMs int64, target *string, rng Rand) (domain.Snapshot, AttackOutcome) {
	derived := e.DeriveStats(s, nowMs)

	var out AttackOutcome
	out.Damage = derived.ClickDamage
	if rng.Float64() < derived.CritChance {
		out.Crit = true
		out.Damage *= derived.CritMult
	}
	out.HitResult = e.ApplyDamageToShip(s.Ship, Hit{
		Damage:         out.Damage,
		LootMultiplier: derived.LootMultiplier,
		Zone:           s.Zone,
		Target:         target,
		BossDamageMult: derived.BossDamageMult,
		IsClick:        true,
	})

	next := s.Clone()
	next.Stats.TotalClicks++
	settleHit(&next, out.HitResult)
	if out.DamageDealt > 0 {
		next = e.RegisterCombo(next, nowMs)
	}

	before := next.Stardust
	next, out.Unlocked = e.UnlockAchievements(next)
	out.AchievementReward = next.Stardust - before

	return e.DeriveStats(next, nowMs), out
}

// TickOutcome describes one simulation step.
type TickOutcome struct {
	HitResult
	ElapsedMs         int64
	Bought            string
	PassiveIncome     float64
	Unlocked          []string
	AchievementReward float64
}

// Tick advances the simulation to nowMs: skills count down, auto-buy makes
// at most one purchase, passive dps hits the ship and passive income is paid.
func (e *Engine) Tick(s domain.Snapshot, nowMs int64, rng Rand) (domain.Snapshot, TickOutcome) {
	var out TickOutcome
	out.ElapsedMs = min(max(nowMs-s.LastTick, 0), e.cfg.Loop.MaxOfflineMs)

	next := e.TickSkills(s, out.ElapsedMs)
	if next.AutoBuy {
		next, out.Bought, _ = e.AutoBuy(next, rng)
	}

	derived := e.DeriveStats(next, nowMs)
	secs := float64(out.ElapsedMs) / 1000
	out.HitResult = e.ApplyDamageToShip(next.Ship, Hit{
		Damage:         derived.DPS * secs,
		LootMultiplier: derived.LootMultiplier,
		Zone:           next.Zone,
		BossDamageMult: derived.BossDamageMult,
	})
	settleHit(&next, out.HitResult)

	out.PassiveIncome = derived.PassiveStardustPerSecond * secs
	earn(&next, out.PassiveIncome)
	next.LastTick = nowMs

	before := next.Stardust
	next, out.Unlocked = e.UnlockAchievements(next)
	out.AchievementReward = next.Stardust - before

	return e.DeriveStats(next, nowMs), out
}
