package engine

import "stardust/internal/domain"

// HydrateReport summarizes an offline catch-up.
type HydrateReport struct {
	ElapsedMs         int64
	Reward            float64
	Kills             int
	Unlocked          []string
	AchievementReward float64
}

// HydrateSavedState catches a persisted snapshot up to nowMs. Elapsed time is
// clamped to the configured offline cap and converted into one lump of
// passive damage using the saved upgrade and artifact configuration. The
// combo is dropped since idle time cannot hold a streak.
//
// Stats.TotalStardust must already be defaulted by the decoder; it is only
// increased by the reward earned here.
func (e *Engine) HydrateSavedState(saved domain.Snapshot, nowMs int64) (domain.Snapshot, HydrateReport) {
	s := saved.Clone()
	s.ComboCount = 0
	s.ComboExpiry = 0

	elapsed := min(max(nowMs-s.LastTick, 0), e.cfg.Loop.MaxOfflineMs)
	report := HydrateReport{ElapsedMs: elapsed}

	derived := e.DeriveStats(s, nowMs)
	hit := e.ApplyDamageToShip(s.Ship, Hit{
		Damage:         derived.DPS * float64(elapsed) / 1000,
		LootMultiplier: derived.LootMultiplier,
		Zone:           s.Zone,
		BossDamageMult: derived.BossDamageMult,
	})
	settleHit(&s, hit)
	report.Reward = hit.RewardEarned
	report.Kills = hit.Kills

	s = e.TickSkills(s, elapsed)
	s.LastTick = nowMs

	before := s.Stardust
	s, report.Unlocked = e.UnlockAchievements(s)
	report.AchievementReward = s.Stardust - before

	return e.DeriveStats(s, nowMs), report
}
