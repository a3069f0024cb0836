package engine

import (
	"math"

	"stardust/internal/domain"
)

// CalculatePrestigeGems converts lifetime run earnings into gems. The sqrt
// term is floored before the rank bonus is applied, then floored again.
func (e *Engine) CalculatePrestigeGems(totalEarned float64, totalPrestiges int) int64 {
	if totalEarned <= 0 || e.cfg.Gems.PrestigeDivisor <= 0 {
		return 0
	}
	base := math.Floor(math.Sqrt(totalEarned / e.cfg.Gems.PrestigeDivisor))
	bonus := 1 + float64(totalPrestiges)*e.cfg.Rank.GemBonus
	return int64(math.Floor(base * bonus))
}

func (e *Engine) GemMultiplier(gems int64, polishLevel int) float64 {
	return 1 + float64(gems)*(e.cfg.Gems.BaseRate+float64(polishLevel)*e.cfg.Gems.PolishRate)
}

// PerformPrestige resets the run for gems. It reports false and returns s
// unchanged when the run would not yield any gems.
func (e *Engine) PerformPrestige(s domain.Snapshot, nowMs int64) (domain.Snapshot, int64, bool) {
	gems := e.CalculatePrestigeGems(s.TotalEarned, s.TotalPrestiges)
	if gems <= 0 {
		return s, 0, false
	}

	kept := s.Clone()
	out := e.NewSnapshot(nowMs)
	out.PrestigeGems = s.PrestigeGems + gems
	out.TotalPrestiges = s.TotalPrestiges + 1
	out.Stats = kept.Stats
	out.Achievements = kept.Achievements
	out.Artifacts = kept.Artifacts

	if zone := e.headStartZones(out); zone > 0 {
		out.Zone = zone
		out.Ship = e.ShipForLevel(FirstLevelOfZone(zone))
		out.Stats.HighestZone = max(out.Stats.HighestZone, zone)
	}
	return out, gems, true
}

// RegisterCombo records a successful attack at nowMs, extending or
// restarting the streak.
func (e *Engine) RegisterCombo(s domain.Snapshot, nowMs int64) domain.Snapshot {
	out := s.Clone()
	if nowMs <= out.ComboExpiry {
		out.ComboCount++
	} else {
		out.ComboCount = 1
	}
	out.ComboExpiry = nowMs + e.cfg.Combo.DurationMs
	out.Stats.HighestCombo = max(out.Stats.HighestCombo, out.ComboCount)
	return out
}

// ActivateSkill starts a Ready skill. Active window and cooldown start together.
func (e *Engine) ActivateSkill(s domain.Snapshot, id string) (domain.Snapshot, bool) {
	def, ok := e.reg.Skill(id)
	if !ok || !s.Skills[id].Ready() {
		return s, false
	}
	out := s.Clone()
	out.Skills[id] = domain.SkillState{
		ActiveRemaining:   def.DurationMs,
		CooldownRemaining: def.CooldownMs,
	}
	return out, true
}

// TickSkills advances every defined skill by dtMs, clamping at zero.
func (e *Engine) TickSkills(s domain.Snapshot, dtMs int64) domain.Snapshot {
	if dtMs < 0 {
		dtMs = 0
	}
	out := s.Clone()
	for _, def := range e.reg.Skills {
		st := out.Skills[def.ID]
		st.ActiveRemaining = max(st.ActiveRemaining-dtMs, 0)
		st.CooldownRemaining = max(st.CooldownRemaining-dtMs, 0)
		out.Skills[def.ID] = st
	}
	return out
}

// CheckAchievements lists achievements satisfied by s that are not yet unlocked.
func (e *Engine) CheckAchievements(s domain.Snapshot) []string {
	var ids []string
	for _, a := range e.reg.Achievements {
		if s.HasAchievement(a.ID) {
			continue
		}
		if a.Condition(s) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// ApplyAchievementRewards unlocks ids and pays each one's reward once.
// Unknown or already unlocked ids are skipped.
func (e *Engine) ApplyAchievementRewards(s domain.Snapshot, ids []string) domain.Snapshot {
	out := s.Clone()
	for _, id := range ids {
		def, ok := e.reg.Achievement(id)
		if !ok || out.HasAchievement(id) {
			continue
		}
		out.Achievements = append(out.Achievements, id)
		earn(&out, def.Reward)
	}
	return out
}

// UnlockAchievements scans and rewards in one step.
func (e *Engine) UnlockAchievements(s domain.Snapshot) (domain.Snapshot, []string) {
	ids := e.CheckAchievements(s)
	if len(ids) == 0 {
		return s, nil
	}
	return e.ApplyAchievementRewards(s, ids), ids
}

func earn(s *domain.Snapshot, amount float64) {
	if amount <= 0 {
		return
	}
	s.Stardust += amount
	s.TotalEarned += amount
	s.Stats.TotalStardust += amount
}

// settleHit folds a combat result into the snapshot's ship, zone and counters.
func settleHit(s *domain.Snapshot, hit HitResult) {
	s.Ship = hit.Ship
	s.Zone = hit.NewZone
	s.Stats.HighestZone = max(s.Stats.HighestZone, s.Zone)
	s.UnicornCount += hit.BossKills
	s.Stats.TotalUnicorns += hit.BossKills
	earn(s, hit.RewardEarned)
}
