package engine

import "stardust/internal/domain"

// NewSnapshot returns a fresh run starting at level 1.
func (e *Engine) NewSnapshot(nowMs int64) domain.Snapshot {
	s := domain.Snapshot{
		ClickDamage:    baseClickDamage,
		DPS:            baseDPS,
		LootMultiplier: baseLootMultiplier,
		CritChance:     baseCritChance,
		CritMult:       baseCritMult,
		BossDamageMult: baseBossDamageMult,
		GemMultiplier:  1,
		Ship:           e.ShipForLevel(1),
		Upgrades:       make(map[string]domain.UpgradeState, len(e.reg.Upgrades)),
		Artifacts:      map[string]int{},
		Achievements:   []string{},
		Skills:         make(map[string]domain.SkillState, len(e.reg.Skills)),
		LastTick:       nowMs,
	}
	for _, u := range e.reg.Upgrades {
		s.Upgrades[u.ID] = domain.UpgradeState{ID: u.ID}
	}
	for _, sk := range e.reg.Skills {
		s.Skills[sk.ID] = domain.SkillState{}
	}
	return s
}
