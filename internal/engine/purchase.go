package engine

import (
	"stardust/internal/defs"
	"stardust/internal/domain"
)

// UpgradeCost is the price of the next level of upgrade id, or false if unknown.
func (e *Engine) UpgradeCost(s domain.Snapshot, id string) (float64, bool) {
	def, ok := e.reg.Upgrade(id)
	if !ok {
		return 0, false
	}
	return def.Cost(s.UpgradeLevel(id)), true
}

// BuyUpgrade spends stardust on one level of upgrade id.
func (e *Engine) BuyUpgrade(s domain.Snapshot, id string) (domain.Snapshot, bool) {
	def, ok := e.reg.Upgrade(id)
	if !ok {
		return s, false
	}
	level := s.UpgradeLevel(id)
	cost := def.Cost(level)
	if s.Stardust < cost {
		return s, false
	}
	out := s.Clone()
	out.Stardust -= cost
	out.Upgrades[id] = domain.UpgradeState{ID: id, Level: level + 1}
	if def.GrantsCompanion {
		out.CompanionCount++
	}
	return out, true
}

// BuyArtifact spends prestige gems on one level of artifact id.
func (e *Engine) BuyArtifact(s domain.Snapshot, id string) (domain.Snapshot, bool) {
	def, ok := e.reg.Artifact(id)
	if !ok {
		return s, false
	}
	level := s.ArtifactLevel(id)
	cost := def.Cost(level)
	if s.PrestigeGems < cost {
		return s, false
	}
	out := s.Clone()
	out.PrestigeGems -= cost
	out.Artifacts[id] = level + 1
	return out, true
}

// AffordableUpgrades lists upgrades whose next level s can pay for, in table order.
func (e *Engine) AffordableUpgrades(s domain.Snapshot) []defs.UpgradeDef {
	var out []defs.UpgradeDef
	for _, u := range e.reg.Upgrades {
		if u.Cost(s.UpgradeLevel(u.ID)) <= s.Stardust {
			out = append(out, u)
		}
	}
	return out
}

// AutoBuy purchases one level of a uniformly chosen affordable upgrade.
func (e *Engine) AutoBuy(s domain.Snapshot, rng Rand) (domain.Snapshot, string, bool) {
	choices := e.AffordableUpgrades(s)
	if len(choices) == 0 {
		return s, "", false
	}
	pick := choices[rng.IntN(len(choices))]
	out, ok := e.BuyUpgrade(s, pick.ID)
	if !ok {
		return s, "", false
	}
	return out, pick.ID, true
}
