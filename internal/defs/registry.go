// Package defs holds the static upgrade, artifact, skill and achievement
// tables. Definitions are immutable once a Registry is built; the engine
// applies them in slice order.
package defs

import (
	"math"

	"stardust/internal/domain"
)

const (
	UpgradeLaser         = "laser"
	UpgradeAutofire      = "autofire"
	UpgradeDroneBay      = "drone_bay"
	UpgradeTargeting     = "targeting"
	UpgradeOvercharge    = "overcharge"
	UpgradeSalvage       = "salvage"
	UpgradeShieldBreaker = "shield_breaker"
	UpgradeCompanion     = "companion"
	UpgradeReactor       = "reactor"
	UpgradeAmplifier     = "amplifier"

	ArtifactStarForge   = "star_forge"
	ArtifactLuckyCharm  = "lucky_charm"
	ArtifactGoldenHull  = "golden_hull"
	ArtifactTitanSlayer = "titan_slayer"
	ArtifactGemPolish   = "gem_polish"
	ArtifactVoidSiphon  = "void_siphon"
	ArtifactWarpDrive   = "warp_drive"

	SkillOverdrive   = "overdrive"
	SkillFocusFire   = "focus_fire"
	SkillGoldenTouch = "golden_touch"
)

type UpgradeDef struct {
	ID          string
	Name        string
	Description string
	BaseCost    float64
	CostMult    float64
	Effect      Effect

	// GrantsCompanion increments the snapshot's companion count per level bought.
	GrantsCompanion bool
}

// Cost returns the stardust price of buying the next level from level.
func (d UpgradeDef) Cost(level int) float64 {
	return Cost(d.BaseCost, d.CostMult, level)
}

type ArtifactDef struct {
	ID          string
	Name        string
	Description string
	BaseCost    float64
	CostMult    float64
	Effect      Effect

	PolishesGems      bool
	PassiveIncomeRate float64
	HeadStartZones    int
}

// Cost returns the gem price of buying the next level from level.
func (d ArtifactDef) Cost(level int) int64 {
	return int64(Cost(d.BaseCost, d.CostMult, level))
}

type SkillDef struct {
	ID          string
	Name        string
	Description string
	DurationMs  int64
	CooldownMs  int64
	Effect      Effect
}

type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Reward      float64
	Condition   func(domain.Snapshot) bool
}

// Cost is floor(baseCost * costMult^level), never negative.
func Cost(baseCost, costMult float64, level int) float64 {
	if level < 0 {
		level = 0
	}
	return math.Max(0, math.Floor(baseCost*math.Pow(costMult, float64(level))))
}

// Registry is the configuration surface for game content.
type Registry struct {
	Upgrades     []UpgradeDef
	Artifacts    []ArtifactDef
	Skills       []SkillDef
	Achievements []AchievementDef
}

func (r *Registry) Upgrade(id string) (UpgradeDef, bool) {
	for _, d := range r.Upgrades {
		if d.ID == id {
			return d, true
		}
	}
	return UpgradeDef{}, false
}

func (r *Registry) Artifact(id string) (ArtifactDef, bool) {
	for _, d := range r.Artifacts {
		if d.ID == id {
			return d, true
		}
	}
	return ArtifactDef{}, false
}

func (r *Registry) Skill(id string) (SkillDef, bool) {
	for _, d := range r.Skills {
		if d.ID == id {
			return d, true
		}
	}
	return SkillDef{}, false
}

func (r *Registry) Achievement(id string) (AchievementDef, bool) {
	for _, d := range r.Achievements {
		if d.ID == id {
			return d, true
		}
	}
	return AchievementDef{}, false
}
