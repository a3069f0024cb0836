package defs

import "stardust/internal/domain"

// Default returns the shipped content tables.
func Default() *Registry {
	return &Registry{
		Upgrades:     defaultUpgrades(),
		Artifacts:    defaultArtifacts(),
		Skills:       defaultSkills(),
		Achievements: defaultAchievements(),
	}
}

func defaultUpgrades() []UpgradeDef {
	return []UpgradeDef{
		{
			ID: UpgradeLaser, Name: "Laser Focus", Description: "+1 click damage per level",
			BaseCost: 10, CostMult: 1.15,
			Effect: FlatAdd{Stat: StatClickDamage, PerLevel: 1},
		},
		{
			ID: UpgradeAutofire, Name: "Autofire Turret", Description: "+1.5 damage per second per level",
			BaseCost: 25, CostMult: 1.15,
			Effect: FlatAdd{Stat: StatDPS, PerLevel: 1.5},
		},
		{
			ID: UpgradeDroneBay, Name: "Drone Bay", Description: "+8 damage per second per level",
			BaseCost: 200, CostMult: 1.18,
			Effect: FlatAdd{Stat: StatDPS, PerLevel: 8},
		},
		{
			ID: UpgradeTargeting, Name: "Targeting Computer", Description: "+1% crit chance per level",
			BaseCost: 100, CostMult: 1.3,
			Effect: FlatAdd{Stat: StatCritChance, PerLevel: 0.01},
		},
		{
			ID: UpgradeOvercharge, Name: "Overcharge Capacitors", Description: "+0.25x crit multiplier per level",
			BaseCost: 250, CostMult: 1.35,
			Effect: FlatAdd{Stat: StatCritMult, PerLevel: 0.25},
		},
		{
			ID: UpgradeSalvage, Name: "Salvage Drones", Description: "+10% loot per level, compounding",
			BaseCost: 150, CostMult: 1.25,
			Effect: MulStack{Stats: []Stat{StatLootMultiplier}, Rate: 0.1},
		},
		{
			ID: UpgradeShieldBreaker, Name: "Shield Breaker", Description: "+20% boss damage per level",
			BaseCost: 500, CostMult: 1.3,
			Effect: MulStack{Stats: []Stat{StatBossDamageMult}, Rate: 0.2},
		},
		{
			ID: UpgradeCompanion, Name: "Companion Wing", Description: "Each companion fires half your click damage every second",
			BaseCost: 1000, CostMult: 1.5,
			Effect:          CompanionDPS{ClickShare: 0.5},
			GrantsCompanion: true,
		},
		{
			ID: UpgradeReactor, Name: "Fusion Reactor", Description: "+5% damage per second per level",
			BaseCost: 2000, CostMult: 1.4,
			Effect: MulStack{Stats: []Stat{StatDPS}, Rate: 0.05},
		},
		{
			ID: UpgradeAmplifier, Name: "Beam Amplifier", Description: "+10% click damage per level",
			BaseCost: 1500, CostMult: 1.4,
			Effect: MulStack{Stats: []Stat{StatClickDamage}, Rate: 0.1},
		},
	}
}

func defaultArtifacts() []ArtifactDef {
	return []ArtifactDef{
		{
			ID: ArtifactStarForge, Name: "Star Forge", Description: "+25% click damage and dps per level",
			BaseCost: 1, CostMult: 2,
			Effect: MulStack{Stats: []Stat{StatDPS, StatClickDamage}, Rate: 0.25},
		},
		{
			ID: ArtifactLuckyCharm, Name: "Lucky Charm", Description: "+2% crit chance per level",
			BaseCost: 2, CostMult: 2,
			Effect: FlatAdd{Stat: StatCritChance, PerLevel: 0.02},
		},
		{
			ID: ArtifactGoldenHull, Name: "Golden Hull", Description: "+50% loot per level",
			BaseCost: 2, CostMult: 2.5,
			Effect: MulStack{Stats: []Stat{StatLootMultiplier}, Rate: 0.5},
		},
		{
			ID: ArtifactTitanSlayer, Name: "Titan Slayer", Description: "+0.5x boss damage per level",
			BaseCost: 3, CostMult: 2,
			Effect: FlatAdd{Stat: StatBossDamageMult, PerLevel: 0.5},
		},
		{
			ID: ArtifactGemPolish, Name: "Gem Polish", Description: "Each gem grants +0.5% more per level",
			BaseCost: 5, CostMult: 3,
			Effect:       NoEffect{},
			PolishesGems: true,
		},
		{
			ID: ArtifactVoidSiphon, Name: "Void Siphon", Description: "Passively siphon 0.1% of the target's bounty per level each second",
			BaseCost: 5, CostMult: 3,
			Effect:            NoEffect{},
			PassiveIncomeRate: 0.001,
		},
		{
			ID: ArtifactWarpDrive, Name: "Warp Drive", Description: "Start each prestige 5 zones further per level",
			BaseCost: 10, CostMult: 4,
			Effect:         NoEffect{},
			HeadStartZones: 5,
		},
	}
}

func defaultSkills() []SkillDef {
	return []SkillDef{
		{
			ID: SkillOverdrive, Name: "Overdrive", Description: "Double damage per second for 10s",
			DurationMs: 10_000, CooldownMs: 60_000,
			Effect: Scale{Stat: StatDPS, Factor: 2},
		},
		{
			ID: SkillFocusFire, Name: "Focus Fire", Description: "Triple click damage for 15s",
			DurationMs: 15_000, CooldownMs: 90_000,
			Effect: Scale{Stat: StatClickDamage, Factor: 3},
		},
		{
			ID: SkillGoldenTouch, Name: "Golden Touch", Description: "Double loot for 20s",
			DurationMs: 20_000, CooldownMs: 120_000,
			Effect: Scale{Stat: StatLootMultiplier, Factor: 2},
		},
	}
}

func clicksAtLeast(n int64) func(domain.Snapshot) bool {
	return func(s domain.Snapshot) bool { return s.Stats.TotalClicks >= n }
}

func comboAtLeast(n int) func(domain.Snapshot) bool {
	return func(s domain.Snapshot) bool { return s.Stats.HighestCombo >= n }
}

func zoneAtLeast(n int) func(domain.Snapshot) bool {
	return func(s domain.Snapshot) bool { return s.Stats.HighestZone >= n }
}

func earnedAtLeast(n float64) func(domain.Snapshot) bool {
	return func(s domain.Snapshot) bool { return s.Stats.TotalStardust >= n }
}

func unicornsAtLeast(n int) func(domain.Snapshot) bool {
	return func(s domain.Snapshot) bool { return s.Stats.TotalUnicorns >= n }
}

func defaultAchievements() []AchievementDef {
	return []AchievementDef{
		{ID: "first_blood", Name: "First Blood", Description: "Fire your first shot", Reward: 10, Condition: clicksAtLeast(1)},
		{ID: "clicks_1000", Name: "Trigger Happy", Description: "Fire 1,000 shots", Reward: 1000, Condition: clicksAtLeast(1000)},
		{ID: "combo_3", Name: "Combo Starter", Description: "Reach a 3x combo", Reward: 50, Condition: comboAtLeast(3)},
		{ID: "combo_10", Name: "Combo Pilot", Description: "Reach a 10x combo", Reward: 500, Condition: comboAtLeast(10)},
		{ID: "combo_25", Name: "Combo Ace", Description: "Reach a 25x combo", Reward: 2500, Condition: comboAtLeast(25)},
		{ID: "zone_1", Name: "Outbound", Description: "Reach zone 1", Reward: 100, Condition: zoneAtLeast(1)},
		{ID: "zone_5", Name: "Deep Space", Description: "Reach zone 5", Reward: 5000, Condition: zoneAtLeast(5)},
		{ID: "zone_10", Name: "Far Reaches", Description: "Reach zone 10", Reward: 50000, Condition: zoneAtLeast(10)},
		{ID: "rich_1k", Name: "Pocket Change", Description: "Earn 1,000 stardust", Reward: 100, Condition: earnedAtLeast(1000)},
		{ID: "rich_1m", Name: "Stardust Baron", Description: "Earn 1,000,000 stardust", Reward: 100000, Condition: earnedAtLeast(1e6)},
		{ID: "unicorn_1", Name: "Unicorn Hunter", Description: "Destroy a boss", Reward: 250, Condition: unicornsAtLeast(1)},
		{ID: "unicorn_10", Name: "Unicorn Stable", Description: "Destroy 10 bosses", Reward: 5000, Condition: unicornsAtLeast(10)},
		{
			ID: "prestige_1", Name: "Rebirth", Description: "Prestige once", Reward: 1000,
			Condition: func(s domain.Snapshot) bool { return s.TotalPrestiges >= 1 },
		},
	}
}
