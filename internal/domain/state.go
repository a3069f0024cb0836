package domain

// Variant classifies a non-boss ship's stat profile.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantArmored  Variant = "armored"
	VariantSpeed    Variant = "speed"
)

// Snapshot is the whole game state. It is a value: engine functions take a
// Snapshot and return a new one, and Clone must be used before mutating
// nested collections.
type Snapshot struct {
	Stardust    float64 `json:"stardust"`
	TotalEarned float64 `json:"totalEarned"`

	// Derived fields, only meaningful after stat derivation.
	ClickDamage              float64    `json:"clickDamage"`
	DPS                      float64    `json:"dps"`
	LootMultiplier           float64    `json:"lootMultiplier"`
	CritChance               float64    `json:"critChance"`
	CritMult                 float64    `json:"critMult"`
	BossDamageMult           float64    `json:"bossDamageMult"`
	GemMultiplier            float64    `json:"gemMultiplier,omitempty"`
	PassiveStardustPerSecond float64    `json:"passiveStardustPerSecond,omitempty"`
	Combo                    ComboBonus `json:"combo"`

	Ship         Ship                    `json:"ship"`
	Upgrades     map[string]UpgradeState `json:"upgrades"`
	Artifacts    map[string]int          `json:"artifacts"`
	Achievements []string                `json:"achievements"`
	Skills       map[string]SkillState   `json:"skills"`
	AutoBuy      bool                    `json:"autoBuy"`
	LastTick     int64                   `json:"lastTick"`

	PrestigeGems   int64 `json:"prestigeGems"`
	TotalPrestiges int   `json:"totalPrestiges"`

	ComboCount  int   `json:"comboCount"`
	ComboExpiry int64 `json:"comboExpiry"`

	UnicornCount   int `json:"unicornCount"`
	CompanionCount int `json:"companionCount"`
	Zone           int `json:"zone"`

	Stats Stats `json:"stats"`
}

// ComboBonus records the combo contribution of the last derivation for display.
type ComboBonus struct {
	Active        bool    `json:"active"`
	DpsMult       float64 `json:"dpsMult"`
	CritChanceAdd float64 `json:"critChanceAdd"`
	CritMultAdd   float64 `json:"critMultAdd"`
}

// Ship is the current combat target.
type Ship struct {
	ID         string            `json:"id"`
	Level      int               `json:"level"`
	HP         float64           `json:"hp"`
	MaxHP      float64           `json:"maxHp"`
	Reward     float64           `json:"reward"`
	IsBoss     bool              `json:"isBoss"`
	Variant    Variant           `json:"variant"`
	Generators []ShieldGenerator `json:"generators"`
}

// ShieldGenerator blocks hull damage on bosses while its hp is above zero.
// X and Y are percentage coordinates used for hit-testing.
type ShieldGenerator struct {
	ID    string  `json:"id"`
	HP    float64 `json:"hp"`
	MaxHP float64 `json:"maxHp"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type UpgradeState struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// SkillState holds remaining milliseconds for a skill's active window and cooldown.
type SkillState struct {
	CooldownRemaining int64 `json:"cooldownRemaining"`
	ActiveRemaining   int64 `json:"activeRemaining"`
}

// Ready reports whether the skill can be activated.
func (s SkillState) Ready() bool {
	return s.CooldownRemaining == 0 && s.ActiveRemaining == 0
}

// Stats is lifetime telemetry that survives prestige.
type Stats struct {
	TotalStardust float64 `json:"totalStardust"`
	TotalClicks   int64   `json:"totalClicks"`
	HighestCombo  int     `json:"highestCombo"`
	HighestZone   int     `json:"highestZone"`
	TotalUnicorns int     `json:"totalUnicorns"`
}

// AliveGenerators returns the generators that still have hp, in stored order.
func (s Ship) AliveGenerators() []ShieldGenerator {
	var alive []ShieldGenerator
	for _, g := range s.Generators {
		if g.HP > 0 {
			alive = append(alive, g)
		}
	}
	return alive
}

// ShieldsUp reports whether any generator is still alive.
func (s Ship) ShieldsUp() bool {
	for _, g := range s.Generators {
		if g.HP > 0 {
			return true
		}
	}
	return false
}

// Clone returns a copy of the ship with its own generators slice.
func (s Ship) Clone() Ship {
	out := s
	if s.Generators != nil {
		out.Generators = make([]ShieldGenerator, len(s.Generators))
		copy(out.Generators, s.Generators)
	}
	return out
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Ship = s.Ship.Clone()

	out.Upgrades = make(map[string]UpgradeState, len(s.Upgrades))
	for k, v := range s.Upgrades {
		out.Upgrades[k] = v
	}
	out.Artifacts = make(map[string]int, len(s.Artifacts))
	for k, v := range s.Artifacts {
		out.Artifacts[k] = v
	}
	out.Skills = make(map[string]SkillState, len(s.Skills))
	for k, v := range s.Skills {
		out.Skills[k] = v
	}
	out.Achievements = append([]string(nil), s.Achievements...)
	return out
}

// UpgradeLevel returns the owned level of an upgrade, zero when absent.
func (s Snapshot) UpgradeLevel(id string) int {
	return s.Upgrades[id].Level
}

// ArtifactLevel returns the owned level of an artifact, zero when absent.
func (s Snapshot) ArtifactLevel(id string) int {
	return s.Artifacts[id]
}

// HasAchievement reports whether id is already unlocked.
func (s Snapshot) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// ComboActive reports whether the combo streak is live at nowMs.
func (s Snapshot) ComboActive(nowMs int64) bool {
	return s.ComboCount > 0 && s.ComboExpiry > nowMs
}
