package engine

import (
	"fmt"
	"math"

	"stardust/internal/domain"
)

const (
	shipBaseHP       = 30
	shipHPGrowth     = 1.15
	shipBaseReward   = 10
	shipRewardGrowth = 1.16

	bossEvery    = 10
	armoredEvery = 5
	speedEvery   = 3

	// LevelsPerZone is how many ship levels make up one zone.
	LevelsPerZone = 10
)

var generatorCorners = [][2]float64{
	{10, 10}, {90, 10}, {10, 90}, {90, 90},
}

type variantProfile struct {
	hpMult     float64
	rewardMult float64
}

var profiles = map[domain.Variant]variantProfile{
	domain.VariantStandard: {hpMult: 1, rewardMult: 1},
	domain.VariantArmored:  {hpMult: 1.5, rewardMult: 1.3},
	domain.VariantSpeed:    {hpMult: 0.7, rewardMult: 0.9},
}

var bossProfile = variantProfile{hpMult: 8, rewardMult: 5}

// ShipForLevel builds the enemy for level. Levels below 1 are treated as 1.
// Every call yields a new ship ID.
func (e *Engine) ShipForLevel(level int) domain.Ship {
	if level < 1 {
		level = 1
	}
	isBoss := level%bossEvery == 0
	variant := domain.VariantStandard
	switch {
	case isBoss:
	case level%armoredEvery == 0:
		variant = domain.VariantArmored
	case level%speedEvery == 0:
		variant = domain.VariantSpeed
	}

	p := profiles[variant]
	if isBoss {
		p = bossProfile
	}
	hp := math.Floor(shipBaseHP * math.Pow(shipHPGrowth, float64(level)) * p.hpMult)
	reward := math.Floor(shipBaseReward * math.Pow(shipRewardGrowth, float64(level)) * p.rewardMult)

	ship := domain.Ship{
		ID:      e.newID(),
		Level:   level,
		HP:      hp,
		MaxHP:   hp,
		Reward:  reward,
		IsBoss:  isBoss,
		Variant: variant,
	}
	if isBoss {
		ship.Generators = e.generatorsFor(ship)
	}
	return ship
}

func (e *Engine) generatorsFor(ship domain.Ship) []domain.ShieldGenerator {
	n := e.cfg.Boss.GeneratorCount
	if n < 1 {
		n = 1
	}
	genHP := math.Ceil(ship.MaxHP * e.cfg.Boss.GeneratorHPShare)
	gens := make([]domain.ShieldGenerator, n)
	for i := range gens {
		pos := generatorCorners[i%len(generatorCorners)]
		gens[i] = domain.ShieldGenerator{
			ID:    fmt.Sprintf("%s-gen-%d", ship.ID, i),
			HP:    genHP,
			MaxHP: genHP,
			X:     pos[0],
			Y:     pos[1],
		}
	}
	return gens
}

// FirstLevelOfZone returns the ship level a zone begins at.
func FirstLevelOfZone(zone int) int {
	if zone <= 0 {
		return 1
	}
	return zone * LevelsPerZone
}
