package engine

import (
	"math"

	"stardust/internal/domain"
)

// Hit describes one damage application against the current ship.
type Hit struct {
	Damage         float64
	LootMultiplier float64
	Zone           int
	// Target selects a shield generator. Nil auto-targets the first alive
	// generator; a non-nil ID that matches no alive generator deals nothing.
	Target *string
	// BossDamageMult defaults to 1 when not positive.
	BossDamageMult float64
	IsClick        bool
}

type HitResult struct {
	Ship         domain.Ship
	RewardEarned float64
	NewZone      int
	DamageDealt  float64
	HitShield    bool

	GeneratorID string
	Kills       int
	BossKills   int
}

// ApplyDamageToShip routes damage to shield generators while any is alive,
// otherwise to the hull, respawning and continuing through as many ships as
// the damage can destroy. The input ship is never modified.
func (e *Engine) ApplyDamageToShip(ship domain.Ship, hit Hit) HitResult {
	cur := ship.Clone()
	res := HitResult{Ship: cur, NewZone: hit.Zone}

	damage := hit.Damage
	if damage <= 0 || math.IsNaN(damage) || math.IsInf(damage, 0) {
		return res
	}
	bossMult := hit.BossDamageMult
	if bossMult <= 0 {
		bossMult = 1
	}

	if cur.ShieldsUp() {
		res.HitShield = true
		idx := targetGenerator(cur, hit.Target)
		if idx < 0 {
			return res
		}
		final := damage
		if cur.IsBoss {
			final *= bossMult
			if hit.IsClick {
				final *= e.cfg.Boss.ClickBonus
			}
		}
		gen := &cur.Generators[idx]
		dealt := math.Min(gen.HP, final)
		gen.HP -= dealt
		res.Ship = cur
		res.DamageDealt = dealt
		res.GeneratorID = gen.ID
		return res
	}

	remaining := damage
	if cur.IsBoss {
		remaining *= bossMult
	}
	for remaining > 0 {
		dealt := math.Min(math.Max(cur.HP, 0), remaining)
		cur.HP -= dealt
		remaining -= dealt
		res.DamageDealt += dealt
		if cur.HP > 0 {
			break
		}

		res.RewardEarned += math.Floor(cur.Reward * hit.LootMultiplier)
		res.Kills++
		if cur.IsBoss {
			res.BossKills++
		}
		next := cur.Level + 1
		if next%LevelsPerZone == 0 {
			res.NewZone++
		}
		cur = e.ShipForLevel(next)
	}
	res.Ship = cur
	return res
}

func targetGenerator(ship domain.Ship, target *string) int {
	for i, g := range ship.Generators {
		if g.HP <= 0 {
			continue
		}
		if target == nil || g.ID == *target {
			return i
		}
	}
	return -1
}
