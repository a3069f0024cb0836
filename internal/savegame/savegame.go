// Package savegame defines the serialized snapshot format. Decoding is
// tolerant: fields missing from older saves fall back to defaults and
// out-of-range values are clamped, so a damaged save degrades towards a
// fresh one instead of failing.
package savegame

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"stardust/internal/domain"
)

var ErrInvalidImport = errors.New("savegame: invalid import")

// Respawn builds a replacement ship when the saved one is unusable.
type Respawn func(level int) domain.Ship

// presence tracks fields whose absence changes the default.
type presence struct {
	Stats *struct {
		TotalStardust *float64 `json:"totalStardust"`
		HighestCombo  *int     `json:"highestCombo"`
	} `json:"stats"`
}

func Encode(s domain.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a saved snapshot and applies field defaults. Only
// syntactically invalid JSON is an error: a field of the wrong type is
// left at its zero value and the rest of the save is kept.
func Decode(data []byte, respawn Respawn) (domain.Snapshot, error) {
	var s domain.Snapshot
	if err := lenientUnmarshal(data, &s); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	var p presence
	if err := lenientUnmarshal(data, &p); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	if p.Stats == nil || p.Stats.TotalStardust == nil {
		s.Stats.TotalStardust = s.TotalEarned
	}
	if p.Stats == nil || p.Stats.HighestCombo == nil {
		s.Stats.HighestCombo = s.ComboCount
	}
	normalize(&s, respawn)
	return s, nil
}

// lenientUnmarshal ignores type mismatches. encoding/json skips the
// offending value and keeps decoding, so v holds everything else.
func lenientUnmarshal(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

// ValidateImport checks that data is a JSON object with a numeric stardust
// field and a ship object.
func ValidateImport(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	var stardust float64
	raw := bytes.TrimSpace(fields["stardust"])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || json.Unmarshal(raw, &stardust) != nil {
		return fmt.Errorf("%w: stardust must be a number", ErrInvalidImport)
	}
	ship := bytes.TrimSpace(fields["ship"])
	if len(ship) == 0 || ship[0] != '{' {
		return fmt.Errorf("%w: ship must be an object", ErrInvalidImport)
	}
	return nil
}

// Import validates and decodes an uploaded save.
func Import(data []byte, respawn Respawn) (domain.Snapshot, error) {
	if err := ValidateImport(data); err != nil {
		return domain.Snapshot{}, err
	}
	return Decode(data, respawn)
}

func normalize(s *domain.Snapshot, respawn Respawn) {
	s.Stardust = nonNegative(s.Stardust)
	s.TotalEarned = nonNegative(s.TotalEarned)
	s.PrestigeGems = max(s.PrestigeGems, 0)
	s.TotalPrestiges = max(s.TotalPrestiges, 0)
	s.ComboCount = max(s.ComboCount, 0)
	s.UnicornCount = max(s.UnicornCount, 0)
	s.CompanionCount = max(s.CompanionCount, 0)
	s.Zone = max(s.Zone, 0)
	s.Stats.TotalStardust = nonNegative(s.Stats.TotalStardust)

	upgrades := make(map[string]domain.UpgradeState, len(s.Upgrades))
	for id, u := range s.Upgrades {
		upgrades[id] = domain.UpgradeState{ID: id, Level: max(u.Level, 0)}
	}
	s.Upgrades = upgrades

	artifacts := make(map[string]int, len(s.Artifacts))
	for id, lvl := range s.Artifacts {
		artifacts[id] = max(lvl, 0)
	}
	s.Artifacts = artifacts

	skills := make(map[string]domain.SkillState, len(s.Skills))
	for id, st := range s.Skills {
		skills[id] = domain.SkillState{
			CooldownRemaining: max(st.CooldownRemaining, 0),
			ActiveRemaining:   max(st.ActiveRemaining, 0),
		}
	}
	s.Skills = skills

	seen := make(map[string]bool, len(s.Achievements))
	achievements := make([]string, 0, len(s.Achievements))
	for _, id := range s.Achievements {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		achievements = append(achievements, id)
	}
	s.Achievements = achievements

	s.Ship = normalizeShip(s.Ship, respawn)
}

func normalizeShip(ship domain.Ship, respawn Respawn) domain.Ship {
	level := max(ship.Level, 1)
	if ship.ID == "" || !(ship.MaxHP > 0) || (ship.IsBoss && len(ship.Generators) == 0) {
		return respawn(level)
	}
	ship.Level = level
	ship.HP = clamp(ship.HP, 0, ship.MaxHP)
	ship.Reward = nonNegative(ship.Reward)
	if ship.Variant == "" {
		ship.Variant = domain.VariantStandard
	}
	if !ship.IsBoss {
		ship.Generators = nil
		return ship
	}
	gens := make([]domain.ShieldGenerator, len(ship.Generators))
	for i, g := range ship.Generators {
		g.MaxHP = nonNegative(g.MaxHP)
		g.HP = clamp(g.HP, 0, g.MaxHP)
		gens[i] = g
	}
	ship.Generators = gens
	return ship
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
