package savegame

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stardust/internal/config"
	"stardust/internal/defs"
	"stardust/internal/domain"
	"stardust/internal/engine"
)

const now = int64(1_700_000_000_000)

func newEngine() *engine.Engine {
	seq := 0
	return engine.New(config.Default(), defs.Default(), engine.WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("ship-%d", seq)
	}))
}

func TestEncodeDecodeKeepsState(t *testing.T) {
	e := newEngine()
	s := e.NewSnapshot(now)
	s.Stardust = 77
	s.TotalEarned = 120
	s.Stats.TotalStardust = 150
	s.Upgrades[defs.UpgradeLaser] = domain.UpgradeState{ID: defs.UpgradeLaser, Level: 3}
	s.Artifacts[defs.ArtifactWarpDrive] = 1
	s.Achievements = []string{"first_blood"}
	s.Ship = e.ShipForLevel(20)

	data, err := Encode(s)
	require.NoError(t, err)
	got, err := Decode(data, e.ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeDefaultsMissingFields(t *testing.T) {
	e := newEngine()
	data := []byte(`{"stardust": 12, "totalEarned": 300, "comboCount": 4, "lastTick": 5}`)

	s, err := Decode(data, e.ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, 300.0, s.Stats.TotalStardust)
	assert.Equal(t, 4, s.Stats.HighestCombo)
	assert.NotNil(t, s.Upgrades)
	assert.NotNil(t, s.Artifacts)
	assert.NotNil(t, s.Skills)
	assert.Equal(t, []string{}, s.Achievements)
	assert.Zero(t, s.UpgradeLevel(defs.UpgradeAutofire))
	assert.Equal(t, 1, s.Ship.Level)
	assert.NotEmpty(t, s.Ship.ID)
}

func TestDecodeKeepsPresentZeroLifetimeTotal(t *testing.T) {
	e := newEngine()
	data := []byte(`{"stardust": 1, "totalEarned": 300, "stats": {"totalStardust": 0, "highestCombo": 0}}`)

	s, err := Decode(data, e.ShipForLevel)
	require.NoError(t, err)
	assert.Zero(t, s.Stats.TotalStardust)
	assert.Zero(t, s.Stats.HighestCombo)
}

func TestDecodeClampsCorruptValues(t *testing.T) {
	e := newEngine()
	data := []byte(`{
		"stardust": -50,
		"upgrades": {"laser": {"level": -2}, "autofire": {"id": "wrong", "level": 4}},
		"artifacts": {"star_forge": -1},
		"skills": {"overdrive": {"cooldownRemaining": -10, "activeRemaining": 20}},
		"achievements": ["a", "a", "", "b"],
		"ship": {"id": "s", "level": 0, "hp": 500, "maxHp": 40, "reward": 3, "isBoss": false,
			"generators": [{"id": "g", "hp": 1, "maxHp": 1}]}
	}`)

	s, err := Decode(data, e.ShipForLevel)
	require.NoError(t, err)
	assert.Zero(t, s.Stardust)
	assert.Zero(t, s.UpgradeLevel(defs.UpgradeLaser))
	assert.Equal(t, domain.UpgradeState{ID: "autofire", Level: 4}, s.Upgrades["autofire"])
	assert.Zero(t, s.ArtifactLevel(defs.ArtifactStarForge))
	assert.Equal(t, domain.SkillState{ActiveRemaining: 20}, s.Skills["overdrive"])
	assert.Equal(t, []string{"a", "b"}, s.Achievements)
	assert.Equal(t, 1, s.Ship.Level)
	assert.Equal(t, 40.0, s.Ship.HP)
	assert.Empty(t, s.Ship.Generators)
	assert.Equal(t, domain.VariantStandard, s.Ship.Variant)
}

func TestDecodeRespawnsBossWithoutGenerators(t *testing.T) {
	e := newEngine()
	data := []byte(`{"stardust": 1, "ship": {"id": "b", "level": 20, "hp": 10, "maxHp": 10, "isBoss": true}}`)

	s, err := Decode(data, e.ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, 20, s.Ship.Level)
	assert.Len(t, s.Ship.Generators, 4)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"stardust":`), newEngine().ShipForLevel)
	assert.Error(t, err)
}

func TestDecodeKeepsSaveWithMistypedFields(t *testing.T) {
	data := []byte(`{
		"stardust": 5000,
		"totalEarned": 90000,
		"upgrades": {"laser": {"level": 12}, "autofire": {"level": "3"}},
		"skills": {"overdrive": {"cooldownRemaining": 59812.4, "activeRemaining": 100}},
		"stats": {"totalStardust": 90000, "highestCombo": 7.5},
		"ship": {"id": "s1", "level": 4, "hp": 20, "maxHp": 40, "reward": 12}
	}`)
	s, err := Decode(data, newEngine().ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, s.Stardust)
	assert.Equal(t, 90000.0, s.TotalEarned)
	assert.Equal(t, 12, s.UpgradeLevel("laser"))
	assert.Equal(t, 0, s.UpgradeLevel("autofire"))
	assert.Equal(t, int64(0), s.Skills["overdrive"].CooldownRemaining)
	assert.Equal(t, int64(100), s.Skills["overdrive"].ActiveRemaining)
	assert.Equal(t, 90000.0, s.Stats.TotalStardust)
	assert.Equal(t, "s1", s.Ship.ID)
	assert.Equal(t, 4, s.Ship.Level)
}

func TestValidateImport(t *testing.T) {
	valid := []string{
		`{"stardust": 0, "ship": {}}`,
		`{"stardust": 12.5, "ship": {"id": "x"}}`,
	}
	for _, in := range valid {
		assert.NoError(t, ValidateImport([]byte(in)), in)
	}

	invalid := []string{
		`not json`,
		`[]`,
		`{"ship": {}}`,
		`{"stardust": "12", "ship": {}}`,
		`{"stardust": 1}`,
		`{"stardust": 1, "ship": null}`,
		`{"stardust": 1, "ship": [1]}`,
		`{"stardust": null, "ship": {}}`,
		`{"stardust": true, "ship": {}}`,
	}
	for _, in := range invalid {
		err := ValidateImport([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidImport, in)
	}
}

func TestImport(t *testing.T) {
	e := newEngine()
	_, err := Import([]byte(`{"ship": {}}`), e.ShipForLevel)
	assert.ErrorIs(t, err, ErrInvalidImport)

	s, err := Import([]byte(`{"stardust": 5, "ship": {}}`), e.ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Stardust)
	assert.Equal(t, 1, s.Ship.Level)
}

func TestHydrationCountsRewardOnce(t *testing.T) {
	for _, tc := range []struct {
		name  string
		stats string
		want  float64
	}{
		{"missing lifetime total", `"stats": {"totalClicks": 0}`, 100},
		{"present lifetime total", `"stats": {"totalStardust": 500}`, 500},
		{"missing stats", `"zone": 0`, 100},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine()
			seed := fmt.Sprintf(`{"stardust": 0, "totalEarned": 100, "lastTick": %d,
				"upgrades": {"autofire": {"id": "autofire", "level": 1}},
				"ship": {"id": "s1", "level": 1, "hp": 34, "maxHp": 34, "reward": 11, "variant": "standard"},
				%s}`, now-100_000, tc.stats)

			saved, err := Decode([]byte(seed), e.ShipForLevel)
			require.NoError(t, err)
			hydrated, report := e.HydrateSavedState(saved, now)

			assert.Equal(t, 38.0, report.Reward)
			assert.Equal(t, report.Reward, hydrated.TotalEarned-saved.TotalEarned)
			assert.Equal(t, tc.want+report.Reward, hydrated.Stats.TotalStardust)
		})
	}
}
