package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stardust/internal/clock"
	"stardust/internal/commands"
	"stardust/internal/config"
	"stardust/internal/defs"
	"stardust/internal/domain"
	"stardust/internal/engine"
	"stardust/internal/events"
	"stardust/internal/savegame"
	"stardust/internal/store"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fixedRand struct{}

func (fixedRand) Float64() float64 { return 0.999 }

func (fixedRand) IntN(int) int { return 0 }

type recorder struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
}

func (r *recorder) Publish(s domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Save(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func (failingStore) Close() error { return nil }

func newEngine() *engine.Engine {
	seq := 0
	return engine.New(config.Default(), defs.Default(), engine.WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("ship-%d", seq)
	}))
}

func newService(t *testing.T, st store.Store, opts ...Option) (*GameService, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(start)
	opts = append([]Option{WithRand(fixedRand{})}, opts...)
	return NewGameService(config.Default(), clk, newEngine(), st, opts...), clk
}

func TestNewGameServiceInitialState(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())
	got := svc.GetState()
	if got.Stardust != 0 || got.TotalEarned != 0 || got.AutoBuy {
		t.Fatalf("unexpected initial counters: %+v", got)
	}
	if got.Ship.Level != 1 {
		t.Fatalf("expected level 1 ship got %d", got.Ship.Level)
	}
	if got.LastTick != start.UnixMilli() {
		t.Fatalf("expected LastTick %d got %d", start.UnixMilli(), got.LastTick)
	}
}

func TestGetStateReturnsCopy(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())
	boss := newEngine().ShipForLevel(10)

	svc.mu.Lock()
	svc.st.Stardust = 5
	svc.st.Ship = boss
	svc.mu.Unlock()

	snap := svc.GetState()
	snap.Stardust = 99
	snap.Ship.Generators[0].HP = 0
	snap.Upgrades[defs.UpgradeLaser] = domain.UpgradeState{ID: defs.UpgradeLaser, Level: 50}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.st.Stardust != 5 {
		t.Fatalf("expected internal Stardust to remain 5 got %v", svc.st.Stardust)
	}
	if svc.st.Ship.Generators[0].HP != boss.Generators[0].HP {
		t.Fatalf("expected deep copy of generators")
	}
	if svc.st.UpgradeLevel(defs.UpgradeLaser) != 0 {
		t.Fatalf("expected deep copy of upgrades")
	}
}

func TestGetStateConcurrent(t *testing.T) {
	svc, clk := newService(t, store.NewMemory())

	var wg sync.WaitGroup
	const workers = 50
	const iterations = 200

	wg.Add(workers + 1)
	go func() {
		defer wg.Done()
		for j := 0; j < iterations; j++ {
			clk.Advance(10 * time.Millisecond)
			_, _ = svc.Execute(commands.Tick{ID: "tick"})
		}
	}()
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				_ = svc.GetState()
			}
		}()
	}
	wg.Wait()
}

func TestAttackThrottle(t *testing.T) {
	svc, clk := newService(t, store.NewMemory())

	first := &commands.Attack{ID: "a1"}
	_, err := svc.Execute(first)
	require.NoError(t, err)
	assert.True(t, first.Accepted)

	clk.Advance(20 * time.Millisecond)
	second := &commands.Attack{ID: "a2"}
	_, err = svc.Execute(second)
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, int64(1), svc.GetState().Stats.TotalClicks)

	clk.Advance(30 * time.Millisecond)
	third := &commands.Attack{ID: "a3"}
	_, err = svc.Execute(third)
	require.NoError(t, err)
	assert.True(t, third.Accepted)
	assert.Equal(t, int64(2), svc.GetState().Stats.TotalClicks)
}

func TestAttackEmitsEvents(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())

	cmd := &commands.Attack{ID: "a1"}
	evs, err := svc.Execute(cmd)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cmd.DamageDealt)
	require.Len(t, evs, 1)
	assert.Equal(t, events.EventTypeAchievementUnlocked, evs[0].Type)
	assert.Equal(t, events.AchievementUnlockedData{ID: "first_blood", Reward: 10}, evs[0].Data)
	assert.Equal(t, "a1", evs[0].CommandID)
}

func TestTickPersistsAndPublishes(t *testing.T) {
	mem := store.NewMemory()
	rec := &recorder{}
	svc, clk := newService(t, mem, WithPublisher(rec))

	clk.Advance(100 * time.Millisecond)
	_, err := svc.Execute(commands.Tick{ID: "t1"})
	require.NoError(t, err)

	data, err := mem.Load(context.Background(), config.Default().Storage.SaveKey)
	require.NoError(t, err)
	saved, err := savegame.Decode(data, newEngine().ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, start.Add(100*time.Millisecond).UnixMilli(), saved.LastTick)
	assert.Equal(t, 1, rec.count())

	_, err = svc.Execute(commands.SyncState{ID: "s"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
}

func TestTickKillsShip(t *testing.T) {
	svc, clk := newService(t, store.NewMemory())
	svc.mu.Lock()
	svc.st.Upgrades[defs.UpgradeAutofire] = domain.UpgradeState{ID: defs.UpgradeAutofire, Level: 10}
	svc.mu.Unlock()

	clk.Advance(3 * time.Second)
	evs, err := svc.Execute(commands.Tick{ID: "t1"})
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	assert.Equal(t, events.EventTypeShipDestroyed, evs[0].Type)
	assert.Equal(t, 11.0, svc.GetState().Stardust)
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	svc, clk := newService(t, failingStore{})
	assert.Nil(t, svc.Load(context.Background()))

	clk.Advance(time.Second)
	_, err := svc.Execute(commands.Tick{ID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Second).UnixMilli(), svc.GetState().LastTick)
}

func TestLoadCatchesUpOfflineProgress(t *testing.T) {
	eng := newEngine()
	saved := eng.NewSnapshot(start.Add(-100 * time.Second).UnixMilli())
	saved.Upgrades[defs.UpgradeAutofire] = domain.UpgradeState{ID: defs.UpgradeAutofire, Level: 1}
	saved.Stardust = 5
	saved.TotalEarned = 100
	saved.Stats.TotalStardust = 100
	data, err := savegame.Encode(saved)
	require.NoError(t, err)

	mem := store.NewMemory()
	require.NoError(t, mem.Save(context.Background(), config.Default().Storage.SaveKey, data))

	svc, _ := newService(t, mem)
	evs := svc.Load(context.Background())
	require.NotEmpty(t, evs)
	assert.Equal(t, events.EventTypeOfflineProgress, evs[0].Type)
	offline := evs[0].Data.(events.OfflineProgressData)
	assert.Equal(t, 100*time.Second, offline.Elapsed)
	assert.Equal(t, 38.0, offline.Reward)

	got := svc.GetState()
	assert.Equal(t, 43.0, got.Stardust)
	assert.Equal(t, 138.0, got.Stats.TotalStardust)
	assert.Equal(t, 4, got.Ship.Level)
}

func TestLoadCorruptSaveStartsFresh(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Save(context.Background(), config.Default().Storage.SaveKey, []byte("{not json")))

	svc, _ := newService(t, mem)
	assert.Nil(t, svc.Load(context.Background()))
	assert.Equal(t, 1, svc.GetState().Ship.Level)
	assert.Zero(t, svc.GetState().Stardust)
}

func TestLoadKeepsSaveWithMistypedField(t *testing.T) {
	key := config.Default().Storage.SaveKey
	save := fmt.Sprintf(`{
		"stardust": 500, "totalEarned": 900, "lastTick": %d,
		"upgrades": {"laser": {"level": 12}},
		"skills": {"overdrive": {"cooldownRemaining": 59812.4}},
		"stats": {"totalStardust": 900},
		"ship": {"id": "s1", "level": 4, "hp": 20, "maxHp": 40, "reward": 12}
	}`, start.UnixMilli())
	mem := store.NewMemory()
	require.NoError(t, mem.Save(context.Background(), key, []byte(save)))

	svc, _ := newService(t, mem)
	require.NotEmpty(t, svc.Load(context.Background()))
	got := svc.GetState()
	assert.Equal(t, 500.0, got.Stardust)
	assert.Equal(t, 12, got.UpgradeLevel(defs.UpgradeLaser))
	assert.Equal(t, 4, got.Ship.Level)

	data, err := mem.Load(context.Background(), key)
	require.NoError(t, err)
	persisted, err := savegame.Decode(data, newEngine().ShipForLevel)
	require.NoError(t, err)
	assert.Equal(t, 12, persisted.UpgradeLevel(defs.UpgradeLaser))
}

func TestImportResetsAttackThrottle(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())
	first := &commands.Attack{ID: "a1"}
	_, err := svc.Execute(first)
	require.NoError(t, err)
	require.True(t, first.Accepted)

	_, err = svc.Execute(commands.ImportSave{ID: "i1", Data: []byte(`{"stardust": 7, "ship": {}}`)})
	require.NoError(t, err)

	second := &commands.Attack{ID: "a2"}
	_, err = svc.Execute(second)
	require.NoError(t, err)
	assert.True(t, second.Accepted)
}

func TestBuyCommands(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())

	buy := &commands.BuyUpgrade{ID: "b1", UpgradeID: defs.UpgradeLaser}
	_, err := svc.Execute(buy)
	require.NoError(t, err)
	assert.False(t, buy.Bought)

	svc.mu.Lock()
	svc.st.Stardust = 10
	svc.st.PrestigeGems = 1
	svc.mu.Unlock()

	buy = &commands.BuyUpgrade{ID: "b2", UpgradeID: defs.UpgradeLaser}
	evs, err := svc.Execute(buy)
	require.NoError(t, err)
	assert.True(t, buy.Bought)
	require.Len(t, evs, 1)
	assert.Equal(t, events.PurchaseData{ID: defs.UpgradeLaser, Level: 1}, evs[0].Data)
	assert.Equal(t, 2.0, svc.GetState().ClickDamage)

	art := &commands.BuyArtifact{ID: "b3", ArtifactID: defs.ArtifactStarForge}
	_, err = svc.Execute(art)
	require.NoError(t, err)
	assert.True(t, art.Bought)
	assert.Equal(t, 1, svc.GetState().ArtifactLevel(defs.ArtifactStarForge))
}

func TestSkillAndAutoBuyCommands(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())

	skill := &commands.ActivateSkill{ID: "s1", SkillID: defs.SkillOverdrive}
	_, err := svc.Execute(skill)
	require.NoError(t, err)
	assert.True(t, skill.Activated)

	again := &commands.ActivateSkill{ID: "s2", SkillID: defs.SkillOverdrive}
	_, err = svc.Execute(again)
	require.NoError(t, err)
	assert.False(t, again.Activated)

	_, err = svc.Execute(commands.ToggleAutoBuy{ID: "ab", Enabled: true})
	require.NoError(t, err)
	assert.True(t, svc.GetState().AutoBuy)
}

func TestPrestigeCommand(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())

	cmd := &commands.Prestige{ID: "p0"}
	_, err := svc.Execute(cmd)
	require.NoError(t, err)
	assert.Zero(t, cmd.GemsAwarded)

	svc.mu.Lock()
	svc.st.TotalEarned = 2_000_000
	svc.st.Artifacts[defs.ArtifactWarpDrive] = 1
	svc.mu.Unlock()

	cmd = &commands.Prestige{ID: "p1"}
	evs, err := svc.Execute(cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cmd.GemsAwarded)
	require.NotEmpty(t, evs)
	assert.Equal(t, events.PrestigedData{Gems: 2, TotalPrestiges: 1, StartZone: 5}, evs[0].Data)

	got := svc.GetState()
	assert.Equal(t, 50, got.Ship.Level)
	assert.Contains(t, got.Achievements, "prestige_1")
	assert.Contains(t, got.Achievements, "zone_5")
}

func TestExportImport(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())
	svc.mu.Lock()
	svc.st.Stardust = 321
	svc.mu.Unlock()

	export := &commands.ExportSave{ID: "e1"}
	_, err := svc.Execute(export)
	require.NoError(t, err)
	require.NotEmpty(t, export.Data)

	other, _ := newService(t, store.NewMemory())
	_, err = other.Execute(commands.ImportSave{ID: "bad", Data: []byte(`{"ship": {}}`)})
	assert.ErrorIs(t, err, savegame.ErrInvalidImport)
	assert.Zero(t, other.GetState().Stardust)

	evs, err := other.Execute(commands.ImportSave{ID: "i1", Data: export.Data})
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	assert.Equal(t, events.EventTypeSaveImported, evs[0].Type)
	assert.Equal(t, 321.0, other.GetState().Stardust)
}

type bogus struct{}

func (bogus) CommandID() string { return "x" }

func (bogus) Name() string { return "Bogus" }

func TestUnknownCommand(t *testing.T) {
	svc, _ := newService(t, store.NewMemory())
	_, err := svc.Execute(bogus{})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	cfg := config.Default()
	cfg.Loop.TickIntervalMs = 5
	rec := &recorder{}
	svc := NewGameService(cfg, clock.RealClock{}, newEngine(), store.NewMemory(), WithRand(fixedRand{}), WithPublisher(rec))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
