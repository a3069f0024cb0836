package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"stardust/internal/clock"
	"stardust/internal/commands"
	"stardust/internal/config"
	"stardust/internal/domain"
	"stardust/internal/engine"
	"stardust/internal/events"
	"stardust/internal/log"
	"stardust/internal/savegame"
	"stardust/internal/store"
	"stardust/internal/throttle"
)

var ErrUnknownCommand = errors.New("service: unknown command")

const saveTimeout = 2 * time.Second

// Publisher receives every committed snapshot. Publish must not block.
type Publisher interface {
	Publish(domain.Snapshot)
}

// GameService owns the live snapshot. All mutation goes through Execute,
// which replaces the snapshot under the lock, so readers never observe a
// partial update.
type GameService struct {
	mu    sync.Mutex
	cfg   config.Config
	clk   clock.Clock
	eng   *engine.Engine
	store store.Store
	gate  *throttle.Gate
	rng   engine.Rand
	pubs  []Publisher

	st          domain.Snapshot
	nextEventID uint64
}

type Option func(*GameService)

// WithRand fixes the randomness source for crit rolls and auto-buy.
func WithRand(r engine.Rand) Option {
	return func(s *GameService) {
		s.rng = r
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *GameService) {
		s.pubs = append(s.pubs, p)
	}
}

func NewGameService(cfg config.Config, clk clock.Clock, eng *engine.Engine, st store.Store, opts ...Option) *GameService {
	s := &GameService{
		cfg:   cfg,
		clk:   clk,
		eng:   eng,
		store: st,
		gate:  throttle.New(cfg.Loop.AttackThrottleMs),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.st = eng.DeriveStats(eng.NewSnapshot(clock.NowMillis(clk)), clock.NowMillis(clk))
	return s
}

// Load restores the persisted snapshot and catches it up to now. A missing,
// unreadable or corrupt save leaves the service on a fresh run.
func (s *GameService) Load(ctx context.Context) []events.Event {
	data, err := s.store.Load(ctx, s.cfg.Storage.SaveKey)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("no saved game, starting fresh", "key", s.cfg.Storage.SaveKey)
		return nil
	}
	if err != nil {
		log.Warn("failed to read save, starting fresh", "key", s.cfg.Storage.SaveKey, "error", err)
		return nil
	}
	saved, err := savegame.Decode(data, s.eng.ShipForLevel)
	if err != nil {
		log.Warn("corrupt save, starting fresh", "key", s.cfg.Storage.SaveKey, "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	evs := s.hydrate("load", saved)
	s.commit()
	return evs
}

// Subscribe registers p for every snapshot committed from now on.
func (s *GameService) Subscribe(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pubs = append(s.pubs, p)
}

// GetState returns a deep copy of the live snapshot.
func (s *GameService) GetState() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Execute applies cmd to the live snapshot. Invalid actions are not errors:
// they leave the state unchanged and report through the command's fields.
func (s *GameService) Execute(cmd commands.Command) ([]events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	nowMs := now.UnixMilli()
	var evs []events.Event
	changed := true

	switch c := cmd.(type) {
	case commands.SyncState:
		changed = false

	case commands.Tick:
		zone := s.st.Zone
		next, res := s.eng.Tick(s.st, nowMs, s.rng)
		s.st = next
		if res.Bought != "" {
			evs = append(evs, s.event(now, c.ID, events.EventTypeUpgradePurchased,
				events.PurchaseData{ID: res.Bought, Level: next.UpgradeLevel(res.Bought)}))
		}
		evs = append(evs, s.hitEvents(now, c.ID, zone, res.HitResult)...)
		evs = append(evs, s.achievementEvents(now, c.ID, res.Unlocked)...)

	case *commands.Attack:
		if !s.gate.Allow(nowMs) {
			c.Accepted = false
			return nil, nil
		}
		c.Accepted = true
		zone := s.st.Zone
		next, res := s.eng.Click(s.st, nowMs, c.TargetGeneratorID, s.rng)
		s.st = next
		c.DamageDealt = res.DamageDealt
		c.Crit = res.Crit
		evs = append(evs, s.hitEvents(now, c.ID, zone, res.HitResult)...)
		evs = append(evs, s.achievementEvents(now, c.ID, res.Unlocked)...)

	case *commands.BuyUpgrade:
		next, ok := s.eng.BuyUpgrade(s.st, c.UpgradeID)
		c.Bought = ok
		changed = ok
		if ok {
			s.st = s.eng.DeriveStats(next, nowMs)
			evs = append(evs, s.event(now, c.ID, events.EventTypeUpgradePurchased,
				events.PurchaseData{ID: c.UpgradeID, Level: next.UpgradeLevel(c.UpgradeID)}))
		}

	case *commands.BuyArtifact:
		next, ok := s.eng.BuyArtifact(s.st, c.ArtifactID)
		c.Bought = ok
		changed = ok
		if ok {
			s.st = s.eng.DeriveStats(next, nowMs)
			evs = append(evs, s.event(now, c.ID, events.EventTypeArtifactPurchased,
				events.PurchaseData{ID: c.ArtifactID, Level: next.ArtifactLevel(c.ArtifactID)}))
		}

	case *commands.ActivateSkill:
		next, ok := s.eng.ActivateSkill(s.st, c.SkillID)
		c.Activated = ok
		changed = ok
		if ok {
			s.st = s.eng.DeriveStats(next, nowMs)
			evs = append(evs, s.event(now, c.ID, events.EventTypeSkillActivated,
				events.SkillActivatedData{ID: c.SkillID}))
		}

	case commands.ToggleAutoBuy:
		next := s.st.Clone()
		next.AutoBuy = c.Enabled
		s.st = next

	case *commands.Prestige:
		next, gems, ok := s.eng.PerformPrestige(s.st, nowMs)
		changed = ok
		if ok {
			c.GemsAwarded = gems
			var unlocked []string
			next, unlocked = s.eng.UnlockAchievements(next)
			s.st = s.eng.DeriveStats(next, nowMs)
			evs = append(evs, s.event(now, c.ID, events.EventTypePrestiged, events.PrestigedData{
				Gems:           gems,
				TotalPrestiges: next.TotalPrestiges,
				StartZone:      next.Zone,
			}))
			evs = append(evs, s.achievementEvents(now, c.ID, unlocked)...)
		}

	case *commands.ExportSave:
		changed = false
		data, err := savegame.Encode(s.st)
		if err != nil {
			return nil, err
		}
		c.Data = data

	case commands.ImportSave:
		imported, err := savegame.Import(c.Data, s.eng.ShipForLevel)
		if err != nil {
			return nil, err
		}
		s.gate.Reset()
		evs = append(evs, s.event(now, c.ID, events.EventTypeSaveImported, nil))
		evs = append(evs, s.hydrate(c.ID, imported)...)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name())
	}

	if changed {
		s.commit()
	}
	return evs, nil
}

// Run ticks the simulation on the configured interval until ctx is done.
func (s *GameService) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.Loop.TickIntervalMs) * time.Millisecond
	if interval <= 0 {
		return fmt.Errorf("invalid tick interval %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n++
			evs, err := s.Execute(commands.Tick{ID: fmt.Sprintf("tick-%d", n)})
			if err != nil {
				log.Error("tick failed", "tick", n, "error", err)
				continue
			}
			for _, ev := range evs {
				log.Debug("event", "type", ev.Type, "command", ev.CommandID, "data", ev.Data)
			}
		}
	}
}

// hydrate replaces the live snapshot with saved caught up to now. Caller holds mu.
func (s *GameService) hydrate(commandID string, saved domain.Snapshot) []events.Event {
	now := s.clk.Now()
	next, report := s.eng.HydrateSavedState(saved, now.UnixMilli())
	s.st = next
	log.Info("offline progress applied",
		"elapsed", time.Duration(report.ElapsedMs)*time.Millisecond,
		"reward", report.Reward,
		"kills", report.Kills)

	evs := []events.Event{s.event(now, commandID, events.EventTypeOfflineProgress, events.OfflineProgressData{
		Elapsed: time.Duration(report.ElapsedMs) * time.Millisecond,
		Reward:  report.Reward,
		Kills:   report.Kills,
	})}
	return append(evs, s.achievementEvents(now, commandID, report.Unlocked)...)
}

// commit persists and publishes the live snapshot. Persistence is best
// effort: failures are logged and dropped. Caller holds mu.
func (s *GameService) commit() {
	snap := s.st.Clone()
	if data, err := savegame.Encode(snap); err != nil {
		log.Warn("failed to encode snapshot", "error", err)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := s.store.Save(ctx, s.cfg.Storage.SaveKey, data); err != nil {
			log.Warn("failed to persist snapshot", "key", s.cfg.Storage.SaveKey, "error", err)
		}
		cancel()
	}
	for _, p := range s.pubs {
		p.Publish(snap)
	}
}

func (s *GameService) event(at time.Time, commandID string, t events.EventType, data any) events.Event {
	s.nextEventID++
	return events.New(s.nextEventID, at, commandID, t, data)
}

func (s *GameService) hitEvents(at time.Time, commandID string, zoneBefore int, hit engine.HitResult) []events.Event {
	var evs []events.Event
	if hit.Kills > 0 {
		evs = append(evs, s.event(at, commandID, events.EventTypeShipDestroyed, events.ShipDestroyedData{
			Kills:     hit.Kills,
			BossKills: hit.BossKills,
			Reward:    hit.RewardEarned,
			NextLevel: hit.Ship.Level,
		}))
	}
	if hit.NewZone != zoneBefore {
		evs = append(evs, s.event(at, commandID, events.EventTypeZoneAdvanced, events.ZoneAdvancedData{
			From: zoneBefore,
			To:   hit.NewZone,
		}))
	}
	return evs
}

func (s *GameService) achievementEvents(at time.Time, commandID string, ids []string) []events.Event {
	evs := make([]events.Event, 0, len(ids))
	for _, id := range ids {
		def, _ := s.eng.Registry().Achievement(id)
		evs = append(evs, s.event(at, commandID, events.EventTypeAchievementUnlocked,
			events.AchievementUnlockedData{ID: id, Reward: def.Reward}))
	}
	return evs
}
