package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Combo   ComboConfig   `mapstructure:"combo"`
	Rank    RankConfig    `mapstructure:"rank"`
	Boss    BossConfig    `mapstructure:"boss"`
	Gems    GemConfig     `mapstructure:"gems"`
	Loop    LoopConfig    `mapstructure:"loop"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`

	CritChanceCap float64 `mapstructure:"crit_chance_cap"`
}

// ComboConfig tunes the attack streak window and its stat bonuses.
type ComboConfig struct {
	DurationMs         int64   `mapstructure:"duration_ms"`
	CritChancePerStack float64 `mapstructure:"crit_chance_per_stack"`
	CritTierSize       int     `mapstructure:"crit_tier_size"`
	CritMultPerTier    float64 `mapstructure:"crit_mult_per_tier"`
	DpsPerStack        float64 `mapstructure:"dps_per_stack"`
	MaxDpsMult         float64 `mapstructure:"max_dps_mult"`
}

// RankConfig holds the permanent per-prestige bonuses.
type RankConfig struct {
	DamageBonus   float64 `mapstructure:"damage_bonus"`
	CritMultBonus float64 `mapstructure:"crit_mult_bonus"`
	GemBonus      float64 `mapstructure:"gem_bonus"`
}

type BossConfig struct {
	GeneratorCount   int     `mapstructure:"generator_count"`
	GeneratorHPShare float64 `mapstructure:"generator_hp_share"`
	ClickBonus       float64 `mapstructure:"click_bonus"`
}

type GemConfig struct {
	BaseRate        float64 `mapstructure:"base_rate"`
	PolishRate      float64 `mapstructure:"polish_rate"`
	PrestigeDivisor float64 `mapstructure:"prestige_divisor"`
}

type LoopConfig struct {
	TickIntervalMs   int64 `mapstructure:"tick_interval_ms"`
	AttackThrottleMs int64 `mapstructure:"attack_throttle_ms"`
	MaxOfflineMs     int64 `mapstructure:"max_offline_ms"`
}

type StorageConfig struct {
	Path    string `mapstructure:"path"`
	SaveKey string `mapstructure:"save_key"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

func Default() Config {
	return Config{
		Combo: ComboConfig{
			DurationMs:         2000,
			CritChancePerStack: 0.005,
			CritTierSize:       10,
			CritMultPerTier:    0.5,
			DpsPerStack:        0.02,
			MaxDpsMult:         2.0,
		},
		Rank: RankConfig{
			DamageBonus:   0.1,
			CritMultBonus: 0.1,
			GemBonus:      0.001,
		},
		Boss: BossConfig{
			GeneratorCount:   4,
			GeneratorHPShare: 0.25,
			ClickBonus:       5,
		},
		Gems: GemConfig{
			BaseRate:        0.02,
			PolishRate:      0.005,
			PrestigeDivisor: 500000,
		},
		Loop: LoopConfig{
			TickIntervalMs:   100,
			AttackThrottleMs: 40,
			MaxOfflineMs:     8 * 60 * 60 * 1000,
		},
		Storage: StorageConfig{
			Path:    "stardust.db",
			SaveKey: "stardust-save",
		},
		CritChanceCap: 0.8,
	}
}

// Load resolves configuration from defaults, an optional file at path and
// STARDUST_* environment variables, in increasing precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("STARDUST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("combo.duration_ms", d.Combo.DurationMs)
	v.SetDefault("combo.crit_chance_per_stack", d.Combo.CritChancePerStack)
	v.SetDefault("combo.crit_tier_size", d.Combo.CritTierSize)
	v.SetDefault("combo.crit_mult_per_tier", d.Combo.CritMultPerTier)
	v.SetDefault("combo.dps_per_stack", d.Combo.DpsPerStack)
	v.SetDefault("combo.max_dps_mult", d.Combo.MaxDpsMult)

	v.SetDefault("rank.damage_bonus", d.Rank.DamageBonus)
	v.SetDefault("rank.crit_mult_bonus", d.Rank.CritMultBonus)
	v.SetDefault("rank.gem_bonus", d.Rank.GemBonus)

	v.SetDefault("boss.generator_count", d.Boss.GeneratorCount)
	v.SetDefault("boss.generator_hp_share", d.Boss.GeneratorHPShare)
	v.SetDefault("boss.click_bonus", d.Boss.ClickBonus)

	v.SetDefault("gems.base_rate", d.Gems.BaseRate)
	v.SetDefault("gems.polish_rate", d.Gems.PolishRate)
	v.SetDefault("gems.prestige_divisor", d.Gems.PrestigeDivisor)

	v.SetDefault("loop.tick_interval_ms", d.Loop.TickIntervalMs)
	v.SetDefault("loop.attack_throttle_ms", d.Loop.AttackThrottleMs)
	v.SetDefault("loop.max_offline_ms", d.Loop.MaxOfflineMs)

	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.save_key", d.Storage.SaveKey)
	v.SetDefault("server.listen", d.Server.Listen)

	v.SetDefault("crit_chance_cap", d.CritChanceCap)
}
