package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World     WorldConfig     `toml:"world"`
	Units     UnitsConfig     `toml:"units"`
	Game      GameConfig      `toml:"game"`
	Player    PlayerConfig    `toml:"player"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Observer  ObserverConfig  `toml:"observer"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WorldConfig struct {
	XZ        int     `toml:"xz"`         // WORLD_XZ: horizontal extent
	Y         int     `toml:"y"`          // WORLD_Y: vertical extent
	MapClear  int     `toml:"map_clear"`  // MAP_CLEAR: edge margin and hover clearance
	Seed      int64   `toml:"seed"`       // 0 = time-based
	Terrain   string  `toml:"terrain"`    // "noise" or "flat"
	FlatLevel int     `toml:"flat_level"` // ground height for the flat test world
	NoiseAmp  int     `toml:"noise_amp"`  // max hill height above flat_level
	NoiseFreq float64 `toml:"noise_freq"`
}

type UnitsConfig struct {
	Humans             int `toml:"humans"`
	Aliens             int `toml:"aliens"`
	SearchRange        int `toml:"search_range"`         // LANDER_SEARCH_RANGE
	AttackRange        int `toml:"attack_range"`         // LANDER_ATTACK_RANGE
	EscapeLiftInterval int `toml:"escape_lift_interval"` // ticks between lifts while escaping
	BounceLift         int `toml:"bounce_lift"`          // target rise after a ground bounce
	PlacementAttempts  int `toml:"placement_attempts"`
}

type GameConfig struct {
	TickRate    time.Duration `toml:"tick_rate"`
	PauseUnits  bool          `toml:"pause_units"`
	TimerUnlock bool          `toml:"timer_unlock"` // run a tick every frame instead of every tick_rate
	FrameRate   time.Duration `toml:"frame_rate"`
}

type PlayerConfig struct {
	StartX        float32       `toml:"start_x"`
	StartY        float32       `toml:"start_y"`
	StartZ        float32       `toml:"start_z"`
	FlyControl    bool          `toml:"fly_control"`
	Traction      bool          `toml:"traction"`
	LaserCooldown time.Duration `toml:"laser_cooldown"`
	LaserRange    int           `toml:"laser_range"`
}

type DataConfig struct {
	UnitTable string `toml:"unit_table"` // empty = embedded default
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty = no scenario script
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = journal disabled
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	FlushTicks      int           `toml:"flush_ticks"`
}

type TelemetryConfig struct {
	Dir         string `toml:"dir"` // empty = disabled
	WindowTicks int    `toml:"window_ticks"`
}

type ObserverConfig struct {
	BindAddress  string        `toml:"bind_address"` // empty = disabled
	OutQueueSize int           `toml:"out_queue_size"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	FrameTicks   int           `toml:"frame_ticks"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML file over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	w := c.World
	if w.MapClear < 4 {
		return fmt.Errorf("world.map_clear must be at least 4, got %d", w.MapClear)
	}
	if w.XZ < 4*w.MapClear {
		return fmt.Errorf("world.xz %d too small for map_clear %d", w.XZ, w.MapClear)
	}
	if w.Y < 4*w.MapClear {
		return fmt.Errorf("world.y %d too small for map_clear %d", w.Y, w.MapClear)
	}
	if c.Units.SearchRange <= 0 || c.Units.AttackRange <= 0 {
		return errors.New("units.search_range and units.attack_range must be positive")
	}
	if c.Units.EscapeLiftInterval <= 0 {
		return errors.New("units.escape_lift_interval must be positive")
	}
	if c.Game.TickRate <= 0 {
		return errors.New("game.tick_rate must be positive")
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		World: WorldConfig{
			XZ:        100,
			Y:         50,
			MapClear:  5,
			Terrain:   "noise",
			FlatLevel: 3,
			NoiseAmp:  12,
			NoiseFreq: 0.04,
		},
		Units: UnitsConfig{
			Humans:             10,
			Aliens:             5,
			SearchRange:        10,
			AttackRange:        15,
			EscapeLiftInterval: 10,
			BounceLift:         5,
			PlacementAttempts:  64,
		},
		Game: GameConfig{
			TickRate:  50 * time.Millisecond, // 100ms / GAME_SPEED(2)
			FrameRate: 16 * time.Millisecond,
		},
		Player: PlayerConfig{
			StartX:        50,
			StartY:        40,
			StartZ:        50,
			Traction:      true,
			LaserCooldown: 350 * time.Millisecond,
			LaserRange:    60,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			FlushTicks:      100,
		},
		Telemetry: TelemetryConfig{
			WindowTicks: 20,
		},
		Observer: ObserverConfig{
			OutQueueSize: 16,
			WriteTimeout: 5 * time.Second,
			FrameTicks:   1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
