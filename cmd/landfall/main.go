package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/landfall/sim/internal/config"
	gonet "github.com/landfall/sim/internal/net"
	"github.com/landfall/sim/internal/persist"
	"github.com/landfall/sim/internal/scripting"
	"github.com/landfall/sim/internal/sim"
	"github.com/landfall/sim/internal/telemetry"
	"github.com/landfall/sim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/landfall.toml"
	if p := os.Getenv("LANDFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("config loaded", zap.String("path", cfgPath))

	runID := strconv.FormatInt(time.Now().UnixNano(), 36)
	opts := sim.Options{
		Config:   cfg,
		Log:      log,
		Commands: world.NewCommandQueue(256),
		RunID:    runID,
	}

	// 3. Optional journal database
	var journal *persist.JournalRepo
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()

		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("journal ready", zap.Int64("schema_version", version))
		journal = persist.NewJournalRepo(db)
		opts.Journal = journal
	}

	// 4. Scenario scripts
	if cfg.Scripting.Dir != "" {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		opts.Scenario = engine
		log.Info("scenario scripts loaded", zap.String("dir", cfg.Scripting.Dir))
	}

	// 5. Telemetry output
	out, err := telemetry.NewOutputManager(cfg.Telemetry.Dir)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer out.Close()
	opts.Telemetry = out

	// 6. Observer transport
	var observers *gonet.Server
	if cfg.Observer.BindAddress != "" {
		observers, err = gonet.NewServer(cfg.Observer.BindAddress, cfg.Observer.OutQueueSize, cfg.Observer.WriteTimeout, opts.Commands, log)
		if err != nil {
			return fmt.Errorf("observer listen: %w", err)
		}
		defer observers.Shutdown()
		go observers.Serve()
		opts.Observers = observers
		log.Info("observer listening", zap.String("addr", observers.Addr().String()))
	}

	// 7. Build simulation and place units
	s, err := sim.New(opts)
	if err != nil {
		return err
	}
	defer s.Close()
	s.InitAll()

	go readConsole(os.Stdin, s.Commands(), log)

	// 8. Game loop: input every frame, units every tick
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	frames := time.NewTicker(cfg.Game.FrameRate)
	defer frames.Stop()

	log.Info("game loop started",
		zap.Duration("tick", cfg.Game.TickRate),
		zap.Duration("frame", cfg.Game.FrameRate),
		zap.String("run", runID),
	)

	last := time.Now()
	lastTick := last
	for {
		select {
		case now := <-frames.C:
			dt := now.Sub(last)
			last = now
			if s.State().TimerUnlock || now.Sub(lastTick) > cfg.Game.TickRate {
				lastTick = now
				s.Cycle()
				continue
			}
			s.Frame(dt)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			s.RemoveAll()
			s.Cycle() // delivers the removal events to the journal
			s.Close()
			if journal != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				n, err := journal.CountEvents(ctx, runID)
				cancel()
				if err != nil {
					log.Warn("journal count failed", zap.Error(err))
				} else {
					log.Info("journal rows written", zap.Int64("rows", n))
				}
			}
			log.Info("simulation stopped", zap.Uint64("ticks", s.Ticks()))
			return nil
		}
	}
}

// consoleKeys maps single-letter console input to commands.
var consoleKeys = map[string]world.Command{
	"w": {Kind: world.CmdMove, Direction: world.Forward},
	"s": {Kind: world.CmdMove, Direction: world.Back},
	"a": {Kind: world.CmdMove, Direction: world.Left},
	"d": {Kind: world.CmdMove, Direction: world.Right},
	" ": {Kind: world.CmdFire},
	"x": {Kind: world.CmdFire},
	"r": {Kind: world.CmdReset},
	"f": {Kind: world.CmdToggleFly},
	"t": {Kind: world.CmdToggleTraction},
	"u": {Kind: world.CmdToggleTimer},
	"p": {Kind: world.CmdTogglePause},
	"k": {Kind: world.CmdRemoveAll},
}

// readConsole turns typed lines into commands, one per character.
func readConsole(r io.Reader, q *world.CommandQueue, log *zap.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		for _, ch := range sc.Text() {
			cmd, ok := consoleKeys[string(ch)]
			if !ok {
				continue
			}
			if !q.Push(cmd) {
				log.Warn("command queue full, console input dropped")
			}
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
