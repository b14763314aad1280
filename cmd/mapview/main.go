package main

import (
	"cognitive-mapview/internal/agent"
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/internal/engine"
	"cognitive-mapview/internal/infrastructure/storage"
	"cognitive-mapview/internal/network"
	"cognitive-mapview/internal/render"
	"cognitive-mapview/internal/server"
	"cognitive-mapview/internal/version"
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/logger"
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

// tape копит кадры фида для записи .cdev; кадры приходят из горутины фида или симуляции.
type tape struct {
	mu  sync.Mutex
	rec domain.Recording
}

func (t *tape) Append(frame []byte) {
	t.mu.Lock()
	t.rec.Append(frame)
	t.mu.Unlock()
}

func (t *tape) Save(dir string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return storage.NewRecorder(dir).Save(&t.rec)
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()
	var (
		demo       bool
		seed       int64
		interval   time.Duration
		replayPath string
		recordDir  string
		dump       bool
		colored    bool
	)
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Map width in columns")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Map height in rows")
	flag.IntVar(&cfg.SightRadius, "radius", cfg.SightRadius, "Sight radius in cells")
	flag.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Level info poll interval (0 = only after map reset)")
	flag.BoolVar(&demo, "demo", false, "Drive the map with the built-in scripted simulation")
	flag.Int64Var(&seed, "seed", 0, "Simulation seed (0 for random)")
	flag.DurationVar(&interval, "interval", 250*time.Millisecond, "Simulation turn interval in demo mode")
	flag.StringVar(&replayPath, "replay", "", "Path to .cdev recording to play back")
	flag.StringVar(&recordDir, "record", "", "Directory to save the feed recording on exit")
	flag.BoolVar(&dump, "dump", false, "Replay: print the map after every frame")
	flag.BoolVar(&colored, "color", false, "Replay: colored map output")
	flag.Parse()

	logger.Log.Info("Starting Cognitive Mapview...")
	logger.Log.Info(version.String())

	// РЕЖИМ ПРОИГРЫВАНИЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay")
		if err := replay(replayPath, cfg, dump, colored); err != nil {
			logger.Log.Fatal("Replay failed: ", err)
		}
		return
	}

	port := os.Getenv("CD_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра
	hub := network.NewBroadcaster()
	var opts []engine.Option
	var sim *agent.Simulator
	if demo {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		logger.Log.Infof("🎲 Demo simulation seed: %d", seed)

		simCfg := agent.NewConfig()
		simCfg.Width, simCfg.Height = cfg.Width, cfg.Height
		sim = agent.NewSimulator(simCfg, rand.New(rand.NewSource(seed)))
		opts = append(opts,
			engine.WithTerrainSource(sim),
			engine.WithEnvironmentSource(sim),
			engine.WithLevelInfoSource(sim),
		)
	}
	session := engine.NewSession(cfg, hub, opts...)

	// 3. Сервер
	srv := server.New(session, hub, port)
	var rec *tape
	if recordDir != "" {
		rec = &tape{rec: domain.Recording{Width: cfg.Width, Height: cfg.Height, Timestamp: time.Now().Unix()}}
		srv.Sink = rec.Append
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	start := func(name string, run func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Любая остановка компонента гасит остальные
			defer cancel()
			if err := run(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.WithError(err).Errorf("%s stopped with error", name)
			}
		}()
	}

	start("session", func() error { return session.Run(ctx) })
	start("server", func() error { return srv.Run(ctx) })
	if sim != nil {
		start("simulation", func() error {
			return sim.Run(ctx, interval, func(frame []byte) error {
				srv.IngestFrame(frame)
				return nil
			})
		})
	}

	wg.Wait()
	logger.Log.Info("Shutting down...")

	if rec != nil {
		path, err := rec.Save(recordDir)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to save recording")
		} else {
			logger.Log.Infof("💾 Recording saved: %s", path)
		}
	}

	logger.Log.Info("Done.")
}

// replay прогоняет записанные кадры через тот же декодер, очередь и потребителя.
// Опроса уровня нет, поэтому глубина в статусе остается неизвестной.
func replay(path string, cfg engine.Config, dump, colored bool) error {
	rec, err := storage.Load(path)
	if err != nil {
		return err
	}
	cfg.Width, cfg.Height = rec.Width, rec.Height
	session := engine.NewSession(cfg, nil)

	logger.Log.WithFields(logrus.Fields{
		"frames": len(rec.Frames),
		"width":  rec.Width,
		"height": rec.Height,
	}).Info("Recording loaded")

	for i, frame := range rec.Frames {
		events, err := api.DecodeFrame(frame)
		if err != nil {
			logger.Log.WithError(err).WithField("frame", i).Warn("Malformed recorded frame")
		}
		session.Queue.Push(events...)
		session.Step()

		if dump {
			fmt.Printf("--- frame %d ---\n%s\n", i, render.ASCII(session.Snapshot(), colored))
		}
	}

	if !dump {
		fmt.Println(render.ASCII(session.Snapshot(), colored))
	}
	stats := session.Stats()
	logger.Log.Infof("Replay done: %d events applied, %d dropped, %d resets", stats.Applied, stats.Dropped, stats.Resets)
	return nil
}
