// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Builds the mention provider, draft store, outbox and host
// from configuration. Every interactive command runs on top of a Runtime.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/config"
	"github.com/jeranaias/composer-tui/internal/draft"
	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/host"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/mention"
	"github.com/jeranaias/composer-tui/internal/outbox"
	"github.com/jeranaias/composer-tui/internal/storage"
)

// =============================================================================
// RUNTIME
// =============================================================================

// RuntimeOptions controls how a Runtime is assembled.
type RuntimeOptions struct {
	// LogOutput receives logs. Nil writes to the configured log file, which
	// keeps stdout free for the TUI.
	LogOutput io.Writer

	// OnKey is passed to the host.
	OnKey func(composer.KeyEvent)

	// MentionsOnly builds the provider and skips drafts, outbox and host.
	MentionsOnly bool
}

// Runtime owns the long-lived pieces of a composer session.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Provider mention.Provider
	Host     *host.Host

	db         *storage.DB
	drafts     draft.Store
	dispatcher *outbox.Dispatcher
	watcher    *mention.Watcher
	logCloser  io.Closer
}

// LoadConfig loads the config file named by --config, or the default one,
// and applies command-line overrides.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v (using defaults)\n", WarningStyle.Render("[WARN]"), err)
	}
	applyArgs(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyArgs copies global flags over cfg.
func applyArgs(cfg *config.Config, args Args) {
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if args.Seed != "" {
		cfg.Mentions.SeedFile = args.Seed
		if cfg.Mentions.Source == config.SourceSample {
			cfg.Mentions.Source = config.SourceFile
		}
	}
	if args.Watch {
		cfg.Mentions.Watch = true
	}
	if args.Space != "" {
		cfg.Composer.DefaultSpace = args.Space
	}
	if args.Disabled {
		cfg.Composer.Disabled = true
	}
}

// NewRuntime wires logging, mentions, drafts and the outbox, then creates
// and mounts the host. Close releases everything.
func NewRuntime(ctx context.Context, cfg *config.Config, opts RuntimeOptions) (rt *Runtime, err error) {
	rt = &Runtime{Config: cfg}
	defer func() {
		if err != nil {
			rt.Close()
			rt = nil
		}
	}()

	if err = rt.openLogger(opts.LogOutput); err != nil {
		return rt, err
	}
	if err = rt.openDatabase(ctx, opts.MentionsOnly); err != nil {
		return rt, err
	}
	if err = rt.openProvider(ctx); err != nil {
		return rt, err
	}
	if opts.MentionsOnly {
		return rt, nil
	}
	if err = rt.openDrafts(ctx); err != nil {
		return rt, err
	}
	if err = rt.openOutbox(); err != nil {
		return rt, err
	}

	rt.Host, err = host.New(ctx, host.Options{
		Drafts:   rt.drafts,
		Outbox:   rt.dispatcher,
		Mentions: rt.Provider,
		Composer: composer.Options{
			Disabled:    cfg.Composer.Disabled,
			Markdown:    composer.MarkdownOptions{Disabled: cfg.Composer.MarkdownDisabled},
			Placeholder: cfg.Composer.Placeholder,
		},
		Space:     cfg.Composer.DefaultSpace,
		KeyBuffer: cfg.Composer.KeyBuffer,
		OnKey:     opts.OnKey,
		Logger:    rt.Logger,
	})
	if err != nil {
		return rt, fmt.Errorf("start host: %w", err)
	}

	rt.Logger.Info("RUNTIME_READY",
		"source", cfg.Mentions.Source,
		"drafts", cfg.Drafts.Backend,
		"sink", cfg.Outbox.Sink,
		"space", rt.Host.Space())
	return rt, nil
}

// Close shuts the host, flushes the outbox and closes every backend.
// Errors are logged; Close is safe on a partially built runtime.
func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	logger := logging.OrDefault(rt.Logger)

	if rt.Host != nil {
		rt.Host.Close()
	}
	if rt.watcher != nil {
		if err := rt.watcher.Close(); err != nil {
			logger.Warn("WATCHER_CLOSE_FAILED", "error", err)
		}
	}
	if rt.dispatcher != nil {
		if err := rt.dispatcher.Close(); err != nil {
			logger.Warn("OUTBOX_CLOSE_FAILED", "error", err)
		}
	}
	if rt.drafts != nil {
		if err := rt.drafts.Close(); err != nil {
			logger.Warn("DRAFTS_CLOSE_FAILED", "error", err)
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			logger.Warn("DB_CLOSE_FAILED", "error", err)
		}
	}
	if rt.logCloser != nil {
		_ = rt.logCloser.Close()
	}
}

// =============================================================================
// WIRING
// =============================================================================

func (rt *Runtime) openLogger(out io.Writer) error {
	if out != nil {
		rt.Logger = logging.New(out, rt.Config.Log.Level)
		return nil
	}
	path, err := rt.Config.LogPath()
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	logger, closer, err := logging.OpenFile(path, rt.Config.Log.Level)
	if err != nil {
		return err
	}
	rt.Logger = logger
	rt.logCloser = closer
	return nil
}

// openDatabase opens SQLite when either the provider or the draft store uses it.
func (rt *Runtime) openDatabase(ctx context.Context, mentionsOnly bool) error {
	needed := rt.Config.Mentions.Source == config.SourceSQLite ||
		(!mentionsOnly && rt.Config.Drafts.Backend == config.BackendSQLite)
	if !needed {
		return nil
	}
	path, err := rt.Config.DatabasePath()
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return err
	}
	rt.db = db
	rt.Logger.Debug("DB_OPENED", "path", path)
	return nil
}

func (rt *Runtime) openProvider(ctx context.Context) error {
	cfg := rt.Config.Mentions
	renderer := mention.NewRenderer()
	renderer.SetNameWidth(cfg.NameWidth)
	sanitizer := entity.NewSanitizer(nil)

	var (
		inner mention.Provider
		apply mention.ApplyFunc
	)

	switch cfg.Source {
	case config.SourceSample:
		list, err := entity.SampleDirectory(sanitizer)
		if err != nil {
			return fmt.Errorf("build sample directory: %w", err)
		}
		inner = mention.NewDirectory(renderer, list)

	case config.SourceFile:
		dir := mention.NewDirectory(renderer, nil)
		apply = func(_ context.Context, list []entity.Entity) error {
			dir.Replace(list)
			return nil
		}
		inner = dir

	case config.SourceSQLite:
		entities := rt.db.Entities()
		apply = entities.Replace
		if cfg.SeedFile == "" {
			if err := seedSample(ctx, entities, sanitizer); err != nil {
				return err
			}
		}
		inner = mention.NewStoreProvider(renderer, entities)

	default:
		return fmt.Errorf("unknown mention source %q", cfg.Source)
	}

	if apply != nil && cfg.SeedFile != "" {
		w, err := mention.NewWatcher(cfg.SeedFile, sanitizer, apply, cfg.Debounce(), rt.Logger)
		if err != nil {
			return err
		}
		rt.watcher = w
		if err := w.Reload(ctx); err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
		if cfg.Watch {
			if err := w.Watch(ctx); err != nil {
				return err
			}
			rt.Logger.Info("SEED_WATCHING", "path", cfg.SeedFile)
		}
	}

	rt.Provider = mention.NewGuarded(inner, mention.GuardConfig{
		MaxFailures: uint32(cfg.CircuitMaxFailures),
		Timeout:     cfg.CircuitTimeout(),
	}, rt.Logger)
	return nil
}

// seedSample fills an empty entity table with the sample directory.
func seedSample(ctx context.Context, entities *storage.Entities, sanitizer *entity.Sanitizer) error {
	n, err := entities.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	list, err := entity.SampleDirectory(sanitizer)
	if err != nil {
		return fmt.Errorf("build sample directory: %w", err)
	}
	return entities.Replace(ctx, list)
}

func (rt *Runtime) openDrafts(ctx context.Context) error {
	cfg := rt.Config.Drafts
	switch cfg.Backend {
	case config.BackendMemory:
		rt.drafts = draft.NewMemoryStore()
	case config.BackendSQLite:
		rt.drafts = draft.NewSQLiteStore(rt.db)
	case config.BackendRedis:
		store, err := draft.NewRedisStore(ctx, draft.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL(),
		})
		if err != nil {
			return err
		}
		rt.drafts = store
	default:
		return fmt.Errorf("unknown draft backend %q", cfg.Backend)
	}
	return nil
}

func (rt *Runtime) openOutbox() error {
	cfg := rt.Config.Outbox
	var sink outbox.Sink
	switch cfg.Sink {
	case config.SinkLog:
		sink = outbox.LogSink{Logger: rt.Logger}
	case config.SinkKafka:
		k, err := outbox.NewKafkaSink(outbox.KafkaOptions{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
		})
		if err != nil {
			return err
		}
		sink = k
	default:
		return fmt.Errorf("unknown outbox sink %q", cfg.Sink)
	}
	rt.dispatcher = outbox.NewDispatcher(sink, cfg.QueueSize, rt.Logger)
	return nil
}
