// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COMPOSER_HOME", dir)
	for _, key := range []string{
		"COMPOSER_DISABLED", "COMPOSER_PLACEHOLDER", "COMPOSER_SEED_FILE",
		"COMPOSER_MENTIONS_SOURCE", "COMPOSER_DRAFTS_BACKEND", "COMPOSER_REDIS_ADDR",
		"COMPOSER_DB_PATH", "COMPOSER_OUTBOX_SINK", "COMPOSER_KAFKA_BROKERS",
		"COMPOSER_BRIDGE_ADDR", "COMPOSER_LOG_LEVEL", "COMPOSER_LOG_PATH",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, SourceSample, cfg.Mentions.Source)
	assert.Equal(t, BackendSQLite, cfg.Drafts.Backend)
	assert.Equal(t, SinkLog, cfg.Outbox.Sink)
	assert.Equal(t, 200*time.Millisecond, cfg.Mentions.Debounce())
	assert.Equal(t, 10*time.Second, cfg.Mentions.CircuitTimeout())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown source", func(c *Config) { c.Mentions.Source = "ldap" }, "mentions.source"},
		{"file source without seed", func(c *Config) { c.Mentions.Source = SourceFile }, "mentions.seed_file"},
		{"watch without seed", func(c *Config) { c.Mentions.Watch = true }, "mentions.watch"},
		{"narrow names", func(c *Config) { c.Mentions.NameWidth = 2 }, "mentions.name_width"},
		{"unknown backend", func(c *Config) { c.Drafts.Backend = "etcd" }, "drafts.backend"},
		{"redis without addr", func(c *Config) { c.Drafts.Backend = BackendRedis; c.Drafts.RedisAddr = "" }, "drafts.redis_addr"},
		{"kafka without brokers", func(c *Config) { c.Outbox.Sink = SinkKafka }, "outbox.brokers"},
		{"kafka without topic", func(c *Config) {
			c.Outbox.Sink = SinkKafka
			c.Outbox.Brokers = []string{"localhost:9092"}
			c.Outbox.Topic = ""
		}, "outbox.topic"},
		{"bad bridge addr", func(c *Config) { c.Bridge.Addr = "nope" }, "bridge.addr"},
		{"zero rate", func(c *Config) { c.Bridge.RatePerSecond = 0 }, "bridge.rate_per_second"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			var fields []string
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Default().Composer.Placeholder, cfg.Composer.Placeholder)
	assert.Equal(t, 256, cfg.Outbox.QueueSize)
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Drafts.Backend, cfg.Drafts.Backend)
}

func TestLoad_TOMLThenEnv(t *testing.T) {
	dir := isolate(t)
	data := `
[drafts]
backend = "redis"
redis_addr = "cache:6379"

[mentions]
source = "file"
seed_file = "people.yaml"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0600))
	t.Setenv("COMPOSER_KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("COMPOSER_OUTBOX_SINK", "kafka")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Drafts.Backend)
	assert.Equal(t, "cache:6379", cfg.Drafts.RedisAddr)
	assert.Equal(t, "people.yaml", cfg.Mentions.SeedFile)
	assert.Equal(t, SinkKafka, cfg.Outbox.Sink)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Outbox.Brokers)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	data := `{"log": {"level": "debug"}, "bridge": {"addr": "0.0.0.0:9000"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(data), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:9000", cfg.Bridge.Addr)
}

func TestLoad_BrokenFileReportsError(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[drafts\n"), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().Drafts.Backend, cfg.Drafts.Backend)
}

func TestSaveTOML_LoadFromPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Composer.Placeholder = "Say something"
	cfg.Bridge.OriginPatterns = []string{"localhost:*"}
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Say something", loaded.Composer.Placeholder)
	assert.Equal(t, []string{"localhost:*"}, loaded.Bridge.OriginPatterns)
}

func TestGetSet_DotNotation(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("drafts.backend", "memory"))
	require.NoError(t, cfg.Set("mentions.name_width", "30"))
	require.NoError(t, cfg.Set("bridge.rate_per_second", "5.5"))
	require.NoError(t, cfg.Set("composer.markdown_disabled", "true"))
	require.NoError(t, cfg.Set("outbox.brokers", "k1:9092,k2:9092"))
	require.NoError(t, cfg.Set("outbox.queue_size", 8))

	assert.Equal(t, BackendMemory, cfg.Drafts.Backend)
	assert.Equal(t, 30, cfg.Mentions.NameWidth)
	assert.Equal(t, 5.5, cfg.Bridge.RatePerSecond)
	assert.True(t, cfg.Composer.MarkdownDisabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Outbox.Brokers)
	assert.Equal(t, 8, cfg.Outbox.QueueSize)

	v, err := cfg.Get("Drafts.Backend")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, v)

	_, err = cfg.Get("drafts.nope")
	assert.Error(t, err)
	_, err = cfg.Get("version.inner")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("mentions.name_width", "wide"))
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestString_RedactsPassword(t *testing.T) {
	cfg := Default()
	cfg.Drafts.RedisPassword = "hunter2"

	out := cfg.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "hunter2", cfg.Drafts.RedisPassword)
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	cfg.Outbox.Brokers = []string{"a:1"}
	clone := cfg.Clone()
	clone.Outbox.Brokers[0] = "b:2"
	assert.Equal(t, "a:1", cfg.Outbox.Brokers[0])
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "test"
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_ConcurrentReload(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()
	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
