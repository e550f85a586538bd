// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/composer-tui/internal/config"
	"github.com/jeranaias/composer-tui/internal/draft"
	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/host"
	"github.com/jeranaias/composer-tui/internal/mention"
	"github.com/jeranaias/composer-tui/internal/outbox"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
	ForceColorsEnabled(false)
}

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

func sampleProvider(t *testing.T) *mention.Directory {
	t.Helper()
	list, err := entity.SampleDirectory(entity.NewSanitizer(&entity.SequenceGenerator{Prefix: "u"}))
	require.NoError(t, err)
	return mention.NewDirectory(nil, list)
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"bender", "--limit", "5"},
			wantSub: "bender",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "5", p.Flag("limit"))
				assert.Equal(t, 5, p.FlagIntOrDefault("limit", 0))
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"get", "--seed=people.yaml"},
			wantSub: "get",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "people.yaml", p.Flag("seed"))
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"show", "--json"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("json"))
				assert.True(t, p.HasFlag("--json"))
			},
		},
		{
			name:    "explicit boolean",
			args:    []string{"show", "--watch=false"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				assert.False(t, p.BoolFlag("watch"))
				assert.True(t, p.HasFlag("watch"))
			},
		},
		{
			name:    "positional args",
			args:    []string{"set", "outbox.brokers", "a:9092,b:9092"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, 3, p.PositionalCount())
				assert.Equal(t, "outbox.brokers", p.Positional(1))
				assert.Equal(t, "", p.Positional(9))
				assert.Equal(t, "outbox.brokers a:9092,b:9092", JoinPositionalArgs(p, 1))
			},
		},
		{
			name:    "only flags",
			args:    []string{"--json", "--limit", "2"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Empty(t, p.PositionalFrom(0))
				assert.Equal(t, "fallback", p.FlagOrDefault("addr", "fallback"))
				assert.Equal(t, 7, p.FlagIntOrDefault("missing", 7))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			assert.Equal(t, tt.wantSub, p.Subcommand())
			assert.Equal(t, tt.args, p.Raw())
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseIntWithValidation(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIntWithValidation(tt.in, "limit")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args defaults to TUI",
			args:    nil,
			wantCmd: CmdTUI,
			validate: func(t *testing.T, a Args) {
				assert.False(t, a.Explicit)
			},
		},
		{
			name:    "global flags before command",
			args:    []string{"--config", "/tmp/c.toml", "--log-level=debug", "--space", "7", "line"},
			wantCmd: CmdLine,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.Explicit)
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
				assert.Equal(t, "debug", a.LogLevel)
				assert.Equal(t, "7", a.Space)
			},
		},
		{
			name:    "entities query and limit",
			args:    []string{"entities", "hubert", "f", "--limit", "2", "--json"},
			wantCmd: CmdEntities,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "hubert f", a.Query)
				assert.Equal(t, 2, a.Limit)
				assert.True(t, a.JSON)
			},
		},
		{
			name:    "entities alias with short limit",
			args:    []string{"e", "b", "-n", "1"},
			wantCmd: CmdEntities,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "b", a.Query)
				assert.Equal(t, 1, a.Limit)
			},
		},
		{
			name:    "serve with addr and seed",
			args:    []string{"serve", "--addr", "0.0.0.0:9000", "--seed", "people.yaml", "--watch"},
			wantCmd: CmdServe,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "0.0.0.0:9000", a.Addr)
				assert.Equal(t, "people.yaml", a.Seed)
				assert.True(t, a.Watch)
			},
		},
		{
			name:    "config set joins value",
			args:    []string{"config", "set", "composer.placeholder", "Say", "hi"},
			wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "set", a.Subcommand)
				assert.Equal(t, "composer.placeholder", a.ConfigKey)
				assert.Equal(t, "Say hi", a.ConfigVal)
			},
		},
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "help",
			args:    []string{"help", "config"},
			wantCmd: CmdHelp,
			validate: func(t *testing.T, a Args) {
				assert.Empty(t, a.Raw)
			},
		},
		{
			name:    "unknown command",
			args:    []string{"frobnicate", "x"},
			wantCmd: CmdHelp,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, []string{"frobnicate", "x"}, a.Raw)
			},
		},
		{
			name:    "quiet and disabled",
			args:    []string{"-q", "--disabled", "tui"},
			wantCmd: CmdTUI,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.Quiet)
				assert.True(t, a.Disabled)
				assert.True(t, a.Explicit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			assert.Equal(t, tt.wantCmd, cmd, "got %s", cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestHandleHelp_UnknownCommand(t *testing.T) {
	err := HandleHelp(Args{Raw: []string{"frobnicate"}})
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	WriteUsage(&buf)
	assert.Contains(t, buf.String(), "composer entities [query]")
	assert.Contains(t, buf.String(), Version)
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("limit", "x", "not a number"), ExitUsageError},
		{"missing argument", ErrMissingArgument("key", "composer config get drafts.backend"), ExitUsageError},
		{"not found", &NotFoundError{Resource: "config key", ID: "nope"}, ExitNotFoundError},
		{"config validation", config.ValidateErrors{{Field: "drafts.backend", Message: "bad"}}, ExitConfigError},
		{"no brokers", outbox.ErrNoBrokers, ExitNetworkError},
		{"wrapped circuit", NewCommandError("entities", "filter", "failed", mention.ErrCircuitOpen), ExitNetworkError},
		{"redis", errors.New("connect to redis at localhost:1: refused"), ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

// =============================================================================
// CONFIG COMMAND TESTS (config.go)
// =============================================================================

func TestHandleConfig_SetThenGet(t *testing.T) {
	dir := isolate(t)

	var out bytes.Buffer
	require.NoError(t, handleConfig(&out, Args{Subcommand: "set", ConfigKey: "drafts.backend", ConfigVal: "memory"}))
	assert.Contains(t, out.String(), "drafts.backend = memory")
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	out.Reset()
	require.NoError(t, handleConfig(&out, Args{Subcommand: "get", ConfigKey: "drafts.backend"}))
	assert.Equal(t, "memory\n", out.String())

	out.Reset()
	require.NoError(t, handleConfig(&out, Args{Subcommand: "set", ConfigKey: "outbox.brokers", ConfigVal: "a:9092,b:9092"}))
	out.Reset()
	require.NoError(t, handleConfig(&out, Args{Subcommand: "get", ConfigKey: "outbox.brokers"}))
	assert.Equal(t, "a:9092,b:9092\n", out.String())
}

func TestHandleConfig_SetDoesNotPersistFlags(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, handleConfig(&out, Args{Subcommand: "set", ConfigKey: "log.level", ConfigVal: "warn", Space: "9", Quiet: true}))
	assert.Empty(t, out.String())

	cfg, err := LoadConfig(Args{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, config.Default().Composer.DefaultSpace, cfg.Composer.DefaultSpace)
}

func TestHandleConfig_Errors(t *testing.T) {
	isolate(t)
	var out bytes.Buffer

	err := handleConfig(&out, Args{Subcommand: "get", ConfigKey: "drafts.nope"})
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = handleConfig(&out, Args{Subcommand: "get"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = handleConfig(&out, Args{Subcommand: "set", ConfigKey: "mentions.name_width", ConfigVal: "wide"})
	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr))

	err = handleConfig(&out, Args{Subcommand: "set", ConfigKey: "drafts.backend", ConfigVal: "etcd"})
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	err = handleConfig(&out, Args{Subcommand: "reset"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_ShowJSONRedacts(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	require.NoError(t, handleConfig(&out, Args{Subcommand: "set", ConfigKey: "drafts.redis_password", ConfigVal: "hunter2", Quiet: true}))

	out.Reset()
	require.NoError(t, handleConfig(&out, Args{Subcommand: "show", JSON: true}))
	assert.NotContains(t, out.String(), "hunter2")

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Values map[string]interface{} `json:"values"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "[REDACTED]", resp.Data.Values["drafts.redis_password"])
	assert.Equal(t, "sample", resp.Data.Values["mentions.source"])
}

func TestHandleConfig_PathAndShow(t *testing.T) {
	dir := isolate(t)
	var out bytes.Buffer

	require.NoError(t, handleConfig(&out, Args{Subcommand: "path", JSON: true}))
	var resp struct {
		Data ConfigPathData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, filepath.Join(dir, "config.toml"), resp.Data.Path)
	assert.False(t, resp.Data.Exists)

	out.Reset()
	require.NoError(t, handleConfig(&out, Args{}))
	assert.Contains(t, out.String(), "[mentions]")
	assert.Contains(t, out.String(), "drafts.backend")
}

// =============================================================================
// ENTITIES COMMAND TESTS (entities.go)
// =============================================================================

func TestListEntities_JSON(t *testing.T) {
	var out bytes.Buffer
	err := listEntities(context.Background(), &out, sampleProvider(t), config.Default(), Args{Query: "b", JSON: true})
	require.NoError(t, err)

	var resp struct {
		Data EntitiesData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.Count)
	require.Len(t, resp.Data.Entities, 3)
	assert.Equal(t, "Bender Rodriguez", resp.Data.Entities[0].Name)
	assert.Equal(t, "Bender", resp.Data.Entities[0].Display)
	assert.Equal(t, "person", resp.Data.Entities[0].ObjectType)
}

func TestListEntities_GroupMembersAndLimit(t *testing.T) {
	var out bytes.Buffer
	err := listEntities(context.Background(), &out, sampleProvider(t), config.Default(), Args{Query: "mod", JSON: true, Limit: 1})
	require.NoError(t, err)

	var resp struct {
		Data EntitiesData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Data.Entities, 1)
	group := resp.Data.Entities[0]
	assert.Equal(t, "groupMention", group.ObjectType)
	assert.Equal(t, "Moderators", group.Display)
	assert.Equal(t, []string{"Hubert Farnsworth", "Zapp Brannigan", "John Zoidberg"}, group.Members)
}

func TestListEntities_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listEntities(context.Background(), &out, sampleProvider(t), config.Default(), Args{Query: "here"}))
	assert.Contains(t, out.String(), "Here")
	assert.Contains(t, out.String(), "1 found (source: sample)")

	out.Reset()
	require.NoError(t, listEntities(context.Background(), &out, sampleProvider(t), config.Default(), Args{Query: "zz"}))
	assert.Contains(t, out.String(), `no candidates match "zz"`)
}

// =============================================================================
// LINE MODE TESTS (line.go)
// =============================================================================

func newLineSession(t *testing.T) (*lineSession, *bytes.Buffer) {
	t.Helper()
	provider := sampleProvider(t)
	h, err := host.New(context.Background(), host.Options{
		Drafts:   draft.NewMemoryStore(),
		Mentions: provider,
	})
	require.NoError(t, err)
	t.Cleanup(h.Close)

	var out bytes.Buffer
	s := &lineSession{ctx: context.Background(), host: h, provider: provider, out: &out}
	s.run(h.Channel().Focus())
	return s, &out
}

func TestLineSession_SendLine(t *testing.T) {
	s, out := newLineSession(t)

	assert.True(t, s.execute("hello there"))
	assert.Contains(t, out.String(), `[OK] Sending: "hello there"`)
	sent, ok := s.host.LastSent()
	assert.True(t, ok)
	assert.Equal(t, "hello there", sent)
	assert.Equal(t, "", s.host.Composer().Value())
}

func TestLineSession_FailSendRetainsThenClear(t *testing.T) {
	s, out := newLineSession(t)

	s.execute("/fail")
	assert.Contains(t, s.prompt(), "failing")
	s.execute("oops")
	assert.Contains(t, out.String(), `send failed, kept "oops"`)
	assert.Equal(t, "oops", s.host.Composer().Value())

	s.execute("/clear")
	assert.Contains(t, out.String(), "cleared")
	assert.Equal(t, "", s.host.Composer().Value())

	s.execute("/send")
	assert.Contains(t, out.String(), "nothing to send")
}

func TestLineSession_InsertEmojiAndShow(t *testing.T) {
	s, out := newLineSession(t)

	s.execute("/insert party ")
	s.execute("/emoji")
	assert.Equal(t, "party"+lineEmoji, s.host.Composer().Value())
	assert.Contains(t, out.String(), `draft: "party`)

	s.execute("/send")
	sent, _ := s.host.LastSent()
	assert.Equal(t, "party"+lineEmoji, sent)
}

func TestLineSession_DisabledSuppresses(t *testing.T) {
	s, out := newLineSession(t)

	s.execute("/disable")
	assert.Contains(t, s.prompt(), "disabled")
	s.execute("/insert text")
	assert.Contains(t, out.String(), "ignored while disabled")
	assert.Equal(t, "", s.host.Composer().Value())

	s.execute("/disable")
	s.execute("/insert text")
	assert.Equal(t, "text", s.host.Composer().Value())
}

func TestLineSession_SpacesKeepDrafts(t *testing.T) {
	s, _ := newLineSession(t)

	s.execute("/insert first")
	s.execute("/space")
	assert.Equal(t, "2", s.host.Space())
	assert.Equal(t, "", s.host.Composer().Value())

	s.execute("/space 1")
	assert.Equal(t, "first", s.host.Composer().Value())
	assert.Equal(t, "composer[1]> ", s.prompt())
}

func TestLineSession_CommandsAndQuit(t *testing.T) {
	s, out := newLineSession(t)

	assert.True(t, s.execute("   "))
	assert.True(t, s.execute("/bogus"))
	assert.Contains(t, out.String(), "unknown command")
	assert.True(t, s.execute("/insert"))
	assert.Contains(t, out.String(), "required argument missing")
	assert.True(t, s.execute("/help"))
	assert.Contains(t, out.String(), "/placeholder")
	assert.True(t, s.execute("/placeholder"))
	assert.Equal(t, host.AlternatePlaceholder, s.host.Composer().Options().Placeholder)
	assert.False(t, s.execute("/quit"))
}

func TestLineSession_Complete(t *testing.T) {
	s, _ := newLineSession(t)

	tests := []struct {
		name     string
		line     string
		pos      int
		wantHead string
		want     []string
		wantTail string
	}{
		{"person", "hi @ph", 6, "hi ", []string{"Philip "}, ""},
		{"groups and people", "@h", 2, "", []string{"Here ", "Hubert ", "Hermes "}, ""},
		{"cursor before tail", "@bi and more", 3, "", []string{"Bill "}, " and more"},
		{"not after a word", "mail@ph", 7, "mail@ph", nil, ""},
		{"no at sign", "hello", 5, "hello", nil, ""},
		{"space after at", "@ph x", 5, "@ph x", nil, ""},
		{"multibyte before", "🎉 @am", 5, "🎉 ", []string{"Amy "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, got, tail := s.complete(tt.line, tt.pos)
			assert.Equal(t, tt.wantHead, head)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTail, tail)
		})
	}
}

// =============================================================================
// RUNTIME TESTS (runtime.go)
// =============================================================================

func TestNewRuntime_MemoryAndSample(t *testing.T) {
	isolate(t)
	cfg := config.Default()
	cfg.Drafts.Backend = config.BackendMemory

	rt, err := NewRuntime(context.Background(), cfg, RuntimeOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer rt.Close()

	require.NotNil(t, rt.Host)
	assert.Equal(t, "1", rt.Host.Space())
	assert.Equal(t, cfg.Composer.Placeholder, rt.Host.Composer().Options().Placeholder)

	list, err := rt.Provider.Filter(context.Background(), "zap")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Zapp Brannigan", list[0].DisplayName)
}

func TestNewRuntime_SQLiteSeedsSample(t *testing.T) {
	dir := isolate(t)
	cfg := config.Default()
	cfg.Mentions.Source = config.SourceSQLite
	cfg.Storage.Path = filepath.Join(dir, "test.db")

	rt, err := NewRuntime(context.Background(), cfg, RuntimeOptions{LogOutput: io.Discard})
	require.NoError(t, err)

	list, err := rt.Provider.Filter(context.Background(), "Philip")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Philip Fry", list[0].DisplayName)

	ch := rt.Host.Channel()
	require.NoError(t, ch.InsertText("saved across runs"))
	rt.Host.Composer().ApplyPending()
	rt.Close()

	rt, err = NewRuntime(context.Background(), cfg, RuntimeOptions{LogOutput: io.Discard})
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, "saved across runs", rt.Host.Composer().Value())
}

func TestNewRuntime_SeedFile(t *testing.T) {
	dir := isolate(t)
	seed := filepath.Join(dir, "people.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`
entities:
  - displayName: Ada Lovelace
  - displayName: Alan Turing
  - displayName: Admins
    objectType: groupMention
`), 0600))

	cfg, err := LoadConfig(Args{Seed: seed})
	require.NoError(t, err)
	assert.Equal(t, config.SourceFile, cfg.Mentions.Source)

	rt, err := NewRuntime(context.Background(), cfg, RuntimeOptions{LogOutput: io.Discard, MentionsOnly: true})
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.Host)

	list, err := rt.Provider.Filter(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Admins", rt.Provider.GetDisplay(list[2]))
	assert.NotEmpty(t, list[0].ID)
}

func TestNewRuntime_Errors(t *testing.T) {
	dir := isolate(t)

	cfg := config.Default()
	cfg.Drafts.Backend = config.BackendMemory
	cfg.Mentions.Source = config.SourceFile
	cfg.Mentions.SeedFile = filepath.Join(dir, "missing.yaml")
	_, err := NewRuntime(context.Background(), cfg, RuntimeOptions{LogOutput: io.Discard})
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Drafts.Backend = config.BackendMemory
	cfg.Outbox.Sink = config.SinkKafka
	_, err = NewRuntime(context.Background(), cfg, RuntimeOptions{LogOutput: io.Discard})
	assert.ErrorIs(t, err, outbox.ErrNoBrokers)
}
