// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and top-level handlers for composer.

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLine
	CmdEntities
	CmdServe
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLine:
		return "line"
	case CmdEntities:
		return "entities"
	case CmdServe:
		return "serve"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	LogLevel   string
	Seed       string
	Space      string
	Watch      bool
	Disabled   bool
	Quiet      bool
	JSON       bool

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Query      string
	Limit      int
	Addr       string

	// Explicit is true when the command was named rather than defaulted.
	Explicit bool

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `composer - a message composer with @mentions, drafts and a websocket bridge

Usage:
  composer                        Start the TUI (line mode when stdin is not a terminal)
  composer tui                    Start the TUI
  composer line                   Line-mode composer with history and @ completion
  composer entities [query]       List mention candidates matching query
  composer serve [--addr A]       Run headless with a websocket bridge
  composer config [show|path|get|set]
                                  Show or change configuration
  composer version                Show version
  composer help                   Show this help

Global flags:
  --config PATH       Config file (default ~/.composer/config.toml)
  --log-level LEVEL   debug, info, warn or error
  --seed FILE         Entity seed file (.toml, .json, .yaml)
  --watch             Reload the seed file when it changes
  --space ID          Draft space to open
  --disabled          Start with the composer disabled
  -q, --quiet         Minimal output
  --json              JSON output (entities, config, version)

Entities flags:
  -n, --limit N       Show at most N candidates

Config:
  composer config show            Print the effective configuration
  composer config path            Print the config file path
  composer config get KEY         Print one value, e.g. drafts.backend
  composer config set KEY VALUE   Change one value and save

Line mode commands:
  /send  /clear  /focus  /emoji  /space [ID]  /fail  /disable
  /markdown  /placeholder  /help  /quit

TUI keys:
  ctrl+s send   ctrl+l clear   ctrl+t switch space   ctrl+x toggle failing sends
  ctrl+d toggle disabled   ctrl+k toggle markdown   f1 help   ctrl+c quit

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	WriteUsage(os.Stdout)
}

// WriteUsage writes the usage text to w.
func WriteUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("composer version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args (without the program name).
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	parsedArgs.Explicit = true

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "line", "repl":
		return CmdLine, parsedArgs

	case "entities", "mentions", "e":
		parseEntitiesArgs(&parsedArgs, remaining)
		return CmdEntities, parsedArgs

	case "serve", "bridge":
		parseServeArgs(&parsedArgs, remaining)
		return CmdServe, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		parsedArgs.Raw = nil
		return CmdHelp, parsedArgs

	default:
		// Unknown words are kept for the help handler to report.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	// value reads the flag's value from "--flag value" or "--flag=value".
	value := func(i *int, arg, name string) (string, bool) {
		if arg == name {
			if *i+1 < len(args) {
				*i++
				return args[*i], true
			}
			return "", true
		}
		if strings.HasPrefix(arg, name+"=") {
			return strings.TrimPrefix(arg, name+"="), true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
			continue
		case "--json":
			parsedArgs.JSON = true
			continue
		case "--watch":
			parsedArgs.Watch = true
			continue
		case "--disabled":
			parsedArgs.Disabled = true
			continue
		}

		if v, ok := value(&i, arg, "--config"); ok {
			parsedArgs.ConfigPath = v
		} else if v, ok := value(&i, arg, "--log-level"); ok {
			parsedArgs.LogLevel = v
		} else if v, ok := value(&i, arg, "--seed"); ok {
			parsedArgs.Seed = v
		} else if v, ok := value(&i, arg, "--space"); ok {
			parsedArgs.Space = v
		} else {
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

// parseEntitiesArgs parses "entities [query] [--limit N]".
func parseEntitiesArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Query = JoinPositionalArgs(p, 0)
	args.Limit = p.FlagIntOrDefault("limit", p.FlagIntOrDefault("n", 0))
}

// parseServeArgs parses "serve [--addr A]".
func parseServeArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Addr = p.FlagOrDefault("addr", p.Flag("a"))
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleVersion handles the "version" command.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles "help" and unknown commands.
func HandleHelp(args Args) error {
	if len(args.Raw) > 0 {
		WriteUsage(os.Stderr)
		return NewValidationError("command", args.Raw[0], "unknown command")
	}
	PrintUsage()
	return nil
}
