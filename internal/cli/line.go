// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// line.go - The "line" command: a composer driven from a plain prompt.
//
// Command: line
// Short:   Compose and send messages from a line-editing prompt
// Aliases: repl
//
// Each entered line is inserted into the draft and sent. Tab completes
// @mentions. Slash commands issue channel commands and host toggles:
//
//   /send, /s           Send the current draft
//   /clear, /c          Clear the draft
//   /insert TEXT, /i    Insert TEXT without sending
//   /emoji              Insert an emoji
//   /focus              Focus the composer
//   /space [ID]         Switch draft space (toggles between two by default)
//   /fail               Toggle failing sends
//   /disable            Toggle the disabled option
//   /markdown           Toggle markdown preview
//   /placeholder        Switch to the alternate placeholder
//   /show               Print the draft
//   /help, /h           Show commands
//   /quit, /q           Exit
//   Ctrl+C, Ctrl+D      Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/peterh/liner"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/config"
	"github.com/jeranaias/composer-tui/internal/host"
	"github.com/jeranaias/composer-tui/internal/mention"
)

const (
	// lineEmoji is inserted by /emoji.
	lineEmoji = "🎉"

	// completeTimeout bounds one tab-completion query.
	completeTimeout = 2 * time.Second
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineCLI wraps liner with persistent history and @mention completion.
type LineCLI struct {
	line        *liner.State
	historyFile string
}

// NewLineCLI creates a prompt and loads its history.
func NewLineCLI(complete liner.WordCompleter) *LineCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	if complete != nil {
		line.SetWordCompleter(complete)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &LineCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "line_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory reads the history file if it exists.
func (c *LineCLI) LoadHistory() {
	f, err := os.Open(c.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.ReadHistory(f)
}

// SaveHistory writes the history file.
func (c *LineCLI) SaveHistory() error {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = c.line.WriteHistory(f)
	return err
}

// ReadInput prompts and records non-empty input in history.
func (c *LineCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (c *LineCLI) Close() error {
	saveErr := c.SaveHistory()
	if err := c.line.Close(); err != nil {
		return err
	}
	return saveErr
}

// =============================================================================
// SESSION
// =============================================================================

// lineSession applies line-mode input to a host. It owns the composer for
// the lifetime of the prompt loop.
type lineSession struct {
	ctx      context.Context
	host     *host.Host
	provider mention.Provider
	out      io.Writer
}

// HandleLine runs the line-mode prompt until /quit, Ctrl+C or EOF.
func HandleLine(ctx context.Context, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	rt, err := NewRuntime(ctx, cfg, RuntimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	s := &lineSession{ctx: ctx, host: rt.Host, provider: rt.Provider, out: os.Stdout}
	prompt := NewLineCLI(s.complete)
	defer func() {
		if err := prompt.Close(); err != nil {
			rt.Logger.Warn("HISTORY_SAVE_FAILED", "error", err)
		}
	}()

	if !args.Quiet {
		fmt.Fprintln(s.out, TitleStyle.Render("composer "+Version))
		fmt.Fprintln(s.out, DimStyle.Render("Type a message and press enter to send. Tab completes @mentions. /help lists commands."))
	}
	s.run(s.host.Channel().Focus())

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := prompt.ReadInput(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				s.printSummary()
				return nil
			}
			return err
		}
		if !s.execute(input) {
			s.printSummary()
			return nil
		}
	}
}

// prompt shows the space and any active toggles.
func (s *lineSession) prompt() string {
	var flags []string
	if s.host.Composer().Options().Disabled {
		flags = append(flags, "disabled")
	}
	if s.host.FailSend() {
		flags = append(flags, "failing")
	}
	p := "composer[" + s.host.Space() + "]"
	if len(flags) > 0 {
		p += "(" + strings.Join(flags, ",") + ")"
	}
	return p + "> "
}

// execute handles one line of input. It returns false to exit.
func (s *lineSession) execute(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}
	if !strings.HasPrefix(trimmed, "/") {
		ch := s.host.Channel()
		if err := ch.InsertText(input); err != nil {
			s.printError(err)
			return true
		}
		s.run(ch.Send())
		return true
	}

	name, rest, _ := strings.Cut(trimmed[1:], " ")
	rest = strings.TrimSpace(rest)
	ch := s.host.Channel()

	switch strings.ToLower(name) {
	case "quit", "q", "exit":
		return false

	case "help", "h", "?":
		s.printHelp()

	case "send", "s":
		s.run(ch.Send())

	case "clear", "c":
		s.run(ch.Clear())

	case "insert", "i":
		if rest == "" {
			s.printError(ErrMissingArgument("text", "/insert hello"))
			return true
		}
		s.run(ch.InsertText(rest))
		s.printDraft()

	case "emoji":
		s.run(ch.InsertText(lineEmoji))
		s.printDraft()

	case "focus":
		s.run(ch.Focus())

	case "space":
		target := rest
		if target == "" {
			target = s.host.OtherSpace()
		}
		if err := s.host.ShowSpace(s.ctx, target); err != nil {
			s.printError(err)
			return true
		}
		s.printInfo("showing space " + target)
		s.printDraft()

	case "fail":
		if s.host.ToggleFailSend() {
			s.printInfo("sends will fail")
		} else {
			s.printInfo("sends will succeed")
		}

	case "disable":
		if s.host.ToggleDisabled() {
			s.printInfo("disabled")
		} else {
			s.printInfo("enabled")
		}

	case "markdown":
		if s.host.ToggleMarkdown() {
			s.printInfo("markdown enabled")
		} else {
			s.printInfo("markdown disabled")
		}

	case "placeholder":
		s.host.SetPlaceholder(host.AlternatePlaceholder)
		s.printInfo("placeholder: " + host.AlternatePlaceholder)

	case "show":
		s.printDraft()

	default:
		s.printError(NewValidationError("command", "/"+name, "unknown command, try /help"))
	}
	return true
}

// run reports a channel error, then applies queued commands and prints
// their outcomes.
func (s *lineSession) run(err error) {
	if err != nil {
		s.printError(err)
	}
	for _, res := range s.host.Composer().ApplyPending() {
		s.printResult(res)
	}
}

// complete is the liner word completer for "@query". pos counts runes.
func (s *lineSession) complete(line string, pos int) (head string, completions []string, tail string) {
	runes := []rune(line)
	if pos < 0 || pos > len(runes) {
		pos = len(runes)
	}
	before, tail := string(runes[:pos]), string(runes[pos:])
	if s.provider == nil {
		return before, nil, tail
	}

	at := strings.LastIndex(before, "@")
	if at < 0 || strings.ContainsAny(before[at+1:], " \t\n") {
		return before, nil, tail
	}
	if at > 0 && !strings.ContainsRune(" \t\n", rune(before[at-1])) {
		return before, nil, tail
	}

	ctx, cancel := context.WithTimeout(s.ctx, completeTimeout)
	defer cancel()
	list, err := s.provider.Filter(ctx, before[at+1:])
	if err != nil {
		return before, nil, tail
	}
	for _, e := range list {
		completions = append(completions, s.provider.GetDisplay(e)+" ")
	}
	return before[:at], completions, tail
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *lineSession) printResult(res composer.Result) {
	switch res.Outcome {
	case composer.OutcomeSent:
		fmt.Fprintf(s.out, "%s Sending: %s\n", RenderStatus("sent"), quoteJSON(res.Value))
	case composer.OutcomeRejected:
		fmt.Fprintf(s.out, "%s send failed, kept %s\n", RenderStatus("rejected"), quoteJSON(res.Value))
	case composer.OutcomeCleared:
		fmt.Fprintf(s.out, "%s cleared\n", RenderStatus("cleared"))
	case composer.OutcomeEmpty:
		fmt.Fprintf(s.out, "%s nothing to send\n", RenderStatus("empty"))
	case composer.OutcomeSuppressed:
		fmt.Fprintf(s.out, "%s ignored while disabled\n", RenderStatus("suppressed"))
	}
}

func (s *lineSession) printDraft() {
	value := s.host.Composer().Value()
	if value == "" {
		fmt.Fprintln(s.out, DimStyle.Render(s.host.Composer().Options().Placeholder))
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", DimStyle.Render("draft:"), quoteJSON(value))
}

func (s *lineSession) printInfo(msg string) {
	fmt.Fprintf(s.out, "%s %s\n", DimStyle.Render("[i]"), msg)
}

func (s *lineSession) printError(err error) {
	fmt.Fprintf(s.out, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
}

func (s *lineSession) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  /send, /s           Send the current draft
  /clear, /c          Clear the draft
  /insert TEXT, /i    Insert TEXT without sending
  /emoji              Insert an emoji
  /focus              Focus the composer
  /space [ID]         Switch draft space
  /fail               Toggle failing sends
  /disable            Toggle the disabled option
  /markdown           Toggle markdown preview
  /placeholder        Switch to the alternate placeholder
  /show               Print the draft
  /quit, /q           Exit`)
}

func (s *lineSession) printSummary() {
	accepted, rejected, _ := s.host.Stats()
	fmt.Fprintln(s.out, DimStyle.Render(fmt.Sprintf("%d sent, %d rejected", accepted, rejected)))
}

// quoteJSON renders s as a JSON string literal.
func quoteJSON(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return string(data)
}
