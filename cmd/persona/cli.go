package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/casualjim/persona"
	"github.com/casualjim/persona/document"
	"github.com/casualjim/persona/provider/gemini"
	"github.com/casualjim/persona/provider/openai"
	"github.com/casualjim/persona/settings"
	"github.com/casualjim/persona/vault"
)

// CLI is the root command structure for persona.
type CLI struct {
	Vault       string   `short:"V" help:"Vault directory" default:"." type:"existingdir" env:"PERSONA_VAULT"`
	Settings    string   `help:"Settings file" type:"path" env:"PERSONA_SETTINGS"`
	LogLevel    LogLevel `help:"Log level (debug, info, warn, error)" default:"warn" env:"PERSONA_LOG_LEVEL"`
	MetricsFile string   `help:"Write Prometheus metrics to this file on exit" type:"path" env:"PERSONA_METRICS_FILE"`

	OpenAIBaseURL string `name:"openai-base-url" help:"OpenAI compatible API base URL" default:"${openai_base_url}" env:"PERSONA_OPENAI_BASE_URL" hidden:""`
	GeminiBaseURL string `name:"gemini-base-url" help:"Gemini API base URL" default:"${gemini_base_url}" env:"PERSONA_GEMINI_BASE_URL" hidden:""`

	Run      RunCmd      `cmd:"" help:"Run a personality on a selection of a note"`
	Use      UseCmd      `cmd:"" help:"Run the personality referenced by a note"`
	List     ListCmd     `cmd:"" help:"List personalities"`
	Show     ShowCmd     `cmd:"" help:"Render a personality"`
	Schema   SchemaCmd   `cmd:"" help:"Print the JSON schema of personality frontmatter"`
	Process  ProcessCmd  `cmd:"" help:"Stamp a note as processed and file it by year and month"`
	Config   SettingsCmd `cmd:"" name:"settings" help:"Show or change settings"`
	Interact ReplCmd     `cmd:"" name:"repl" help:"Edit a note interactively"`

	in     io.Reader
	out    io.Writer
	vault  *vault.Vault
	runner *persona.Runner
}

// Vars are the interpolation values for the struct tags above.
func Vars() map[string]string {
	return map[string]string{
		"openai_base_url": openai.DefaultBaseURL,
		"gemini_base_url": gemini.DefaultBaseURL,
	}
}

// LogLevel is a slog level settable from the command line.
type LogLevel string

func (l LogLevel) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func (c *CLI) stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *CLI) stdin() io.Reader {
	if c.in == nil {
		return os.Stdin
	}
	return c.in
}

func (c *CLI) settingsFile() settings.File {
	if c.Settings == "" {
		return settings.File{Path: settings.DefaultPath()}
	}
	return settings.File{Path: c.Settings}
}

func (c *CLI) openVault() (*vault.Vault, error) {
	if c.vault != nil {
		return c.vault, nil
	}
	v, err := vault.Open(c.Vault)
	if err != nil {
		return nil, err
	}
	c.vault = v
	return v, nil
}

// newRunner builds the runner once per process so the last personality and
// the metrics survive across repl commands.
func (c *CLI) newRunner() (*persona.Runner, error) {
	if c.runner != nil {
		return c.runner, nil
	}
	v, err := c.openVault()
	if err != nil {
		return nil, err
	}
	c.runner = persona.New(v,
		persona.WithSettings(c.settingsFile()),
		persona.WithNotifier(consoleNotifier{out: c.stdout()}),
		persona.WithProviders(
			openai.New(openai.BaseURL(c.OpenAIBaseURL)),
			gemini.New(gemini.BaseURL(c.GeminiBaseURL)),
		),
	)
	return c.runner, nil
}

// resolve finds a note by path or link, relative to source when given.
func (c *CLI) resolve(link, source string) (string, error) {
	v, err := c.openVault()
	if err != nil {
		return "", err
	}
	id, ok := v.ResolveLink(link, source)
	if !ok {
		return "", fmt.Errorf("note not found: %s", link)
	}
	return id, nil
}

// Close flushes metrics when requested.
func (c *CLI) Close() error {
	if c.MetricsFile == "" || c.runner == nil {
		return nil
	}
	return c.runner.Metrics().WriteToTextfile(c.MetricsFile)
}

// SelectionFlags choose the part of the note a personality works on.
type SelectionFlags struct {
	From  string `help:"Selection start" placeholder:"LINE:CH" xor:"selection"`
	To    string `help:"Selection end, defaults to the end of the line of --from" placeholder:"LINE:CH"`
	Match string `short:"m" help:"Select the first occurrence of this text" xor:"selection"`
}

func (s SelectionFlags) apply(buf *document.Buffer) error {
	if s.Match != "" {
		if !buf.Find(s.Match) {
			return fmt.Errorf("text %q not found in note", s.Match)
		}
		return nil
	}
	if s.From == "" {
		return nil
	}
	from, err := document.ParsePosition(s.From)
	if err != nil {
		return err
	}
	to := document.Position{Line: from.Line, Ch: math.MaxInt}
	if s.To != "" {
		if to, err = document.ParsePosition(s.To); err != nil {
			return err
		}
	}
	buf.Select(from, to)
	return nil
}

// loadNote opens a note in a buffer with the requested selection.
func (c *CLI) loadNote(id string, sel SelectionFlags) (*document.Buffer, error) {
	v, err := c.openVault()
	if err != nil {
		return nil, err
	}
	content, err := v.Read(id)
	if err != nil {
		return nil, err
	}
	buf := document.NewBuffer(content)
	if err := sel.apply(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// saveNote writes the buffer back when a run changed it, partial output
// included.
func (c *CLI) saveNote(id string, buf *document.Buffer) error {
	if !buf.Dirty() {
		return nil
	}
	v, err := c.openVault()
	if err != nil {
		return err
	}
	if err := v.Write(id, buf.Text()); err != nil {
		return err
	}
	buf.MarkClean()
	return nil
}
