package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"github.com/casualjim/persona"
	"github.com/casualjim/persona/document"
	"github.com/casualjim/persona/internal/repl"
	"github.com/casualjim/persona/messages"
	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/vault"
)

// RunCmd runs a personality on a note and writes the answer into it.
type RunCmd struct {
	Personality string `arg:"" help:"Personality note, as a path or link"`
	Note        string `arg:"" help:"Note to process, as a path or link"`

	SelectionFlags `embed:""`
}

func (c *RunCmd) Run(ctx context.Context, cli *CLI) error {
	pid, err := cli.resolve(c.Personality, "")
	if err != nil {
		return fmt.Errorf("%w: %s", persona.ErrPersonalityNotFound, c.Personality)
	}
	noteID, err := cli.resolve(c.Note, "")
	if err != nil {
		return err
	}
	return runOnNote(cli, noteID, c.SelectionFlags, func(r *persona.Runner, ed *document.Buffer) error {
		_, err := r.Run(ctx, pid, ed)
		return err
	})
}

// UseCmd runs the personality a note references in its frontmatter.
type UseCmd struct {
	Note string `arg:"" help:"Note to process, as a path or link"`

	SelectionFlags `embed:""`
}

func (c *UseCmd) Run(ctx context.Context, cli *CLI) error {
	noteID, err := cli.resolve(c.Note, "")
	if err != nil {
		return err
	}
	return runOnNote(cli, noteID, c.SelectionFlags, func(r *persona.Runner, ed *document.Buffer) error {
		_, err := r.RunReferenced(ctx, noteID, ed)
		return err
	})
}

func runOnNote(cli *CLI, noteID string, sel SelectionFlags, fn func(*persona.Runner, *document.Buffer) error) error {
	runner, err := cli.newRunner()
	if err != nil {
		return err
	}
	buf, err := cli.loadNote(noteID, sel)
	if err != nil {
		return err
	}

	runErr := fn(runner, buf)
	if err := cli.saveNote(noteID, buf); err != nil {
		return err
	}
	return runErr
}

// ListCmd lists the personalities in the vault.
type ListCmd struct {
	Query string `arg:"" optional:"" help:"Only list personalities whose name contains this text"`
}

func (c *ListCmd) Run(cli *CLI) error {
	v, err := cli.openVault()
	if err != nil {
		return err
	}
	ids, err := v.Personalities(c.Query)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintf(cli.stdout(), "%s\t%s\n", color.MagentaString(vault.Basename(id)), id)
	}
	return nil
}

// ShowCmd renders the configuration and prompt of a personality.
type ShowCmd struct {
	Personality string `arg:"" help:"Personality note, as a path or link"`
	Raw         bool   `help:"Print the prompt without rendering it"`
}

func (c *ShowCmd) Run(cli *CLI) error {
	id, err := cli.resolve(c.Personality, "")
	if err != nil {
		return err
	}
	fm, err := cli.vault.Frontmatter(id)
	if err != nil {
		return err
	}
	cfg, err := personality.Normalize(fm)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	raw, err := cli.vault.Read(id)
	if err != nil {
		return err
	}

	out := cli.stdout()
	fmt.Fprintf(out, "%s %s\n", color.CyanString("provider:"), cfg.Provider.Title())
	fmt.Fprintf(out, "%s %s\n", color.CyanString("model:"), cfg.Model)
	fmt.Fprintf(out, "%s %g\n", color.CyanString("temperature:"), cfg.Temperature)
	fmt.Fprintf(out, "%s %d\n", color.CyanString("max tokens:"), cfg.MaxTokens)
	fmt.Fprintf(out, "%s %t\n", color.CyanString("stream:"), cfg.Stream)
	if cfg.Gemini != nil {
		for _, category := range personality.HarmCategories {
			if level, ok := cfg.Gemini.Sensitivity[category]; ok {
				fmt.Fprintf(out, "%s %s=%s\n", color.CyanString("sensitivity:"), category, level)
			}
		}
	}
	fmt.Fprintln(out)

	body := messages.PromptBody(raw)
	if c.Raw {
		fmt.Fprintln(out, body)
		return nil
	}
	glam, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return err
	}
	rendered, err := glam.Render(body)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}

// SchemaCmd prints the JSON schema personality frontmatter is checked against.
type SchemaCmd struct{}

func (c *SchemaCmd) Run(cli *CLI) error {
	data, err := json.MarshalIndent(personality.Schema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.stdout(), string(data))
	return nil
}

// ProcessCmd marks a note processed and moves it into a year/month folder.
type ProcessCmd struct {
	Note string `arg:"" help:"Note to process, as a path or link"`
}

func (c *ProcessCmd) Run(cli *CLI) error {
	id, err := cli.resolve(c.Note, "")
	if err != nil {
		return err
	}
	target, err := cli.vault.Process(id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to process note: %w", err)
	}
	if target == id {
		fmt.Fprintln(cli.stdout(), "Note processed (already in target location)")
		return nil
	}
	fmt.Fprintf(cli.stdout(), "Note processed and moved to %s\n", target)
	return nil
}

// SettingsCmd groups the settings subcommands.
type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Print the current settings"`
	Set  SettingsSetCmd  `cmd:"" help:"Change settings"`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(cli *CLI) error {
	file := cli.settingsFile()
	s, err := file.Load()
	if err != nil {
		return err
	}
	out := cli.stdout()
	fmt.Fprintf(out, "file: %s\n", file.Path)
	fmt.Fprintf(out, "allow_network: %t\n", s.AllowNetwork)
	fmt.Fprintf(out, "openai_api_key: %s\n", mask(s.OpenAIAPIKey))
	fmt.Fprintf(out, "gemini_api_key: %s\n", mask(s.GeminiAPIKey))
	return nil
}

// SettingsSetCmd updates the settings file. Flags that are not given keep
// their current value.
type SettingsSetCmd struct {
	Network   string `help:"Allow or block network calls" enum:"keep,on,off" default:"keep"`
	OpenAIKey string `name:"openai-key" help:"OpenAI API key"`
	GeminiKey string `name:"gemini-key" help:"Gemini API key"`
}

func (c *SettingsSetCmd) Run(cli *CLI) error {
	file := cli.settingsFile()
	s, err := file.Load()
	if err != nil {
		return err
	}
	switch c.Network {
	case "on":
		s.AllowNetwork = true
	case "off":
		s.AllowNetwork = false
	}
	if c.OpenAIKey != "" {
		s.OpenAIAPIKey = c.OpenAIKey
	}
	if c.GeminiKey != "" {
		s.GeminiAPIKey = c.GeminiKey
	}
	if err := file.Save(s); err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout(), "saved %s\n", file.Path)
	return nil
}

func mask(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// ReplCmd opens a note for interactive editing.
type ReplCmd struct {
	Note string `arg:"" help:"Note to edit, as a path or link"`
}

func (c *ReplCmd) Run(ctx context.Context, cli *CLI) error {
	id, err := cli.resolve(c.Note, "")
	if err != nil {
		return err
	}
	runner, err := cli.newRunner()
	if err != nil {
		return err
	}
	session, err := repl.Open(runner, cli.vault, id, cli.stdin(), cli.stdout())
	if err != nil {
		return err
	}
	return session.Run(ctx)
}
