package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/casualjim/persona"
	"github.com/casualjim/persona/document"
	"github.com/casualjim/persona/messages"
	"github.com/casualjim/persona/vault"
)

const help = `commands:
  select L:C L:C   select a range of the note
  match TEXT       select the first occurrence of TEXT
  list [QUERY]     list personalities
  show NAME        render a personality prompt
  run NAME         run a personality on the selection
  rerun            run the last personality again
  use              run the personality referenced by the note
  print            print the note
  save             write the note back to the vault
  exit             save and leave`

// Session edits one note interactively. The runner keeps the last
// personality across commands so rerun works like in an editor.
type Session struct {
	Runner *persona.Runner
	Vault  *vault.Vault
	NoteID string
	Buffer *document.Buffer
	In     io.Reader
	Out    io.Writer

	glam *glamour.TermRenderer
}

// Open loads the note into a fresh buffer.
func Open(runner *persona.Runner, v *vault.Vault, noteID string, in io.Reader, out io.Writer) (*Session, error) {
	content, err := v.Read(noteID)
	if err != nil {
		return nil, err
	}
	glam, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return nil, err
	}
	return &Session{
		Runner: runner,
		Vault:  v,
		NoteID: noteID,
		Buffer: document.NewBuffer(content),
		In:     in,
		Out:    out,
		glam:   glam,
	}, nil
}

// Run reads commands until exit or end of input, then saves pending changes.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	scanner.Split(bufio.ScanLines)

	for {
		fmt.Fprintf(s.Out, "%s> ", color.CyanString(vault.Basename(s.NoteID)))
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(input, " ")
		if strings.EqualFold(cmd, "exit") || strings.EqualFold(cmd, "quit") {
			break
		}
		if err := s.dispatch(ctx, strings.ToLower(cmd), strings.TrimSpace(arg)); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(s.Out, "%s %v\n", color.RedString("error:"), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return s.save()
}

func (s *Session) dispatch(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.Out, help)
	case "select":
		return s.selectRange(arg)
	case "match":
		if !s.Buffer.Find(arg) {
			return fmt.Errorf("text %q not found", arg)
		}
		fmt.Fprintf(s.Out, "selected %s-%s\n", s.Buffer.Cursor(document.From), s.Buffer.Cursor(document.To))
	case "list":
		ids, err := s.Vault.Personalities(arg)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(s.Out, "%s  %s\n", color.MagentaString(vault.Basename(id)), id)
		}
	case "show":
		id, err := s.personality(arg)
		if err != nil {
			return err
		}
		raw, err := s.Vault.Read(id)
		if err != nil {
			return err
		}
		out, err := s.glam.Render(messages.PromptBody(raw))
		if err != nil {
			return err
		}
		fmt.Fprint(s.Out, out)
	case "run":
		id, err := s.personality(arg)
		if err != nil {
			return err
		}
		_, err = s.Runner.Run(ctx, id, s.Buffer)
		return ignoreReported(err)
	case "rerun":
		_, err := s.Runner.RunLast(ctx, s.Buffer)
		return ignoreReported(err)
	case "use":
		_, err := s.Runner.RunReferenced(ctx, s.NoteID, s.Buffer)
		return ignoreReported(err)
	case "print":
		for i, line := range strings.Split(s.Buffer.Text(), "\n") {
			fmt.Fprintf(s.Out, "%s %s\n", color.HiBlackString("%3d", i), line)
		}
	case "save":
		return s.save()
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (s *Session) selectRange(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return errors.New("usage: select L:C L:C")
	}
	from, err := document.ParsePosition(fields[0])
	if err != nil {
		return err
	}
	to, err := document.ParsePosition(fields[1])
	if err != nil {
		return err
	}
	s.Buffer.Select(from, to)
	fmt.Fprintf(s.Out, "selected %q\n", s.Buffer.Selection())
	return nil
}

// personality resolves a link first and falls back to a unique name match.
func (s *Session) personality(name string) (string, error) {
	if name == "" {
		return "", errors.New("personality name required")
	}
	if id, ok := s.Vault.ResolveLink(name, s.NoteID); ok {
		return id, nil
	}
	ids, err := s.Vault.Personalities(name)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", persona.ErrPersonalityNotFound, name)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %s", name, strings.Join(ids, ", "))
	}
}

func (s *Session) save() error {
	if !s.Buffer.Dirty() {
		return nil
	}
	if err := s.Vault.Write(s.NoteID, s.Buffer.Text()); err != nil {
		return err
	}
	s.Buffer.MarkClean()
	fmt.Fprintf(s.Out, "saved %s\n", s.NoteID)
	return nil
}

// ignoreReported drops run failures, the runner already told the user through
// its notifier. Cancellation still ends the session.
func ignoreReported(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
