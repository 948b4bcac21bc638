package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// ProcessedField is the frontmatter key stamped by Process.
const ProcessedField = "processed"

// Process stamps the note with the time it was processed and files it under
// <folder>/<YYYY>/<MM>/ next to where it lives now. A note already inside the
// folder for the current month only gets the new timestamp. It returns the id
// of the note after the move.
func (v *Vault) Process(id string, now time.Time) (string, error) {
	content, err := v.Read(id)
	if err != nil {
		return "", err
	}
	stamped, err := SetField(content, ProcessedField, strfmt.DateTime(now.UTC()).String())
	if err != nil {
		return "", fmt.Errorf("process %s: %w", id, err)
	}
	if err := v.Write(id, stamped); err != nil {
		return "", err
	}

	target := monthPath(id, now)
	if target == id {
		return id, nil
	}
	if err := v.Move(id, target); err != nil {
		return "", err
	}
	return target, nil
}

func monthPath(id string, now time.Time) string {
	dir, name := path.Split(id)
	dir = strings.TrimSuffix(dir, "/")
	month := now.Format("2006/01")
	if dir == month || strings.HasSuffix(dir, "/"+month) {
		return id
	}
	if dir == "" {
		return path.Join(month, name)
	}
	return path.Join(dir, month, name)
}

// Move renames a note and rewrites the path style links that pointed to it in
// every other note.
func (v *Vault) Move(from, to string) error {
	src, err := v.path(from)
	if err != nil {
		return err
	}
	dst, err := v.path(to)
	if err != nil {
		return err
	}
	if v.Exists(to) {
		return fmt.Errorf("move %s: %s: %w", from, to, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("move %s: %w", from, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", from, err)
	}

	ids, err := v.Notes()
	if err != nil {
		return err
	}
	rewrite := linkRewriter(from, to)
	for _, id := range ids {
		if id == to {
			continue
		}
		content, err := v.Read(id)
		if err != nil {
			return err
		}
		updated := rewrite(content)
		if updated == content {
			continue
		}
		if err := v.Write(id, updated); err != nil {
			return err
		}
		slog.Debug("rewrote links", slog.String("note", id), slog.String("from", from), slog.String("to", to))
	}
	return nil
}

func linkRewriter(from, to string) func(string) string {
	oldLink := strings.TrimSuffix(from, path.Ext(from))
	newLink := strings.TrimSuffix(to, path.Ext(to))

	wiki := regexp.MustCompile(`\[\[` + regexp.QuoteMeta(oldLink) + `((?i:\.md))?([|#][^\]]*)?\]\]`)
	markdown := regexp.MustCompile(`\]\((` + regexp.QuoteMeta(from) + `|` + regexp.QuoteMeta(escapeSpaces(from)) + `)\)`)

	return func(content string) string {
		content = wiki.ReplaceAllString(content, "[["+escapeDollar(newLink)+"${1}${2}]]")
		return markdown.ReplaceAllLiteralString(content, "]("+escapeSpaces(to)+")")
	}
}

func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}

func escapeDollar(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
