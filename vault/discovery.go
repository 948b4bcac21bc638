package vault

import (
	"cmp"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/pkg/slogx"
)

// Personalities lists the notes marked as AI personalities whose basename
// contains query, ignoring case. An empty query matches every personality.
// Notes with unreadable frontmatter are skipped.
func (v *Vault) Personalities(query string) ([]string, error) {
	ids, err := v.Notes()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)

	var result []string
	for _, id := range ids {
		if query != "" && !strings.Contains(strings.ToLower(Basename(id)), query) {
			continue
		}
		fm, err := v.Frontmatter(id)
		if err != nil {
			slog.Debug("skipping note", slog.String("note", id), slogx.Error(err))
			continue
		}
		if nt, _ := fm["note-type"].(string); nt == personality.NoteType {
			result = append(result, id)
		}
	}
	return result, nil
}

// LinkPath strips wiki link brackets, an alias and a heading from link.
func LinkPath(link string) string {
	link = strings.TrimSpace(link)
	link = strings.TrimPrefix(link, "[[")
	link = strings.TrimSuffix(link, "]]")
	if before, _, found := strings.Cut(link, "|"); found {
		link = before
	}
	if before, _, found := strings.Cut(link, "#"); found {
		link = before
	}
	return strings.TrimSpace(link)
}

// ResolveLink finds the note a link points to when written in source. It tries
// the link as a vault path, then relative to the folder of source, then as a
// basename or path suffix anywhere in the vault where the shortest path wins.
func (v *Vault) ResolveLink(link, source string) (string, bool) {
	link = LinkPath(link)
	if link == "" {
		return "", false
	}
	target := link
	if !strings.EqualFold(path.Ext(target), Ext) {
		target += Ext
	}

	if v.Exists(target) {
		return target, true
	}
	if source != "" {
		if rel := path.Join(path.Dir(source), target); v.Exists(rel) {
			return rel, true
		}
	}

	ids, err := v.Notes()
	if err != nil {
		slog.Debug("resolve link", slog.String("link", link), slogx.Error(err))
		return "", false
	}
	want := strings.ToLower(target)
	var matches []string
	for _, id := range ids {
		lower := strings.ToLower(id)
		if lower == want || strings.HasSuffix(lower, "/"+want) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	slices.SortFunc(matches, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(a), len(b)), strings.Compare(a, b))
	})
	return matches[0], true
}
