package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coach = `---
note-type: ai-personality
provider: openai
model: gpt-4o-mini
---
You are a concise writing coach.
`

func setupVault(t *testing.T, notes map[string]string) *Vault {
	t.Helper()
	dir := t.TempDir()
	for id, content := range notes {
		p := filepath.Join(dir, filepath.FromSlash(id))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	v, err := Open(dir)
	require.NoError(t, err)
	return v
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestVault_ReadWrite(t *testing.T) {
	v := setupVault(t, nil)

	require.NoError(t, v.Write("deep/folder/note.md", "hello"))
	got, err := v.Read("deep/folder/note.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.True(t, v.Exists("deep/folder/note.md"))

	_, err = v.Read("missing.md")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = v.Read("../escape.md")
	assert.ErrorIs(t, err, ErrOutsideVault)

	_, err = v.Read("image.png")
	assert.ErrorIs(t, err, ErrNotNote)
}

func TestVault_Notes(t *testing.T) {
	v := setupVault(t, map[string]string{
		"b.md":                   "",
		"a/c.md":                 "",
		".obsidian/workspace.md": "",
		"a/picture.png":          "",
	})
	ids, err := v.Notes()
	require.NoError(t, err)
	assert.Equal(t, []string{"a/c.md", "b.md"}, ids)
}

func TestVault_Frontmatter(t *testing.T) {
	v := setupVault(t, map[string]string{
		"coach.md":  coach,
		"plain.md":  "no frontmatter here\n---\n",
		"broken.md": "---\nkey: [unclosed\n---\nbody",
	})

	fm, err := v.Frontmatter("coach.md")
	require.NoError(t, err)
	assert.Equal(t, "ai-personality", fm["note-type"])
	assert.Equal(t, "gpt-4o-mini", fm["model"])

	fm, err = v.Frontmatter("plain.md")
	require.NoError(t, err)
	assert.Nil(t, fm)

	_, err = v.Frontmatter("broken.md")
	assert.ErrorContains(t, err, "parse frontmatter")
}

func TestSplitFrontmatter(t *testing.T) {
	header, body, ok := splitFrontmatter("---\r\na: 1\r\n---\r\nbody")
	require.True(t, ok)
	assert.Equal(t, "a: 1\r\n", header)
	assert.Equal(t, "body", body)

	header, body, ok = splitFrontmatter("---\na: 1\n---")
	require.True(t, ok)
	assert.Equal(t, "a: 1\n", header)
	assert.Empty(t, body)

	_, body, ok = splitFrontmatter("---\nnever closed\n")
	assert.False(t, ok)
	assert.Equal(t, "---\nnever closed\n", body)
}

func TestSetField(t *testing.T) {
	got, err := SetField("---\nz: 1\nprocessed: old\na: 2\n---\nbody\n", "processed", "new")
	require.NoError(t, err)
	assert.Equal(t, "---\nz: 1\nprocessed: new\na: 2\n---\nbody\n", got)

	got, err = SetField("---\nz: 1\n---\nbody\n", "processed", "now")
	require.NoError(t, err)
	assert.Equal(t, "---\nz: 1\nprocessed: now\n---\nbody\n", got)

	got, err = SetField("just text\n", "processed", "now")
	require.NoError(t, err)
	assert.Equal(t, "---\nprocessed: now\n---\njust text\n", got)
}

func TestSetField_KeepsValuesStrings(t *testing.T) {
	for _, value := range []string{"2025-10-07T09:30:00.000Z", "2025-10-07", "true", "42", "1.5", "null", ""} {
		t.Run(value, func(t *testing.T) {
			got, err := SetField("---\ntitle: x\n---\n", "processed", value)
			require.NoError(t, err)

			fm, err := ParseFrontmatter(got)
			require.NoError(t, err)
			assert.Equal(t, value, fm["processed"])
		})
	}
}

func TestVault_Personalities(t *testing.T) {
	v := setupVault(t, map[string]string{
		"personalities/Writing Coach.md": coach,
		"personalities/Translator.md":    "---\nnote-type: ai-personality\nprovider: gemini\nmodel: gemini-pro\n---\nTranslate.",
		"journal/today.md":               "---\nnote-type: journal\n---\nDear diary",
		"coaching notes.md":              "no frontmatter",
		"broken coach.md":                "---\n: : :\n---\n",
	})

	all, err := v.Personalities("")
	require.NoError(t, err)
	assert.Equal(t, []string{"personalities/Translator.md", "personalities/Writing Coach.md"}, all)

	matched, err := v.Personalities("COACH")
	require.NoError(t, err)
	assert.Equal(t, []string{"personalities/Writing Coach.md"}, matched)

	none, err := v.Personalities("zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLinkPath(t *testing.T) {
	assert.Equal(t, "Coach", LinkPath("[[Coach]]"))
	assert.Equal(t, "folder/Coach", LinkPath("[[folder/Coach|my coach]]"))
	assert.Equal(t, "Coach", LinkPath(" Coach#Prompt "))
	assert.Empty(t, LinkPath("[[]]"))
}

func TestVault_ResolveLink(t *testing.T) {
	v := setupVault(t, map[string]string{
		"Coach.md":                  "",
		"work/Coach.md":             "",
		"work/notes/Draft.md":       "",
		"work/Translator.md":        "",
		"archive/old/Translator.md": "",
		"work/projects/Brief.md":    "",
	})

	tests := []struct {
		name   string
		link   string
		source string
		want   string
		found  bool
	}{
		{name: "exact path", link: "work/Coach.md", want: "work/Coach.md", found: true},
		{name: "exact path without extension", link: "work/Coach", want: "work/Coach.md", found: true},
		{name: "root before basename", link: "Coach", source: "work/notes/Draft.md", want: "Coach.md", found: true},
		{name: "relative to source", link: "notes/Draft", source: "work/Brief.md", want: "work/notes/Draft.md", found: true},
		{name: "basename shortest path", link: "Translator", source: "Draft.md", want: "work/Translator.md", found: true},
		{name: "case insensitive basename", link: "brief", want: "work/projects/Brief.md", found: true},
		{name: "wiki syntax", link: "[[Translator|tr]]", want: "work/Translator.md", found: true},
		{name: "path suffix", link: "old/Translator", want: "archive/old/Translator.md", found: true},
		{name: "missing", link: "Nobody"},
		{name: "empty", link: "[[]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.ResolveLink(tt.link, tt.source)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVault_Move(t *testing.T) {
	v := setupVault(t, map[string]string{
		"inbox/idea.md": "idea",
		"index.md":      "see [[inbox/idea]], [[inbox/idea|the idea]], [[inbox/idea#Part]], [[inbox/idea.md]] and [link](inbox/idea.md)\n[[inbox/ideas]] stays",
		"other.md":      "nothing to see",
	})

	require.NoError(t, v.Move("inbox/idea.md", "archive/idea.md"))
	assert.False(t, v.Exists("inbox/idea.md"))

	got, err := v.Read("archive/idea.md")
	require.NoError(t, err)
	assert.Equal(t, "idea", got)

	index, err := v.Read("index.md")
	require.NoError(t, err)
	assert.Equal(t, "see [[archive/idea]], [[archive/idea|the idea]], [[archive/idea#Part]], [[archive/idea.md]] and [link](archive/idea.md)\n[[inbox/ideas]] stays", index)

	other, err := v.Read("other.md")
	require.NoError(t, err)
	assert.Equal(t, "nothing to see", other)
}

func TestVault_MoveTargetExists(t *testing.T) {
	v := setupVault(t, map[string]string{"a.md": "a", "b.md": "b"})
	err := v.Move("a.md", "b.md")
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestVault_Process(t *testing.T) {
	now := time.Date(2025, time.October, 7, 9, 30, 0, 0, time.UTC)
	v := setupVault(t, map[string]string{
		"meetings/standup.md": "---\ntitle: Standup\n---\nnotes",
		"loose.md":            "no header",
		"links.md":            "[[meetings/standup]]",
	})

	id, err := v.Process("meetings/standup.md", now)
	require.NoError(t, err)
	assert.Equal(t, "meetings/2025/10/standup.md", id)
	assert.False(t, v.Exists("meetings/standup.md"))

	content, err := v.Read(id)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Standup\nprocessed: \"2025-10-07T09:30:00.000Z\"\n---\nnotes", content)

	fm, err := v.Frontmatter(id)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-07T09:30:00.000Z", fm[ProcessedField])

	links, err := v.Read("links.md")
	require.NoError(t, err)
	assert.Equal(t, "[[meetings/2025/10/standup]]", links)

	id, err = v.Process("loose.md", now)
	require.NoError(t, err)
	assert.Equal(t, "2025/10/loose.md", id)
}

func TestVault_ProcessAlreadyFiled(t *testing.T) {
	now := time.Date(2025, time.October, 7, 9, 30, 0, 0, time.UTC)
	v := setupVault(t, map[string]string{"meetings/2025/10/standup.md": "---\nprocessed: earlier\n---\n"})

	later := now.Add(time.Hour)
	id, err := v.Process("meetings/2025/10/standup.md", later)
	require.NoError(t, err)
	assert.Equal(t, "meetings/2025/10/standup.md", id)

	fm, err := v.Frontmatter(id)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-07T10:30:00.000Z", fm[ProcessedField])
}
