package repl

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casualjim/persona"
	"github.com/casualjim/persona/provider/openai"
	"github.com/casualjim/persona/settings"
	"github.com/casualjim/persona/vault"
)

const coach = `---
note-type: ai-personality
provider: openai
model: gpt-4o-mini
stream: false
---
# Coach

Be *brief*.
`

func setupSession(t *testing.T, input string) (*Session, *bytes.Buffer, *vault.Vault) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Coach.md":       coach,
		"Cook.md":        strings.Replace(coach, "Coach", "Cook", 1),
		"inbox/draft.md": "---\npersonality: \"[[Coach]]\"\n---\nping me",
	}
	for id, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(id))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	v, err := vault.Open(dir)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"pong"}}]}`)
	}))
	t.Cleanup(server.Close)

	out := &bytes.Buffer{}
	runner := persona.New(v,
		persona.WithSettings(settings.Static{AllowNetwork: true, OpenAIAPIKey: "sk"}),
		persona.WithNotifier(persona.NotifierFunc(func(n persona.Notice) {
			_, _ = io.WriteString(out, n.Message+"\n")
		})),
		persona.WithProviders(openai.New(openai.BaseURL(server.URL))),
	)

	s, err := Open(runner, v, "inbox/draft.md", strings.NewReader(input), out)
	require.NoError(t, err)
	return s, out, v
}

func TestSession_RunAndRerun(t *testing.T) {
	s, out, v := setupSession(t, "match ping\nrun Coach\nselect 3:0 3:4\nrerun\nprint\nexit\n")
	require.NoError(t, s.Run(context.Background()))

	saved, err := v.Read("inbox/draft.md")
	require.NoError(t, err)
	assert.Equal(t, "---\npersonality: \"[[Coach]]\"\n---\nping\n\npong\n\npong me", saved)

	text := out.String()
	assert.Contains(t, text, "AI response complete")
	assert.Contains(t, text, "saved inbox/draft.md")
	assert.Equal(t, "Coach.md", s.Runner.LastPersonality())
}

func TestSession_Use(t *testing.T) {
	s, _, v := setupSession(t, "select 3:0 3:4\nuse\n")
	require.NoError(t, s.Run(context.Background()))

	saved, err := v.Read("inbox/draft.md")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(saved, "ping\n\npong me"))
}

func TestSession_Errors(t *testing.T) {
	s, out, v := setupSession(t, "bogus\nselect 1\nmatch nothing-here\nrun Co\nrerun\nexit\n")
	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, `unknown command "bogus"`)
	assert.Contains(t, text, "usage: select L:C L:C")
	assert.Contains(t, text, `text "nothing-here" not found`)
	assert.Contains(t, text, "is ambiguous")
	assert.Contains(t, text, "No personality has been run yet")

	saved, err := v.Read("inbox/draft.md")
	require.NoError(t, err)
	assert.Equal(t, "---\npersonality: \"[[Coach]]\"\n---\nping me", saved)
}

func TestSession_ListAndShow(t *testing.T) {
	s, out, _ := setupSession(t, "list\nlist cook\nshow Coach\n")
	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Coach.md")
	assert.Contains(t, text, "Cook.md")
	assert.Contains(t, text, "brief")
}
