package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a temporary data directory.
func execute(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color", "--config-dir", dir, "--data-dir", dir}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func readStore(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	values := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(data, &values))
	return values
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "figma-textstyle version "+version)
}

func TestAliasesSetListRemove(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "", "aliases", "set", "Inter", "$font-primary", "--file-key", "ABC")
	require.NoError(t, err)
	assert.Contains(t, out, "$font-primary")

	values := readStore(t, filepath.Join(dir, "files", "ABC.json"))
	assert.JSONEq(t, `{"Inter":"$font-primary"}`, string(values[settings.KeyAliases]))

	out, err = execute(t, dir, "", "aliases", "list", "--file-key", "ABC")
	require.NoError(t, err)
	assert.Contains(t, out, "This file only")
	assert.Contains(t, out, "Inter")

	_, err = execute(t, dir, "", "aliases", "rm", "Inter", "--file-key", "ABC")
	require.NoError(t, err)
	values = readStore(t, filepath.Join(dir, "files", "ABC.json"))
	assert.JSONEq(t, `{}`, string(values[settings.KeyAliases]))
}

func TestAliasesImportExport(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "Inter: $f1\n\"Noto Sans JP\": $f2\n", "aliases", "import", "-", "--scope", "global")
	require.NoError(t, err)

	out, err := execute(t, dir, "", "aliases", "export")
	require.NoError(t, err)
	assert.Equal(t, "Inter: $f1\nNoto Sans JP: $f2\n", out)
}

func TestAliasesRejectsFileScopeWithoutFile(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "aliases", "set", "Inter", "$f", "--scope", "file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file storage is not available")
}

func TestSettingsSetAndShow(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "", "settings", "set", "--base-pixel-size", "10", "--file-key", "ABC")
	require.NoError(t, err)

	values := readStore(t, filepath.Join(dir, "files", "ABC.json"))
	var stored settings.Settings
	require.NoError(t, json.Unmarshal(values[settings.KeySettings], &stored))
	assert.Equal(t, 10, stored.BasePixelSize)
	assert.Equal(t, settings.Builtin().Settings.Template, stored.Template)

	_, err = execute(t, dir, "", "settings", "set", "--template", "$size(px)", "--file-key", "ABC")
	require.NoError(t, err)

	out, err := execute(t, dir, "", "--json", "settings", "show", "--file-key", "ABC")
	require.NoError(t, err)
	var e struct {
		Settings settings.Settings `json:"settings"`
		Scope    settings.Scope    `json:"scope"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "$size(px)", e.Settings.Template)
	assert.Equal(t, 10, e.Settings.BasePixelSize)
	assert.Equal(t, settings.ScopeFile, e.Scope)
}

func TestSettingsSetNeedsAFlag(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "settings", "set")
	require.Error(t, err)
}

func TestSettingsSetFailsOnUnreadableTemplateFile(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "", "settings", "set", "--template-file", filepath.Join(dir, "missing.scss"), "--file-key", "ABC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read template file")
	assert.NoFileExists(t, filepath.Join(dir, "files", "ABC.json"))
}

func TestSettingsSetReadsTemplateFile(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "snippet.scss")
	require.NoError(t, os.WriteFile(tpl, []byte("$size(px)"), 0644))

	_, err := execute(t, dir, "", "settings", "set", "--template-file", tpl, "--file-key", "ABC")
	require.NoError(t, err)

	values := readStore(t, filepath.Join(dir, "files", "ABC.json"))
	var stored settings.Settings
	require.NoError(t, json.Unmarshal(values[settings.KeySettings], &stored))
	assert.Equal(t, "$size(px)", stored.Template)
}

func TestScopeSwitchCopiesState(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "", "aliases", "set", "Inter", "$f", "--file-key", "ABC")
	require.NoError(t, err)

	out, err := execute(t, dir, "", "scope", "global", "--file-key", "ABC")
	require.NoError(t, err)
	assert.Contains(t, out, "All files")

	values := readStore(t, filepath.Join(dir, "device.json"))
	assert.JSONEq(t, `{"Inter":"$f"}`, string(values[settings.KeyAliases]))
	assert.Contains(t, values, settings.KeySettings)

	_, err = execute(t, dir, "", "scope", "file")
	require.Error(t, err)
}

func TestRenderOffline(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "", "aliases", "set", "Inter", "$font-primary", "--scope", "global")
	require.NoError(t, err)

	out, err := execute(t, dir, "",
		"render", "--size", "1.5rem", "--weight", "bold", "--family", "Inter",
		"--line-height", "1.5", "--template", "$size(px) $weight(num) $family $lineHeight(%)")
	require.NoError(t, err)
	assert.Equal(t, "24px 700 $font-primary 150%\n", out)
}

func TestRenderStyleFromStdin(t *testing.T) {
	event := `{"type":"style-extracted","styles":{"fontSize":"2rem","fontWeight":"light","fontFamily":"Roboto","letterSpacing":"0.05em","lineHeight":"1.2","textAlign":"center"}}`

	out, err := execute(t, t.TempDir(), event,
		"render", "--style", "-", "--base-pixel-size", "10", "--template", "$size(px) $spacing(%) $family $textAlign")
	require.NoError(t, err)
	assert.Equal(t, "20px 5.0% 'Roboto' center\n", out)
}

func TestReadStyleBareRecord(t *testing.T) {
	record := extractor.StyleRecord{FontSize: "1rem", TextAlign: "left"}
	err := readStyle(strings.NewReader(`{"fontFamily":"Inter"}`), "-", &record)
	require.NoError(t, err)
	assert.Equal(t, "Inter", record.FontFamily)
	assert.Equal(t, "1rem", record.FontSize)

	assert.Error(t, readStyle(strings.NewReader(`{`), "-", &record))
}

func TestSplitAlias(t *testing.T) {
	tests := []struct {
		in, family, alias string
	}{
		{"Inter $f1", "Inter", "$f1"},
		{"Noto Sans JP $font-jp", "Noto Sans JP", "$font-jp"},
		{"Inter", "Inter", ""},
	}
	for _, tt := range tests {
		family, alias := splitAlias(tt.in)
		assert.Equal(t, tt.family, family, tt.in)
		assert.Equal(t, tt.alias, alias, tt.in)
	}
}

func TestExportNeedsToken(t *testing.T) {
	t.Setenv("FIGMA_TOKEN", "")
	_, err := execute(t, t.TempDir(), "", "export", "--url", "https://www.figma.com/design/ABC/App")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

func TestReadCommands(t *testing.T) {
	var out bytes.Buffer
	p := &presenter{out: &out}
	tr := newTracker(p)
	s := session.New(session.Options{
		Store:     settings.NewChain(settings.NewMemoryStore(), settings.NewMemoryStore(), settings.Builtin().Settings),
		Presenter: tr,
	})
	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	input := "h\nbogus\nalias Noto Sans JP $font-jp\nq\n"
	readCommands(context.Background(), strings.NewReader(input), p, s, tr)
	require.NoError(t, <-errc)

	got := out.String()
	assert.Contains(t, got, "template <text>")
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.Contains(t, got, "$font-jp")

	_, aliases := tr.current()
	assert.Equal(t, settings.AliasTable{"Noto Sans JP": "$font-jp"}, aliases)
}

// overlapWriter counts writes that start while another is still running.
type overlapWriter struct {
	active   int32
	overlaps int32
}

func (w *overlapWriter) Write(b []byte) (int, error) {
	if atomic.AddInt32(&w.active, 1) > 1 {
		atomic.AddInt32(&w.overlaps, 1)
	}
	time.Sleep(50 * time.Microsecond)
	atomic.AddInt32(&w.active, -1)
	return len(b), nil
}

func TestPresenterSerializesWrites(t *testing.T) {
	w := &overlapWriter{}
	p := &presenter{out: w}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			p.Present(session.Event{Type: session.Notify, Message: "Copied to clipboard!"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			p.printf(nil, "unknown command %q\n", "x")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			assert.NoError(t, p.showSnippet("line-height: 1.2"))
		}
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&w.overlaps))
}
