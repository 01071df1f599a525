package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "tab_size: 8\nrules: house.yaml\nwatch: false\n")
	t.Setenv("TEXDOWN_TAB_SIZE", "2")

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.TabSize, "the environment overrides the file")
	require.Equal(t, "house.yaml", cfg.Rules)
	require.False(t, cfg.Watch)
	require.True(t, cfg.LineNumbers)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := loadConfig(viper.New(), writeFile(t, dir, "config.yaml", "tab_size: 0\n"))
	require.ErrorContains(t, err, "tab size")

	_, err = loadConfig(viper.New(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err, "an explicit config file must exist")
}

func TestCatCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	paper := writeFile(t, dir, "paper.td", "x *b* y\n")
	notes := writeFile(t, dir, "notes.txt", "x *b* y\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"cat", "--color=always", paper, notes})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "x *\x1b[1mb\x1b[0m* y\nx *b* y\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"cat", "--color=never", paper})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "x *b* y\n", out.String())

	rootCmd.SetArgs([]string{"cat", "--color=sometimes", paper})
	require.ErrorContains(t, rootCmd.Execute(), "sometimes")
}

func newTestViewer(t *testing.T, cfg Config) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	lang, err := loadLanguage(cfg.Rules)
	require.NoError(t, err)
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(60, 8)

	v := newViewer(s, cfg, lang)
	return v, s
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestViewerKeys(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	dir := t.TempDir()
	v, _ := newTestViewer(t, Defaults())
	require.NoError(t, v.open(writeFile(t, dir, "one.td", "## One ##\n")))
	require.NoError(t, v.open(writeFile(t, dir, "two.txt", "plain\n")))
	require.Error(t, v.open(filepath.Join(dir, "missing.td")))
	v.layout()
	v.tabs.SetFocused(true)
	v.draw()

	require.Contains(t, v.status(), "one.td  [texdown]  line 1/2  (1/2)")
	require.False(t, v.handle(key(tcell.KeyTab, 0)))
	require.Contains(t, v.status(), "two.txt  [plain]")
	require.False(t, v.handle(key(tcell.KeyRune, 'x')))
	require.False(t, v.handle(tcell.NewEventResize(80, 24)))

	require.False(t, v.handle(key(tcell.KeyCtrlW, 0)))
	require.Len(t, v.views, 1)
	require.Contains(t, v.status(), "one.td  [texdown]  line 1/2  (1/1)")
	require.True(t, v.handle(key(tcell.KeyCtrlW, 0)), "closing the last tab quits")

	require.True(t, v.handle(key(tcell.KeyRune, 'q')))
	require.True(t, v.handle(key(tcell.KeyEscape, 0)))
	require.True(t, v.handle(key(tcell.KeyCtrlQ, 0)))
}

func TestViewerReload(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml",
		"patterns:\n  - {name: shout, kind: span, pattern: '!(?P<body>[a-z]+)!'}\n"+
			"styles:\n  - {category: normal}\n  - {category: shout, bold: true}\n")
	cfg := Defaults()
	cfg.Rules = rules
	v, _ := newTestViewer(t, cfg)
	paper := writeFile(t, dir, "paper.td", "first\n")
	require.NoError(t, v.open(paper))
	require.ElementsMatch(t, []string{paper, rules}, v.watchedPaths())

	writeFile(t, dir, "paper.td", "second !hey!\n")
	v.reload([]string{paper})
	tv := v.views[0]
	require.Equal(t, "second !hey!\n", string(tv.Buffer.Bytes()))

	tv.Highlighter.UpdateLines()
	spans := tv.Highlighter.GetLineMatches(0)
	require.Len(t, spans, 1)
	require.Equal(t, "shout", spans[0].Category)

	// A new table applies to every view.
	writeFile(t, dir, "rules.yaml",
		"patterns:\n  - {name: whisper, kind: span, pattern: '!(?P<body>[a-z]+)!'}\n")
	v.reload([]string{rules})
	require.Empty(t, v.message)
	require.Equal(t, []string{"whisper"}, tv.Language().Catalog.Rules())

	// A broken table is reported and the old one kept.
	writeFile(t, dir, "rules.yaml", "patterns:\n  - {name: broken, kind: nonsense}\n")
	v.reload([]string{rules})
	require.True(t, strings.Contains(v.status(), "nonsense"), v.status())
	require.Equal(t, []string{"whisper"}, tv.Language().Catalog.Rules())
	v.handle(key(tcell.KeyDown, 0))
	require.NotContains(t, v.status(), "nonsense", "a key clears the message")
}
