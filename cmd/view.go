package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivemoreminix/texdown/ui"
	"github.com/fivemoreminix/texdown/ui/buffer"
	"github.com/fivemoreminix/texdown/watcher"
)

var theme = ui.Theme{}

func runView(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runCat(cmd, args)
	}

	lang, err := loadLanguage(cfg.Rules)
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	v := newViewer(s, cfg, lang)
	for _, path := range args {
		if err := v.open(path); err != nil {
			return err
		}
	}

	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini() // Useful for handling panics

	if cfg.Watch {
		w, err := watcher.New(watcher.DefaultConfig(v.watchedPaths()...))
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
		changes, err := w.Start()
		if err != nil {
			return err
		}
		go func() {
			for changed := range changes {
				_ = s.PostEvent(tcell.NewEventInterrupt(changed))
			}
		}()
	}

	v.run()
	return nil
}

// viewer shows one TextView per file, in tabs, above a status bar.
type viewer struct {
	screen    tcell.Screen
	cfg       Config
	lang      *buffer.Language
	tabs      *ui.TabContainer
	statusBar *ui.Label
	views     []*ui.TextView
	message   string // Replaces the status line until the next key
}

func newViewer(s tcell.Screen, cfg Config, lang *buffer.Language) *viewer {
	return &viewer{
		screen:    s,
		cfg:       cfg,
		lang:      lang,
		tabs:      ui.NewTabContainer(&theme),
		statusBar: ui.NewLabel("", "StatusBar", &theme),
	}
}

// open reads the file at path into a new tab.
func (v *viewer) open(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tv := ui.NewTextView(path, contents, &theme, v.lang)
	tv.TabSize = v.cfg.TabSize
	tv.LineNumbers = v.cfg.LineNumbers
	v.views = append(v.views, tv)
	v.tabs.AddTab(path, tv)
	return nil
}

// watchedPaths are the open files and the rule table, if any.
func (v *viewer) watchedPaths() []string {
	var paths []string
	for _, tv := range v.views {
		paths = append(paths, tv.FilePath)
	}
	if v.cfg.Rules != "" {
		paths = append(paths, v.cfg.Rules)
	}
	return paths
}

func (v *viewer) layout() {
	sizex, sizey := v.screen.Size()
	v.tabs.SetPos(0, 0)
	v.tabs.SetSize(sizex, sizey-1)
	v.statusBar.SetPos(0, sizey-1)
	v.statusBar.SetSize(sizex, 1)
}

func (v *viewer) draw() {
	v.screen.Clear()
	v.tabs.Draw(v.screen)
	v.statusBar.Text = v.status()
	v.statusBar.Draw(v.screen)
	v.screen.Show()
}

// status describes the visible view for the status bar.
func (v *viewer) status() string {
	if v.message != "" {
		return " " + v.message
	}
	if v.tabs.GetTabCount() == 0 {
		return ""
	}
	idx := v.tabs.GetSelectedTabIdx()
	tv := v.views[idx]
	langName := "plain"
	if lang := tv.Language(); lang != nil {
		langName = lang.Name
	}
	_, line := tv.GetScroll()
	return fmt.Sprintf(" %s  [%s]  line %d/%d  (%d/%d)  q quits, Tab switches files",
		tv.FilePath, langName, line+1, tv.Buffer.Lines(), idx+1, v.tabs.GetTabCount())
}

func (v *viewer) run() {
	v.layout()
	v.tabs.SetFocused(true)
	for {
		v.draw()
		if quit := v.handle(v.screen.PollEvent()); quit {
			return
		}
	}
}

// handle reacts to one event and reports whether the viewer should quit.
func (v *viewer) handle(event tcell.Event) bool {
	switch ev := event.(type) {
	case nil:
		return true // The screen was finalized
	case *tcell.EventResize:
		v.layout()
		v.screen.Sync() // Redraw everything
	case *tcell.EventInterrupt:
		if changed, ok := ev.Data().([]string); ok {
			v.reload(changed)
		}
	case *tcell.EventKey:
		v.message = ""
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlQ,
			ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		case ev.Key() == tcell.KeyCtrlW:
			return v.closeTab()
		}
		v.tabs.HandleEvent(ev)
	}
	return false
}

// closeTab closes the visible tab and reports whether none are left.
func (v *viewer) closeTab() bool {
	idx := v.tabs.GetSelectedTabIdx()
	if v.tabs.RemoveTab(idx) {
		v.views = append(v.views[:idx], v.views[idx+1:]...)
	}
	return len(v.views) == 0
}

// reload rereads the changed files. A changed rule table applies to every
// view; a table that fails to load is reported and the old one kept.
func (v *viewer) reload(changed []string) {
	rules := ""
	if v.cfg.Rules != "" {
		rules, _ = filepath.Abs(v.cfg.Rules)
	}
	for _, path := range changed {
		if path == rules {
			lang, err := loadLanguage(v.cfg.Rules)
			if err != nil {
				v.message = err.Error()
				tracer().Errorf("viewer: %v", err)
				continue
			}
			v.lang = lang
			for _, tv := range v.views {
				tv.SetLanguages(lang)
			}
			tracer().Infof("viewer: reloaded rule table %s", v.cfg.Rules)
			continue
		}
		for _, tv := range v.views {
			if abs, _ := filepath.Abs(tv.FilePath); abs != path {
				continue
			}
			contents, err := os.ReadFile(tv.FilePath)
			if err != nil {
				v.message = err.Error()
				continue
			}
			tv.SetContents(contents)
		}
	}
}
