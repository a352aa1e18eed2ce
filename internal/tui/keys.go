package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the app-level bindings. The run binding comes from the
// trigger controller and is not listed here.
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Close    key.Binding
	Diff     key.Binding
	DiffView key.Binding
	Copy     key.Binding
	Run      key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Markup   key.Binding
	Style    key.Binding
	Script   key.Binding
	Insert   key.Binding
	Normal   key.Binding
	Motion   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q/ctrl+c", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Diff:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "changes since last run")),
		DiffView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "unified/side-by-side")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy document")),
		Run:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "ctrl+n"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "ctrl+p"), key.WithHelp("shift+tab", "prev tab")),
		Markup:   key.NewBinding(key.WithKeys("1", "alt+1", "f1"), key.WithHelp("1", "index.html")),
		Style:    key.NewBinding(key.WithKeys("2", "alt+2", "f2"), key.WithHelp("2", "style.css")),
		Script:   key.NewBinding(key.WithKeys("3", "alt+3", "f3"), key.WithHelp("3", "script.js")),
		Insert:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i a A I o O", "insert")),
		Normal:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "command mode")),
		Motion:   key.NewBinding(key.WithKeys("h", "j", "k", "l"), key.WithHelp("h j k l 0 $ w b g G", "move")),
	}
}

// globalTab reports whether msg selects a tab from either mode. Plain
// digits only switch tabs in command mode.
func globalTab(k string) bool {
	switch k {
	case "alt+1", "alt+2", "alt+3", "f1", "f2", "f3":
		return true
	}
	return false
}
