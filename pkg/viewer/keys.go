package viewer

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	Next      key.Binding
	Prev      key.Binding
	Focus     key.Binding
	Jump      key.Binding
	Download  key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fetch")),
		Next:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next semester")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev semester")),
		Focus:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "toggle input")),
		Jump:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "semester")),
		Download:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Next, k.Prev, k.Focus, k.Jump, k.Download, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
