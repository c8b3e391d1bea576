package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/abelbrown/moderator/internal/catalog"
)

// globalKeys work on every screen.
type globalKeys struct {
	Quit  key.Binding
	Back  key.Binding
	Debug key.Binding
	Help  key.Binding
}

var global = globalKeys{
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Debug: key.NewBinding(key.WithKeys("`"), key.WithHelp("`", "debug")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// listKeys are the list screen bindings shared by every resource.
type listKeys struct {
	Up        key.Binding
	Down      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Search    key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Sort      key.Binding
	Order     key.Binding
	Bigger    key.Binding
	Smaller   key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Refresh   key.Binding
	Open      key.Binding
	Copy      key.Binding
	Delete    key.Binding
	Flag      key.Binding
	Export    key.Binding
	Block     key.Binding

	transitions []key.Binding
	global      globalKeys
}

func newListKeys(res catalog.Resource) listKeys {
	k := listKeys{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h", "prev page")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next status")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev status")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		Order:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "flip order")),
		Bigger:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "page size")),
		Smaller:   key.NewBinding(key.WithKeys("-")),
		Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAll: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "select page")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"), key.WithDisabled()),
		Flag:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flag"), key.WithDisabled()),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export"), key.WithDisabled()),
		Block:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "block user"), key.WithDisabled()),
		global:    global,
	}
	k.Delete.SetEnabled(res.Deletable)
	k.Flag.SetEnabled(res.Flaggable)
	k.Export.SetEnabled(res.Exportable)
	if res.Name == catalog.Reports {
		k.Delete.SetEnabled(true)
		k.Delete.SetHelp("d", "delete content")
		k.Block.SetEnabled(true)
	}
	for _, t := range res.Transitions {
		k.transitions = append(k.transitions,
			key.NewBinding(key.WithKeys(t.Key), key.WithHelp(t.Key+"/"+t.BulkKey(), t.Name)))
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextTab, k.NextPage, k.Select, k.Open, k.global.Back, k.global.Help}
}

// FullHelp implements help.KeyMap.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.Bigger},
		{k.Search, k.NextTab, k.PrevTab, k.Sort, k.Order},
		{k.Select, k.SelectAll, k.Refresh, k.Open, k.Copy},
		append([]key.Binding{k.Delete, k.Flag, k.Export, k.Block}, k.transitions...),
		{k.global.Back, k.global.Debug, k.global.Help, k.global.Quit},
	}
}
