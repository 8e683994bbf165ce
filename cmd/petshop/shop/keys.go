package shop

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Search   key.Binding
	Add      key.Binding
	Favorite key.Binding
	Detail   key.Binding
	Inc      key.Binding
	Dec      key.Binding
	Remove   key.Binding
	Clear    key.Binding
	Checkout key.Binding
	NextFld  key.Binding
	PrevFld  key.Binding
	Payment  key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Home     key.Binding
	Cart     key.Binding
	Pay      key.Binding
	Profile  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev category")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next category")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Add:      key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "add to cart")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Detail:   key.NewBinding(key.WithKeys("d", " "), key.WithHelp("d", "details")),
		Inc:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Dec:      key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "less")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Clear:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear cart")),
		Checkout: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "checkout")),
		NextFld:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevFld:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Payment:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "card/pix")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Home:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "shop")),
		Cart:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "cart")),
		Pay:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "checkout")),
		Profile:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "profile")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// pageKeys is the help.KeyMap for one page.
type pageKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (p pageKeys) ShortHelp() []key.Binding  { return p.short }
func (p pageKeys) FullHelp() [][]key.Binding { return p.full }
