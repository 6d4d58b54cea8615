package tui

import (
	"strconv"
	"strings"

	"shopfront-cli/internal/browse"
	"shopfront-cli/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// logoutRequestedMsg asks the app to unmount the main screen.
type logoutRequestedMsg struct{}

type quitRequestedMsg struct{}

// Screen rows above the product list: header, search row, spacer.
const listTop = 3

type browseModel struct {
	view *browse.View

	search        textinput.Model
	searchFocused bool

	// cursor is page-local.
	cursor int
	loaded bool

	email string
	theme string

	keys browseKeyMap
	help help.Model

	width  int
	height int
}

func newBrowseModel(email, theme string) browseModel {
	search := textinput.New()
	search.Placeholder = "Search products..."
	search.Prompt = ""
	search.CharLimit = 120

	return browseModel{
		view:   browse.New(),
		search: search,
		email:  email,
		theme:  theme,
		keys:   newBrowseKeyMap(),
		help:   help.New(),
	}
}

func (m *browseModel) setCatalog(products []model.Product) {
	m.loaded = true
	m.view.SetCatalog(products)
	m.clampCursor()
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		if m.searchFocused {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	if m.searchFocused {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.view.Query() {
		m.view.SetQuery(q)
		m.cursor = 0
	}
	return m, cmd
}

func (m browseModel) updateList(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	_, dragging := m.view.Dragging()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, func() tea.Msg { return quitRequestedMsg{} }
	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return logoutRequestedMsg{} }
	case key.Matches(msg, m.keys.Search):
		m.view.Drop()
		m.searchFocused = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.LoadAll):
		m.view.LoadAll()
		m.search.SetValue("")
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Grab):
		if dragging {
			m.view.Drop()
		} else {
			_ = m.view.BeginDrag(m.cursor)
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, dragging)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, dragging)
		return m, nil
	case key.Matches(msg, m.keys.PrevPage):
		m.stepPage(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		m.stepPage(1)
		return m, nil
	case msg.String() == "esc" || msg.String() == "enter":
		m.view.Drop()
		return m, nil
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		n, _ := strconv.Atoi(s)
		if n <= m.view.TotalPages() {
			m.selectPage(n)
		}
	}
	return m, nil
}

// moveCursor moves the cursor one slot. While an item is grabbed, entering
// the next slot is a hover and reorders immediately.
func (m *browseModel) moveCursor(delta int, dragging bool) {
	target := m.cursor + delta
	if target < 0 || target >= len(m.view.Visible()) {
		return
	}
	if dragging {
		m.view.HoverEnter(target)
	}
	m.cursor = target
}

func (m *browseModel) stepPage(delta int) {
	total := m.view.TotalPages()
	if total == 0 {
		return
	}
	p := m.view.Page() + delta
	if p > total {
		p = total
	}
	if p < 1 {
		p = 1
	}
	if p != m.view.Page() {
		m.selectPage(p)
	}
}

func (m *browseModel) selectPage(n int) {
	m.view.SetPage(n)
	m.cursor = 0
}

func (m *browseModel) clampCursor() {
	n := len(m.view.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m browseModel) bordered() bool {
	return m.height >= listTop+browse.PageSize*cardHeight(true)+3
}

func (m browseModel) pagerRow() int {
	return listTop + browse.PageSize*cardHeight(m.bordered()) + 1
}

func (m browseModel) listWidth() int {
	w := m.width
	if w >= 100 {
		w = w * 55 / 100
	}
	if w < 30 {
		w = 30
	}
	return w
}

// slotAt maps a screen row to a page-local slot.
func (m browseModel) slotAt(x, y int) (int, bool) {
	if x >= m.listWidth() || y < listTop {
		return 0, false
	}
	slot := (y - listTop) / cardHeight(m.bordered())
	if slot >= len(m.view.Visible()) {
		return 0, false
	}
	return slot, true
}

// pageButtonAt maps a click on the pager row to a page number.
func (m browseModel) pageButtonAt(x int) (int, bool) {
	col := 0
	for _, p := range m.view.Pages() {
		w := len(strconv.Itoa(p)) + 2
		if x >= col && x < col+w {
			return p, true
		}
		col += w + 1
	}
	return 0, false
}

func (m *browseModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if msg.Y == m.pagerRow() {
			if p, ok := m.pageButtonAt(msg.X); ok {
				m.selectPage(p)
			}
			return
		}
		if slot, ok := m.slotAt(msg.X, msg.Y); ok {
			m.cursor = slot
			_ = m.view.BeginDrag(slot)
		}
	case tea.MouseActionMotion:
		if _, dragging := m.view.Dragging(); !dragging {
			return
		}
		if slot, ok := m.slotAt(msg.X, msg.Y); ok && m.view.HoverEnter(slot) {
			m.cursor = slot
		}
	case tea.MouseActionRelease:
		m.view.Drop()
	}
}

func (m browseModel) selected() (model.Product, bool) {
	vis := m.view.Visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return model.Product{}, false
	}
	return vis[m.cursor], true
}

func (m browseModel) View() string {
	listW := m.listWidth()

	button := func(label string) string {
		return lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg).Render(label)
	}

	title := styleTitle().Render("Welcome to the Product List")
	right := styleMuted().Render(m.email) + " " + button("Logout (L)")
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	header := title + strings.Repeat(" ", gap) + right

	searchLabel := styleMuted().Render("Search ")
	if m.searchFocused {
		searchLabel = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Search ")
	}
	searchRow := searchLabel + renderInputLine(36, m.search.View()) + " " + button("Load All (a)")

	bordered := m.bordered()
	h := cardHeight(bordered)
	dragSlot, dragging := m.view.Dragging()

	var rows []string
	switch {
	case !m.loaded:
		rows = append(rows, styleMuted().Render("Loading products…"))
	case len(m.view.Visible()) == 0:
		rows = append(rows, styleMuted().Render("No products on this page."))
	default:
		for i, p := range m.view.Visible() {
			state := cardNormal
			switch {
			case dragging && i == dragSlot:
				state = cardDragging
			case i == m.cursor:
				state = cardSelected
			}
			rows = append(rows, renderProductCard(p, listW, bordered, state))
		}
	}
	list := normalizePane(strings.Join(rows, "\n"), listW, browse.PageSize*h)

	body := list
	if m.width >= 100 {
		detailW := m.width - listW - 2
		detail := ""
		if p, ok := m.selected(); ok {
			detail = renderProductDetail(p, detailW, m.theme)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", normalizePane(detail, detailW, browse.PageSize*h))
	}

	var pager []string
	for _, p := range m.view.Pages() {
		st := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
		if p == m.view.Page() {
			st = st.Bold(true).Foreground(colorAccentFg).Background(colorAccent)
		}
		pager = append(pager, st.Render(strconv.Itoa(p)))
	}

	return strings.Join([]string{
		header,
		searchRow,
		"",
		body,
		"",
		strings.Join(pager, " "),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	}, "\n")
}
