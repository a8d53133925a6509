// Package app contains the root application model and the services it runs on.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/tommyrac/Dawn/internal/config"
	"github.com/tommyrac/Dawn/internal/keys"
	"github.com/tommyrac/Dawn/internal/log"
	"github.com/tommyrac/Dawn/internal/navigation"
	"github.com/tommyrac/Dawn/internal/pubsub"
	"github.com/tommyrac/Dawn/internal/theme"
	"github.com/tommyrac/Dawn/internal/ui/styles"
	"github.com/tommyrac/Dawn/internal/ui/toaster"
)

// noticeTimeout is how long a section message stays on screen.
const noticeTimeout = 4 * time.Second

// cardCellWidth is the screen width one card occupies, borders and gap included.
var cardCellWidth = styles.CardWidth + 4

func cardZoneID(i int) string    { return fmt.Sprintf("room-card-%d", i) }
func sectionZoneID(i int) string { return fmt.Sprintf("menu-section-%d", i) }

// Model is the root application state.
type Model struct {
	services *Services
	keys     keys.KeyMap
	help     help.Model
	toaster  toaster.Model

	ctx      context.Context
	cancel   context.CancelFunc
	listener *pubsub.ContinuousListener

	cursor    int
	width     int
	height    int
	lastEvent string
}

// watchedEvents are the events shown in the status bar.
func watchedEvents() []string {
	names := []string{
		navigation.EventRoomChanged,
		navigation.EventNavigationClicked,
		navigation.EventSettingsChanged,
	}
	for _, kind := range navigation.EditorKinds {
		names = append(names, string(kind))
	}
	return names
}

// New creates the root model on top of services.
func New(services *Services) (Model, error) {
	ctx, cancel := context.WithCancel(context.Background())
	listener, err := pubsub.NewContinuousListener(ctx, services.Registry, watchedEvents()...)
	if err != nil {
		cancel()
		return Model{}, fmt.Errorf("listening for events: %w", err)
	}

	return Model{
		services: services,
		keys:     keys.DefaultKeyMap(),
		help:     help.New(),
		toaster:  toaster.New(),
		ctx:      ctx,
		cancel:   cancel,
		listener: listener,
		cursor:   roomIndex(services.Navigator.CurrentRoom()),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.toaster = m.toaster.SetSize(msg.Width)
		return m, nil

	case toaster.DismissMsg:
		before := m.toaster.Visible()
		m.toaster = m.toaster.Update(msg)
		if before && !m.toaster.Visible() {
			m.services.Navigator.DismissNotice()
		}
		return m, nil

	case pubsub.Event:
		m = m.handleEvent(msg)
		return m, m.listener.Listen()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleEvent(ev pubsub.Event) Model {
	m.lastEvent = describeEvent(ev)

	switch ev := ev.(type) {
	case navigation.RoomChanged:
		m.cursor = roomIndex(ev.RoomName)
		styles.ApplyBackground(m.services.Navigator.State().Background)
	case navigation.EditorEvent:
		if ev.Kind == navigation.SectionLoad {
			m.cursor = roomIndex(m.services.Navigator.CurrentRoom())
			m.toaster = m.toaster.Hide()
		}
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.services.Navigator
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor - 1 + len(theme.Rooms)) % len(theme.Rooms)

	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % len(theme.Rooms)

	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < len(theme.Rooms) {
			m.cursor += cols
		}

	case key.Matches(msg, m.keys.Select):
		return m.selectCard(m.cursor)

	case key.Matches(msg, m.keys.Sections):
		return m.openSection(keys.SectionIndex(msg.String()))

	case key.Matches(msg, m.keys.Menu):
		nav.ToggleMenu()

	case key.Matches(msg, m.keys.ToggleTransitions):
		s := nav.Settings()
		s.EnableBackgroundTransitions = !s.EnableBackgroundTransitions
		return m.changeSettings(s, "Background transitions", s.EnableBackgroundTransitions)

	case key.Matches(msg, m.keys.ToggleDesign):
		s := nav.Settings()
		s.DesignMode = !s.DesignMode
		return m.changeSettings(s, "Design mode", s.DesignMode)

	case key.Matches(msg, m.keys.ReloadSection):
		nav.HandleEditorEvent(m.ctx, navigation.EditorEvent{
			Kind:      navigation.SectionLoad,
			SectionID: "artist-house",
		})

	case key.Matches(msg, m.keys.Dismiss):
		nav.DismissNotice()
		m.toaster = m.toaster.Hide()
	}

	return m, nil
}

// handleMouse clicks the card or menu entry under a left-button release.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	for i := range theme.Rooms {
		if z := zone.Get(cardZoneID(i)); z != nil && z.InBounds(msg) {
			m.cursor = i
			return m.selectCard(i)
		}
	}
	if m.services.Navigator.State().MenuOpen {
		for i := range theme.NavigationSections {
			if z := zone.Get(sectionZoneID(i)); z != nil && z.InBounds(msg) {
				return m.openSection(i)
			}
		}
	}
	return m, nil
}

// selectCard clicks the card at index i.
func (m Model) selectCard(i int) (tea.Model, tea.Cmd) {
	if err := m.services.Navigator.SelectCard(m.ctx, theme.Rooms[i]); err != nil {
		m.toaster = m.toaster.Show(err.Error(), toaster.StyleWarn)
		return m, m.toaster.ScheduleDismiss(noticeTimeout)
	}
	return m, nil
}

// openSection clicks navigation section idx and shows its notice.
func (m Model) openSection(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(theme.NavigationSections) {
		return m, nil
	}
	nav := m.services.Navigator
	nav.ShowContent(m.ctx, theme.NavigationSections[idx])
	if notice := nav.State().Notice; notice != "" {
		m.toaster = m.toaster.Show(notice, toaster.StyleInfo)
		return m, m.toaster.ScheduleDismiss(noticeTimeout)
	}
	return m, nil
}

// changeSettings publishes s and saves it when a config file backs the app.
func (m Model) changeSettings(s theme.Settings, label string, on bool) (tea.Model, tea.Cmd) {
	m.services.Registry.Publish(m.ctx, navigation.SettingsChanged{Settings: s})

	state := "off"
	if on {
		state = "on"
	}
	message := fmt.Sprintf("%s %s", label, state)
	style := toaster.StyleSuccess

	if path := m.services.ConfigPath(); path != "" {
		if err := config.SaveSettings(path, s); err != nil {
			log.ErrorErr(log.CatUI, "Saving settings failed", err, "path", path)
			message = fmt.Sprintf("%s (not saved: %v)", message, err)
			style = toaster.StyleError
		}
	}

	m.toaster = m.toaster.Show(message, style)
	return m, m.toaster.ScheduleDismiss(noticeTimeout)
}

// columns returns how many cards fit in a row.
// Below the mobile breakpoint the cards stack in a single column.
func (m Model) columns() int {
	if m.width <= 0 {
		return len(theme.Rooms)
	}
	breakpoint := m.services.Navigator.Settings().MobileBreakpoint / 10
	if m.width < breakpoint {
		return 1
	}
	cols := m.width / cardCellWidth
	return max(1, min(cols, len(theme.Rooms)))
}

// View implements tea.Model.
func (m Model) View() string {
	state := m.services.Navigator.State()

	sections := []string{m.renderHeader(state)}
	if state.MenuOpen {
		sections = append(sections, m.renderMenu())
	}
	sections = append(sections, m.renderCards(state))
	if toast := m.toaster.View(); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keys))

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader(state navigation.View) string {
	title := "Artist House"
	if state.Title != "" {
		title = state.Title
	}
	header := styles.TitleStyle.Foreground(styles.AccentColor).Render(title)
	if m.services.Navigator.Settings().DesignMode {
		header += styles.StatusBarStyle.Render("[design mode]")
	}
	return header
}

func (m Model) renderMenu() string {
	items := make([]string, len(theme.NavigationSections))
	for i, s := range theme.NavigationSections {
		items[i] = zone.Mark(sectionZoneID(i), styles.MenuItemStyle.Render(fmt.Sprintf("%d %s", i+1, s)))
	}
	return styles.MenuStyle.Render(strings.Join(items, "  "))
}

func (m Model) renderCards(state navigation.View) string {
	cols := m.columns()
	var rows []string
	for start := 0; start < len(theme.Rooms); start += cols {
		end := min(start+cols, len(theme.Rooms))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			room := theme.Rooms[i]
			card := styles.CardStyle(room == state.ActiveCard, i == m.cursor).Render(room)
			cards = append(cards, zone.Mark(cardZoneID(i), card))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderStatus() string {
	status := "room: " + m.services.Navigator.CurrentRoom()
	if m.lastEvent != "" {
		status += " | last event: " + m.lastEvent
	}
	if m.width > 2 {
		status = ansi.Truncate(status, m.width-2, "…")
	}
	return styles.StatusBarStyle.Render(status)
}

// describeEvent renders ev for the status bar.
func describeEvent(ev pubsub.Event) string {
	switch ev := ev.(type) {
	case navigation.RoomChanged:
		return fmt.Sprintf("%s %s → %s", ev.EventName(), ev.PreviousRoom, ev.RoomName)
	case navigation.NavigationClicked:
		return fmt.Sprintf("%s %s", ev.EventName(), ev.Section)
	case navigation.EditorEvent:
		if ev.BlockID != "" {
			return fmt.Sprintf("%s %s/%s", ev.EventName(), ev.SectionID, ev.BlockID)
		}
		return fmt.Sprintf("%s %s", ev.EventName(), ev.SectionID)
	default:
		return ev.EventName()
	}
}

// roomIndex returns the card index of room, or 0 if it is not a room.
func roomIndex(room string) int {
	for i, r := range theme.Rooms {
		if strings.EqualFold(r, room) {
			return i
		}
	}
	return 0
}

// Close stops the event listener.
func (m *Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
