// Package navigation implements the Artist House room navigation controller.
// It tracks the current room and page state and publishes room and menu
// events into a pubsub.Registry.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"github.com/tommyrac/Dawn/internal/log"
	"github.com/tommyrac/Dawn/internal/pubsub"
	"github.com/tommyrac/Dawn/internal/theme"
)

var (
	// ErrUnknownRoom is returned when navigating to a room the theme doesn't define.
	ErrUnknownRoom = errors.New("unknown room")

	// ErrNavigationDisabled is returned when room navigation is turned off in settings.
	ErrNavigationDisabled = errors.New("room navigation disabled")
)

// View is a snapshot of the page state the navigator controls.
type View struct {
	CurrentRoom string
	ActiveCard  string // Capitalized card name, exactly one card is active
	MenuOpen    bool
	Background  string // CSS background value, empty until the first transition
	Title       string // Only updated in design mode
	Notice      string // Section message shown to the visitor outside design mode
}

// Navigator is the room navigation controller.
type Navigator struct {
	mu       sync.Mutex
	reg      *pubsub.Registry
	settings theme.Settings
	pick     func(n int) int
	view     View
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithPicker replaces the random gradient picker. pick(n) must return [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(n *Navigator) {
		n.pick = pick
	}
}

// New creates a navigator that publishes into reg.
func New(reg *pubsub.Registry, settings theme.Settings, opts ...Option) *Navigator {
	n := &Navigator{
		reg:      reg,
		settings: settings,
		pick:     rand.Intn,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.view = initialView()
	return n
}

func initialView() View {
	return View{
		CurrentRoom: theme.DefaultRoom,
		ActiveCard:  CapitalizeFirst(theme.DefaultRoom),
	}
}

// GoToRoom makes name the current room and publishes RoomChanged.
func (n *Navigator) GoToRoom(ctx context.Context, name string) error {
	room := strings.ToLower(strings.TrimSpace(name))

	n.mu.Lock()
	if !n.settings.EnableRoomNavigation {
		n.mu.Unlock()
		return ErrNavigationDisabled
	}
	if !theme.IsRoom(room) {
		n.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownRoom, name)
	}

	previous := n.view.CurrentRoom
	n.view.CurrentRoom = room
	n.view.ActiveCard = CapitalizeFirst(room)
	if n.settings.DesignMode {
		n.view.Title = fmt.Sprintf("Artist House - %s Room", CapitalizeFirst(room))
	}
	if n.settings.EnableBackgroundTransitions {
		n.view.Background = n.nextBackground()
	}
	n.mu.Unlock()

	// Publish outside the lock so subscribers may call back into the navigator.
	n.reg.Publish(ctx, RoomChanged{RoomName: room, PreviousRoom: previous})

	log.Info(log.CatNav, fmt.Sprintf("Navigated to %s room", room), "previous", previous)
	return nil
}

// nextBackground must be called with n.mu held.
func (n *Navigator) nextBackground() string {
	gradient := theme.Gradients[n.pick(len(theme.Gradients))]
	return fmt.Sprintf("%s, url('%s')", gradient, theme.BackgroundImage)
}

// SelectCard handles a click on a room card carrying cardName.
// Cards without a name are ignored.
func (n *Navigator) SelectCard(ctx context.Context, cardName string) error {
	if strings.TrimSpace(cardName) == "" {
		return nil
	}
	return n.GoToRoom(ctx, strings.ToLower(cardName))
}

// SetRoom is GoToRoom under the name the public theme API uses.
func (n *Navigator) SetRoom(ctx context.Context, name string) error {
	return n.GoToRoom(ctx, name)
}

// ShowContent handles a click on a navigation menu entry. It publishes
// NavigationClicked and returns the section message.
func (n *Navigator) ShowContent(ctx context.Context, section string) string {
	section = strings.ToLower(strings.TrimSpace(section))

	n.reg.Publish(ctx, NavigationClicked{Section: section})

	message, ok := theme.SectionMessages[section]
	if !ok {
		message = fmt.Sprintf("%s section - Content coming soon!", CapitalizeFirst(section))
	}

	n.mu.Lock()
	designMode := n.settings.DesignMode
	if !designMode {
		n.view.Notice = message
	}
	n.mu.Unlock()

	if designMode {
		log.Info(log.CatNav, message)
	}
	return message
}

// DismissNotice clears the visitor notice.
func (n *Navigator) DismissNotice() {
	n.mu.Lock()
	n.view.Notice = ""
	n.mu.Unlock()
}

// ToggleMenu flips the mobile menu and returns the new state.
func (n *Navigator) ToggleMenu() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.view.MenuOpen = !n.view.MenuOpen
	return n.view.MenuOpen
}

// HandleEditorEvent processes a theme editor notification. Outside design
// mode it is ignored. A section load resets the page to its initial state.
func (n *Navigator) HandleEditorEvent(ctx context.Context, ev EditorEvent) {
	n.mu.Lock()
	if !n.settings.DesignMode {
		n.mu.Unlock()
		return
	}
	if ev.Kind == SectionLoad {
		n.view = initialView()
	}
	n.mu.Unlock()

	id := ev.SectionID
	if ev.Kind == BlockSelect || ev.Kind == BlockDeselect {
		id = ev.BlockID
	}
	if line, ok := editorLogLines[ev.Kind]; ok {
		log.Info(log.CatNav, fmt.Sprintf("%s: %s", line, id))
	} else {
		log.Warn(log.CatNav, "unknown editor event", "kind", ev.Kind)
		return
	}

	n.reg.Publish(ctx, ev)
}

// ApplySettings replaces the navigator settings.
func (n *Navigator) ApplySettings(s theme.Settings) {
	n.mu.Lock()
	n.settings = s
	n.mu.Unlock()
	log.Debug(log.CatNav, "settings applied",
		"room_navigation", s.EnableRoomNavigation,
		"background_transitions", s.EnableBackgroundTransitions,
		"design_mode", s.DesignMode)
}

// FollowSettings subscribes the navigator to SettingsChanged events.
func (n *Navigator) FollowSettings() (*pubsub.Subscription, error) {
	return pubsub.On(n.reg, func(_ context.Context, ev SettingsChanged) {
		n.ApplySettings(ev.Settings)
	})
}

// Settings returns the current settings.
func (n *Navigator) Settings() theme.Settings {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.settings
}

// CurrentRoom returns the lower-case name of the current room.
func (n *Navigator) CurrentRoom() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view.CurrentRoom
}

// State returns a snapshot of the page state.
func (n *Navigator) State() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// AvailableRooms returns the theme rooms.
func (n *Navigator) AvailableRooms() []string {
	return append([]string(nil), theme.Rooms...)
}

// CapitalizeFirst upper-cases the first character of s. A character is a
// grapheme cluster, so combining marks stay attached to their base letter.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	first, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return strings.ToUpper(first) + rest
}

// RegisterLoggers installs the default subscribers that log room changes and
// navigation clicks. The caller owns the returned subscriptions.
func RegisterLoggers(reg *pubsub.Registry) ([]*pubsub.Subscription, error) {
	roomSub, err := pubsub.On(reg, func(_ context.Context, ev RoomChanged) {
		log.Info(log.CatNav, "Room changed to: "+ev.RoomName)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing room logger: %w", err)
	}

	navSub, err := pubsub.On(reg, func(_ context.Context, ev NavigationClicked) {
		log.Info(log.CatNav, "Navigation clicked: "+ev.Section)
	})
	if err != nil {
		roomSub.Unsubscribe()
		return nil, fmt.Errorf("subscribing navigation logger: %w", err)
	}

	return []*pubsub.Subscription{roomSub, navSub}, nil
}
