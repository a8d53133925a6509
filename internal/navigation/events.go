package navigation

import "github.com/tommyrac/Dawn/internal/theme"

// Event names published by the navigator.
const (
	EventRoomChanged       = "artistHouse:roomChanged"
	EventNavigationClicked = "artistHouse:navigationClicked"
	EventSettingsChanged   = "artistHouse:settingsChanged"
)

// RoomChanged is published after the current room changes.
type RoomChanged struct {
	RoomName     string
	PreviousRoom string
}

// EventName implements pubsub.Event.
func (RoomChanged) EventName() string { return EventRoomChanged }

// NavigationClicked is published when a navigation menu entry is clicked.
type NavigationClicked struct {
	Section string
}

// EventName implements pubsub.Event.
func (NavigationClicked) EventName() string { return EventNavigationClicked }

// SettingsChanged carries reloaded theme settings.
type SettingsChanged struct {
	Settings theme.Settings
}

// EventName implements pubsub.Event.
func (SettingsChanged) EventName() string { return EventSettingsChanged }

// EditorEventKind names a theme editor notification.
type EditorEventKind string

const (
	SectionLoad     EditorEventKind = "shopify:section:load"
	SectionUnload   EditorEventKind = "shopify:section:unload"
	SectionSelect   EditorEventKind = "shopify:section:select"
	SectionDeselect EditorEventKind = "shopify:section:deselect"
	BlockSelect     EditorEventKind = "shopify:block:select"
	BlockDeselect   EditorEventKind = "shopify:block:deselect"
)

// EditorKinds lists every editor event kind.
var EditorKinds = []EditorEventKind{
	SectionLoad, SectionUnload, SectionSelect, SectionDeselect, BlockSelect, BlockDeselect,
}

// EditorEvent is a theme editor notification. Its event name is its Kind,
// so subscribe by name rather than with pubsub.On.
type EditorEvent struct {
	Kind      EditorEventKind
	SectionID string
	BlockID   string
}

// EventName implements pubsub.Event.
func (e EditorEvent) EventName() string { return string(e.Kind) }

// editorLogLines holds the log prefix for each kind.
var editorLogLines = map[EditorEventKind]string{
	SectionLoad:     "Section loaded",
	SectionUnload:   "Section unloaded",
	SectionSelect:   "Section selected",
	SectionDeselect: "Section deselected",
	BlockSelect:     "Block selected",
	BlockDeselect:   "Block deselected",
}
