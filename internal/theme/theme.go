// Package theme holds the Artist House theme constants: the rooms, the
// navigation sections, the feature settings and the background palette.
package theme

import "strings"

// Rooms are the room cards in display order.
var Rooms = []string{
	"Front",
	"Studio",
	"Lounge",
	"Bedroom",
	"Closet",
	"Pool",
	"Kitchen",
	"Court",
	"Garage",
}

// NavigationSections are the entries of the navigation menu.
var NavigationSections = []string{
	"Albums",
	"Projects",
	"Tour",
	"Shop",
	"Explore",
}

// DefaultRoom is the room shown when the page first loads.
const DefaultRoom = "studio"

// BackgroundImage is layered under the gradient on every transition.
const BackgroundImage = "https://images-sp.summitpost.org/tr:e-sharpen,e-contrast-1,fit-max,q-60,w-1024/390596.JPG"

// Gradients is the palette a room transition picks from.
var Gradients = []string{
	"linear-gradient(135deg, #1a1a1a 0%, #2d2d2d 100%)",
	"linear-gradient(135deg, #2d1b69 0%, #11284b 100%)",
	"linear-gradient(135deg, #1a2a6c 0%, #b21f1f 100%)",
	"linear-gradient(135deg, #134e5e 0%, #71b280 100%)",
	"linear-gradient(135deg, #667db6 0%, #0082c8 100%)",
}

// SectionMessages maps a lower-case section to the text shown when it is clicked.
var SectionMessages = map[string]string{
	"albums":   "Albums section - Explore our music collection!",
	"projects": "Projects section - View our creative works!",
	"tour":     "Tour section - Join us on our journey!",
	"shop":     "Shop section - Browse our merchandise!",
	"explore":  "Explore section - Discover more content!",
}

// Settings toggles theme behavior.
type Settings struct {
	EnableRoomNavigation        bool `mapstructure:"enable_room_navigation" yaml:"enable_room_navigation"`
	EnableBackgroundTransitions bool `mapstructure:"enable_background_transitions" yaml:"enable_background_transitions"`
	MobileBreakpoint            int  `mapstructure:"mobile_breakpoint" yaml:"mobile_breakpoint"`
	// DesignMode mirrors the storefront theme editor: titles are updated,
	// editor events are handled and section messages are logged instead of shown.
	DesignMode bool `mapstructure:"design_mode" yaml:"design_mode"`
}

// DefaultSettings returns the settings the theme ships with.
func DefaultSettings() Settings {
	return Settings{
		EnableRoomNavigation:        true,
		EnableBackgroundTransitions: true,
		MobileBreakpoint:            768,
	}
}

// IsRoom reports whether name matches a room, ignoring case.
func IsRoom(name string) bool {
	for _, r := range Rooms {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}
