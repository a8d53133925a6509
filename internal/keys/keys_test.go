package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_KeyAssignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Left uses h and left", binding: km.Left, expected: []string{"h", "left"}},
		{name: "Right uses l and right", binding: km.Right, expected: []string{"l", "right"}},
		{name: "Select uses enter and space", binding: km.Select, expected: []string{"enter", " "}},
		{name: "Sections uses digits 1-5", binding: km.Sections, expected: []string{"1", "2", "3", "4", "5"}},
		{name: "Menu uses m", binding: km.Menu, expected: []string{"m"}},
		{name: "Quit uses q and ctrl+c", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_NoDuplicateKeys(t *testing.T) {
	km := DefaultKeyMap()
	seen := make(map[string]string)
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
}

func TestSectionIndex(t *testing.T) {
	require.Equal(t, 0, SectionIndex("1"))
	require.Equal(t, 4, SectionIndex("5"))
	require.Equal(t, -1, SectionIndex("0"))
	require.Equal(t, -1, SectionIndex("6"))
	require.Equal(t, -1, SectionIndex("12"))
	require.Equal(t, -1, SectionIndex(""))
}
