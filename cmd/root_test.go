package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tommyrac/Dawn/internal/config"
	"github.com/tommyrac/Dawn/internal/log"
	"github.com/tommyrac/Dawn/internal/navigation"
	"github.com/tommyrac/Dawn/internal/pubsub"
)

// runCommand executes the root command with args against a temp config file.
func runCommand(t *testing.T, configFile string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	// Flags keep their values between Execute calls
	cfgFile = ""
	roomsSections = false
	require.NoError(t, rootCmd.PersistentFlags().Set("debug", "false"))
	t.Cleanup(log.Reset)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	return path
}

func TestRooms_MarksDefaultRoom(t *testing.T) {
	out, _, err := runCommand(t, tempConfig(t), "rooms")
	require.NoError(t, err)

	require.Contains(t, out, "* Studio\n")
	require.Contains(t, out, "  Front\n")
	require.Contains(t, out, "  Garage\n")
	require.NotContains(t, out, "Albums")
}

func TestRooms_WithSections(t *testing.T) {
	out, _, err := runCommand(t, tempConfig(t), "rooms", "--sections")
	require.NoError(t, err)

	require.Contains(t, out, "1 Albums\n")
	require.Contains(t, out, "5 Explore\n")
}

func TestRooms_MissingConfigUsesDefaults(t *testing.T) {
	out, _, err := runCommand(t, filepath.Join(t.TempDir(), "absent.yaml"), "rooms")
	require.NoError(t, err)
	require.Contains(t, out, "* Studio\n")
}

func TestRooms_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  mobile_breakpoint: 0\n"), 0o600))

	_, _, err := runCommand(t, path, "rooms")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mobile_breakpoint")
}

func TestPublish_RoomChangedReachesLogger(t *testing.T) {
	out, stderr, err := runCommand(t, tempConfig(t),
		"--debug", "publish", "artistHouse:roomChanged", "roomName=pool", "previousRoom=studio")
	require.NoError(t, err)

	require.Contains(t, out, "delivered artistHouse:roomChanged {RoomName:pool PreviousRoom:studio}")
	require.Contains(t, out, "published artistHouse:roomChanged to 1 subscriber(s)")
	require.Contains(t, stderr, "[nav] Room changed to: pool")
}

func TestPublish_GenericMessage(t *testing.T) {
	out, stderr, err := runCommand(t, tempConfig(t), "publish", "custom:event", "color=blue")
	require.NoError(t, err)

	require.Contains(t, out, "published custom:event to 0 subscriber(s)")
	require.Contains(t, out, "delivered custom:event")
	require.Empty(t, stderr, "logging is off without --debug")
}

func TestPublish_InvalidField(t *testing.T) {
	_, _, err := runCommand(t, tempConfig(t), "publish", "custom:event", "novalue")
	require.Error(t, err)
	require.Contains(t, err.Error(), "want key=value")
}

func TestPublish_EmptyEventName(t *testing.T) {
	_, _, err := runCommand(t, tempConfig(t), "publish", " ")
	require.ErrorIs(t, err, pubsub.ErrEmptyEventName)
}

func TestPublish_RequiresEventName(t *testing.T) {
	_, _, err := runCommand(t, tempConfig(t), "publish")
	require.Error(t, err)
}

func TestBuildEvent(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   pubsub.Event
	}{
		{
			name:   navigation.EventNavigationClicked,
			fields: map[string]string{"section": "tour"},
			want:   navigation.NavigationClicked{Section: "tour"},
		},
		{
			name:   string(navigation.BlockSelect),
			fields: map[string]string{"sectionId": "rooms", "blockId": "card-2"},
			want:   navigation.EditorEvent{Kind: navigation.BlockSelect, SectionID: "rooms", BlockID: "card-2"},
		},
		{
			name: "custom:event",
			want: pubsub.Message{Name: "custom:event"},
		},
		{
			name:   "custom:event",
			fields: map[string]string{"k": "v"},
			want:   pubsub.Message{Name: "custom:event", Payload: map[string]string{"k": "v"}},
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, buildEvent(tt.name, tt.fields))
	}
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"a=1", "b=", "c=x=y"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "", "c": "x=y"}, fields)

	_, err = parseFields([]string{"=1"})
	require.Error(t, err)
}

func TestResolveConfigPath_Explicit(t *testing.T) {
	require.Equal(t, "/tmp/custom.yaml", resolveConfigPath("/tmp/custom.yaml"))
}

func TestResolveConfigPath_LocalFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, config.WriteDefaultConfig(localConfigPath))

	require.Equal(t, localConfigPath, resolveConfigPath(""))
}

func TestResolveConfigPath_CreatesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	path := resolveConfigPath("")

	require.Equal(t, filepath.Join(home, ".config", "dawn", "config.yaml"), path)
	_, err := os.Stat(path)
	require.NoError(t, err, "default config should be written")
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
