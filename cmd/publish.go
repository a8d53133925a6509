package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tommyrac/Dawn/internal/app"
	"github.com/tommyrac/Dawn/internal/navigation"
	"github.com/tommyrac/Dawn/internal/pubsub"
)

var publishCmd = &cobra.Command{
	Use:   "publish <event> [key=value...]",
	Short: "Publish one event through a fresh registry",
	Long: `Publish one event through a registry carrying the default subscribers
and report what was delivered. Run with --debug to see the subscriber logs.

Known event names build their typed event from the fields:
  artistHouse:roomChanged        roomName, previousRoom
  artistHouse:navigationClicked  section
  shopify:section:*              sectionId
  shopify:block:*                sectionId, blockId

Any other name is published as a generic message carrying the fields.

Examples:
  dawn publish artistHouse:roomChanged roomName=pool previousRoom=studio
  dawn --debug publish artistHouse:navigationClicked section=tour
  dawn publish custom:event color=blue`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	ev := buildEvent(args[0], fields)

	cleanup, err := setupLogging(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer cleanup()

	services, err := app.NewServices(cfg, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	out := cmd.OutOrStdout()
	name := ev.EventName()
	subscribers := services.Registry.SubscriberCount(name)

	echo, err := services.Registry.Subscribe(name, func(_ context.Context, got pubsub.Event) {
		fmt.Fprintf(out, "delivered %s %+v\n", got.EventName(), got)
	})
	if err != nil {
		return err
	}
	defer echo.Unsubscribe()

	services.Registry.Publish(cmd.Context(), ev)
	fmt.Fprintf(out, "published %s to %d subscriber(s)\n", name, subscribers)
	return nil
}

// parseFields turns key=value arguments into a map.
func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		k, val, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid field %q, want key=value", arg)
		}
		fields[k] = val
	}
	return fields, nil
}

// buildEvent returns the typed event for a known name and a Message otherwise.
func buildEvent(name string, fields map[string]string) pubsub.Event {
	switch name {
	case navigation.EventRoomChanged:
		return navigation.RoomChanged{RoomName: fields["roomName"], PreviousRoom: fields["previousRoom"]}
	case navigation.EventNavigationClicked:
		return navigation.NavigationClicked{Section: fields["section"]}
	}

	for _, kind := range navigation.EditorKinds {
		if name == string(kind) {
			return navigation.EditorEvent{Kind: kind, SectionID: fields["sectionId"], BlockID: fields["blockId"]}
		}
	}

	if len(fields) == 0 {
		return pubsub.Message{Name: name}
	}
	return pubsub.Message{Name: name, Payload: fields}
}

