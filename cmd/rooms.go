package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/tommyrac/Dawn/internal/app"
	"github.com/tommyrac/Dawn/internal/theme"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms and navigation sections",
	Long: `List the Artist House rooms in card order. The room the page opens on
is marked with '*'.

Examples:
  dawn rooms
  dawn rooms --sections`,
	Args: cobra.NoArgs,
	RunE: runRooms,
}

var roomsSections bool

func init() {
	rootCmd.AddCommand(roomsCmd)

	roomsCmd.Flags().BoolVarP(&roomsSections, "sections", "s", false, "also list the navigation sections")
}

func runRooms(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	services, err := app.NewServices(cfg, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	out := termenv.NewOutput(cmd.OutOrStdout())
	current := services.Navigator.CurrentRoom()
	for _, room := range services.Navigator.AvailableRooms() {
		line := "  " + room
		if strings.EqualFold(room, current) {
			line = "* " + room
			// Plain output when piped or when colors are unsupported
			if out.Profile != termenv.Ascii {
				line = out.String(line).Bold().Foreground(out.Color("#7D56F4")).String()
			}
		}
		fmt.Fprintln(out, line)
	}

	if roomsSections {
		fmt.Fprintln(out)
		for i, section := range theme.NavigationSections {
			fmt.Fprintf(out, "%d %s\n", i+1, section)
		}
	}
	return nil
}
