package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Sync   *SyncCommand
	Import *ImportCommand
	Years  *YearsCommand
	Grid   *GridCommand
	Stats  *StatsCommand
	Share  *ShareCommand
	Serve  *ServeCommand
	Status *StatusCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "grass"
	parser.LongDescription = "Turn your Strava runs into a field of grass: a yearly calendar you can print, serve and share."

	cmds := &commands{
		Sync:   &SyncCommand{globals: &globals, version: version},
		Import: &ImportCommand{globals: &globals, version: version},
		Years:  &YearsCommand{globals: &globals, version: version},
		Grid:   &GridCommand{globals: &globals, version: version},
		Stats:  &StatsCommand{globals: &globals, version: version},
		Share:  &ShareCommand{globals: &globals, version: version},
		Serve:  &ServeCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("sync", "Fetch activities from Strava", "Fetch the athlete profile and activities from Strava into the local database.", cmds.Sync)
	parser.AddCommand("import", "Import activities from JSON", "Import a JSON array of activity records into the local database.", cmds.Import)
	parser.AddCommand("years", "List years with runs", "List every year that has at least one run, oldest first.", cmds.Years)
	parser.AddCommand("grid", "Draw the running grass", "Draw the running calendar for a year in the terminal.", cmds.Grid)
	parser.AddCommand("stats", "Show this year's progress", "Show days elapsed, run days and achievement for the current year.", cmds.Stats)
	parser.AddCommand("share", "Share the summary image", "Render the summary image and share it, falling back to a download.", cmds.Share)
	parser.AddCommand("serve", "Start the local HTTP service", "Serve the grid, stats and share endpoints over local HTTP.", cmds.Serve)
	parser.AddCommand("status", "Show database statistics", "Show database statistics, profile, and configuration summary.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL local data", "Delete ALL local activities and profile data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the grass CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("grass %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
