package cli

import "github.com/runnerr0/grass/internal/storage"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DB      string `long:"db" description:"Override the SQLite database path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// SyncCommand pulls the athlete profile and activities from Strava.
type SyncCommand struct {
	Since string `long:"since" description:"Only fetch activities after this date (YYYY-MM-DD)"`
	Full  bool   `long:"full" description:"Ignore stored activities and fetch everything"`

	globals *GlobalFlags
	version string
}

// ImportCommand loads activity records from a JSON file.
type ImportCommand struct {
	File string `long:"file" short:"f" description:"JSON file with an array of activities (- for stdin)" default:"-"`

	globals *GlobalFlags
	version string
}

// YearsCommand lists years that have runs.
type YearsCommand struct {
	globals *GlobalFlags
	version string
}

// GridCommand draws the running calendar for a year.
type GridCommand struct {
	Year   string   `long:"year" short:"y" description:"Year to draw (default: first year with runs)"`
	Select []string `long:"select" short:"s" description:"Reveal the distance of a day, YYYY-MM-DD (repeatable)"`
	Theme  string   `long:"theme" description:"Override display theme (light | dark)"`

	globals *GlobalFlags
	version string
}

// StatsCommand reports this year's run days and achievement.
type StatsCommand struct {
	globals *GlobalFlags
	version string
}

// ShareCommand renders the summary image and shares or saves it.
type ShareCommand struct {
	Year   string `long:"year" short:"y" description:"Year to summarise (default: first year with runs)"`
	Target string `long:"target" description:"Override share target (none | webhook | open | clipboard)"`
	Theme  string `long:"theme" description:"Override image theme (light | dark)"`
	Out    string `long:"out" description:"Override download directory"`

	globals *GlobalFlags
	version string
}

// ServeCommand runs the local HTTP service.
type ServeCommand struct {
	Host string `long:"host" description:"Override listen host"`
	Port int    `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows database stats and a config summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand deletes ALL local data after a safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	store   *storage.SQLiteStore // injectable for testing; nil means open from config
}
