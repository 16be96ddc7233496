package cli

import "time"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Server   string        `long:"server" env:"TIMEMARK_SERVER" description:"Talk to a running timemark server (host:port) instead of wiring the store and browser in-process"`
	Timeout  time.Duration `long:"timeout" description:"Per-request timeout when using --server" default:"10s"`
	JSON     bool          `long:"json" description:"Output in JSON format"`
	LogLevel string        `long:"log-level" description:"Override TIMEMARK_LOG_LEVEL (debug, info, warn, error)"`
	Version  bool          `long:"version" description:"Show version and exit"`
}

// ServeCommand runs the HTTP API with live probes.
type ServeCommand struct {
	Listen string `long:"listen" description:"Override TIMEMARK_LISTEN_PORT"`

	env *env
}

// MCPCommand serves the bookmark tools over stdio.
type MCPCommand struct {
	env *env
}

// StatusCommand shows what the active tab is playing.
type StatusCommand struct {
	env *env
}

// WatchCommand is the interactive popup.
type WatchCommand struct {
	Poll  time.Duration `long:"poll" description:"Polling interval (default TIMEMARK_POLL_INTERVAL)"`
	Limit int           `long:"limit" description:"Recent bookmarks to show" default:"5"`
	Plain bool          `long:"plain" description:"Do not clear the screen between renders"`

	env *env
}

// SaveCommand bookmarks the current moment.
type SaveCommand struct {
	Note string `long:"note" short:"n" description:"Annotation stored with the bookmark"`
	Tab  string `long:"tab" description:"Browser tab id (default: active tab)"`

	env *env
}

// ListCommand prints saved bookmarks, newest first.
type ListCommand struct {
	Limit int `long:"limit" description:"Maximum bookmarks to print (0 for all)" default:"5"`

	env *env
}

// DeleteCommand removes one bookmark.
type DeleteCommand struct {
	ID string `long:"id" description:"Bookmark id (required)"`

	env *env
}

// OpenCommand replays a bookmark in a new browser tab.
type OpenCommand struct {
	ID string `long:"id" description:"Bookmark id (required)"`

	env *env
}
