// Package cli is the timemark command line.
package cli

import (
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"github.com/MrSnakeDoc/timemark/internal/version"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve  *ServeCommand
	MCP    *MCPCommand
	Status *StatusCommand
	Watch  *WatchCommand
	Save   *SaveCommand
	List   *ListCommand
	Delete *DeleteCommand
	Open   *OpenCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(e *env) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(&e.globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "timemark"
	parser.LongDescription = "Bookmark moments in the YouTube videos and Spotify tracks playing in your browser."

	cmds := &commands{
		Serve:  &ServeCommand{env: e},
		MCP:    &MCPCommand{env: e},
		Status: &StatusCommand{env: e},
		Watch:  &WatchCommand{env: e},
		Save:   &SaveCommand{env: e},
		List:   &ListCommand{env: e},
		Delete: &DeleteCommand{env: e},
		Open:   &OpenCommand{env: e},
	}

	parser.AddCommand("serve", "Run the local API", "Attach to the browser, keep probes running and serve the message and REST API.", cmds.Serve)
	parser.AddCommand("mcp", "Serve MCP tools on stdio", "Expose get_current_media, save_bookmark, list_bookmarks, delete_bookmark and open_bookmark to an MCP client.", cmds.MCP)
	parser.AddCommand("status", "Show what is playing", "Show the connection status and the media playing in the active tab.", cmds.Status)
	parser.AddCommand("watch", "Interactive popup", "Follow the active tab and bookmark moments from the keyboard.", cmds.Watch)
	parser.AddCommand("save", "Bookmark the current moment", "Bookmark the current position of the active tab.", cmds.Save)
	parser.AddCommand("list", "List bookmarks", "List saved bookmarks, newest first.", cmds.List)
	parser.AddCommand("delete", "Delete a bookmark", "Delete a bookmark by id. Unknown ids are ignored.", cmds.Delete)
	parser.AddCommand("open", "Replay a bookmark", "Open a bookmark in a new browser tab at its saved position.", cmds.Open)

	return parser, cmds
}

// Run is the main entry point using os.Args.
func Run() error {
	return RunWithArgs(os.Args[1:])
}

// RunWithArgs parses args and executes the matched subcommand.
func RunWithArgs(args []string) error {
	return execute(newEnv(os.Stdin, os.Stdout, os.Stderr), args)
}

func execute(e *env, args []string) error {
	// --version is valid without a subcommand.
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintf(e.out, "timemark %s\n", version.String())
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _ := buildParser(e)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			fmt.Fprintln(e.out, flagsErr.Message)
			return nil
		}
		return err
	}
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
