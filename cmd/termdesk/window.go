package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/wm"
)

func runOpen(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the window list as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk open [--json] <kind>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window. A minimized window of the same kind is restored instead.")
		fmt.Fprintln(os.Stderr, "Run 'termdesk kinds' for the list of kinds.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires exactly one <kind>")
		fs.Usage()
		return 2
	}
	kind, err := wm.ParseKind(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().Open(kind.String())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printWindowsJSON(out, data)
	}
	fmt.Fprintln(out, data.ID)
	return 0
}

func runWindowCommand(name string, args []string, out io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the window list as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: termdesk %s [--json] <id>\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		fmt.Fprintf(os.Stderr, "%s requires exactly one <id>\n", name)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	var call func(string) (*ipc.WindowsData, error)
	switch name {
	case "close":
		call = client.Close
	case "minimize":
		call = client.Minimize
	case "restore":
		call = client.Restore
	case "focus":
		call = client.Focus
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n", name)
		return 2
	}

	data, err := call(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printWindowsJSON(out, data)
	}
	printWindows(out, data)
	return 0
}

func runList(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List windows, visible ones bottom to top, then minimized ones.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printWindowsJSON(out, data)
	}
	printWindows(out, data)
	return 0
}

func printWindowsJSON(out io.Writer, data *ipc.WindowsData) int {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printWindows(out io.Writer, data *ipc.WindowsData) {
	if len(data.Windows) == 0 {
		fmt.Fprintln(out, "no windows")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tTITLE\tSTATE\tSTACK")
	for _, w := range data.Windows {
		state := "visible"
		switch {
		case w.Minimized:
			state = "minimized"
		case w.Active:
			state = "active"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", w.ID, w.Kind, w.Title, state, w.StackOrder)
	}
	tw.Flush()
}

func runStatus(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop or daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(out, "mode:           %s\n", status.Mode)
	fmt.Fprintf(out, "window_count:   %d\n", status.WindowCount)
	fmt.Fprintf(out, "visible_count:  %d\n", status.VisibleCount)
	fmt.Fprintf(out, "active_window:  %s\n", activeLabel(status))
	fmt.Fprintf(out, "uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func activeLabel(status *ipc.StatusData) string {
	if status.ActiveID == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", status.ActiveTitle, status.ActiveID)
}

func runKinds(args []string, out io.Writer) int {
	if isHelpArg(args) {
		fmt.Fprintln(out, "Usage: termdesk kinds")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "kinds takes no arguments")
		return 2
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tTITLE")
	for _, k := range wm.Kinds() {
		fmt.Fprintf(tw, "%s\t%s\n", k, k.Title())
	}
	tw.Flush()
	return 0
}
