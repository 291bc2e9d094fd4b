package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/eventlog"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/todostore"
	"github.com/1broseidon/termdesk/internal/wm"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(runDesktop(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:], os.Stdout))
	case "close", "minimize", "restore", "focus":
		os.Exit(runWindowCommand(os.Args[1], os.Args[2:], os.Stdout))
	case "list":
		os.Exit(runList(os.Args[2:], os.Stdout))
	case "status":
		os.Exit(runStatus(os.Args[2:], os.Stdout))
	case "kinds":
		os.Exit(runKinds(os.Args[2:], os.Stdout))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termdesk [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop (default)")
	fmt.Fprintln(w, "  daemon              Run a headless window manager (IPC only)")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <kind>         Open or restore an application window")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  minimize <id>       Minimize a window")
	fmt.Fprintln(w, "  restore <id>        Restore a minimized window")
	fmt.Fprintln(w, "  focus <id>          Bring a window to the front")
	fmt.Fprintln(w, "  list                List windows")
	fmt.Fprintln(w, "  kinds               List application kinds")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'termdesk <command> --help' for command-specific options.")
}

func isHelpArg(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// configPath returns the explicit --path value or the default location.
func configPath(path string) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	return config.DefaultConfigPath()
}

// openDebugLog routes slog output to a file while the desktop owns the terminal.
func openDebugLog(cfg *config.Config) (*slog.Logger, *os.File, error) {
	path := cfg.DebugLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log %s: %w", path, err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	return logger, f, nil
}

func slogLevel(level string) slog.Level {
	switch eventlog.ParseLogLevel(level) {
	case eventlog.LevelDebug:
		return slog.LevelDebug
	case eventlog.LevelWarn:
		return slog.LevelWarn
	case eventlog.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openStore(cfg *config.Config, logger *slog.Logger) todostore.Store {
	if !cfg.Todo.Persist {
		return todostore.Memory()
	}
	store, err := todostore.Open(cfg.TodoStoreDir(), logger)
	if err != nil {
		logger.Warn("task store unavailable, keeping tasks in memory", "err", err)
		return todostore.Memory()
	}
	return store
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	noIPC := fs.Bool("no-ipc", false, "Do not listen on the IPC socket")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk run [--path PATH] [--no-ipc]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop in the current terminal.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "termdesk run needs an interactive terminal")
		return 1
	}

	cfgPath, err := configPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	logger, logFile, err := openDebugLog(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logFile.Close()
	// The ipc server logs through the standard logger.
	log.SetOutput(logFile)

	events, err := eventlog.NewLogger(eventlog.FromConfig(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer events.Close()

	mgr := wm.New(wm.WithBaseStackOrder(cfg.Window.StackBase), wm.WithLogger(logger))
	mgr.Subscribe(events.Observer())

	model := desktop.New(desktop.Options{
		Config:  cfg,
		Manager: mgr,
		Store:   openStore(cfg, logger),
		Logger:  logger,
		Reload: func() (*config.Config, error) {
			res, err := config.LoadFromPath(cfgPath)
			if err != nil {
				return nil, err
			}
			return res.Config, nil
		},
	})
	defer model.Close()

	p := desktop.NewProgram(model)

	if !*noIPC {
		bridge := desktop.NewBridge()
		bridge.Attach(p.Send)
		defer bridge.Attach(nil)

		server, err := ipc.NewServer(bridge)
		if err == nil {
			err = server.Start()
		}
		if err != nil {
			logger.Warn("ipc disabled", "err", err)
		} else {
			defer server.Stop()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := config.Watch(ctx, cfgPath, func(res *config.LoadResult, err error) {
		if err != nil {
			p.Send(desktop.ConfigReloadedMsg{Err: err})
			return
		}
		p.Send(desktop.ConfigReloadedMsg{Config: res.Config})
	}); err != nil {
		logger.Warn("config watch disabled", "err", err)
	}

	logger.Info("desktop started", "config", cfgPath)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Info("desktop stopped")
	return 0
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the window manager without a screen. Windows are driven over IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfgPath, err := configPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	log.Printf("Configuration loaded (theme: %s, stack base: %d)", cfg.Theme, cfg.Window.StackBase)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	events, err := eventlog.NewLogger(eventlog.FromConfig(cfg))
	if err != nil {
		log.Printf("Failed to open action log: %v", err)
		return 1
	}
	defer events.Close()

	mgr := wm.New(wm.WithBaseStackOrder(cfg.Window.StackBase), wm.WithLogger(logger))
	mgr.Subscribe(events.Observer())

	handler := ipc.NewSerialHandler(mgr, func() error {
		res, err := config.LoadFromPath(cfgPath)
		if err != nil {
			return err
		}
		log.Printf("Configuration reloaded (theme: %s)", res.Config.Theme)
		return nil
	})
	defer handler.Close()

	server, err := ipc.NewServer(handler)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := server.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer server.Stop()

	log.Println("termdesk daemon started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %s, shutting down", sig)
	return 0
}
