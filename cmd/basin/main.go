// ABOUTME: CLI entrypoint for the basin network analyzer with analyze, validate, export, tui, and server modes.
// ABOUTME: Wires together the boolnet core, YAML documents, exports, HTTP server, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/statemap-research/basin/boolnet"
	"github.com/statemap-research/basin/export"
	"github.com/statemap-research/basin/netdef"
	"github.com/statemap-research/basin/store"
	"github.com/statemap-research/basin/tui"
	"github.com/statemap-research/basin/web"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and positional
// arguments.
type config struct {
	serverMode   bool
	port         int
	dataDir      string
	validateOnly bool
	exportFormat string
	stateCap     uint64
	stepCap      uint64
	tuiMode      bool
	start        uint64
	verbose      bool
	showVersion  bool
	networkFile  string
}

func main() {
	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("basin %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("basin", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start HTTP server mode")
	fs.IntVar(&cfg.port, "port", 8323, "Server port (default: 8323)")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Directory for the network database (default: $XDG_DATA_HOME/basin)")
	fs.BoolVar(&cfg.validateOnly, "validate", false, "Validate the network without analyzing")
	fs.StringVar(&cfg.exportFormat, "export", "", "Write an export to stdout: dot, stategraph, or yaml")
	fs.Uint64Var(&cfg.stateCap, "state-cap", 0, "Maximum start states to sweep (0 = default)")
	fs.Uint64Var(&cfg.stepCap, "step-cap", 0, "Maximum steps per trajectory (0 = default)")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Run the interactive terminal simulator")
	fs.Uint64Var(&cfg.start, "start", 0, "Initial state for the simulator")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.networkFile = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.serverMode {
		return runServer(cfg)
	}

	if cfg.networkFile == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	if cfg.validateOnly {
		return validateNetwork(cfg)
	}

	if cfg.exportFormat != "" {
		return exportNetwork(cfg)
	}

	if cfg.tuiMode {
		return runTUI(cfg)
	}

	return analyzeNetwork(cfg)
}

// loadNetworkFile reads and compiles a YAML network document.
func loadNetworkFile(path string) (*netdef.Document, *boolnet.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	doc, err := netdef.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	net, err := doc.Compile()
	if err != nil {
		return nil, nil, err
	}

	return doc, net, nil
}

// networkName returns a display name for the loaded document, falling
// back to the file name.
func networkName(doc *netdef.Document, path string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return filepath.Base(path)
}

// analyzeNetwork runs the full attractor analysis and prints the report.
func analyzeNetwork(cfg config) int {
	doc, net, err := loadNetworkFile(cfg.networkFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.verbose {
		fmt.Fprintf(os.Stderr, "[analyze] %s: %d nodes, %d states\n",
			networkName(doc, cfg.networkFile), net.Size(), net.TotalStates())
	}

	// Set up context with signal handling for graceful cancellation.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	started := time.Now()
	result, err := boolnet.Analyze(ctx, net, boolnet.Options{
		StateCap: cfg.stateCap,
		StepCap:  cfg.stepCap,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.verbose {
		fmt.Fprintf(os.Stderr, "[analyze] %d attractors in %s\n",
			len(result.Attractors), time.Since(started).Round(time.Millisecond))
	}

	fmt.Print(export.ReportText(result))
	return 0
}

// validateNetwork compiles a document without analyzing it.
func validateNetwork(cfg config) int {
	_, net, err := loadNetworkFile(cfg.networkFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.verbose {
		for _, rule := range net.RuleStrings() {
			fmt.Fprintf(os.Stderr, "[rule] %s\n", rule)
		}
	}

	fmt.Printf("Network is valid: %d nodes, %d states.\n", net.Size(), net.TotalStates())
	return 0
}

// exportNetwork writes the requested export format to stdout.
func exportNetwork(cfg config) int {
	doc, net, err := loadNetworkFile(cfg.networkFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	switch cfg.exportFormat {
	case "dot", "wiring":
		fmt.Print(export.WiringDOT(net))

	case "stategraph":
		result, err := boolnet.Analyze(context.Background(), net, boolnet.Options{
			StateCap: cfg.stateCap,
			StepCap:  cfg.stepCap,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		graph, err := export.StateGraphDOT(net, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Print(graph)

	case "yaml":
		data, err := doc.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Print(string(data))

	default:
		fmt.Fprintf(os.Stderr, "error: unknown export format %q (want dot, stategraph, or yaml)\n", cfg.exportFormat)
		return 2
	}

	return 0
}

// runTUI starts the interactive simulator on the loaded network.
func runTUI(cfg config) int {
	doc, net, err := loadNetworkFile(cfg.networkFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.start >= net.TotalStates() {
		fmt.Fprintf(os.Stderr, "error: start state %d is out of range (network has %d states)\n",
			cfg.start, net.TotalStates())
		return 1
	}

	stepper := boolnet.NewStepper(net, boolnet.State(cfg.start))
	model := tui.NewAppModel(stepper, networkName(doc, cfg.networkFile))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// runServer starts the HTTP management API.
func runServer(cfg config) int {
	dataDir, err := resolveDataDir(cfg.dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	st, err := store.Open(filepath.Join(dataDir, "basin.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.Close()

	server := web.NewServer(st)
	stopCleanup := server.StartSessionCleanup(time.Minute)
	defer stopCleanup()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.port)

	// Set up context with signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server,
	}

	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	fmt.Fprintf(os.Stderr, "listening on %s\n", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// resolveDataDir returns the data directory to use, preferring an
// explicit override and falling back to the XDG-based default.
func resolveDataDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultDataDir()
}
