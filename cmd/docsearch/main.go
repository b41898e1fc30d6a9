// Package main is the docsearch CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/docsearch/internal/cli"
	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/docstore"
	"github.com/hyperjump/docsearch/internal/keyword"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/server"
	"github.com/hyperjump/docsearch/internal/session"
	"github.com/hyperjump/docsearch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/docsearch/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if it exists, and a missing default file yields the
// built-in defaults. Returns the config and the path that was loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "replay":
		runReplay()
	case "documents":
		runDocuments()
	case "version", "--version", "-v":
		fmt.Printf("docsearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store *docstore.Store
	Index *keyword.Index
}

// Close releases the index.
func (c *Components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var (
		store *docstore.Store
		err   error
	)
	if cfg.Corpus.Path != "" {
		store, err = docstore.Load(cfg.Corpus.Path)
	} else {
		store, err = docstore.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	opts := []keyword.IndexOption{
		keyword.WithLogger(logger),
		keyword.WithMaxResults(cfg.Search.MaxResults),
	}
	if cfg.Search.Wildcard {
		opts = append(opts, keyword.WithTokenTransform(keyword.WildcardToken))
	}
	return &Components{Store: store, Index: keyword.NewIndex(store, opts...)}, nil
}

// setup loads config, creates the logger and initializes components for a subcommand.
func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger, *Components) {
	cfg, resolvedConfigPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, logger, components
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (index build, queries, sessions)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := setup(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	sessions := session.NewManager(components.Index, cfg.Sessions.Max, logger,
		session.WithIdleTimeout(cfg.Sessions.IdleTimeout))
	srv := server.NewServer(components.Index, components.Store, sessions, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: docsearch search [flags] <query>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	start := time.Now()
	results, err := components.Index.Query(queryStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	response := &models.SearchResponse{
		Query:     queryStr,
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(start).Milliseconds(),
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runReplay() {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: docsearch replay [flags] <script|->\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	actions, err := readScript(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read script: %v\n", err)
		os.Exit(1)
	}

	_, logger, components := setup(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	if err := replay(os.Stdout, session.New(components.Index, logger), actions, format); err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}
}

func readScript(path string) ([]session.Action, error) {
	if path == "-" {
		return session.ParseScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return session.ParseScript(f)
}

// replay applies actions in order and writes a snapshot after each one.
func replay(w io.Writer, s *session.Session, actions []session.Action, format cli.OutputFormat) error {
	for _, a := range actions {
		if err := s.Apply(a); err != nil {
			return fmt.Errorf("%s: %w", a, err)
		}
		if err := cli.WriteSnapshot(w, a.String(), s.Snapshot(), format); err != nil {
			return err
		}
	}
	return nil
}

func runDocuments() {
	fs := flag.NewFlagSet("documents", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	words := fs.Int("words", 12, "number of content words to preview")
	_ = fs.Parse(os.Args[2:])

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	cli.WriteDocuments(os.Stdout, components.Store.Documents(), *words)
}

func printUsage() {
	fmt.Println(`docsearch - search-as-you-type for static documentation sites

Usage:
  docsearch server [flags]            Start the HTTP server
  docsearch search [flags] <query>    Search documents
  docsearch replay [flags] <script>   Replay a dropdown interaction script ("-" reads stdin)
  docsearch documents [flags]         List the searchable documents
  docsearch version                   Show version
  docsearch help                      Show this help

Flags:
  --config string    Config file path (default: /usr/local/etc/docsearch/config.yaml)
  --debug            Enable debug logging (server, replay)
  --output string    Output format: text or json (search, replay)

Replay script:
  click <selector>   click an element, e.g. click #search-bar
  key <key>          press a key: down, up, esc, enter or any DOM key value
  type <text>        type text into the focused element

Examples:
  docsearch server
  docsearch search installation
  printf 'click #search-bar\ntype Guide\nkey down\n' | docsearch replay -`)
}
