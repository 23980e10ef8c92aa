// Command tiershare manages a tiered revenue-share roster: contributors,
// payout calculations, payout history and exports.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitfsorg/tiershare/config"
	"github.com/bitfsorg/tiershare/ledger"
	"github.com/bitfsorg/tiershare/logging"
	"github.com/bitfsorg/tiershare/roster"
)

const usageText = `Usage: tiershare [-data-dir DIR] [-config FILE] <command> [flags]

Commands:
  init                         write a default configuration
  project [-name] [-description]
                               show or update the project header
  member add|edit|remove|list  manage contributors
  calc -revenue N              preview a payout
  commit -revenue N [-date] [-notes]
                               calculate and record a payout
  history                      list committed payouts
  payout-remove -id ID         delete a committed payout
  stats                        payout history overview
  export csv|credits|report [-o FILE]
                               export the timeline, credits or full report
  import -file FILE            replace the project with a document
  save -file FILE              write the project document
  check-payment -id ID [-dnssec] [-upstream ADDR]
                               validate a contributor's payment details
`

// errUsage reports a command line that could not be parsed.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// globals are the flags accepted before the command name.
type globals struct {
	dataDir    string
	configPath string
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tiershare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }

	var g globals
	fs.StringVar(&g.dataDir, "data-dir", "", "Data directory (default ~/.tiershare)")
	fs.StringVar(&g.configPath, "config", "", "Configuration file (default <data-dir>/config.toml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "init":
		err = runInit(g, rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
	default:
		handler, ok := commands[cmd]
		if !ok {
			fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
			fs.Usage()
			return 2
		}
		err = withApp(g, stderr, func(a *app) error { return handler(a, rest, stdout) })
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

// commands maps command names to handlers that need an open ledger.
var commands = map[string]func(a *app, args []string, out io.Writer) error{
	"project":       cmdProject,
	"member":        cmdMember,
	"calc":          cmdCalc,
	"commit":        cmdCommit,
	"history":       cmdHistory,
	"payout-remove": cmdPayoutRemove,
	"stats":         cmdStats,
	"export":        cmdExport,
	"import":        cmdImport,
	"save":          cmdSave,
	"check-payment": cmdCheckPayment,
}

// app is an open ledger plus the configuration it was built from.
type app struct {
	cfg    config.Config
	ledger *ledger.Ledger
}

// resolveConfig loads the configuration selected by the global flags.
func resolveConfig(g globals) (config.Config, string, error) {
	dataDir := g.dataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	path := g.configPath
	if path == "" {
		path = config.ConfigPath(dataDir)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	return cfg, path, nil
}

func withApp(g globals, stderr io.Writer, fn func(a *app) error) error {
	cfg, _, err := resolveConfig(g)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	l, err := ledger.New(store, cfg.Policy(), logger)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() { _ = l.Close() }()

	if cfg.Backend == config.BackendMemory {
		logger.Warn("memory backend: changes are discarded on exit")
	}
	return fn(&app{cfg: cfg, ledger: l})
}

func openStore(cfg config.Config) (roster.Store, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		return roster.OpenBoltStore(cfg.StorePath())
	case config.BackendFile:
		return roster.OpenFileStore(cfg.StorePath())
	case config.BackendMemory:
		return roster.NewMemStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}
}

func runInit(g globals, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	backend := fs.String("backend", config.BackendFile, "Storage backend: file, bolt or memory")
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	cfg := config.DefaultConfig()
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	cfg.Backend = strings.ToLower(*backend)
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	path := g.configPath
	if path == "" {
		path = config.ConfigPath(cfg.DataDir)
	}
	if !*force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration %s already exists (use -force to overwrite)", path)
		}
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (backend %s)\n", path, cfg.Backend)
	return nil
}
