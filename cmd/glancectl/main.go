// main.go - Admin control tool for glance
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"glance/internal/config"
	"glance/internal/database"
	"glance/internal/events"
	"glance/internal/logging"
	"glance/internal/seeder"
)

// Command defines the interface for all command implementations
type Command interface {
	// Name returns the command name
	Name() string
	// Description returns the command description
	Description() string
	// Execute runs the command with the given store and args
	Execute(ctx context.Context, env *commandEnv, args []string) error
}

// commandEnv bundles the initialized dependencies commands run against.
type commandEnv struct {
	cfg       *config.Config
	logger    *slog.Logger
	dbManager *database.Manager
	store     *events.Store
}

// The set of available commands
var commands = []Command{
	&MigrateCommand{},
	&SeedCommand{},
	&ResetCommand{},
	&StatusCommand{},
	&HelpCommand{},
}

func main() {
	flag.Parse()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v, initiating cleanup...", sig)
		cancel()
	}()

	cmdName, args := parseArgs()
	cmd := findCommand(cmdName)
	if cmd == nil {
		showUsageAndExit()
	}

	cfg := config.GetConfig()
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	dbManager := database.NewManager(cfg, logger)
	if err := dbManager.Connect(); err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer dbManager.Close()

	env := &commandEnv{
		cfg:       cfg,
		logger:    logger,
		dbManager: dbManager,
		store:     events.NewStore(dbManager.GetConnection(), logger, cfg.RetentionCap),
	}

	if err := cmd.Execute(ctx, env, args); err != nil {
		log.Fatalf("Command %s failed: %v", cmd.Name(), err)
	}
}

func parseArgs() (string, []string) {
	args := flag.Args()
	if len(args) == 0 {
		return "help", nil
	}
	return args[0], args[1:]
}

func findCommand(name string) Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func showUsageAndExit() {
	fmt.Println("Usage: glancectl <command> [args]")
	fmt.Println("Commands:")
	for _, cmd := range commands {
		fmt.Printf("  %-10s %s\n", cmd.Name(), cmd.Description())
	}
	os.Exit(1)
}

// MigrateCommand runs database migrations.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string        { return "migrate" }
func (c *MigrateCommand) Description() string { return "Run database migrations" }

func (c *MigrateCommand) Execute(_ context.Context, env *commandEnv, _ []string) error {
	return env.dbManager.Migrate()
}

// SeedCommand fills the store with demo traffic.
type SeedCommand struct{}

func (c *SeedCommand) Name() string        { return "seed" }
func (c *SeedCommand) Description() string { return "Generate demo traffic (optional arg: event count)" }

func (c *SeedCommand) Execute(ctx context.Context, env *commandEnv, args []string) error {
	if err := env.dbManager.Migrate(); err != nil {
		return err
	}

	eventCount := 1000
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event count %q: %w", args[0], err)
		}
		eventCount = parsed
	}

	return seeder.NewSeeder(env.store, env.logger, eventCount).Seed(ctx)
}

// ResetCommand clears the event store after interactive confirmation.
type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Delete all recorded analytics data" }

func (c *ResetCommand) Execute(_ context.Context, env *commandEnv, _ []string) error {
	count, err := env.store.Count()
	if err != nil {
		return err
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Printf("This will permanently delete %d recorded events. Type 'yes' to continue: ", count)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := env.store.Clear(); err != nil {
		return err
	}
	fmt.Printf("Deleted %d events\n", count)
	return nil
}

// StatusCommand prints store information.
type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Show event store status" }

func (c *StatusCommand) Execute(_ context.Context, env *commandEnv, _ []string) error {
	count, err := env.store.Count()
	if err != nil {
		return err
	}

	fmt.Printf("Database:      %s\n", env.cfg.DatabaseName)
	fmt.Printf("Events:        %d\n", count)
	fmt.Printf("Retention cap: %d\n", env.store.RetentionCap())
	return nil
}

// HelpCommand prints usage.
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Show this help" }

func (c *HelpCommand) Execute(_ context.Context, _ *commandEnv, _ []string) error {
	showUsageAndExit()
	return nil
}
