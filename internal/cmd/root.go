package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/renato0307/outpost/internal/config"
	"github.com/renato0307/outpost/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	APIURL    string        `help:"Game server URL (overrides OUTPOST_API_URL)" name:"api-url"`
	RedisAddr string        `help:"Redis address for the redis store (overrides OUTPOST_REDIS_ADDR)"`
	Store     string        `help:"Durable store driver: sqlite, redis or memory (overrides OUTPOST_STORE_DRIVER)"`
	Wait      time.Duration `help:"How long to wait for the server to settle an action" default:"10s"`

	Status     StatusCmd     `cmd:"status" help:"Show session, player state and pending work (default)" default:"1"`
	Login      LoginCmd      `cmd:"login" help:"Sign in and replay queued actions"`
	Offline    OfflineCmd    `cmd:"offline" help:"Keep playing without a server connection"`
	Logout     LogoutCmd     `cmd:"logout" help:"Forget the credential"`
	Buy        BuyCmd        `cmd:"buy" help:"Buy items from the market"`
	Sell       SellCmd       `cmd:"sell" help:"Sell items to the market"`
	Characters CharactersCmd `cmd:"characters" help:"Manage characters (create, rename, delete)"`
	Queue      QueueCmd      `cmd:"queue" help:"List requests waiting to be sent"`
	Ledger     LedgerCmd     `cmd:"ledger" help:"List transactions and their outcome"`
	Sync       SyncCmd       `cmd:"sync" help:"Replay the queue now"`
	Watch      WatchCmd      `cmd:"watch" help:"Live view of the session and the queue"`
	Settings   SettingsCmd   `cmd:"settings" help:"Manage settings (meta)"`
	Versions   VersionCmd    `cmd:"version" help:"Show version information"`

	// Internal fields (not flags)
	runtime  config.Runtime   `kong:"-"`
	settings *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and resolves the runtime
// configuration
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set
	if c.settings != nil {
		if c.MaxLogFiles == config.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("OUTPOST_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("OUTPOST_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// The gorm logger adapter reads OUTPOST_DEBUG, so export it once decided
	if c.Debug || c.DebugFile != "" {
		os.Setenv("OUTPOST_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("OUTPOST_DEBUG_FILE", logFilePath)
		}
	}

	env, err := config.ParseEnv()
	if err != nil {
		return err
	}
	rt, err := config.Resolve(c.settings, env, config.Overrides{
		APIURL:      c.APIURL,
		RedisAddr:   c.RedisAddr,
		StoreDriver: c.Store,
	})
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.runtime = rt

	logging.Logger.Debug("Configuration resolved",
		"api_url", rt.APIURL,
		"store_driver", rt.Store.Driver,
		"starting_balance", rt.StartingBalance)
	return nil
}

// open builds the container from the resolved configuration
func (c *CLI) open() (*Container, error) {
	container, err := NewContainer(c.runtime, c.Wait)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return container, nil
}
