// Srlcli - Nokia SR Linux Automation Tool
//
// A CLI for driving SR Linux switches over their interactive shell:
//   - Transactional configuration (candidate -> commit, rollback on failure)
//   - Idempotent change sets (no-op when the device already complies)
//   - Fact gathering, drift comparison, and config backup
//
// Device selection:
//
//	srlcli -d <device> ...             # look the device up in the inventory
//	srlcli --host <addr> ...           # or address it directly
//
// The password comes from the inventory, the SRLCLI_PASSWORD environment
// variable, or an interactive prompt, in that order.
package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srlinux-automation/srlcli/pkg/audit"
	"github.com/srlinux-automation/srlcli/pkg/inventory"
	"github.com/srlinux-automation/srlcli/pkg/settings"
	"github.com/srlinux-automation/srlcli/pkg/transport"
	"github.com/srlinux-automation/srlcli/pkg/util"
	"github.com/srlinux-automation/srlcli/pkg/version"
)

var (
	// Device selection flags
	deviceName    string // -d, --device
	inventoryPath string
	flagHost      string
	flagPort      int
	flagUsername  string
	flagPassword  string
	flagTimeout   int

	// Output flags
	verbose    bool
	jsonOutput bool

	userSettings *settings.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "srlcli",
	Short:             "Nokia SR Linux Automation Tool",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Srlcli drives Nokia SR Linux switches over their interactive shell.

Configuration changes run as candidate transactions: statements already
reflected in the running datastore are skipped, rejected change sets are
discarded, and the device is never left in candidate mode.

  srlcli -d leaf1 exec "show version"
  srlcli -d leaf1 config apply -f change.cfg
  srlcli -d leaf1 facts --json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Apply defaults from settings where flags were not given
		if inventoryPath == "" {
			inventoryPath = userSettings.GetInventory()
		}
		if cacheAddr == "" {
			cacheAddr = userSettings.CacheAddr
		}

		auditLogger, err := audit.NewFileLogger(userSettings.GetAuditLog(), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the srlcli version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("srlcli", version.Info())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&deviceName, "device", "d", "", "Device name from the inventory")
	pf.StringVar(&inventoryPath, "inventory", os.Getenv("SRLCLI_INVENTORY"), "Inventory file path")
	pf.StringVar(&flagHost, "host", "", "Device address (bypasses the inventory)")
	pf.IntVar(&flagPort, "port", 0, "SSH port (default 22)")
	pf.StringVarP(&flagUsername, "username", "u", "", "SSH username (default admin)")
	pf.StringVar(&flagPassword, "password", "", "SSH password (prompted when absent)")
	pf.IntVar(&flagTimeout, "timeout", 0, "Per-read timeout in seconds (default 30)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	for _, cmd := range []*cobra.Command{execCmd, configCmd, resourceCmd, factsCmd, backupCmd} {
		cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(versionCmd)
}

// resolveEndpoint turns the device-selection flags into a connection
// endpoint: inventory lookup for -d, explicit flags for --host, with flag
// overrides applied on top of inventory values either way.
func resolveEndpoint() (transport.Endpoint, error) {
	var ep transport.Endpoint

	switch {
	case deviceName != "" && flagHost != "":
		return ep, fmt.Errorf("use either -d or --host, not both")
	case deviceName != "":
		inv, err := inventory.Load(inventoryPath)
		if err != nil {
			return ep, err
		}
		ep, err = inv.Endpoint(deviceName)
		if err != nil {
			return ep, err
		}
	case flagHost != "":
		ep = transport.Endpoint{
			Host:     flagHost,
			Port:     transport.DefaultPort,
			Username: "admin",
			Timeout:  transport.DefaultTimeout,
		}
	default:
		return ep, fmt.Errorf("no device selected: use -d <device> or --host <addr>")
	}

	if flagPort != 0 {
		ep.Port = flagPort
	}
	if flagUsername != "" {
		ep.Username = flagUsername
	}
	if flagPassword != "" {
		ep.Password = flagPassword
	}
	if flagTimeout != 0 {
		ep.Timeout = time.Duration(flagTimeout) * time.Second
	}

	if ep.Password == "" {
		ep.Password = os.Getenv("SRLCLI_PASSWORD")
	}
	if ep.Password == "" {
		pw, err := promptPassword(ep)
		if err != nil {
			return ep, err
		}
		ep.Password = pw
	}
	return ep, nil
}

func promptPassword(ep transport.Endpoint) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no password: set --password or SRLCLI_PASSWORD")
	}
	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", ep.Username, ep.Host)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
