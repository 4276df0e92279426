package main

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlinux-automation/srlcli/pkg/audit"
	"github.com/srlinux-automation/srlcli/pkg/cli"
	"github.com/srlinux-automation/srlcli/pkg/config"
	"github.com/srlinux-automation/srlcli/pkg/runner"
	"github.com/srlinux-automation/srlcli/pkg/session"
)

var (
	configFile    string
	checkMode     bool
	comparePath   string
	compareFormat string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Transactional configuration",
}

var configApplyCmd = &cobra.Command{
	Use:   "apply [statement]...",
	Short: "Apply a change set as one candidate transaction",
	Long: `Apply set/delete statements as a single candidate transaction.

Statements already reflected in the running datastore are skipped; when
nothing remains the device is not touched at all. A rejected statement or
failed commit discards the whole candidate.

Examples:
  srlcli -d leaf1 config apply "set / interface ethernet-1/1 admin-state enable"
  srlcli -d leaf1 config apply -f change.cfg
  srlcli -d leaf1 config apply -f change.cfg --check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statements, err := gatherStatements(args)
		if err != nil {
			return err
		}
		ep, err := resolveEndpoint()
		if err != nil {
			return err
		}

		start := time.Now()
		res := runner.Execute(context.Background(), runner.Input{
			Endpoint:   ep,
			Op:         runner.OpApplyChangeSet,
			Statements: statements,
			CheckOnly:  checkMode,
		})
		logApplyEvent(res, "config.apply", statements, checkMode, start)

		return printResult(res, func() {
			switch {
			case checkMode && len(res.Pending) > 0:
				fmt.Printf("%s: %s, %d statement(s) would be applied:\n",
					res.Device, cli.Yellow("drift"), len(res.Pending))
				for _, line := range res.Pending {
					fmt.Println("  " + line)
				}
			case checkMode:
				fmt.Printf("%s: %s\n", res.Device, cli.Green("already compliant"))
			case res.Status == runner.StatusChanged:
				fmt.Printf("%s: %s %d statement(s)\n",
					res.Device, cli.Green("committed"), len(res.Pending))
				if res.Diff != "" {
					fmt.Println(res.Diff)
				}
			case res.Status == runner.StatusOK:
				fmt.Printf("%s: no change needed\n", res.Device)
			}
		})
	},
}

var configCompareCmd = &cobra.Command{
	Use:   "compare -f <intended.cfg>",
	Short: "Compare intended configuration against the device",
	Long: `Compare intended flat configuration against the running datastore.

Reports statements missing from the device and statements present on the
device (under --path) but absent from the intent. Read-only.

Examples:
  srlcli -d leaf1 config compare -f golden.cfg
  srlcli -d leaf1 config compare -f uplinks.cfg --path "/ interface ethernet-1/1" --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			return fmt.Errorf("intended configuration required: use -f <file>")
		}
		intended, err := readLines(configFile)
		if err != nil {
			return err
		}
		ep, err := resolveEndpoint()
		if err != nil {
			return err
		}

		sess, err := session.Open(ep)
		if err != nil {
			return err
		}
		defer sess.Close()

		res, err := config.Compare(context.Background(), sess, intended, comparePath)
		if err != nil {
			return err
		}

		format := config.CompareFormat(compareFormat)
		if jsonOutput {
			format = config.FormatJSON
		}
		out, err := res.Render(format)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Print(out)
		}
		if !res.InSync {
			return fmt.Errorf("%s: configuration drift under %s", sess.Device(), res.Path)
		}
		fmt.Printf("%s: in sync\n", sess.Device())
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [statement]...",
	Short: "Validate a change set without a device",
	Long: `Check a change set locally: statement syntax, conflicting set/delete
pairs, and interface references. No connection is made.

Examples:
  srlcli config validate -f change.cfg
  srlcli config validate "set / interface ethernet-1/1 mtu 9100"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statements, err := gatherStatements(args)
		if err != nil {
			return err
		}

		report := config.Validate(statements, config.DefaultValidateOptions())
		for _, issue := range report.Issues {
			fmt.Printf("%s: line %d [%s]: %s\n", issue.Severity, issue.Line, issue.Rule, issue.Message)
		}
		if !report.Valid {
			return fmt.Errorf("%d error(s) in %d statement(s)", len(report.Errors()), report.Total)
		}
		fmt.Printf("%d statement(s) valid", report.Total)
		if n := len(report.Warnings()); n > 0 {
			fmt.Printf(", %d warning(s)", n)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{configApplyCmd, configCompareCmd, configValidateCmd} {
		cmd.Flags().StringVarP(&configFile, "file", "f", "", "Read statements from a file")
		configCmd.AddCommand(cmd)
	}
	configApplyCmd.Flags().BoolVar(&checkMode, "check", false, "Report pending statements without applying")
	configCompareCmd.Flags().StringVar(&comparePath, "path", "/", "Subtree to compare")
	configCompareCmd.Flags().StringVar(&compareFormat, "format", "diff", "Report format: diff, json, or yaml")
}

// logApplyEvent records a configuration transaction in the audit log.
func logApplyEvent(res *runner.Result, operation string, statements []string, check bool, start time.Time) {
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	event := audit.NewEvent(username, res.Device, operation).
		WithStatements(statements).
		WithStatus(string(res.Status)).
		WithCheckRun(check).
		WithDuration(time.Since(start))
	if res.Failed() {
		event.Error = res.Diagnostic
	}
	if err := audit.Log(event); err != nil {
		fmt.Fprintf(os.Stderr, "audit log write failed: %v\n", err)
	}
}

// gatherStatements merges -f file contents with positional statements,
// file first.
func gatherStatements(args []string) ([]string, error) {
	var statements []string
	if configFile != "" {
		lines, err := readLines(configFile)
		if err != nil {
			return nil, err
		}
		statements = append(statements, lines...)
	}
	statements = append(statements, args...)
	if len(statements) == 0 {
		return nil, fmt.Errorf("no statements: pass them as arguments or use -f <file>")
	}
	return statements, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}
