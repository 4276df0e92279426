package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srlinux-automation/srlcli/pkg/runner"
)

var execCmd = &cobra.Command{
	Use:   "exec <command>...",
	Short: "Run operational commands",
	Long: `Run one or more operational commands and print their output.

Commands run in order; a device error fails the batch but the remaining
commands still run and their output is shown.

Examples:
  srlcli -d leaf1 exec "show version"
  srlcli -d leaf1 exec "show version" "show interface brief"
  srlcli --host 172.20.20.101 exec "show network-instance default route-table" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := resolveEndpoint()
		if err != nil {
			return err
		}

		res := runner.Execute(context.Background(), runner.Input{
			Endpoint: ep,
			Op:       runner.OpExecuteCommands,
			Commands: args,
		})
		return printResult(res, func() {
			for _, r := range res.Results {
				fmt.Printf("--- %s ---\n", r.Command)
				if r.Output != "" {
					fmt.Println(r.Output)
				}
			}
		})
	},
}

// printResult renders a runner result: JSON when --json is set, the
// supplied plain renderer otherwise. A failed result becomes the command's
// error after any partial output is shown.
func printResult(res *runner.Result, plain func()) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else if plain != nil {
		plain()
	}

	if res.Failed() {
		return fmt.Errorf("%s: %s", res.ErrorKind, res.Diagnostic)
	}
	return nil
}
