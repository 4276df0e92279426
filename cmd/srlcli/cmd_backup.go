package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srlinux-automation/srlcli/pkg/backup"
	"github.com/srlinux-automation/srlcli/pkg/runner"
)

var (
	backupDir      string
	backupFilename string
	backupFormat   string
	backupNoStamp  bool
	backupDryRun   bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the running configuration to a file",
	Long: `Snapshot the running configuration to a local file.

The "set" format writes flat set statements that can be replayed through
"config apply"; "json" writes the device's JSON rendering. Files are named
<hostname>_<timestamp> unless --filename is given.

Examples:
  srlcli -d leaf1 backup --dir ./backups
  srlcli -d leaf1 backup --dir ./backups --format json --no-timestamp
  srlcli -d leaf1 backup --dir ./backups --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := resolveEndpoint()
		if err != nil {
			return err
		}

		res := runner.Execute(context.Background(), runner.Input{
			Endpoint: ep,
			Op:       runner.OpBackupConfig,
			Backup: backup.Options{
				Dir:           backupDir,
				Filename:      backupFilename,
				Format:        backup.Format(backupFormat),
				OmitTimestamp: backupNoStamp,
				DryRun:        backupDryRun,
			},
		})
		return printResult(res, func() {
			if res.Backup == nil {
				return
			}
			if backupDryRun {
				fmt.Printf("%s: would write %s\n", res.Backup.Hostname, res.Backup.Path)
				return
			}
			fmt.Printf("%s: wrote %s (%d bytes, %d lines)\n",
				res.Backup.Hostname, res.Backup.Path, res.Backup.Size, res.Backup.Lines)
		})
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupDir, "dir", "backups", "Target directory")
	backupCmd.Flags().StringVar(&backupFilename, "filename", "", "Override the generated filename")
	backupCmd.Flags().StringVar(&backupFormat, "format", "set", "Snapshot format: set or json")
	backupCmd.Flags().BoolVar(&backupNoStamp, "no-timestamp", false, "Name the file <hostname>.<ext>")
	backupCmd.Flags().BoolVar(&backupDryRun, "dry-run", false, "Resolve the target path without writing")
}
