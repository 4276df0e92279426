package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlinux-automation/srlcli/pkg/cli"
	"github.com/srlinux-automation/srlcli/pkg/factcache"
	"github.com/srlinux-automation/srlcli/pkg/runner"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

var (
	factSubsets  []string
	cacheAddr    string
	cacheTTL     time.Duration
	cacheRefresh bool
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Gather device facts",
	Long: `Gather device facts: system identity, the interface table, and
optionally the full running configuration.

Subsets: hardware, interfaces, config, all; prefix with ! to exclude.
The default (!config) gathers everything except the config dump.

With --cache, facts are served from Redis while fresh and re-gathered
only on a miss (or with --refresh).

Examples:
  srlcli -d leaf1 facts
  srlcli -d leaf1 facts --subset hardware --json
  srlcli -d leaf1 facts --subset all --cache 127.0.0.1:6379 --cache-ttl 30m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := resolveEndpoint()
		if err != nil {
			return err
		}
		ctx := context.Background()

		var cache *factcache.Cache
		if cacheAddr != "" {
			cache = factcache.New(cacheAddr, cacheTTL)
			if err := cache.Connect(ctx); err != nil {
				return fmt.Errorf("fact cache: %w", err)
			}
			defer cache.Close()

			if !cacheRefresh {
				cached, err := cache.Get(ctx, ep.Host)
				if err != nil {
					util.Warnf("Fact cache read failed: %v", err)
				} else if cached != nil {
					res := &runner.Result{Device: ep.Host, Status: runner.StatusOK, Facts: cached}
					return printResult(res, func() { printFacts(res) })
				}
			}
		}

		res := runner.Execute(ctx, runner.Input{
			Endpoint: ep,
			Op:       runner.OpGatherFacts,
			Subsets:  factSubsets,
		})
		if cache != nil && !res.Failed() {
			if err := cache.Put(ctx, ep.Host, res.Facts); err != nil {
				util.Warnf("Fact cache write failed: %v", err)
			}
		}
		return printResult(res, func() { printFacts(res) })
	},
}

func init() {
	factsCmd.Flags().StringSliceVar(&factSubsets, "subset", nil, "Fact subsets to gather")
	factsCmd.Flags().StringVar(&cacheAddr, "cache", "", "Redis address for the fact cache")
	factsCmd.Flags().DurationVar(&cacheTTL, "cache-ttl", factcache.DefaultTTL, "Fact cache entry lifetime")
	factsCmd.Flags().BoolVar(&cacheRefresh, "refresh", false, "Bypass the cache and re-gather")
}

func printFacts(res *runner.Result) {
	f := res.Facts
	if f == nil {
		return
	}
	if f.System != nil {
		fmt.Printf("Hostname : %s\n", f.System.Hostname)
		fmt.Printf("Model    : %s\n", f.System.Model)
		fmt.Printf("Version  : %s\n", f.System.Version)
		fmt.Printf("Serial   : %s\n", f.System.Serial)
	}
	if len(f.Interfaces) > 0 {
		names := make([]string, 0, len(f.Interfaces))
		for name := range f.Interfaces {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("\nInterfaces (%d):\n", len(names))
		tbl := cli.NewTable("Interface", "Admin", "Oper", "Speed", "Description").WithPrefix("  ")
		for _, name := range names {
			intf := f.Interfaces[name]
			oper := intf.OperState
			if oper == "up" {
				oper = cli.Green(oper)
			} else if oper != "" {
				oper = cli.Red(oper)
			}
			tbl.Row(intf.Name, intf.AdminState, oper, intf.Speed, intf.Description)
		}
		tbl.Flush()
	}
	if f.Config != "" {
		fmt.Printf("\nRunning configuration:\n%s\n", f.Config)
	}
}
