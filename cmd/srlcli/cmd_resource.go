package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlinux-automation/srlcli/pkg/cli"
	"github.com/srlinux-automation/srlcli/pkg/resource"
	"github.com/srlinux-automation/srlcli/pkg/runner"
)

var (
	resourceType   string
	resourceName   string
	resourceState  string
	resourceNI     string
	resourceParent string
	resourceAttrs  []string
	resourceCheck  bool
)

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Manage a typed resource declaratively",
	Long: `Manage one typed resource: declare its kind, name, desired state, and
attributes, and the rendered statements run as a single candidate
transaction. Attributes already reflected on the device are skipped, so
repeating the same declaration is a no-op.

Types: interface, subinterface, network-instance, bgp-neighbor, bgp-group,
static-route, acl, routing-policy, user.

Examples:
  srlcli -d leaf1 resource --type interface --name ethernet-1/1 \
      --set admin-state=enable --set mtu=9214 --set "description=Uplink to spine"
  srlcli -d leaf1 resource --type bgp-neighbor --name 10.0.0.2 --ni default \
      --set peer-as=65002 --set peer-group=underlay
  srlcli -d leaf1 resource --type static-route --name 0.0.0.0/0 --ni mgmt --state absent`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := resource.ParseAttrs(resourceAttrs)
		if err != nil {
			return err
		}
		statements, err := resource.Render(resource.Spec{
			Type:            resource.Type(resourceType),
			Name:            resourceName,
			State:           resource.State(resourceState),
			Attrs:           attrs,
			NetworkInstance: resourceNI,
			Parent:          resourceParent,
		})
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
			CheckOnly:  resourceCheck,
		})
		logApplyEvent(res, "resource.apply", statements, resourceCheck, start)

		label := fmt.Sprintf("%s %s", resourceType, resourceName)
		return printResult(res, func() {
			switch {
			case resourceCheck && len(res.Pending) > 0:
				fmt.Printf("%s: %s %s, %d statement(s) would be applied:\n",
					res.Device, label, cli.Yellow("drift"), len(res.Pending))
				for _, line := range res.Pending {
					fmt.Println("  " + line)
				}
			case resourceCheck:
				fmt.Printf("%s: %s %s\n", res.Device, label, cli.Green("already compliant"))
			case res.Status == runner.StatusChanged:
				fmt.Printf("%s: %s %s\n", res.Device, label, cli.Green("committed"))
				if res.Diff != "" {
					fmt.Println(res.Diff)
				}
			case res.Status == runner.StatusOK:
				fmt.Printf("%s: %s unchanged\n", res.Device, label)
			}
		})
	},
}

func init() {
	resourceCmd.Flags().StringVar(&resourceType, "type", "", "Resource type")
	resourceCmd.Flags().StringVar(&resourceName, "name", "", "Resource name or key")
	resourceCmd.Flags().StringVar(&resourceState, "state", string(resource.StatePresent), "Desired state: present or absent")
	resourceCmd.Flags().StringVar(&resourceNI, "ni", "", "Network instance context (default \"default\")")
	resourceCmd.Flags().StringVar(&resourceParent, "parent", "", "Parent interface for a subinterface")
	resourceCmd.Flags().StringArrayVar(&resourceAttrs, "set", nil, "Resource attribute as key=value (repeatable)")
	resourceCmd.Flags().BoolVar(&resourceCheck, "check", false, "Report pending statements without applying")
	resourceCmd.MarkFlagRequired("type")
	resourceCmd.MarkFlagRequired("name")
}
