// Package facts gathers device information over an established session:
// system identity from "show version", the interface table from
// "show interface brief", and optionally the full running configuration.
// Everything here is read-only and runs through the command executor, so
// the session never leaves operational mode.
package facts

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/srlinux-automation/srlcli/pkg/session"
)

// Subset names one gatherable fact group.
type Subset string

const (
	SubsetHardware   Subset = "hardware"
	SubsetInterfaces Subset = "interfaces"
	SubsetConfig     Subset = "config"
	// SubsetAll expands to every subset.
	SubsetAll Subset = "all"
)

// System is the device identity parsed from "show version".
type System struct {
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
	Model    string `json:"model"`
	Serial   string `json:"serial"`
}

// Interface is one row of the "show interface brief" table.
type Interface struct {
	Name        string `json:"name"`
	AdminState  string `json:"admin_state"`
	OperState   string `json:"oper_state"`
	Speed       string `json:"speed,omitempty"`
	Description string `json:"description,omitempty"`
}

// Facts is the gathered device state. Fields are nil or empty when their
// subset was not requested.
type Facts struct {
	System     *System              `json:"system,omitempty"`
	Interfaces map[string]Interface `json:"interfaces,omitempty"`
	Config     string               `json:"config,omitempty"`
	GatheredAt time.Time            `json:"gathered_at"`
}

const (
	cmdShowVersion        = "show version"
	cmdShowInterfaceBrief = "show interface brief"
	cmdRunningConfig      = "info from running /"
)

// NormalizeSubsets resolves a subset selection: plain names select,
// "all" selects everything, "!name" removes, and a selection with no
// positive entry starts from everything. The default is ["!config"],
// identity and interfaces without the (large) config dump.
func NormalizeSubsets(subsets []string) (map[Subset]bool, error) {
	if len(subsets) == 0 {
		subsets = []string{"!" + string(SubsetConfig)}
	}

	all := []Subset{SubsetHardware, SubsetInterfaces, SubsetConfig}
	want := map[Subset]bool{}
	var negated []Subset
	positive := false

	for _, raw := range subsets {
		name := Subset(strings.TrimPrefix(raw, "!"))
		switch name {
		case SubsetHardware, SubsetInterfaces, SubsetConfig:
			if strings.HasPrefix(raw, "!") {
				negated = append(negated, name)
			} else {
				want[name] = true
				positive = true
			}
		case SubsetAll:
			for _, s := range all {
				want[s] = true
			}
			positive = true
		default:
			return nil, fmt.Errorf("unknown fact subset %q", raw)
		}
	}

	if !positive {
		for _, s := range all {
			want[s] = true
		}
	}
	for _, s := range negated {
		delete(want, s)
	}
	return want, nil
}

// Gather collects the requested subsets in one command batch.
func Gather(ctx context.Context, sess *session.Session, subsets []string) (*Facts, error) {
	want, err := NormalizeSubsets(subsets)
	if err != nil {
		return nil, err
	}

	var commands []string
	if want[SubsetHardware] {
		commands = append(commands, cmdShowVersion)
	}
	if want[SubsetInterfaces] {
		commands = append(commands, cmdShowInterfaceBrief)
	}
	if want[SubsetConfig] {
		commands = append(commands, cmdRunningConfig)
	}

	f := &Facts{GatheredAt: time.Now().UTC()}
	if len(commands) == 0 {
		return f, nil
	}

	results, err := sess.Run(ctx, commands)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		switch r.Command {
		case cmdShowVersion:
			f.System = parseVersion(r.Output)
		case cmdShowInterfaceBrief:
			f.Interfaces = parseInterfaceBrief(r.Output)
		case cmdRunningConfig:
			f.Config = r.Output
		}
	}
	return f, nil
}

var (
	hostnameRe = regexp.MustCompile(`Hostname\s+:\s+(\S+)`)
	versionRe  = regexp.MustCompile(`Software Version\s+:\s+(\S+)`)
	modelRe    = regexp.MustCompile(`Chassis Type\s+:\s+(.+)`)
	serialRe   = regexp.MustCompile(`Serial Number\s+:\s+(.+)`)
)

func parseVersion(output string) *System {
	sys := &System{}
	if m := hostnameRe.FindStringSubmatch(output); m != nil {
		sys.Hostname = m[1]
	}
	if m := versionRe.FindStringSubmatch(output); m != nil {
		sys.Version = m[1]
	}
	if m := modelRe.FindStringSubmatch(output); m != nil {
		sys.Model = strings.TrimSpace(m[1])
	}
	if m := serialRe.FindStringSubmatch(output); m != nil {
		sys.Serial = strings.TrimSpace(m[1])
	}
	return sys
}

// parseInterfaceBrief reads the piped table emitted by "show interface
// brief". Columns are positional so empty cells do not shift the row.
func parseInterfaceBrief(output string) map[string]Interface {
	interfaces := map[string]Interface{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || strings.Contains(line, "===") {
			continue
		}

		raw := strings.Split(line, "|")
		if len(raw) < 4 {
			continue
		}
		cells := make([]string, 0, len(raw)-2)
		for _, c := range raw[1 : len(raw)-1] {
			cells = append(cells, strings.TrimSpace(c))
		}
		if len(cells) < 3 || cells[0] == "" || cells[0] == "Port" {
			continue
		}

		intf := Interface{
			Name:       cells[0],
			AdminState: cells[1],
			OperState:  cells[2],
		}
		if len(cells) > 3 {
			intf.Speed = cells[3]
		}
		if len(cells) > 5 {
			intf.Description = cells[5]
		}
		interfaces[intf.Name] = intf
	}
	return interfaces
}
