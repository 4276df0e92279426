// Package resource renders typed device resources (interfaces,
// network-instances, BGP neighbors and the like) into flat set/delete
// statements for the transaction engine. A resource is declarative: a type,
// a name, a desired state, and a bag of attributes; rendering is pure and
// never touches a device.
package resource

import (
	"fmt"
	"sort"
	"strings"
)

// Type identifies a manageable resource kind.
type Type string

const (
	TypeInterface       Type = "interface"
	TypeSubinterface    Type = "subinterface"
	TypeNetworkInstance Type = "network-instance"
	TypeBGPNeighbor     Type = "bgp-neighbor"
	TypeBGPGroup        Type = "bgp-group"
	TypeStaticRoute     Type = "static-route"
	TypeACL             Type = "acl"
	TypeRoutingPolicy   Type = "routing-policy"
	TypeUser            Type = "user"
)

// Types lists every supported resource type in display order.
func Types() []Type {
	return []Type{
		TypeInterface, TypeSubinterface, TypeNetworkInstance,
		TypeBGPNeighbor, TypeBGPGroup, TypeStaticRoute,
		TypeACL, TypeRoutingPolicy, TypeUser,
	}
}

// State is the desired presence of a resource.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// Spec describes one resource and its desired state.
type Spec struct {
	Type  Type
	Name  string
	State State

	// Attrs are the resource's leaves, key to value. Keys use the CLI's
	// hyphenated form; underscores are accepted and normalized.
	Attrs map[string]string

	// NetworkInstance scopes types that live under a network instance
	// (BGP neighbors and groups, static routes). Empty means "default".
	NetworkInstance string

	// Parent is the owning interface for a subinterface.
	Parent string
}

// DefaultNetworkInstance is the instance used when a spec does not name one.
const DefaultNetworkInstance = "default"

// path returns the flat path segments addressing the resource, without the
// leading "/".
func (s Spec) path() ([]string, error) {
	ni := s.NetworkInstance
	if ni == "" {
		ni = DefaultNetworkInstance
	}

	switch s.Type {
	case TypeInterface:
		return []string{"interface", s.Name}, nil
	case TypeSubinterface:
		if s.Parent == "" {
			return nil, fmt.Errorf("subinterface %q requires a parent interface", s.Name)
		}
		return []string{"interface", s.Parent, "subinterface", s.Name}, nil
	case TypeNetworkInstance:
		return []string{"network-instance", s.Name}, nil
	case TypeBGPNeighbor:
		return []string{"network-instance", ni, "protocols", "bgp", "neighbor", s.Name}, nil
	case TypeBGPGroup:
		return []string{"network-instance", ni, "protocols", "bgp", "group", s.Name}, nil
	case TypeStaticRoute:
		return []string{"network-instance", ni, "static-routes", "route", s.Name}, nil
	case TypeACL:
		return []string{"acl", s.Name}, nil
	case TypeRoutingPolicy:
		return []string{"routing-policy", "policy", s.Name}, nil
	case TypeUser:
		return []string{"system", "aaa", "authentication", "user", s.Name}, nil
	default:
		return nil, fmt.Errorf("unknown resource type %q", s.Type)
	}
}

// Render turns the spec into ordered flat statements.
//
// An absent resource renders one delete for the whole subtree. A present
// resource renders one set per attribute, keys sorted for a stable order;
// with no attributes a bare set of the path creates the resource. Values
// containing whitespace are quoted.
func Render(s Spec) ([]string, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("resource name is required")
	}
	switch s.State {
	case StatePresent, StateAbsent, "":
	default:
		return nil, fmt.Errorf("unknown resource state %q", s.State)
	}

	segs, err := s.path()
	if err != nil {
		return nil, err
	}
	base := "/ " + strings.Join(segs, " ")

	if s.State == StateAbsent {
		return []string{"delete " + base}, nil
	}

	if len(s.Attrs) == 0 {
		return []string{"set " + base}, nil
	}

	keys := make([]string, 0, len(s.Attrs))
	for k := range s.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		key := strings.ReplaceAll(strings.TrimSpace(k), "_", "-")
		if key == "" {
			return nil, fmt.Errorf("resource %s %q has an empty attribute key", s.Type, s.Name)
		}
		lines = append(lines, "set "+base+" "+key+" "+quoteValue(s.Attrs[k]))
	}
	return lines, nil
}

// quoteValue wraps values containing whitespace in double quotes so they
// survive the statement parser's token normalization.
func quoteValue(v string) string {
	if strings.ContainsAny(v, " \t") && !strings.HasPrefix(v, `"`) {
		return `"` + v + `"`
	}
	return v
}

// ParseAttrs parses key=value pairs, as given on a command line, into an
// attribute map. Underscored keys are kept verbatim; Render normalizes them.
func ParseAttrs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("attribute must be key=value: %q", p)
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return attrs, nil
}
