// Package inventory loads the YAML device inventory that names the
// switches srlcli can talk to and how to reach them.
package inventory

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srlinux-automation/srlcli/pkg/transport"
)

// Credentials are connection parameters shared by the defaults block and
// per-device entries. A zero field means "inherit" (for devices) or "use
// the built-in default" (for the defaults block).
type Credentials struct {
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	// Timeout is in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// Device is one inventory entry.
type Device struct {
	Name        string `yaml:"name"`
	Host        string `yaml:"host"`
	Credentials `yaml:",inline"`
}

// Inventory is the parsed inventory file.
type Inventory struct {
	Defaults Credentials `yaml:"defaults,omitempty"`
	Devices  []Device    `yaml:"devices"`

	byName map[string]int
}

// Load reads and validates an inventory file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return Parse(data)
}

// Parse validates inventory YAML: every device needs a name and a host,
// and names must be unique.
func Parse(data []byte) (*Inventory, error) {
	inv := &Inventory{}
	if err := yaml.Unmarshal(data, inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	inv.byName = make(map[string]int, len(inv.Devices))
	for i, d := range inv.Devices {
		if d.Name == "" {
			return nil, fmt.Errorf("inventory device %d has no name", i)
		}
		if d.Host == "" {
			return nil, fmt.Errorf("inventory device %q has no host", d.Name)
		}
		if _, dup := inv.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate inventory device %q", d.Name)
		}
		inv.byName[d.Name] = i
	}
	return inv, nil
}

// Lookup returns the named device.
func (inv *Inventory) Lookup(name string) (Device, error) {
	i, ok := inv.byName[name]
	if !ok {
		return Device{}, fmt.Errorf("device %q not in inventory", name)
	}
	return inv.Devices[i], nil
}

// Names lists the inventory devices in file order.
func (inv *Inventory) Names() []string {
	out := make([]string, len(inv.Devices))
	for i, d := range inv.Devices {
		out[i] = d.Name
	}
	return out
}

// Endpoint resolves a device's connection parameters, filling gaps from the
// defaults block and then from the built-in defaults (port 22, user admin,
// timeout 30s).
func (inv *Inventory) Endpoint(name string) (transport.Endpoint, error) {
	d, err := inv.Lookup(name)
	if err != nil {
		return transport.Endpoint{}, err
	}

	c := d.Credentials
	if c.Port == 0 {
		c.Port = inv.Defaults.Port
	}
	if c.Username == "" {
		c.Username = inv.Defaults.Username
	}
	if c.Password == "" {
		c.Password = inv.Defaults.Password
	}
	if c.Timeout == 0 {
		c.Timeout = inv.Defaults.Timeout
	}

	ep := transport.Endpoint{
		Host:     d.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
	}
	if ep.Port == 0 {
		ep.Port = transport.DefaultPort
	}
	if ep.Username == "" {
		ep.Username = "admin"
	}
	if c.Timeout > 0 {
		ep.Timeout = time.Duration(c.Timeout) * time.Second
	} else {
		ep.Timeout = transport.DefaultTimeout
	}
	return ep, nil
}
