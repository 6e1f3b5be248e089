package oscin

import (
	"fmt"
	"net"

	"github.com/enbility/zeroconf/v3"
)

const (
	ServiceType = "_osc._udp"
	Domain      = "local."

	MaxInstanceNameLen = 63
)

// Advertisement publishes the receiver over mDNS so that TouchOSC can
// offer it in its host list.
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers instance as an OSC service on port. A nil or
// empty ifaces advertises on all interfaces.
func Advertise(instance string, port int, ifaces []net.Interface) (*Advertisement, error) {
	if len(instance) > MaxInstanceNameLen {
		instance = instance[:MaxInstanceNameLen]
	}
	server, err := zeroconf.Register(
		instance,
		ServiceType,
		Domain,
		port,
		[]string{"txtvers=1"},
		ifaces,
	)
	if err != nil {
		return nil, fmt.Errorf("oscin: advertise %q: %w", instance, err)
	}
	return &Advertisement{server: server}, nil
}

// InterfaceByName returns the interface list for Advertise. An empty
// name selects all interfaces.
func InterfaceByName(name string) ([]net.Interface, error) {
	if name == "" {
		return nil, nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("oscin: interface %q: %w", name, err)
	}
	return []net.Interface{*iface}, nil
}

func (a *Advertisement) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
