package protocol

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// DataChannelManager tracks the single passive-mode listener of one session.
//
// A listener is single-use: Take removes it before any accept is attempted,
// so a listener is never reusable whether the transfer succeeds or fails. The
// listener carries no accept deadline; bounding the hold time is left to the
// deployment.
type DataChannelManager struct {
	advertiseIP net.IP
	listener    net.Listener
	port        int
}

// NewDataChannelManager returns a manager advertising the given IPv4 address
// in passive-mode replies.
func NewDataChannelManager(advertiseIP net.IP) *DataChannelManager {
	return &DataChannelManager{advertiseIP: advertiseIP}
}

// EnterPassive binds a listener on an OS-assigned ephemeral port, replacing
// and closing any previously bound listener. It returns the 227 address
// tuple for the new listener.
func (d *DataChannelManager) EnterPassive() (string, error) {
	ln, err := net.Listen("tcp4", net.JoinHostPort(d.advertiseIP.String(), "0"))
	if err != nil {
		return "", fmt.Errorf("bind passive listener: %w", err)
	}
	// Only one listener per session; the old one is gone for good.
	if err := d.Discard(); err != nil {
		logrus.WithError(err).Debug("closing replaced passive listener")
	}
	d.listener = ln
	d.port = ln.Addr().(*net.TCPAddr).Port
	return passiveAddrTuple(d.advertiseIP, d.port), nil
}

// Take removes and returns the current listener, leaving the manager unset.
// It returns nil when no passive listener is bound.
func (d *DataChannelManager) Take() net.Listener {
	ln := d.listener
	d.listener = nil
	d.port = 0
	return ln
}

// Port returns the port of the bound passive listener, or 0 when unset.
func (d *DataChannelManager) Port() int {
	return d.port
}

// Discard closes and forgets the current listener, if any.
func (d *DataChannelManager) Discard() error {
	ln := d.Take()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

// passiveAddrTuple renders an IPv4 address and port in the 227 reply form
// (h1,h2,h3,h4,p1,p2), where port = p1*256 + p2.
func passiveAddrTuple(ip net.IP, port int) string {
	v4 := ip.To4()
	return fmt.Sprintf("(%d,%d,%d,%d,%d,%d)",
		v4[0], v4[1], v4[2], v4[3], port/256, port%256)
}
