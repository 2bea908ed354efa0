package main

import (
	"errors"
	"net"

	"github.com/sirupsen/logrus"

	"ftpserver/auth"
	"ftpserver/protocol"
	"ftpserver/transfer"
)

// FTPServer accepts control connections and hands each one to an independent
// session goroutine. Sessions share nothing; a stalled client only blocks
// its own goroutine.
type FTPServer struct {
	addr        string
	advertiseIP net.IP
	validator   auth.Validator
	provider    transfer.Provider
	listener    net.Listener
}

// NewFTPServer configures a server. advertiseIP is the IPv4 address clients
// are told to dial for passive-mode data connections.
func NewFTPServer(addr string, advertiseIP net.IP, validator auth.Validator, provider transfer.Provider) *FTPServer {
	return &FTPServer{
		addr:        addr,
		advertiseIP: advertiseIP,
		validator:   validator,
		provider:    provider,
	}
}

// Start binds the control listener.
func (s *FTPServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	logrus.WithField("addr", listener.Addr().String()).Info("control listener up")
	return nil
}

// Addr returns the bound control address. Only valid after Start.
func (s *FTPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until the listener is closed.
func (s *FTPServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logrus.WithError(err).Error("accept failed")
			return err
		}
		session := protocol.NewSession(conn, s.advertiseIP, s.validator, s.provider)
		go session.Run()
	}
}

// Close shuts down the control listener. Sessions already running drain on
// their own connection lifecycle.
func (s *FTPServer) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
