package protocol

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// requireAuth guards privileged handlers. When the session is not
// authenticated it returns the 530 denial to send; handlers must return it
// unchanged so no state is mutated on a denied command.
func (d *Dispatcher) requireAuth() (Reply, bool) {
	if d.session.login.phase != phaseAuthenticated {
		return NewReply(StatusNotLoggedIn), false
	}
	return Reply{}, true
}

// handleQuit replies 221 and ends the session. This is the sole normal-exit
// path of the control loop.
func (d *Dispatcher) handleQuit(Command) (Reply, bool) {
	return NewReply(StatusClosing), true
}

// handleUser records the username and asks for the password. A pre-login
// username may be overwritten by a second USER; after login the user is
// fixed for the lifetime of the session.
func (d *Dispatcher) handleUser(cmd Command) (Reply, bool) {
	s := d.session
	if s.login.phase == phaseAuthenticated {
		return NewReplyMessage(StatusNotLoggedIn, "Can't change user after login"), false
	}
	s.login = loginState{phase: phaseUsernameProvided, name: cmd.Args[0]}
	return NewReply(StatusUserOK), false
}

func (d *Dispatcher) handlePass(cmd Command) (Reply, bool) {
	s := d.session
	switch s.login.phase {
	case phaseAuthenticated:
		return NewReplyMessage(StatusLoggedIn, "Already logged in"), false
	case phaseUnauthenticated:
		return NewReplyMessage(StatusBadSequence, "Login with USER first"), false
	}

	if s.validator.Authenticate(s.login.name, cmd.Args[0]) {
		s.login.phase = phaseAuthenticated
		s.logger.WithField("user", s.login.name).Info("login successful")
		return NewReply(StatusLoggedIn), false
	}
	s.logger.WithField("user", s.login.name).Info("login failed")
	s.login = loginState{}
	return NewReplyMessage(StatusNotLoggedIn, "Login incorrect"), false
}

// handlePasv binds a fresh passive listener and advertises its address. A
// bind failure makes the session unusable for transfers, so it is fatal.
func (d *Dispatcher) handlePasv(Command) (Reply, bool) {
	if deny, ok := d.requireAuth(); !ok {
		return deny, false
	}
	s := d.session
	tuple, err := s.data.EnterPassive()
	if err != nil {
		s.logger.WithError(err).Error("passive listener bind failed")
		return NewReply(StatusNotAvailable), true
	}
	s.logger.WithField("port", s.data.Port()).Debug("passive listener bound")
	return NewReplyMessage(StatusPassiveMode,
		fmt.Sprintf("Entering Passive Mode %s.", tuple)), false
}

// handlePort rejects active mode. Active transfers are out of scope; the
// reply tells clients to fall back to PASV. No session state is touched.
func (d *Dispatcher) handlePort(Command) (Reply, bool) {
	return NewReplyMessage(StatusNotImplemented, "Active mode not supported; use PASV"), false
}

// handleList streams the listing payload over the passive data channel.
//
// The transfer mode is taken and reset before the accept is attempted, so the
// listener is used at most once regardless of outcome. The accept blocks
// without a deadline until the client dials in.
func (d *Dispatcher) handleList(cmd Command) (Reply, bool) {
	if deny, ok := d.requireAuth(); !ok {
		return deny, false
	}
	s := d.session

	ln := s.data.Take()
	if ln == nil {
		return NewReply(StatusCanNotOpenDataConn), false
	}
	defer ln.Close()

	dataConn, err := ln.Accept()
	if err != nil {
		s.logger.WithError(err).Error("data connection accept failed")
		return NewReply(StatusNotAvailable), true
	}

	if err := s.Reply(NewReply(StatusAboutToSend)); err != nil {
		dataConn.Close()
		s.logger.WithError(err).Info("control write failed during transfer")
		return NewReply(StatusNotAvailable), true
	}

	path := ""
	if len(cmd.Args) > 0 {
		path = cmd.Args[0]
	}
	payload, err := s.provider.List(path)
	if err != nil {
		dataConn.Close()
		s.logger.WithError(err).WithField("path", path).Info("listing failed")
		return NewReplyMessage(StatusActionNotTaken, "Failed to list directory"), false
	}

	if _, err := dataConn.Write(payload); err != nil {
		dataConn.Close()
		s.logger.WithError(err).Info("data connection write failed")
		return NewReply(StatusTransferAborted), true
	}
	if err := dataConn.Close(); err != nil {
		s.logger.WithError(err).Debug("data connection close")
	}

	s.logger.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(payload),
	}).Info("listing sent")
	return NewReply(StatusClosingDataConn), false
}

func (d *Dispatcher) handleSyst(Command) (Reply, bool) {
	return NewReply(StatusSystemType), false
}

// handleType accepts the ASCII and binary transfer types. The payload
// provider is byte-oriented either way, so the setting is accepted and
// otherwise ignored.
func (d *Dispatcher) handleType(cmd Command) (Reply, bool) {
	if deny, ok := d.requireAuth(); !ok {
		return deny, false
	}
	switch strings.ToUpper(cmd.Args[0]) {
	case "A":
		return NewReplyMessage(StatusCommandOK, "Switching to ASCII mode"), false
	case "I":
		return NewReplyMessage(StatusCommandOK, "Switching to Binary mode"), false
	default:
		return NewReply(StatusNotImplementedParam), false
	}
}

func (d *Dispatcher) handleNoop(Command) (Reply, bool) {
	return NewReplyMessage(StatusCommandOK, "NOOP command successful"), false
}

// handlePwd reports the virtual root; the payload provider has no notion of
// a changeable working directory.
func (d *Dispatcher) handlePwd(Command) (Reply, bool) {
	if deny, ok := d.requireAuth(); !ok {
		return deny, false
	}
	return NewReply(StatusPathCreated), false
}

// handleFeat advertises no extensions.
func (d *Dispatcher) handleFeat(Command) (Reply, bool) {
	return NewReply(StatusSystem), false
}
