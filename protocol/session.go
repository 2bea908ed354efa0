package protocol

import (
	"bufio"
	"errors"
	"net"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"ftpserver/auth"
	"ftpserver/transfer"
)

// loginPhase enumerates the authentication states of a control connection.
type loginPhase int

const (
	phaseUnauthenticated loginPhase = iota
	phaseUsernameProvided
	phaseAuthenticated
)

// loginState is the per-session authentication state machine. name is the
// username supplied so far and is meaningful in the UsernameProvided and
// Authenticated phases only.
type loginState struct {
	phase loginPhase
	name  string
}

// Session owns one control connection: its buffered read/write halves, the
// login state, and the passive data channel. Sessions are single-goroutine;
// nothing here is safe for concurrent use.
type Session struct {
	conn      net.Conn
	reader    *bufio.Reader
	writer    *bufio.Writer
	login     loginState
	data      *DataChannelManager
	validator auth.Validator
	provider  transfer.Provider
	logger    *logrus.Entry
}

// NewSession wraps an accepted control connection. The advertised IP is the
// IPv4 address published in passive-mode replies; the validator and provider
// back the PASS and LIST commands respectively.
func NewSession(conn net.Conn, advertiseIP net.IP, validator auth.Validator, provider transfer.Provider) *Session {
	return &Session{
		conn:      conn,
		reader:    bufio.NewReader(conn),
		writer:    bufio.NewWriter(conn),
		data:      NewDataChannelManager(advertiseIP),
		validator: validator,
		provider:  provider,
		logger: logrus.WithFields(logrus.Fields{
			"remote": conn.RemoteAddr().String(),
		}),
	}
}

// Run drives the read-parse-dispatch-write loop until the session ends via
// QUIT, a fatal handler outcome, or a control-connection error. The control
// connection and any leftover passive listener are closed before Run returns.
func (s *Session) Run() {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.WithError(err).Debug("session cleanup")
		}
	}()

	s.logger.Info("session started")
	if err := s.Reply(NewReply(StatusReady)); err != nil {
		s.logger.WithError(err).Info("session closed: greeting failed")
		return
	}

	dispatcher := NewDispatcher(s)
	for {
		line, err := s.readLine()
		if err != nil {
			s.logger.WithError(err).Info("session closed")
			return
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			var replyErr *ReplyError
			if !errors.As(err, &replyErr) {
				s.logger.WithError(err).Error("unexpected parse failure")
				return
			}
			if err := s.Reply(replyErr.Reply); err != nil {
				s.logger.WithError(err).Info("session closed")
				return
			}
			continue
		}

		reply, fatal := dispatcher.Dispatch(cmd)
		if err := s.Reply(reply); err != nil {
			s.logger.WithError(err).Info("session closed")
			return
		}
		if fatal {
			s.logger.WithField("verb", string(cmd.Verb)).Info("session terminated")
			return
		}
	}
}

// readLine reads one CRLF-terminated command line, trimmed of line endings.
func (s *Session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	s.logger.WithField("line", line).Debug("recv")
	return line, nil
}

// Reply serializes and flushes one reply on the control channel.
func (s *Session) Reply(r Reply) error {
	s.logger.WithFields(logrus.Fields{
		"code":    r.Code,
		"message": r.Message,
	}).Debug("send")
	if _, err := s.writer.WriteString(r.String()); err != nil {
		return err
	}
	return s.writer.Flush()
}

// Close releases the control connection and any passive listener still bound.
func (s *Session) Close() error {
	var result *multierror.Error
	if err := s.data.Discard(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.conn.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
