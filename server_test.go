package main

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftpserver/auth"
	"ftpserver/transfer"
)

func startTestServer(t *testing.T, provider transfer.Provider) *FTPServer {
	t.Helper()
	server := NewFTPServer("127.0.0.1:0", net.IPv4(127, 0, 0, 1),
		auth.Single{Username: "anonymous", Password: "anonymous"}, provider)
	require.NoError(t, server.Start())
	go server.Serve()
	t.Cleanup(func() { server.Close() })
	return server
}

// controlConn scripts a raw control connection.
type controlConn struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dialControl(t *testing.T, server *FTPServer) *controlConn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", server.Addr().String(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &controlConn{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (c *controlConn) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

func (c *controlConn) readReply() (int, string) {
	c.t.Helper()
	line, err := c.reader.ReadString('\n')
	require.NoError(c.t, err)
	line = strings.TrimRight(line, "\r\n")
	code, err := strconv.Atoi(strings.SplitN(line, " ", 2)[0])
	require.NoError(c.t, err, "malformed reply %q", line)
	return code, line
}

func (c *controlConn) cmd(line string) int {
	c.t.Helper()
	c.send(line)
	code, _ := c.readReply()
	return code
}

// TestEndToEndScenario walks the full happy path: greeting, login, passive
// mode, listing over the data channel, quit.
func TestEndToEndScenario(t *testing.T) {
	payload := []byte("-rw-r--r--   1 owner    group           5 Jan 02 15:04 hello.txt\r\n")
	server := startTestServer(t, transfer.Canned{Payload: payload})
	c := dialControl(t, server)

	code, _ := c.readReply()
	require.Equal(t, 220, code)

	require.Equal(t, 331, c.cmd("USER anonymous"))
	require.Equal(t, 230, c.cmd("PASS anonymous"))

	c.send("PASV")
	code, line := c.readReply()
	require.Equal(t, 227, code)

	start := strings.Index(line, "(")
	end := strings.Index(line, ")")
	require.True(t, start >= 0 && end > start, "no address tuple in %q", line)
	fields := strings.Split(line[start+1:end], ",")
	require.Len(t, fields, 6)

	host := strings.Join(fields[:4], ".")
	p1, err := strconv.Atoi(fields[4])
	require.NoError(t, err)
	p2, err := strconv.Atoi(fields[5])
	require.NoError(t, err)
	dataAddr := net.JoinHostPort(host, strconv.Itoa(p1*256+p2))

	dataConn, err := net.DialTimeout("tcp", dataAddr, time.Second)
	require.NoError(t, err)
	defer dataConn.Close()

	c.send("LIST")
	code, _ = c.readReply()
	require.Equal(t, 150, code)

	got, err := io.ReadAll(dataConn)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	code, _ = c.readReply()
	require.Equal(t, 226, code)

	require.Equal(t, 221, c.cmd("QUIT"))
	_, err = c.reader.ReadString('\n')
	assert.ErrorIs(t, err, io.EOF)
}

// TestSessionsAreIndependent checks that state and failures of one control
// connection never leak into another.
func TestSessionsAreIndependent(t *testing.T) {
	server := startTestServer(t, transfer.DefaultCanned())

	first := dialControl(t, server)
	second := dialControl(t, server)

	code, _ := first.readReply()
	require.Equal(t, 220, code)
	code, _ = second.readReply()
	require.Equal(t, 220, code)

	// Log in on the first connection only.
	require.Equal(t, 331, first.cmd("USER anonymous"))
	require.Equal(t, 230, first.cmd("PASS anonymous"))

	// The second connection is still unauthenticated.
	assert.Equal(t, 530, second.cmd("PASV"))

	// Killing the second connection leaves the first fully usable.
	second.conn.Close()
	assert.Equal(t, 200, first.cmd("NOOP"))
}

func TestServerCloseStopsAccepting(t *testing.T) {
	server := startTestServer(t, transfer.DefaultCanned())
	addr := server.Addr().String()
	require.NoError(t, server.Close())

	// Give the accept loop a beat to wind down, then dialing must fail.
	time.Sleep(50 * time.Millisecond)
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err == nil {
		conn.Close()
		t.Fatal("expected dial to closed server to fail")
	}
}
