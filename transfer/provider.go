// Package transfer provides the payload sources streamed over data
// connections.
package transfer

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Provider produces the payload for a data-transfer command. An empty path
// refers to the provider's root. Implementations are read-only and safe for
// use from concurrent sessions.
type Provider interface {
	List(path string) ([]byte, error)
}

// Canned serves a fixed payload regardless of the requested path.
type Canned struct {
	Payload []byte
}

// List implements Provider.
func (c Canned) List(string) ([]byte, error) {
	return c.Payload, nil
}

// DefaultCanned returns the built-in sample listing served when no root
// directory is configured.
func DefaultCanned() Canned {
	return Canned{Payload: []byte("" +
		"-rw-r--r--   1 owner    group          64 Jan 02 15:04 readme.txt\r\n" +
		"-rw-r--r--   1 owner    group        1024 Jan 02 15:04 data.bin\r\n" +
		"drwxr-xr-x   1 owner    group           0 Jan 02 15:04 pub\r\n")}
}

// Dir lists directories under Root in ls -l style, one CRLF-terminated line
// per entry. Requested paths are cleaned against the root so a client cannot
// escape it.
type Dir struct {
	Root string
}

// List implements Provider.
func (d Dir) List(p string) ([]byte, error) {
	full := filepath.Join(d.Root, filepath.FromSlash(path.Clean("/"+p)))
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	var listing bytes.Buffer
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing.WriteString(FormatEntry(info))
	}
	return listing.Bytes(), nil
}

// FormatEntry renders one ls-style listing line for a directory entry,
// CRLF terminated.
func FormatEntry(info os.FileInfo) string {
	perms := "-rw-r--r--"
	if info.IsDir() {
		perms = "drwxr-xr-x"
	}
	return fmt.Sprintf("%s %3d %-8s %-8s %8d %s %s\r\n",
		perms, 1, "owner", "group", info.Size(),
		info.ModTime().Format("Jan 02 15:04"), info.Name())
}
