// Package terminal handles process configuration and startup reporting.
package terminal

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"
)

// Config holds the server configuration parsed from the command line.
type Config struct {
	ListenAddr   string
	AdvertiseIP  string
	Username     string
	Password     string
	PasswordHash string
	RootDir      string
	LogLevel     string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:  "0.0.0.0:2121",
		AdvertiseIP: "127.0.0.1",
		Username:    "anonymous",
		Password:    "anonymous",
		LogLevel:    "info",
	}
}

// ParseFlags parses command line flags into a configuration.
func ParseFlags(args []string) (*Config, error) {
	config := DefaultConfig()

	fs := flag.NewFlagSet("ftpserver", flag.ContinueOnError)
	fs.StringVar(&config.ListenAddr, "listen", config.ListenAddr, "control-channel listen address")
	fs.StringVar(&config.AdvertiseIP, "advertise", config.AdvertiseIP, "IPv4 address advertised in passive-mode replies")
	fs.StringVar(&config.Username, "user", config.Username, "accepted username")
	fs.StringVar(&config.Password, "pass", config.Password, "accepted password (plaintext)")
	fs.StringVar(&config.PasswordHash, "pass-hash", "", "accepted password as a bcrypt hash (overrides -pass)")
	fs.StringVar(&config.RootDir, "root", "", "directory served by LIST (empty: built-in sample listing)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig validates the parsed configuration.
func ValidateConfig(config *Config) error {
	if _, _, err := net.SplitHostPort(config.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen address %q: %v", config.ListenAddr, err)
	}

	ip := net.ParseIP(config.AdvertiseIP)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("advertise address must be IPv4, got %q", config.AdvertiseIP)
	}

	if config.Username == "" {
		return fmt.Errorf("username must not be empty")
	}

	if config.RootDir != "" {
		info, err := os.Stat(config.RootDir)
		if err != nil {
			return fmt.Errorf("root directory not usable: %v", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("root is not a directory: %s", config.RootDir)
		}
	}

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %v", config.LogLevel, err)
	}

	return nil
}

// PrintStartupInfo logs the effective configuration at startup.
func PrintStartupInfo(config *Config) {
	logrus.WithFields(logrus.Fields{
		"listen":    config.ListenAddr,
		"advertise": config.AdvertiseIP,
		"user":      config.Username,
		"root":      config.RootDir,
	}).Info("starting FTP server")
}

// HandleStartupError logs a startup failure and exits.
func HandleStartupError(err error, context string) {
	logrus.WithError(err).Fatalf("failed to %s", context)
}
