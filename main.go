package main

import (
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"ftpserver/auth"
	"ftpserver/terminal"
	"ftpserver/transfer"
)

func main() {
	config, err := terminal.ParseFlags(os.Args[1:])
	if err != nil {
		terminal.HandleStartupError(err, "parse command line arguments")
	}

	if err := terminal.ValidateConfig(config); err != nil {
		terminal.HandleStartupError(err, "validate configuration")
	}

	level, _ := logrus.ParseLevel(config.LogLevel)
	logrus.SetLevel(level)

	var validator auth.Validator = auth.Single{
		Username: config.Username,
		Password: config.Password,
	}
	if config.PasswordHash != "" {
		store := auth.NewStore()
		store.AddHash(config.Username, config.PasswordHash)
		validator = store
	}

	var provider transfer.Provider = transfer.DefaultCanned()
	if config.RootDir != "" {
		provider = transfer.Dir{Root: config.RootDir}
	}

	server := NewFTPServer(config.ListenAddr, net.ParseIP(config.AdvertiseIP), validator, provider)
	terminal.PrintStartupInfo(config)

	if err := server.Start(); err != nil {
		terminal.HandleStartupError(err, "start server")
	}
	if err := server.Serve(); err != nil {
		terminal.HandleStartupError(err, "serve")
	}
}
