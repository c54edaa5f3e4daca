package main

import (
	"jiramcp/cmd"
	"jiramcp/internal/server"
)

// Version can be set during build with -ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	server.Version = version
	cmd.Execute()
}
