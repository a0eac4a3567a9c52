package main

import (
	"os"

	// Packages
	version "github.com/mutablelogic/go-notes/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommands struct {
	Version VersionCommand `cmd:"" name:"version" help:"Print version information"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	_, err := os.Stdout.Write(append(version.JSON(execName()), '\n'))
	return err
}
