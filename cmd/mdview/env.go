package main

import (
	"io"
	"os"

	"github.com/alnah/go-mdview/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Getwd  func() (string, error)
	Config *config.Config // Replaced by --config or MDVIEW_CONFIG when set
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getwd:  os.Getwd,
		Config: config.DefaultConfig(),
	}
}
