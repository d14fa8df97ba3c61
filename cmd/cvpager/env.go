package main

import (
	"io"
	"os"
	"time"

	cvpager "github.com/alnah/go-cvpager"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Getenv and Environ read CVPAGER_* configuration.
	Getenv  func(string) string
	Environ func() []string

	// NewPool creates the renderer pool for a run. Tests replace it with a
	// fake that needs no browser.
	NewPool func(size int, opts []cvpager.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewPool: newRendererPool,
	}
}
