// Package process terminates the browser process tree left behind by a
// headless render.
package process

import "errors"

// ErrInvalidPID is returned for pids that would target the caller's own
// process group or every process.
var ErrInvalidPID = errors.New("invalid pid")
