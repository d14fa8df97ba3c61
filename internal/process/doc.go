// Package process cleans up browser process trees left behind by the
// renderer.
package process
