package chart

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Viewer shows an image file to the user.
type Viewer interface {
	Open(ctx context.Context, path string) error
}

// SystemViewer opens files with the platform's default handler.
type SystemViewer struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

var _ Viewer = (*SystemViewer)(nil)

// NewSystemViewer creates a viewer for the running OS.
func NewSystemViewer() *SystemViewer {
	return &SystemViewer{goos: runtime.GOOS, run: runCommand}
}

// Command returns the program and arguments that open path.
func (v *SystemViewer) Command(path string) (string, []string) {
	switch v.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open launches the handler and waits for it to hand the file off.
func (v *SystemViewer) Open(ctx context.Context, path string) error {
	name, args := v.Command(path)
	if err := v.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
