package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens track links in a browser or other configured handler
type Opener struct {
	command string   // configured command, empty for system default
	args    []string // extra arguments placed before the URL
	logger  *slog.Logger

	// start runs a command without waiting for it; swapped in tests
	start func(name string, args ...string) error
}

// NewOpener creates an Opener from the open section of the config
func NewOpener(cfg OpenConfig, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command: cfg.Command,
		args:    cfg.Args,
		logger:  logger,
		start:   startCommand,
	}
}

func startCommand(name string, args ...string) error {
	_, err := launch(exec.Command(name, args...))
	return err
}

// launch starts cmd and waits for it in the background so the child is
// reaped. The returned channel receives its exit result.
func launch(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}

// Open launches url with the configured command or the system default handler
func (o *Opener) Open(url string) error {
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return fmt.Errorf("refusing to open non-http link %q", url)
	}

	name, args := o.commandFor(url)
	o.logger.Info("opening link", "command", name, "args", args)

	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open link with %s: %w", name, err)
	}
	return nil
}

// commandFor resolves the command line used to open url
func (o *Opener) commandFor(url string) (string, []string) {
	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		return o.command, args
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
