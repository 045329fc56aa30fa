package proc

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// stopGrace is how long a terminated tunnel gets before SIGKILL.
const stopGrace = 15 * time.Second

// Tunnel supervises an ngrok subprocess exposing the local HTTP server.
type Tunnel struct {
	cmd    *exec.Cmd
	logger *slog.Logger
	done   chan error
}

// BuildTunnelArgs constructs the ngrok argument list. With a reserved
// domain the local target is spelled out explicitly; without one ngrok
// picks a random hostname for the bare port.
func BuildTunnelArgs(port int, domain string, extra []string) []string {
	args := []string{"http"}
	if domain != "" {
		args = append(args, "--domain", domain, fmt.Sprintf("http://127.0.0.1:%d", port))
	} else {
		args = append(args, fmt.Sprintf("%d", port))
	}
	return append(args, extra...)
}

// StartTunnel launches the tunnel binary and begins supervising it.
// The binary must be on PATH.
func StartTunnel(logger *slog.Logger, binary string, port int, domain string, extra []string) (*Tunnel, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%s executable not found in PATH: %w", binary, err)
	}

	args := BuildTunnelArgs(port, domain, extra)
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	logger.Info("starting tunnel", "binary", path, "args", args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start tunnel: %w", err)
	}

	t := &Tunnel{
		cmd:    cmd,
		logger: logger,
		done:   make(chan error, 1),
	}
	go func() {
		t.done <- cmd.Wait()
	}()
	return t, nil
}

// Done delivers the tunnel's exit error once it terminates.
func (t *Tunnel) Done() <-chan error {
	return t.done
}

// Stop terminates the tunnel, escalating to SIGKILL after a grace
// period. Safe to call after the tunnel has already exited.
func (t *Tunnel) Stop() {
	if t.cmd.Process == nil {
		return
	}

	_ = t.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case err := <-t.done:
		if err != nil {
			t.logger.Debug("tunnel exited", "error", err)
		}
	case <-time.After(stopGrace):
		t.logger.Warn("tunnel ignored SIGTERM, killing")
		_ = t.cmd.Process.Kill()
		<-t.done
	}
}
