package proc

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// killGrace is how long a terminated listener gets before SIGKILL.
const killGrace = 5 * time.Second

// FreePort terminates any process currently listening on the given TCP
// port. Best effort: processes that cannot be discovered or signalled
// are logged and skipped, and an unusable lsof is not fatal.
func FreePort(ctx context.Context, logger *slog.Logger, port int) error {
	pids, err := listeningPIDs(ctx, port)
	if err != nil {
		return fmt.Errorf("find listeners on port %d: %w", port, err)
	}

	for _, pid := range pids {
		logger.Info("stopping process holding port", "pid", pid, "port", port)
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
			logger.Warn("terminate failed", "pid", pid, "error", err)
			continue
		}
	}

	deadline := time.Now().Add(killGrace)
	for _, pid := range pids {
		for processAlive(pid) {
			if time.Now().After(deadline) {
				logger.Warn("killing process that ignored SIGTERM", "pid", pid)
				_ = syscall.Kill(pid, syscall.SIGKILL)
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}

	return nil
}

// listeningPIDs finds PIDs listening on the port via lsof. A missing
// lsof or no matches both yield an empty list.
func listeningPIDs(ctx context.Context, port int) ([]int, error) {
	if _, err := exec.LookPath("lsof"); err != nil {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, "lsof", "-t", fmt.Sprintf("-iTCP:%d", port), "-sTCP:LISTEN")
	var out bytes.Buffer
	cmd.Stdout = &out

	// lsof exits 1 when nothing matches.
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, nil
		}
		return nil, err
	}

	return parsePIDs(out.String()), nil
}

// parsePIDs extracts PIDs from lsof -t output, one per line.
func parsePIDs(output string) []int {
	var pids []int
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}

// processAlive reports whether the PID still exists (signal 0 probe).
func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
