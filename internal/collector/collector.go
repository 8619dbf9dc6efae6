// Package collector invokes the external per-source collector processes.
// Collectors are opaque: this package only launches them and consumes their
// output contract (one JSON array file per source). A collector failure is
// returned as an explicit error value so the orchestrator can isolate it.
package collector

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Collector describes one source's external producer.
type Collector struct {
	// Name of the source, used in logs and reports.
	Name string
	// Command launches the collector process. Empty means the collector is
	// not managed by this pipeline and its output file is consumed as-is.
	Command string
	// OutputFile is the raw JSON file the collector writes.
	OutputFile string
}

// Runner executes collector processes with a bounded lifetime.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a runner enforcing the given per-invocation timeout.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Run launches the collector and waits for it to exit. The process inherits
// a deadline so a hung collector cannot stall the batch forever.
func (r *Runner) Run(ctx context.Context, c Collector) error {
	if c.Command == "" {
		logrus.Debugf("No command configured for collector %s, consuming existing output", c.Name)
		return nil
	}

	fields := strings.Fields(c.Command)
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	logrus.Infof("Running collector %s: %s", c.Name, c.Command)

	cmd := exec.CommandContext(runCtx, fields[0], fields[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("collector %s failed: %w (output: %s)", c.Name, err, tail(output))
	}

	logrus.Infof("Collector %s finished", c.Name)
	return nil
}

// tail keeps error logs readable when a collector dumps a long traceback.
func tail(output []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(output))
	if len(s) > limit {
		s = "..." + s[len(s)-limit:]
	}
	return s
}
