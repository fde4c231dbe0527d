package maintenance

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syrm/srvmaint/system"
)

type CheckResult struct {
	Name    string
	Passed  bool
	Details string
}

type check struct {
	name string
	fn   func(context.Context) (string, error)
}

// Preflight runs the host checks concurrently and returns every result in a
// fixed order.
func (h *Host) Preflight(ctx context.Context) []CheckResult {
	checks := []check{
		{"root", h.checkRoot},
		{"apt-get", h.checkApt},
		{"docker daemon", h.checkDocker},
		{"compose", h.checkCompose},
	}

	results := make([]CheckResult, len(checks))

	eg, errCtx := errgroup.WithContext(ctx)
	for i, c := range checks {
		eg.Go(func() error {
			details, err := c.fn(errCtx)
			results[i] = CheckResult{Name: c.name, Passed: err == nil, Details: details}
			if err != nil {
				results[i].Details = err.Error()
			}
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (h *Host) checkRoot(context.Context) (string, error) {
	if h.geteuid() != 0 {
		return "", errors.New("not running as root, most actions need sudo")
	}

	return "running as root", nil
}

func (h *Host) checkApt(context.Context) (string, error) {
	return h.runner.LookPath("apt-get")
}

func (h *Host) checkDocker(ctx context.Context) (string, error) {
	if h.engine == nil {
		return "", errors.New("no docker client")
	}

	if err := h.engine.Ping(ctx); err != nil {
		return "", err
	}

	return "reachable", nil
}

func (h *Host) checkCompose(ctx context.Context) (string, error) {
	out, err := h.runner.Run(ctx, system.ParseCommand(h.compose.Command(), "version"))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}
