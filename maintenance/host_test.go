package maintenance

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/user"
	"testing"

	"github.com/syrm/srvmaint/config"
	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
	"github.com/syrm/srvmaint/system/systemtest"
)

type fakeEngine struct {
	pingErr error
	report  docker.PruneReport
	pruned  int
}

func (f *fakeEngine) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeEngine) Prune(context.Context) (docker.PruneReport, error) {
	f.pruned++
	return f.report, nil
}

type fakeComposer struct {
	calls     []string
	locateErr error
}

func (f *fakeComposer) Command() string {
	return "docker compose"
}

func (f *fakeComposer) Locate(_ context.Context, p dto.ManagedProject) error {
	f.calls = append(f.calls, "locate "+p.WorkingDirectory)
	return f.locateErr
}

func (f *fakeComposer) Pull(_ context.Context, p dto.ManagedProject) error {
	f.calls = append(f.calls, "pull "+p.WorkingDirectory)
	return nil
}

func (f *fakeComposer) Recreate(_ context.Context, p dto.ManagedProject) error {
	f.calls = append(f.calls, "recreate "+p.WorkingDirectory)
	return nil
}

func (f *fakeComposer) Up(_ context.Context, p dto.ManagedProject) error {
	f.calls = append(f.calls, "up "+p.WorkingDirectory)
	return nil
}

type testHost struct {
	*Host
	runner   *systemtest.Runner
	engine   *fakeEngine
	composer *fakeComposer
	out      *bytes.Buffer
	users    map[string]*user.User
	chowned  []string
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()

	th := &testHost{
		runner:   &systemtest.Runner{Paths: map[string]string{}},
		engine:   &fakeEngine{},
		composer: &fakeComposer{},
		out:      &bytes.Buffer{},
		users:    map[string]*user.User{},
	}

	cfg := config.Default(t.TempDir())
	cfg.AptConfDir = t.TempDir()
	cfg.StacksDir = t.TempDir() + "/stacks"
	cfg.DockgeDir = t.TempDir() + "/dockge"

	th.Host = NewHost(th.runner, th.engine, th.composer, cfg, th.out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	th.Host.lookupUser = func(name string) (*user.User, error) {
		if u, ok := th.users[name]; ok {
			return u, nil
		}
		return nil, user.UnknownUserError(name)
	}
	th.Host.chown = func(path string, _, _ int) error {
		th.chowned = append(th.chowned, path)
		return nil
	}
	th.Host.geteuid = func() int { return 0 }

	return th
}

var errExit = errors.New("exit status 100")
