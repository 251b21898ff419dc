// Package install implements the scratch build-area bootstrap the
// `install`/`uninstall` subcommands use: fetch a pinned runtime-support
// module into a scratch directory, then run a throwaway `go build`
// smoke test against it. The fetch and the toolchain version check run
// concurrently through errgroup; the smoke build runs after both.
package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"

	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
)

// SupportModule is the pinned runtime-support module the scratch area
// fetches.
const SupportModule = "github.com/hyeong-lang/hyeong-runtime-support"

// PinnedVersion is the version installed/validated against.
const PinnedVersion = "v0.3.1"

// Install creates a scratch Go module under dir, fetches
// SupportModule at PinnedVersion, and runs a smoke `go build` against
// it. The fetch and the toolchain version check run side by side in
// one errgroup; the smoke build starts once both have succeeded.
func Install(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return hyeongerrors.Wrap(hyeongerrors.IOError, err)
	}

	modPath := filepath.Join(dir, "go.mod")
	if _, err := os.Stat(modPath); os.IsNotExist(err) {
		if err := runIn(dir, "go", "mod", "init", "hyeong-install-scratch"); err != nil {
			return hyeongerrors.Wrap(hyeongerrors.IOError, err)
		}
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return fetch(ctx, dir)
	})
	g.Go(func() error {
		return checkToolchainVersion(ctx)
	})

	if err := g.Wait(); err != nil {
		return hyeongerrors.Wrap(hyeongerrors.IOError, err)
	}

	if err := runIn(dir, "go", "build", "./..."); err != nil {
		return hyeongerrors.Wrap(hyeongerrors.IOError, err)
	}
	return nil
}

// Uninstall removes the scratch build area entirely.
func Uninstall(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return hyeongerrors.Wrap(hyeongerrors.IOError, err)
	}
	return nil
}

func fetch(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "go", "get", SupportModule+"@"+PinnedVersion)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("fetch %s@%s: %w: %s", SupportModule, PinnedVersion, err, out)
	}
	return nil
}

// checkToolchainVersion confirms the active `go` toolchain is no
// older than the version the support module was built against,
// refusing silently-broken installs on an ancient toolchain.
func checkToolchainVersion(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "go", "env", "GOVERSION")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("go env GOVERSION: %w", err)
	}
	have := "v" + strings.TrimPrefix(strings.TrimSpace(string(out)), "go")
	const minimum = "v1.21.0"
	if semver.Compare(have, minimum) < 0 {
		return fmt.Errorf("go toolchain %s is older than the required %s", have, minimum)
	}
	return nil
}

func runIn(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
