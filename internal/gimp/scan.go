package gimp

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gimptool/plugman/internal/paths"
	"github.com/gimptool/plugman/pkg/types"
)

// Scan probes the candidate GIMP user directories for the current operating
// system and returns a Target for each directory that exists. Targets come
// back ordered newest release line first. An empty result is not an error;
// callers that require a target return ErrNoTargets themselves.
func Scan(ctx context.Context) ([]types.Target, error) {
	return ScanDirs(ctx, paths.CandidateUserDirs(runtime.GOOS))
}

// ScanDirs probes the given user directories, keyed by GIMP release line.
// Probes run concurrently; a directory that does not exist or is a plain
// file is skipped silently.
func ScanDirs(ctx context.Context, userDirs map[string]string) ([]types.Target, error) {
	var (
		mu      sync.Mutex
		targets []types.Target
	)

	g, ctx := errgroup.WithContext(ctx)
	for version, dir := range userDirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return nil
			}
			mu.Lock()
			targets = append(targets, paths.TargetFor(version, dir))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(targets, func(i, j int) bool {
		return versionRank(targets[i].GIMPVersion) > versionRank(targets[j].GIMPVersion)
	})
	return targets, nil
}

// FindTarget returns the target for the given release line, or the newest
// detected target when version is empty. Returns ErrNoTargets when nothing
// matches.
func FindTarget(ctx context.Context, version string) (types.Target, error) {
	targets, err := Scan(ctx)
	if err != nil {
		return types.Target{}, err
	}
	for _, t := range targets {
		if version == "" || t.GIMPVersion == version {
			return t, nil
		}
	}
	return types.Target{}, types.ErrNoTargets
}

// versionRank orders release lines oldest to newest.
func versionRank(version string) int {
	for i, v := range types.KnownGIMPVersions {
		if v == version {
			return i
		}
	}
	return -1
}
