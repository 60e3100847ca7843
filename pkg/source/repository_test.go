package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
)

const testMap = `{
"classname" "worldspawn"
}
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// upstream is a local repository standing in for the remote.
type upstream struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	u := &upstream{t: t, dir: dir, repo: repo}
	u.commit("initial commit", map[string]string{
		"maps/start.map": testMap,
		"README.md":      "maps\n",
	})
	return u
}

// commit writes files (an empty body removes the file) and commits them.
func (u *upstream) commit(msg string, files map[string]string) {
	u.t.Helper()

	wt, err := u.repo.Worktree()
	if err != nil {
		u.t.Fatalf("failed to get worktree: %v", err)
	}
	for name, body := range files {
		full := filepath.Join(u.dir, filepath.FromSlash(name))
		if body == "" {
			if _, err := wt.Remove(name); err != nil {
				u.t.Fatalf("failed to remove %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			u.t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			u.t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			u.t.Fatalf("failed to add %s: %v", name, err)
		}
	}
	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Level Designer", Email: "ld@example.com", When: time.Now()},
	})
	if err != nil {
		u.t.Fatalf("failed to commit: %v", err)
	}
}

func sourceConfig(u *upstream, localPath string) *config.GitSourceConfig {
	return &config.GitSourceConfig{
		Enabled:    true,
		Repository: u.dir,
		Branch:     "master",
		Path:       "maps",
		Auth:       config.GitAuthConfig{Type: "none"},
		Poll:       config.GitPollConfig{Enabled: true, Interval: 50 * time.Millisecond, Timeout: 10 * time.Second},
		Clone:      config.GitCloneConfig{LocalPath: localPath},
	}
}

func TestNewRepository(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.GitSourceConfig
		wantErr bool
	}{
		{"nil config", nil, true},
		{"empty repository", &config.GitSourceConfig{Branch: "main"}, true},
		{"empty branch", &config.GitSourceConfig{Repository: "https://example.com/maps.git"}, true},
		{"bad auth", &config.GitSourceConfig{
			Repository: "https://example.com/maps.git",
			Branch:     "main",
			Auth:       config.GitAuthConfig{Type: "kerberos"},
		}, true},
		{"valid", &config.GitSourceConfig{
			Repository: "https://example.com/maps.git",
			Branch:     "main",
			Clone:      config.GitCloneConfig{LocalPath: "relative/clone"},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewRepository(tt.cfg, nil, quietLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRepository() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !filepath.IsAbs(repo.LocalPath()) {
				t.Errorf("LocalPath() = %q, want absolute", repo.LocalPath())
			}
			if !slices.Equal(repo.extensions, []string{".map"}) {
				t.Errorf("extensions = %v, want default", repo.extensions)
			}
		})
	}
}

func TestRepository_SyncClonesThenPulls(t *testing.T) {
	u := newUpstream(t)
	local := filepath.Join(t.TempDir(), "clone")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "valvemap"}, registry)
	repo, err := NewRepository(sourceConfig(u, local), []string{".map"}, quietLogger())
	if err != nil {
		t.Fatalf("NewRepository() failed: %v", err)
	}
	repo.WithMetrics(collector)
	ctx := context.Background()

	result, err := repo.Sync(ctx)
	if err != nil {
		t.Fatalf("first Sync() failed: %v", err)
	}
	if result.Result != ResultCloned || result.ToSHA == "" {
		t.Errorf("first Sync() = %+v, want cloned", result)
	}
	if _, err := os.Stat(filepath.Join(repo.MapPath(), "start.map")); err != nil {
		t.Errorf("cloned map missing: %v", err)
	}

	result, err = repo.Sync(ctx)
	if err != nil {
		t.Fatalf("second Sync() failed: %v", err)
	}
	if result.Result != ResultUnchanged || result.HadChanges() {
		t.Errorf("second Sync() = %+v, want unchanged", result)
	}

	u.commit("add e1m1, drop start", map[string]string{
		"maps/e1m1.map":  testMap,
		"maps/start.map": "",
		"other/x.map":    testMap,
		"README.md":      "maps and more\n",
	})

	result, err = repo.Sync(ctx)
	if err != nil {
		t.Fatalf("third Sync() failed: %v", err)
	}
	if result.Result != ResultUpdated || !result.HadChanges() {
		t.Fatalf("third Sync() = %+v, want updated", result)
	}
	want := []string{
		filepath.Join(local, "maps", "e1m1.map"),
		filepath.Join(local, "maps", "start.map"),
	}
	if !slices.Equal(result.ChangedMaps, want) {
		t.Errorf("ChangedMaps = %v, want %v", result.ChangedMaps, want)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head() failed: %v", err)
	}
	if head.SHA != result.ToSHA || head.Message != "add e1m1, drop start" || head.Author != "Level Designer" {
		t.Errorf("Head() = %+v", head)
	}
	if len(head.ShortSHA()) != 8 {
		t.Errorf("ShortSHA() = %q", head.ShortSHA())
	}

	expected := `
# HELP valvemap_source_syncs_total Total number of Git source syncs by result
# TYPE valvemap_source_syncs_total counter
valvemap_source_syncs_total{result="cloned"} 1
valvemap_source_syncs_total{result="unchanged"} 1
valvemap_source_syncs_total{result="updated"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "valvemap_source_syncs_total"); err != nil {
		t.Errorf("unexpected sync metrics: %v", err)
	}
}

func TestRepository_OpensExistingClone(t *testing.T) {
	u := newUpstream(t)
	local := filepath.Join(t.TempDir(), "clone")
	cfg := sourceConfig(u, local)

	first, err := NewRepository(cfg, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	u.commit("second", map[string]string{"maps/e1m2.map": testMap})

	second, err := NewRepository(cfg, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	head, err := second.Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if head.Message != "initial commit" {
		t.Errorf("Open() before pulling = %q, want the cloned commit", head.Message)
	}

	result, err := second.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() on existing clone failed: %v", err)
	}
	if result.Result != ResultUpdated {
		t.Errorf("Result = %q, want %q", result.Result, ResultUpdated)
	}
	if !slices.Equal(result.ChangedMaps, []string{filepath.Join(local, "maps", "e1m2.map")}) {
		t.Errorf("ChangedMaps = %v", result.ChangedMaps)
	}
}

func TestRepository_SyncFailure(t *testing.T) {
	cfg := &config.GitSourceConfig{
		Repository: filepath.Join(t.TempDir(), "missing"),
		Branch:     "master",
		Poll:       config.GitPollConfig{Timeout: 5 * time.Second},
		Clone:      config.GitCloneConfig{LocalPath: filepath.Join(t.TempDir(), "clone")},
	}
	repo, err := NewRepository(cfg, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Sync(context.Background()); err == nil {
		t.Error("Sync() of a missing repository should fail")
	}
	if _, err := repo.Head(); err == nil {
		t.Error("Head() before a successful Sync() should fail")
	}
}
