package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
)

// Repository manages the local clone of a map repository.
// It is safe for concurrent use.
type Repository struct {
	cfg        *config.GitSourceConfig
	localPath  string
	extensions []string
	auth       AuthProvider
	logger     *slog.Logger
	metrics    *metrics.Collector

	mu   sync.Mutex
	repo *gogit.Repository
}

// NewRepository creates a repository manager. extensions selects the files
// reported as changed maps; empty means ".map". logger may be nil.
func NewRepository(cfg *config.GitSourceConfig, extensions []string, logger *slog.Logger) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("branch cannot be empty")
	}

	auth, err := NewAuthProvider(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	localPath := cfg.Clone.LocalPath
	if localPath == "" {
		localPath = config.DefaultGitLocalPath
	}
	localPath, err = filepath.Abs(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve clone path: %w", err)
	}

	if len(extensions) == 0 {
		extensions = []string{config.DefaultWatchExtension}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		cfg:        cfg,
		localPath:  localPath,
		extensions: extensions,
		auth:       auth,
		logger:     logger.With("component", "source", "repository", cfg.Repository),
	}, nil
}

// WithMetrics records sync results on collector.
func (r *Repository) WithMetrics(collector *metrics.Collector) *Repository {
	r.metrics = collector
	return r
}

// LocalPath returns the directory the repository is cloned into.
func (r *Repository) LocalPath() string {
	return r.localPath
}

// MapPath returns the directory inside the clone that holds map files.
func (r *Repository) MapPath() string {
	return filepath.Join(r.localPath, filepath.FromSlash(r.cfg.Path))
}

// Sync brings the local clone up to date. The first call clones the
// repository, or opens an existing clone and pulls. Later calls pull.
func (r *Repository) Sync(ctx context.Context) (*SyncResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		result *SyncResult
		err    error
	)
	if r.repo == nil {
		result, err = r.openOrClone(ctx)
	} else {
		result, err = r.pull(ctx)
	}
	if err != nil {
		r.metrics.RecordSourceSync(ResultFailed)
		return nil, err
	}

	r.metrics.RecordSourceSync(result.Result)
	r.logger.Info("source synced",
		"result", result.Result,
		"commit", shortSHA(result.ToSHA),
		"changed_maps", len(result.ChangedMaps))
	return result, nil
}

func (r *Repository) openOrClone(ctx context.Context) (*SyncResult, error) {
	if r.cfg.Clone.CleanOnStart {
		if err := os.RemoveAll(r.localPath); err != nil {
			return nil, fmt.Errorf("failed to clean existing clone: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(r.localPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(r.localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open existing clone: %w", err)
		}
		r.repo = repo
		return r.pull(ctx)
	}

	if err := os.MkdirAll(r.localPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}

	auth, err := r.auth.Auth()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, r.cfg.Poll.Timeout)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, r.localPath, false, &gogit.CloneOptions{
		URL:           r.cfg.Repository,
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(r.cfg.Branch),
		SingleBranch:  true,
		Depth:         r.cfg.Clone.Depth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}
	r.repo = repo

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	return &SyncResult{Result: ResultCloned, ToSHA: head.Hash().String()}, nil
}

func (r *Repository) pull(ctx context.Context) (*SyncResult, error) {
	before, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	auth, err := r.auth.Auth()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, r.cfg.Poll.Timeout)
	defer cancel()

	// Never force: local edits in the clone make the pull fail instead of
	// being overwritten.
	err = worktree.PullContext(pullCtx, &gogit.PullOptions{
		RemoteName:    gogit.DefaultRemoteName,
		ReferenceName: plumbing.NewBranchReferenceName(r.cfg.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("failed to pull: %w", err)
	}

	after, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	result := &SyncResult{
		Result:  ResultUnchanged,
		FromSHA: before.Hash().String(),
		ToSHA:   after.Hash().String(),
	}
	if !result.HadChanges() {
		return result, nil
	}

	result.Result = ResultUpdated
	result.ChangedMaps, err = r.changedMaps(before.Hash(), after.Hash())
	if err != nil {
		return nil, err
	}
	return result, nil
}

// changedMaps diffs two commits and returns the absolute paths of map files
// under the map directory that differ.
func (r *Repository) changedMaps(from, to plumbing.Hash) ([]string, error) {
	fromTree, err := r.commitTree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.commitTree(to)
	if err != nil {
		return nil, err
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	prefix := strings.Trim(path.Clean("/"+filepath.ToSlash(r.cfg.Path)), "/")
	var maps []string
	for _, change := range changes {
		// Renames touch both names.
		for _, name := range []string{change.From.Name, change.To.Name} {
			if name == "" || !r.isMap(name, prefix) {
				continue
			}
			abs := filepath.Join(r.localPath, filepath.FromSlash(name))
			if !slices.Contains(maps, abs) {
				maps = append(maps, abs)
			}
		}
	}
	slices.Sort(maps)
	return maps, nil
}

func (r *Repository) commitTree(hash plumbing.Hash) (*object.Tree, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", shortSHA(hash.String()), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree of %s: %w", shortSHA(hash.String()), err)
	}
	return tree, nil
}

func (r *Repository) isMap(name, prefix string) bool {
	if prefix != "" && !strings.HasPrefix(name, prefix+"/") {
		return false
	}
	ext := strings.ToLower(path.Ext(name))
	for _, e := range r.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Open opens an existing clone without contacting the remote and returns
// its HEAD commit.
func (r *Repository) Open() (*CommitInfo, error) {
	r.mu.Lock()
	if r.repo == nil {
		repo, err := gogit.PlainOpen(r.localPath)
		if err != nil {
			r.mu.Unlock()
			return nil, fmt.Errorf("no clone at %s: %w", r.localPath, err)
		}
		r.repo = repo
	}
	r.mu.Unlock()
	return r.Head()
}

// Head returns metadata about the current HEAD commit.
func (r *Repository) Head() (*CommitInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repo == nil {
		return nil, fmt.Errorf("repository not initialized, call Sync() first")
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &CommitInfo{
		SHA:       commit.Hash.String(),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Timestamp: commit.Author.When,
		Message:   strings.TrimSpace(commit.Message),
		Branch:    r.cfg.Branch,
	}, nil
}
