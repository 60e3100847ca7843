package source

import "time"

// Sync results, as recorded in metrics and logs.
const (
	ResultCloned    = "cloned"
	ResultUpdated   = "updated"
	ResultUnchanged = "unchanged"
	ResultFailed    = "failed"
)

// CommitInfo contains metadata about a Git commit.
type CommitInfo struct {
	SHA       string    `json:"sha" yaml:"sha"`
	Author    string    `json:"author" yaml:"author"`
	Email     string    `json:"email" yaml:"email"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Message   string    `json:"message" yaml:"message"`
	Branch    string    `json:"branch" yaml:"branch"`
}

// ShortSHA returns the first eight characters of the commit hash.
func (c *CommitInfo) ShortSHA() string {
	return shortSHA(c.SHA)
}

// SyncResult describes one clone or pull.
type SyncResult struct {
	// Result is one of the Result* constants.
	Result string `json:"result" yaml:"result"`

	// FromSHA is HEAD before the sync; empty after a fresh clone.
	FromSHA string `json:"from_sha,omitempty" yaml:"from_sha,omitempty"`

	// ToSHA is HEAD after the sync.
	ToSHA string `json:"to_sha" yaml:"to_sha"`

	// ChangedMaps are absolute paths of map files under the map directory
	// that were added, modified or deleted between FromSHA and ToSHA.
	// Deleted files no longer exist on disk.
	ChangedMaps []string `json:"changed_maps,omitempty" yaml:"changed_maps,omitempty"`
}

// HadChanges reports whether HEAD moved.
func (r *SyncResult) HadChanges() bool {
	return r.FromSHA != r.ToSHA
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
