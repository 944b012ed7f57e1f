package git

import "time"

// CommitInfo describes the commit a parse run was taken from.
type CommitInfo struct {
	SHA        string    `json:"sha" yaml:"sha"`
	Author     string    `json:"author" yaml:"author"`
	Email      string    `json:"email" yaml:"email"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Message    string    `json:"message" yaml:"message"`
	Branch     string    `json:"branch" yaml:"branch"`
	Repository string    `json:"repository" yaml:"repository"`
}

// PullResult is the outcome of Pull.
type PullResult struct {
	FromSHA string
	ToSHA   string
	// ChangedFiles holds repository-relative paths touched between the two
	// commits, filtered to rule files under the configured path.
	ChangedFiles []string
	HadChanges   bool
}

// Stats counts repository operations.
type Stats struct {
	CloneDuration   time.Duration
	PullDuration    time.Duration
	LastCommitSHA   string
	LastPullTime    time.Time
	FailedPulls     int64
	SuccessfulPulls int64
}
