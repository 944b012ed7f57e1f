package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"drools-graph/drlx/pkg/config"
)

// Repository keeps a local clone of a rule repository in sync with its
// remote branch.
type Repository struct {
	config     *config.GitConfig
	localPath  string
	extensions []string
	auth       AuthProvider
	repo       *gogit.Repository
	mu         sync.RWMutex
	stats      *Stats
}

// NewRepository creates a repository manager. extensions selects which
// files ListRuleFiles and Pull report; nil means ".drl".
func NewRepository(cfg *config.GitConfig, extensions []string) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("branch cannot be empty")
	}

	auth, err := NewAuthProvider(&cfg.Auth, cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	localPath := cfg.Clone.LocalPath
	if localPath == "" {
		localPath = filepath.Join(os.TempDir(), "drlx-rules")
	}

	if len(extensions) == 0 {
		extensions = []string{".drl"}
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}

	return &Repository{
		config:     cfg,
		localPath:  localPath,
		extensions: exts,
		auth:       auth,
		stats:      &Stats{},
	}, nil
}

func (r *Repository) timeout() time.Duration {
	if r.config.Timeout > 0 {
		return r.config.Timeout
	}
	return config.DefaultGitTimeout
}

// Clone makes the local copy available. An existing clone at the local
// path is opened instead, unless CleanOnStart removes it first.
func (r *Repository) Clone(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.stats.CloneDuration = time.Since(start)
	}()

	if r.config.Clone.CleanOnStart {
		if err := os.RemoveAll(r.localPath); err != nil {
			return fmt.Errorf("failed to clean existing repository: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(r.localPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(r.localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo: %w", err)
		}
		r.repo = repo
		return nil
	}

	if err := os.MkdirAll(r.localPath, 0o755); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}

	auth, err := r.auth.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to get auth: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, r.localPath, false, &gogit.CloneOptions{
		URL:           r.config.Repository,
		ReferenceName: plumbing.NewBranchReferenceName(r.config.Branch),
		SingleBranch:  r.config.Clone.Depth > 0,
		Depth:         r.config.Clone.Depth,
		Auth:          auth,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}

	r.repo = repo
	return nil
}

// Pull fetches the tracked branch and reports which rule files changed.
func (r *Repository) Pull(ctx context.Context) (*PullResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.stats.PullDuration = time.Since(start)
		r.stats.LastPullTime = time.Now()
	}()

	if r.repo == nil {
		return nil, fmt.Errorf("repository not initialized, call Clone() first")
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	fromSHA := ref.Hash().String()

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	auth, err := r.auth.GetAuth()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	err = worktree.PullContext(pullCtx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(r.config.Branch),
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		r.stats.FailedPulls++
		return nil, fmt.Errorf("failed to pull: %w", err)
	}
	r.stats.SuccessfulPulls++

	newRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get new HEAD: %w", err)
	}
	toSHA := newRef.Hash().String()

	result := &PullResult{
		FromSHA:    fromSHA,
		ToSHA:      toSHA,
		HadChanges: fromSHA != toSHA,
	}
	if result.HadChanges {
		changed, err := r.changedFiles(fromSHA, toSHA)
		if err != nil {
			return nil, fmt.Errorf("failed to get changed files: %w", err)
		}
		result.ChangedFiles = changed
		r.stats.LastCommitSHA = toSHA
	}
	return result, nil
}

// GetCurrentCommit describes HEAD.
func (r *Repository) GetCurrentCommit() (*CommitInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.repo == nil {
		return nil, fmt.Errorf("repository not initialized, call Clone() first")
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	return r.commitInfo(commit), nil
}

func (r *Repository) commitInfo(c *object.Commit) *CommitInfo {
	return &CommitInfo{
		SHA:        c.Hash.String(),
		Author:     c.Author.Name,
		Email:      c.Author.Email,
		Timestamp:  c.Author.When,
		Message:    strings.TrimSpace(c.Message),
		Branch:     r.config.Branch,
		Repository: r.config.Repository,
	}
}

// ListRuleFiles returns the rule files under the configured path, sorted.
// Hidden files and directories are skipped.
func (r *Repository) ListRuleFiles() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root := filepath.Join(r.localPath, r.config.Path)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("rules path does not exist: %w", err)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && r.isRuleFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk rules directory: %w", err)
	}

	slices.Sort(files)
	return files, nil
}

// changedFiles returns the rule files touched between two commits, as
// repository-relative paths. The caller holds r.mu.
func (r *Repository) changedFiles(fromSHA, toSHA string) ([]string, error) {
	if r.repo == nil {
		return nil, fmt.Errorf("repository not initialized")
	}

	fromCommit, err := r.repo.CommitObject(plumbing.NewHash(fromSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}
	toCommit, err := r.repo.CommitObject(plumbing.NewHash(toSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	prefix := strings.Trim(filepath.ToSlash(r.config.Path), "/")
	var files []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			// deleted
			name = change.From.Name
		}
		if prefix != "" && name != prefix && !strings.HasPrefix(name, prefix+"/") {
			continue
		}
		if r.isRuleFile(name) {
			files = append(files, name)
		}
	}
	slices.Sort(files)
	return files, nil
}

func (r *Repository) isRuleFile(path string) bool {
	return slices.Contains(r.extensions, strings.ToLower(filepath.Ext(path)))
}

// Stats returns a copy of the operation counters.
func (r *Repository) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return *r.stats
}

// AuthType names the credential source chosen for the repository.
func (r *Repository) AuthType() string {
	return r.auth.Type()
}

// LocalPath is where the clone lives.
func (r *Repository) LocalPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.localPath
}

// RulesDir is the directory that holds the rule files inside the clone.
func (r *Repository) RulesDir() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filepath.Join(r.localPath, r.config.Path)
}
