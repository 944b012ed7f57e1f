package git

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"drools-graph/drlx/pkg/config"
)

// defaultGitUser is used when the rule repository URL names no user.
const defaultGitUser = "git"

// AuthProvider supplies transport credentials for a rule repository.
type AuthProvider interface {
	// GetAuth returns the go-git transport authentication method. A nil
	// method with a nil error means anonymous access.
	GetAuth() (transport.AuthMethod, error)

	// Type names the provider for logging.
	Type() string
}

// TokenAuth authenticates over HTTPS with an access token. When a token
// file is set it is read on every GetAuth, so a rotated token is picked
// up by the next scheduled pull without restarting the watcher.
type TokenAuth struct {
	user  string
	token string
	file  string
}

// NewTokenAuth creates a provider for a fixed token.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{user: defaultGitUser, token: token}
}

// NewTokenFileAuth creates a provider that reads its token from path.
func NewTokenFileAuth(path string) *TokenAuth {
	return &TokenAuth{user: defaultGitUser, file: path}
}

// GetAuth returns HTTP basic auth carrying the token as password.
func (a *TokenAuth) GetAuth() (transport.AuthMethod, error) {
	token := a.token
	if a.file != "" {
		data, err := os.ReadFile(a.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}
	return &http.BasicAuth{Username: a.user, Password: token}, nil
}

func (a *TokenAuth) Type() string {
	if a.file != "" {
		return "token_file"
	}
	return "token"
}

// SSHAuth authenticates with a private key file.
type SSHAuth struct {
	user       string
	keyPath    string
	passphrase string
}

// NewSSHAuth creates an SSH key provider. passphrase may be empty.
func NewSSHAuth(keyPath, passphrase string) *SSHAuth {
	return &SSHAuth{user: defaultGitUser, keyPath: keyPath, passphrase: passphrase}
}

// GetAuth loads the key. Keys readable by group or others are refused.
func (a *SSHAuth) GetAuth() (transport.AuthMethod, error) {
	if a.keyPath == "" {
		return nil, fmt.Errorf("ssh key path cannot be empty")
	}

	info, err := os.Stat(a.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access SSH key file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
	}

	auth, err := ssh.NewPublicKeysFromFile(a.user, a.keyPath, a.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return auth, nil
}

func (a *SSHAuth) Type() string { return "ssh" }

// SSHAgentAuth authenticates through the running ssh-agent. The agent is
// contacted on GetAuth, not at construction.
type SSHAgentAuth struct {
	user string
}

func (a *SSHAgentAuth) GetAuth() (transport.AuthMethod, error) {
	auth, err := ssh.NewSSHAgentAuth(a.user)
	if err != nil {
		return nil, fmt.Errorf("failed to reach ssh-agent: %w", err)
	}
	return auth, nil
}

func (a *SSHAgentAuth) Type() string { return "ssh_agent" }

// NoAuth is used for public repositories and local paths.
type NoAuth struct{}

func (NoAuth) GetAuth() (transport.AuthMethod, error) { return nil, nil }

func (NoAuth) Type() string { return "none" }

// NewAuthProvider picks a provider for the rule repository at repoURL.
//
// With cfg.Type "auto" (or empty) the URL's transport decides: local and
// file URLs need nothing, ssh URLs use the configured key or else the
// ssh-agent, and http(s) URLs use a configured token or else go
// anonymous. An explicit type that cannot work over the URL's transport
// is an error.
func NewAuthProvider(cfg *config.GitAuthConfig, repoURL string) (AuthProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth config cannot be nil")
	}

	ep, err := transport.NewEndpoint(repoURL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", repoURL, err)
	}
	user := ep.User
	if user == "" {
		user = defaultGitUser
	}

	switch cfg.Type {
	case "auto", "":
		return autoAuth(cfg, ep.Protocol, user), nil
	case "token":
		if !isHTTP(ep.Protocol) {
			return nil, fmt.Errorf("token auth needs an http(s) repository, got %s", ep.Protocol)
		}
		return tokenAuth(cfg, user)
	case "ssh":
		if ep.Protocol != "ssh" {
			return nil, fmt.Errorf("ssh auth needs an ssh repository, got %s", ep.Protocol)
		}
		if cfg.SSHKeyPath == "" {
			return &SSHAgentAuth{user: user}, nil
		}
		return sshKeyAuth(cfg, user), nil
	case "none":
		return NoAuth{}, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}

func autoAuth(cfg *config.GitAuthConfig, protocol, user string) AuthProvider {
	switch {
	case protocol == "ssh" && cfg.SSHKeyPath != "":
		return sshKeyAuth(cfg, user)
	case protocol == "ssh":
		return &SSHAgentAuth{user: user}
	case isHTTP(protocol) && (cfg.Token != "" || cfg.TokenFile != ""):
		p, _ := tokenAuth(cfg, user)
		return p
	default:
		return NoAuth{}
	}
}

func tokenAuth(cfg *config.GitAuthConfig, user string) (AuthProvider, error) {
	switch {
	case cfg.TokenFile != "":
		a := NewTokenFileAuth(cfg.TokenFile)
		a.user = user
		return a, nil
	case cfg.Token != "":
		a := NewTokenAuth(cfg.Token)
		a.user = user
		return a, nil
	default:
		return nil, fmt.Errorf("token auth requires token or token_file")
	}
}

func sshKeyAuth(cfg *config.GitAuthConfig, user string) *SSHAuth {
	a := NewSSHAuth(cfg.SSHKeyPath, cfg.SSHKeyPassphrase)
	a.user = user
	return a
}

func isHTTP(protocol string) bool {
	return protocol == "http" || protocol == "https"
}
