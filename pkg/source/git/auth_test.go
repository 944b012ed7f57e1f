package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"drools-graph/drlx/pkg/config"
)

func TestNewAuthProvider(t *testing.T) {
	const (
		httpsURL = "https://example.com/team/rules.git"
		sshURL   = "git@example.com:team/rules.git"
	)

	tests := []struct {
		name     string
		cfg      *config.GitAuthConfig
		url      string
		wantType string
		wantErr  bool
	}{
		{name: "nil", cfg: nil, url: httpsURL, wantErr: true},
		{name: "auto local path", cfg: &config.GitAuthConfig{}, url: "/srv/rules", wantType: "none"},
		{name: "auto file url", cfg: &config.GitAuthConfig{Type: "auto", Token: "t"}, url: "file:///srv/rules", wantType: "none"},
		{name: "auto https anonymous", cfg: &config.GitAuthConfig{Type: "auto"}, url: httpsURL, wantType: "none"},
		{name: "auto https token", cfg: &config.GitAuthConfig{Type: "auto", Token: "t"}, url: httpsURL, wantType: "token"},
		{name: "auto https token file", cfg: &config.GitAuthConfig{Type: "auto", Token: "t", TokenFile: "/run/tok"}, url: httpsURL, wantType: "token_file"},
		{name: "auto ssh key", cfg: &config.GitAuthConfig{Type: "auto", SSHKeyPath: "/k"}, url: sshURL, wantType: "ssh"},
		{name: "auto ssh agent", cfg: &config.GitAuthConfig{Type: "auto", Token: "t"}, url: sshURL, wantType: "ssh_agent"},
		{name: "none", cfg: &config.GitAuthConfig{Type: "none"}, url: httpsURL, wantType: "none"},
		{name: "token", cfg: &config.GitAuthConfig{Type: "token", Token: "ghp_x"}, url: httpsURL, wantType: "token"},
		{name: "token missing", cfg: &config.GitAuthConfig{Type: "token"}, url: httpsURL, wantErr: true},
		{name: "token over ssh", cfg: &config.GitAuthConfig{Type: "token", Token: "t"}, url: sshURL, wantErr: true},
		{name: "ssh", cfg: &config.GitAuthConfig{Type: "ssh", SSHKeyPath: "/k"}, url: sshURL, wantType: "ssh"},
		{name: "ssh agent", cfg: &config.GitAuthConfig{Type: "ssh"}, url: "ssh://deploy@example.com/rules.git", wantType: "ssh_agent"},
		{name: "ssh over https", cfg: &config.GitAuthConfig{Type: "ssh", SSHKeyPath: "/k"}, url: httpsURL, wantErr: true},
		{name: "unknown", cfg: &config.GitAuthConfig{Type: "ldap"}, url: httpsURL, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewAuthProvider(tt.cfg, tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAuthProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.Type() != tt.wantType {
				t.Errorf("Type() = %q, want %q", p.Type(), tt.wantType)
			}
		})
	}
}

func TestNewAuthProvider_UserFromURL(t *testing.T) {
	p, err := NewAuthProvider(&config.GitAuthConfig{Token: "t"}, "https://oauth2@example.com/rules.git")
	if err != nil {
		t.Fatalf("NewAuthProvider() error = %v", err)
	}
	auth, err := p.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	if basic := auth.(*http.BasicAuth); basic.Username != "oauth2" {
		t.Errorf("Username = %q, want oauth2", basic.Username)
	}
}

func TestTokenAuth_GetAuth(t *testing.T) {
	auth, err := NewTokenAuth("secret").GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	basic, ok := auth.(*http.BasicAuth)
	if !ok {
		t.Fatalf("GetAuth() returned %T", auth)
	}
	if basic.Password != "secret" {
		t.Errorf("Password = %q", basic.Password)
	}

	if _, err := NewTokenAuth("").GetAuth(); err == nil {
		t.Error("empty token should fail")
	}
}

func TestTokenFileAuth_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	a := NewTokenFileAuth(path)

	if _, err := a.GetAuth(); err == nil {
		t.Error("missing token file should fail")
	}

	for _, token := range []string{"first", "second"} {
		if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		auth, err := a.GetAuth()
		if err != nil {
			t.Fatalf("GetAuth() error = %v", err)
		}
		if got := auth.(*http.BasicAuth).Password; got != token {
			t.Errorf("Password = %q, want %q", got, token)
		}
	}

	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := a.GetAuth(); err == nil {
		t.Error("blank token file should fail")
	}
}

func TestSSHAuth_GetAuth(t *testing.T) {
	if _, err := NewSSHAuth("", "").GetAuth(); err == nil {
		t.Error("empty key path should fail")
	}
	if _, err := NewSSHAuth(filepath.Join(t.TempDir(), "missing"), "").GetAuth(); err == nil {
		t.Error("missing key should fail")
	}

	key := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(key, []byte("not a key"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSSHAuth(key, "").GetAuth(); err == nil {
		t.Error("world-readable key should fail")
	}

	if err := os.Chmod(key, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSSHAuth(key, "").GetAuth(); err == nil {
		t.Error("malformed key should fail")
	}
}

func TestNoAuth_GetAuth(t *testing.T) {
	auth, err := NoAuth{}.GetAuth()
	if err != nil || auth != nil {
		t.Errorf("GetAuth() = %v, %v", auth, err)
	}
}
