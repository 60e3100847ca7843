package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"mercator-hq/valvemap/pkg/config"
)

func TestNewAuthProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.GitAuthConfig
		wantType string
		wantErr  bool
	}{
		{"nil", nil, "", true},
		{"default", &config.GitAuthConfig{}, "none", false},
		{"none", &config.GitAuthConfig{Type: "none"}, "none", false},
		{"token", &config.GitAuthConfig{Type: "token", Token: "ghp_x"}, "token", false},
		{"token missing", &config.GitAuthConfig{Type: "token"}, "", true},
		{"ssh", &config.GitAuthConfig{Type: "ssh", SSHKeyPath: "/keys/id_ed25519"}, "ssh", false},
		{"ssh missing key", &config.GitAuthConfig{Type: "ssh"}, "", true},
		{"unknown", &config.GitAuthConfig{Type: "kerberos"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewAuthProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAuthProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.Type() != tt.wantType {
				t.Errorf("Type() = %q, want %q", p.Type(), tt.wantType)
			}
		})
	}
}

func TestTokenAuth(t *testing.T) {
	auth, err := (&TokenAuth{token: "secret"}).Auth()
	if err != nil {
		t.Fatalf("Auth() failed: %v", err)
	}
	basic, ok := auth.(*http.BasicAuth)
	if !ok {
		t.Fatalf("Auth() returned %T, want *http.BasicAuth", auth)
	}
	if basic.Password != "secret" {
		t.Errorf("Password = %q, want secret", basic.Password)
	}

	if _, err := (&TokenAuth{}).Auth(); err == nil {
		t.Error("empty token should fail")
	}
}

func TestSSHAuth_Errors(t *testing.T) {
	dir := t.TempDir()

	open := filepath.Join(dir, "open_key")
	if err := os.WriteFile(open, []byte("not a key"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&SSHAuth{keyPath: open}).Auth(); err == nil || !strings.Contains(err.Error(), "too open") {
		t.Errorf("Auth() error = %v, want permissions error", err)
	}

	garbage := filepath.Join(dir, "garbage_key")
	if err := os.WriteFile(garbage, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (&SSHAuth{keyPath: garbage}).Auth(); err == nil || !strings.Contains(err.Error(), "failed to load SSH key") {
		t.Errorf("Auth() error = %v, want load error", err)
	}

	if _, err := (&SSHAuth{keyPath: filepath.Join(dir, "missing")}).Auth(); err == nil {
		t.Error("missing key file should fail")
	}
}

func TestNoAuth(t *testing.T) {
	auth, err := NoAuth{}.Auth()
	if auth != nil || err != nil {
		t.Errorf("Auth() = %v, %v; want nil, nil", auth, err)
	}
}
