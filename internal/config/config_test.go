package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsFormLabelCase(t *testing.T) {
	path := writeConfig(t, `
security:
  encryption_key: test-key
jwt:
  secret: test-secret
fee_structure:
  Form1: 100000
  FORM2: 120000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.FeeStructure["Form1"]; got != 100000 {
		t.Errorf("FeeStructure[Form1] = %d, want 100000", got)
	}
	if got := cfg.FeeStructure["FORM2"]; got != 120000 {
		t.Errorf("FeeStructure[FORM2] = %d, want 120000", got)
	}
	if _, ok := cfg.FeeStructure["form1"]; ok {
		t.Error("form label was lowercased during load")
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
security:
  encryption_key: test-key
jwt:
  secret: test-secret
fee_structure:
  Form1: 100000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port default = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Email.Port != 587 {
		t.Errorf("email.port default = %d, want 587", cfg.Email.Port)
	}
	if cfg.JWT.ExpireHours != 24 {
		t.Errorf("jwt.expire_hours default = %d, want 24", cfg.JWT.ExpireHours)
	}
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name: "missing encryption key",
			contents: `
jwt:
  secret: s
fee_structure:
  Form1: 100000
`,
			want: "encryption_key",
		},
		{
			name: "empty fee structure",
			contents: `
security:
  encryption_key: k
jwt:
  secret: s
`,
			want: "fee_structure",
		},
		{
			name: "non-positive fee",
			contents: `
security:
  encryption_key: k
jwt:
  secret: s
fee_structure:
  Form1: 0
`,
			want: "positive",
		},
		{
			name: "missing jwt secret",
			contents: `
security:
  encryption_key: k
fee_structure:
  Form1: 100000
`,
			want: "jwt.secret",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			if _, err := Load(path); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("want error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should fail")
	}
}
