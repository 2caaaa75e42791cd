package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetAfter removes keys a test loads from a dotenv file.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if _, ok := os.LookupEnv(k); ok {
			t.Fatalf("%s must not be set before the test", k)
		}
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unsetAfter(t, "ROASTCALC_TEST_A", "ROASTCALC_TEST_B", "ROASTCALC_TEST_C")

	path := filepath.Join(t.TempDir(), ".env")
	content := []byte(`
# comment

ROASTCALC_TEST_A=one
export ROASTCALC_TEST_B=two
ROASTCALC_TEST_C="three"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	for k, want := range map[string]string{
		"ROASTCALC_TEST_A": "one",
		"ROASTCALC_TEST_B": "two",
		"ROASTCALC_TEST_C": "three",
	} {
		if got := os.Getenv(k); got != want {
			t.Fatalf("%s=%q, want %q", k, got, want)
		}
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("KEEP=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}
