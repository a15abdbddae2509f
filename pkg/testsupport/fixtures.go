package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// ReadFixture returns the contents of a testdata file, failing t when it is missing.
func ReadFixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// ReadGolden decodes a JSON golden file into v.
func ReadGolden(t testing.TB, path string, v any) {
	t.Helper()
	if err := json.Unmarshal(ReadFixture(t, path), v); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
}
