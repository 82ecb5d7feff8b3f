package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	found := false
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one embedded .sql migration")
	}
}
