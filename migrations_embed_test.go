package main

import (
	"os"
	"regexp"
	"sort"
	"testing"
)

var migrationNameRe = regexp.MustCompile(`^migrations/\d{4}_[a-z0-9_]+\.sql$`)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no embedded migrations")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("migrations not in apply order: %v", names)
	}
	for _, name := range names {
		if !migrationNameRe.MatchString(name) {
			t.Errorf("migration %q does not follow NNNN_name.sql", name)
		}
		data, err := migrationsFS.ReadFile(name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("migration %s is empty", name)
		}
	}
}

func TestAutoMigrateEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" 1 ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		os.Setenv("AUTO_MIGRATE", tt.value)
		if got := autoMigrateEnabled(); got != tt.want {
			t.Errorf("AUTO_MIGRATE=%q: enabled = %v, want %v", tt.value, got, tt.want)
		}
	}
	os.Unsetenv("AUTO_MIGRATE")
}
