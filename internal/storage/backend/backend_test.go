package backend

import (
	"context"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		url     string
		kind    Kind
		target  string
		wantErr bool
	}{
		{url: "sqlite://./data/clubs.db", kind: KindSQLite, target: "./data/clubs.db"},
		{url: "/var/lib/clubs.db", kind: KindSQLite, target: "/var/lib/clubs.db"},
		{url: "postgres://u:p@db/clubs", kind: KindPostgres, target: "postgres://u:p@db/clubs"},
		{url: "postgresql://db/clubs", kind: KindPostgres, target: "postgresql://db/clubs"},
		{url: "mysql://db/clubs", wantErr: true},
		{url: "sqlite://", wantErr: true},
		{url: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			kind, target, err := Resolve(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) expected error", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.url, err)
			}
			if kind != tt.kind || target != tt.target {
				t.Errorf("Resolve(%q) = %s, %s; want %s, %s", tt.url, kind, target, tt.kind, tt.target)
			}
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "clubs.db")
	store, kind, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	if kind != KindSQLite {
		t.Errorf("kind = %s, want sqlite", kind)
	}
}
