package config

import "testing"

func TestSnapshotStableAcrossRepositoryOrder(t *testing.T) {
	a := Default()
	a.Packs = &PacksConfig{Root: "./packs", Repositories: []PackRepository{
		{URL: "https://example/a.git", Name: "a", Branch: "main"},
		{URL: "https://example/b.git", Name: "b", Branch: "main"},
	}}
	b := Default()
	b.Packs = &PacksConfig{Root: "./packs", Repositories: []PackRepository{
		{URL: "https://example/b.git", Name: "b", Branch: "main"},
		{URL: "https://example/a.git", Name: "a", Branch: "main"},
	}}
	if a.Snapshot() != b.Snapshot() {
		t.Fatal("expected snapshots equal regardless of repository order")
	}
}

func TestSnapshotDetectsMeaningfulChange(t *testing.T) {
	c := Default()
	snap1 := c.Snapshot()
	c.Listener.Addr = "127.0.0.1:6666"
	snap2 := c.Snapshot()
	if snap1 == snap2 {
		t.Fatal("expected snapshot change after listener address modification")
	}
}

func TestSnapshotNil(t *testing.T) {
	var c *Config
	if c.Snapshot() != "" {
		t.Fatal("nil config should produce empty snapshot")
	}
}
