package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/valvemap/pkg/catalog"
)

func resetCatalogFlags() {
	catalogFlags.format = "text"
	catalogFlags.texture = ""
	catalogFlags.classname = ""
	catalogFlags.dialect = ""
	catalogFlags.prefix = ""
	catalogFlags.failed = false
	catalogFlags.limit = 0
}

// indexedCatalog indexes the named testdata maps into a fresh catalog and
// returns the directory they were copied to.
func indexedCatalog(t *testing.T, names ...string) string {
	t.Helper()

	resetIndexFlags()
	dir := copyTestdata(t, names...)
	cmd, _ := testCommand(t)
	// Parse failures are expected in some fixtures.
	_ = runIndex(cmd, []string{dir})
	return dir
}

func TestCatalogList(t *testing.T) {
	dir := indexedCatalog(t, "start.map", "crates.map", "broken.map")

	tests := []struct {
		name  string
		setup func()
		want  []string
	}{
		{name: "all", setup: func() {}, want: []string{"broken.map", "crates.map", "start.map"}},
		{name: "texture", setup: func() { catalogFlags.texture = "CRATE1" }, want: []string{"crates.map"}},
		{name: "classname", setup: func() { catalogFlags.classname = "light" }, want: []string{"start.map"}},
		{name: "dialect", setup: func() { catalogFlags.dialect = "standard" }, want: []string{"start.map"}},
		{name: "failed", setup: func() { catalogFlags.failed = true }, want: []string{"broken.map"}},
		{name: "limit", setup: func() { catalogFlags.limit = 1 }, want: []string{"broken.map"}},
		{name: "prefix", setup: func() { catalogFlags.prefix = filepath.Join(dir, "st") }, want: []string{"start.map"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCatalogFlags()
			catalogFlags.format = "json"
			tt.setup()
			cmd, out := capturedCommand()

			if err := runCatalogList(cmd, nil); err != nil {
				t.Fatalf("runCatalogList() returned error: %v", err)
			}

			var records []*catalog.MapRecord
			if err := json.Unmarshal(out.Bytes(), &records); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out.String())
			}
			var got []string
			for _, r := range records {
				got = append(got, filepath.Base(r.Path))
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("listed %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalogListInvalidDialect(t *testing.T) {
	resetCatalogFlags()
	catalogFlags.dialect = "quake3"
	cmd, _ := testCommand(t)

	if err := runCatalogList(cmd, nil); err == nil {
		t.Error("runCatalogList() with unknown dialect should return error")
	}
}

func TestCatalogShow(t *testing.T) {
	dir := indexedCatalog(t, "start.map")
	resetCatalogFlags()
	cmd, out := capturedCommand()

	if err := runCatalogShow(cmd, []string{filepath.Join(dir, "start.map")}); err != nil {
		t.Fatalf("runCatalogShow() returned error: %v", err)
	}
	for _, want := range []string{"dialect:   standard", "ground1_6", "worldspawn"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	cmd, _ = capturedCommand()
	err := runCatalogShow(cmd, []string{filepath.Join(dir, "other.map")})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("runCatalogShow() for unknown map error = %v, want ErrNotFound", err)
	}
}

func TestCatalogUsage(t *testing.T) {
	indexedCatalog(t, "start.map", "crates.map")
	resetCatalogFlags()
	catalogFlags.format = "csv"
	cmd, out := capturedCommand()

	if err := runCatalogUsage(cmd, "classnames", (*catalog.Store).ClassNames); err != nil {
		t.Fatalf("runCatalogUsage() returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "NAME,MAPS,TOTAL" {
		t.Errorf("header = %q", lines[0])
	}
	found := false
	for _, line := range lines[1:] {
		if line == "worldspawn,2,2" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected worldspawn in both maps:\n%s", out.String())
	}
}

func TestCatalogRemove(t *testing.T) {
	dir := indexedCatalog(t, "start.map")
	path := filepath.Join(dir, "start.map")
	resetCatalogFlags()

	cmd, out := capturedCommand()
	if err := runCatalogRemove(cmd, []string{path}); err != nil {
		t.Fatalf("runCatalogRemove() returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Removed") {
		t.Errorf("unexpected output: %s", out.String())
	}

	cmd, _ = capturedCommand()
	if err := runCatalogRemove(cmd, []string{path}); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second remove error = %v, want ErrNotFound", err)
	}
}
