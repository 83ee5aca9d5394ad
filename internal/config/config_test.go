package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// point the config path at an empty temp file so no user config interferes
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutDir != "charts" {
		t.Fatalf("expected default out_dir charts, got %q", c.OutDir)
	}
	if c.CenturyBase != 2000 || c.YearMin != 2000 || c.YearMax != 2099 {
		t.Fatalf("unexpected year defaults: %+v", c)
	}
	if c.AnimationDurationSec != 20 || c.AnimationFPS != 10 {
		t.Fatalf("unexpected animation defaults: %+v", c)
	}
	if c.ProcessIDColumn != "processid" || c.SpeciesColumn != "species_name" {
		t.Fatalf("unexpected column defaults: %+v", c)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	content := "out_dir: figures\nanimation_fps: 25\ncentury_base: 1900\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutDir != "figures" {
		t.Fatalf("expected out_dir figures, got %q", c.OutDir)
	}
	if c.AnimationFPS != 25 {
		t.Fatalf("expected fps 25, got %d", c.AnimationFPS)
	}
	if c.CenturyBase != 1900 {
		t.Fatalf("expected century_base 1900, got %d", c.CenturyBase)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c := &Global{OutDir: "out", Delimiter: ",", AnimationFPS: 5}
	if err := Save(c, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.OutDir != "out" || loaded.Delimiter != "," || loaded.AnimationFPS != 5 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestDelimiterRune(t *testing.T) {
	cases := []struct {
		in   string
		want rune
		ok   bool
	}{
		{"tab", '\t', true},
		{"", '\t', true},
		{",", ',', true},
		{";", ';', true},
		{"|", 0, false},
	}
	for _, tc := range cases {
		c := &Global{Delimiter: tc.in}
		got, err := c.DelimiterRune()
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("delimiter %q: got %q, %v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("delimiter %q: expected error", tc.in)
		}
	}
}
