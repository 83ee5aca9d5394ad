package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureTSV = "processid\tsampleid\tspecies_name\tlat\tlon\tcountry\n" +
	"BIO-001-04\tS1\tParus major\t10.0\t1.0\tChile\n" +
	"BIO-002-07\tS2\tParus major\t12.0\t2.0\tChile\n" +
	"BIO-003-10\tS3\tPica pica\t9.0\t3.0\tChile\n" +
	"BIO-004-05\tS4\tPica pica\t48.8\t2.3\tFrance\n"

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	// Reset sticky flag state that may persist across invocations
	if f := rootCmd.PersistentFlags(); f != nil {
		for _, name := range []string{"out-dir", "delimiter"} {
			if fl := f.Lookup(name); fl != nil {
				_ = fl.Value.Set("")
				fl.Changed = false
			}
		}
	}
	flagOutDir = ""
	flagDelimiter = ""
	aggJSONPath = ""
	repNoAnimate = false
	repTopSpecies = 0
	aniDuration = 0
	aniFPS = 0
	aniFormats = ""
	cfg = nil
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	p := filepath.Join(home, "occurrences.tsv")
	if err := os.WriteFile(p, []byte(fixtureTSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestCLI_AggregateJSON(t *testing.T) {
	p := setupHome(t)
	out := filepath.Join(filepath.Dir(p), "aggregates.json")

	runCmd(t, "aggregate", p, "--json", out)

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read aggregates: %v", err)
	}
	js := string(b)
	if !strings.Contains(js, `"rows_loaded": 4`) {
		t.Fatalf("expected 4 loaded rows in %s", js)
	}
	if !strings.Contains(js, `"Parus major"`) {
		t.Fatalf("expected species counts in %s", js)
	}
}

func TestCLI_ReportWritesArtifacts(t *testing.T) {
	p := setupHome(t)
	outDir := filepath.Join(filepath.Dir(p), "charts")

	runCmd(t, "report", p, "--out-dir", outDir, "--no-animate")

	for _, name := range []string{
		"latitude_boxplot.png",
		"year_histogram.png",
		"species_bar.png",
		"hemisphere_stacked_bar.png",
		"drift_facets.png",
		"summary.md",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	md, err := os.ReadFile(filepath.Join(outDir, "summary.md"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(md), "[RUN SUMMARY]") {
		t.Fatalf("unexpected summary contents: %s", md)
	}
}

func TestCLI_AnimateWritesBothContainers(t *testing.T) {
	p := setupHome(t)
	outDir := filepath.Join(filepath.Dir(p), "anim")

	runCmd(t, "animate", p, "--out-dir", outDir, "--duration", "2", "--fps", "2", "--formats", "gif,avi")

	for _, name := range []string{"occurrence_map.gif", "occurrence_map.avi"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing animation %s: %v", name, err)
		}
	}
}
