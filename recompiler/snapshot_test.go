package recompiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
)

// TestSnapshots is the golden snapshot test for the end-to-end recompile
// scenarios: for each scenario it compiles a tiny GCN instruction stream
// with -dump-ir-equivalent tracing enabled and compares the lifted-but-not-
// yet-structurized IR text against testdata/golden/<name>.dump, the way the
// teacher's snapshot package compares each backend's output against
// testdata/golden/<backend>/<shader>.
//
// To add a scenario's golden file after changing its expected shape, run
// with UPDATE_GOLDEN=1.
func TestSnapshots(t *testing.T) {
	scenarios := []struct {
		name  string
		words map[uint64]uint32
	}{
		{
			name: "empty_shader",
			words: map[uint64]uint32{
				0: encodeSopp(dialect.SoppEndPgm, 0),
			},
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			var dump bytes.Buffer
			opts := DefaultOptions()
			opts.DumpIR = &dump

			env := DefaultEnvironment()
			if _, err := Compile(wordReader(sc.words), &env, mustEmptySemanticModuleData(t), 0, opts); err != nil {
				t.Fatalf("Compile: %v", err)
			}

			compareGolden(t, filepath.Join("testdata", "golden", sc.name+".dump"), dump.String())
		})
	}
}

// compareGolden compares actual against the golden file at path, following
// the teacher's UPDATE_GOLDEN convention.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nActual output:\n%s", path, actual)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	actualStr := strings.ReplaceAll(actual, "\r\n", "\n")
	if expectedStr != actualStr {
		t.Errorf("output differs from golden %s:\n%s", path, diffLines(expectedStr, actualStr))
	}
}

// diffLines reports the first differing line and a few lines of context,
// the way the teacher's snapshot package's diffStrings does.
func diffLines(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	maxLines := len(expectedLines)
	if len(actualLines) > maxLines {
		maxLines = len(actualLines)
	}

	firstDiff := -1
	for i := 0; i < maxLines; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			firstDiff = i
			break
		}
	}
	if firstDiff < 0 {
		return "(no difference found)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "first difference at line %d (expected %d lines, got %d lines)\n",
		firstDiff+1, len(expectedLines), len(actualLines))
	start := firstDiff - 3
	if start < 0 {
		start = 0
	}
	end := firstDiff + 4
	if end > maxLines {
		end = maxLines
	}
	for i := start; i < end; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		marker := " "
		if e != a {
			marker = "!"
		}
		fmt.Fprintf(&sb, "%s %4d expected: %s\n", marker, i+1, e)
		if e != a {
			fmt.Fprintf(&sb, "%s %4d actual:   %s\n", marker, i+1, a)
		}
	}
	return sb.String()
}
