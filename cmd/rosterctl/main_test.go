package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/types"
)

// execute runs rosterctl with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func addArgs(data, name string, absenteeism, performance, compensation string) []string {
	return []string{
		"--data", data, "add",
		"--name", name,
		"--role", "analista",
		"--city", "natal",
		"--education", "superior",
		"--specialty", "ti",
		"--compensation", compensation,
		"--absenteeism", absenteeism,
		"--performance", performance,
	}
}

func TestRosterctl(t *testing.T) {
	chdir(t, t.TempDir())
	data := filepath.Join(t.TempDir(), "servers.json")

	for _, a := range [][]string{
		addArgs(data, "first", "1", "90", "5000"),
		addArgs(data, "Second", "2", "80", "5000"),
		addArgs(data, "third", "3", "70", "5000"),
	} {
		out, err := execute(t, a...)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if !strings.HasPrefix(out, "stored ") {
			t.Fatalf("add output: %q", out)
		}
	}

	t.Run("alphabetical", func(t *testing.T) {
		out, err := execute(t, "--data", data, "alphabetical")
		if err != nil {
			t.Fatal(err)
		}
		first, second, third := strings.Index(out, "FIRST"), strings.Index(out, "SECOND"), strings.Index(out, "THIRD")
		if first < 0 || first > second || second > third {
			t.Fatalf("unexpected order:\n%s", out)
		}
	})

	t.Run("compensation as json", func(t *testing.T) {
		out, err := execute(t, "--data", data, "-o", "json", "compensation")
		if err != nil {
			t.Fatal(err)
		}
		var rows []types.CompensationEntry
		if err := json.Unmarshal([]byte(out), &rows); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		if len(rows) != 3 || rows[1].Name != "SECOND" || rows[1].Role != "ANALISTA" {
			t.Fatalf("rows: %+v", rows)
		}
	})

	t.Run("service time", func(t *testing.T) {
		out, err := execute(t, "--data", data, "service-time")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "DAYS") || strings.Count(out, "\n") != 4 {
			t.Fatalf("unexpected table:\n%s", out)
		}
	})

	t.Run("similar", func(t *testing.T) {
		out, err := execute(t, "--data", data, "-o", "json", "similar", "FIRST", "-k", "1")
		if err != nil {
			t.Fatal(err)
		}
		var resp types.SimilarResponse
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Neighbors) != 1 || resp.Neighbors[0].Name != "SECOND" {
			t.Fatalf("neighbours: %+v", resp.Neighbors)
		}
	})

	t.Run("similar unknown", func(t *testing.T) {
		_, err := execute(t, "--data", data, "similar", "unknown", "-k", "2")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("similar with an explicit k below one", func(t *testing.T) {
		for _, k := range []string{"0", "-1"} {
			_, err := execute(t, "--data", data, "similar", "FIRST", "-k", k)
			if !errors.Is(err, model.ErrValidation) {
				t.Fatalf("k=%s: got %v", k, err)
			}
		}
	})

	t.Run("similar without k uses the default", func(t *testing.T) {
		out, err := execute(t, "--data", data, "-o", "json", "similar", "FIRST")
		if err != nil {
			t.Fatal(err)
		}
		var resp types.SimilarResponse
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.K != 3 || len(resp.Neighbors) != 2 {
			t.Fatalf("resp: %+v", resp)
		}
	})

	t.Run("add without a name", func(t *testing.T) {
		_, err := execute(t, addArgs(data, "  ", "1", "1", "1")...)
		if !errors.Is(err, model.ErrValidation) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("unknown output format", func(t *testing.T) {
		if _, err := execute(t, "--data", data, "-o", "xml", "alphabetical"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
