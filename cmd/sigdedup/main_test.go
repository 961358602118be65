package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/sigdedup/pkg/db"
)

const sampleCSV = `id,cpf,nome,data_nasc,nome_mae,sexo
1,111,Maria Silva,01/01/1990,Ana Souza,F
2,111,Maria Silvia,01/01/1990,Ana Souza,F
3,222,Joao Pereira,02/02/1980,Rita Lima,M
4,222,Carlos Alberto Nunes,05/06/1975,Paula Reis,M
5,333,Pedro Alves,03/03/2000,Clara Alves,M
6,,Sem Chave,09/09/1999,Nina,F
`

type cliEnv struct {
	dir        string
	dbPath     string
	configPath string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	return &cliEnv{
		dir:        dir,
		dbPath:     filepath.Join(dir, "sigdedup.db"),
		configPath: filepath.Join(dir, "sigdedup.toml"),
	}
}

func runCLI(t *testing.T, env *cliEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath, "--db", env.dbPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestCLIInitWritesSample(t *testing.T) {
	env := setupCLIEnv(t)
	sample := filepath.Join(env.dir, "sample.toml")
	out, _, err := runCLI(t, env, "init", "--write-config", sample)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "Database initialized at "+env.dbPath)
	if _, err := os.Stat(sample); err != nil {
		t.Fatalf("expected sample config at %s: %v", sample, err)
	}
}

func TestCLIImportRunReport(t *testing.T) {
	env := setupCLIEnv(t)
	csvPath := filepath.Join(env.dir, "records.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, env, "import", csvPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 6 records")

	out, stderr, err := runCLI(t, env, "run")
	if err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr)
	}
	requireContains(t, out, "ingested records")
	requireContains(t, out, "MATCH")
	requireContains(t, out, "Q002")
	requireContains(t, stderr, "run complete")

	out, _, err = runCLI(t, env, "report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "inconsistency_log")
	requireContains(t, out, "LOW_CONFIDENCE")
	requireContains(t, out, "ingest_pairs")
}

func TestCLIReportUnknownRun(t *testing.T) {
	env := setupCLIEnv(t)
	_, _, err := runCLI(t, env, "report", "missing")
	if !errors.Is(err, db.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestCLIRunRefusesWhenLocked(t *testing.T) {
	env := setupCLIEnv(t)
	lock, err := db.AcquireRunLock(env.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, env, "run")
	if !errors.Is(err, db.ErrRunLocked) {
		t.Fatalf("expected ErrRunLocked, got %v", err)
	}
}

func TestCLIInvalidConfig(t *testing.T) {
	env := setupCLIEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[pipeline]\nworkers = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, env, "run")
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "pipeline.workers")
}
