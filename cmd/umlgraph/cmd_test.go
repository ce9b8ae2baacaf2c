// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/invowk/umlgraph/internal/config"
	"github.com/invowk/umlgraph/internal/issue"
	"github.com/invowk/umlgraph/internal/testutil"
	"github.com/invowk/umlgraph/pkg/document"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/transform"
)

const shopDocument = `{
  "id": "shop",
  "modelTypeName": "Yellicode YML",
  "model": {"elementType": "model", "id": "model", "name": "Shop", "packagedElements": [
    {"elementType": "class", "id": "order", "name": "Order",
     "generalizations": [{"elementType": "generalization", "general": "entity"}],
     "ownedAttributes": [
       {"elementType": "property", "id": "order.lines", "name": "lines", "type": "line", "visibility": "public",
        "lowerValue": {"elementType": "literalInteger", "value": 0},
        "upperValue": {"elementType": "literalUnlimitedNatural", "value": "*"}}
     ],
     "ownedOperations": [
       {"elementType": "operation", "id": "order.total", "name": "total", "ownedParameters": [
         {"elementType": "parameter", "id": "order.total.tax", "name": "tax", "direction": "in", "type": "real_id"},
         {"elementType": "parameter", "id": "order.total.return", "direction": "return", "type": "real_id"}
       ]}
     ]},
    {"elementType": "class", "id": "entity", "name": "Entity", "isAbstract": true},
    {"elementType": "class", "id": "line", "name": "Line"},
    {"elementType": "package", "id": "sub", "name": "sub", "packagedElements": [
      {"elementType": "dataType", "id": "money", "name": "Money"}
    ]}
  ]}
}`

const cycleDocument = `{
  "id": "cycle",
  "modelTypeName": "Yellicode YML",
  "model": {"elementType": "model", "id": "model", "name": "M", "packagedElements": [
    {"elementType": "class", "id": "x", "name": "X", "ownedAttributes": [{"elementType": "property", "id": "x.y", "name": "y", "type": "y"}]},
    {"elementType": "class", "id": "y", "name": "Y", "ownedAttributes": [{"elementType": "property", "id": "y.x", "name": "x", "type": "x"}]},
    {"elementType": "class", "id": "free", "name": "Free"}
  ]}
}`

const danglingDocument = `{
  "id": "dangling",
  "modelTypeName": "Yellicode YML",
  "model": {"elementType": "model", "id": "model", "name": "M", "packagedElements": [
    {"elementType": "class", "id": "a", "name": "A", "ownedAttributes": [{"elementType": "property", "id": "a.b", "name": "b", "type": "nowhere"}]}
  ]}
}`

func TestMain(m *testing.M) {
	// plain output for string assertions
	os.Setenv("NO_COLOR", "1")
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"umlgraph": func() int { return int(Run()) },
	}))
}

type stubConfigProvider struct {
	cfg *config.Config
	err error
}

func (s stubConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), nil
	}
	return s.cfg, nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := executeCLI(t, context.Background(), cfg, &stdout, &stderr, args...)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func executeCLI(t *testing.T, ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, args ...string) error {
	t.Helper()

	app, err := NewApp(Dependencies{
		Config: stubConfigProvider{cfg: cfg},
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// syncBuffer is a bytes.Buffer safe for a command writing while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testutil.MustWriteFile(t, dir, name, content)
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	if err != nil {
		return -1
	}
	return 0
}

// packagedIDs decodes a written document and returns the ids packaged
// directly in its model.
func packagedIDs(t *testing.T, data []byte) []string {
	t.Helper()
	var doc struct {
		ID    string `json:"id"`
		Model struct {
			PackagedElements []struct {
				ID string `json:"id"`
			} `json:"packagedElements"`
		} `json:"model"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not a JSON document: %v\n%s", err, data)
	}
	ids := make([]string, 0, len(doc.Model.PackagedElements))
	for _, pe := range doc.Model.PackagedElements {
		ids = append(ids, pe.ID)
	}
	return ids
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: mutates package-level Version/Commit/BuildDate vars.

	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop := writeFile(t, dir, "shop.json", shopDocument)
	dangling := writeFile(t, dir, "dangling.json", danglingDocument)
	syntax := writeFile(t, dir, "syntax.json", `{"id": }`)
	openCUE := writeFile(t, dir, "open.cue", `elementType: "model", packagedElements: [{elementType: "class", name: string}]`)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"valid", []string{"validate", shop}, 0, "Model is valid", ""},
		{"warnings pass", []string{"validate", dangling}, 0, "Model is valid", "dangling_reference"},
		{"strict fails on warnings", []string{"validate", "--strict", dangling}, 1, "", "Validation failed with 1 issue(s)"},
		{"missing file", []string{"validate", filepath.Join(dir, "missing.json")}, 1, "", "failed to load model document"},
		{"bad format flag", []string{"validate", "--from", "xml", shop}, 1, "", "unknown document format"},
		{"syntax error offset", []string{"validate", syntax}, 1, "", "syntax.json at byte "},
		{"cue error path", []string{"validate", openCUE}, 1, "", "open.cue at packagedElements[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, nil, tt.args...)
			if got := exitCode(res.err); got != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", got, tt.wantCode, res.stderr)
			}
			if !strings.Contains(res.stdout, tt.wantOut) {
				t.Errorf("stdout missing %q:\n%s", tt.wantOut, res.stdout)
			}
			if !strings.Contains(res.stderr, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, res.stderr)
			}
		})
	}
}

func TestValidateWatchStopsWithContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.json", `{"id": "broken"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	err := executeCLI(t, ctx, nil, &stdout, &stderr, "validate", "--watch", broken)
	if err != nil {
		t.Fatalf("validate --watch error = %v", err)
	}
	if !strings.Contains(stderr.String(), "failed to load model document") {
		t.Errorf("initial failure not reported:\n%s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Watching "+dir) {
		t.Errorf("stdout missing watch banner:\n%s", stdout.String())
	}
}

func TestValidateWatchRevalidatesOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop := writeFile(t, dir, "shop.json", shopDocument)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	errCh := make(chan error, 1)
	go func() {
		errCh <- executeCLI(t, ctx, nil, stdout, stderr, "validate", "--watch", "--strict", shop)
	}()

	waitFor(t, "watch banner", func() bool { return strings.Contains(stdout.String(), "Watching") })
	writeFile(t, dir, "shop.json", danglingDocument)
	waitFor(t, "revalidation", func() bool { return strings.Contains(stderr.String(), "Validation failed") })

	if !strings.Contains(stdout.String(), "Changed: shop.json") {
		t.Errorf("stdout missing changed file:\n%s", stdout.String())
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("validate --watch error = %v", err)
	}
}

func TestValidatePrintsChecksumAndCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib/money.yaml", `
id: lib
modelTypeName: Yellicode YML
model:
  elementType: model
  id: model
  packagedElements:
    - elementType: dataType
      id: money
      name: Money
`)
	mainPath := writeFile(t, dir, "main.json", `{"id": "main", "modelTypeName": "Yellicode YML",
	  "references": [{"location": "local", "name": "lib", "path": "lib/money.yaml"}],
	  "model": {"elementType": "model", "id": "model", "packagedElements": [
	    {"elementType": "class", "id": "c", "ownedAttributes": [{"elementType": "property", "id": "c.m", "type": "lib/money"}]}]}}`)

	res := runCLI(t, nil, "validate", mainPath)
	if res.err != nil {
		t.Fatalf("validate error = %v\n%s", res.err, res.stderr)
	}
	data, err := os.ReadFile(mainPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := document.FormatChecksum(document.Checksum(data)); !strings.Contains(res.stdout, want) {
		t.Errorf("stdout missing checksum %s:\n%s", want, res.stdout)
	}
	if !strings.Contains(res.stdout, "2 document(s) read") {
		t.Errorf("stdout should count both documents:\n%s", res.stdout)
	}
	if strings.Contains(res.stderr, "dangling_reference") {
		t.Errorf("reference into the library should resolve:\n%s", res.stderr)
	}
}

func TestShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop := writeFile(t, dir, "shop.json", shopDocument)

	res := runCLI(t, nil, "show", shop)
	if res.err != nil {
		t.Fatalf("show error = %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{
		"model Shop",
		"class Shop.Order : Shop.Entity",
		"+ lines: Line[0..*]",
		"total(tax: real): real",
		"class Shop.Entity {abstract}",
		"package Shop.sub",
		"dataType Shop.sub.Money",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, res.stdout)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Naming.Separator = "::"
	res = runCLI(t, cfg, "show", shop)
	if !strings.Contains(res.stdout, "Shop::sub::Money") {
		t.Errorf("configured separator not used:\n%s", res.stdout)
	}
}

const profiledDocument = `{
  "id": "crm",
  "modelTypeName": "Yellicode YML",
  "profiles": {"elementType": "model", "id": "profiles", "packagedElements": [
    {"elementType": "profile", "id": "orm", "name": "ORM", "packagedElements": [
      {"elementType": "stereotype", "id": "orm.entity", "name": "Entity",
       "extends": [{"elementType": "stereotypeExtension", "metaClass": "class"}],
       "ownedAttributes": [
         {"elementType": "property", "id": "orm.entity.table", "name": "tableName", "type": "string_id"},
         {"elementType": "property", "id": "orm.entity.schema", "name": "schema", "type": "string_id",
          "defaultValue": {"elementType": "literalString", "value": "public"}},
         {"elementType": "property", "id": "orm.entity.comment", "name": "comment", "type": "string_id"}
       ]}
    ]}
  ]},
  "model": {"elementType": "model", "id": "model", "name": "CRM", "packagedElements": [
    {"elementType": "class", "id": "customer", "name": "Customer", "appliedStereotypes": ["orm.entity"],
     "taggedValues": [{"elementType": "taggedValueSpecification", "definition": "orm.entity.table",
       "specification": {"elementType": "literalString", "value": "customers"}}]},
    {"elementType": "class", "id": "audit", "name": "Audit", "appliedStereotypes": ["orm.entity"]}
  ]}
}`

func TestShowPrintsStereotypeValues(t *testing.T) {
	t.Parallel()

	crm := writeFile(t, t.TempDir(), "crm.json", profiledDocument)

	res := runCLI(t, nil, "show", crm)
	if res.err != nil {
		t.Fatalf("show error = %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{
		"class CRM.Customer «Entity»",
		"«Entity» tableName = customers",
		"«Entity» schema = public",
		"class CRM.Audit «Entity»",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "comment =") {
		t.Errorf("meta-attributes without a value should be skipped:\n%s", res.stdout)
	}
	// Audit has no tagged values, so only the default is shown.
	_, audit, found := strings.Cut(res.stdout, "class CRM.Audit")
	if !found || strings.Contains(audit, "tableName") || !strings.Contains(audit, "schema = public") {
		t.Errorf("untagged element should list defaults only:\n%s", audit)
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop := writeFile(t, dir, "shop.json", shopDocument)
	cycle := writeFile(t, dir, "cycle.json", cycleDocument)

	t.Run("dependencies first", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, nil, "sort", shop)
		if res.err != nil {
			t.Fatalf("sort error = %v\n%s", res.err, res.stderr)
		}
		got := packagedIDs(t, []byte(res.stdout))
		want := []string{"entity", "line", "order", "sub"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("kinds flag", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, nil, "sort", "--kinds", "none", shop)
		if res.err != nil {
			t.Fatalf("sort error = %v", res.err)
		}
		got := packagedIDs(t, []byte(res.stdout))
		want := []string{"order", "entity", "line", "sub"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("cycle keeps order", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, nil, "sort", cycle)
		if res.err != nil {
			t.Fatalf("sort error = %v", res.err)
		}
		got := packagedIDs(t, []byte(res.stdout))
		want := []string{"free", "x", "y"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("fail on cycle", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, nil, "sort", "--fail-on-cycle", cycle)
		if exitCode(res.err) != 1 {
			t.Fatalf("expected exit code 1, got %v", res.err)
		}
		if !errors.Is(res.err, transform.ErrDependencyCycle) {
			t.Errorf("error should wrap ErrDependencyCycle: %v", res.err)
		}
		if !strings.Contains(res.stderr, "x <-> y") {
			t.Errorf("stderr should name the cycle:\n%s", res.stderr)
		}
		if res.stdout != "" {
			t.Errorf("nothing should be written on failure, got:\n%s", res.stdout)
		}
	})

	t.Run("config policy", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Transform.CyclePolicy = "fail"
		if res := runCLI(t, cfg, "sort", cycle); exitCode(res.err) != 1 {
			t.Errorf("configured fail policy should fail, got %v", res.err)
		}
		if res := runCLI(t, cfg, "sort", "--cycle-policy", "keep-order", cycle); res.err != nil {
			t.Errorf("flag should override the configured policy: %v", res.err)
		}
	})

	t.Run("invalid kind", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, nil, "sort", "--kinds", "friends", shop)
		if !errors.Is(res.err, transform.ErrInvalidDependencyKind) {
			t.Errorf("expected ErrInvalidDependencyKind, got %v", res.err)
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "sorted.json")
		res := runCLI(t, nil, "sort", "-o", out, shop)
		if res.err != nil {
			t.Fatalf("sort error = %v", res.err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("output file not written: %v", err)
		}
		if got := packagedIDs(t, data); len(got) != 4 {
			t.Errorf("unexpected output ids %v", got)
		}
	})
}

func TestConvert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlDoc := `
id: shop
modelTypeName: Yellicode YML
model:
  elementType: model
  id: model
  name: Shop
  packagedElements:
    - elementType: dataType
      id: money
      name: Money
      isAbstract: false
      ownedAttributes:
        - elementType: property
          id: money.amount
          name: amount
          type: real_id
`
	withExt := writeFile(t, dir, "shop.yaml", yamlDoc)
	noExt := writeFile(t, dir, "shop.txt", yamlDoc)

	res := runCLI(t, nil, "convert", withExt)
	if res.err != nil {
		t.Fatalf("convert error = %v\n%s", res.err, res.stderr)
	}
	if strings.Contains(res.stdout, "isAbstract") {
		t.Errorf("false values should be dropped:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, `"modelTypeName": "Yellicode YML"`) {
		t.Errorf("envelope should be kept:\n%s", res.stdout)
	}

	res = runCLI(t, nil, "convert", noExt)
	if exitCode(res.err) != 1 || !errors.Is(res.err, document.ErrUnknownFormat) {
		t.Errorf("expected unknown format failure, got %v", res.err)
	}
	if !strings.Contains(res.stderr, "--from") {
		t.Errorf("stderr should suggest --from:\n%s", res.stderr)
	}

	res = runCLI(t, nil, "convert", "--from", "yaml", noExt)
	if res.err != nil {
		t.Fatalf("convert --from error = %v", res.err)
	}

	res = runCLI(t, nil, "convert", "--retype", "dataType=class", withExt)
	if res.err != nil {
		t.Fatalf("convert --retype error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, `"elementType": "class"`) || strings.Contains(res.stdout, `"elementType": "dataType"`) {
		t.Errorf("money should be rebuilt as a class:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, `"id": "money.amount"`) {
		t.Errorf("attributes should carry over:\n%s", res.stdout)
	}

	for _, bad := range []string{"widget=class", "class"} {
		if res := runCLI(t, nil, "convert", "--retype", bad, withExt); exitCode(res.err) != 1 {
			t.Errorf("--retype %s should fail, got %v", bad, res.err)
		}
	}
}

func TestDeps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop := writeFile(t, dir, "shop.json", shopDocument)

	res := runCLI(t, nil, "deps", shop)
	if res.err != nil {
		t.Fatalf("deps error = %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{"digraph", `"entity" -> "order"`, `"line" -> "order"`} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("DOT output missing %q:\n%s", want, res.stdout)
		}
	}

	res = runCLI(t, nil, "deps", "--kinds", "generalizations", shop)
	if strings.Contains(res.stdout, `"line" -> "order"`) {
		t.Errorf("attribute edge should be excluded:\n%s", res.stdout)
	}

	res = runCLI(t, nil, "deps", "--package", "Shop.sub", shop)
	if res.err != nil {
		t.Fatalf("deps --package error = %v", res.err)
	}
	if !strings.Contains(res.stdout, `"money"`) || strings.Contains(res.stdout, `"order"`) {
		t.Errorf("graph should cover Shop.sub only:\n%s", res.stdout)
	}

	res = runCLI(t, nil, "deps", "--package", "Shop.nowhere", shop)
	if exitCode(res.err) != 1 {
		t.Errorf("unknown package should fail, got %v", res.err)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Transform.CyclePolicy = "fail"

	res := runCLI(t, cfg, "config", "dump")
	if res.err != nil {
		t.Fatalf("config dump error = %v", res.err)
	}
	if !strings.Contains(res.stdout, `cycle_policy: "fail"`) {
		t.Errorf("dump should reflect the loaded config:\n%s", res.stdout)
	}

	res = runCLI(t, cfg, "config", "show")
	if res.err != nil {
		t.Fatalf("config show error = %v", res.err)
	}
	for _, want := range []string{"Current Configuration", "cycle_policy: fail", `separator: "."`} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, res.stdout)
		}
	}

	path := filepath.Join(t.TempDir(), "umlgraph", "config.cue")
	res = runCLI(t, nil, "--config", path, "config", "init")
	if res.err != nil {
		t.Fatalf("config init error = %v", res.err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	res = runCLI(t, nil, "--config", path, "config", "init")
	if !strings.Contains(res.stdout, "already exists") {
		t.Errorf("second init should not overwrite:\n%s", res.stdout)
	}
}

func TestConfigInitAndPathUseUserConfigDir(t *testing.T) {
	cfgHome := testutil.SetConfigHome(t, t.TempDir())
	want := filepath.Join(cfgHome, "umlgraph", "config.cue")

	res := runCLI(t, nil, "config", "path")
	if res.err != nil {
		t.Fatalf("config path error = %v", res.err)
	}
	if !strings.Contains(res.stdout, want+" (not created)") {
		t.Errorf("path output missing default location %q:\n%s", want, res.stdout)
	}

	res = runCLI(t, nil, "config", "init")
	if res.err != nil {
		t.Fatalf("config init error = %v", res.err)
	}
	if !strings.Contains(testutil.MustReadFile(t, want), "cycle_policy") {
		t.Errorf("config file at %s lacks defaults", want)
	}

	res = runCLI(t, nil, "config", "path")
	if !strings.Contains(res.stdout, "Config file: "+want+"\n") {
		t.Errorf("path output should name the created file:\n%s", res.stdout)
	}
}

func TestConfigLoadFailureFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop := writeFile(t, dir, "shop.json", shopDocument)

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Config: stubConfigProvider{err: errors.New("broken config")},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)
	root.SetArgs([]string{"show", shop})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("show should run with defaults, got %v", err)
	}
	if !strings.Contains(stderr.String(), "broken config") {
		t.Errorf("config failure should be reported:\n%s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Shop.sub.Money") {
		t.Errorf("default separator should apply:\n%s", stdout.String())
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"not found", fmt.Errorf("read document: %w", os.ErrNotExist), issue.DocumentNotFoundId},
		{"unknown format", document.ErrUnknownFormat, issue.UnknownFormatId},
		{"model type", &document.UnknownModelTypeError{Name: "XMI"}, issue.UnknownModelTypeId},
		{"cycle", &transform.CycleError{Cycle: []string{"a", "b"}}, issue.DependencyCycleId},
		{"kind", &transform.InvalidDependencyKindError{Value: "x"}, issue.InvalidDependencyKindId},
		{"policy", transform.ErrInvalidCyclePolicy, issue.InvalidDependencyKindId},
		{"element type", &elements.InvalidElementTypeError{Value: "widget"}, issue.InvalidElementTypeId},
		{"no model", document.ErrNoModel, issue.DocumentParseErrorId},
		{"syntax", json.Unmarshal([]byte("{"), new(any)), issue.DocumentParseErrorId},
		{"carried", issue.NewErrorContext().WithOperation("load").WithIssue(issue.ConfigLoadFailedId).BuildError(), issue.ConfigLoadFailedId},
		{"other", errors.New("boom"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapLoadErrorDefaultsToParseError(t *testing.T) {
	t.Parallel()

	err := wrapLoadError(errors.New("bad input"), "model.json")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %T", err)
	}
	if ae.IssueID != issue.DocumentParseErrorId || ae.Resource != "model.json" {
		t.Errorf("unexpected error context: %+v", ae)
	}
}
