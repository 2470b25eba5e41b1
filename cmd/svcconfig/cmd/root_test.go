package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/viper"
)

const fixture = "../../../servicemodel/configuration/testdata/service.config"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate(t *testing.T) {
	if _, err := run(t, "validate", fixture); err != nil {
		t.Fatalf("fixture should validate: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.config")
	doc := `<system.serviceModel><bindings><netTcpBinding><binding name="x" maxConnections="many"/></netTcpBinding></bindings></system.serviceModel>`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "validate", bad)
	if !errors.Is(err, errIssues) {
		t.Fatalf("expected errIssues, got %v", err)
	}
	if !strings.Contains(out, "/bindings/netTcpBinding/binding[name=x]/@maxConnections") {
		t.Fatalf("issue path missing from output:\n%s", out)
	}
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", fixture, "--service", "Orders.OrderService", "--contract", "Orders.IOrderService")
	if err != nil {
		t.Fatalf("describe: %v\n%s", err, out)
	}
	var v serviceView
	if err := gojson.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if len(v.Endpoints) != 3 || v.Endpoints[1].Binding.Name != "SecureTcp" {
		t.Fatalf("unexpected description: %+v", v)
	}

	out, err = run(t, "describe", fixture, "--client", "*", "--contract", "Audit.IAuditService")
	if err != nil {
		t.Fatalf("describe client: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"address": "net.tcp://audit.example.com/svc"`) {
		t.Fatalf("unexpected client output:\n%s", out)
	}
}

func TestFmtPreserve(t *testing.T) {
	out, err := run(t, "fmt", "--preserve", fixture)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if strings.Contains(out, "<diagnostics") {
		t.Fatalf("preserving output should not add absent sections:\n%s", out)
	}
	if !strings.Contains(out, `maxRetryCount="4"`) {
		t.Fatalf("configured attribute lost:\n%s", out)
	}
}

func TestSchemaAndExtensions(t *testing.T) {
	out, err := run(t, "schema", "netTcpBinding")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, "maxConnections") {
		t.Fatalf("schema misses attributes:\n%s", out)
	}
	if _, err := run(t, "schema", "nope"); err == nil {
		t.Fatalf("unknown element should fail")
	}
	out, err = run(t, "extensions")
	if err != nil {
		t.Fatalf("extensions: %v", err)
	}
	if !strings.Contains(out, "System.ServiceModel.Configuration.ClientViaElement") {
		t.Fatalf("builtin behavior missing:\n%s", out)
	}
}

func TestValidate_UnknownAttributes(t *testing.T) {
	file := filepath.Join(t.TempDir(), "extra.config")
	doc := `<system.serviceModel><bindings><basicHttpBinding><binding name="a" bogus="1"/></basicHttpBinding></bindings></system.serviceModel>`
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--log-level", "warn", "--log-format", "json", "validate", file)
	if err != nil {
		t.Fatalf("unknown attributes should only warn by default: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "binding[name=a]/@bogus") {
		t.Fatalf("expected a warning for the ignored attribute:\n%s", out)
	}

	out, err = run(t, "--strict", "validate", file)
	if !errors.Is(err, errIssues) {
		t.Fatalf("--strict should reject unknown attributes, got %v", err)
	}
	if !strings.Contains(out, "/bindings/basicHttpBinding/binding[name=a]/@bogus: unknown_attribute") {
		t.Fatalf("issue missing from output:\n%s", out)
	}
}

func TestConfigFileErrors(t *testing.T) {
	t.Cleanup(viper.Reset)
	if _, err := run(t, "validate", fixture); err != nil {
		t.Fatalf("a missing default config file is not an error: %v", err)
	}
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "validate", fixture)
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected a read config error, got %v", err)
	}

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(broken, []byte("log-level: [warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", broken, "validate", fixture); err == nil {
		t.Fatalf("a malformed config file should fail")
	}
}
