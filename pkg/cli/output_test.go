package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chalktalk/chalktalk/pkg/cli"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Output(sample{Name: "viz", Count: 3}, cli.OutputOptions{
		Format: cli.FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "viz"`) {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestOutputDefaultsToYAML(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Output(sample{Name: "viz", Count: 3}, cli.OutputOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.Contains(buf.String(), "name: viz") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestOutputRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := cli.Output("plain text", cli.OutputOptions{Format: cli.FormatRaw, Writer: &buf}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if buf.String() != "plain text" {
		t.Fatalf("output = %q", buf.String())
	}

	if err := cli.Output(sample{}, cli.OutputOptions{Format: cli.FormatRaw, Writer: &buf}); err == nil {
		t.Fatal("raw output of struct = nil, want error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := dir + "/scene.yaml"
	if err := writeFile(t, yamlPath, "name: fromyaml\ncount: 2\n"); err != nil {
		t.Fatal(err)
	}
	var v sample
	if err := cli.LoadFile(yamlPath, &v); err != nil {
		t.Fatalf("LoadFile yaml: %v", err)
	}
	if v.Name != "fromyaml" || v.Count != 2 {
		t.Fatalf("v = %+v", v)
	}

	jsonPath := dir + "/scene.json"
	if err := writeFile(t, jsonPath, `{"name":"fromjson","count":5}`); err != nil {
		t.Fatal(err)
	}
	v = sample{}
	if err := cli.LoadFile(jsonPath, &v); err != nil {
		t.Fatalf("LoadFile json: %v", err)
	}
	if v.Name != "fromjson" || v.Count != 5 {
		t.Fatalf("v = %+v", v)
	}
}
