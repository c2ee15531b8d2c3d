package areas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"talentflow-engine/internal/hireerr"
)

func TestDefaultResolverAreas(t *testing.T) {
	r, err := Load("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	got := r.Areas()
	want := []string{"design", "engineering-tech", "growth", "product-management"}
	if len(got) != len(want) {
		t.Fatalf("areas = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("areas = %v, want %v", got, want)
		}
	}
}

func TestResolveUnknownArea(t *testing.T) {
	r, _ := Load("")
	_, err := r.Resolve("finance")
	var uae *hireerr.UnknownAreaError
	if !errors.As(err, &uae) {
		t.Fatalf("err = %v, want UnknownAreaError", err)
	}
	if uae.Area != "finance" {
		t.Fatalf("area = %q, want finance", uae.Area)
	}
}

func TestMissingRequired(t *testing.T) {
	r, _ := Load("")
	set, err := r.Resolve("engineering-tech")
	if err != nil {
		t.Fatal(err)
	}

	// Full answers: nothing missing.
	full := map[string]string{}
	for _, q := range set.Questions {
		full[q.ID] = "x"
	}
	missing, err := r.MissingRequired("engineering-tech", full)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}

	// Drop two answers, blank a third: all three must be reported in order.
	delete(full, "tech_stack")
	delete(full, "on_call")
	full["architecture"] = "   "
	missing, err = r.MissingRequired("engineering-tech", full)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"tech_stack", "architecture", "on_call"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("missing = %v, want %v", missing, want)
		}
	}
}

func TestMissingRequiredUnknownArea(t *testing.T) {
	r, _ := Load("")
	if _, err := r.MissingRequired("nope", nil); hireerr.KindOf(err) != hireerr.KindUnknownArea {
		t.Fatalf("err = %v, want unknown area", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "areas.yml")
	content := `
sales:
  title: Sales specifications
  description: Sales context
  questions:
    - id: quota
      label: Quota ownership
      kind: text
      required: true
    - id: segment
      label: Segment
      kind: select
      required: true
      options:
        - value: smb
          label: SMB
        - value: enterprise
          label: Enterprise
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	set, err := r.Resolve("sales")
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(set.Questions))
	}
	missing, err := r.MissingRequired("sales", map[string]string{"quota": "full"})
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 1 || missing[0] != "segment" {
		t.Fatalf("missing = %v, want [segment]", missing)
	}
}

func TestLoadRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"no questions": `
sales:
  title: Sales
  questions: []
`,
		"duplicate id": `
sales:
  title: Sales
  questions:
    - {id: a, label: A, kind: text, required: true}
    - {id: a, label: B, kind: text, required: true}
`,
		"select without options": `
sales:
  title: Sales
  questions:
    - {id: a, label: A, kind: select, required: true}
`,
		"unknown kind": `
sales:
  title: Sales
  questions:
    - {id: a, label: A, kind: checkbox, required: true}
`,
	}

	for name, content := range cases {
		path := filepath.Join(dir, "bad.yml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: load succeeded, want error", name)
		}
	}
}
