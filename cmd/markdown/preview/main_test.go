package main

import (
	"bytes"
	"strings"
	"testing"
)

const fixtureDocs = "../../../internal/markdown/testdata/docs"

func TestRunPrintsMetadataTOCAndHTML(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--docs-dir", fixtureDocs, "--doc", "tutorial/nullability-functional-programming"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, fragment := range []string{
		"Permalink: /docs/tutorial/nullability-functional-programming",
		`"id": "tutorial/nullability-functional-programming"`,
		"TOC:\n- Nullable types (#nullable-types)",
		"  - Dealing with Nullable Types (#dealing-with-nullable-types)",
		"Rendered HTML:\n",
		`<h1 id="nullability--functional-programming">Nullability &amp; Functional Programming</h1>`,
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, text)
		}
	}
}

func TestRunWithoutHTML(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--docs-dir", fixtureDocs, "--doc", "intro", "--render-html=false"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.String(), "Rendered HTML") {
		t.Fatalf("html should be omitted:\n%s", out.String())
	}
}

func TestRunRequiresDoc(t *testing.T) {
	err := run([]string{"--docs-dir", fixtureDocs}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "--doc is required") {
		t.Fatalf("expected missing doc error, got %v", err)
	}
}

func TestRunUnknownDoc(t *testing.T) {
	err := run([]string{"--docs-dir", fixtureDocs, "--doc", "missing"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
