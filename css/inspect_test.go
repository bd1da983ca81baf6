package css

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const sample = `@charset "utf-8";
@font-face { font-family: "kt"; src: url("fonts/kt.ttf"); }
@font-face { font-family: 'Body Font'; src: url(fonts/body.otf); }
body { color: #000; background-image: url("images/背景.webp"); }
.chapter-ornament { background: url("ornaments/folio-divider.svg") center / 62% auto no-repeat; }
.again { background: url("images/背景.webp"); }
.remote { background: url("https://example.com/x.png"); }
@page { @top-center { content: string(chapter); } }
@page :first { @top-center { content: normal; } }
p { text-indent: 2em; }
`

func TestInspect(t *testing.T) {
	sum := NewInspector(zaptest.NewLogger(t)).Inspect([]byte(sample), "sample")

	if sum.Rules != 5 {
		t.Errorf("Rules = %d, want 5", sum.Rules)
	}
	wantFonts := []FontFace{
		{Family: "kt", Src: `url("fonts/kt.ttf")`},
		{Family: "Body Font", Src: "url(fonts/body.otf)"},
	}
	if !reflect.DeepEqual(sum.FontFaces, wantFonts) {
		t.Errorf("FontFaces = %+v, want %+v", sum.FontFaces, wantFonts)
	}
	wantURLs := []string{"fonts/kt.ttf", "fonts/body.otf", "images/背景.webp", "ornaments/folio-divider.svg", "https://example.com/x.png"}
	if !reflect.DeepEqual(sum.URLs, wantURLs) {
		t.Errorf("URLs = %q, want %q", sum.URLs, wantURLs)
	}
	if !reflect.DeepEqual(sum.AtRules, []string{"@font-face", "@page", "@top-center"}) {
		t.Errorf("AtRules = %q", sum.AtRules)
	}
}

func TestMissing(t *testing.T) {
	sum := &Summary{URLs: []string{"fonts/kt.ttf", "images/a.png", "data:image/png;base64,AAAA", "https://example.com/x.png"}}
	have := map[string]bool{"fonts/kt.ttf": true}
	got := sum.Missing(func(u string) bool { return have[u] })
	if !reflect.DeepEqual(got, []string{"images/a.png"}) {
		t.Errorf("Missing() = %q", got)
	}
}

func TestInspectNilLoggerAndGarbage(t *testing.T) {
	sum := NewInspector(nil).Inspect([]byte("}}} {{{ not css"), "")
	if sum == nil {
		t.Fatal("Inspect() returned nil")
	}
}

func TestInspectWarnsAndContinues(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	const sheet = `p { text-indent: 2em; }
.custom { color red; }
.after { background: url("images/after.png"); }
`
	sum := NewInspector(zap.New(core)).Inspect([]byte(sheet), "stylesheet.css")

	if len(sum.Errors) != 1 {
		t.Fatalf("Errors = %q, want exactly one", sum.Errors)
	}
	if !strings.Contains(sum.Errors[0], "colon") {
		t.Errorf("Errors[0] = %q, want missing colon complaint", sum.Errors[0])
	}
	if sum.Rules != 3 {
		t.Errorf("Rules = %d, want 3", sum.Rules)
	}
	if !reflect.DeepEqual(sum.URLs, []string{"images/after.png"}) {
		t.Errorf("URLs = %q, rules after malformed one must still be inspected", sum.URLs)
	}

	warnings := logs.FilterMessageSnippet("malformed CSS").All()
	if len(warnings) != 1 {
		t.Fatalf("got %d malformed CSS warnings, want 1", len(warnings))
	}
	if got := warnings[0].ContextMap()["source"]; got != "stylesheet.css" {
		t.Errorf("warning source = %v", got)
	}
}

func TestInspectCleanSheetNoWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sum := NewInspector(zap.New(core)).Inspect([]byte(sample), "sample")
	if len(sum.Errors) != 0 || logs.Len() != 0 {
		t.Errorf("clean sheet reported errors %q, %d warnings", sum.Errors, logs.Len())
	}
}
