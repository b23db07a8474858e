package imagepkg

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/youruser/cardego/internal/cards"
)

func fireballCard() cards.Card {
	return cards.Card{
		ID:         1,
		CardClass:  "spell",
		Action:     1,
		Speed:      2,
		Initiative: 0,
		Name:       "Fireball",
		Desc:       "Deals 3 damage",
		ImageURL:   "file:///assets/fireball.png",
	}
}

func newTestTemplates(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(DefaultTemplates, DefaultLayout)
	if err != nil {
		t.Fatalf("NewTemplateRenderer: %v", err)
	}
	return r
}

func TestRenderCardHTMLContainsFields(t *testing.T) {
	html, err := newTestTemplates(t).RenderCardHTML(fireballCard())
	if err != nil {
		t.Fatalf("RenderCardHTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Fireball",
		"Deals 3 damage",
		"spell",
		`<img src="file:///assets/fireball.png"`,
		"width: 1050px; height: 750px;",
		".card-name", // stylesheet is inlined
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in document:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<link") {
		t.Error("document should not link external stylesheets")
	}
}

func TestRenderCardHTMLEscapesFreeText(t *testing.T) {
	c := fireballCard()
	c.Name = `<b>Fire & "Ice"</b>`
	c.Desc = `</div><script>alert(1)</script>`

	html, err := newTestTemplates(t).RenderCardHTML(c)
	if err != nil {
		t.Fatalf("RenderCardHTML: %v", err)
	}
	if !strings.Contains(html, "&lt;b&gt;Fire &amp; &#34;Ice&#34;&lt;/b&gt;") {
		t.Errorf("name not escaped:\n%s", html)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>") {
		t.Errorf("free text leaked markup:\n%s", html)
	}

	// Escaped text must not change the element structure.
	plain, _ := newTestTemplates(t).RenderCardHTML(fireballCard())
	if strings.Count(html, "<div") != strings.Count(plain, "<div") ||
		strings.Count(html, "</div>") != strings.Count(plain, "</div>") {
		t.Error("escaped card has a different number of div elements")
	}
}

func TestRenderCardHTMLDropsUnsafeImageURL(t *testing.T) {
	c := fireballCard()
	c.ImageURL = "javascript:alert(1)"

	html, err := newTestTemplates(t).RenderCardHTML(c)
	if err != nil {
		t.Fatalf("RenderCardHTML: %v", err)
	}
	if strings.Contains(html, "<img") || strings.Contains(html, "javascript") {
		t.Errorf("unsafe image url emitted:\n%s", html)
	}
}

func TestRenderCardHTMLRejectsInvalidUTF8(t *testing.T) {
	c := fireballCard()
	c.Desc = "bad \xff byte"

	_, err := newTestTemplates(t).RenderCardHTML(c)
	var te *TemplateError
	if !errors.As(err, &te) {
		t.Fatalf("expected TemplateError, got %v", err)
	}
	if !strings.Contains(err.Error(), "desc") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestRenderCardHTMLIsDeterministic(t *testing.T) {
	r := newTestTemplates(t)
	a, err := r.RenderCardHTML(fireballCard())
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.RenderCardHTML(fireballCard())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same card produced different documents")
	}
}

func TestRenderSheetHTML(t *testing.T) {
	var cs []cards.Card
	for i := 1; i <= 13; i++ {
		c := fireballCard()
		c.ID = i
		cs = append(cs, c)
	}

	html, err := newTestTemplates(t).RenderSheetHTML(cs)
	if err != nil {
		t.Fatalf("RenderSheetHTML: %v", err)
	}
	if got := strings.Count(html, `<div class="card card-`); got != 13 {
		t.Errorf("expected 13 card blocks, got %d", got)
	}
	if got := strings.Count(html, `<div class="sheet-row">`); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
	if !strings.Contains(html, "width: 6300px; height: 2250px;") {
		t.Errorf("sheet body should be sized 6300x2250:\n%s", html[:200])
	}
	if !strings.Contains(html, "#13") {
		t.Error("last card missing from sheet")
	}
}

func TestRenderSheetHTMLEmpty(t *testing.T) {
	html, err := newTestTemplates(t).RenderSheetHTML(nil)
	if err != nil {
		t.Fatalf("RenderSheetHTML: %v", err)
	}
	if strings.Contains(html, `class="card `) {
		t.Error("empty sheet should have no cards")
	}
}

func TestNewTemplateRendererMissingSource(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/card.css":  {Data: []byte("body {}")},
		"templates/card.html": {Data: []byte(`{{define "card"}}x{{end}}{{define "single"}}y{{end}}`)},
	}
	_, err := NewTemplateRenderer(fsys, DefaultLayout)
	var te *TemplateError
	if !errors.As(err, &te) {
		t.Fatalf("expected TemplateError for missing cardsheet template, got %v", err)
	}
}
