package imagepkg

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"unicode/utf8"

	"github.com/youruser/cardego/internal/cards"
)

//go:embed templates/*.html templates/card.css
var DefaultTemplates embed.FS

const (
	cardTemplateFile  = "templates/card.html"
	sheetTemplateFile = "templates/cardsheet.html"
	cssFile           = "templates/card.css"
)

// TemplateRenderer substitutes cards into the HTML templates. It does no
// I/O after construction, so the same cards always give the same document.
type TemplateRenderer struct {
	tpl    *template.Template
	css    []byte
	layout Layout
}

type cardView struct {
	Card     cards.Card
	ImageSrc template.URL
	Width    int
	Height   int
}

type singleView struct {
	CSS    template.CSS
	Card   cardView
	Width  int
	Height int
}

type sheetView struct {
	CSS    template.CSS
	Rows   [][]cardView
	Width  int
	Height int
}

// NewTemplateRenderer parses card.html, cardsheet.html and card.css from fsys.
func NewTemplateRenderer(fsys fs.FS, layout Layout) (*TemplateRenderer, error) {
	css, err := fs.ReadFile(fsys, cssFile)
	if err != nil {
		return nil, &TemplateError{Template: cssFile, Err: err}
	}
	tpl, err := template.ParseFS(fsys, cardTemplateFile, sheetTemplateFile)
	if err != nil {
		return nil, &TemplateError{Template: cardTemplateFile, Err: err}
	}
	for _, name := range []string{"card", "single", "sheet"} {
		if tpl.Lookup(name) == nil {
			return nil, &TemplateError{Template: name, Err: errors.New("template not defined")}
		}
	}
	return &TemplateRenderer{tpl: tpl, css: css, layout: layout}, nil
}

// CSS returns the card stylesheet that is inlined into every document.
func (r *TemplateRenderer) CSS() []byte {
	return r.css
}

func (r *TemplateRenderer) RenderCardHTML(card cards.Card) (string, error) {
	v, err := r.view(card)
	if err != nil {
		return "", err
	}
	w, h := r.layout.SingleCardDimensions()
	return r.execute("single", singleView{
		CSS:    template.CSS(r.css),
		Card:   v,
		Width:  w,
		Height: h,
	})
}

// RenderSheetHTML lays the cards out in rows of Layout.Columns.
func (r *TemplateRenderer) RenderSheetHTML(cs []cards.Card) (string, error) {
	cols := r.layout.columns()
	rows := [][]cardView{}
	for i, c := range cs {
		v, err := r.view(c)
		if err != nil {
			return "", err
		}
		if i%cols == 0 {
			rows = append(rows, []cardView{})
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], v)
	}
	w, h := r.layout.SheetDimensions(len(cs))
	return r.execute("sheet", sheetView{
		CSS:    template.CSS(r.css),
		Rows:   rows,
		Width:  w,
		Height: h,
	})
}

func (r *TemplateRenderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &TemplateError{Template: name, Err: err}
	}
	return buf.String(), nil
}

func (r *TemplateRenderer) view(c cards.Card) (cardView, error) {
	fields := []struct{ name, value string }{
		{"name", c.Name},
		{"desc", c.Desc},
		{"cardclass", c.CardClass},
		{"image_url", c.ImageURL},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return cardView{}, &TemplateError{
				Template: "card",
				Err:      fmt.Errorf("card %d: field %s is not valid UTF-8", c.ID, f.name),
			}
		}
	}
	return cardView{
		Card:     c,
		ImageSrc: imageSrc(c.ImageURL),
		Width:    r.layout.CardWidth,
		Height:   r.layout.CardHeight,
	}, nil
}

// imageSrc passes through file, http and https URLs and bare paths.
// Anything else (javascript:, data:, ...) is dropped.
func imageSrc(raw string) template.URL {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "", "file", "http", "https":
		return template.URL(u.String())
	}
	return ""
}
