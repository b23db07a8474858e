package imagepkg

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"

	"github.com/youruser/cardego/internal/apperr"
	"github.com/youruser/cardego/internal/cards"
	"github.com/youruser/cardego/internal/deck"
)

// HTMLConverter turns an HTML document into a PNG at outputPath.
// *Converter is the wkhtmltoimage implementation.
type HTMLConverter interface {
	Render(ctx context.Context, html, htmlPath string, width, height int, outputPath string) error
}

type Options struct {
	Paths     Paths
	Layout    Layout
	Templates *TemplateRenderer
	Converter HTMLConverter
	// Retriever is used before a single-card render when FetchArtwork is set.
	Retriever    *Retriever
	FetchArtwork bool
	// Workers caps concurrent converter processes. Zero means 1.
	Workers int
}

// Pipeline renders cards and cardsheets to PNG files at fixed paths.
// Renders of the same card or deck run one at a time; renders of different
// keys run concurrently up to Workers converter processes.
type Pipeline struct {
	paths        Paths
	layout       Layout
	templates    *TemplateRenderer
	converter    HTMLConverter
	retriever    *Retriever
	fetchArtwork bool
	slots        chan struct{}
	locks        *keyedMutex
}

func NewPipeline(opt Options) (*Pipeline, error) {
	if opt.Layout == (Layout{}) {
		opt.Layout = DefaultLayout
	}
	if opt.Templates == nil {
		t, err := NewTemplateRenderer(DefaultTemplates, opt.Layout)
		if err != nil {
			return nil, err
		}
		opt.Templates = t
	}
	if opt.Converter == nil {
		opt.Converter = NewConverter(DefaultConverterBinary, 0)
	}
	if opt.FetchArtwork && opt.Retriever == nil {
		opt.Retriever = NewRetriever(opt.Paths, 0)
	}
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	return &Pipeline{
		paths:        opt.Paths,
		layout:       opt.Layout,
		templates:    opt.Templates,
		converter:    opt.Converter,
		retriever:    opt.Retriever,
		fetchArtwork: opt.FetchArtwork,
		slots:        make(chan struct{}, opt.Workers),
		locks:        newKeyedMutex(),
	}, nil
}

func (p *Pipeline) Layout() Layout { return p.layout }

func (p *Pipeline) Paths() Paths { return p.paths }

func (p *Pipeline) CSS() []byte { return p.templates.CSS() }

// CardHTML is the substituted single-card document, without rendering it.
func (p *Pipeline) CardHTML(card cards.Card) (string, error) {
	return p.templates.RenderCardHTML(card)
}

// RenderCard renders one card and returns the PNG path.
func (p *Pipeline) RenderCard(ctx context.Context, card cards.Card) (string, error) {
	unlock := p.locks.Lock(fmt.Sprintf("card:%d", card.ID))
	defer unlock()
	return p.renderCardLocked(ctx, card)
}

func (p *Pipeline) renderCardLocked(ctx context.Context, card cards.Card) (string, error) {
	if p.fetchArtwork && card.ImageURL != "" {
		art, err := p.retriever.Retrieve(ctx, card.ImageURL, card.ID)
		if err != nil {
			return "", err
		}
		abs, err := filepath.Abs(art)
		if err != nil {
			return "", apperr.NewFileIO("resolve card art path", err)
		}
		card.ImageURL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}

	html, err := p.templates.RenderCardHTML(card)
	if err != nil {
		return "", err
	}
	log.Printf("card template substituted for card %d", card.ID)

	w, h := p.layout.SingleCardDimensions()
	out := p.paths.CardImage(card.ID)
	if err := p.convert(ctx, html, p.paths.CardHTML(card.ID), w, h, out); err != nil {
		return "", err
	}
	return out, nil
}

// RenderDeckSheet renders every card of the deck onto one sheet and returns
// the PNG path. Artwork is referenced as stored, not fetched.
func (p *Pipeline) RenderDeckSheet(ctx context.Context, deckName string, cs []cards.Card) (string, error) {
	if err := deck.ValidateName(deckName); err != nil {
		return "", err
	}
	unlock := p.locks.Lock("deck:" + deckName)
	defer unlock()

	html, err := p.templates.RenderSheetHTML(cs)
	if err != nil {
		return "", err
	}
	log.Printf("cardsheet template substituted for deck %q (%d cards)", deckName, len(cs))

	w, h := p.layout.SheetDimensions(len(cs))
	out := p.paths.DeckImage(deckName)
	if err := p.convert(ctx, html, p.paths.DeckHTML(deckName), w, h, out); err != nil {
		return "", err
	}
	return out, nil
}

// Thumbnail renders the card and returns it scaled to width, as PNG bytes.
func (p *Pipeline) Thumbnail(ctx context.Context, card cards.Card, width int) ([]byte, error) {
	if width < 1 || width > p.layout.CardWidth {
		return nil, apperr.NewInvalidInput("thumbnail width must be between 1 and %d", p.layout.CardWidth)
	}
	unlock := p.locks.Lock(fmt.Sprintf("card:%d", card.ID))
	defer unlock()

	path, err := p.renderCardLocked(ctx, card)
	if err != nil {
		return nil, err
	}
	b, err := ThumbnailPNG(path, width)
	if err != nil {
		return nil, apperr.NewFileIO("make thumbnail", err)
	}
	return b, nil
}

// convert runs the converter once a worker slot is free. Waiting for a slot
// honors ctx; the conversion itself does not.
func (p *Pipeline) convert(ctx context.Context, html, htmlPath string, w, h int, out string) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.slots }()

	if err := p.converter.Render(ctx, html, htmlPath, w, h, out); err != nil {
		return err
	}
	p.checkSize(out, w, h)
	return nil
}

// checkSize logs when the converter output differs from the requested size;
// wkhtmltoimage treats --width as a minimum.
func (p *Pipeline) checkSize(path string, w, h int) {
	gw, gh, err := ImageSize(path)
	if err != nil {
		log.Printf("could not decode rendered image %s: %v", path, err)
		return
	}
	if gw != w || gh != h {
		log.Printf("rendered image %s is %dx%d, expected %dx%d", path, gw, gh, w, h)
	}
}
