package api

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardego/internal/apperr"
	"github.com/youruser/cardego/internal/cards"
	"github.com/youruser/cardego/internal/deck"
	imagepkg "github.com/youruser/cardego/internal/image"
)

// CardStore is the card and deck database. *store.CardDatabase implements it.
type CardStore interface {
	GetCard(ctx context.Context, id int) (cards.Card, error)
	GetCardAttributes(ctx context.Context, cardID int) ([]cards.CardAttribute, error)
	PutCard(ctx context.Context, card cards.FullCardData) error
	AllCards(ctx context.Context) ([]cards.Card, error)
	QueryCardsByName(ctx context.Context, substr string) ([]cards.Card, error)
	GetDeck(ctx context.Context, name string) (deck.Deck, error)
	GetCardsByDeckName(ctx context.Context, name string) ([]cards.Card, error)
	PutDeck(ctx context.Context, name string, cardIDs []int) (deck.Deck, error)
	QueryDecksByName(ctx context.Context, substr string) ([]deck.Deck, error)
}

// Renderer produces card previews and images. *imagepkg.Pipeline implements it.
type Renderer interface {
	CardHTML(card cards.Card) (string, error)
	RenderCard(ctx context.Context, card cards.Card) (string, error)
	RenderDeckSheet(ctx context.Context, deckName string, cs []cards.Card) (string, error)
	Thumbnail(ctx context.Context, card cards.Card, width int) ([]byte, error)
	CSS() []byte
}

type Server struct {
	store    CardStore
	renderer Renderer
}

func NewServer(store CardStore, renderer Renderer) *Server {
	return &Server{store: store, renderer: renderer}
}

const defaultThumbnailWidth = 262

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) cardCSS(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=UTF-8", s.renderer.CSS())
}

func cardID(c *gin.Context) (int, error) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewInvalidInput("%q is not a valid card id", raw)
	}
	return id, nil
}

func deckName(c *gin.Context) (string, error) {
	name := c.Param("name")
	if err := deck.ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Server) loadCard(c *gin.Context) (cards.Card, bool) {
	id, err := cardID(c)
	if err != nil {
		respondError(c, err)
		return cards.Card{}, false
	}
	card, err := s.store.GetCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return cards.Card{}, false
	}
	return card, true
}

// sendPNG reads a rendered image back and writes it as the response.
func sendPNG(c *gin.Context, path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		respondError(c, apperr.NewFileIO("read rendered image", err))
		return
	}
	c.Header("Content-Length", strconv.Itoa(len(b)))
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) getCard(c *gin.Context) {
	card, ok := s.loadCard(c)
	if !ok {
		return
	}
	attrs, err := s.store.GetCardAttributes(c.Request.Context(), card.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards.FullCardData{Card: card, CardAttributes: attrs})
}

func (s *Server) getCardImageHTML(c *gin.Context) {
	card, ok := s.loadCard(c)
	if !ok {
		return
	}
	html, err := s.renderer.CardHTML(card)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=UTF-8", []byte(html))
}

func (s *Server) getCardImagePNG(c *gin.Context) {
	card, ok := s.loadCard(c)
	if !ok {
		return
	}
	path, err := s.renderer.RenderCard(c.Request.Context(), card)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPNG(c, path)
}

func (s *Server) getCardThumbnail(c *gin.Context) {
	width := defaultThumbnailWidth
	if raw := c.Query("width"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperr.NewInvalidInput("width %q is not an integer", raw))
			return
		}
		width = v
	}
	card, ok := s.loadCard(c)
	if !ok {
		return
	}
	b, err := s.renderer.Thumbnail(c.Request.Context(), card, width)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) putCard(c *gin.Context) {
	id, err := cardID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var body cards.FullCardData
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperr.NewInvalidInput("card body: %v", err))
		return
	}
	if body.ID == 0 {
		body.ID = id
	}
	if body.ID != id {
		respondError(c, apperr.NewInvalidInput("body id %d does not match path id %d", body.ID, id))
		return
	}
	if body.Name == "" {
		respondError(c, apperr.NewInvalidInput("card name is required"))
		return
	}
	if body.ImageURL != "" {
		if _, err := url.Parse(body.ImageURL); err != nil {
			respondError(c, apperr.NewInvalidInput("image_url: %v", err))
			return
		}
	}
	for i := range body.CardAttributes {
		body.CardAttributes[i].CardID = id
	}
	if err := s.store.PutCard(c.Request.Context(), body); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// filterCards matches FilterOptions against every stored card.
func (s *Server) filterCards(c *gin.Context) {
	var opt cards.FilterOptions
	if err := c.ShouldBindJSON(&opt); err != nil {
		respondError(c, apperr.NewInvalidInput("filter body: %v", err))
		return
	}
	all, err := s.store.AllCards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := cards.Filter(all, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

func (s *Server) queryCards(c *gin.Context) {
	cs, err := s.store.QueryCardsByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (s *Server) getDeck(c *gin.Context) {
	name, err := deckName(c)
	if err != nil {
		respondError(c, err)
		return
	}
	cs, err := s.store.GetCardsByDeckName(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (s *Server) putDeck(c *gin.Context) {
	name, err := deckName(c)
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, apperr.NewInvalidInput("read body: %v", err))
		return
	}
	ids, err := deck.ParseCardIDs(string(body))
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := s.store.PutDeck(c.Request.Context(), name, ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) getDeckCardsheet(c *gin.Context) {
	name, err := deckName(c)
	if err != nil {
		respondError(c, err)
		return
	}
	cs, err := s.store.GetCardsByDeckName(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := s.renderer.RenderDeckSheet(c.Request.Context(), name, cs)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPNG(c, path)
}

func (s *Server) getDeckExport(c *gin.Context) {
	name, err := deckName(c)
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := s.store.GetDeck(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	cs, err := s.store.GetCardsByDeckName(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=UTF-8", []byte(deck.ExportDeckText(d, cs)))
}

// qr endpoint returns a PNG of the deck's share code
func (s *Server) getDeckQR(c *gin.Context) {
	name, err := deckName(c)
	if err != nil {
		respondError(c, err)
		return
	}
	size := imagepkg.DefaultQRSize
	if raw := c.Query("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > imagepkg.MaxQRSize {
			respondError(c, apperr.NewInvalidInput("size must be an integer between 1 and %d", imagepkg.MaxQRSize))
			return
		}
		size = v
	}
	d, err := s.store.GetDeck(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := imagepkg.DeckQRPNG(d, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) queryDecks(c *gin.Context) {
	ds, err := s.store.QueryDecksByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}
