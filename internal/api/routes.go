package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// NewRouter returns a gin engine with logging, recovery, request ids and
// all service routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(requestID(), gin.Logger(), gin.Recovery())
	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.GET("/health", health)
	r.GET("/card.css", s.cardCSS)

	card := r.Group("/card")
	{
		card.GET("/:id", s.getCard)
		card.PUT("/:id", s.putCard)
		card.GET("/:id/image", s.getCardImageHTML)
		card.GET("/:id/image.png", s.getCardImagePNG)
		card.GET("/:id/thumb.png", s.getCardThumbnail)
		card.GET("/query/:name", s.queryCards)
		card.POST("/filter", s.filterCards)
	}

	deck := r.Group("/deck")
	{
		deck.GET("/:name", s.getDeck)
		deck.PUT("/:name", s.putDeck)
		deck.GET("/:name/cardsheet", s.getDeckCardsheet)
		deck.GET("/:name/export", s.getDeckExport)
		deck.GET("/:name/qr", s.getDeckQR)
		deck.GET("/query/:name", s.queryDecks)
	}
}

// requestID tags each request with X-Request-ID, keeping one sent by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
