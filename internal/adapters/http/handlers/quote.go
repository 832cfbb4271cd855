package handlers

import (
	"net/http"
	"net/netip"

	"github.com/gin-gonic/gin"

	"github.com/Noratrieb/qotdd/internal/adapters/http/dto"
	"github.com/Noratrieb/qotdd/internal/app"
)

// quoteResponse is the response structure for the quote preview endpoint.
type quoteResponse struct {
	Text     string `json:"text"`
	Author   string `json:"author,omitempty"`
	Rendered string `json:"rendered"`
}

// QuoteHandler exposes the quote selection over the ops HTTP surface.
// It exists for operators poking at a running daemon; the real protocol
// surface is the QOTD TCP/UDP listener.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Next handles GET /quotes/next.
// Returns the quote the selector would serve next, charged against the
// caller's rate limit budget like any protocol client. Under rotation
// policy it advances the cursor.
func (h *QuoteHandler) Next(c *gin.Context) {
	quote, err := h.service.QuoteFor(c.Request.Context(), clientAddr(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse{
		Text:     quote.Text,
		Author:   quote.Author,
		Rendered: quote.String(),
	})
}

// clientAddr parses the client IP for rate limit bucketing. Unparseable
// addresses share the zero-address bucket.
func clientAddr(c *gin.Context) netip.Addr {
	addr, err := netip.ParseAddr(c.ClientIP())
	if err != nil {
		return netip.Addr{}
	}

	return addr.Unmap()
}

// RegisterRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotes/next", h.Next)
}
