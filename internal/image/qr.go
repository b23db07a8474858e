package imagepkg

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/cardego/internal/deck"
)

const (
	DefaultQRSize = 400
	MaxQRSize     = 2048
)

// DeckQRPNG encodes the deck's share code as a size×size PNG.
func DeckQRPNG(d deck.Deck, size int) ([]byte, error) {
	if size < 1 || size > MaxQRSize {
		return nil, fmt.Errorf("qr size %d out of range 1..%d", size, MaxQRSize)
	}
	code := deck.ShareCode(d)
	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode share code %q: %w", code, err)
	}
	return qr.PNG(size)
}
