package imagepkg

import (
	"fmt"
	"path/filepath"
)

const DefaultDataDir = "runtime/data"

// Paths maps cards and decks to their fixed file locations under Root.
// The same id or deck name always maps to the same files.
type Paths struct {
	Root string
}

func (p Paths) root() string {
	if p.Root == "" {
		return DefaultDataDir
	}
	return p.Root
}

func (p Paths) CardHTML(id int) string {
	return filepath.Join(p.root(), "cards", "images", "templates", fmt.Sprintf("%d.html", id))
}

func (p Paths) CardImage(id int) string {
	return filepath.Join(p.root(), "cards", "images", fmt.Sprintf("%d.png", id))
}

func (p Paths) CardArt(id int) string {
	return filepath.Join(p.root(), "cards", "images", fmt.Sprintf("%d-art.png", id))
}

func (p Paths) DeckHTML(name string) string {
	return filepath.Join(p.root(), "decks", "images", "templates", name+".html")
}

func (p Paths) DeckImage(name string) string {
	return filepath.Join(p.root(), "decks", "images", name+".png")
}
