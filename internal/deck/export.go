package deck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/youruser/cardego/internal/cards"
)

// ExportDeckText renders the deck as "# name" followed by one "Nx Name (#id)"
// line per distinct card, in order of first appearance.
func ExportDeckText(d Deck, cs []cards.Card) string {
	names := map[int]string{}
	for _, c := range cs {
		names[c.ID] = c.Name
	}
	counts := map[int]int{}
	order := []int{}
	for _, id := range d.CardIDs {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	lines := []string{}
	if d.Name != "" {
		lines = append(lines, "# "+d.Name)
	}
	for _, id := range order {
		name := names[id]
		if name == "" {
			name = "unknown"
		}
		lines = append(lines, fmt.Sprintf("%dx %s (#%d)", counts[id], name, id))
	}
	return strings.Join(lines, "\n") + "\n"
}

// ShareCode is the compact form encoded into deck QR codes.
func ShareCode(d Deck) string {
	ids := make([]string, len(d.CardIDs))
	for i, id := range d.CardIDs {
		ids[i] = strconv.Itoa(id)
	}
	return "deck:" + d.Name + ":" + strings.Join(ids, " ")
}
