package deck

import (
	"strconv"
	"strings"

	"github.com/youruser/cardego/internal/apperr"
)

type Deck struct {
	Name    string `json:"name"`
	CardIDs []int  `json:"card_ids"` // in deck order, duplicates allowed
}

// ParseCardIDs parses a whitespace separated list of integer card ids.
func ParseCardIDs(body string) ([]int, error) {
	fields := strings.Fields(body)
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, apperr.NewInvalidInput("%q is not a valid card id", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ValidateName rejects deck names that cannot be used as a file name,
// since the rendered sheet is stored as {name}.png.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperr.NewInvalidInput("deck name is empty")
	case name == "." || name == "..":
		return apperr.NewInvalidInput("deck name %q is reserved", name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return apperr.NewInvalidInput("deck name %q contains a path separator", name)
	case len(name) > 200:
		return apperr.NewInvalidInput("deck name is longer than 200 bytes")
	}
	return nil
}
