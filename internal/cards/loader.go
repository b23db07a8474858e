package cards

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// parseAttributeCell splits "key=value / key=value" into attributes.
// A bare "key" becomes an attribute with an empty value.
func parseAttributeCell(cardID int, s string) []CardAttribute {
	s = strings.ReplaceAll(s, "／", "/")
	out := []CardAttribute{}
	for _, p := range strings.Split(s, "/") {
		t := strings.TrimSpace(p)
		if t == "" || t == "-" {
			continue
		}
		k, v, _ := strings.Cut(t, "=")
		out = append(out, CardAttribute{
			CardID:    cardID,
			Attribute: strings.TrimSpace(k),
			Value:     strings.TrimSpace(v),
		})
	}
	return out
}

// LoadCardsFromCSV reads cards from a CSV file with a header row.
// Required columns: id, name. Optional: cardclass, action, speed,
// initiative, desc, image_url, attributes.
func LoadCardsFromCSV(path string) ([]FullCardData, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	cs, err := ReadCards(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cs, nil
}

func ReadCards(r io.Reader) ([]FullCardData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", required)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	getInt := func(row []string, name string, line int) (int, error) {
		s := get(row, name)
		if s == "" || s == "-" {
			return 0, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("line %d: column %s: %w", line, name, err)
		}
		return v, nil
	}

	out := []FullCardData{}
	for i, row := range rows[1:] {
		line := i + 2
		id, err := getInt(row, "id", line)
		if err != nil {
			return nil, err
		}
		c := Card{
			ID:        id,
			CardClass: get(row, "cardclass"),
			Name:      get(row, "name"),
			Desc:      get(row, "desc"),
			ImageURL:  get(row, "image_url"),
		}
		if c.Action, err = getInt(row, "action", line); err != nil {
			return nil, err
		}
		if c.Speed, err = getInt(row, "speed", line); err != nil {
			return nil, err
		}
		if c.Initiative, err = getInt(row, "initiative", line); err != nil {
			return nil, err
		}
		out = append(out, FullCardData{
			Card:           c,
			CardAttributes: parseAttributeCell(id, get(row, "attributes")),
		})
	}
	return out, nil
}
