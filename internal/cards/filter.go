package cards

import "strings"

type FilterOptions struct {
	CardClasses []string `json:"cardclasses"`
	Actions     []int    `json:"actions"`
	Speeds      []int    `json:"speeds"`
	Initiatives []int    `json:"initiatives"`
	FreeWords   string   `json:"free_words"`
}

func containsInt(hay []int, n int) bool {
	for _, h := range hay {
		if h == n {
			return true
		}
	}
	return false
}

// Filter keeps the cards matching every non-empty option. FreeWords are
// whitespace separated and each must appear (case-insensitively) in the
// card's name, description or class.
func Filter(cards []Card, opt FilterOptions) []Card {
	out := []Card{}
	for _, c := range cards {
		if len(opt.CardClasses) > 0 {
			matched := false
			for _, cc := range opt.CardClasses {
				if strings.EqualFold(c.CardClass, cc) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if len(opt.Actions) > 0 && !containsInt(opt.Actions, c.Action) {
			continue
		}
		if len(opt.Speeds) > 0 && !containsInt(opt.Speeds, c.Speed) {
			continue
		}
		if len(opt.Initiatives) > 0 && !containsInt(opt.Initiatives, c.Initiative) {
			continue
		}
		if opt.FreeWords != "" {
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				k = strings.ToLower(k)
				if !strings.Contains(strings.ToLower(c.Name), k) &&
					!strings.Contains(strings.ToLower(c.Desc), k) &&
					!strings.Contains(strings.ToLower(c.CardClass), k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
