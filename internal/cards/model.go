package cards

type Card struct {
	ID         int    `json:"id"`
	CardClass  string `json:"cardclass"`
	Action     int    `json:"action"`
	Speed      int    `json:"speed"`
	Initiative int    `json:"initiative"`
	Name       string `json:"name"`
	Desc       string `json:"desc"`
	ImageURL   string `json:"image_url"`
}

type CardAttribute struct {
	CardID    int    `json:"card_id"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// FullCardData is a card together with its attributes.
type FullCardData struct {
	Card
	CardAttributes []CardAttribute `json:"card_attributes"`
}
