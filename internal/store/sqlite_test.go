package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/youruser/cardego/internal/apperr"
	"github.com/youruser/cardego/internal/cards"
	"github.com/youruser/cardego/internal/store"
)

func openTestDB(t *testing.T) *store.CardDatabase {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "databases", "cards.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fireball() cards.FullCardData {
	return cards.FullCardData{
		Card: cards.Card{ID: 1, CardClass: "spell", Action: 1, Speed: 2, Initiative: 0,
			Name: "Fireball", Desc: "Deals 3 damage", ImageURL: "file:///assets/fireball.png"},
		CardAttributes: []cards.CardAttribute{{CardID: 1, Attribute: "element", Value: "fire"}},
	}
}

func seed(t *testing.T, db *store.CardDatabase, cs ...cards.FullCardData) {
	t.Helper()
	if err := db.PutCards(context.Background(), cs); err != nil {
		t.Fatalf("PutCards: %v", err)
	}
}

func isKind(err error, kind apperr.ClientKind) bool {
	var ce *apperr.ClientError
	return errors.As(err, &ce) && ce.Kind == kind
}

func TestPutAndGetCard(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seed(t, db, fireball())

	got, err := db.GetCard(ctx, 1)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got != fireball().Card {
		t.Errorf("GetCard = %+v, want %+v", got, fireball().Card)
	}

	attrs, err := db.GetCardAttributes(ctx, 1)
	if err != nil {
		t.Fatalf("GetCardAttributes: %v", err)
	}
	if len(attrs) != 1 || attrs[0].Attribute != "element" || attrs[0].Value != "fire" {
		t.Errorf("attributes = %+v", attrs)
	}
}

func TestPutCardUpdatesAndKeepsAttributesWhenNil(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seed(t, db, fireball())

	updated := cards.FullCardData{Card: fireball().Card}
	updated.Desc = "Deals 4 damage"
	if err := db.PutCard(ctx, updated); err != nil {
		t.Fatalf("PutCard: %v", err)
	}

	got, err := db.GetCard(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Desc != "Deals 4 damage" {
		t.Errorf("desc = %q", got.Desc)
	}
	attrs, err := db.GetCardAttributes(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 1 {
		t.Errorf("expected attributes kept, got %+v", attrs)
	}

	updated.CardAttributes = []cards.CardAttribute{}
	if err := db.PutCard(ctx, updated); err != nil {
		t.Fatal(err)
	}
	attrs, _ = db.GetCardAttributes(ctx, 1)
	if len(attrs) != 0 {
		t.Errorf("expected attributes cleared, got %+v", attrs)
	}
}

func TestGetCardNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetCard(context.Background(), 42)
	if !isKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestPutDeckAndGetCardsInOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	bash := cards.FullCardData{Card: cards.Card{ID: 2, Name: "Shield Bash"}}
	seed(t, db, fireball(), bash)

	d, err := db.PutDeck(ctx, "starter", []int{2, 1, 2})
	if err != nil {
		t.Fatalf("PutDeck: %v", err)
	}
	if d.Name != "starter" || len(d.CardIDs) != 3 {
		t.Errorf("PutDeck returned %+v", d)
	}

	cs, err := db.GetCardsByDeckName(ctx, "starter")
	if err != nil {
		t.Fatalf("GetCardsByDeckName: %v", err)
	}
	var ids []int
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("deck order = %v, want [2 1 2]", ids)
	}

	// Replacing the deck drops the old entries.
	if _, err := db.PutDeck(ctx, "starter", []int{1}); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetDeck(ctx, "starter")
	if err != nil {
		t.Fatalf("GetDeck: %v", err)
	}
	if len(got.CardIDs) != 1 || got.CardIDs[0] != 1 {
		t.Errorf("replaced deck = %+v", got)
	}
}

func TestPutDeckUnknownCard(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, fireball())

	_, err := db.PutDeck(context.Background(), "broken", []int{1, 99})
	if !isKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := db.GetDeck(context.Background(), "broken"); !isKind(err, apperr.NotFound) {
		t.Errorf("deck should not exist after failed put, got %v", err)
	}
}

func TestGetCardsByDeckNameMissingDeck(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetCardsByDeckName(context.Background(), "nope")
	if !isKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestEmptyDeckExists(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if _, err := db.PutDeck(ctx, "empty", nil); err != nil {
		t.Fatal(err)
	}
	cs, err := db.GetCardsByDeckName(ctx, "empty")
	if err != nil {
		t.Fatalf("GetCardsByDeckName: %v", err)
	}
	if len(cs) != 0 {
		t.Errorf("expected no cards, got %d", len(cs))
	}
}

func TestQueryByName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seed(t, db,
		fireball(),
		cards.FullCardData{Card: cards.Card{ID: 2, Name: "Fire_Wall"}},
		cards.FullCardData{Card: cards.Card{ID: 3, Name: "Frost Nova"}},
	)
	for _, n := range []string{"fire deck", "ice deck", "fire_100%"} {
		if _, err := db.PutDeck(ctx, n, []int{1}); err != nil {
			t.Fatal(err)
		}
	}

	cs, err := db.QueryCardsByName(ctx, "Fire")
	if err != nil {
		t.Fatalf("QueryCardsByName: %v", err)
	}
	if len(cs) != 2 {
		t.Errorf("expected 2 cards matching Fire, got %d", len(cs))
	}

	// "_" must match literally, not as a wildcard.
	cs, err = db.QueryCardsByName(ctx, "e_W")
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 || cs[0].ID != 2 {
		t.Errorf("literal underscore query = %+v", cs)
	}

	ds, err := db.QueryDecksByName(ctx, "fire")
	if err != nil {
		t.Fatalf("QueryDecksByName: %v", err)
	}
	if len(ds) != 2 || ds[0].Name != "fire deck" || ds[1].Name != "fire_100%" {
		t.Errorf("decks = %+v", ds)
	}
	if len(ds[0].CardIDs) != 1 {
		t.Errorf("deck card ids not loaded: %+v", ds[0])
	}

	all, err := db.AllCards(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("AllCards = %d cards, want 3", len(all))
	}
}
