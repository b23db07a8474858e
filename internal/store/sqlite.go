// Package store is the SQLite-backed card and deck database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/youruser/cardego/internal/apperr"
	"github.com/youruser/cardego/internal/cards"
	"github.com/youruser/cardego/internal/deck"
	"github.com/youruser/cardego/internal/util"
)

const schema = `
	CREATE TABLE IF NOT EXISTS cards (
		id INTEGER PRIMARY KEY,
		cardclass TEXT NOT NULL DEFAULT '',
		action INTEGER NOT NULL DEFAULT 0,
		speed INTEGER NOT NULL DEFAULT 0,
		initiative INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS card_attributes (
		card_id INTEGER NOT NULL,
		attribute TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS card_attributes_card_id ON card_attributes(card_id);

	CREATE TABLE IF NOT EXISTS decks (
		name TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS deck_cards (
		deck_name TEXT NOT NULL,
		position INTEGER NOT NULL,
		card_id INTEGER NOT NULL,
		PRIMARY KEY (deck_name, position),
		FOREIGN KEY (deck_name) REFERENCES decks(name) ON DELETE CASCADE,
		FOREIGN KEY (card_id) REFERENCES cards(id)
	);`

const cardColumns = "id, cardclass, action, speed, initiative, name, description, image_url"

// CardDatabase holds one long-lived connection. Every call takes mu, so
// all database access is serialized.
type CardDatabase struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the database at path and ensures the tables exist.
func Open(path string) (*CardDatabase, error) {
	if path != ":memory:" {
		if err := util.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, apperr.NewFileIO("create database dir", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperr.NewDatabase("open sqlite", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, apperr.NewDatabase("enable foreign keys", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, apperr.NewDatabase("create schema", err)
	}
	return &CardDatabase{db: db}, nil
}

func (s *CardDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (cards.Card, error) {
	var c cards.Card
	err := row.Scan(&c.ID, &c.CardClass, &c.Action, &c.Speed, &c.Initiative,
		&c.Name, &c.Desc, &c.ImageURL)
	return c, err
}

func (s *CardDatabase) GetCard(ctx context.Context, id int) (cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM cards WHERE id = ?", id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return cards.Card{}, apperr.NewNotFound("card %d", id)
	}
	if err != nil {
		return cards.Card{}, apperr.NewDatabase("get card", err)
	}
	return c, nil
}

func (s *CardDatabase) GetCardAttributes(ctx context.Context, cardID int) ([]cards.CardAttribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT card_id, attribute, value FROM card_attributes WHERE card_id = ? ORDER BY rowid", cardID)
	if err != nil {
		return nil, apperr.NewDatabase("query card attributes", err)
	}
	defer func() { _ = rows.Close() }()

	out := []cards.CardAttribute{}
	for rows.Next() {
		var a cards.CardAttribute
		if err := rows.Scan(&a.CardID, &a.Attribute, &a.Value); err != nil {
			return nil, apperr.NewDatabase("scan card attribute", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewDatabase("iterate card attributes", err)
	}
	return out, nil
}

// PutCard upserts a card. Its attributes are replaced when
// CardAttributes is non-nil and left alone otherwise.
func (s *CardDatabase) PutCard(ctx context.Context, card cards.FullCardData) error {
	return s.PutCards(ctx, []cards.FullCardData{card})
}

// PutCards upserts several cards in one transaction.
func (s *CardDatabase) PutCards(ctx context.Context, cs []cards.FullCardData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewDatabase("begin put cards", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range cs {
		if err := putCardTx(ctx, tx, c); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.NewDatabase("commit put cards", err)
	}
	return nil
}

func putCardTx(ctx context.Context, tx *sql.Tx, c cards.FullCardData) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			cardclass = excluded.cardclass,
			action = excluded.action,
			speed = excluded.speed,
			initiative = excluded.initiative,
			name = excluded.name,
			description = excluded.description,
			image_url = excluded.image_url`,
		c.ID, c.CardClass, c.Action, c.Speed, c.Initiative, c.Name, c.Desc, c.ImageURL)
	if err != nil {
		return apperr.NewDatabase(fmt.Sprintf("upsert card %d", c.ID), err)
	}
	if c.CardAttributes == nil {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM card_attributes WHERE card_id = ?", c.ID); err != nil {
		return apperr.NewDatabase("clear card attributes", err)
	}
	for _, a := range c.CardAttributes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO card_attributes (card_id, attribute, value) VALUES (?, ?, ?)",
			c.ID, a.Attribute, a.Value); err != nil {
			return apperr.NewDatabase("insert card attribute", err)
		}
	}
	return nil
}

// GetCardsByDeckName returns the deck's cards in deck order.
func (s *CardDatabase) GetCardsByDeckName(ctx context.Context, name string) ([]cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := deckExists(ctx, s.db, name); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.cardclass, c.action, c.speed, c.initiative, c.name, c.description, c.image_url
		 FROM deck_cards dc JOIN cards c ON c.id = dc.card_id
		 WHERE dc.deck_name = ? ORDER BY dc.position`, name)
	if err != nil {
		return nil, apperr.NewDatabase("query deck cards", err)
	}
	return collectCards(rows)
}

func (s *CardDatabase) GetDeck(ctx context.Context, name string) (deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := deckExists(ctx, s.db, name); err != nil {
		return deck.Deck{}, err
	}
	decks, err := loadDecks(ctx, s.db, []string{name})
	if err != nil {
		return deck.Deck{}, err
	}
	return decks[0], nil
}

// PutDeck creates or replaces a deck. Every card id must exist.
func (s *CardDatabase) PutDeck(ctx context.Context, name string, cardIDs []int) (deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return deck.Deck{}, apperr.NewDatabase("begin put deck", err)
	}
	defer func() { _ = tx.Rollback() }()

	seen := map[int]bool{}
	for _, id := range cardIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM cards WHERE id = ?", id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return deck.Deck{}, apperr.NewNotFound("card %d", id)
		}
		if err != nil {
			return deck.Deck{}, apperr.NewDatabase("check card", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO decks (name) VALUES (?)", name); err != nil {
		return deck.Deck{}, apperr.NewDatabase("insert deck", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM deck_cards WHERE deck_name = ?", name); err != nil {
		return deck.Deck{}, apperr.NewDatabase("clear deck cards", err)
	}
	for pos, id := range cardIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO deck_cards (deck_name, position, card_id) VALUES (?, ?, ?)",
			name, pos, id); err != nil {
			return deck.Deck{}, apperr.NewDatabase("insert deck card", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return deck.Deck{}, apperr.NewDatabase("commit put deck", err)
	}

	ids := make([]int, len(cardIDs))
	copy(ids, cardIDs)
	return deck.Deck{Name: name, CardIDs: ids}, nil
}

// QueryDecksByName returns decks whose name contains substr, ordered by name.
func (s *CardDatabase) QueryDecksByName(ctx context.Context, substr string) ([]deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM decks WHERE name LIKE ? ESCAPE '\' ORDER BY name`, likePattern(substr))
	if err != nil {
		return nil, apperr.NewDatabase("query decks", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			_ = rows.Close()
			return nil, apperr.NewDatabase("scan deck name", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, apperr.NewDatabase("iterate decks", err)
	}
	_ = rows.Close()
	return loadDecks(ctx, s.db, names)
}

// QueryCardsByName returns cards whose name contains substr, ordered by id.
func (s *CardDatabase) QueryCardsByName(ctx context.Context, substr string) ([]cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+cardColumns+` FROM cards WHERE name LIKE ? ESCAPE '\' ORDER BY id`, likePattern(substr))
	if err != nil {
		return nil, apperr.NewDatabase("query cards", err)
	}
	return collectCards(rows)
}

func (s *CardDatabase) AllCards(ctx context.Context) ([]cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+cardColumns+" FROM cards ORDER BY id")
	if err != nil {
		return nil, apperr.NewDatabase("query all cards", err)
	}
	return collectCards(rows)
}

func collectCards(rows *sql.Rows) ([]cards.Card, error) {
	defer func() { _ = rows.Close() }()
	out := []cards.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, apperr.NewDatabase("scan card", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewDatabase("iterate cards", err)
	}
	return out, nil
}

func deckExists(ctx context.Context, db *sql.DB, name string) error {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM decks WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NewNotFound("deck %q", name)
	}
	if err != nil {
		return apperr.NewDatabase("check deck", err)
	}
	return nil
}

func loadDecks(ctx context.Context, db *sql.DB, names []string) ([]deck.Deck, error) {
	out := make([]deck.Deck, 0, len(names))
	for _, n := range names {
		rows, err := db.QueryContext(ctx,
			"SELECT card_id FROM deck_cards WHERE deck_name = ? ORDER BY position", n)
		if err != nil {
			return nil, apperr.NewDatabase("query deck card ids", err)
		}
		d := deck.Deck{Name: n, CardIDs: []int{}}
		for rows.Next() {
			var id int
			if err := rows.Scan(&id); err != nil {
				_ = rows.Close()
				return nil, apperr.NewDatabase("scan deck card id", err)
			}
			d.CardIDs = append(d.CardIDs, id)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, apperr.NewDatabase("iterate deck card ids", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func likePattern(substr string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(substr) + "%"
}
