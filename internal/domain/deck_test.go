package domain

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestDrawAndDiscardKeepPilesIndependent(t *testing.T) {
	g := &GameState{
		DeckA: []Card{{DefinitionID: "red-chasm", Kind: CardTerritory}, ShaiHuludCard()},
		DeckB: []Card{{DefinitionID: "old-gap", Kind: CardTerritory}},
	}
	deckBBefore := append([]Card{}, g.DeckB...)

	card, ok := g.Draw(DeckA)
	if !ok {
		t.Fatalf("draw failed on non-empty deck")
	}
	if card.DefinitionID != "red-chasm" {
		t.Fatalf("drew %q, want front card red-chasm", card.DefinitionID)
	}
	g.DiscardCard(card, DeckA)

	if len(g.DeckA) != 1 || len(g.DiscardA) != 1 {
		t.Fatalf("deck A piles = %d/%d, want 1/1", len(g.DeckA), len(g.DiscardA))
	}
	if !reflect.DeepEqual(g.DeckB, deckBBefore) || len(g.DiscardB) != 0 {
		t.Fatalf("deck B piles changed by deck A operations")
	}
}

func TestDrawEmptyDeck(t *testing.T) {
	g := &GameState{}
	if _, ok := g.Draw(DeckA); ok {
		t.Fatalf("draw from empty deck should report ok=false")
	}
}

func TestReshuffleOnEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := &GameState{
		DiscardB: []Card{
			{DefinitionID: "south-mesa", Kind: CardTerritory},
			{DefinitionID: "red-chasm", Kind: CardTerritory},
			ShaiHuludCard(),
		},
	}

	if !g.ReshuffleOnEmpty(DeckB, rng) {
		t.Fatalf("expected reshuffle of empty deck with non-empty discard")
	}
	if len(g.DiscardB) != 0 {
		t.Fatalf("discard B not emptied after reshuffle: %d cards left", len(g.DiscardB))
	}
	if len(g.DeckB) != 3 {
		t.Fatalf("deck B = %d cards after reshuffle, want 3", len(g.DeckB))
	}
	if len(g.DeckA) != 0 || len(g.DiscardA) != 0 {
		t.Fatalf("deck A piles changed by deck B reshuffle")
	}

	// No-op when the deck still has cards.
	if g.ReshuffleOnEmpty(DeckB, rng) {
		t.Fatalf("reshuffle should be a no-op on a non-empty deck")
	}
}

func TestReshuffleOnEmptyNothingToShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := &GameState{}
	if g.ReshuffleOnEmpty(DeckA, rng) {
		t.Fatalf("reshuffle should be a no-op with an empty discard")
	}
}

func TestReshuffleTurnOneWormsSplitsAlternately(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := &GameState{}
	setAside := []Card{ShaiHuludCard(), ShaiHuludCard(), ShaiHuludCard()}

	g.ReshuffleTurnOneWorms(setAside, rng)

	if len(g.DeckA) != 2 {
		t.Fatalf("deck A got %d worms, want 2", len(g.DeckA))
	}
	if len(g.DeckB) != 1 {
		t.Fatalf("deck B got %d worms, want 1", len(g.DeckB))
	}
}

func TestShuffleDeckDeterministicWithSeed(t *testing.T) {
	deck := NewSpiceDeck()
	a := ShuffleDeck(deck, rand.New(rand.NewSource(42)))
	b := ShuffleDeck(deck, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different shuffles")
	}
}

func TestNewSpiceDeckComposition(t *testing.T) {
	deck := NewSpiceDeck()
	worms := 0
	for _, c := range deck {
		if c.Kind == CardShaiHulud {
			worms++
			continue
		}
		if _, ok := LookupSpiceCard(c.DefinitionID); !ok {
			t.Fatalf("territory card %q has no definition", c.DefinitionID)
		}
	}
	if worms != 6 {
		t.Fatalf("deck holds %d worm cards, want 6", worms)
	}
}
