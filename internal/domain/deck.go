package domain

import "math/rand"

// deck returns a pointer to the named deck slice.
func (g *GameState) deck(dt DeckType) *[]Card {
	if dt == DeckB {
		return &g.DeckB
	}
	return &g.DeckA
}

// discard returns a pointer to the named discard slice.
func (g *GameState) discard(dt DeckType) *[]Card {
	if dt == DeckB {
		return &g.DiscardB
	}
	return &g.DiscardA
}

// Deck returns the named deck. Front of the slice is drawn next.
func (g *GameState) Deck(dt DeckType) []Card {
	return *g.deck(dt)
}

// Discard returns the named discard pile. The last element is topmost.
func (g *GameState) Discard(dt DeckType) []Card {
	return *g.discard(dt)
}

// Draw removes and returns the front card of the named deck. Callers must
// reshuffle first when the deck is empty; drawing from an empty deck
// returns ok=false.
func (g *GameState) Draw(dt DeckType) (Card, bool) {
	deck := g.deck(dt)
	if len(*deck) == 0 {
		return Card{}, false
	}
	card := (*deck)[0]
	*deck = (*deck)[1:]
	return card, true
}

// DiscardCard appends the card to the named discard pile, making it topmost.
func (g *GameState) DiscardCard(card Card, dt DeckType) {
	pile := g.discard(dt)
	*pile = append(*pile, card)
}

// ReshuffleOnEmpty shuffles the discard pile back into the deck when the
// deck is empty and the discard is not. Returns true if a reshuffle
// happened. The two piles of the other deck are never touched.
func (g *GameState) ReshuffleOnEmpty(dt DeckType, rng *rand.Rand) bool {
	deck := g.deck(dt)
	pile := g.discard(dt)
	if len(*deck) != 0 || len(*pile) == 0 {
		return false
	}
	*deck = append(*deck, *pile...)
	*pile = nil
	shuffleCards(*deck, rng)
	return true
}

// ReshuffleTurnOneWorms splits the set-aside worm cards alternately between
// deck A and deck B and shuffles each half into its deck.
func (g *GameState) ReshuffleTurnOneWorms(setAside []Card, rng *rand.Rand) {
	for i, card := range setAside {
		if i%2 == 0 {
			g.DeckA = append(g.DeckA, card)
		} else {
			g.DeckB = append(g.DeckB, card)
		}
	}
	if len(setAside) > 0 {
		shuffleCards(g.DeckA, rng)
		shuffleCards(g.DeckB, rng)
	}
}

// shuffleCards shuffles in place with the provided source.
func shuffleCards(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	shuffleCards(out, rng)
	return out
}
