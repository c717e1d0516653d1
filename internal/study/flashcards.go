package study

import "github.com/lecturelab/lectura-backend/internal/types"

// FlashcardDeck is a pure flip-through state machine over a generated deck.
// Navigation is cyclic in both directions and always hides the back first.
type FlashcardDeck struct {
	cards    []types.Flashcard
	index    int
	revealed bool
}

func NewFlashcardDeck(cards []types.Flashcard) *FlashcardDeck {
	return &FlashcardDeck{cards: cards}
}

func (d *FlashcardDeck) Size() int { return len(d.cards) }

func (d *FlashcardDeck) Index() int { return d.index }

func (d *FlashcardDeck) Revealed() bool { return d.revealed }

func (d *FlashcardDeck) Current() (types.Flashcard, bool) {
	if len(d.cards) == 0 {
		return types.Flashcard{}, false
	}
	return d.cards[d.index], true
}

func (d *FlashcardDeck) Reveal() {
	if len(d.cards) == 0 {
		return
	}
	d.revealed = true
}

func (d *FlashcardDeck) Next() {
	if len(d.cards) == 0 {
		return
	}
	d.revealed = false
	d.index = (d.index + 1) % len(d.cards)
}

func (d *FlashcardDeck) Previous() {
	if len(d.cards) == 0 {
		return
	}
	d.revealed = false
	d.index = (d.index - 1 + len(d.cards)) % len(d.cards)
}
