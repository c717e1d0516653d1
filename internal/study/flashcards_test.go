package study

import (
	"testing"

	"github.com/lecturelab/lectura-backend/internal/types"
)

func makeDeck(n int) *FlashcardDeck {
	cards := make([]types.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, types.Flashcard{ID: i + 1, Front: "f", Back: "b"})
	}
	return NewFlashcardDeck(cards)
}

func TestFlashcardDeckCyclicNavigation(t *testing.T) {
	deck := makeDeck(3)

	deck.Previous()
	if deck.Index() != 2 {
		t.Fatalf("Previous() from first card: index = %d, want 2", deck.Index())
	}
	deck.Next()
	if deck.Index() != 0 {
		t.Fatalf("Next() from last card: index = %d, want 0", deck.Index())
	}
	deck.Next()
	deck.Next()
	deck.Next()
	if deck.Index() != 0 {
		t.Fatalf("three Next() on a 3-card deck: index = %d, want 0", deck.Index())
	}
}

func TestFlashcardDeckNavigationHidesBack(t *testing.T) {
	deck := makeDeck(2)
	deck.Reveal()
	if !deck.Revealed() {
		t.Fatalf("Reveal() had no effect")
	}
	deck.Next()
	if deck.Revealed() {
		t.Fatalf("Next() kept the back revealed")
	}
	deck.Reveal()
	deck.Previous()
	if deck.Revealed() {
		t.Fatalf("Previous() kept the back revealed")
	}
}

func TestFlashcardDeckEmpty(t *testing.T) {
	deck := makeDeck(0)
	deck.Next()
	deck.Previous()
	deck.Reveal()
	if deck.Revealed() {
		t.Fatalf("Reveal() on an empty deck set the revealed flag")
	}
	if _, ok := deck.Current(); ok {
		t.Fatalf("Current() on an empty deck reported a card")
	}
}
