package guide

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTipBookMatchIsCaseInsensitiveSubstring(t *testing.T) {
	book := NewTipBook([]Tip{
		{Place: "India Gate", UniversalTip: "go at night"},
		{Place: "Red Fort", UniversalTip: "book online"},
	})

	tip, ok := book.Match("best food near INDIA gate tonight")
	if !ok {
		t.Fatal("expected a match")
	}
	if tip.Place != "India Gate" {
		t.Fatalf("expected India Gate, got %s", tip.Place)
	}

	if _, ok := book.Match("anything in Mumbai"); ok {
		t.Fatal("expected no match")
	}
}

func TestTipBookFirstMatchWinsInDeclaredOrder(t *testing.T) {
	book := NewTipBook([]Tip{
		{Place: "Fort", UniversalTip: "first"},
		{Place: "Red Fort", UniversalTip: "second"},
	})

	tip, ok := book.Match("tell me about red fort")
	if !ok || tip.UniversalTip != "first" {
		t.Fatalf("expected the first declared entry to win, got %+v", tip)
	}
}

func TestLoadTipBookFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tips.json")
	payload := `[
		{"place":"Chandni Chowk","universal_tip":"go hungry","warning":"watch your pockets"},
		{"place":"Lodhi Garden","universal_tip":"best at dawn"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	book, err := LoadTipBook(path)
	if err != nil {
		t.Fatalf("LoadTipBook: %v", err)
	}
	if book.Len() != 2 {
		t.Fatalf("expected 2 tips, got %d", book.Len())
	}

	tip, ok := book.Match("street food at chandni chowk")
	if !ok || tip.Warning != "watch your pockets" {
		t.Fatalf("unexpected tip: %+v", tip)
	}
}

func TestLoadTipBookMissingFile(t *testing.T) {
	if _, err := LoadTipBook(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestPersonaResolveFirstWordAndFallback(t *testing.T) {
	store := NewMemoryPersonaStore(Rules())

	rule, ok := store.Resolve("hindi (devanagari script)")
	if !ok || rule.SpeechCode != "hi" {
		t.Fatalf("expected the hindi rule, got %+v (ok=%v)", rule, ok)
	}

	if _, ok := store.Resolve("portuguese"); ok {
		t.Fatal("expected no rule for portuguese")
	}
	if store.Default().SpeechCode != "en" {
		t.Fatalf("unexpected default rule: %+v", store.Default())
	}
}

func TestHinglishSharesHindiSpeechCode(t *testing.T) {
	store := NewMemoryPersonaStore(Rules())
	rule, ok := store.Resolve("Hinglish")
	if !ok || rule.SpeechCode != "hi" {
		t.Fatalf("expected hinglish to use the hi speech code, got %+v", rule)
	}
}
