package world

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestInventoryStaysUnique(t *testing.T) {
	s := New()

	if err := s.AddItem("Torch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddItem("Torch"); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
	if err := s.RemoveItem("Torch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RemoveItem("Torch"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	want := []string{"Old Map", "Rusty Dagger", "Water Skin"}
	if !slices.Equal(s.Character.Inventory, want) {
		t.Fatalf("got=%v want=%v", s.Character.Inventory, want)
	}
}

func TestUpdateCharacterValidatesBeforeApplying(t *testing.T) {
	s := New()

	if err := s.UpdateCharacter(ptr(25), ptr("Poisoned")); !errors.Is(err, ErrHPOutOfRange) {
		t.Fatalf("expected ErrHPOutOfRange, got %v", err)
	}
	if s.Character.Status != "Healthy" || s.Character.HP != 20 {
		t.Fatalf("expected no partial update, got %+v", s.Character)
	}

	if err := s.UpdateCharacter(ptr(12), ptr(" ")); !errors.Is(err, ErrBlankStatus) {
		t.Fatalf("expected ErrBlankStatus, got %v", err)
	}
	if s.Character.HP != 20 {
		t.Fatalf("expected hp unchanged, got %d", s.Character.HP)
	}

	if err := s.UpdateCharacter(ptr(0), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Character.HP != 0 || s.Character.Status != "Healthy" {
		t.Fatalf("unexpected character %+v", s.Character)
	}
}

func TestUpdateQuest(t *testing.T) {
	s := New()

	quest, created, err := s.UpdateQuest("find the lost relic", "Completed", "")
	if err != nil || created {
		t.Fatalf("expected existing quest update, got created=%v err=%v", created, err)
	}
	if quest.Name != "Find the Lost Relic" {
		t.Fatalf("got=%q want=%q", quest.Name, "Find the Lost Relic")
	}
	if s.Quests[0].Status != "Completed" || s.Quests[0].Description == "" {
		t.Fatalf("unexpected quest %+v", s.Quests[0])
	}

	_, created, _ = s.UpdateQuest("  Rescue the Miller ", "", "The miller is missing.")
	if !created || s.Quests[1].Status != "Active" || s.Quests[1].Name != "Rescue the Miller" {
		t.Fatalf("expected new active quest, got %+v", s.Quests)
	}
}

func TestCloneSharesNothing(t *testing.T) {
	s := New()
	clone := s.Clone()

	clone.Character.Inventory[0] = "Shiny Map"
	clone.Location.KnownPaths = append(clone.Location.KnownPaths, "West")
	_ = clone.LogEvent("Met a wizard")

	if s.Character.Inventory[0] != "Old Map" || len(s.Location.KnownPaths) != 3 || len(s.Events) != 0 {
		t.Fatalf("expected original to be untouched, got %+v", s)
	}
}

func TestReplaceAndValidate(t *testing.T) {
	s := New()
	other := New()
	_ = other.MoveTo(Location{Name: "Oakhaven", Description: "A quiet village."})
	other.Character.HP = 5

	s.Replace(other)
	if s.Location.Name != "Oakhaven" || s.Character.HP != 5 {
		t.Fatalf("expected replaced state, got %+v", s)
	}
	if s.Location.KnownPaths == nil {
		t.Fatalf("expected known paths to be an empty list")
	}

	bad := New()
	bad.Character.Inventory = append(bad.Character.Inventory, "Old Map")
	if err := bad.Validate(); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected duplicate inventory to be invalid, got %v", err)
	}
	bad = New()
	bad.Character.HP = 21
	if err := bad.Validate(); !errors.Is(err, ErrHPOutOfRange) {
		t.Fatalf("expected hp out of range, got %v", err)
	}
}

func TestCharacterSheet(t *testing.T) {
	want := "Name: Traveler (Adventurer)\nHP: 20/20 (Healthy)\nInventory: Old Map, Rusty Dagger, Water Skin"
	if got := New().CharacterSheet(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
	if got := New().Describe(); !strings.HasPrefix(got, "Location: The Crossroads.") {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestDiceRoll(t *testing.T) {
	dice := SeededDice(1, 2)
	for range 200 {
		n, err := dice.Roll(20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n < 1 || n > 20 {
			t.Fatalf("roll out of range: %d", n)
		}
	}

	if _, err := dice.Roll(1); !errors.Is(err, ErrInvalidSides) {
		t.Fatalf("expected ErrInvalidSides, got %v", err)
	}

	fixed := Dice(func(int) int { return 9 })
	if n, _ := fixed.Roll(20); n != 10 {
		t.Fatalf("expected 10, got %d", n)
	}
}
