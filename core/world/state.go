// Package world is the game master's world: the player character, where
// they are, what has happened and which quests are open.
package world

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
)

var (
	ErrBlankItem      = errors.New("item name is empty")
	ErrDuplicateItem  = errors.New("item is already in inventory")
	ErrItemNotFound   = errors.New("item not found in inventory")
	ErrHPOutOfRange   = errors.New("hp is out of range")
	ErrBlankStatus    = errors.New("status is empty")
	ErrBlankLocation  = errors.New("location name is empty")
	ErrBlankEvent     = errors.New("event is empty")
	ErrBlankQuestName = errors.New("quest name is empty")
)

type Character struct {
	Name      string   `json:"name"`
	Class     string   `json:"class"`
	HP        int      `json:"hp"`
	MaxHP     int      `json:"max_hp"`
	Inventory []string `json:"inventory"`
	Status    string   `json:"status"`
}

type Location struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	KnownPaths  []string `json:"known_paths"`
}

type Quest struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type State struct {
	Character Character `json:"character"`
	Location  Location  `json:"location"`
	Events    []string  `json:"events"`
	Quests    []Quest   `json:"quests"`
}

// New returns the opening state of a fresh adventure.
func New() *State {
	return &State{
		Character: Character{
			Name:      "Traveler",
			Class:     "Adventurer",
			HP:        20,
			MaxHP:     20,
			Inventory: []string{"Old Map", "Rusty Dagger", "Water Skin"},
			Status:    "Healthy",
		},
		Location: Location{
			Name:        "The Crossroads",
			Description: "You stand at a dusty crossroads. To the north lies the Dark Forest, to the east the Village of Oakhaven.",
			KnownPaths:  []string{"North", "East", "South"},
		},
		Events: []string{},
		Quests: []Quest{
			{Name: "Find the Lost Relic", Status: "Active", Description: "Rumors say a powerful relic is hidden in the Dark Forest."},
		},
	}
}

// AddItem puts item into the inventory. Items are unique by exact name.
func (s *State) AddItem(item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return ErrBlankItem
	}
	if slices.Contains(s.Character.Inventory, item) {
		return ErrDuplicateItem
	}
	s.Character.Inventory = append(s.Character.Inventory, item)
	return nil
}

func (s *State) RemoveItem(item string) error {
	item = strings.TrimSpace(item)
	i := slices.Index(s.Character.Inventory, item)
	if i < 0 {
		return ErrItemNotFound
	}
	s.Character.Inventory = slices.Delete(s.Character.Inventory, i, i+1)
	return nil
}

// UpdateCharacter applies hp and status together. Nil values are left
// unchanged; nothing is applied if either value is invalid.
func (s *State) UpdateCharacter(hp *int, status *string) error {
	if hp != nil && (*hp < 0 || *hp > s.Character.MaxHP) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrHPOutOfRange, *hp, s.Character.MaxHP)
	}
	var trimmed string
	if status != nil {
		if trimmed = strings.TrimSpace(*status); trimmed == "" {
			return ErrBlankStatus
		}
	}

	if hp != nil {
		s.Character.HP = *hp
	}
	if status != nil {
		s.Character.Status = trimmed
	}
	return nil
}

// MoveTo replaces the current location.
func (s *State) MoveTo(location Location) error {
	location.Name = strings.TrimSpace(location.Name)
	if location.Name == "" {
		return ErrBlankLocation
	}
	location.KnownPaths = slices.Clone(location.KnownPaths)
	if location.KnownPaths == nil {
		location.KnownPaths = []string{}
	}
	s.Location = location
	return nil
}

func (s *State) LogEvent(event string) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return ErrBlankEvent
	}
	s.Events = append(s.Events, event)
	return nil
}

// UpdateQuest changes the status and description of the named quest, or
// starts it when it does not exist yet. Blank values keep the current ones.
// The returned quest is the stored one, with its stored name.
func (s *State) UpdateQuest(name, status, description string) (quest Quest, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Quest{}, false, ErrBlankQuestName
	}
	status, description = strings.TrimSpace(status), strings.TrimSpace(description)

	for i := range s.Quests {
		if strings.EqualFold(s.Quests[i].Name, name) {
			if status != "" {
				s.Quests[i].Status = status
			}
			if description != "" {
				s.Quests[i].Description = description
			}
			return s.Quests[i], false, nil
		}
	}

	if status == "" {
		status = "Active"
	}
	quest = Quest{Name: name, Status: status, Description: description}
	s.Quests = append(s.Quests, quest)
	return quest, true, nil
}

func (s *State) InventoryDescription() string {
	if len(s.Character.Inventory) == 0 {
		return "Inventory: empty"
	}
	return "Inventory: " + strings.Join(s.Character.Inventory, ", ")
}

func (s *State) CharacterSheet() string {
	c := s.Character
	return fmt.Sprintf("Name: %s (%s)\nHP: %d/%d (%s)\n%s",
		c.Name, c.Class, c.HP, c.MaxHP, c.Status, s.InventoryDescription())
}

// Describe summarizes the location, open quests and the latest events.
func (s *State) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s. %s", s.Location.Name, s.Location.Description)
	if len(s.Location.KnownPaths) > 0 {
		fmt.Fprintf(&b, "\nPaths: %s", strings.Join(s.Location.KnownPaths, ", "))
	}
	for _, q := range s.Quests {
		fmt.Fprintf(&b, "\nQuest: %s (%s)", q.Name, q.Status)
	}
	recent := s.Events
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	for _, e := range recent {
		fmt.Fprintf(&b, "\nRecently: %s", e)
	}
	return b.String()
}

// Clone returns a deep copy that shares no slices with s.
func (s *State) Clone() *State {
	clone := &State{}
	if err := copier.CopyWithOption(clone, s, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("world: failed to copy state: %v", err))
	}
	clone.normalize()
	return clone
}

// Replace swaps the whole state for a deep copy of other.
func (s *State) Replace(other *State) {
	*s = *other.Clone()
}

// normalize turns nil lists into empty ones so snapshots always carry
// arrays.
func (s *State) normalize() {
	if s.Character.Inventory == nil {
		s.Character.Inventory = []string{}
	}
	if s.Location.KnownPaths == nil {
		s.Location.KnownPaths = []string{}
	}
	if s.Events == nil {
		s.Events = []string{}
	}
	if s.Quests == nil {
		s.Quests = []Quest{}
	}
}

// Validate checks the invariants a loaded snapshot must satisfy.
func (s *State) Validate() error {
	c := s.Character
	if c.MaxHP <= 0 {
		return fmt.Errorf("max hp must be positive, got %d", c.MaxHP)
	}
	if c.HP < 0 || c.HP > c.MaxHP {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrHPOutOfRange, c.HP, c.MaxHP)
	}
	seen := make(map[string]struct{}, len(c.Inventory))
	for _, item := range c.Inventory {
		if _, ok := seen[item]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, item)
		}
		seen[item] = struct{}{}
	}
	return nil
}
