// Package gamemaster runs a fantasy adventure for one player, keeping the
// world state that the story is built on.
package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/store/snapshot"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/koscakluka/ema-assist/core/world"
)

const (
	RollDice          tools.Name = "roll_dice"
	CheckInventory    tools.Name = "check_inventory"
	AddItem           tools.Name = "add_item"
	RemoveItem        tools.Name = "remove_item"
	GetCharacterSheet tools.Name = "get_character_sheet"
	UpdateCharacter   tools.Name = "update_character"
	UpdateLocation    tools.Name = "update_location"
	LogEvent          tools.Name = "log_event"
	UpdateQuest       tools.Name = "update_quest"
	SaveGame          tools.Name = "save_game"
	LoadGame          tools.Name = "load_game"
)

// StoreName identifies the game save in persisted record events.
const StoreName = "game_save"

const (
	defaultSides      = 20
	defaultDifficulty = 10
	defaultReason     = "Action check"
)

type rollDiceArgs struct {
	Sides      *int   `json:"sides,omitempty" jsonschema:"description=Number of sides on the die. Defaults to 20"`
	Reason     string `json:"reason,omitempty" jsonschema:"description=The reason for the roll such as Attack goblin"`
	Difficulty *int   `json:"difficulty,omitempty" jsonschema:"description=The lowest roll that succeeds. Defaults to 10"`
}

type itemArgs struct {
	ItemName string `json:"item_name" jsonschema:"description=The name of the item"`
}

type updateCharacterArgs struct {
	HP     *int    `json:"hp,omitempty" jsonschema:"description=The new hit points"`
	Status *string `json:"status,omitempty" jsonschema:"description=The new condition such as Healthy or Wounded"`
}

type updateLocationArgs struct {
	Name        string   `json:"name" jsonschema:"description=The name of the new location"`
	Description string   `json:"description" jsonschema:"description=What the player sees there"`
	KnownPaths  []string `json:"known_paths,omitempty" jsonschema:"description=Directions the player can go from here"`
}

type logEventArgs struct {
	Event string `json:"event" jsonschema:"description=A short description of what happened"`
}

type updateQuestArgs struct {
	Name        string `json:"name" jsonschema:"description=The quest name"`
	Status      string `json:"status,omitempty" jsonschema:"description=The quest status such as Active or Completed"`
	Description string `json:"description,omitempty" jsonschema:"description=What the quest is about"`
}

// Tools binds the game master tool set to state, starting a fresh
// adventure.
func Tools(env *session.Env, state *session.State, host session.Host) []tools.Tool {
	state.World = world.New()
	g := &gamemaster{env: env, state: state, host: host}
	return []tools.Tool{
		tools.New(RollDice, "Roll a die to determine the outcome of a risky action.", g.rollDice),
		tools.New(CheckInventory, "List what the player carries.", g.checkInventory),
		tools.New(AddItem, "Add an item to the player's inventory.", g.addItem),
		tools.New(RemoveItem, "Remove an item from the player's inventory.", g.removeItem),
		tools.New(GetCharacterSheet, "Get the player's name, class, health and inventory.", g.getCharacterSheet),
		tools.New(UpdateCharacter, "Change the player's hit points and/or condition.", g.updateCharacter),
		tools.New(UpdateLocation, "Move the player to a new location.", g.updateLocation),
		tools.New(LogEvent, "Record something important that happened in the story.", g.logEvent),
		tools.New(UpdateQuest, "Start a quest or change the status of an existing one.", g.updateQuest),
		tools.New(SaveGame, "Save the game so it can be continued later.", g.saveGame),
		tools.New(LoadGame, "Load the last saved game.", g.loadGame),
	}
}

type gamemaster struct {
	env   *session.Env
	state *session.State
	host  session.Host
}

func (g *gamemaster) rollDice(_ context.Context, args rollDiceArgs) (string, error) {
	sides, difficulty := defaultSides, defaultDifficulty
	if args.Sides != nil {
		sides = *args.Sides
	}
	if args.Difficulty != nil {
		difficulty = *args.Difficulty
	}
	reason := strings.TrimSpace(args.Reason)
	if reason == "" {
		reason = defaultReason
	}

	result, err := g.env.Roll(sides)
	if errors.Is(err, world.ErrInvalidSides) {
		return fmt.Sprintf("A die needs at least 2 sides, got %d.", sides), nil
	} else if err != nil {
		return "", err
	}

	outcome := "Failure"
	if result >= difficulty {
		outcome = "Success"
	}
	return fmt.Sprintf("Rolled d%d for %s: %d. Outcome: %s", sides, reason, result, outcome), nil
}

func (g *gamemaster) checkInventory(_ context.Context, _ tools.NoArgs) (string, error) {
	return g.state.World.InventoryDescription(), nil
}

func (g *gamemaster) addItem(_ context.Context, args itemArgs) (string, error) {
	item := strings.TrimSpace(args.ItemName)
	switch err := g.state.World.AddItem(item); {
	case errors.Is(err, world.ErrBlankItem):
		return "Which item should be added?", nil
	case errors.Is(err, world.ErrDuplicateItem):
		return fmt.Sprintf("%s is already in inventory.", item), nil
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("Added %s to inventory.", item), nil
}

func (g *gamemaster) removeItem(_ context.Context, args itemArgs) (string, error) {
	item := strings.TrimSpace(args.ItemName)
	if err := g.state.World.RemoveItem(item); errors.Is(err, world.ErrItemNotFound) {
		return fmt.Sprintf("%s not found in inventory.", item), nil
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %s from inventory.", item), nil
}

func (g *gamemaster) getCharacterSheet(_ context.Context, _ tools.NoArgs) (string, error) {
	return g.state.World.CharacterSheet(), nil
}

func (g *gamemaster) updateCharacter(_ context.Context, args updateCharacterArgs) (string, error) {
	if args.HP == nil && args.Status == nil {
		return "Nothing to update. Pass hp, status or both.", nil
	}
	switch err := g.state.World.UpdateCharacter(args.HP, args.Status); {
	case errors.Is(err, world.ErrHPOutOfRange):
		return fmt.Sprintf("HP must be between 0 and %d. Nothing was changed.", g.state.World.Character.MaxHP), nil
	case errors.Is(err, world.ErrBlankStatus):
		return "Status cannot be empty. Nothing was changed.", nil
	case err != nil:
		return "", err
	}
	c := g.state.World.Character
	return fmt.Sprintf("Character updated. HP: %d/%d, status: %s.", c.HP, c.MaxHP, c.Status), nil
}

func (g *gamemaster) updateLocation(_ context.Context, args updateLocationArgs) (string, error) {
	err := g.state.World.MoveTo(world.Location{
		Name:        args.Name,
		Description: strings.TrimSpace(args.Description),
		KnownPaths:  args.KnownPaths,
	})
	if errors.Is(err, world.ErrBlankLocation) {
		return "The location needs a name.", nil
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("Location changed to %s.", g.state.World.Location.Name), nil
}

func (g *gamemaster) logEvent(_ context.Context, args logEventArgs) (string, error) {
	if err := g.state.World.LogEvent(args.Event); errors.Is(err, world.ErrBlankEvent) {
		return "There is no event to record.", nil
	} else if err != nil {
		return "", err
	}
	return "Event recorded.", nil
}

func (g *gamemaster) updateQuest(_ context.Context, args updateQuestArgs) (string, error) {
	quest, created, err := g.state.World.UpdateQuest(args.Name, args.Status, args.Description)
	if errors.Is(err, world.ErrBlankQuestName) {
		return "The quest needs a name.", nil
	} else if err != nil {
		return "", err
	}
	if created {
		return fmt.Sprintf("New quest started: %s.", quest.Name), nil
	}
	return fmt.Sprintf("Quest %s updated.", quest.Name), nil
}

func (g *gamemaster) saveGame(ctx context.Context, _ tools.NoArgs) (string, error) {
	saved := g.state.World.Clone()
	err := g.env.Pool.Do(ctx, "game_save.save", func(ctx context.Context) error {
		return g.env.Stores.GameSave.Save(ctx, *saved)
	})
	if err != nil {
		return "", fmt.Errorf("save game: %w", err)
	}
	g.host.Persisted(StoreName, g.env.Stores.GameSave.Path())
	return "Game successfully saved.", nil
}

func (g *gamemaster) loadGame(ctx context.Context, _ tools.NoArgs) (string, error) {
	loaded, err := store.Run(ctx, g.env.Pool, "game_save.load", g.env.Stores.GameSave.Load)
	if errors.Is(err, snapshot.ErrNotFound) {
		return "No saved game found.", nil
	} else if err != nil {
		return "", fmt.Errorf("load game: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return "The saved game is damaged and was not loaded.", nil
	}
	g.state.World.Replace(&loaded)
	return "Game loaded successfully. Welcome back, traveler.", nil
}
