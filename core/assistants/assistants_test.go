package assistants

import (
	"testing"

	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/tools"
)

func TestBuildEveryKind(t *testing.T) {
	expected := map[Kind][]tools.Name{
		Barista:    {"submit_order", "update_order"},
		Tutor:      {"current_concept", "switch_concept", "switch_mode"},
		SDR:        {"answer_faq", "capture_lead_info", "end_call_summary", "submit_lead"},
		Fraud:      {"get_fraud_case", "update_case_status", "verify_security_answer"},
		Grocery:    {"add_to_cart", "find_recipe", "get_cart", "place_order", "remove_from_cart", "track_order"},
		Gamemaster: {"add_item", "check_inventory", "get_character_sheet", "load_game", "log_event", "remove_item", "roll_dice", "save_game", "update_character", "update_location", "update_quest"},
	}

	env := &session.Env{Catalog: catalog.Default()}
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			registry, err := Build(kind, env, session.NewState(), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			names := registry.Names()
			want := expected[kind]
			if len(names) != len(want) {
				t.Fatalf("expected %d tools, got %v", len(want), names)
			}
			for i := range want {
				if names[i] != want[i] {
					t.Fatalf("tool %d: got=%q want=%q", i, names[i], want[i])
				}
			}
			if kind.Greeting() == "" {
				t.Fatalf("expected a greeting for %s", kind)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Grocery ")
	if err != nil || kind != Grocery {
		t.Fatalf("expected grocery, got %q (%v)", kind, err)
	}
	if _, err := ParseKind("pirate"); err == nil {
		t.Fatalf("expected an error for an unknown assistant")
	}
}
