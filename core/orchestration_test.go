package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/core/assistants/grocery"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/store/jsonlog"
	"github.com/koscakluka/ema-assist/core/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]events.Kind, 0, len(r.events))
	for _, event := range r.events {
		kinds = append(kinds, event.Kind())
	}
	return kinds
}

func (r *eventRecorder) ofKind(kind events.Kind) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matching []events.Event
	for _, event := range r.events {
		if event.Kind() == kind {
			matching = append(matching, event)
		}
	}
	return matching
}

func fixedClock() time.Time {
	return time.Date(2025, 11, 24, 9, 30, 0, 0, time.UTC)
}

func startConversation(t *testing.T, o *Orchestrator, kind assistants.Kind) *Conversation {
	t.Helper()
	conversation, err := o.StartConversation(context.Background(), kind)
	if err != nil {
		t.Fatalf("failed to start %s conversation: %v", kind, err)
	}
	return conversation
}

func callTool(t *testing.T, c *Conversation, name tools.Name, arguments string) string {
	t.Helper()
	return c.CallTool(context.Background(), tools.Call{ID: "call_" + string(name), Name: name, Arguments: json.RawMessage(arguments)})
}

func TestStartConversationExposesAssistantTools(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)
	if conversation.Kind() != assistants.Grocery {
		t.Fatalf("expected grocery conversation, got %q", conversation.Kind())
	}
	if conversation.Greeting() == "" {
		t.Fatalf("expected a greeting")
	}

	var names []string
	for _, definition := range conversation.Tools() {
		names = append(names, string(definition.Name))
		if definition.Parameters == nil {
			t.Fatalf("expected parameters schema for %s", definition.Name)
		}
	}
	got := strings.Join(names, ",")
	want := "add_to_cart,find_recipe,get_cart,place_order,remove_from_cart,track_order"
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestStartConversationRejectsUnknownAssistant(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	if _, err := o.StartConversation(context.Background(), assistants.Kind("pirate")); err == nil {
		t.Fatalf("expected error for unknown assistant")
	}
	if o.ConversationCount() != 0 {
		t.Fatalf("expected no live conversations, got %d", o.ConversationCount())
	}
}

func TestUnknownToolListsAvailableTools(t *testing.T) {
	recorder := &eventRecorder{}
	o := NewOrchestrator(WithEventHandler(recorder.handle))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Tutor)
	result := callTool(t, conversation, "fly_to_moon", `{}`)

	want := `Unknown tool "fly_to_moon". Available tools: current_concept, switch_concept, switch_mode.`
	if result != want {
		t.Fatalf("got=%q want=%q", result, want)
	}

	failed := recorder.ofKind(events.KindToolCallFailed)
	if len(failed) != 1 {
		t.Fatalf("expected one failed tool call event, got %d", len(failed))
	}
	if failed[0].(events.ToolCallFailed).Response != want {
		t.Fatalf("expected failed event to carry the narrated response")
	}
}

func TestInvalidArgumentsAreDescribed(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)

	result := callTool(t, conversation, grocery.AddToCart, `{"item_name": 5}`)
	if !strings.HasPrefix(result, "Invalid arguments for add_to_cart: ") {
		t.Fatalf("unexpected result %q", result)
	}
	if !strings.HasSuffix(result, "Check the parameters and try again.") {
		t.Fatalf("unexpected result %q", result)
	}

	result = callTool(t, conversation, grocery.AddToCart, `{"item_name":"bananas","colour":"yellow"}`)
	if !strings.Contains(result, "colour") {
		t.Fatalf("expected unknown field to be named, got %q", result)
	}

	snapshot, err := conversation.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(snapshot.Cart) != 0 {
		t.Fatalf("expected rejected calls to leave the cart empty, got %+v", snapshot.Cart)
	}
}

func TestPanickingToolBecomesSystemError(t *testing.T) {
	recorder := &eventRecorder{}
	o := NewOrchestrator(WithEventHandler(recorder.handle))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Barista)
	registry, err := tools.NewRegistry(tools.New("explode", "Always panics",
		func(context.Context, tools.NoArgs) (string, error) { panic("boom") }))
	if err != nil {
		t.Fatalf("unexpected registry error: %v", err)
	}
	conversation.registry = registry

	if result := callTool(t, conversation, "explode", `{}`); result != SystemErrorMessage {
		t.Fatalf("got=%q want=%q", result, SystemErrorMessage)
	}

	failed := recorder.ofKind(events.KindToolCallFailed)
	if len(failed) != 1 || !strings.Contains(failed[0].(events.ToolCallFailed).Error, "boom") {
		t.Fatalf("expected failed event carrying the panic, got %+v", failed)
	}
	if conversation.Ended() {
		t.Fatalf("expected conversation to survive a panicking tool")
	}
}

func TestStoreFailureBecomesSystemError(t *testing.T) {
	dir := t.TempDir()
	o := NewOrchestrator(WithStores(session.Stores{
		// A directory cannot be read as a record log.
		DrinkOrders: jsonlog.New[records.DrinkOrder](dir),
	}))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Barista)
	callTool(t, conversation, "update_order", `{"drink_type":"Latte","size":"Small","milk":"Oat","name":"Sam"}`)

	if result := callTool(t, conversation, "submit_order", `{}`); result != SystemErrorMessage {
		t.Fatalf("got=%q want=%q", result, SystemErrorMessage)
	}
}

func TestSlowStoreTimesOutThroughPool(t *testing.T) {
	pool := store.NewPool(store.WithWorkers(1), store.WithTimeout(50*time.Millisecond))
	defer pool.Close()

	o := NewOrchestrator(WithPool(pool))
	defer o.Close()

	release := make(chan struct{})
	defer close(release)
	conversation := startConversation(t, o, assistants.Barista)
	registry, err := tools.NewRegistry(tools.New("slow", "Blocks in the store",
		func(ctx context.Context, _ tools.NoArgs) (string, error) {
			err := pool.Do(ctx, "slow.write", func(ctx context.Context) error {
				select {
				case <-release:
				case <-ctx.Done():
				}
				return ctx.Err()
			})
			return "written", err
		}))
	if err != nil {
		t.Fatalf("unexpected registry error: %v", err)
	}
	conversation.registry = registry

	started := time.Now()
	if result := callTool(t, conversation, "slow", `{}`); result != SystemErrorMessage {
		t.Fatalf("got=%q want=%q", result, SystemErrorMessage)
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("expected the pool timeout to bound the call, took %s", elapsed)
	}
}

func TestConcurrentCallsAreSerialized(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)

	const callers = 20
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conversation.CallTool(context.Background(), tools.Call{
				Name:      grocery.AddToCart,
				Arguments: json.RawMessage(`{"item_name":"bananas"}`),
			})
		}()
	}
	wg.Wait()

	snapshot, err := conversation.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(snapshot.Cart) != 1 || snapshot.Cart[0].Quantity != callers {
		t.Fatalf("expected %d bananas in one line, got %+v", callers, snapshot.Cart)
	}
}

func TestCallsApplyInArrivalOrder(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)
	callTool(t, conversation, grocery.AddToCart, `{"item_name":"bread"}`)
	callTool(t, conversation, grocery.RemoveFromCart, `{"item_name":"bread"}`)
	callTool(t, conversation, grocery.AddToCart, `{"item_name":"milk","quantity":3}`)

	snapshot, err := conversation.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(snapshot.Cart) != 1 || snapshot.Cart[0].Name != "Whole Milk" || snapshot.Cart[0].Quantity != 3 {
		t.Fatalf("unexpected cart %+v", snapshot.Cart)
	}
	if snapshot.CartTotal == nil || snapshot.CartTotal.String() != "11.97" {
		t.Fatalf("unexpected total %v", snapshot.CartTotal)
	}
}

func TestEndConversationStopsCalls(t *testing.T) {
	recorder := &eventRecorder{}
	o := NewOrchestrator(WithEventHandler(recorder.handle))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Barista)
	if err := o.EndConversation(conversation.ID(), "caller hung up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conversation.Ended() {
		t.Fatalf("expected conversation to be ended")
	}

	if result := callTool(t, conversation, "update_order", `{"size":"Large"}`); result != endedMessage {
		t.Fatalf("got=%q want=%q", result, endedMessage)
	}
	if _, err := conversation.Say(context.Background(), "hello?"); err == nil {
		t.Fatalf("expected say to fail after end")
	}
	if _, err := o.Conversation(conversation.ID()); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if err := o.EndConversation(conversation.ID(), "again"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	ended := recorder.ofKind(events.KindConversationEnded)
	if len(ended) != 1 {
		t.Fatalf("expected one conversation ended event, got %d", len(ended))
	}
	if reason := ended[0].(events.ConversationEnded).Reason; reason != "caller hung up" {
		t.Fatalf("got=%q want=%q", reason, "caller hung up")
	}
}

func TestConversationLookup(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	conversation := startConversation(t, o, assistants.SDR)
	found, err := o.Conversation(conversation.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != conversation {
		t.Fatalf("expected the same conversation back")
	}
	if _, err := o.Conversation("missing"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestIdleConversationsExpire(t *testing.T) {
	recorder := &eventRecorder{}
	o := NewOrchestrator(WithEventHandler(recorder.handle), WithConversationTTL(20*time.Millisecond))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Tutor)

	deadline := time.Now().Add(2 * time.Second)
	for len(recorder.ofKind(events.KindConversationEnded)) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the conversation to expire")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !conversation.Ended() {
		t.Fatalf("expected conversation to be ended")
	}
	ended := recorder.ofKind(events.KindConversationEnded)
	if len(ended) != 1 || ended[0].(events.ConversationEnded).Reason != "expired" {
		t.Fatalf("expected one expired event, got %+v", ended)
	}
}

func TestCloseEndsConversationsAndRejectsNewOnes(t *testing.T) {
	recorder := &eventRecorder{}
	o := NewOrchestrator(WithEventHandler(recorder.handle))

	first := startConversation(t, o, assistants.Barista)
	second := startConversation(t, o, assistants.Gamemaster)
	if o.ConversationCount() != 2 {
		t.Fatalf("expected 2 live conversations, got %d", o.ConversationCount())
	}

	o.Close()
	o.Close()

	if !first.Ended() || !second.Ended() {
		t.Fatalf("expected close to end every conversation")
	}
	if o.ConversationCount() != 0 {
		t.Fatalf("expected no live conversations, got %d", o.ConversationCount())
	}
	if _, err := o.StartConversation(context.Background(), assistants.Barista); !errors.Is(err, ErrOrchestratorClosed) {
		t.Fatalf("expected ErrOrchestratorClosed, got %v", err)
	}
	if got := len(recorder.ofKind(events.KindConversationEnded)); got != 2 {
		t.Fatalf("expected 2 conversation ended events, got %d", got)
	}
}

func TestCancelledCallDoesNotRun(t *testing.T) {
	o := NewOrchestrator()
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := conversation.CallTool(ctx, tools.Call{Name: grocery.AddToCart, Arguments: json.RawMessage(`{"item_name":"milk"}`)})
	if result != SystemErrorMessage {
		t.Fatalf("got=%q want=%q", result, SystemErrorMessage)
	}

	snapshot, err := conversation.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(snapshot.Cart) != 0 {
		t.Fatalf("expected a cancelled call to leave the cart alone, got %+v", snapshot.Cart)
	}
}

func TestPanickingEventHandlerIsContained(t *testing.T) {
	o := NewOrchestrator(WithEventHandler(func(events.Event) { panic("handler") }))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)
	result := callTool(t, conversation, grocery.AddToCart, `{"item_name":"milk"}`)
	if result != "Added 1 Whole Milk to your cart. You now have 1." {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestToolCallEventsBracketEveryCall(t *testing.T) {
	recorder := &eventRecorder{}
	o := NewOrchestrator(WithEventHandler(recorder.handle))
	defer o.Close()

	conversation := startConversation(t, o, assistants.Grocery)
	callTool(t, conversation, grocery.GetCart, `{}`)

	got := recorder.kinds()
	want := []events.Kind{events.KindConversationStarted, events.KindToolCallStarted, events.KindToolCallCompleted}
	if len(got) != len(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}

	completed := recorder.ofKind(events.KindToolCallCompleted)[0].(events.ToolCallCompleted)
	if completed.ConversationID() != conversation.ID() || completed.Name != string(grocery.GetCart) {
		t.Fatalf("unexpected completed event %+v", completed)
	}
	if completed.Response != "Your cart is empty." {
		t.Fatalf("unexpected response %q", completed.Response)
	}
}

func newTestStores(t *testing.T) session.Stores {
	t.Helper()
	dir := t.TempDir()
	return session.Stores{
		DrinkOrders:   jsonlog.New[records.DrinkOrder](filepath.Join(dir, "orders.json")),
		GroceryOrders: jsonlog.New[records.GroceryOrder](filepath.Join(dir, "grocery_orders.json")),
		Leads:         jsonlog.New[records.Lead](filepath.Join(dir, "leads.json")),
	}
}
