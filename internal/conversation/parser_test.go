package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Select by number
		{"1", domain.IntentSelectRecipe, "1"},
		{"3", domain.IntentSelectRecipe, "3"},
		{"99", domain.IntentSelectRecipe, "99"},

		// Select by name
		{"select 2", domain.IntentSelectRecipe, "2"},
		{"pick omelette", domain.IntentSelectRecipe, "omelette"},
		{"Cook Margherita Pizza", domain.IntentSelectRecipe, "Margherita Pizza"},

		// Add
		{"add egg", domain.IntentAddIngredient, "egg"},
		{"add 2", domain.IntentAddIngredient, "2"},
		{"ADD Tomato Sauce", domain.IntentAddIngredient, "Tomato Sauce"},
		{"+4", domain.IntentAddIngredient, "4"},
		{"+ 7", domain.IntentAddIngredient, "7"},

		// Voice
		{"voice", domain.IntentToggleVoice, ""},
		{"mic", domain.IntentToggleVoice, ""},
		{"v", domain.IntentToggleVoice, ""},

		// Menu
		{"menu", domain.IntentMenu, ""},
		{"back", domain.IntentMenu, ""},

		// Status
		{"status", domain.IntentStatus, ""},
		{"where", domain.IntentStatus, ""},

		// Lists
		{"recipes", domain.IntentListRecipes, ""},
		{"ls", domain.IntentListRecipes, ""},
		{"history", domain.IntentHistory, ""},
		{"scores", domain.IntentHistory, ""},

		// Help / quit
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"quit", domain.IntentQuit, ""},
		{"Q", domain.IntentQuit, ""},

		// Say
		{"say make salad", domain.IntentSay, "make salad"},
		{"say   restart the omelette please", domain.IntentSay, "restart the omelette please"},

		// Unknown
		{"flambé the cat", domain.IntentUnknown, "flambé the cat"},
		{"add", domain.IntentUnknown, "add"},
		{"say ", domain.IntentUnknown, ""},
		{"", domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if tt.wantPayload != "" && intent.Payload != tt.wantPayload {
				t.Errorf("input=%q: got payload %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}
