package domain

// IntentType classifies a typed command.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentSelectRecipe
	IntentAddIngredient
	IntentToggleVoice
	IntentMenu
	IntentStatus
	IntentListRecipes
	IntentHistory
	IntentHelp
	IntentQuit
	IntentSay // feed text through the voice dispatcher as if heard
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentSelectRecipe:
		return "select_recipe"
	case IntentAddIngredient:
		return "add_ingredient"
	case IntentToggleVoice:
		return "toggle_voice"
	case IntentMenu:
		return "menu"
	case IntentStatus:
		return "status"
	case IntentListRecipes:
		return "list_recipes"
	case IntentHistory:
		return "history"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	case IntentSay:
		return "say"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // recipe/ingredient name or number, or text to say
}
