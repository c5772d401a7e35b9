package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/chefchallenge/internal/catalog"
	"github.com/hammamikhairi/chefchallenge/internal/display"
	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/game"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
	"github.com/hammamikhairi/chefchallenge/internal/speech"
	"github.com/hammamikhairi/chefchallenge/internal/storage"
)

type cliApp struct {
	session *game.Session
	catalog *catalog.Static
	results *storage.MemoryStore
	parser  domain.IntentParser
	mouth   *speech.Mouth // nil when TTS is disabled
	ui      *display.UI
	log     *logger.Logger
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChef("Welcome to Chef Challenge! Beat the clock, cook the dish.")
	a.ui.Println("")
	a.showRecipes()

	uiCh := a.ui.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if !a.handleIntent(intent) {
			return
		}
	}
}

// handleIntent reports false once the user has asked to quit.
func (a *cliApp) handleIntent(intent *domain.Intent) bool {
	// Actions cut off whatever the chef is still saying.
	switch intent.Type {
	case domain.IntentSelectRecipe, domain.IntentAddIngredient,
		domain.IntentMenu, domain.IntentSay, domain.IntentQuit:
		if a.mouth != nil {
			a.mouth.Interrupt()
		}
	}

	switch intent.Type {
	case domain.IntentSelectRecipe:
		a.selectRecipe(intent.Payload)
	case domain.IntentAddIngredient:
		a.addIngredient(intent.Payload)
	case domain.IntentToggleVoice:
		a.toggleVoice()
	case domain.IntentMenu:
		a.menu()
	case domain.IntentStatus:
		a.status()
	case domain.IntentListRecipes:
		a.showRecipes()
	case domain.IntentHistory:
		a.history()
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentSay:
		a.say(intent.Payload)
	case domain.IntentQuit:
		a.ui.PrintChef("Kitchen closed. See you next time!")
		return false
	default:
		a.ui.PrintHint(fmt.Sprintf("I didn't catch %q. Type 'help' for commands.", intent.Payload))
	}
	return true
}

func (a *cliApp) showRecipes() {
	a.ui.PrintHeader("Recipes:")
	for i, r := range a.catalog.Recipes() {
		a.ui.PrintLine(fmt.Sprintf("[%d] %s  %s, reward %d", i+1, r.Name, fmtSeconds(r.PreparationTime), r.Reward))
		if len(r.VoicePhrases) > 0 {
			a.ui.PrintHint("say " + joinQuoted(r.VoicePhrases))
		}
	}
	a.ui.PrintHint("Pick a recipe by number or name, e.g. '1' or 'cook omelette'.")
}

func (a *cliApp) selectRecipe(payload string) {
	r, err := resolveRecipe(a.catalog, payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("No recipe matches %q.", payload))
		return
	}
	if err := a.session.StartRecipeByName(r.Name); err != nil {
		if errors.Is(err, domain.ErrWrongPhase) {
			a.ui.PrintHint("Return to the menu first.")
			return
		}
		a.log.Error("starting %s: %v", r.Name, err)
		return
	}
	a.showPantry(r)
}

// showPantry lists every ingredient, numbered for "add N".
func (a *cliApp) showPantry(r *domain.Recipe) {
	a.ui.PrintHeader(fmt.Sprintf("%s needs: %s", r.Name, joinNames(r.Ingredients)))
	parts := make([]string, 0, len(a.catalog.Ingredients()))
	for i, ing := range a.catalog.Ingredients() {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, ing.Name))
	}
	a.ui.PrintHint("Pantry: " + strings.Join(parts, " · "))
	a.ui.PrintHint("Add with 'add egg', 'add 2' or '+2'.")
}

func (a *cliApp) addIngredient(payload string) {
	if a.session.Snapshot().Phase != domain.PhaseCooking {
		a.ui.PrintHint("Pick a recipe first.")
		return
	}
	name, err := ingredientName(a.catalog, payload)
	if err == nil {
		err = a.session.AddIngredientByName(name)
	}
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("There is no %q in the pantry.", payload))
	}
}

func (a *cliApp) toggleVoice() {
	a.session.ToggleListening()
	snap := a.session.Snapshot()
	switch {
	case snap.VoiceError != "":
		a.ui.PrintUrgent(snap.VoiceError)
	case snap.Listening:
		a.ui.PrintHint("Listening. Say a recipe phrase, an ingredient, 'start over' or 'help'.")
	default:
		a.ui.PrintHint("Microphone off.")
	}
}

func (a *cliApp) menu() {
	if !a.session.ReturnToMenu() {
		if a.session.Snapshot().Phase == domain.PhaseCooking {
			a.ui.PrintHint("The clock is still running. Pick another recipe to start over.")
		}
		return
	}
	a.showRecipes()
}

func (a *cliApp) status() {
	snap := a.session.Snapshot()
	a.ui.PrintHeader(fmt.Sprintf("Phase: %s", snap.Phase))
	a.ui.PrintLine(fmt.Sprintf("Score: %d   Level: %d", snap.Score, snap.Level))
	if snap.Recipe != nil && snap.Phase != domain.PhaseMenu {
		a.ui.PrintLine(fmt.Sprintf("Recipe: %s   Time left: %s", snap.Recipe.Name, fmtSeconds(snap.TimeRemaining)))
		a.ui.PrintLine(fmt.Sprintf("Added: %d/%d %s", len(snap.PlayerIngredients), len(snap.Recipe.Ingredients), joinNames(snap.PlayerIngredients)))
		for _, c := range snap.Challenges {
			a.ui.PrintHint(fmt.Sprintf("%s: %s", c.Type, c.Description))
		}
	}
	if snap.Phase == domain.PhaseCompleted {
		if r, err := a.results.Get(context.Background(), snap.SessionID); err == nil {
			a.ui.PrintLine(fmt.Sprintf("Earned: +%d (reward %d, bonus %d)", r.Earned, r.Reward, r.Bonus))
		}
		a.ui.PrintHint("Type 'menu' to pick the next dish.")
	}
	if snap.Listening {
		a.ui.PrintHint("Microphone on.")
	}
	if snap.VoiceError != "" {
		a.ui.PrintUrgent(snap.VoiceError)
	}
}

func (a *cliApp) history() {
	ctx := context.Background()
	results, err := a.results.List(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading results: %v", err))
		return
	}
	if len(results) == 0 {
		a.ui.PrintHint("No dishes finished yet.")
		return
	}
	a.ui.PrintHeader("Finished dishes:")
	for i, r := range results {
		took := r.CompletedAt.Sub(r.StartedAt).Round(time.Second)
		a.ui.PrintLine(fmt.Sprintf("%d. %s  +%d (reward %d, bonus %d)  level %d  %s",
			i+1, r.RecipeName, r.Earned, r.Reward, r.Bonus, r.Level, took))
	}

	a.ui.PrintHeader("Best per recipe:")
	for _, r := range a.catalog.Recipes() {
		best, err := a.results.Best(ctx, r.Name)
		if err != nil {
			continue
		}
		a.ui.PrintLine(fmt.Sprintf("%s  +%d", r.Name, best.Earned))
	}
}

// say feeds typed text through the voice dispatcher.
func (a *cliApp) say(text string) {
	if !a.session.HandleUtterance(text) {
		a.ui.PrintHint(fmt.Sprintf("Nothing to do with %q right now.", text))
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeader("Commands:")
	a.ui.PrintLine("  recipes / list     Show the recipes")
	a.ui.PrintLine("  1, 2, cook <name>  Start a recipe (while cooking, switches dish)")
	a.ui.PrintLine("  add <name|N>, +N   Add an ingredient")
	a.ui.PrintLine("  status             Show the clock, score and challenges")
	a.ui.PrintLine("  menu               Back to the menu after a dish")
	a.ui.PrintLine("  history            Show finished dishes")
	a.ui.PrintLine("  voice              Turn the microphone on or off")
	a.ui.PrintLine("  say <words>        Type what you would say out loud")
	a.ui.PrintLine("  quit               Exit")
	a.ui.Println("")
	a.ui.PrintHeader("Voice:")
	a.ui.PrintLine("  \"make salad\", \"cook omelette\", \"make pizza\"...")
	a.ui.PrintLine("  \"add tomato\", \"start over\", \"help\"")
}

// resolveRecipe accepts a 1-based list number, an exact name, part of a
// name or a spoken phrase.
func resolveRecipe(c *catalog.Static, payload string) (*domain.Recipe, error) {
	payload = strings.TrimSpace(payload)
	recipes := c.Recipes()
	if n, err := strconv.Atoi(payload); err == nil {
		if n < 1 || n > len(recipes) {
			return nil, fmt.Errorf("recipe %d: %w", n, domain.ErrNotFound)
		}
		return &recipes[n-1], nil
	}
	if r, err := c.Recipe(payload); err == nil {
		return r, nil
	}
	if found := c.SearchRecipes(payload); len(found) > 0 {
		return &found[0], nil
	}
	lower := strings.ToLower(payload)
	for i := range recipes {
		if recipes[i].MatchesUtterance(lower) {
			return &recipes[i], nil
		}
	}
	return nil, fmt.Errorf("recipe %q: %w", payload, domain.ErrNotFound)
}

// ingredientName maps a 1-based pantry number to its ingredient name. Any
// other payload is returned as is for a lookup by name.
func ingredientName(c *catalog.Static, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	n, err := strconv.Atoi(payload)
	if err != nil {
		return payload, nil
	}
	ings := c.Ingredients()
	if n < 1 || n > len(ings) {
		return "", fmt.Errorf("ingredient %d: %w", n, domain.ErrNotFound)
	}
	return ings[n-1].Name, nil
}

func fmtSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	if s%60 == 0 {
		return fmt.Sprintf("%dm", s/60)
	}
	return fmt.Sprintf("%dm%ds", s/60, s%60)
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func joinQuoted(phrases []string) string {
	q := make([]string, len(phrases))
	for i, p := range phrases {
		q[i] = strconv.Quote(p)
	}
	return strings.Join(q, ", ")
}
