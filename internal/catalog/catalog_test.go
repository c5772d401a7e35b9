package catalog

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

func TestStaticRecipes(t *testing.T) {
	c := NewStatic(logger.New(logger.LevelOff, nil))

	recipes := c.Recipes()
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}

	want := []string{"Vegetable Salad", "Omelette", "Margherita Pizza"}
	for i, r := range recipes {
		if r.Name != want[i] {
			t.Fatalf("recipe %d: got %q, want %q", i, r.Name, want[i])
		}
		if r.PreparationTime <= 0 {
			t.Fatalf("%s: preparation time must be positive", r.Name)
		}
		for _, ing := range r.Ingredients {
			if _, err := c.Ingredient(ing); err != nil {
				t.Fatalf("%s requires unknown ingredient %q", r.Name, ing)
			}
		}
	}
}

func TestStaticLookup(t *testing.T) {
	c := NewStatic(logger.New(logger.LevelOff, nil))

	tests := []struct {
		name    string
		lookup  func(string) error
		arg     string
		wantErr error
	}{
		{"recipe exact", func(s string) error { _, err := c.Recipe(s); return err }, "Omelette", nil},
		{"recipe any case", func(s string) error { _, err := c.Recipe(s); return err }, "vegetable salad", nil},
		{"recipe unknown", func(s string) error { _, err := c.Recipe(s); return err }, "Lasagna", domain.ErrNotFound},
		{"ingredient exact", func(s string) error { _, err := c.Ingredient(s); return err }, "Tomato Sauce", nil},
		{"ingredient any case", func(s string) error { _, err := c.Ingredient(s); return err }, "  egg ", nil},
		{"ingredient unknown", func(s string) error { _, err := c.Ingredient(s); return err }, "Basil", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lookup(tt.arg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIngredientPhrases(t *testing.T) {
	c := NewStatic(logger.New(logger.LevelOff, nil))

	ing, err := c.Ingredient("Tomato Sauce")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ing.MatchesUtterance("please add tomato sauce now") {
		t.Fatal("expected phrase match")
	}
}

func TestSearchRecipes(t *testing.T) {
	c := NewStatic(logger.New(logger.LevelOff, nil))

	tests := []struct {
		query string
		want  int
	}{
		{"pizza", 1},
		{"E", 3},
		{"", 0},
		{"sushi", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := len(c.SearchRecipes(tt.query)); got != tt.want {
				t.Fatalf("query=%q: got %d results, want %d", tt.query, got, tt.want)
			}
		})
	}
}
