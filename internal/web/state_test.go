package web

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

var form = recipe.Request{Ingredients: "mango", DishType: recipe.DishTypeVeg, Region: recipe.RegionSouth}

func generatedRecipe() *recipe.Generated {
	return &recipe.Generated{ID: "id-1", Title: "Mango Curry", Raw: "**Mango Curry**", HTML: "<h3>Mango Curry</h3></ol></ul>"}
}

func TestNewState(t *testing.T) {
	s := NewState(ViewHome)
	assert.Equal(t, ViewHome, s.View)
	assert.Equal(t, Idle{}, s.Request)
	assert.False(t, s.ModalOpen())
	assert.Empty(t, s.ErrorMessage())
}

func TestStateSuccessFlow(t *testing.T) {
	s := NewState(ViewHome).Submit(form)
	assert.Equal(t, Pending{}, s.Request)
	assert.False(t, s.ModalOpen())
	assert.Equal(t, form, s.Form)

	s = s.Resolve(generatedRecipe())
	assert.True(t, s.ModalOpen())
	rec, ok := s.Recipe()
	assert.True(t, ok)
	assert.Equal(t, "Mango Curry", rec.Title)
	assert.Equal(t, "<h3>Mango Curry</h3></ol></ul>", string(rec.Recipe))
}

func TestStateFailureFlow(t *testing.T) {
	s := NewState(ViewHome).Submit(form).Fail("Failed to generate recipe. Please try again.")
	assert.Equal(t, "Failed to generate recipe. Please try again.", s.ErrorMessage())
	assert.False(t, s.ModalOpen())

	s = s.Submit(form)
	assert.Empty(t, s.ErrorMessage(), "a new submission clears the previous error")

	s = s.Resolve(generatedRecipe())
	assert.Empty(t, s.ErrorMessage())
	assert.True(t, s.ModalOpen())
}

func TestStateIgnoresOutOfOrderTransitions(t *testing.T) {
	idle := NewState(ViewHome)
	assert.Equal(t, idle, idle.Resolve(generatedRecipe()))
	assert.Equal(t, idle, idle.Fail("nope"))

	failed := idle.Submit(form).Fail("x")
	assert.Equal(t, failed, failed.Resolve(generatedRecipe()))
}

func TestStateNavigation(t *testing.T) {
	s := NewState(ViewHome).Submit(form).Resolve(generatedRecipe())

	about := s.ShowAbout()
	assert.Equal(t, ViewAbout, about.View)
	assert.Equal(t, "about", about.View.String())
	assert.True(t, about.ModalOpen(), "switching section keeps the request state")
	assert.Equal(t, "home", s.View.String())
}
