package ai

import "strings"

const recipePromptTemplate = "Generate a creative and unique recipe using the following ingredients: {ingredients}. " +
	"The recipe should be innovative and not a traditional dish. " +
	"Include interesting and unexpected flavor combinations and cooking techniques. " +
	"The type of dish is {dish_type} and it should reflect the culinary style of the {region} region."

// BuildRecipePrompt fills the creative-recipe template. Inputs are inserted
// verbatim; values outside the known dish types and regions are accepted.
func BuildRecipePrompt(ingredients, dishType, region string) string {
	// A single-pass Replacer never rescans inserted text, so a placeholder typed
	// into the ingredients field stays literal.
	r := strings.NewReplacer(
		"{ingredients}", ingredients,
		"{dish_type}", dishType,
		"{region}", region,
	)
	return r.Replace(recipePromptTemplate)
}
