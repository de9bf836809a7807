package recipe

import (
	"strings"
	"time"

	"github.com/socialchef/creativechef/internal/errors"
	"github.com/socialchef/creativechef/internal/services/ai"
)

// DishType is the dietary category chosen on the form.
type DishType string

const (
	DishTypeVeg    DishType = "veg"
	DishTypeNonVeg DishType = "nonveg"
)

// Region is the regional culinary style chosen on the form.
type Region string

const (
	RegionNorth Region = "north"
	RegionSouth Region = "south"
	RegionEast  Region = "east"
	RegionWest  Region = "west"
)

// Option is a value/label pair for a form select.
type Option struct {
	Value string
	Label string
}

var DishTypeOptions = []Option{
	{Value: string(DishTypeVeg), Label: "Vegetarian"},
	{Value: string(DishTypeNonVeg), Label: "Non-Vegetarian"},
}

var RegionOptions = []Option{
	{Value: string(RegionNorth), Label: "North"},
	{Value: string(RegionSouth), Label: "South"},
	{Value: string(RegionEast), Label: "East"},
	{Value: string(RegionWest), Label: "West"},
}

// Request is one form submission. It is consumed once to build a prompt.
type Request struct {
	Ingredients string   `json:"ingredients"`
	DishType    DishType `json:"dish_type"`
	Region      Region   `json:"region"`
}

// Validate enforces the form's required fields. Enum membership is not
// checked: any dish type or region is passed through to the prompt.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Ingredients) == "" {
		missing = append(missing, "ingredients")
	}
	if strings.TrimSpace(string(r.DishType)) == "" {
		missing = append(missing, "dish_type")
	}
	if strings.TrimSpace(string(r.Region)) == "" {
		missing = append(missing, "region")
	}
	if len(missing) > 0 {
		return errors.NewValidationError(
			"missing required fields: "+strings.Join(missing, ", "),
			"MISSING_FIELDS",
			"Fill in the ingredients and choose a dish type and a region.",
		)
	}
	return nil
}

// Prompt builds the text sent to the provider.
func (r Request) Prompt() string {
	return ai.BuildRecipePrompt(r.Ingredients, string(r.DishType), string(r.Region))
}

// Generated is the outcome of one successful generation.
type Generated struct {
	ID        string    `json:"id"`
	Request   Request   `json:"request"`
	Prompt    string    `json:"prompt"`
	Raw       string    `json:"raw"`
	Title     string    `json:"title"`
	HTML      string    `json:"html"`
	Provider  string    `json:"provider"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}
