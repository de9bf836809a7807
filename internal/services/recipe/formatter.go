package recipe

import (
	"html"
	"regexp"
	"strings"
)

type lineKind int

const (
	lineIgnored lineKind = iota
	lineIngredientsHeader
	lineInstructionsHeader
	lineTipsHeader
	lineBullet
	lineFirstStep
	lineNumberedStep
)

var numberedStep = regexp.MustCompile(`^\d+\.`)

// classifyLine applies the section/bullet rules in priority order and returns
// the list-item text for item lines.
func classifyLine(line string) (lineKind, string) {
	switch {
	case strings.HasPrefix(line, "**Ingredients:**"):
		return lineIngredientsHeader, ""
	case strings.HasPrefix(line, "**Instructions:**"):
		return lineInstructionsHeader, ""
	case strings.HasPrefix(line, "**Tips:**"):
		return lineTipsHeader, ""
	case strings.HasPrefix(line, "* "):
		return lineBullet, line[2:]
	case strings.HasPrefix(line, "1. "):
		return lineFirstStep, line[3:]
	case numberedStep.MatchString(line):
		// Text after the first space; the whole line when there is none.
		return lineNumberedStep, line[strings.Index(line, " ")+1:]
	default:
		return lineIgnored, ""
	}
}

func splitTitle(raw string) (string, []string) {
	lines := strings.Split(raw, "\n")
	return strings.ReplaceAll(lines[0], "**", ""), lines[1:]
}

// FormatRecipe converts raw recipe text into an HTML fragment:
// <h3>title</h3>, the ingredients <ul>, the instructions <ol> and the tips <ul>.
//
// Line text is copied as-is. The instructions and tips lists are always
// closed, even when their section header never appeared, so text without an
// **Instructions:** line still ends in "</ol></ul>". FormatRecipe("") returns
// "<h3></h3></ol></ul>".
func FormatRecipe(raw string) string {
	return formatRecipe(raw, func(s string) string { return s })
}

// FormatRecipeHTML is FormatRecipe with the title and every item HTML-escaped,
// so the only markup in the result is h3, ul, ol and li. Pages render this form.
func FormatRecipeHTML(raw string) string {
	return formatRecipe(raw, html.EscapeString)
}

func formatRecipe(raw string, text func(string) string) string {
	title, lines := splitTitle(raw)

	var ingredients, instructions, tips strings.Builder
	inIngredients := true
	inTips := false

	item := func(b *strings.Builder, s string) {
		b.WriteString("<li>")
		b.WriteString(text(s))
		b.WriteString("</li>")
	}

	for _, line := range lines {
		kind, content := classifyLine(line)
		switch kind {
		case lineIngredientsHeader:
			ingredients.WriteString("<ul>")
		case lineInstructionsHeader:
			ingredients.WriteString("</ul>")
			instructions.WriteString("<ol>")
			inIngredients = false
		case lineTipsHeader:
			instructions.WriteString("</ol>")
			tips.WriteString("<ul>")
			inTips = true
		case lineBullet:
			switch {
			case inTips:
				item(&tips, content)
			case inIngredients:
				item(&ingredients, content)
			default:
				item(&instructions, content)
			}
		case lineFirstStep, lineNumberedStep:
			item(&instructions, content)
		}
	}

	instructions.WriteString("</ol>")
	tips.WriteString("</ul>")

	var out strings.Builder
	out.WriteString("<h3>")
	out.WriteString(text(title))
	out.WriteString("</h3>")
	out.WriteString(ingredients.String())
	out.WriteString(instructions.String())
	out.WriteString(tips.String())
	return out.String()
}

// Recipe is the sectioned form of raw recipe text.
type Recipe struct {
	Title        string
	Ingredients  []string
	Instructions []string
	Tips         []string
}

// ParseRecipe routes lines into sections with the same rules as FormatRecipe
// and drops the markup.
func ParseRecipe(raw string) Recipe {
	title, lines := splitTitle(raw)
	r := Recipe{Title: title}

	inIngredients := true
	inTips := false
	for _, line := range lines {
		kind, content := classifyLine(line)
		switch kind {
		case lineInstructionsHeader:
			inIngredients = false
		case lineTipsHeader:
			inTips = true
		case lineBullet:
			switch {
			case inTips:
				r.Tips = append(r.Tips, content)
			case inIngredients:
				r.Ingredients = append(r.Ingredients, content)
			default:
				r.Instructions = append(r.Instructions, content)
			}
		case lineFirstStep, lineNumberedStep:
			r.Instructions = append(r.Instructions, content)
		}
	}
	return r
}
