package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

const SheetName = "Recipe"

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteRecipe writes raw recipe text as a one-sheet workbook: the title in A1,
// then a header row and one row per item for each non-empty section.
// Instructions are numbered in column A.
func WriteRecipe(w io.Writer, raw string) error {
	r := recipe.ParseRecipe(raw)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(SheetName, "A1", r.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}

	row := 3
	sections := []struct {
		name     string
		items    []string
		numbered bool
	}{
		{"Ingredients", r.Ingredients, false},
		{"Instructions", r.Instructions, true},
		{"Tips", r.Tips, false},
	}

	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		header := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(SheetName, header, s.name); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, header, header, bold); err != nil {
			return err
		}
		row++

		for i, item := range s.items {
			values := []interface{}{"", item}
			if s.numbered {
				values[0] = i + 1
			}
			if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
		row++
	}

	if err := f.SetColWidth(SheetName, "A", "A", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 80); err != nil {
		return err
	}

	return f.Write(w)
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a download name from a recipe title.
func Filename(title string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if name == "" {
		name = "recipe"
	}
	return name + ".xlsx"
}
