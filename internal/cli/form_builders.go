package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// addItemMsg asks the editor below the form to append a row.
type addItemMsg struct {
	item domain.ScheduleItem
}

// addItemFields holds the form-bound values of the add-item form.
type addItemFields struct {
	categoryID string
	start      string
	end        string
}

// item converts validated form input to an unsaved schedule item.
func (f addItemFields) item(categories []*domain.CostCategory) domain.ScheduleItem {
	start, _ := time.Parse(inputDateLayout, f.start)
	end, _ := time.Parse(inputDateLayout, f.end)
	item := domain.ScheduleItem{CategoryID: f.categoryID, StartDate: start, EndDate: end}
	for _, c := range categories {
		if c.ID == f.categoryID {
			item.CategoryName = c.Name
			item.Budget = c.Budget
		}
	}
	return item
}

func addItemForm(categories []*domain.CostCategory, f *addItemFields) *huh.Form {
	opts := make([]huh.Option[string], 0, len(categories))
	for _, c := range categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cost Category").
				Options(opts...).
				Value(&f.categoryID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start (YYYY-MM-DD)").
				Value(&f.start).
				Validate(validateDate),
			huh.NewInput().
				Title("End (YYYY-MM-DD)").
				Value(&f.end).
				Validate(validateEndDate(&f.start)),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

// newAddItemView opens the add-item form with dates prefilled for a
// one-week item starting at start.
func newAddItemView(categories []*domain.CostCategory, start time.Time) View {
	f := &addItemFields{
		start: start.Format(inputDateLayout),
		end:   start.AddDate(0, 0, 6).Format(inputDateLayout),
	}
	if len(categories) > 0 {
		f.categoryID = categories[0].ID
	}
	return newFormView("Add item", addItemForm(categories, f), func() tea.Msg {
		return addItemMsg{item: f.item(categories)}
	})
}

const inputDateLayout = "2006-01-02"

func validateDate(s string) error {
	if s == "" {
		return fmt.Errorf("enter a date")
	}
	if _, err := time.Parse(inputDateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

// validateEndDate rejects an end before the start currently in *start.
func validateEndDate(start *string) func(string) error {
	return func(s string) error {
		if err := validateDate(s); err != nil {
			return err
		}
		from, err := time.Parse(inputDateLayout, *start)
		if err != nil {
			return nil
		}
		if to, _ := time.Parse(inputDateLayout, s); to.Before(from) {
			return fmt.Errorf("end is before start %s", *start)
		}
		return nil
	}
}
