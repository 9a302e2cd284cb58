package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/obra/internal/domain"
)

// FormatProjectList renders projects as a table inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "CLIENT", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		client := p.Client
		if strings.TrimSpace(client) == "" {
			client = Dim("—")
		}
		rows = append(rows, []string{
			StyleGreen.Render(p.DisplayID()),
			p.Name,
			client,
			FormatDate(p.CreatedAt),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatCategoryList renders a project's cost categories with a budget total.
func FormatCategoryList(categories []*domain.CostCategory) string {
	headers := []string{"#", "CATEGORY", "BUDGET"}
	rows := make([][]string, 0, len(categories)+1)
	var total float64
	for i, c := range categories {
		total += c.Budget
		rows = append(rows, []string{Dim(strconv.Itoa(i + 1)), c.Name, FormatMoney(c.Budget)})
	}
	rows = append(rows, []string{"", Bold("Total"), Bold(FormatMoney(total))})
	return RenderTable(headers, rows, 0, 2)
}
