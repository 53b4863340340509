package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dmitrijs2005/budgetkeeper/internal/catalog"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// renderMarkdown is a test seam for the terminal renderer.
var renderMarkdown = func(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func (a *App) printMarkdown(md string) {
	fmt.Fprint(a.out, renderOrRaw(md))
}

func renderOrRaw(md string) string {
	out, err := renderMarkdown(md)
	if err != nil || strings.TrimSpace(out) == "" {
		return md
	}
	return out
}

// cell escapes a value for a Markdown table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func transactionsMarkdown(ts []models.Transaction) string {
	if len(ts) == 0 {
		return "_No transactions._\n"
	}
	var b strings.Builder
	b.WriteString("| Date | Type | Category | Amount | Description | ID |\n")
	b.WriteString("|---|---|---|---:|---|---|\n")
	for _, t := range ts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
			t.Date, t.Type, cell(t.Category), catalog.FormatMoney(t.Signed(), t.Currency), cell(t.Description), t.ID)
	}
	return b.String()
}

func assetsMarkdown(as []models.Asset) string {
	if len(as) == 0 {
		return "_No assets._\n"
	}
	var b strings.Builder
	b.WriteString("| Name | Type | Value | Purchased | ID |\n")
	b.WriteString("|---|---|---:|---|---|\n")
	for _, x := range as {
		purchased := x.PurchaseDate
		if purchased == "" {
			purchased = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | `%s` |\n",
			cell(x.Name), x.Type, catalog.FormatMoney(x.CurrentValue, x.Currency), purchased, x.ID)
	}
	return b.String()
}

func membersMarkdown(ms []models.AccountUser) string {
	if len(ms) == 0 {
		return "_No household members._\n"
	}
	var b strings.Builder
	b.WriteString("| Name | Relationship | Birth date | ID |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, m := range ms {
		fmt.Fprintf(&b, "| %s | %s | %s | `%s` |\n", cell(m.Name), cell(m.Relationship), m.BirthDate, m.ID)
	}
	return b.String()
}

func accountsMarkdown(as []models.Account) string {
	if len(as) == 0 {
		return "_No accounts._\n"
	}
	var b strings.Builder
	b.WriteString("| Name | Type | Balance | Default | ID |\n")
	b.WriteString("|---|---|---:|:---:|---|\n")
	for _, x := range as {
		def := ""
		if x.IsDefault {
			def = "*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | `%s` |\n",
			cell(x.Name), x.Type, catalog.FormatMoney(x.Balance, x.Currency), def, x.ID)
	}
	return b.String()
}

// StatisticsMarkdown renders a statistics summary. Amounts are shown in
// currency.
func StatisticsMarkdown(st *models.Statistics, currency string) string {
	var b strings.Builder
	period := string(st.Period)
	if period == "" {
		period = "last 30 days"
	}
	fmt.Fprintf(&b, "# Statistics (%s, since %s)\n\n", period, st.StartDate)
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", catalog.FormatMoney(st.Income, currency))
	fmt.Fprintf(&b, "| Expenses | %s |\n", catalog.FormatMoney(st.Expenses, currency))
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", catalog.FormatMoney(st.Balance, currency))
	fmt.Fprintf(&b, "| Total assets | %s |\n", catalog.FormatMoney(st.TotalAssets, currency))

	if len(st.ByCategory) > 0 {
		b.WriteString("\n## By category\n\n| Type | Category | Count | Amount |\n|---|---|---:|---:|\n")
		for _, c := range st.ByCategory {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", c.Type, cell(c.Category), c.Count, catalog.FormatMoney(c.Amount, currency))
		}
	}

	fc := st.FilteredCounts
	if fc.Transactions.Hidden() || fc.Assets.Hidden() {
		fmt.Fprintf(&b, "\n_Showing %d of %d transactions and %d of %d assets; the rest are excluded by your settings._\n",
			fc.Transactions.Included, fc.Transactions.Total, fc.Assets.Included, fc.Assets.Total)
	}
	return b.String()
}

// MonthlyReportMarkdown renders a month-over-month table.
func MonthlyReportMarkdown(rows []models.MonthlyTotals, currency string) string {
	var b strings.Builder
	b.WriteString("# Monthly report\n\n| Month | Income | Expenses | Balance |\n|---|---:|---:|---:|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Month,
			catalog.FormatMoney(r.Income, currency),
			catalog.FormatMoney(r.Expenses, currency),
			catalog.FormatMoney(r.Balance, currency))
	}
	return b.String()
}

// ImportResultMarkdown summarizes an import.
func ImportResultMarkdown(r *models.ImportResult) string {
	var b strings.Builder
	b.WriteString("# Import finished\n\n| | Transactions | Assets | Accounts |\n|---|---:|---:|---:|\n")
	row := func(name string, c models.KindCounts) {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", name, c.Transactions, c.Assets, c.Accounts)
	}
	row("Imported", r.Imported)
	row("Skipped", r.Skipped)
	row("Deleted", r.Deleted)
	if len(r.Errors) > 0 {
		b.WriteString("\n## Problems\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}
