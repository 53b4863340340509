package models

import "github.com/shopspring/decimal"

// Period selects the statistics window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	// PeriodDefault covers the last 30 days. Unknown periods fall back to it.
	PeriodDefault Period = ""
)

// Counts pairs the number of records that passed the inclusion settings
// with the number considered.
type Counts struct {
	Included int `json:"included"`
	Total    int `json:"total"`
}

// Hidden reports whether any record was excluded.
func (c Counts) Hidden() bool {
	return c.Included < c.Total
}

type FilteredCounts struct {
	Transactions Counts `json:"transactions"`
	Assets       Counts `json:"assets"`
}

// CategoryTotal is the sum of included transactions of one type and
// category within the statistics window.
type CategoryTotal struct {
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

type Statistics struct {
	Period         Period          `json:"period"`
	StartDate      string          `json:"startDate"`
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	Balance        decimal.Decimal `json:"balance"`
	TotalAssets    decimal.Decimal `json:"totalAssets"`
	ByCategory     []CategoryTotal `json:"byCategory"`
	FilteredCounts FilteredCounts  `json:"filteredCounts"`
}

// MonthlyTotals is one row of a month-over-month report. Month is YYYY-MM.
type MonthlyTotals struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}
