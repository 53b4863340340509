package services

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// maxReportMonths bounds GetMonthlyReport.
const maxReportMonths = 120

// StatisticsService derives aggregates from the ledger, honoring the
// user's inclusion settings. Amounts of different currencies are summed
// as plain magnitudes.
type StatisticsService struct {
	base
}

func NewStatisticsService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger) *StatisticsService {
	return &StatisticsService{base: newBase(db, m, log, "statistics")}
}

// NormalizePeriod maps unknown periods to PeriodDefault.
func NormalizePeriod(p models.Period) models.Period {
	switch p {
	case models.PeriodWeek, models.PeriodMonth, models.PeriodYear:
		return p
	}
	return models.PeriodDefault
}

// periodStart returns the first date, inclusive, covered by p.
func (s *StatisticsService) periodStart(p models.Period) string {
	now := s.now()
	var start = now.AddDate(0, 0, -30)
	switch p {
	case models.PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case models.PeriodMonth:
		start = timex.StartOfMonth(now)
	case models.PeriodYear:
		start = timex.StartOfYear(now)
	}
	return start.Format(common.DateLayout)
}

func (s *StatisticsService) load(ctx context.Context, sess session.Session) (*models.User, []models.Transaction, error) {
	if err := sess.Require(); err != nil {
		return nil, nil, err
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.repomanager.Transactions(s.db).ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	return u, txs, nil
}

// GetStatistics summarizes the period ending now.
func (s *StatisticsService) GetStatistics(ctx context.Context, sess session.Session, period models.Period) (*models.Statistics, error) {
	u, txs, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	assets, err := s.repomanager.Assets(s.db).ListActive(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	period = NormalizePeriod(period)
	incl := u.Settings.Inclusion()
	st := &models.Statistics{
		Period:      period,
		StartDate:   s.periodStart(period),
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		TotalAssets: decimal.Zero,
		ByCategory:  []models.CategoryTotal{},
	}

	type catKey struct {
		t models.TransactionType
		c string
	}
	byCat := map[catKey]*models.CategoryTotal{}

	for _, t := range txs {
		if t.Date < st.StartDate {
			continue
		}
		st.FilteredCounts.Transactions.Total++
		if !incl.IncludesTransaction(t.Type, t.Category) {
			continue
		}
		st.FilteredCounts.Transactions.Included++

		switch t.Type {
		case models.TransactionIncome:
			st.Income = st.Income.Add(t.Amount)
		case models.TransactionExpense:
			st.Expenses = st.Expenses.Add(t.Amount)
		}

		k := catKey{t.Type, t.Category}
		ct, ok := byCat[k]
		if !ok {
			ct = &models.CategoryTotal{Type: t.Type, Category: t.Category, Amount: decimal.Zero}
			byCat[k] = ct
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
	}
	st.Balance = st.Income.Sub(st.Expenses)

	for _, ct := range byCat {
		st.ByCategory = append(st.ByCategory, *ct)
	}
	sort.Slice(st.ByCategory, func(i, j int) bool {
		a, b := st.ByCategory[i], st.ByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Category < b.Category
	})

	for _, a := range assets {
		st.FilteredCounts.Assets.Total++
		if !incl.IncludesAsset(a.Type) {
			continue
		}
		st.FilteredCounts.Assets.Included++
		st.TotalAssets = st.TotalAssets.Add(a.CurrentValue)
	}

	return st, nil
}

// GetMonthlyReport returns income, expenses and balance for each of the
// last months calendar months, oldest first, including the current one.
func (s *StatisticsService) GetMonthlyReport(ctx context.Context, sess session.Session, months int) ([]models.MonthlyTotals, error) {
	if months < 1 || months > maxReportMonths {
		return nil, invalid("months must be between 1 and %d", maxReportMonths)
	}
	u, txs, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	incl := u.Settings.Inclusion()

	first := timex.StartOfMonth(s.now()).AddDate(0, -(months - 1), 0)
	out := make([]models.MonthlyTotals, months)
	index := make(map[string]int, months)
	for i := range out {
		m := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = models.MonthlyTotals{Month: m, Income: decimal.Zero, Expenses: decimal.Zero}
		index[m] = i
	}

	for _, t := range txs {
		if len(t.Date) < 7 {
			continue
		}
		i, ok := index[t.Date[:7]]
		if !ok || !incl.IncludesTransaction(t.Type, t.Category) {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			out[i].Income = out[i].Income.Add(t.Amount)
		case models.TransactionExpense:
			out[i].Expenses = out[i].Expenses.Add(t.Amount)
		}
	}
	for i := range out {
		out[i].Balance = out[i].Income.Sub(out[i].Expenses)
	}
	return out, nil
}
