package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

const defaultReportMonths = 6

func (a *App) Stats(ctx context.Context, args []string) error {
	var period models.Period
	if len(args) > 0 {
		period = models.Period(args[0])
	}
	st, err := a.stats.GetStatistics(ctx, a.sess, period)
	if err != nil {
		return err
	}
	a.printMarkdown(StatisticsMarkdown(st, a.currency))
	return nil
}

func (a *App) Report(ctx context.Context, args []string) error {
	months := defaultReportMonths
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid number of months %q", args[0])
		}
		months = n
	}
	rows, err := a.stats.GetMonthlyReport(ctx, a.sess, months)
	if err != nil {
		return err
	}
	a.printMarkdown(MonthlyReportMarkdown(rows, a.currency))
	return nil
}
