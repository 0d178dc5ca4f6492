// Package reports builds derived impact summaries and exports them as
// spreadsheets for the board and grant paperwork.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"firewoodbank/internal/credit"
	"firewoodbank/models"
)

// OrderSource supplies the work orders a report draws from.
type OrderSource interface {
	List(ctx context.Context, limit, offset int) ([]*models.WorkOrder, error)
}

// EventSource supplies the calendar events a report draws from.
type EventSource interface {
	List(ctx context.Context, limit, offset int) ([]*models.DeliveryEvent, error)
}

// WorkerCreditRow is one worker's derived totals.
type WorkerCreditRow struct {
	DisplayName string
	Credit      credit.Credit
}

// WorkerCredit recomputes the credit for one worker from current data.
func WorkerCredit(ctx context.Context, orders OrderSource, events EventSource, s models.Session) (credit.Credit, error) {
	os, err := orders.List(ctx, 10000, 0)
	if err != nil {
		return credit.Credit{}, err
	}
	evs, err := events.List(ctx, 10000, 0)
	if err != nil {
		return credit.Credit{}, err
	}
	return credit.ComputeWorkerCredit(s, os, evs), nil
}

// WorkerCreditSummary recomputes the credit for every listed worker.
func WorkerCreditSummary(ctx context.Context, orders OrderSource, events EventSource, workers []*models.User) ([]WorkerCreditRow, error) {
	os, err := orders.List(ctx, 10000, 0)
	if err != nil {
		return nil, err
	}
	evs, err := events.List(ctx, 10000, 0)
	if err != nil {
		return nil, err
	}
	rows := make([]WorkerCreditRow, 0, len(workers))
	for _, w := range workers {
		rows = append(rows, WorkerCreditRow{
			DisplayName: w.DisplayName,
			Credit:      credit.ComputeWorkerCredit(w.Session(), os, evs),
		})
	}
	return rows, nil
}

// WriteWorkerCreditXLSX writes the summary to an .xlsx file at path.
func WriteWorkerCreditXLSX(rows []WorkerCreditRow, asOf time.Time, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Worker Credit"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	header := []any{"Worker", "Deliveries", "Hours", "Wood Credit (cords)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{r.DisplayName, r.Credit.Deliveries, r.Credit.Hours, r.Credit.WoodCreditCords}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	footer := fmt.Sprintf("As of %s", asOf.Format("2006-01-02"))
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", len(rows)+3), footer); err != nil {
		return err
	}
	return f.SaveAs(path)
}
