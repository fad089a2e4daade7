// Package exporter renders record-store data as Excel workbooks for the
// admin API's export endpoints.
package exporter

import (
	"fmt"
	"io"
	"strconv"

	"lease-recert-bot/internal/models"

	"github.com/tealeg/xlsx/v3"
)

var leaseHeader = []string{"ID", "Tenant", "Address", "Start Date", "Recert Due", "Reminder Date"}

// WriteLeases writes one worksheet with a header row and one row per lease.
// The caller supplies leases already sorted; row order is preserved.
func WriteLeases(w io.Writer, leases []*models.Lease) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leases")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range leaseHeader {
		header.AddCell().SetString(h)
	}

	for _, l := range leases {
		row := sheet.AddRow()
		row.AddCell().SetString(strconv.FormatInt(l.ID, 10))
		row.AddCell().SetString(l.TenantName)
		row.AddCell().SetString(l.Address)
		row.AddCell().SetString(l.StartDate)
		row.AddCell().SetString(l.RecertDate)
		row.AddCell().SetString(l.ReminderDate)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
