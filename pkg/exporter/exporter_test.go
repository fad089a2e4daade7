package exporter

import (
	"bytes"
	"testing"

	"lease-recert-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
)

func TestWriteLeases(t *testing.T) {
	leases := []*models.Lease{
		{ID: 1, ChatID: 100, TenantName: "Jane Smith", Address: "12 Oak St", StartDate: "01/01/2025", RecertDate: "09/28/2025", ReminderDate: "09/21/2025"},
		{ID: 2, ChatID: 100, TenantName: "Bob Lee", Address: "9 Elm Ave", StartDate: "02/15/2025", RecertDate: "11/12/2025", ReminderDate: "11/05/2025"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeases(&buf, leases))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Leases", sheet.Name)

	header, err := sheet.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "Tenant", header.GetCell(1).String())

	first, err := sheet.Row(1)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", first.GetCell(1).String())
	assert.Equal(t, "09/28/2025", first.GetCell(4).String())
}

func TestWriteLeasesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeases(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, 1, file.Sheets[0].MaxRow)
}
