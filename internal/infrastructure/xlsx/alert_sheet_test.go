package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/infrastructure/xlsx"
)

func TestGenerateAlertSheet(t *testing.T) {
	items := []dto.InventoryItemDTO{
		{ItemName: "Tela", Unit: "m", Status: "CRITICAL", CurrentStock: decimal.NewFromInt(5), ReorderQuantity: decimal.NewFromInt(60)},
		{ItemName: "Botón", Unit: "u", Status: "WARNING", CurrentStock: decimal.NewFromInt(30)},
	}
	out, err := xlsx.NewAlertSheetGenerator().GenerateAlertSheet(items, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Alertas")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Alertas de inventario 2026-03-01 08:00", rows[0][0])
	assert.Equal(t, "material", rows[1][0])
	assert.Equal(t, []string{"Tela", "m", "CRITICAL", "5"}, rows[2][:4])
	assert.Equal(t, "60", rows[2][11])
	assert.Equal(t, "Botón", rows[3][0])
}
