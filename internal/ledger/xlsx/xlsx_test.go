package xlsx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gagyebu/internal/core"
	"gagyebu/internal/ledger"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReader_ReadsLedgerSheet(t *testing.T) {
	buf := workbook(t, ledger.DefaultSheetName, [][]any{
		{"날짜", "시간", "타입", "대분류", "소분류", "내용", "금액", "화폐", "결제수단"},
		{"2024-01-10", "12:00", "지출", "문화/여가", "", "Twip", -500, "KRW", "CardA"},
		{45302, "09:30", "지출", "식비", "배달", "요기요", -12000, "KRW", "국민체크"},
		{"not a date", "", "지출", "식비", "", "요기요", -1, "KRW", "국민체크"},
	})

	res, err := New(buf, "bank.xlsx", "").Read(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "2024-01-10", res.Rows[0].Date)
	assert.Equal(t, "Twip", res.Rows[0].Description)
	assert.True(t, res.Rows[0].Amount.Equal(decimal.NewFromInt(-500)))
	assert.Equal(t, "2024-01-11", res.Rows[1].Date)
	assert.Equal(t, "국민체크", res.Rows[1].PaymentMethod)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 4, res.Skipped[0].Row)
}

func TestReader_MissingSheet(t *testing.T) {
	buf := workbook(t, "다른 시트", [][]any{{"날짜"}})

	_, err := New(buf, "bank.xlsx", "").Read(context.Background())
	var unreadable *core.UnreadableSourceError
	require.ErrorAs(t, err, &unreadable)
	assert.Equal(t, "bank.xlsx", unreadable.Source)
	assert.Contains(t, err.Error(), ledger.DefaultSheetName)
}

func TestReader_CustomSheetName(t *testing.T) {
	buf := workbook(t, "Ledger", [][]any{
		{"날짜", "내용", "금액", "결제수단", "대분류"},
		{"2024-02-01", "Twip", 1000, "CardA", "X"},
	})

	res, err := New(buf, "bank.xlsx", "Ledger").Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestReader_NotAWorkbook(t *testing.T) {
	_, err := New(strings.NewReader("plain text"), "notes.xlsx", "").Read(context.Background())
	var unreadable *core.UnreadableSourceError
	require.ErrorAs(t, err, &unreadable)
}

func TestReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(strings.NewReader(""), "bank.xlsx", "").Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
