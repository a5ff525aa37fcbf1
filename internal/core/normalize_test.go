package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(date, desc string, amount int64, method string) RawTransaction {
	return RawTransaction{
		Date:          date,
		Description:   desc,
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: method,
		Category:      "X",
	}
}

func TestNormalize_SelectsInclusiveRange(t *testing.T) {
	rows := []RawTransaction{
		raw("2023-12-31", "before", 1, "A"),
		raw("2024-01-01", "first", 2, "A"),
		raw("2024-01-15", "middle", 3, "B"),
		raw("2024-01-31", "last", 4, "A"),
		raw("2024-02-01", "after", 5, "A"),
	}

	res, err := Normalize(rows, DateRange{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)

	var merchants []string
	for _, tx := range res.Transactions {
		merchants = append(merchants, tx.Merchant)
		assert.True(t, tx.Date >= "2024-01-01" && tx.Date <= "2024-01-31", tx.Date)
	}
	assert.Equal(t, []string{"first", "middle", "last"}, merchants)
	assert.LessOrEqual(t, len(res.Transactions), len(rows))
	assert.Empty(t, res.Skipped)
}

func TestNormalize_AbsoluteAmountAndFields(t *testing.T) {
	rows := []RawTransaction{
		{Date: "2024-01-10", Description: "Twip", Amount: decimal.NewFromInt(-500), PaymentMethod: "CardA", Category: "X"},
		{Date: "2024-01-11", Description: "요기요", Amount: decimal.RequireFromString("1234.5"), PaymentMethod: "CardB", Category: "식비"},
	}

	res, err := Normalize(rows, DateRange{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	for i, tx := range res.Transactions {
		assert.True(t, tx.Amount.Equal(rows[i].Amount.Abs()), "row %d amount %s", i, tx.Amount)
		assert.False(t, tx.Amount.IsNegative())
		assert.Equal(t, rows[i].Description, tx.Merchant)
		assert.Equal(t, rows[i].Category, tx.Category)
		assert.Equal(t, rows[i].PaymentMethod, tx.PaymentMethod)
		assert.Empty(t, tx.UsabilityFlag)
	}
}

func TestNormalize_OutOfRangeYieldsEmpty(t *testing.T) {
	rows := []RawTransaction{raw("2023-12-31", "Twip", -500, "CardA")}

	res, err := Normalize(rows, DateRange{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)

	report := Aggregate(res.Transactions, PaymentMethodPartition{Credit: []string{"CardA"}}, []MerchantGroup{
		{Name: "twitch", Merchants: []string{"Twip", "다날_정보서비스"}},
	})
	totals, ok := report.Get("twitch")
	require.True(t, ok)
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Credit.IsZero())
	assert.True(t, totals.DebitOrCash.IsZero())
}

func TestNormalize_SkipsMalformedDates(t *testing.T) {
	rows := []RawTransaction{
		raw("2024-01-05", "ok", 10, "A"),
		raw("2024/01/06", "slash", 20, "A"),
		raw("", "blank", 30, "A"),
		raw("2024-02-30", "impossible", 40, "A"),
		raw("2024-01-07", "ok2", 50, "A"),
	}

	res, err := Normalize(rows, DateRange{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "ok", res.Transactions[0].Merchant)
	assert.Equal(t, "ok2", res.Transactions[1].Merchant)

	require.Len(t, res.Skipped, 3)
	assert.Equal(t, 2, res.Skipped[0].Row)
	assert.Equal(t, FieldDate, res.Skipped[0].Field)
	assert.Equal(t, "2024/01/06", res.Skipped[0].Value)
	assert.Equal(t, 3, res.Skipped[1].Row)
	assert.Equal(t, 4, res.Skipped[2].Row)
}

func TestNormalize_RejectsBadRange(t *testing.T) {
	rows := []RawTransaction{raw("2024-01-10", "Twip", 1, "A")}

	_, err := Normalize(rows, DateRange{Start: "2024-02-01", End: "2024-01-01"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
	var rangeErr *InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "2024-02-01", rangeErr.Start)

	_, err = Normalize(rows, DateRange{Start: "yesterday", End: "2024-01-01"})
	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, FieldRangeStart, malformed.Field)
	assert.False(t, errors.Is(err, ErrInvalidRange))
}

func TestNormalize_EmptyInput(t *testing.T) {
	res, err := Normalize(nil, DateRange{Start: "2024-01-01", End: "2024-01-01"})
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Skipped)
}
