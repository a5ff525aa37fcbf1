package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGroups = []MerchantGroup{
	{Name: "twitch", Label: "Twitch", Merchants: []string{"Twip", "다날_정보서비스"}},
	{Name: "food", Label: "식대", Merchants: []string{"(주)우아한형제들", "요기요", "요기요_간편결제"}},
}

func tx(merchant string, amount int64, method string) NormalizedTransaction {
	return NormalizedTransaction{Date: "2024-01-10", Merchant: merchant, Amount: decimal.NewFromInt(amount), PaymentMethod: method}
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "%s: want %d, got %s", msg, want, got)
}

func TestAggregate_SingleTwipScenario(t *testing.T) {
	res, err := Normalize(
		[]RawTransaction{{Date: "2024-01-10", Description: "Twip", Amount: decimal.NewFromInt(-500), PaymentMethod: "CardA", Category: "X"}},
		DateRange{Start: "2024-01-01", End: "2024-01-31"},
	)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assertAmount(t, 500, res.Transactions[0].Amount, "normalized amount")

	report := Aggregate(res.Transactions, PaymentMethodPartition{Credit: []string{"CardA"}}, testGroups[:1])
	require.Len(t, report.Groups, 1)
	totals, ok := report.Get("twitch")
	require.True(t, ok)
	assertAmount(t, 500, totals.Total, "total")
	assertAmount(t, 500, totals.Credit, "credit")
	assertAmount(t, 0, totals.DebitOrCash, "debit")
}

func TestAggregate_Partition(t *testing.T) {
	txs := []NormalizedTransaction{
		tx("Twip", 100, "신한카드"),
		tx("다날_정보서비스", 200, "국민체크"),
		tx("Twip", 300, "미분류"),
		tx("요기요", 1000, "신한카드"),
		tx("(주)우아한형제들", 2000, "현금"),
		tx("편의점", 5000, "신한카드"),
	}
	p := PaymentMethodPartition{Credit: []string{"신한카드"}, DebitOrCash: []string{"국민체크", "현금"}}

	report := Aggregate(txs, p, testGroups)
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "twitch", report.Groups[0].Name)
	assert.Equal(t, "food", report.Groups[1].Name)

	twitch, _ := report.Get("twitch")
	assertAmount(t, 600, twitch.Total, "twitch total")
	assertAmount(t, 100, twitch.Credit, "twitch credit")
	assertAmount(t, 200, twitch.DebitOrCash, "twitch debit")

	food, _ := report.Get("food")
	assertAmount(t, 3000, food.Total, "food total")
	assertAmount(t, 1000, food.Credit, "food credit")
	assertAmount(t, 2000, food.DebitOrCash, "food debit")
}

func TestAggregate_PartialSumsNeverExceedTotal(t *testing.T) {
	cases := []struct {
		name       string
		txs        []NormalizedTransaction
		fullySplit bool
	}{
		{"all classified", []NormalizedTransaction{tx("Twip", 10, "C"), tx("Twip", 20, "D")}, true},
		{"one unclassified", []NormalizedTransaction{tx("Twip", 10, "C"), tx("Twip", 20, "?")}, false},
		{"none classified", []NormalizedTransaction{tx("Twip", 10, "?")}, false},
		{"no members", []NormalizedTransaction{tx("other", 10, "C")}, true},
	}
	p := PaymentMethodPartition{Credit: []string{"C"}, DebitOrCash: []string{"D"}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals, ok := Aggregate(tc.txs, p, testGroups).Get("twitch")
			require.True(t, ok)
			split := totals.Credit.Add(totals.DebitOrCash)
			assert.True(t, split.LessThanOrEqual(totals.Total))
			assert.Equal(t, tc.fullySplit, split.Equal(totals.Total))
		})
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	report := Aggregate(nil, PaymentMethodPartition{}, testGroups)
	require.Len(t, report.Groups, len(testGroups))
	for _, g := range report.Groups {
		assert.True(t, g.Total.IsZero(), g.Name)
		assert.True(t, g.Credit.IsZero(), g.Name)
		assert.True(t, g.DebitOrCash.IsZero(), g.Name)
	}

	empty := Aggregate([]NormalizedTransaction{tx("Twip", 1, "C")}, PaymentMethodPartition{}, nil)
	assert.Empty(t, empty.Groups)
	_, ok := empty.Get("twitch")
	assert.False(t, ok)
}

func TestAggregate_Idempotent(t *testing.T) {
	txs := []NormalizedTransaction{tx("Twip", 10, "C"), tx("요기요", 7, "D")}
	p := PaymentMethodPartition{Credit: []string{"C"}, DebitOrCash: []string{"D"}}

	first := Aggregate(txs, p, testGroups)
	second := Aggregate(txs, p, testGroups)
	assert.Equal(t, first, second)
}

func TestAggregateReport_Lines(t *testing.T) {
	txs := []NormalizedTransaction{tx("Twip", 12000, "C"), tx("Twip", 500, "D")}
	p := PaymentMethodPartition{Credit: []string{"C"}, DebitOrCash: []string{"D"}}

	lines := Aggregate(txs, p, testGroups[:1]).Lines()
	assert.Equal(t, []string{
		"Twitch",
		"전체 금액 : 12,500",
		"신용카드 금액 : 12,000",
		"체크카드 및 계좌이체 금액 : 500",
	}, lines)
}

func TestMerchantGroup_DisplayLabel(t *testing.T) {
	assert.Equal(t, "food", MerchantGroup{Name: "food"}.DisplayLabel())
	assert.Equal(t, "식대", MerchantGroup{Name: "food", Label: "식대"}.DisplayLabel())
}
