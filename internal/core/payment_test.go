package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethods(t *testing.T) {
	txs := []NormalizedTransaction{
		tx("a", 1, "신한카드"),
		tx("b", 1, "학교 계좌"),
		tx("c", 1, "국민체크"),
		tx("d", 1, "신한카드"),
		tx("e", 1, "자유적금"),
	}

	got := PaymentMethods(txs, []string{"학교 계좌", "자유적금"})
	assert.Equal(t, []string{"신한카드", "국민체크"}, got)

	assert.Empty(t, PaymentMethods(nil, nil))
	assert.Len(t, PaymentMethods(txs, nil), 4)
}

func TestFilterPaymentMethods(t *testing.T) {
	txs := []NormalizedTransaction{tx("a", 1, "A"), tx("b", 2, "B"), tx("c", 3, "A")}

	assert.Equal(t, txs, FilterPaymentMethods(txs, nil))

	got := FilterPaymentMethods(txs, []string{"A"})
	if assert.Len(t, got, 2) {
		assert.Equal(t, "a", got[0].Merchant)
		assert.Equal(t, "c", got[1].Merchant)
	}

	assert.Empty(t, FilterPaymentMethods(txs, []string{"Z"}))
}

func TestPaymentMethodPartition_IsPartitioned(t *testing.T) {
	assert.False(t, PaymentMethodPartition{}.IsPartitioned())
	assert.True(t, PaymentMethodPartition{Credit: []string{"A"}}.IsPartitioned())
	assert.True(t, PaymentMethodPartition{DebitOrCash: []string{"B"}}.IsPartitioned())
}
