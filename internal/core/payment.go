package core

// PaymentMethods returns the distinct payment-method labels of txs in the order
// they first appear, leaving out any label in excluded.
func PaymentMethods(txs []NormalizedTransaction, excluded []string) []string {
	skip := stringSet(excluded)
	seen := make(map[string]struct{}, len(txs))
	out := make([]string, 0)
	for _, t := range txs {
		if _, ok := skip[t.PaymentMethod]; ok {
			continue
		}
		if _, ok := seen[t.PaymentMethod]; ok {
			continue
		}
		seen[t.PaymentMethod] = struct{}{}
		out = append(out, t.PaymentMethod)
	}
	return out
}

// FilterPaymentMethods keeps only transactions paid with a label in include.
// An empty include set selects everything.
func FilterPaymentMethods(txs []NormalizedTransaction, include []string) []NormalizedTransaction {
	if len(include) == 0 {
		return txs
	}
	keep := stringSet(include)
	out := make([]NormalizedTransaction, 0, len(txs))
	for _, t := range txs {
		if _, ok := keep[t.PaymentMethod]; ok {
			out = append(out, t)
		}
	}
	return out
}

// IsPartitioned reports whether the user split payment methods into credit
// and debit/cash lists. When they did not, an inclusion set applies instead.
func (p PaymentMethodPartition) IsPartitioned() bool {
	return len(p.Credit) > 0 || len(p.DebitOrCash) > 0
}
