package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Display labels for the three sums of a group.
const (
	LabelTotal       = "전체"
	LabelCredit      = "신용카드"
	LabelDebitOrCash = "체크카드 및 계좌이체"
)

// GroupTotals are the three sums computed for one merchant group.
// Credit + DebitOrCash never exceeds Total.
type GroupTotals struct {
	Total       decimal.Decimal `json:"total"`
	Credit      decimal.Decimal `json:"creditTotal"`
	DebitOrCash decimal.Decimal `json:"debitOrCashTotal"`
}

// GroupReport pairs a merchant group with its totals.
type GroupReport struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	GroupTotals
}

// Line is one labeled amount of a rendered report.
type Line struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

func (l Line) String() string {
	return fmt.Sprintf("%s 금액 : %s", l.Key, FormatAmount(l.Value))
}

// Lines returns the group totals in display order.
func (g GroupReport) Lines() []Line {
	return []Line{
		{Key: LabelTotal, Value: g.Total},
		{Key: LabelCredit, Value: g.Credit},
		{Key: LabelDebitOrCash, Value: g.DebitOrCash},
	}
}

// AggregateReport lists group totals in the order the groups were given.
type AggregateReport struct {
	Groups []GroupReport `json:"groups"`
}

// Get returns the totals of the named group.
func (r AggregateReport) Get(name string) (GroupTotals, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g.GroupTotals, true
		}
	}
	return GroupTotals{}, false
}

// Lines renders every group as a label line followed by its amount lines.
func (r AggregateReport) Lines() []string {
	out := make([]string, 0, len(r.Groups)*4)
	for _, g := range r.Groups {
		out = append(out, g.Label)
		for _, l := range g.Lines() {
			out = append(out, l.String())
		}
	}
	return out
}

// Aggregate computes, for every group, the sum of member transactions and its
// split into credit and debit/cash payment methods. Membership is by exact
// merchant name. A transaction whose payment method is in neither partition
// set counts toward Total only.
func Aggregate(txs []NormalizedTransaction, p PaymentMethodPartition, groups []MerchantGroup) AggregateReport {
	credit := stringSet(p.Credit)
	debit := stringSet(p.DebitOrCash)

	report := AggregateReport{Groups: make([]GroupReport, 0, len(groups))}
	for _, g := range groups {
		members := stringSet(g.Merchants)
		gr := GroupReport{
			Name:  g.Name,
			Label: g.DisplayLabel(),
			GroupTotals: GroupTotals{
				Total:       decimal.Zero,
				Credit:      decimal.Zero,
				DebitOrCash: decimal.Zero,
			},
		}
		for _, t := range txs {
			if _, ok := members[t.Merchant]; !ok {
				continue
			}
			gr.Total = gr.Total.Add(t.Amount)
			if _, ok := credit[t.PaymentMethod]; ok {
				gr.Credit = gr.Credit.Add(t.Amount)
			}
			if _, ok := debit[t.PaymentMethod]; ok {
				gr.DebitOrCash = gr.DebitOrCash.Add(t.Amount)
			}
		}
		report.Groups = append(report.Groups, gr)
	}
	return report
}
