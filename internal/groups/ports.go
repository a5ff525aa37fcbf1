// Package groups holds the report configuration: the merchant groups to
// aggregate and the payment methods hidden from selection.
package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gagyebu/internal/core"
)

var (
	ErrGroupNotFound = errors.New("merchant group not found")
	ErrInvalidGroup  = errors.New("invalid merchant group")
)

type (
	// Reader provides the configuration consumed by report building.
	Reader interface {
		Groups(ctx context.Context) ([]core.MerchantGroup, error)
		ExcludedPaymentMethods(ctx context.Context) ([]string, error)
	}

	// Writer edits the configuration.
	Writer interface {
		SaveGroup(ctx context.Context, g core.MerchantGroup) error
		DeleteGroup(ctx context.Context, name string) error
		SetExcludedPaymentMethods(ctx context.Context, labels []string) error
	}

	Store interface {
		Reader
		Writer
	}
)

// DefaultGroups returns the built-in merchant groups.
func DefaultGroups() []core.MerchantGroup {
	return []core.MerchantGroup{
		{Name: "twitch", Label: "Twitch", Merchants: []string{"Twip", "다날_정보서비스"}},
		{Name: "food", Label: "식대", Merchants: []string{"(주)우아한형제들", "요기요", "요기요_간편결제"}},
	}
}

// DefaultExcludedPaymentMethods returns the payment methods hidden by default.
func DefaultExcludedPaymentMethods() []string {
	return []string{"학교 계좌", "자유적금"}
}

// Normalize trims g and removes blank or duplicate merchants. A group needs a
// name and at least one merchant.
func Normalize(g core.MerchantGroup) (core.MerchantGroup, error) {
	g.Name = strings.TrimSpace(g.Name)
	g.Label = strings.TrimSpace(g.Label)
	if g.Name == "" {
		return g, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	g.Merchants = Dedupe(g.Merchants)
	if len(g.Merchants) == 0 {
		return g, fmt.Errorf("%w: %s has no merchants", ErrInvalidGroup, g.Name)
	}
	return g, nil
}

// Dedupe trims values and drops blanks and repeats, preserving order.
func Dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
