package commission

import (
	"strings"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

const (
	TierTopAchieverBase       = "base"
	TierTopAchieverMultiplier = "renewal_multiplier"
)

// Kind is the typed form of a commission type string such as
// "sales_renewal_gym_elite".
type Kind struct {
	Category schema.CommissionCategory
	Tier     string
}

// String renders the stored wire form.
func (k Kind) String() string {
	return string(k.Category) + "_" + k.Tier
}

func SalesRenewalKind(rt RenewalType) Kind {
	return Kind{Category: schema.CategorySalesRenewal, Tier: string(rt)}
}

// Longest prefix first: "sales_renewal" must not swallow a longer category.
var knownCategories = []schema.CommissionCategory{
	schema.CategorySalesTopAchiever,
	schema.CategorySalesRenewal,
}

// ParseKind splits a wire type string. Types outside the sales categories
// report false.
func ParseKind(s string) (Kind, bool) {
	for _, c := range knownCategories {
		prefix := string(c) + "_"
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return Kind{Category: c, Tier: s[len(prefix):]}, true
		}
	}
	return Kind{}, false
}
