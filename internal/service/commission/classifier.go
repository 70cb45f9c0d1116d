package commission

import (
	"encoding/json"
	"strings"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

// tier is the ladder shared by gym and classes packages.
type tier int

const (
	tierNone tier = iota
	tierChallenger
	tierFighter
	tierChampion
	tierElite
)

// Checked in this order so a name carrying several keywords resolves to the
// highest tier.
var offerKeywords = []struct {
	tier     tier
	keywords []string
}{
	{tierElite, []string{"elite", "🏆"}},
	{tierChampion, []string{"champion", "🥇"}},
	{tierFighter, []string{"fighter", "🥊"}},
	{tierChallenger, []string{"challenger", "🔰"}},
}

var durationTiers = map[string]tier{
	"1month":  tierChallenger,
	"3months": tierFighter,
	"6months": tierChampion,
	"1year":   tierElite,
}

var gymTiers = map[tier]RenewalType{
	tierChallenger: GymChallenger,
	tierFighter:    GymFighter,
	tierChampion:   GymChampion,
	tierElite:      GymElite,
}

var classesTiers = map[tier]RenewalType{
	tierChallenger: ClassesChallenger,
	tierFighter:    ClassesFighter,
	tierChampion:   ClassesChampion,
	tierElite:      ClassesElite,
}

// DetermineRenewalType returns the stored renewal type verbatim when the
// receipt has one, and otherwise infers it from the receipt type and item
// details. The second result is false when the receipt is not a renewal.
func DetermineRenewalType(r *schema.Receipt) (RenewalType, bool) {
	if r == nil {
		return "", false
	}
	if r.RenewalType != nil && *r.RenewalType != "" {
		return RenewalType(*r.RenewalType), true
	}
	return InferRenewalType(r.Type, r.ItemDetails)
}

// InferRenewalType classifies a legacy receipt. Malformed details are
// treated as empty.
func InferRenewalType(receiptType, itemDetails string) (RenewalType, bool) {
	d := parseDetails(itemDetails)

	switch strings.TrimSpace(receiptType) {
	case schema.ReceiptTypeMembershipRenewal:
		t := keywordTier(d.str("offerName"))
		if t == tierNone {
			t = durationTier(d.str("subscriptionType"))
		}
		if t == tierNone {
			return "", false
		}
		return gymTiers[t], true

	case schema.ReceiptTypePTRenewal:
		return PT, true
	case schema.ReceiptTypePhysioRenewal:
		return Physio, true
	case schema.ReceiptTypeNutritionRenewal:
		return Nutrition, true

	case schema.ReceiptTypeClassesRenewal:
		t := tierNone
		for _, field := range []string{"packageTier", "subscriptionType"} {
			v := d.str(field)
			if t = keywordTier(v); t != tierNone {
				break
			}
			if t = durationTier(v); t != tierNone {
				break
			}
		}
		if t == tierNone {
			t = tierChallenger
		}
		return classesTiers[t], true
	}

	return "", false
}

func keywordTier(name string) tier {
	name = strings.ToLower(name)
	if name == "" {
		return tierNone
	}
	for _, k := range offerKeywords {
		for _, kw := range k.keywords {
			if strings.Contains(name, kw) {
				return k.tier
			}
		}
	}
	return tierNone
}

func durationTier(v string) tier {
	return durationTiers[strings.ToLower(strings.ReplaceAll(v, " ", ""))]
}

type details map[string]any

func parseDetails(raw string) details {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var d details
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil
	}
	return d
}

func (d details) str(key string) string {
	s, _ := d[key].(string)
	return strings.TrimSpace(s)
}
