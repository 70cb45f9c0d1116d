package commission

import (
	"fmt"

	"github.com/Alijeyrad/gymdesk_backend/config"
)

// RateTable holds the bonus amounts in whole currency units. It is built once
// at start-up and never mutated.
type RateTable struct {
	renewal               map[RenewalType]int64
	TopSalesSurcharge     int64
	TopAchieverBase       int64
	TopAchieverPerRenewal int64
}

func DefaultRateTable() RateTable {
	return RateTable{
		renewal: map[RenewalType]int64{
			GymChallenger:     50,
			GymFighter:        100,
			GymChampion:       150,
			GymElite:          250,
			PT:                100,
			Physio:            50,
			Nutrition:         50,
			ClassesChallenger: 50,
			ClassesFighter:    100,
			ClassesChampion:   150,
			ClassesElite:      250,
		},
		TopSalesSurcharge:     50,
		TopAchieverBase:       1000,
		TopAchieverPerRenewal: 50,
	}
}

// RateTableFromConfig starts from DefaultRateTable and applies overrides.
// Unknown renewal types in the config are rejected.
func RateTableFromConfig(c config.CommissionConfig) (RateTable, error) {
	t := DefaultRateTable()
	for k, v := range c.RenewalRates {
		rt, ok := ParseRenewalType(k)
		if !ok {
			return RateTable{}, fmt.Errorf("commission.renewal_rates: unknown renewal type %q", k)
		}
		t.renewal[rt] = v
	}
	t.TopSalesSurcharge = c.TopSalesSurcharge
	t.TopAchieverBase = c.TopAchieverBase
	t.TopAchieverPerRenewal = c.TopAchieverPerRenewal
	return t, nil
}

// SalesRenewalBonus returns the bonus for one renewal. The second result is
// false when the renewal type has no rate.
func (t RateTable) SalesRenewalBonus(rt RenewalType, isTopSales bool) (int64, bool) {
	base, ok := t.renewal[rt]
	if !ok {
		return 0, false
	}
	if isTopSales {
		base += t.TopSalesSurcharge
	}
	return base, true
}

// TopAchieverAward splits the month-end award into its flat part and its
// per-renewal part.
func (t RateTable) TopAchieverAward(renewalCount int) (base, multiplier int64) {
	return t.TopAchieverBase, int64(renewalCount) * t.TopAchieverPerRenewal
}

var defaultRates = DefaultRateTable()

// CalculateSalesRenewalBonus uses the built-in rates; unknown types earn 0.
func CalculateSalesRenewalBonus(rt RenewalType, isTopSales bool) int64 {
	amount, _ := defaultRates.SalesRenewalBonus(rt, isTopSales)
	return amount
}
