package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

func TestCalculateSalesRenewalBonus(t *testing.T) {
	tests := []struct {
		rt   RenewalType
		top  bool
		want int64
	}{
		{GymChallenger, false, 50},
		{GymFighter, false, 100},
		{GymFighter, true, 150},
		{GymChampion, false, 150},
		{GymElite, false, 250},
		{GymElite, true, 300},
		{PT, false, 100},
		{Physio, false, 50},
		{Nutrition, true, 100},
		{ClassesFighter, false, 100},
		{ClassesElite, false, 250},
		{RenewalType("unknown"), true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateSalesRenewalBonus(tt.rt, tt.top), "%s top=%v", tt.rt, tt.top)
	}
}

func TestRateTable_EveryRenewalTypeHasRate(t *testing.T) {
	rt := DefaultRateTable()
	for _, r := range RenewalTypes {
		_, ok := rt.SalesRenewalBonus(r, false)
		assert.True(t, ok, r)
	}
}

func TestTopAchieverAward(t *testing.T) {
	base, mult := DefaultRateTable().TopAchieverAward(7)
	assert.Equal(t, int64(1000), base)
	assert.Equal(t, int64(350), mult)
}

func TestRateTableFromConfig(t *testing.T) {
	rt, err := RateTableFromConfig(config.CommissionConfig{
		RenewalRates:          map[string]int64{"gym_elite": 400},
		TopSalesSurcharge:     25,
		TopAchieverBase:       2000,
		TopAchieverPerRenewal: 10,
	})
	require.NoError(t, err)

	got, _ := rt.SalesRenewalBonus(GymElite, true)
	assert.Equal(t, int64(425), got)
	got, _ = rt.SalesRenewalBonus(GymFighter, false)
	assert.Equal(t, int64(100), got, "unset types keep the default")

	base, mult := rt.TopAchieverAward(3)
	assert.Equal(t, int64(2000), base)
	assert.Equal(t, int64(30), mult)

	// overrides must not leak into the package defaults
	assert.Equal(t, int64(250), CalculateSalesRenewalBonus(GymElite, false))

	_, err = RateTableFromConfig(config.CommissionConfig{RenewalRates: map[string]int64{"gym_gold": 1}})
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	k := SalesRenewalKind(GymElite)
	assert.Equal(t, "sales_renewal_gym_elite", k.String())

	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"sales_renewal_gym_elite", Kind{schema.CategorySalesRenewal, "gym_elite"}, true},
		{"sales_renewal_pt", Kind{schema.CategorySalesRenewal, "pt"}, true},
		{"sales_top_achiever_base", Kind{schema.CategorySalesTopAchiever, TierTopAchieverBase}, true},
		{"sales_top_achiever_renewal_multiplier", Kind{schema.CategorySalesTopAchiever, TierTopAchieverMultiplier}, true},
		{"sales_renewal_", Kind{}, false},
		{"pt_session", Kind{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if ok {
			assert.Equal(t, tt.in, got.String())
		}
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2025-03")
	require.NoError(t, err)
	assert.Equal(t, "2025-03", got)

	for _, bad := range []string{"2025-13", "2025/03", "March", "2025-3-01"} {
		_, err := ParseMonth(bad)
		assert.ErrorIs(t, err, ErrInvalidMonth, bad)
	}
}
