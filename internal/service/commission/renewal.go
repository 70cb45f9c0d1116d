package commission

// RenewalType is the closed set of tiers a renewal receipt is classified into.
type RenewalType string

const (
	GymChallenger RenewalType = "gym_challenger"
	GymFighter    RenewalType = "gym_fighter"
	GymChampion   RenewalType = "gym_champion"
	GymElite      RenewalType = "gym_elite"

	Physio    RenewalType = "physio"
	Nutrition RenewalType = "nutrition"
	PT        RenewalType = "pt"

	ClassesChallenger RenewalType = "classes_challenger"
	ClassesFighter    RenewalType = "classes_fighter"
	ClassesChampion   RenewalType = "classes_champion"
	ClassesElite      RenewalType = "classes_elite"
)

// RenewalTypes lists every valid renewal type.
var RenewalTypes = []RenewalType{
	GymChallenger, GymFighter, GymChampion, GymElite,
	Physio, Nutrition, PT,
	ClassesChallenger, ClassesFighter, ClassesChampion, ClassesElite,
}

func (r RenewalType) Valid() bool {
	for _, v := range RenewalTypes {
		if v == r {
			return true
		}
	}
	return false
}

// ParseRenewalType accepts only members of the closed set.
func ParseRenewalType(s string) (RenewalType, bool) {
	r := RenewalType(s)
	return r, r.Valid()
}
