package predictor

import (
	"fmt"

	"github.com/openelect/wardcast/internal/models"
)

// Staleness beyond which the incumbency bonus is halved: a decade-old
// personal vote is weak evidence.
const incumbencyStaleYears = 10

// IncumbencyDelta adds the configured bonus to the defending party, halved
// when the ward baseline is more than 10 years stale. A retiring defender
// forfeits the personal-vote portion: the retirement penalty is subtracted
// from the bonus. Wards with no recorded defender get a no-op entry.
func IncumbencyDelta(status models.WardStatus, staleness int, a models.Assumptions) (models.ShareVector, string) {
	delta := make(models.ShareVector)
	if status.Defender == "" {
		return delta, "incumbency: no defending party recorded, skipped"
	}

	bonus := a.IncumbencyBonusPct / 100
	halved := staleness > incumbencyStaleYears
	if halved {
		bonus /= 2
	}

	detail := fmt.Sprintf("incumbency: +%.1fpp to %s", bonus*100, status.Defender)
	if halved {
		detail += fmt.Sprintf(" (halved, baseline %dy stale)", staleness)
	}

	if status.DefenderRetiring {
		penalty := a.RetirementPenaltyPct / 100
		bonus -= penalty
		detail += fmt.Sprintf("; retiring incumbent, -%.1fpp", penalty*100)
	}

	delta[status.Defender] = bonus
	return delta, detail
}
