package engine

const defaultSeasonalityStrength = 0.3

// candidate cycles in days: weekly, fortnightly, monthly
var seasonalPeriods = []int{7, 14, 30}

type Seasonality struct {
	Detected bool    `json:"detected"`
	Period   int     `json:"period,omitempty"`
	Strength float64 `json:"strength,omitempty"`
}

// DetectSeasonality looks for the strongest autocorrelation among the
// candidate periods. A period is only tried when the series covers at least
// two full cycles.
func DetectSeasonality(series []float64, minStrength float64) Seasonality {
	if minStrength <= 0 {
		minStrength = defaultSeasonalityStrength
	}
	best := Seasonality{}
	for _, lag := range seasonalPeriods {
		if len(series) < 2*lag {
			continue
		}
		r := autocorrelation(series, lag)
		if r > best.Strength {
			best = Seasonality{Period: lag, Strength: r}
		}
	}
	if best.Strength < minStrength {
		return Seasonality{}
	}
	best.Detected = true
	best.Strength = round(best.Strength, 2)
	return best
}

func autocorrelation(series []float64, lag int) float64 {
	mean, _ := meanStd(series)
	var num, den float64
	for i, v := range series {
		d := v - mean
		den += d * d
		if i+lag < len(series) {
			num += d * (series[i+lag] - mean)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}
