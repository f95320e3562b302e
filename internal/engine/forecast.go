package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type ForecastMethod string

const (
	MethodMovingAverage        ForecastMethod = "moving_average"
	MethodExponentialSmoothing ForecastMethod = "exponential_smoothing"
	MethodLinearRegression     ForecastMethod = "linear_regression"
)

const (
	DefaultHorizonDays  = 30
	DefaultLookbackDays = 90

	defaultTrendThreshold   = 0.10
	defaultHighConfidenceCV = 0.25
	defaultMediumCV         = 0.50
	z95                     = 1.96
)

// ForecastOptions configures one forecast. Zero values fall back to the
// package defaults. The lookback window is the LookbackDays complete days
// ending the day before Today.
type ForecastOptions struct {
	Method           ForecastMethod
	HorizonDays      int
	LookbackDays     int
	Today            time.Time
	TrendThreshold   float64
	HighConfidenceCV float64
	MediumCV         float64
	SeasonalityMin   float64
}

func (o ForecastOptions) withDefaults() ForecastOptions {
	if o.Method == "" {
		o.Method = MethodMovingAverage
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.LookbackDays <= 0 {
		o.LookbackDays = DefaultLookbackDays
	}
	if o.TrendThreshold <= 0 {
		o.TrendThreshold = defaultTrendThreshold
	}
	if o.HighConfidenceCV <= 0 {
		o.HighConfidenceCV = defaultHighConfidenceCV
	}
	if o.MediumCV <= 0 {
		o.MediumCV = defaultMediumCV
	}
	if o.SeasonalityMin <= 0 {
		o.SeasonalityMin = defaultSeasonalityStrength
	}
	return o
}

type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type DemandForecast struct {
	Method             ForecastMethod `json:"method"`
	HorizonDays        int            `json:"horizon_days"`
	LookbackDays       int            `json:"lookback_days"`
	DaysWithUsage      int            `json:"days_with_usage"`
	DailyAverage       float64        `json:"daily_average"`
	HorizonForecast    float64        `json:"horizon_forecast"`
	Trend              Trend          `json:"trend"`
	Confidence         Confidence     `json:"confidence"`
	ConfidencePercent  int            `json:"confidence_percent"`
	ConfidenceInterval Interval       `json:"confidence_interval"`
	Seasonality        Seasonality    `json:"seasonality"`
}

// Forecast projects demand over the horizon from the daily consumption in
// the lookback window. Days without records count as zero consumption, so
// an empty history is a valid zero forecast. Methods other than the moving
// average return ErrNotImplemented.
func Forecast(history []models.ConsumptionRecord, opts ForecastOptions) (DemandForecast, error) {
	opts = opts.withDefaults()
	switch opts.Method {
	case MethodMovingAverage:
	case MethodExponentialSmoothing, MethodLinearRegression:
		return DemandForecast{}, fmt.Errorf("forecast method %q: %w", opts.Method, ErrNotImplemented)
	default:
		return DemandForecast{}, fmt.Errorf("unknown forecast method %q: %w", opts.Method, ErrNotImplemented)
	}

	series := DailySeries(history, opts.Today, opts.LookbackDays)
	avg, std := meanStd(series)

	cv := math.Inf(1)
	if avg > 0 {
		cv = std / avg
	}
	confidence, percent := confidenceFor(cv, opts)

	horizon := avg * float64(opts.HorizonDays)
	spread := z95 * std * math.Sqrt(float64(opts.HorizonDays))

	used := 0
	for _, v := range series {
		if v > 0 {
			used++
		}
	}

	return DemandForecast{
		Method:            opts.Method,
		HorizonDays:       opts.HorizonDays,
		LookbackDays:      opts.LookbackDays,
		DaysWithUsage:     used,
		DailyAverage:      round(avg, 2),
		HorizonForecast:   round(horizon, 2),
		Trend:             trendOf(series, opts.TrendThreshold),
		Confidence:        confidence,
		ConfidencePercent: percent,
		ConfidenceInterval: Interval{
			Lower: round(math.Max(0, horizon-spread), 2),
			Upper: round(horizon+spread, 2),
		},
		Seasonality: DetectSeasonality(series, opts.SeasonalityMin),
	}, nil
}

// DailySeries lays history out as one value per day for the lookbackDays
// days before today, oldest first. Records outside the window are ignored
// and records on the same day are summed.
func DailySeries(history []models.ConsumptionRecord, today time.Time, lookbackDays int) []float64 {
	if lookbackDays <= 0 {
		return nil
	}
	start := Day(today).AddDate(0, 0, -lookbackDays)
	series := make([]float64, lookbackDays)
	for _, rec := range history {
		i := DaysBetween(start, rec.Date)
		if i < 0 || i >= lookbackDays {
			continue
		}
		series[i] += float64(rec.Quantity)
	}
	return series
}

// UsageStats returns the average and peak daily consumption over the window.
func UsageStats(history []models.ConsumptionRecord, today time.Time, lookbackDays int) (avg, peak float64) {
	series := DailySeries(history, today, lookbackDays)
	avg, _ = meanStd(series)
	for _, v := range series {
		if v > peak {
			peak = v
		}
	}
	return avg, peak
}

func meanStd(series []float64) (mean, std float64) {
	if len(series) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	mean = sum / float64(len(series))
	variance := 0.0
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(series)))
}

// trendOf compares the average of the second half of the window with the first.
func trendOf(series []float64, threshold float64) Trend {
	if len(series) < 2 {
		return TrendStable
	}
	mid := len(series) / 2
	first, _ := meanStd(series[:mid])
	second, _ := meanStd(series[mid:])
	if first == 0 {
		if second > 0 {
			return TrendIncreasing
		}
		return TrendStable
	}
	change := (second - first) / first
	switch {
	case change > threshold:
		return TrendIncreasing
	case change < -threshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// confidenceFor buckets the coefficient of variation. Confidence never
// rises as the CV grows.
func confidenceFor(cv float64, opts ForecastOptions) (Confidence, int) {
	percent := 0
	if !math.IsInf(cv, 1) {
		percent = int(math.Round(100 * math.Max(0, 1-cv)))
	}
	switch {
	case cv <= opts.HighConfidenceCV:
		return ConfidenceHigh, percent
	case cv <= opts.MediumCV:
		return ConfidenceMedium, percent
	default:
		return ConfidenceLow, percent
	}
}
