package engine

import (
	"errors"
	"testing"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

func history(days int, qty func(i int) int) []models.ConsumptionRecord {
	records := make([]models.ConsumptionRecord, 0, days)
	for i := 0; i < days; i++ {
		records = append(records, models.ConsumptionRecord{
			Date:     today.AddDate(0, 0, -days+i),
			Quantity: qty(i),
		})
	}
	return records
}

func TestForecast_FlatHistory(t *testing.T) {
	h := history(90, func(int) int { return 10 })

	f, err := Forecast(h, ForecastOptions{HorizonDays: 30, LookbackDays: 90, Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.DailyAverage != 10 {
		t.Errorf("expected daily average 10, got %v", f.DailyAverage)
	}
	if f.HorizonForecast != 300 {
		t.Errorf("expected horizon forecast 300, got %v", f.HorizonForecast)
	}
	if f.Trend != TrendStable {
		t.Errorf("expected stable, got %s", f.Trend)
	}
	if f.Confidence != ConfidenceHigh || f.ConfidencePercent != 100 {
		t.Errorf("expected high/100, got %s/%d", f.Confidence, f.ConfidencePercent)
	}
	if f.ConfidenceInterval.Lower != 300 || f.ConfidenceInterval.Upper != 300 {
		t.Errorf("expected zero-width interval, got %+v", f.ConfidenceInterval)
	}
	if f.Seasonality.Detected {
		t.Error("flat series should not be seasonal")
	}
}

func TestForecast_EmptyHistory(t *testing.T) {
	f, err := Forecast(nil, ForecastOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.DailyAverage != 0 || f.HorizonForecast != 0 || f.Trend != TrendStable {
		t.Errorf("unexpected forecast %+v", f)
	}
	if f.HorizonDays != DefaultHorizonDays || f.LookbackDays != DefaultLookbackDays {
		t.Errorf("expected defaults, got %d/%d", f.HorizonDays, f.LookbackDays)
	}
	if f.Confidence != ConfidenceLow || f.ConfidencePercent != 0 {
		t.Errorf("expected low/0, got %s/%d", f.Confidence, f.ConfidencePercent)
	}
}

func TestForecast_Trend(t *testing.T) {
	tests := []struct {
		name     string
		qty      func(i int) int
		expected Trend
	}{
		{"increasing", func(i int) int {
			if i < 30 {
				return 5
			}
			return 10
		}, TrendIncreasing},
		{"decreasing", func(i int) int {
			if i < 30 {
				return 10
			}
			return 5
		}, TrendDecreasing},
		{"within threshold", func(i int) int {
			if i < 30 {
				return 20
			}
			return 21
		}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Forecast(history(60, tt.qty), ForecastOptions{LookbackDays: 60, Today: today})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Trend != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, f.Trend)
			}
		})
	}
}

func TestForecast_ConfidenceFallsWithVariance(t *testing.T) {
	steady := history(28, func(i int) int { return 10 + i%2 })
	noisy := history(28, func(i int) int { return []int{0, 30, 5, 2}[i%4] })

	fs, _ := Forecast(steady, ForecastOptions{LookbackDays: 28, Today: today})
	fn, _ := Forecast(noisy, ForecastOptions{LookbackDays: 28, Today: today})

	if fs.Confidence != ConfidenceHigh {
		t.Errorf("expected high for steady series, got %s", fs.Confidence)
	}
	if fn.Confidence != ConfidenceLow {
		t.Errorf("expected low for noisy series, got %s", fn.Confidence)
	}
	if fn.ConfidencePercent >= fs.ConfidencePercent {
		t.Errorf("expected noisy percent below steady, got %d >= %d", fn.ConfidencePercent, fs.ConfidencePercent)
	}
}

func TestForecast_IgnoresRecordsOutsideWindow(t *testing.T) {
	h := []models.ConsumptionRecord{
		{Date: today, Quantity: 1000},
		{Date: today.AddDate(0, 0, -11), Quantity: 1000},
		{Date: today.AddDate(0, 0, -1), Quantity: 5},
		{Date: today.AddDate(0, 0, -1), Quantity: 5},
	}

	f, err := Forecast(h, ForecastOptions{LookbackDays: 10, HorizonDays: 10, Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.DailyAverage != 1 || f.DaysWithUsage != 1 {
		t.Errorf("expected average 1 over 1 day, got %v over %d", f.DailyAverage, f.DaysWithUsage)
	}
}

func TestForecast_UnsupportedMethods(t *testing.T) {
	for _, m := range []ForecastMethod{MethodExponentialSmoothing, MethodLinearRegression, "arima"} {
		t.Run(string(m), func(t *testing.T) {
			_, err := Forecast(nil, ForecastOptions{Method: m, Today: today})
			if !errors.Is(err, ErrNotImplemented) {
				t.Errorf("expected ErrNotImplemented, got %v", err)
			}
		})
	}
}

func TestUsageStats(t *testing.T) {
	h := history(10, func(i int) int { return i })
	avg, peak := UsageStats(h, today, 10)
	if avg != 4.5 || peak != 9 {
		t.Errorf("expected 4.5/9, got %v/%v", avg, peak)
	}
}

func TestDetectSeasonality_Weekly(t *testing.T) {
	series := make([]float64, 84)
	for i := range series {
		if i%7 == 5 {
			series[i] = 70
		}
	}

	s := DetectSeasonality(series, 0)
	if !s.Detected || s.Period != 7 {
		t.Fatalf("expected weekly seasonality, got %+v", s)
	}
	if s.Strength < 0.8 {
		t.Errorf("expected strong signal, got %v", s.Strength)
	}
}

func TestDetectSeasonality_ShortSeries(t *testing.T) {
	if s := DetectSeasonality([]float64{1, 9, 1, 9, 1}, 0); s.Detected {
		t.Errorf("expected nothing on a short series, got %+v", s)
	}
}
