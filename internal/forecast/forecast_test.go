package forecast

import (
	"fmt"
	"testing"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/client"
)

func sample(dtTxt string, temp float64, condition, icon string) client.ForecastSample {
	s := client.ForecastSample{DtTxt: dtTxt}
	s.Main.Temp = temp
	if condition != "" || icon != "" {
		s.Weather = append(s.Weather, struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		}{Main: condition, Icon: icon})
	}
	return s
}

// TestSummarize_DailyBuckets verifies grouping by calendar date with min/max
// temperatures and dominant condition per group.
func TestSummarize_DailyBuckets(t *testing.T) {
	samples := []client.ForecastSample{
		sample("2024-01-01 00:00:00", 10, "Rain", "10d"),
		sample("2024-01-01 03:00:00", 15, "Rain", "10d"),
		sample("2024-01-01 06:00:00", 12, "Clear", "01d"),
		sample("2024-01-02 00:00:00", 20, "Clear", "01d"),
	}

	got := Summarize(samples)

	if len(got) != 2 {
		t.Fatalf("Summarize() length = %d, want 2", len(got))
	}

	day1 := got[0]
	if day1.Date != "2024-01-01" {
		t.Errorf("day1.Date = %q, want 2024-01-01", day1.Date)
	}
	if day1.TempMin != 10 || day1.TempMax != 15 {
		t.Errorf("day1 temps = [%v, %v], want [10, 15]", day1.TempMin, day1.TempMax)
	}
	if day1.Condition != "Rain" {
		t.Errorf("day1.Condition = %q, want Rain", day1.Condition)
	}
	if day1.Icon != "10d" {
		t.Errorf("day1.Icon = %q, want 10d", day1.Icon)
	}

	day2 := got[1]
	if day2.Date != "2024-01-02" {
		t.Errorf("day2.Date = %q, want 2024-01-02", day2.Date)
	}
	if day2.TempMin != 20 || day2.TempMax != 20 {
		t.Errorf("day2 temps = [%v, %v], want [20, 20]", day2.TempMin, day2.TempMax)
	}
	if day2.Condition != "Clear" {
		t.Errorf("day2.Condition = %q, want Clear", day2.Condition)
	}
}

// TestSummarize_TieBreak verifies that on a tied occurrence count the first
// label to reach the maximum wins and is not displaced by a later tie.
func TestSummarize_TieBreak(t *testing.T) {
	samples := []client.ForecastSample{
		sample("2024-01-01 00:00:00", 10, "Rain", "10d"),
		sample("2024-01-01 03:00:00", 11, "Clouds", "04d"),
		sample("2024-01-01 06:00:00", 12, "Clouds", "04d"),
		sample("2024-01-01 09:00:00", 13, "Rain", "10d"),
	}

	got := Summarize(samples)
	if len(got) != 1 {
		t.Fatalf("Summarize() length = %d, want 1", len(got))
	}
	// Rain reached count 1 first; Clouds ties at 1, then leads at 2; Rain
	// ties back at 2 but Clouds reached 2 first.
	if got[0].Condition != "Clouds" {
		t.Errorf("Condition = %q, want Clouds (first to reach max count)", got[0].Condition)
	}
}

// TestSummarize_IndependentIconCount verifies that dominant icon is counted
// separately from dominant condition.
func TestSummarize_IndependentIconCount(t *testing.T) {
	samples := []client.ForecastSample{
		sample("2024-01-01 00:00:00", 10, "Rain", "01d"),
		sample("2024-01-01 03:00:00", 11, "Rain", "04d"),
		sample("2024-01-01 06:00:00", 12, "Clear", "04d"),
	}

	got := Summarize(samples)
	if len(got) != 1 {
		t.Fatalf("Summarize() length = %d, want 1", len(got))
	}
	if got[0].Condition != "Rain" {
		t.Errorf("Condition = %q, want Rain", got[0].Condition)
	}
	if got[0].Icon != "04d" {
		t.Errorf("Icon = %q, want 04d", got[0].Icon)
	}
}

// TestSummarize_MissingConditionIsNA verifies that samples without weather
// entries count under the N/A label like any other label.
func TestSummarize_MissingConditionIsNA(t *testing.T) {
	samples := []client.ForecastSample{
		sample("2024-01-01 00:00:00", 10, "", ""),
		sample("2024-01-01 03:00:00", 11, "", ""),
		sample("2024-01-01 06:00:00", 12, "Clear", "01d"),
	}

	got := Summarize(samples)
	if len(got) != 1 {
		t.Fatalf("Summarize() length = %d, want 1", len(got))
	}
	if got[0].Condition != "N/A" {
		t.Errorf("Condition = %q, want N/A (missing labels dominate 2-1)", got[0].Condition)
	}
	if got[0].Icon != "N/A" {
		t.Errorf("Icon = %q, want N/A", got[0].Icon)
	}
}

// TestSummarize_SevenDayCap verifies that ten distinct dates are truncated to
// the first seven in original order.
func TestSummarize_SevenDayCap(t *testing.T) {
	var samples []client.ForecastSample
	for day := 1; day <= 10; day++ {
		samples = append(samples, sample(
			fmt.Sprintf("2024-01-%02d 12:00:00", day), float64(day), "Clear", "01d"))
	}

	got := Summarize(samples)
	if len(got) != 7 {
		t.Fatalf("Summarize() length = %d, want 7", len(got))
	}
	for i, day := range got {
		want := fmt.Sprintf("2024-01-%02d", i+1)
		if day.Date != want {
			t.Errorf("got[%d].Date = %q, want %q", i, day.Date, want)
		}
	}
}

// TestSummarize_Empty verifies that no samples produce an empty summary.
func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Summarize(nil) length = %d, want 0", len(got))
	}
}
