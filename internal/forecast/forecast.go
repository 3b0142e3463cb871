package forecast

import (
	"strings"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/client"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/models"
)

// maxDays caps the summary length; the provider's free tier returns five days
// but the response shape allows more.
const maxDays = 7

// missingLabel stands in for samples without a condition or icon and counts
// like any other label.
const missingLabel = "N/A"

// dayBucket accumulates samples for one calendar date.
type dayBucket struct {
	date       string
	tempMin    float64
	tempMax    float64
	conditions *counter
	icons      *counter
}

// Summarize reduces sub-daily forecast samples to one record per calendar
// date: min/max temperature plus the dominant condition and icon by occurrence
// count. Dates are the date portion of dt_txt, no timezone conversion. Output
// preserves first-appearance order of each date and is capped at seven days.
func Summarize(samples []client.ForecastSample) []models.DailyForecast {
	buckets := make(map[string]*dayBucket)
	var order []string

	for _, sample := range samples {
		date := dateOf(sample.DtTxt)
		bucket, ok := buckets[date]
		if !ok {
			bucket = &dayBucket{
				date:       date,
				tempMin:    sample.Main.Temp,
				tempMax:    sample.Main.Temp,
				conditions: newCounter(),
				icons:      newCounter(),
			}
			buckets[date] = bucket
			order = append(order, date)
		}

		if sample.Main.Temp < bucket.tempMin {
			bucket.tempMin = sample.Main.Temp
		}
		if sample.Main.Temp > bucket.tempMax {
			bucket.tempMax = sample.Main.Temp
		}

		condition, icon := missingLabel, missingLabel
		if len(sample.Weather) > 0 {
			if sample.Weather[0].Main != "" {
				condition = sample.Weather[0].Main
			}
			if sample.Weather[0].Icon != "" {
				icon = sample.Weather[0].Icon
			}
		}
		bucket.conditions.add(condition)
		bucket.icons.add(icon)
	}

	if len(order) > maxDays {
		order = order[:maxDays]
	}

	out := make([]models.DailyForecast, 0, len(order))
	for _, date := range order {
		bucket := buckets[date]
		out = append(out, models.DailyForecast{
			Date:      bucket.date,
			TempMin:   bucket.tempMin,
			TempMax:   bucket.tempMax,
			Condition: bucket.conditions.dominant(),
			Icon:      bucket.icons.dominant(),
		})
	}
	return out
}

// dateOf extracts the date portion of a "YYYY-MM-DD HH:MM:SS" timestamp.
func dateOf(dtTxt string) string {
	if i := strings.IndexByte(dtTxt, ' '); i >= 0 {
		return dtTxt[:i]
	}
	return dtTxt
}

// counter tracks label occurrences and the incumbent maximum in one pass.
// The first label to reach the current maximum count wins; later ties do not
// displace it.
type counter struct {
	counts    map[string]int
	best      string
	bestCount int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int), best: missingLabel}
}

func (c *counter) add(label string) {
	c.counts[label]++
	if c.counts[label] > c.bestCount {
		c.best = label
		c.bestCount = c.counts[label]
	}
}

func (c *counter) dominant() string {
	return c.best
}
