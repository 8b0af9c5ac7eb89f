package stats

// Bands lists the score bands in display order.
var Bands = []Band{BandExcellent, BandGood, BandFair, BandPoor}

var bandColors = map[Band]string{
	BandExcellent: "#10b981",
	BandGood:      "#3b82f6",
	BandFair:      "#f59e0b",
	BandPoor:      "#ef4444",
}

// DistributionSlice is one segment of the performance distribution chart.
type DistributionSlice struct {
	Band       Band    `json:"band"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// BuildDistribution turns the band counts of s into chart slices. Empty bands
// are omitted.
func BuildDistribution(s Summary, locale Locale) []DistributionSlice {
	out := make([]DistributionSlice, 0, len(Bands))
	for _, b := range Bands {
		count := s.BandCount(b)
		if count == 0 {
			continue
		}
		out = append(out, DistributionSlice{
			Band:       b,
			Label:      locale.BandLabels[b],
			Count:      count,
			Percentage: float64(count) / float64(s.TotalAttempts) * 100,
			Color:      bandColors[b],
		})
	}
	return out
}
