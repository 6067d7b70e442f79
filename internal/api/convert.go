package api

import "time"

// MillisToTime converts an epoch-milliseconds timestamp to UTC time.
// 1705328200000 -> 2024-01-15T14:16:40Z
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ToBar resolves the provider's single-letter keys into a named bar.
func (b AggBar) ToBar() Bar {
	return Bar{
		Timestamp:    MillisToTime(b.Timestamp),
		Open:         b.Open,
		High:         b.High,
		Low:          b.Low,
		Close:        b.Close,
		Volume:       b.Volume,
		VWAP:         b.VWAP,
		Transactions: b.Transactions,
	}
}

// ConvertBars converts a full result set. Always returns a non-nil slice so
// an empty session serializes as [] rather than null.
func ConvertBars(aggs []AggBar) []Bar {
	bars := make([]Bar, 0, len(aggs))
	for _, a := range aggs {
		bars = append(bars, a.ToBar())
	}
	return bars
}

// TotalVolume sums share volume across a session's bars.
func TotalVolume(aggs []AggBar) float64 {
	var total float64
	for _, a := range aggs {
		total += a.Volume
	}
	return total
}
