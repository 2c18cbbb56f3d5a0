// File: internal/histdata/loader.go
// ============================================
package histdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gatiella/alpha-core/pkg/types"
)

// knownHeaders lists the column names the loader recognizes for
// header-detection fallback; a first row not matching any of these is
// treated as data, not a header, adapted from the teacher's klines
// response parsing (internal/binance/client.go's GetKlines) extended to
// the CSV domain named in spec.md §6.
var knownHeaders = map[string]bool{
	"timestamp": true, "time": true, "date": true, "datetime": true,
	"open": true, "high": true, "low": true, "close": true, "volume": true,
}

// Load reads a UTC-indexed OHLCV CSV file for the given symbol/timeframe,
// reindexes gaps to the timeframe grid, and rejects the file outright
// when the repaired fraction exceeds cfg.GapRepairMaxPerc (spec.md §6).
func Load(r io.Reader, symbol string, tf types.Timeframe, cfg types.HistDataConfig) ([]types.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("histdata: read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("histdata: empty file")
	}

	if looksLikeHeader(rows[0]) {
		rows = rows[1:]
	}

	raw, err := parseRows(rows, symbol, tf)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("histdata: no usable rows")
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Timestamp.Before(raw[j].Timestamp) })

	bars, gapFraction := reindex(raw, tf)
	maxPerc := cfg.GapRepairMaxPerc
	if maxPerc <= 0 {
		maxPerc = 0.5
	}
	if gapFraction > maxPerc {
		return nil, fmt.Errorf("histdata: gap fraction %.3f exceeds gap_repair_max_perc %.3f", gapFraction, maxPerc)
	}
	return bars, nil
}

func looksLikeHeader(row []string) bool {
	for _, cell := range row {
		if knownHeaders[strings.ToLower(strings.TrimSpace(cell))] {
			return true
		}
	}
	// A header row never parses its first cell as a timestamp or a float.
	if len(row) == 0 {
		return false
	}
	if _, err := parseTimestamp(row[0]); err == nil {
		return false
	}
	return true
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if millis > 1_000_000_000_000 {
			return time.UnixMilli(millis).UTC(), nil
		}
		return time.Unix(millis, 0).UTC(), nil
	}
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("histdata: unrecognized timestamp %q", raw)
}

// parseRows converts CSV rows into candidate bars, applying the §6
// repair rules per row: missing open filled from previous close, high =
// max(high,open,close), low = min(low,open,close), volume NaN -> 0.
func parseRows(rows [][]string, symbol string, tf types.Timeframe) ([]types.Bar, error) {
	bars := make([]types.Bar, 0, len(rows))
	prevClose := math.NaN()

	for i, row := range rows {
		if len(row) < 5 {
			continue
		}
		ts, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("histdata: row %d: %w", i, err)
		}

		open := parseFloatOrNaN(row[1])
		high := parseFloatOrNaN(row[2])
		low := parseFloatOrNaN(row[3])
		closeP := parseFloatOrNaN(row[4])
		volume := 0.0
		if len(row) > 5 {
			volume = parseFloatOrNaN(row[5])
		}
		if math.IsNaN(volume) {
			volume = 0
		}

		if math.IsNaN(open) {
			if math.IsNaN(prevClose) {
				continue // no prior close to fill from, row unusable
			}
			open = prevClose
		}
		if math.IsNaN(closeP) {
			closeP = open
		}
		if math.IsNaN(high) {
			high = math.Max(open, closeP)
		} else {
			high = math.Max(high, math.Max(open, closeP))
		}
		if math.IsNaN(low) {
			low = math.Min(open, closeP)
		} else {
			low = math.Min(low, math.Min(open, closeP))
		}

		prevClose = closeP
		bars = append(bars, types.Bar{
			Symbol: symbol, Timeframe: tf, Timestamp: ts,
			Open: open, High: high, Low: low, Close: closeP, Volume: volume,
		})
	}
	return bars, nil
}

func parseFloatOrNaN(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// reindex fills in any missing grid steps between consecutive bars by
// synthesizing flat bars at the previous close, and reports the
// fraction of the final series that was synthesized this way.
func reindex(raw []types.Bar, tf types.Timeframe) ([]types.Bar, float64) {
	step := tf.Duration()
	if step <= 0 || len(raw) < 2 {
		return raw, 0
	}

	out := make([]types.Bar, 0, len(raw))
	out = append(out, raw[0])
	synthesized := 0

	for i := 1; i < len(raw); i++ {
		prev := out[len(out)-1]
		next := raw[i]
		for cursor := prev.Timestamp.Add(step); cursor.Before(next.Timestamp); cursor = cursor.Add(step) {
			out = append(out, types.Bar{
				Symbol: next.Symbol, Timeframe: tf, Timestamp: cursor,
				Open: prev.Close, High: prev.Close, Low: prev.Close, Close: prev.Close, Volume: 0,
			})
			synthesized++
		}
		out = append(out, next)
	}

	if len(out) == 0 {
		return out, 0
	}
	return out, float64(synthesized) / float64(len(out))
}
