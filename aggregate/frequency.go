// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import "github.com/lucile40lpy/waspp-cpes/models"

// Levels is the ordered set of labels a Likert item is counted against
type Levels []string

// DefaultLevels is the 1-5 Likert scale
var DefaultLevels = Levels{"1", "2", "3", "4", "5"}

// Index returns the position of label in the scale, or -1
func (l Levels) Index(label string) int {
	for i, level := range l {
		if level == label {
			return i
		}
	}
	return -1
}

// LevelCount is the number of records answering one level
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// FrequencyTable counts the answers of one item over a batch.
// Counts follows the order of the Levels it was built from.
type FrequencyTable struct {
	Key     models.FieldKey `json:"key"`
	Counts  []LevelCount    `json:"counts"`
	Total   int             `json:"total"`   // records seen
	Counted int             `json:"counted"` // records whose value matched a level
}

// Count returns the count for level, 0 when the level is unknown
func (f FrequencyTable) Count(level string) int {
	for _, c := range f.Counts {
		if c.Level == level {
			return c.Count
		}
	}
	return 0
}

// Max returns the largest level count
func (f FrequencyTable) Max() int {
	largest := 0
	for _, c := range f.Counts {
		if c.Count > largest {
			largest = c.Count
		}
	}
	return largest
}

// ComputeFrequencyTable counts, for every level, the records whose value
// under key stringifies to that level. Records with a missing or
// unmatched value are skipped for this key but still counted in Total.
func ComputeFrequencyTable(records []models.Record, key models.FieldKey, levels Levels) FrequencyTable {
	if len(levels) == 0 {
		levels = DefaultLevels
	}

	table := FrequencyTable{
		Key:    key,
		Counts: make([]LevelCount, len(levels)),
		Total:  len(records),
	}
	for i, level := range levels {
		table.Counts[i] = LevelCount{Level: level}
	}

	for _, rec := range records {
		label, ok := rec.Label(key)
		if !ok {
			continue
		}
		idx := levels.Index(label)
		if idx < 0 {
			continue
		}
		table.Counts[idx].Count++
		table.Counted++
	}

	return table
}
