// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate turns a batch of survey records into the descriptive
tables behind the dashboard charts.

# Frequency Tables

	table := aggregate.ComputeFrequencyTable(records, "workload", aggregate.DefaultLevels)

Each record's value is stringified (models.Record.Label) and matched
against the levels. Every level is present in the output, defaulting to
0; values outside the scale are skipped silently. Total is the number of
records seen, Counted the number that matched, so Counted <= Total.

# Completion

	stats := aggregate.ComputeCompletionStats(records, []models.FieldKey{"remarks-admin"})

A record is complete when every key it carries, except the ignored ones,
is non-empty. Only keys present on the record are checked.

# Other Helpers

  - FilterRecords: drops test submissions by a marker prefix
  - Summarize: mean, median, sample std dev, min, max of a numeric field
  - CronbachAlpha: internal consistency of a Likert block
*/
package aggregate
