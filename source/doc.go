// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package source loads complete batches of survey responses and forwards new
submissions to wherever responses are kept.

# Implementations

  - SheetSource: spreadsheet web API (GET rows as JSON, POST a form row)
  - FileSource: xlsx or csv export of the sheet, read-only
  - SQLSource: survey_response table in Postgres or SQLite
  - MemorySource: in-process batch for tests and demos

Open picks one from a Config:

	src, err := source.Open(ctx, source.Config{Type: source.TypeSheet, URL: url})
	records, err := src.Fetch(ctx)

# Row Format

Each response is a models.Record keyed by field name. Sheet rows keep
their JSON types; file rows are all strings. The aggregation layer
stringifies or parses values itself, so both shapes aggregate the same.
*/
package source
