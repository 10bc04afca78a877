// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the optional SQL response store and creates its schema.

# Connecting

	conn, err := db.Open(ctx, db.DriverSQLite, "responses.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Postgres uses github.com/lib/pq, SQLite uses the pure-Go modernc.org/sqlite
driver, so no cgo toolchain is needed.

# Tables

  - survey_response: one row per submitted questionnaire

The payload column holds the submitted fields as a JSON object. Keeping
the answers schemaless lets the questionnaire change without a migration;
the aggregation layer only ever reads whole batches.

Safe to call CreateSchema multiple times - uses IF NOT EXISTS for the
table and its index.
*/
package db
