// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads a .env file when present. Variables already in the
environment are not overridden.

# CLI Flags

	-p            Server port (default 3318)
	-s            Source type: sheet, xlsx, csv, sqlite, postgres, memory (default sheet)
	-u            Source URL, file path or DSN
	-timeout      Fetch timeout (default 15s)
	-x, -y        Regression fields (default workload, grades)
	-ignore       Fields excluded from completion (default remarks-admin,study-tips)
	-test-field   Field marking test rows (default anonymous-id)
	-test-marker  Prefix marking test rows (default test)
	-admin-salt   Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	SOURCE_TYPE     → -s
	SOURCE_URL      → -u (SHEET_API_URL also accepted)
	FETCH_TIMEOUT   → -timeout
	REGRESSION_X    → -x
	REGRESSION_Y    → -y
	IGNORED_FIELDS  → -ignore
	TEST_ROW_FIELD  → -test-field
	TEST_ROW_MARKER → -test-marker
	ADMIN_KEY_SALT  → -admin-salt

CLI flags take precedence over environment variables. Setting
IGNORED_FIELDS or TEST_ROW_MARKER to an empty string disables them.

# Validation

ParseFlags returns an error if required values are missing:

  - a source URL, unless the source type is memory
  - ADMIN_KEY_SALT
*/
package cliparse
