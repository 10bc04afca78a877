// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the survey results API server.

The server collects questionnaire responses about evaluation practices and
serves the results dashboard: a bar chart per Likert item, completion
counts, and a linear regression with its significance test. Every request
recomputes the statistics from the complete current batch of responses.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SHEET_API_URL=https://... ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -s csv -u responses.csv -admin-salt secret

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - SOURCE_URL / SHEET_API_URL (-u): where responses live (not needed for -s memory)
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - SOURCE_TYPE (-s): sheet, xlsx, csv, sqlite, postgres or memory (default: sheet)

See package cliparse for the analysis settings.

# Architecture

  - stats: least squares fit, Student-t p-value, special functions
  - aggregate: frequency tables, completion, summaries, reliability
  - report: assembles the dashboard payload
  - source: sheet API, xlsx/csv files, SQL and in-memory response stores
  - handlers: HTTP request handlers (results, responses)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request ids, metrics, JSON helpers
  - models: records, questionnaire schema, response types
  - auth: Admin keys and IP hashing
  - db: SQL connection and schema creation
  - cliparse: Configuration parsing

The surveyctl command under cmd/ runs the same computations offline.
*/
package main
