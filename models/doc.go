// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the survey record type, the default questionnaire,
and the JSON request/response types of the API.

# Records

A Record is one survey response keyed by field name:

	rec := models.Record{"workload": "4", "grades": 13.5, "remarks-admin": ""}

Values come from an external tabular source, so they may be strings,
numbers, booleans or nil. Three accessors normalize them:

  - Label: stringified value used for Likert frequency counts
  - Float: finite real number used for regression, false on garbage
  - Blank: key present but empty (nil or ""), used for completion stats

# Questionnaire

LikertItems holds the twelve 1-5 items shown on the dashboard and
DemographicFields the remaining form fields. LevelLabels maps levels to
axis labels:

	"1" → Strongly Disagree
	"5" → Strongly Agree

The analysis packages never validate keys against these lists; they are
the default configuration only.

# Response Types

  - SubmitResponseResponse: response_id, message
  - ExportResponse: count, records
  - ErrorResponse: error, message
*/
package models
