// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report assembles the full dashboard for one batch of survey
responses.

	rep, err := report.Assemble(ctx, records, report.DefaultConfig(), own)

Assemble drops test rows, counts every configured Likert item, computes
completion and reliability, and fits each regression pair concurrently.
Every call recomputes everything from the batch it is given; nothing is
cached between calls.

A regression that cannot be fitted is not an error. Its RegressionReport
carries StatusInsufficientData or StatusDegenerateInput and a message
suitable for display in place of the chart.
*/
package report
