// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Field keys of the intake form
const (
	FieldAnonymousID       FieldKey = "anonymous-id"
	FieldAge               FieldKey = "age"
	FieldGrades            FieldKey = "grades"
	FieldGender            FieldKey = "gender"
	FieldEconomicSituation FieldKey = "economic-situation"
	FieldScholarship       FieldKey = "scholarship"
	FieldHousingSituation  FieldKey = "housing-situation"
	FieldClassYear         FieldKey = "class-year"
	FieldStudyField        FieldKey = "study-field"
	FieldRemarksAdmin      FieldKey = "remarks-admin"
	FieldStudyTips         FieldKey = "study-tips"
	FieldWorkload          FieldKey = "workload"
)

// Item is a Likert question shown on the results dashboard
type Item struct {
	Key   FieldKey `json:"key"`
	Title string   `json:"title"`
}

// LikertItems is the default questionnaire block aggregated by the dashboard
var LikertItems = []Item{
	{Key: "clear-instructions", Title: "Clear instructions before evaluating"},
	{Key: "grading-scale", Title: "Teacher provides a grading scale"},
	{Key: "eval-content", Title: "Evaluated purely on course content"},
	{Key: "resources", Title: "Additional resources to dig further"},
	{Key: "practice", Title: "Practicing what was taught"},
	{Key: "limit-time", Title: "Produce assignments in limited time"},
	{Key: "feedback", Title: "Personal feedback and annotations"},
	{Key: "explanation", Title: "Explanations provided after assignment"},
	{Key: "correction", Title: "Asked to correct mistakes after evaluation"},
	{Key: "interaction", Title: "Interact with other students"},
	{Key: "group-work", Title: "Work in groups"},
	{Key: FieldWorkload, Title: "My ability to produce quality work is hindered by my workload."},
}

// DemographicFields lists the non-Likert fields collected by the form
var DemographicFields = []FieldKey{
	FieldAnonymousID,
	FieldAge,
	FieldGrades,
	FieldGender,
	FieldEconomicSituation,
	FieldScholarship,
	FieldHousingSituation,
	FieldClassYear,
	FieldStudyField,
	FieldRemarksAdmin,
	FieldStudyTips,
}

// LevelLabels maps Likert levels to their axis labels
var LevelLabels = map[string]string{
	"1": "Strongly Disagree",
	"2": "Disagree",
	"3": "Neutral",
	"4": "Agree",
	"5": "Strongly Agree",
}

// FindItem looks up a Likert item by key
func FindItem(key FieldKey) (Item, bool) {
	for _, item := range LikertItems {
		if item.Key == key {
			return item, true
		}
	}
	return Item{}, false
}

// Response types

type SubmitResponseResponse struct {
	ResponseID string `json:"response_id"`
	Message    string `json:"message"`
}

type CompletionResponse struct {
	Total    int     `json:"total"`
	Complete int     `json:"complete"`
	Rate     float64 `json:"rate"`
	Text     string  `json:"text"`
}

type ExportResponse struct {
	Count   int      `json:"count"`
	Records []Record `json:"records"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
