package models

import "time"

// AnalysisRecord is one completed analysis in the scan history.
type AnalysisRecord struct {
	ID              string
	Source          string
	OCRProvider     string
	OCRText         string
	Confidence      float64
	TotalScore      float64
	RatingLabel     string
	CatalogDegraded bool
	LatencyMS       int
	CreatedAt       time.Time
	Materials       []AnalysisMaterial
}

// AnalysisMaterial is one breakdown row of an analysis.
type AnalysisMaterial struct {
	AnalysisID string
	MaterialID string
	Name       string
	Percentage float64
	Score      float64
}

// Feedback is a user's accuracy judgement of a past analysis.
type Feedback struct {
	ID         int
	AnalysisID string
	Accurate   bool
	Comment    string
	CreatedAt  time.Time
}
