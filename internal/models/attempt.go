package models

import "encoding/json"

// ResultType distinguishes multiple-choice from coding assessments for the
// same sub-unit.
type ResultType string

const (
	ResultTypeMCQ    ResultType = "mcq"
	ResultTypeCoding ResultType = "coding"
)

// Valid reports whether the value is one of the two supported result types.
func (t ResultType) Valid() bool {
	return t == ResultTypeMCQ || t == ResultTypeCoding
}

// AttemptSummary is one row of a sub-unit attempt history.
type AttemptSummary struct {
	Attempt       int            `json:"attempt"`
	MarksObtained float64        `json:"marks_obtained"`
	TotalMarks    float64        `json:"total_marks"`
	RawDetail     *AttemptDetail `json:"raw_detail,omitempty"`
}

// AttemptOverview carries the headline figures of one attempt.
type AttemptOverview struct {
	AttemptNumber     int     `json:"attempt_number"`
	TotalScore        float64 `json:"total_score"`
	MaxScore          float64 `json:"max_score"`
	Status            string  `json:"status"`
	DurationFormatted string  `json:"duration_formatted"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
}

// CompletionStats breaks an attempt down by question coverage.
type CompletionStats struct {
	TotalMCQ                     int     `json:"total_mcq"`
	TotalCoding                  int     `json:"total_coding"`
	TotalMCQShow                 int     `json:"total_mcq_show"`
	TotalCodingShow              int     `json:"total_coding_show"`
	UserSubmittedCount           int     `json:"user_submitted_count"`
	QuestionCompletionPercentage float64 `json:"question_completion_percentage"`
}

// ProctoringMetrics carries the proctoring signals recorded for an attempt.
type ProctoringMetrics struct {
	FaceWarnings       int    `json:"face_warnings"`
	FocusLostCount     int    `json:"focus_lost_count"`
	TabSwitches        int    `json:"tab_switches"`
	BlockedSeconds     int    `json:"blocked_seconds"`
	NetworkHealth      string `json:"network_health"`
	NetworkDisconnects int    `json:"network_disconnects"`
}

// Option is one answer choice of a multiple-choice question.
type Option struct {
	Option   string `json:"option"`
	IsAnswer bool   `json:"isAnswer"`
}

// Submission is one answered question within an attempt.
type Submission struct {
	QuestionTitle        string   `json:"question_title,omitempty"`
	QuestionDesc         string   `json:"question_desc"`
	InputFormat          string   `json:"input_format,omitempty"`
	OutputFormat         string   `json:"output_format,omitempty"`
	Options              []Option `json:"options,omitempty"`
	SubmittedAnswerIndex *int     `json:"submitted_answer_index,omitempty"`
	SubmittedAnswerText  string   `json:"submitted_answer_text,omitempty"`
	SubmittedCode        string   `json:"submitted_code,omitempty"`
	Language             string   `json:"language,omitempty"`
	ScoreObtained        float64  `json:"score_obtained"`
	MaxScore             float64  `json:"max_score"`
}

// AttemptDetail is the full telemetry of one attempt. The optional blocks
// are absent when the upstream did not record them.
type AttemptDetail struct {
	Overview          AttemptOverview    `json:"overview"`
	CompletionStats   *CompletionStats   `json:"completion_stats,omitempty"`
	ProctoringMetrics *ProctoringMetrics `json:"proctoring_metrics,omitempty"`
	DebugConfigs      json.RawMessage    `json:"debug_configs,omitempty"`
	Submissions       []Submission       `json:"submissions"`
}
