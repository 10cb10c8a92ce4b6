package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

// SubUnitRequest identifies one sub-unit attempt query.
type SubUnitRequest struct {
	StudentID  string            `json:"student_id"`
	CourseID   string            `json:"course_id"`
	UnitID     string            `json:"unit_id"`
	SubUnitID  string            `json:"sub_unit_id"`
	ResultType models.ResultType `json:"result_type"`
	Attempt    int               `json:"attempt"`
}

// SubUnitResult is the normalized answer of the sub-unit details endpoint,
// which serves both attempt history and full attempt detail depending on
// what the upstream has recorded.
type SubUnitResult struct {
	History []models.AttemptSummary
	Detail  *models.AttemptDetail
}

// historyRowWire tolerates the field aliases history rows arrive under.
type historyRowWire struct {
	Attempt       int      `json:"attempt"`
	AttemptCount  int      `json:"attempt_count"`
	MarksObtained *float64 `json:"marks_obtained"`
	Score         *float64 `json:"score"`
	TotalMarks    float64  `json:"total_marks"`
}

// SubUnitResult fetches attempt history or detail for one sub-unit and
// result type. Three upstream shapes are accepted: a single detail object
// (overview present), an object carrying history_list, or a bare array of
// history rows. A single detail is also folded into a one-row history so
// the caller can render it either way.
func (c *Client) SubUnitResult(ctx context.Context, req SubUnitRequest) (SubUnitResult, error) {
	if req.Attempt <= 0 {
		req.Attempt = 1
	}

	env, err := c.call(ctx, "sub_unit_details", http.MethodPost, c.backend+"/university/admin/analytics/sub-unit-details", req)
	if err != nil {
		return SubUnitResult{}, err
	}

	payload := bytes.TrimSpace(env.payload())
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return SubUnitResult{}, nil
	}

	if payload[0] == '[' {
		var rows []historyRowWire
		if err := json.Unmarshal(payload, &rows); err != nil {
			return SubUnitResult{}, &RemoteError{Operation: "sub_unit_details", HTTPStatus: env.status, Message: "malformed history list"}
		}
		return SubUnitResult{History: normalizeHistory(rows)}, nil
	}

	var probe struct {
		Overview    *models.AttemptOverview `json:"overview"`
		HistoryList []historyRowWire        `json:"history_list"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return SubUnitResult{}, &RemoteError{Operation: "sub_unit_details", HTTPStatus: env.status, Message: "malformed sub-unit payload"}
	}

	if probe.Overview != nil {
		var detail models.AttemptDetail
		if err := json.Unmarshal(payload, &detail); err != nil {
			return SubUnitResult{}, &RemoteError{Operation: "sub_unit_details", HTTPStatus: env.status, Message: "malformed attempt detail"}
		}
		c.sanitizeDetail(&detail)

		attempt := detail.Overview.AttemptNumber
		if attempt <= 0 {
			attempt = 1
		}

		summary := models.AttemptSummary{
			Attempt:       attempt,
			MarksObtained: detail.Overview.TotalScore,
			TotalMarks:    detail.Overview.MaxScore,
			RawDetail:     &detail,
		}
		return SubUnitResult{History: []models.AttemptSummary{summary}, Detail: &detail}, nil
	}

	return SubUnitResult{History: normalizeHistory(probe.HistoryList)}, nil
}

func normalizeHistory(rows []historyRowWire) []models.AttemptSummary {
	history := make([]models.AttemptSummary, 0, len(rows))
	for _, row := range rows {
		attempt := row.Attempt
		if attempt <= 0 {
			attempt = row.AttemptCount
		}
		if attempt <= 0 {
			attempt = 1
		}

		var marks float64
		switch {
		case row.MarksObtained != nil:
			marks = *row.MarksObtained
		case row.Score != nil:
			marks = *row.Score
		}

		history = append(history, models.AttemptSummary{
			Attempt:       attempt,
			MarksObtained: marks,
			TotalMarks:    row.TotalMarks,
		})
	}
	return history
}

// sanitizeDetail strips any markup from question text before it enters
// navigation state.
func (c *Client) sanitizeDetail(detail *models.AttemptDetail) {
	for i := range detail.Submissions {
		detail.Submissions[i].QuestionTitle = c.sanitize.Sanitize(detail.Submissions[i].QuestionTitle)
		detail.Submissions[i].QuestionDesc = c.sanitize.Sanitize(detail.Submissions[i].QuestionDesc)
	}
}
