package gateway

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// UnitCompletionRequest identifies one unit of one course for one student.
type UnitCompletionRequest struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	UnitID    string `json:"unit_id"`
}

// UnitCompletion fetches the completion percentage for a single unit. The
// value arrives under overall_unit_completion or completion_percentage, as a
// number or a string; it is coerced to an integer in [0,100]. A value that
// cannot be parsed logs and defaults to 0 rather than failing the call.
func (c *Client) UnitCompletion(ctx context.Context, req UnitCompletionRequest) (int, error) {
	env, err := c.call(ctx, "unit_completion", http.MethodPost, c.backend+"/auth/teacher/teacher/analytics/unit-completion", req)
	if err != nil {
		return 0, err
	}

	var fields map[string]json.RawMessage
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &fields); err != nil {
			c.logger.Warn().Str("unit_id", req.UnitID).Msg("unparseable unit completion payload")
			return 0, nil
		}
	}

	raw, ok := fields["overall_unit_completion"]
	if !ok {
		raw, ok = fields["completion_percentage"]
	}
	if !ok {
		c.logger.Warn().Str("unit_id", req.UnitID).Msg("unit completion value missing")
		return 0, nil
	}

	value, parsed := coerceCompletion(raw)
	if !parsed {
		c.logger.Warn().Str("unit_id", req.UnitID).RawJSON("value", raw).Msg("malformed unit completion value")
		return 0, nil
	}

	return value, nil
}

// coerceCompletion turns a number or numeric string into an integer clamped
// to [0,100].
func coerceCompletion(raw json.RawMessage) (int, bool) {
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return clampPercentage(number), true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, false
	}

	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}

	return clampPercentage(parsed), true
}

func clampPercentage(value float64) int {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return int(math.Round(value))
}
