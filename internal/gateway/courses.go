package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

// CoursesByBatch lists the courses a batch is enrolled in. The directory
// answers either `{data: [Course]}` or a bare array.
func (c *Client) CoursesByBatch(ctx context.Context, batchID string) ([]models.Course, error) {
	endpoint := c.student + "/courses/" + url.PathEscape(batchID)

	env, err := c.call(ctx, "courses_by_batch", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := decodeList(env.payload(), &courses); err != nil {
		return nil, &RemoteError{Operation: "courses_by_batch", HTTPStatus: env.status, Message: "malformed course list"}
	}

	return courses, nil
}

// CourseStructure fetches the ordered unit/sub-unit tree of a course. The
// raw list may contain structurally-duplicated units; deduplication is the
// aggregation engine's job, not the gateway's.
func (c *Client) CourseStructure(ctx context.Context, courseID string) ([]models.Unit, error) {
	endpoint := c.backend + "/university/admin/course-structure/" + url.PathEscape(courseID)

	env, err := c.call(ctx, "course_structure", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var units []models.Unit
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &units); err != nil {
			return nil, &RemoteError{Operation: "course_structure", HTTPStatus: env.status, Message: "malformed course structure"}
		}
	}

	return units, nil
}
