package gateway

import (
	"context"
	"net/http"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

type lookupRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// LookupStudents searches the student directory by registration id fragment.
// The upstream returns either a single object or a list under data; callers
// always receive a list. An empty list is a miss, not an error.
func (c *Client) LookupStudents(ctx context.Context, value string) ([]models.Identity, error) {
	env, err := c.call(ctx, "student_lookup", http.MethodPost, c.student+"/lookup", lookupRequest{
		Type:  "uni_reg_id",
		Value: value,
	})
	if err != nil {
		return nil, err
	}

	var matches []models.Identity
	if err := decodeList(env.payload(), &matches); err != nil {
		return nil, &RemoteError{Operation: "student_lookup", HTTPStatus: env.status, Message: "malformed lookup result"}
	}

	return matches, nil
}
