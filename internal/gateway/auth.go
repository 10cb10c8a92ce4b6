package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

type loginRequest struct {
	UniRegID string `json:"uni_reg_id"`
	Password string `json:"password"`
}

// Login authenticates a teacher against the backend service. The teacher
// record may arrive under either the teacher or data key. Rejected
// credentials surface as an AuthError; anything else as a RemoteError.
func (c *Client) Login(ctx context.Context, uniRegID, password string) (models.Teacher, error) {
	env, err := c.call(ctx, "teacher_login", http.MethodPost, c.backend+"/auth/teacher/login", loginRequest{
		UniRegID: uniRegID,
		Password: password,
	})
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && (remote.HTTPStatus == http.StatusUnauthorized ||
			remote.HTTPStatus == http.StatusForbidden ||
			(remote.HTTPStatus >= 200 && remote.HTTPStatus <= 299)) {
			return models.Teacher{}, &AuthError{Message: remote.Message}
		}
		return models.Teacher{}, err
	}

	payload := env.Teacher
	if len(payload) == 0 {
		payload = env.Data
	}

	var teacher models.Teacher
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &teacher); err != nil {
			return models.Teacher{}, &RemoteError{Operation: "teacher_login", HTTPStatus: env.status, Message: "malformed teacher record"}
		}
	}

	return teacher, nil
}
