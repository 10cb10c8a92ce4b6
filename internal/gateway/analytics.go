package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

// SectionAnalytics fetches the full analytics payload for one section. The
// section name is an opaque identifier and is URI-encoded into the path.
func (c *Client) SectionAnalytics(ctx context.Context, sectionName string) (models.SectionAnalytics, error) {
	endpoint := c.backend + "/university/admin/section-analytics/" + url.PathEscape(sectionName)

	env, err := c.call(ctx, "section_analytics", http.MethodGet, endpoint, nil)
	if err != nil {
		return models.SectionAnalytics{}, err
	}

	var analytics models.SectionAnalytics
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &analytics); err != nil {
			return models.SectionAnalytics{}, &RemoteError{Operation: "section_analytics", HTTPStatus: env.status, Message: "malformed analytics payload"}
		}
	}

	return analytics, nil
}
