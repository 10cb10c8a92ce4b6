package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// portalUpstream serves every backend and directory path the drill-down
// touches.
func portalUpstream(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/auth/teacher/login":
		_, _ = w.Write([]byte(`{"success":true,"teacher":{"teacher_name":"Dr. Rao","assigned_sections":["CSE-A"]}}`))

	case r.URL.Path == "/university/admin/section-analytics/CSE-A":
		_, _ = w.Write([]byte(`{"success":true,"data":{
			"section_metadata":{"section_name":"CSE-A","total_students":1,"total_courses":1},
			"course_performance":[],
			"student_performance":[{"student_id":"stu-1","student_name":"Alice","uni_reg_id":"R1","overall_progress":64}]
		}}`))

	case r.URL.Path == "/lookup":
		_, _ = w.Write([]byte(`{"success":true,"data":{"student_id":"stu-1","uni_reg_id":"R1","batch_id":"b1","student_name":"Alice"}}`))

	case r.URL.Path == "/courses/b1":
		_, _ = w.Write([]byte(`{"success":true,"data":[{"course_id":"c1","course_name":"DSA"}]}`))

	case r.URL.Path == "/university/admin/course-structure/c1":
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"unit_id":"u1","unit_name":"Arrays","sub_units":[{"sub_unit_id":"su1","title":"Quiz 1"}]}
		]}`))

	case r.URL.Path == "/auth/teacher/teacher/analytics/unit-completion":
		_, _ = w.Write([]byte(`{"success":true,"data":{"overall_unit_completion":60}}`))

	case r.URL.Path == "/university/admin/analytics/sub-unit-details":
		_, _ = w.Write([]byte(`{"success":true,"data":{"history_list":[{"attempt":1,"marks_obtained":6,"total_marks":10}]}}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func loggedInApp(t *testing.T) (*fiber.App, *http.Cookie) {
	t.Helper()

	app := newPortalApp(t, http.HandlerFunc(portalUpstream))
	login := postJSON(t, app, "/api/v1/auth/login", map[string]string{"uni_reg_id": "REG-1", "password": "secret"}, nil)
	require.Equal(t, fiber.StatusOK, login.StatusCode)
	return app, sessionCookie(t, login)
}

func TestPortalRequiresSession(t *testing.T) {
	app := newPortalApp(t, http.HandlerFunc(portalUpstream))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/portal/state", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPortalSectionsListsAssignments(t *testing.T) {
	app, cookie := loggedInApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/portal/sections", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "Dr. Rao", data["teacher_name"])
	require.Equal(t, []interface{}{"CSE-A"}, data["assigned_sections"])
}

func TestPortalStateStartsAtSectionList(t *testing.T) {
	app, cookie := loggedInApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/portal/state", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "section_list", data["phase"])
}

func TestPortalSelectSection(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/sections/select", map[string]string{"section_name": "CSE-A"}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "section_detail", data["phase"])

	analytics := data["analytics"].(map[string]interface{})
	students := analytics["student_performance"].([]interface{})
	require.Len(t, students, 1)
}

func TestPortalSelectSectionValidation(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/sections/select", map[string]string{}, cookie)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPortalStudentDrillDown(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/students/select", map[string]string{"uni_reg_id": "R1"}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "course_list", data["phase"])

	student := data["student"].(map[string]interface{})
	require.Equal(t, "stu-1", student["student_id"])

	courses := data["courses"].([]interface{})
	require.Len(t, courses, 1)
}

func TestPortalStudentSelectRequiresIdentifier(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/students/select", map[string]string{"name": "Alice"}, cookie)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPortalCourseSelectionOutsideCourseList(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/courses/select", map[string]string{"course_id": "c1"}, cookie)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPortalUnknownCourseIsNotFound(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/students/select", map[string]string{"uni_reg_id": "R1"}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/portal/courses/select", map[string]string{"course_id": "missing"}, cookie)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPortalResultTypeValidation(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/result-type", map[string]string{"result_type": "essay"}, cookie)
	// Not in a sub-unit view yet, but the value itself is rejected first.
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPortalSortUnknownKey(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/students/sorted", map[string]string{"key": "shoe_size"}, cookie)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPortalSortedStudents(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/sections/select", map[string]string{"section_name": "CSE-A"}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/portal/students/sorted", map[string]string{"key": "student_name"}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	sortCfg := data["sort"].(map[string]interface{})
	require.Equal(t, "student_name", sortCfg["key"])
	require.Equal(t, "asc", sortCfg["direction"])
}

func TestPortalBackFromRootStaysAtRoot(t *testing.T) {
	app, cookie := loggedInApp(t)

	resp := postJSON(t, app, "/api/v1/portal/back", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "section_list", data["phase"])
}
