package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/dto"
	"github.com/campusworks/teacher-portal-api/internal/models"
	"github.com/campusworks/teacher-portal-api/internal/navigation"
	"github.com/campusworks/teacher-portal-api/internal/utils"
)

// PortalHandler exposes the drill-down navigation as HTTP endpoints. Each
// endpoint maps to one transition of the session's navigation machine and
// responds with the resulting view state.
type PortalHandler struct {
	registry *navigation.Registry
	logger   zerolog.Logger
}

// NewPortalHandler constructs a portal handler.
func NewPortalHandler(registry *navigation.Registry, logger zerolog.Logger) *PortalHandler {
	return &PortalHandler{
		registry: registry,
		logger:   logger.With().Str("component", "portal_handler").Logger(),
	}
}

// Register wires portal routes.
func (h *PortalHandler) Register(router fiber.Router) {
	router.Get("/state", h.state)
	router.Get("/sections", h.sections)
	router.Post("/sections/select", h.selectSection)
	router.Post("/students/search", h.search)
	router.Post("/students/select", h.selectStudent)
	router.Post("/students/sorted", h.sortStudents)
	router.Post("/courses/select", h.selectCourse)
	router.Post("/units/expand", h.expandUnit)
	router.Post("/subunits/select", h.selectSubUnit)
	router.Post("/result-type", h.setResultType)
	router.Post("/attempts/select", h.selectAttempt)
	router.Post("/back", h.back)
}

func (h *PortalHandler) machine(c *fiber.Ctx) *navigation.Machine {
	return h.registry.Get(sessionID(c))
}

func (h *PortalHandler) state(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "current view", h.machine(c).Snapshot())
}

func (h *PortalHandler) sections(c *fiber.Ctx) error {
	teacher := currentTeacher(c)
	return utils.SendSuccess(c, "assigned sections", fiber.Map{
		"teacher_name":      teacher.Name,
		"assigned_sections": teacher.AssignedSections,
	})
}

func (h *PortalHandler) selectSection(c *fiber.Ctx) error {
	var payload dto.SelectSectionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "section_name is required")
	}

	state, err := h.machine(c).SelectSection(c.UserContext(), payload.SectionName)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "section selected", state)
}

func (h *PortalHandler) search(c *fiber.Ctx) error {
	var payload dto.SearchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "query is required")
	}

	state, err := h.machine(c).Search(c.UserContext(), payload.Query)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "search completed", state)
}

func (h *PortalHandler) selectStudent(c *fiber.Ctx) error {
	var payload dto.SelectStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	identity := payload.ToIdentity()
	if identity.EffectiveID() == "" && identity.EffectiveRegID() == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "a student identifier is required")
	}

	state, err := h.machine(c).SelectStudent(c.UserContext(), identity)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "student selected", state)
}

func (h *PortalHandler) sortStudents(c *fiber.Ctx) error {
	var payload dto.SortRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "key is required")
	}

	key := utils.SortKey(payload.Key)
	switch key {
	case utils.SortKeyStudentName, utils.SortKeyUniRegID, utils.SortKeyOverallProgress:
	default:
		return utils.SendError(c, fiber.StatusBadRequest, "unknown sort key")
	}

	rows, sort, err := h.machine(c).SortStudents(key)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "students sorted", fiber.Map{
		"students": rows,
		"sort":     sort,
	})
}

func (h *PortalHandler) selectCourse(c *fiber.Ctx) error {
	var payload dto.SelectCourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "course_id is required")
	}

	state, err := h.machine(c).SelectCourse(c.UserContext(), payload.CourseID)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "course selected", state)
}

func (h *PortalHandler) expandUnit(c *fiber.Ctx) error {
	var payload dto.ExpandUnitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unit_id is required")
	}

	state, err := h.machine(c).ExpandUnit(payload.UnitID)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "unit toggled", state)
}

func (h *PortalHandler) selectSubUnit(c *fiber.Ctx) error {
	var payload dto.SelectSubUnitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unit_id and sub_unit_id are required")
	}

	state, err := h.machine(c).SelectSubUnit(c.UserContext(), payload.UnitID, payload.SubUnitID, payload.Title)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "sub-unit selected", state)
}

func (h *PortalHandler) setResultType(c *fiber.Ctx) error {
	var payload dto.ResultTypeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "result_type is required")
	}

	state, err := h.machine(c).SetResultType(c.UserContext(), models.ResultType(payload.ResultType))
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "result type switched", state)
}

func (h *PortalHandler) selectAttempt(c *fiber.Ctx) error {
	var payload dto.SelectAttemptRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "attempt must be a positive number")
	}

	state, err := h.machine(c).SelectAttempt(c.UserContext(), payload.Attempt)
	if err != nil {
		return h.transitionError(c, err)
	}

	return utils.SendSuccess(c, "attempt selected", state)
}

func (h *PortalHandler) back(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "navigated back", h.machine(c).Back())
}

func (h *PortalHandler) transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, navigation.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, navigation.ErrUnknownCourse), errors.Is(err, navigation.ErrUnknownUnit):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, navigation.ErrInvalidResultType):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("portal transition failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "portal transition failed")
	}
}
