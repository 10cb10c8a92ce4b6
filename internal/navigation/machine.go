package navigation

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/gateway"
	"github.com/campusworks/teacher-portal-api/internal/models"
	"github.com/campusworks/teacher-portal-api/internal/service"
	"github.com/campusworks/teacher-portal-api/internal/utils"
)

// Transition errors returned when an action is not available at the current
// depth.
var (
	ErrInvalidTransition = errors.New("action not available in the current view")
	ErrUnknownCourse     = errors.New("course not present in the current course list")
	ErrUnknownUnit       = errors.New("unit not present in the current course structure")
	ErrInvalidResultType = errors.New("result type must be mcq or coding")
)

// Gateway is the slice of the remote data gateway the machine drives.
type Gateway interface {
	SectionAnalytics(ctx context.Context, sectionName string) (models.SectionAnalytics, error)
	LookupStudents(ctx context.Context, value string) ([]models.Identity, error)
	CoursesByBatch(ctx context.Context, batchID string) ([]models.Course, error)
	CourseStructure(ctx context.Context, courseID string) ([]models.Unit, error)
	SubUnitResult(ctx context.Context, req gateway.SubUnitRequest) (gateway.SubUnitResult, error)
}

// Machine owns the navigation state tree of one teacher session and
// orchestrates the fetches each transition requires. All mutation happens
// inside transition methods under the machine's lock.
//
// Cancellation is scoped per navigation node: entering a new node bumps the
// epoch and cancels the previous node's fetch context, so a response that
// settles after the user has navigated away is discarded (last navigation
// wins). Transitions within the deep dive (sub-unit, result type, attempt)
// stay on the same node and leave its completion fan-out running.
type Machine struct {
	mu       sync.Mutex
	gw       Gateway
	progress service.ProgressService
	logger   zerolog.Logger

	state  State
	epoch  uint64
	cancel context.CancelFunc
}

// NewMachine builds a machine positioned at the section list root.
func NewMachine(gw Gateway, progress service.ProgressService, logger zerolog.Logger) *Machine {
	return &Machine{
		gw:       gw,
		progress: progress,
		logger:   logger.With().Str("component", "navigation").Logger(),
		state: State{
			Phase:      PhaseSectionList,
			Sort:       utils.DefaultSortConfig(),
			ResultType: models.ResultTypeMCQ,
		},
	}
}

// Snapshot returns a copy of the current state for rendering.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Close cancels any in-flight fetches. Called when the owning session ends.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeNodeLocked()
}

// closeNodeLocked invalidates the active navigation node: its in-flight
// fetches are cancelled and late results fail the epoch check. Callers must
// hold the lock.
func (m *Machine) closeNodeLocked() {
	m.epoch++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// beginNavigation starts a new navigation node: the previous node's fetches
// are cancelled and a fresh context, detached from the caller's request
// lifetime, is opened for this node. Callers must hold the lock.
func (m *Machine) beginNavigation(parent context.Context) (context.Context, uint64) {
	m.closeNodeLocked()

	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	m.cancel = cancel
	return ctx, m.epoch
}

// SelectSection enters the section detail view, fetching analytics fresh.
// A failed fetch leaves the view with an empty result set.
func (m *Machine) SelectSection(ctx context.Context, sectionName string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nctx, _ := m.beginNavigation(ctx)

	analytics, err := m.gw.SectionAnalytics(nctx, sectionName)

	m.state = State{
		Phase:       PhaseSectionDetail,
		SectionName: sectionName,
		Sort:        utils.DefaultSortConfig(),
		ResultType:  models.ResultTypeMCQ,
	}
	if err != nil {
		m.logger.Warn().Err(err).Str("section", sectionName).Msg("section analytics fetch failed")
		m.state.LoadFailed = true
	} else {
		m.state.Analytics = &analytics
	}

	return m.state.clone(), nil
}

// Search runs a student lookup from the root and lists the matches.
func (m *Machine) Search(ctx context.Context, query string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nctx, _ := m.beginNavigation(ctx)

	matches, err := m.gw.LookupStudents(nctx, query)

	m.state = State{
		Phase:       PhaseStudentSearch,
		SearchQuery: query,
		Sort:        utils.DefaultSortConfig(),
		ResultType:  models.ResultTypeMCQ,
	}
	if err != nil {
		m.logger.Warn().Err(err).Msg("student lookup failed")
		m.state.LoadFailed = true
	} else {
		m.state.SearchResults = matches
	}

	return m.state.clone(), nil
}

// SelectStudent enters the student detail course list, carrying the partial
// identity supplied by the originating view. When the carried identity
// lacks a stable id or a batch reference it is reconciled through a lookup;
// the looked-up fields win wherever both are present. A lookup miss
// degrades to the partial identity and, without a batch, an empty course
// list.
func (m *Machine) SelectStudent(ctx context.Context, carried models.Identity) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	returnTo := PhaseSectionList
	if m.state.Phase == PhaseSectionDetail || m.state.Phase == PhaseStudentSearch {
		returnTo = m.state.Phase
	}

	nctx, _ := m.beginNavigation(ctx)

	student := carried
	if student.NeedsLookup() {
		matches, err := m.gw.LookupStudents(nctx, student.EffectiveRegID())
		switch {
		case err != nil:
			m.logger.Warn().Err(err).Str("reg_id", student.EffectiveRegID()).Msg("identity reconciliation failed")
		case len(matches) > 0:
			student = student.Merge(matches[0])
		default:
			m.logger.Debug().Str("reg_id", student.EffectiveRegID()).Msg("identity lookup returned no match")
		}
	}

	var (
		courses    []models.Course
		loadFailed bool
	)
	if batch := student.EffectiveBatch(); batch != "" {
		fetched, err := m.gw.CoursesByBatch(nctx, batch)
		if err != nil {
			m.logger.Warn().Err(err).Str("batch", batch).Msg("course list fetch failed")
			loadFailed = true
		} else {
			courses = fetched
		}
	}

	m.state.Phase = PhaseCourseList
	m.state.LoadFailed = loadFailed
	m.state.returnTo = returnTo
	m.state.Student = &student
	m.state.Courses = courses
	m.clearDeepDiveLocked()

	return m.state.clone(), nil
}

// SelectCourse enters the deep dive for one of the listed courses. The
// deduplicated structure is available immediately; completion percentages
// fill in asynchronously as the aggregation engine's fan-out settles.
func (m *Machine) SelectCourse(ctx context.Context, courseID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseCourseList && m.state.Phase != PhaseCourseDeepDive {
		return State{}, ErrInvalidTransition
	}

	var course *models.Course
	for i := range m.state.Courses {
		if m.state.Courses[i].CourseID == courseID {
			selected := m.state.Courses[i]
			course = &selected
			break
		}
	}
	if course == nil {
		return State{}, ErrUnknownCourse
	}

	nctx, epoch := m.beginNavigation(ctx)

	units, err := m.gw.CourseStructure(nctx, courseID)

	m.state.Phase = PhaseCourseDeepDive
	m.state.LoadFailed = false
	m.state.Course = course
	m.state.Structure = nil
	m.state.Completions = map[string]int{}
	m.state.CourseProgress = 0
	m.state.ExpandedUnit = ""
	m.state.SubUnit = nil
	m.state.History = nil
	m.state.InspectedAttempt = 0
	m.state.Attempt = nil
	m.state.ResultType = models.ResultTypeMCQ

	if err != nil {
		m.logger.Warn().Err(err).Str("course_id", courseID).Msg("course structure fetch failed")
		m.state.LoadFailed = true
		return m.state.clone(), nil
	}

	structure := m.progress.DedupeUnits(units)
	m.state.Structure = structure

	if len(structure) > 0 && m.state.Student != nil {
		student := *m.state.Student
		go m.aggregate(nctx, epoch, student, courseID, structure)
	}

	return m.state.clone(), nil
}

// aggregate runs the completion fan-out for one deep dive node, applying
// per-unit percentages and the final course progress only while that node
// is still the active one.
func (m *Machine) aggregate(ctx context.Context, epoch uint64, student models.Identity, courseID string, units []models.Unit) {
	_, progress := m.progress.CourseProgress(ctx, student, courseID, units, func(unitID string, percentage int) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.epoch != epoch || m.state.Completions == nil {
			return
		}
		m.state.Completions[unitID] = percentage
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	m.state.CourseProgress = progress
}

// ExpandUnit toggles the single expanded unit accordion of the deep dive.
func (m *Machine) ExpandUnit(unitID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseCourseDeepDive {
		return State{}, ErrInvalidTransition
	}

	known := false
	for _, unit := range m.state.Structure {
		if unit.UnitID == unitID {
			known = true
			break
		}
	}
	if !known {
		return State{}, ErrUnknownUnit
	}

	if m.state.ExpandedUnit == unitID {
		m.state.ExpandedUnit = ""
	} else {
		m.state.ExpandedUnit = unitID
	}

	return m.state.clone(), nil
}

// SelectSubUnit opens the attempt history for a sub-unit. The result type
// always resets to mcq and the history is fetched fresh; nothing is reused
// across sub-units.
func (m *Machine) SelectSubUnit(ctx context.Context, unitID, subUnitID, title string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseCourseDeepDive || m.state.Course == nil || m.state.Student == nil {
		return State{}, ErrInvalidTransition
	}

	m.state.SubUnit = &InspectedSubUnit{UnitID: unitID, SubUnitID: subUnitID, Title: title}
	m.state.ResultType = models.ResultTypeMCQ
	m.state.InspectedAttempt = 0
	m.state.Attempt = nil

	return m.fetchHistoryLocked(ctx), nil
}

// SetResultType switches the mcq/coding axis without changing navigation
// depth. The previous type's history is discarded and the new type fetched
// fresh; the backend is the source of truth on every toggle.
func (m *Machine) SetResultType(ctx context.Context, resultType models.ResultType) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !resultType.Valid() {
		return State{}, ErrInvalidResultType
	}
	if m.state.Phase != PhaseCourseDeepDive || m.state.SubUnit == nil {
		return State{}, ErrInvalidTransition
	}
	if m.state.ResultType == resultType {
		return m.state.clone(), nil
	}

	m.state.ResultType = resultType
	m.state.InspectedAttempt = 0
	m.state.Attempt = nil

	return m.fetchHistoryLocked(ctx), nil
}

// fetchHistoryLocked fetches the attempt history for the inspected sub-unit
// and current result type. The fetch runs synchronously on the caller's
// context and does not open a new navigation node, so the deep dive's
// completion fan-out keeps filling in behind it. Callers must hold the lock.
func (m *Machine) fetchHistoryLocked(ctx context.Context) State {
	result, err := m.gw.SubUnitResult(ctx, gateway.SubUnitRequest{
		StudentID:  m.state.Student.EffectiveID(),
		CourseID:   m.state.Course.CourseID,
		UnitID:     m.state.SubUnit.UnitID,
		SubUnitID:  m.state.SubUnit.SubUnitID,
		ResultType: m.state.ResultType,
		Attempt:    1,
	})
	if err != nil {
		m.logger.Warn().Err(err).Str("sub_unit_id", m.state.SubUnit.SubUnitID).Msg("attempt history fetch failed")
		m.state.LoadFailed = true
		m.state.History = nil
		return m.state.clone()
	}

	m.state.LoadFailed = false
	m.state.History = result.History
	return m.state.clone()
}

// SelectAttempt opens the full detail of one attempt row under the current
// result type.
func (m *Machine) SelectAttempt(ctx context.Context, attempt int) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseCourseDeepDive || m.state.SubUnit == nil {
		return State{}, ErrInvalidTransition
	}
	if attempt <= 0 {
		attempt = 1
	}

	result, err := m.gw.SubUnitResult(ctx, gateway.SubUnitRequest{
		StudentID:  m.state.Student.EffectiveID(),
		CourseID:   m.state.Course.CourseID,
		UnitID:     m.state.SubUnit.UnitID,
		SubUnitID:  m.state.SubUnit.SubUnitID,
		ResultType: m.state.ResultType,
		Attempt:    attempt,
	})

	m.state.InspectedAttempt = attempt
	m.state.Attempt = nil
	if err != nil {
		m.logger.Warn().Err(err).Int("attempt", attempt).Msg("attempt detail fetch failed")
		m.state.LoadFailed = true
		return m.state.clone(), nil
	}

	m.state.LoadFailed = false
	m.state.Attempt = result.Detail
	return m.state.clone(), nil
}

// SortStudents applies a column click to the section table and returns the
// re-ordered rows alongside the resulting sort configuration.
func (m *Machine) SortStudents(key utils.SortKey) ([]models.StudentRow, utils.SortConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseSectionDetail || m.state.Analytics == nil {
		return nil, m.state.Sort, ErrInvalidTransition
	}

	m.state.Sort.Request(key)
	rows := utils.SortStudents(m.state.Analytics.StudentPerformance, m.state.Sort.Key, m.state.Sort.Direction)
	return rows, m.state.Sort, nil
}

// Back pops exactly one level, discarding all state strictly deeper than
// the target. Parent views keep their already-fetched data; re-entering a
// popped node always re-fetches. Pops within the deep dive (attempt,
// sub-unit) stay on the same node and leave its completion fan-out running;
// leaving a node cancels its in-flight fetches.
func (m *Machine) Back() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LoadFailed = false

	switch {
	case m.state.InspectedAttempt != 0:
		m.state.InspectedAttempt = 0
		m.state.Attempt = nil

	case m.state.SubUnit != nil:
		m.state.SubUnit = nil
		m.state.History = nil
		m.state.ResultType = models.ResultTypeMCQ

	case m.state.Phase == PhaseCourseDeepDive:
		m.closeNodeLocked()
		m.state.Phase = PhaseCourseList
		m.clearDeepDiveLocked()

	case m.state.Phase == PhaseCourseList:
		m.closeNodeLocked()
		target := m.state.returnTo
		if target == "" {
			target = PhaseSectionList
		}
		m.state.Phase = target
		m.state.returnTo = ""
		m.state.Student = nil
		m.state.Courses = nil
		m.clearDeepDiveLocked()

	case m.state.Phase == PhaseSectionDetail:
		m.closeNodeLocked()
		m.state = State{Phase: PhaseSectionList, Sort: utils.DefaultSortConfig(), ResultType: models.ResultTypeMCQ}

	case m.state.Phase == PhaseStudentSearch:
		m.closeNodeLocked()
		m.state = State{Phase: PhaseSectionList, Sort: utils.DefaultSortConfig(), ResultType: models.ResultTypeMCQ}
	}

	return m.state.clone()
}

// clearDeepDiveLocked discards every deep-dive field. Callers must hold the
// lock.
func (m *Machine) clearDeepDiveLocked() {
	m.state.Course = nil
	m.state.Structure = nil
	m.state.Completions = nil
	m.state.CourseProgress = 0
	m.state.ExpandedUnit = ""
	m.state.SubUnit = nil
	m.state.History = nil
	m.state.InspectedAttempt = 0
	m.state.Attempt = nil
	m.state.ResultType = models.ResultTypeMCQ
}
