package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olsss/timetable-api/internal/dto"
	"github.com/olsss/timetable-api/internal/ingest"
	"github.com/olsss/timetable-api/internal/models"
	"github.com/olsss/timetable-api/internal/timetable"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
)

// SnapshotStore replicates session state across API replicas. Implementations
// must tolerate being nil-checked through the interface.
type SnapshotStore interface {
	Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	Load(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Session is the per-user scheduling state: one loaded catalog, the user's
// section selections, and the pairing structures derived from both.
// Every field access after publication goes through mu; the store map in
// SessionService has its own lock.
type Session struct {
	mu sync.RWMutex

	ID          string
	CreatedAt   time.Time
	LastTouched time.Time

	Rows      []models.RawRow
	Catalog   *timetable.Catalog
	RowErrors []models.RowError

	HeaderImposed bool
	SplitCourses  map[string][]string

	Selections  map[string][]string
	Pairing     *timetable.PairingMap
	Correct     *timetable.CorrectPairings
	Suggestions []timetable.SuggestedPair

	// autoPairedBy remembers which course caused a partner's selection, so
	// clearing the source also clears the partner.
	autoPairedBy map[string]string

	// LastRun holds the combinations of the most recent generation for
	// index-based exports.
	LastRun []models.Combination
}

// SessionConfig governs session lifetime.
type SessionConfig struct {
	TTL time.Duration
}

// SessionService owns the in-memory session store. The map is authoritative;
// the optional snapshot store only widens visibility to other replicas.
// mu guards the map only; session state is guarded by Session.mu.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl       time.Duration
	snapshots SnapshotStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService wires the session store.
func NewSessionService(snapshots SnapshotStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg SessionConfig) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	return &SessionService{
		sessions:  make(map[string]*Session),
		ttl:       cfg.TTL,
		snapshots: snapshots,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Create registers a fresh empty session.
func (s *SessionService) Create(ctx context.Context) (*dto.SessionResponse, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastTouched:  now,
		Selections:   make(map[string][]string),
		Pairing:      timetable.NewPairingMap(),
		Correct:      timetable.NewCorrectPairings(),
		autoPairedBy: make(map[string]string),
	}

	resp := &dto.SessionResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.LastTouched.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.snapshot(ctx, session)
	s.logger.Info("session created", zap.String("session_id", session.ID))

	return resp, nil
}

// get returns the live session, restoring from a snapshot when another
// replica owns it. Expired sessions are evicted lazily.
func (s *SessionService) get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if ok {
		session.mu.RLock()
		expired := time.Since(session.LastTouched) > s.ttl
		session.mu.RUnlock()
		if expired {
			s.mu.Lock()
			delete(s.sessions, id)
			s.mu.Unlock()
			if s.snapshots != nil {
				_ = s.snapshots.Delete(ctx, id)
			}
			ok = false
		}
	}
	if !ok {
		restored, err := s.restore(ctx, id)
		if err != nil {
			return nil, err
		}
		session = restored
	}

	session.mu.Lock()
	session.LastTouched = time.Now().UTC()
	session.mu.Unlock()
	return session, nil
}

// withSession runs fn under the session's write lock and snapshots afterwards.
func (s *SessionService) withSession(ctx context.Context, id string, fn func(*Session) error) error {
	session, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	session.mu.Lock()
	err = fn(session)
	session.mu.Unlock()
	if err != nil {
		return err
	}
	s.snapshot(ctx, session)
	return nil
}

// LoadCatalog ingests an uploaded CSV into the session, replacing any
// previous catalog. Selections and pairings reset; course pairs are
// re-detected and the correct-pairings table rebuilt from predictions.
func (s *SessionService) LoadCatalog(ctx context.Context, id string, file io.Reader) (*dto.LoadCatalogResponse, error) {
	result, err := ingest.ReadCatalog(file)
	if err != nil {
		return nil, err
	}

	var resp *dto.LoadCatalogResponse
	err = s.withSession(ctx, id, func(session *Session) error {
		catalog, rowErrors := timetable.BuildCatalog(result.Rows)
		session.Rows = result.Rows
		session.Catalog = catalog
		session.RowErrors = rowErrors
		session.HeaderImposed = result.HeaderImposed
		session.SplitCourses = result.SplitCourses
		session.Selections = make(map[string][]string)
		session.autoPairedBy = make(map[string]string)
		session.LastRun = nil

		session.Suggestions = timetable.SuggestCoursePairs(catalog)
		session.Pairing = timetable.NewPairingMap()
		for _, pair := range session.Suggestions {
			if err := session.Pairing.Pair(pair.CourseA, pair.CourseB); err != nil {
				s.logger.Warn("skipping suggested pair",
					zap.String("course_a", pair.CourseA),
					zap.String("course_b", pair.CourseB),
					zap.Error(err))
			}
		}
		session.Correct = timetable.PredictSectionPairings(catalog, session.Suggestions)

		s.metrics.ObserveRowsSkipped(len(rowErrors))

		resp = &dto.LoadCatalogResponse{
			SessionID:     session.ID,
			Message:       fmt.Sprintf("%d courses loaded, %d rows skipped", len(catalog.Courses()), len(rowErrors)),
			Courses:       courseInfos(catalog),
			RowErrors:     rowErrors,
			HeaderImposed: result.HeaderImposed,
			SplitCourses:  result.SplitCourses,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog loaded",
		zap.String("session_id", id),
		zap.Int("courses", len(resp.Courses)),
		zap.Int("rows_skipped", len(resp.RowErrors)))
	return resp, nil
}

// Courses lists the loaded catalog's courses.
func (s *SessionService) Courses(ctx context.Context, id string) ([]dto.CourseInfo, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	if session.Catalog == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
	}
	return courseInfos(session.Catalog), nil
}

// Sections lists the section groups of one course.
func (s *SessionService) Sections(ctx context.Context, id, course string) (*dto.SectionListResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	if session.Catalog == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
	}
	if !session.Catalog.HasCourse(course) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown course "+course)
	}
	return &dto.SectionListResponse{
		CourseCode: course,
		Sections:   session.Catalog.SectionsFor(course),
	}, nil
}

// SetSelection replaces the selected sections of one course. A paired
// partner with compatible sections is selected alongside; an empty list
// clears the course and whatever it auto-paired.
func (s *SessionService) SetSelection(ctx context.Context, id, course string, req dto.SetSelectionRequest) (*dto.SelectionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}

	var resp *dto.SelectionResponse
	err := s.withSession(ctx, id, func(session *Session) error {
		if session.Catalog == nil {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
		}
		if !session.Catalog.HasCourse(course) {
			return appErrors.Clone(appErrors.ErrNotFound, "unknown course "+course)
		}

		session.LastRun = nil

		if len(req.SectionIDs) == 0 {
			delete(session.Selections, course)
			for partner, source := range session.autoPairedBy {
				if source == course {
					delete(session.Selections, partner)
					delete(session.autoPairedBy, partner)
				}
			}
			resp = &dto.SelectionResponse{Selections: copySelections(session.Selections)}
			return nil
		}

		for _, section := range req.SectionIDs {
			if _, ok := session.Catalog.Group(course, section); !ok {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown section %s for course %s", section, course))
			}
		}
		session.Selections[course] = dedupe(req.SectionIDs)
		delete(session.autoPairedBy, course)

		autoPaired := make(map[string][]string)
		for _, partner := range session.Pairing.PartnersOf(course) {
			if _, chosen := session.Selections[partner]; chosen && session.autoPairedBy[partner] == "" {
				continue
			}
			compatible := timetable.CompatibleSections(session.Catalog, session.Correct, course, session.Selections[course], partner, true)
			if len(compatible) == 0 {
				continue
			}
			session.Selections[partner] = compatible
			session.autoPairedBy[partner] = course
			autoPaired[partner] = compatible
		}

		resp = &dto.SelectionResponse{
			Selections: copySelections(session.Selections),
			AutoPaired: autoPaired,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Selections returns the session's current selection map.
func (s *SessionService) Selections(ctx context.Context, id string) (*dto.SelectionResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return &dto.SelectionResponse{Selections: copySelections(session.Selections)}, nil
}

// Pair links two courses. Fails with a conflict when either course already
// belongs to a pairing group; the existing state stays untouched.
func (s *SessionService) Pair(ctx context.Context, id string, req dto.PairRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pairing payload")
	}
	return s.withSession(ctx, id, func(session *Session) error {
		if session.Catalog == nil {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
		}
		for _, course := range []string{req.CourseA, req.CourseB} {
			if !session.Catalog.HasCourse(course) {
				return appErrors.Clone(appErrors.ErrNotFound, "unknown course "+course)
			}
		}
		if err := session.Pairing.Pair(req.CourseA, req.CourseB); err != nil {
			return err
		}
		session.LastRun = nil
		return nil
	})
}

// Unpair dissolves the pairing group the course belongs to.
func (s *SessionService) Unpair(ctx context.Context, id, course string) error {
	return s.withSession(ctx, id, func(session *Session) error {
		if !session.Pairing.IsPaired(course) {
			return appErrors.Clone(appErrors.ErrNotFound, "course "+course+" is not paired")
		}
		session.Pairing.Unpair(course)
		session.LastRun = nil
		return nil
	})
}

// Pairs lists the explicit pairing groups and the detector's suggestions.
func (s *SessionService) Pairs(ctx context.Context, id string) (*dto.PairsResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return &dto.PairsResponse{
		Groups:      session.Pairing.Groups(),
		Suggestions: session.Suggestions,
	}, nil
}

// PairSuggestions returns the detector's course-pair suggestions only.
func (s *SessionService) PairSuggestions(ctx context.Context, id string) ([]timetable.SuggestedPair, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.Suggestions, nil
}

// ExportPairings renders the pairing map in its portable JSON form.
func (s *SessionService) ExportPairings(ctx context.Context, id string) (*dto.PairingsDocument, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return &dto.PairingsDocument{Pairings: session.Pairing.Serialize()}, nil
}

// ImportPairings replaces the pairing map with the document's groups after
// validating symmetry against the loaded catalog.
func (s *SessionService) ImportPairings(ctx context.Context, id string, doc dto.PairingsDocument) error {
	if err := s.validator.Struct(doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pairings payload")
	}
	return s.withSession(ctx, id, func(session *Session) error {
		if session.Catalog == nil {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
		}
		imported := timetable.NewPairingMap()
		for _, group := range pairingGroups(doc.Pairings) {
			for _, course := range group {
				if !session.Catalog.HasCourse(course) {
					return appErrors.Clone(appErrors.ErrValidation, "unknown course "+course+" in pairings document")
				}
			}
			if err := imported.PairGroup(group); err != nil {
				return err
			}
		}
		session.Pairing = imported
		session.LastRun = nil
		return nil
	})
}

// Status summarises the session for the dashboard.
func (s *SessionService) Status(ctx context.Context, id string) (*dto.SessionStatusResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()

	status := &dto.SessionStatusResponse{
		SessionID:     session.ID,
		CatalogLoaded: session.Catalog != nil,
		RowErrorCount: len(session.RowErrors),
		CreatedAt:     session.CreatedAt,
		ExpiresAt:     session.LastTouched.Add(s.ttl),
		Metrics:       s.metrics.Snapshot(),
	}
	if session.Catalog != nil {
		status.CourseCount = len(session.Catalog.Courses())
		status.SectionCount = session.Catalog.Len()
	}
	status.SelectionCount = len(session.Selections)
	status.PairCount = len(session.Pairing.Groups())
	return status, nil
}

// ClearData removes the session entirely.
func (s *SessionService) ClearData(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	if s.snapshots != nil {
		_ = s.snapshots.Delete(ctx, id)
	}
	s.logger.Info("session cleared", zap.String("session_id", id))
	return nil
}

// ClearRoster drops every selected section but keeps the catalog and the
// pairing state.
func (s *SessionService) ClearRoster(ctx context.Context, id string) error {
	return s.withSession(ctx, id, func(session *Session) error {
		session.Selections = make(map[string][]string)
		session.autoPairedBy = make(map[string]string)
		session.LastRun = nil
		return nil
	})
}

// Resolve hands the live session to sibling services.
func (s *SessionService) Resolve(ctx context.Context, id string) (*Session, error) {
	return s.get(ctx, id)
}

// Persist re-snapshots a session a sibling service mutated.
func (s *SessionService) Persist(ctx context.Context, session *Session) {
	s.snapshot(ctx, session)
}

// sessionSnapshot is the replicated form of a session: raw inputs plus the
// user's decisions, enough to rebuild everything derived.
type sessionSnapshot struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"createdAt"`
	Rows          []models.RawRow     `json:"rows,omitempty"`
	HeaderImposed bool                `json:"headerImposed,omitempty"`
	SplitCourses  map[string][]string `json:"splitCourses,omitempty"`
	Selections    map[string][]string `json:"selections"`
	PairGroups    [][]string          `json:"pairGroups"`
	AutoPairedBy  map[string]string   `json:"autoPairedBy,omitempty"`
}

func (s *SessionService) snapshot(ctx context.Context, session *Session) {
	if s.snapshots == nil {
		return
	}
	// The snap struct aliases the live maps, so marshal under the lock.
	session.mu.RLock()
	snap := sessionSnapshot{
		ID:            session.ID,
		CreatedAt:     session.CreatedAt,
		Rows:          session.Rows,
		HeaderImposed: session.HeaderImposed,
		SplitCourses:  session.SplitCourses,
		Selections:    session.Selections,
		PairGroups:    session.Pairing.Groups(),
		AutoPairedBy:  session.autoPairedBy,
	}
	payload, err := json.Marshal(snap)
	session.mu.RUnlock()
	if err != nil {
		s.logger.Warn("session snapshot marshal failed", zap.String("session_id", session.ID), zap.Error(err))
		return
	}
	if err := s.snapshots.Save(ctx, session.ID, payload, s.ttl); err != nil {
		s.logger.Warn("session snapshot save failed", zap.String("session_id", session.ID), zap.Error(err))
	}
}

func (s *SessionService) restore(ctx context.Context, id string) (*Session, error) {
	if s.snapshots == nil {
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
	}
	payload, err := s.snapshots.Load(ctx, id)
	if err != nil || payload == nil {
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
	}

	var snap sessionSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.logger.Warn("session snapshot unmarshal failed", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
	}

	session := &Session{
		ID:            snap.ID,
		CreatedAt:     snap.CreatedAt,
		LastTouched:   time.Now().UTC(),
		Rows:          snap.Rows,
		HeaderImposed: snap.HeaderImposed,
		SplitCourses:  snap.SplitCourses,
		Selections:    snap.Selections,
		Pairing:       timetable.NewPairingMap(),
		Correct:       timetable.NewCorrectPairings(),
		autoPairedBy:  snap.AutoPairedBy,
	}
	if session.Selections == nil {
		session.Selections = make(map[string][]string)
	}
	if session.autoPairedBy == nil {
		session.autoPairedBy = make(map[string]string)
	}
	if len(snap.Rows) > 0 {
		session.Catalog, session.RowErrors = timetable.BuildCatalog(snap.Rows)
		session.Suggestions = timetable.SuggestCoursePairs(session.Catalog)
		session.Correct = timetable.PredictSectionPairings(session.Catalog, session.Suggestions)
	}
	for _, group := range snap.PairGroups {
		if err := session.Pairing.PairGroup(group); err != nil {
			s.logger.Warn("snapshot pairing group rejected", zap.Strings("group", group), zap.Error(err))
		}
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	s.logger.Info("session restored from snapshot", zap.String("session_id", id))
	return session, nil
}

func courseInfos(catalog *timetable.Catalog) []dto.CourseInfo {
	courses := catalog.Courses()
	out := make([]dto.CourseInfo, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.CourseInfo{
			Code:         course,
			Title:        catalog.Title(course),
			SectionCount: len(catalog.SectionIDs(course)),
		})
	}
	return out
}

func copySelections(selections map[string][]string) map[string][]string {
	out := make(map[string][]string, len(selections))
	for course, sections := range selections {
		copied := make([]string, len(sections))
		copy(copied, sections)
		out[course] = copied
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// pairingGroups folds the symmetric course -> partners form back into
// distinct groups, sorted for determinism.
func pairingGroups(pairings map[string][]string) [][]string {
	assigned := make(map[string]bool)
	var groups [][]string

	courses := make([]string, 0, len(pairings))
	for course := range pairings {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	for _, course := range courses {
		if assigned[course] {
			continue
		}
		group := []string{course}
		assigned[course] = true
		for _, partner := range pairings[course] {
			if !assigned[partner] {
				group = append(group, partner)
				assigned[partner] = true
			}
		}
		if len(group) < 2 {
			continue
		}
		sort.Strings(group)
		groups = append(groups, group)
	}
	return groups
}
