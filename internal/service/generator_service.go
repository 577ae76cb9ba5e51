package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/olsss/timetable-api/internal/dto"
	"github.com/olsss/timetable-api/internal/models"
	"github.com/olsss/timetable-api/internal/timetable"
	"github.com/olsss/timetable-api/pkg/config"
	appErrors "github.com/olsss/timetable-api/pkg/errors"
)

// sessionResolver is the slice of SessionService the generator needs.
type sessionResolver interface {
	Resolve(ctx context.Context, id string) (*Session, error)
	Persist(ctx context.Context, session *Session)
}

// GeneratorService runs the combination search for a session: build atomic
// units from the selections, enumerate the product, validate, format.
type GeneratorService struct {
	sessions  sessionResolver
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.GeneratorConfig
}

// NewGeneratorService wires the generator.
func NewGeneratorService(sessions sessionResolver, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg config.GeneratorConfig) *GeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxCombinations <= 0 {
		cfg.MaxCombinations = 5000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GeneratorService{
		sessions:  sessions,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate enumerates and validates timetable combinations for the session.
// Without any selected course it succeeds with an empty result and an
// explanatory status. Runs stopped by the cap or the deadline return what
// was found so far with Truncated set. For unchanged session state the run
// is deterministic and repeatable.
func (g *GeneratorService) Generate(ctx context.Context, sessionID string, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if err := g.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	session, err := g.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	maxCombinations := g.cfg.MaxCombinations
	if req.MaxCombinations > 0 && req.MaxCombinations < maxCombinations {
		maxCombinations = req.MaxCombinations
	}
	timeout := g.cfg.Timeout
	if req.TimeoutMs > 0 {
		if requested := time.Duration(req.TimeoutMs) * time.Millisecond; requested < timeout {
			timeout = requested
		}
	}

	// The read lock spans the enumeration: the validator reads the live
	// pairing map, so pairing edits to this session wait for the run.
	session.mu.RLock()
	if session.Catalog == nil {
		session.mu.RUnlock()
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no catalog loaded")
	}
	if len(session.Selections) == 0 {
		session.mu.RUnlock()
		return &dto.GenerateResponse{
			Count:        0,
			Status:       "no courses selected",
			Combinations: []models.WeekScheduleView{},
		}, nil
	}

	options := timetable.BuildOptions(session.Catalog, session.Selections, session.Pairing, session.Correct)
	validate := timetable.NewValidator(session.Pairing, session.Correct)
	total := timetable.CountProduct(options)

	deadline := time.Now().Add(timeout)
	start := time.Now()

	var accepted []models.Combination
	considered := 0
	rejected := 0
	truncated := false

	timetable.Enumerate(options, func(combo models.Combination) bool {
		considered++
		if validate.Valid(combo) {
			accepted = append(accepted, combo)
		} else {
			rejected++
		}
		if len(accepted) >= maxCombinations {
			truncated = considered < total
			return false
		}
		if considered%256 == 0 && (time.Now().After(deadline) || ctx.Err() != nil) {
			truncated = considered < total
			return false
		}
		return true
	})
	session.mu.RUnlock()

	duration := time.Since(start)
	g.metrics.ObserveGeneration(duration, considered, rejected)

	session.mu.Lock()
	session.LastRun = accepted
	session.mu.Unlock()
	g.sessions.Persist(ctx, session)

	views := make([]models.WeekScheduleView, 0, len(accepted))
	for _, combo := range accepted {
		views = append(views, timetable.FormatCombination(combo))
	}

	status := fmt.Sprintf("%d valid timetables", len(accepted))
	if len(accepted) == 0 {
		status = "0 valid timetables - likely cause: conflicting selections"
	}

	g.logger.Info("generation finished",
		zap.String("session_id", sessionID),
		zap.Int("considered", considered),
		zap.Int("accepted", len(accepted)),
		zap.Int("rejected", rejected),
		zap.Bool("truncated", truncated),
		zap.Duration("duration", duration))

	return &dto.GenerateResponse{
		Count:        len(accepted),
		Considered:   considered,
		Rejected:     rejected,
		Truncated:    truncated,
		Status:       status,
		Combinations: views,
	}, nil
}

// Combination returns one combination of the session's last run by index,
// formatted for display.
func (g *GeneratorService) Combination(ctx context.Context, sessionID string, index int) (*models.Combination, error) {
	session, err := g.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	if index < 0 || index >= len(session.LastRun) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no combination at index %d; run generation first", index))
	}
	combo := session.LastRun[index]
	return &combo, nil
}
