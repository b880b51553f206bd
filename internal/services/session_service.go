package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/cache"
	"github.com/SAP-F-2025/practice-service/internal/events"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/session"
	"github.com/google/uuid"
)

const reportCacheTTL = 24 * time.Hour

// completedRetention bounds registry growth: completed sessions stay
// addressable (report, restart) for this long, after which they are evicted
// on the next session start. The cached report outlives the live session.
const completedRetention = time.Hour

func reportCacheKey(sessionID string) string {
	return fmt.Sprintf("practice:session:%s:report", sessionID)
}

// SessionService runs practice sessions over stored practice sets. Sessions
// live in memory for their lifetime; only the final report is cached.
type SessionService interface {
	Start(ctx context.Context, practiceSetID uint, learnerID string) (session.Snapshot, error)
	Get(ctx context.Context, sessionID string) (session.Snapshot, error)

	SelectChoice(ctx context.Context, sessionID, questionID, text string) (session.Snapshot, error)
	SelectMatchingItem(ctx context.Context, sessionID, questionID, content string, side session.Side) (session.Snapshot, error)
	UndoLastPair(ctx context.Context, sessionID, questionID string) (session.Snapshot, error)
	ClearPairs(ctx context.Context, sessionID, questionID string) (session.Snapshot, error)

	Next(ctx context.Context, sessionID string) (session.Snapshot, error)
	Previous(ctx context.Context, sessionID string) (session.Snapshot, error)
	Finish(ctx context.Context, sessionID string) (session.Snapshot, error)
	Restart(ctx context.Context, sessionID string) (session.Snapshot, error)

	Report(ctx context.Context, sessionID string) (*session.Report, error)
}

// runtimeSession binds a live engine session to the set and learner it was
// started for. completedAt is zero while the session is in progress; it is
// guarded by the service mutex, not the engine lock.
type runtimeSession struct {
	sess          *session.Session
	practiceSetID uint
	learnerID     string
	completedAt   time.Time
}

type sessionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*runtimeSession
}

func NewSessionService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger) SessionService {
	return &sessionService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		sessions:  make(map[string]*runtimeSession),
	}
}

func (s *sessionService) Start(ctx context.Context, practiceSetID uint, learnerID string) (session.Snapshot, error) {
	set, err := s.repo.PracticeSet().GetByIDWithQuestions(ctx, practiceSetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return session.Snapshot{}, ErrPracticeSetNotFound
		}
		return session.Snapshot{}, fmt.Errorf("failed to load practice set: %w", err)
	}

	doc, err := toDocument(set)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to convert practice set %d: %w", practiceSetID, err)
	}

	sessionID := uuid.NewString()
	obs := &sessionObserver{
		service:       s,
		sessionID:     sessionID,
		practiceSetID: practiceSetID,
		learnerID:     learnerID,
	}

	sess, err := session.New(doc, session.WithID(sessionID), session.WithObserver(obs))
	if err != nil {
		if errors.Is(err, session.ErrEmptyDocument) {
			return session.Snapshot{}, ErrPracticeSetEmpty
		}
		return session.Snapshot{}, fmt.Errorf("failed to start session: %w", err)
	}

	s.mu.Lock()
	s.evictExpiredLocked(time.Now())
	s.sessions[sessionID] = &runtimeSession{sess: sess, practiceSetID: practiceSetID, learnerID: learnerID}
	s.mu.Unlock()

	s.publish(events.NewSessionStartedEvent(sessionID, practiceSetID, learnerID, len(sess.Questions())))
	s.logger.Info("Practice session started",
		"session_id", sessionID,
		"practice_set_id", practiceSetID,
		"learner_id", learnerID,
		"question_count", len(sess.Questions()))

	return sess.Snapshot(), nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) SelectChoice(ctx context.Context, sessionID, questionID, text string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.SelectChoice(questionID, text); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) SelectMatchingItem(ctx context.Context, sessionID, questionID, content string, side session.Side) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.SelectMatchingItem(questionID, content, side); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) UndoLastPair(ctx context.Context, sessionID, questionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.UndoLastPair(questionID); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) ClearPairs(ctx context.Context, sessionID, questionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.ClearPairs(questionID); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) Next(ctx context.Context, sessionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.Next(); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) Previous(ctx context.Context, sessionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.Previous(); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) Finish(ctx context.Context, sessionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := rt.sess.Finish(); err != nil {
		return session.Snapshot{}, err
	}
	return rt.sess.Snapshot(), nil
}

func (s *sessionService) Restart(ctx context.Context, sessionID string) (session.Snapshot, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	rt.sess.Restart()

	s.mu.Lock()
	rt.completedAt = time.Time{}
	s.mu.Unlock()

	if err := s.cache.Delete(ctx, reportCacheKey(sessionID)); err != nil {
		s.logger.Warn("Failed to drop cached report on restart", "session_id", sessionID, "error", err)
	}
	s.publish(events.NewSessionRestartedEvent(sessionID, rt.practiceSetID))
	s.logger.Info("Practice session restarted", "session_id", sessionID)

	return rt.sess.Snapshot(), nil
}

func (s *sessionService) Report(ctx context.Context, sessionID string) (*session.Report, error) {
	rt, err := s.lookup(sessionID)
	if err != nil {
		// The live session may be gone after a process restart while the
		// cached report is still valid.
		var cached session.Report
		if cacheErr := s.cache.Get(ctx, reportCacheKey(sessionID), &cached); cacheErr == nil {
			return &cached, nil
		}
		return nil, err
	}

	report, err := rt.sess.Report()
	if err != nil {
		if errors.Is(err, session.ErrSessionNotCompleted) {
			return nil, ErrSessionActive
		}
		return nil, err
	}
	return report, nil
}

func (s *sessionService) lookup(sessionID string) (*runtimeSession, error) {
	s.mu.RLock()
	rt, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return rt, nil
}

func (s *sessionService) markCompleted(sessionID string, at time.Time) {
	s.mu.Lock()
	if rt, ok := s.sessions[sessionID]; ok {
		rt.completedAt = at
	}
	s.mu.Unlock()
}

// evictExpiredLocked drops completed sessions past their retention window.
// Their reports remain served from the cache.
func (s *sessionService) evictExpiredLocked(now time.Time) {
	for id, rt := range s.sessions {
		if !rt.completedAt.IsZero() && now.Sub(rt.completedAt) > completedRetention {
			delete(s.sessions, id)
		}
	}
}

// publish fires an event without blocking the caller. Event delivery is best
// effort; failures are logged by the publisher.
func (s *sessionService) publish(event *events.SessionEvent) {
	go func() {
		if err := s.publisher.PublishSessionEvent(context.Background(), event); err != nil {
			s.logger.Error("Failed to publish session event", "event_type", event.Type, "error", err)
		}
	}()
}

// ===== ENGINE OBSERVER =====

// sessionObserver bridges engine callbacks to cache and event publishing.
// Callbacks run while the engine lock is held, so all side effects that might
// block are pushed onto goroutines.
type sessionObserver struct {
	session.NopObserver

	service       *sessionService
	sessionID     string
	practiceSetID uint
	learnerID     string
}

func (o *sessionObserver) OnTick(questionID string, remaining int) {
	if remaining == 0 {
		o.service.publish(events.NewQuestionTimedOutEvent(o.sessionID, questionID))
	}
}

func (o *sessionObserver) OnFinished(report *session.Report) {
	svc := o.service
	sessionID := o.sessionID
	snapshot := *report

	svc.markCompleted(sessionID, time.Now())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svc.cache.Set(ctx, reportCacheKey(sessionID), &snapshot, reportCacheTTL); err != nil {
			svc.logger.Error("Failed to cache session report", "session_id", sessionID, "error", err)
		}
	}()

	svc.publish(events.NewSessionCompletedEvent(sessionID, o.practiceSetID, o.learnerID, report))
	svc.logger.Info("Practice session completed",
		"session_id", sessionID,
		"correct", report.CorrectCount,
		"total", report.TotalCount,
		"percentage", report.Percentage)
}

// ===== DOCUMENT CONVERSION =====

// toDocument maps a stored practice set onto the engine's raw document.
func toDocument(set *models.PracticeSet) (session.Document, error) {
	doc := session.Document{}

	for i := range set.ChoiceQuestions {
		cq := &set.ChoiceQuestions[i]
		options, err := cq.DecodeOptions()
		if err != nil {
			return session.Document{}, fmt.Errorf("choice question %d has invalid options: %w", cq.ID, err)
		}

		entry := session.ChoiceEntry{
			ID:              "choice-" + strconv.FormatUint(uint64(cq.ID), 10),
			Prompt:          cq.Prompt,
			Points:          cq.Points,
			TimeLimit:       cq.TimeLimit,
			MultipleCorrect: cq.MultipleCorrect,
		}
		if cq.Hint != nil {
			entry.Hint = *cq.Hint
		}
		for _, opt := range options {
			entry.Options = append(entry.Options, session.Choice{Text: opt.Text, Correct: opt.Correct})
		}
		doc.Choice = append(doc.Choice, entry)
	}

	for i := range set.MatchingPairs {
		mp := &set.MatchingPairs[i]
		doc.Matching = append(doc.Matching, session.MatchingEntry{
			ID:        "pair-" + strconv.FormatUint(uint64(mp.ID), 10),
			Points:    mp.Points,
			TimeLimit: mp.TimeLimit,
			Left:      session.Item{Content: mp.LeftContent, Type: session.ContentType(mp.LeftType)},
			Right:     session.Item{Content: mp.RightContent, Type: session.ContentType(mp.RightType)},
		})
	}

	return doc, nil
}
