package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/ludo-game/game/engine"
)

// DefaultHistoryLimit is the number of events kept per session
const DefaultHistoryLimit = 500

// liveSession is the per-session data that only lives in memory
type liveSession struct {
	outcome   []engine.Event // held back until the move animation ends
	animDur   time.Duration
	countdown int
	seq       int
	history   []HistoryEntry
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions     SessionManager
	configs      ConfigManager
	publisher    EventPublisher
	logger       *zap.Logger
	timers       *scheduler
	historyLimit int

	// mu serializes every engine operation, timer callbacks included
	mu   sync.Mutex
	live map[string]*liveSession
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithPublisher sends every engine event to p
func WithPublisher(p EventPublisher) Option {
	return func(s *gameServiceImpl) { s.publisher = p }
}

// WithLogger sets the logger used for turn tracing and persistence warnings
func WithLogger(l *zap.Logger) Option {
	return func(s *gameServiceImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistoryLimit caps the number of events kept per session
func WithHistoryLimit(n int) Option {
	return func(s *gameServiceImpl) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:     sessions,
		configs:      configs,
		logger:       zap.NewNop(),
		timers:       newScheduler(),
		historyLimit: DefaultHistoryLimit,
		live:         make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = sess.ConfigID
	}
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		GameID:         sess.GameID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

// lookup fetches a session and marks it as accessed. Callers hold mu.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	_ = s.sessions.UpdateLastAccessed(sess.ID)
	return sess, nil
}

func (s *gameServiceImpl) liveFor(sessionID string) *liveSession {
	ls, ok := s.live[sessionID]
	if !ok {
		ls = &liveSession{}
		s.live[sessionID] = ls
	}
	return ls
}

// publish records events in the session history and forwards them
func (s *gameServiceImpl) publish(sess *Session, events []engine.Event) {
	if len(events) == 0 {
		return
	}
	ls := s.liveFor(sess.ID)
	now := time.Now()
	for _, ev := range events {
		ls.seq++
		ls.history = append(ls.history, HistoryEntry{
			Seq:       ls.seq,
			GameID:    sess.GameID,
			Event:     ev,
			Timestamp: now,
		})
	}
	if over := len(ls.history) - s.historyLimit; over > 0 {
		ls.history = append([]HistoryEntry(nil), ls.history[over:]...)
	}
	if s.publisher != nil {
		s.publisher.Publish(sess.ID, events, sess.Engine.GetState().Clone())
	}
}

// save persists the session; a failure is logged and the game goes on
func (s *gameServiceImpl) save(sess *Session, op string) {
	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn("failed to persist session",
			zap.String("session", sess.ID),
			zap.String("op", op),
			zap.Error(err))
	}
}

func (s *gameServiceImpl) logTurn(sess *Session, msg string, fields ...zap.Field) {
	st := sess.Engine.GetState()
	fields = append(fields,
		zap.String("session", sess.ID),
		zap.Int("player", st.CurrentPlayer),
		zap.String("color", string(st.Current().Color)),
		zap.Int("dice", st.DiceValue),
		zap.Int("sixes", st.ConsecutiveSixes),
		zap.String("phase", string(st.Phase)))
	s.logger.Debug(msg, fields...)
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, playerCount int, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", configID, config, playerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	st := sess.Engine.GetState()
	s.publish(sess, []engine.Event{{
		Type:    engine.EventGameStarted,
		Player:  st.CurrentPlayer,
		Color:   st.Current().Color,
		Message: st.Message,
	}})
	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("config", configID),
		zap.Int("players", st.PlayerCount()))
	s.reconcile(sess, 0)

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session and cancels its timers
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.timers.cancelSession(sess.ID)
	delete(s.live, sess.ID)
	return s.sessions.Delete(sess.ID)
}

// NewGame discards the current game of a session and starts another.
// A playerCount of 0 keeps the current number of seats.
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string, playerCount int) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if playerCount == 0 {
		playerCount = sess.Engine.GetState().PlayerCount()
	}
	if _, err := engine.ColorsForPlayerCount(playerCount); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidValue, err)
	}

	s.flush(sess)
	events, err := sess.Engine.StartGame(playerCount)
	if err != nil {
		return nil, err
	}
	sess.GameID = uuid.NewString()
	s.publish(sess, events)
	s.logTurn(sess, "new game", zap.String("game", sess.GameID))
	s.save(sess, "new_game")
	s.reconcile(sess, 0)

	return sess.Engine.GetState().Clone(), nil
}

// flush cancels the session timers and publishes outcome events still held
// back by a running animation
func (s *gameServiceImpl) flush(sess *Session) {
	s.timers.cancelSession(sess.ID)
	ls := s.liveFor(sess.ID)
	outcome := ls.outcome
	ls.outcome = nil
	if len(outcome) > 0 {
		_ = sess.Engine.CompleteMove()
		s.publish(sess, outcome)
	}
}

// Roll draws a dice value for the current player
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.roll(sess, sess.Engine.Roll)
}

// RollValue applies a dice value entered by hand
func (s *gameServiceImpl) RollValue(ctx context.Context, sessionID string, value int) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.roll(sess, func() (*engine.RollResult, error) {
		return sess.Engine.RollValue(value)
	})
}

func (s *gameServiceImpl) roll(sess *Session, roll func() (*engine.RollResult, error)) (*RollResult, error) {
	res, err := roll()
	if err != nil {
		s.logTurn(sess, "roll rejected", zap.Error(err))
		return nil, err
	}

	s.timers.cancelSession(sess.ID)
	s.publish(sess, res.Events)
	s.logTurn(sess, "dice rolled",
		zap.Bool("forfeited", res.Forfeited),
		zap.Bool("skipped", res.Skipped),
		zap.Ints("movable", res.Movable))
	s.save(sess, "roll")
	s.reconcile(sess, sess.Engine.GetConfig().RollReveal())

	return &RollResult{Roll: res, GameState: sess.Engine.GetState().Clone()}, nil
}

// SelectToken moves one of the current player's tokens
func (s *gameServiceImpl) SelectToken(ctx context.Context, sessionID string, color engine.Color, index int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.selectToken(sess, color, index)
}

func (s *gameServiceImpl) selectToken(sess *Session, color engine.Color, index int) (*MoveResult, error) {
	res, err := sess.Engine.SelectToken(color, index)
	if errors.Is(err, engine.ErrSkipPending) {
		// A selection during the countdown ends it; the selection itself is still refused.
		if events, skipErr := sess.Engine.SkipTurn(); skipErr == nil {
			s.timers.cancelSession(sess.ID)
			s.publish(sess, events)
			s.logTurn(sess, "skip resolved by selection")
			s.save(sess, "skip")
			s.reconcile(sess, 0)
		}
		return nil, err
	}
	if err != nil {
		s.logTurn(sess, "selection rejected", zap.String("token", fmt.Sprintf("%s/%d", color, index)), zap.Error(err))
		return nil, err
	}

	s.timers.cancelSession(sess.ID)
	var immediate, outcome []engine.Event
	for _, ev := range res.Events {
		if ev.IsOutcome() {
			outcome = append(outcome, ev)
		} else {
			immediate = append(immediate, ev)
		}
	}
	ls := s.liveFor(sess.ID)
	ls.outcome = outcome
	ls.animDur = sess.Engine.GetConfig().AnimationDuration(len(res.Path))

	s.publish(sess, immediate)
	s.logTurn(sess, "token moved",
		zap.String("token", fmt.Sprintf("%s/%d", res.Token.Color, res.Token.Index)),
		zap.Int("captured", len(res.Captured)),
		zap.Bool("bonus", res.BonusTurn),
		zap.Bool("won", res.Won))
	s.save(sess, "select")
	s.reconcile(sess, 0)

	return &MoveResult{Move: res, GameState: sess.Engine.GetState().Clone()}, nil
}

// SetSkipDelay changes the auto-skip countdown of a session
func (s *gameServiceImpl) SetSkipDelay(ctx context.Context, sessionID string, seconds int) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.SetSkipDelay(seconds); err != nil {
		return nil, err
	}
	s.save(sess, "skip_delay")
	s.reconcile(sess, 0)
	return sess.Engine.GetState().Clone(), nil
}

// SetPreference toggles a session preference
func (s *gameServiceImpl) SetPreference(ctx context.Context, sessionID, name string, value bool) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	events, err := sess.Engine.SetPreference(name, value)
	if err != nil {
		return nil, err
	}
	s.publish(sess, events)
	s.logTurn(sess, "preference changed",
		zap.String("name", engine.NormalizePreference(name)),
		zap.Bool("value", value))
	s.save(sess, "preference")
	s.reconcile(sess, 0)
	return sess.Engine.GetState().Clone(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Clone(), nil
}

// ExportState returns the persisted form of the current game
func (s *gameServiceImpl) ExportState(ctx context.Context, sessionID string) (*engine.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Serialize(), nil
}

// ImportState replaces the game of a session with a saved record. A corrupt
// record is refused and the current game continues.
func (s *gameServiceImpl) ImportState(ctx context.Context, sessionID string, record *engine.Record) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateRecord(record); err != nil {
		s.logger.Warn("refused corrupt record", zap.String("session", sess.ID), zap.Error(err))
		return nil, err
	}

	s.flush(sess)
	events, err := sess.Engine.LoadRecord(record)
	if err != nil {
		return nil, err
	}
	sess.GameID = uuid.NewString()
	s.publish(sess, events)
	s.logTurn(sess, "state loaded", zap.String("game", sess.GameID))
	s.save(sess, "import")
	s.reconcile(sess, 0)

	return sess.Engine.GetState().Clone(), nil
}

// GetEventHistory returns paginated event history
func (s *gameServiceImpl) GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := s.liveFor(sess.ID).history
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	events := []HistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			events = append(events, history[i])
		}
	} else if start < total {
		events = append(events, history[start:end]...)
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return s.configs.SaveConfig(configName, config)
}

// Resume arms the timers of every known session
func (s *gameServiceImpl) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.reconcile(sess, 0)
	}
	s.logger.Info("sessions resumed", zap.Int("count", len(sessions)))
	return nil
}

// Close cancels all pending timers
func (s *gameServiceImpl) Close() error {
	s.timers.stop()
	return nil
}

// reconcile derives the one timer a session should have pending from its
// engine state and cancels the others. lead delays the timer, e.g. to let a
// rolled value show before anything else happens. Callers hold mu.
func (s *gameServiceImpl) reconcile(sess *Session, lead time.Duration) {
	eng := sess.Engine
	st := eng.GetState()
	cfg := eng.GetConfig()
	ls := s.liveFor(sess.ID)

	var (
		want  timerKind
		delay time.Duration
		act   func(*Session)
	)
	switch {
	case len(ls.outcome) > 0 || st.Phase == engine.PhaseAnimating:
		want, delay, act = timerAnimation, ls.animDur, s.finishAnimation
	case st.ForfeitPending:
		want, delay, act = timerForfeit, lead+cfg.ForfeitDelay(), s.resolveForfeit
	case st.SkipPending:
		if !s.timers.pending(sess.ID, timerSkip) {
			ls.countdown = st.SkipDelay
		}
		want, delay, act = timerSkip, lead+time.Second, s.tickSkip
	case eng.AutoMoveCandidate() != nil:
		want, delay, act = timerAutoMove, lead+cfg.AutoMoveDelay(), s.autoMove
	case eng.AutoRollDue():
		want, delay, act = timerAutoRoll, lead+cfg.AutoRollDelay(), s.autoRoll
	}

	for _, kind := range allTimerKinds {
		if kind != want {
			s.timers.cancel(sess.ID, kind)
		}
	}
	if want != "" {
		s.timers.schedule(sess.ID, want, delay, s.guard(sess.ID, want, act))
	}
}

// guard wraps a timer action: it takes the service lock and acts only if the
// timer was not cancelled in the meantime
func (s *gameServiceImpl) guard(sessionID string, kind timerKind, act func(*Session)) func(uint64) {
	return func(gen uint64) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.timers.claim(sessionID, kind, gen) {
			return
		}
		sess, err := s.sessions.Get(sessionID)
		if err != nil {
			return
		}
		act(sess)
	}
}

func (s *gameServiceImpl) finishAnimation(sess *Session) {
	ls := s.liveFor(sess.ID)
	// Nothing to complete once the move ended the game
	_ = sess.Engine.CompleteMove()
	outcome := ls.outcome
	ls.outcome = nil

	s.publish(sess, outcome)
	s.logTurn(sess, "move completed")
	s.save(sess, "animation")
	s.reconcile(sess, 0)
}

func (s *gameServiceImpl) resolveForfeit(sess *Session) {
	events, err := sess.Engine.ResolveForfeit()
	if err != nil {
		s.reconcile(sess, 0)
		return
	}
	s.publish(sess, events)
	s.logTurn(sess, "turn forfeited")
	s.save(sess, "forfeit")
	s.reconcile(sess, 0)
}

func (s *gameServiceImpl) tickSkip(sess *Session) {
	ls := s.liveFor(sess.ID)
	ls.countdown--
	if ls.countdown > 0 {
		ev, err := sess.Engine.SkipCountdown(ls.countdown)
		if err != nil {
			s.reconcile(sess, 0)
			return
		}
		s.publish(sess, []engine.Event{ev})
		s.timers.schedule(sess.ID, timerSkip, time.Second, s.guard(sess.ID, timerSkip, s.tickSkip))
		return
	}

	events, err := sess.Engine.SkipTurn()
	if err != nil {
		s.reconcile(sess, 0)
		return
	}
	s.publish(sess, events)
	s.logTurn(sess, "turn skipped")
	s.save(sess, "skip")
	s.reconcile(sess, 0)
}

func (s *gameServiceImpl) autoMove(sess *Session) {
	tok := sess.Engine.AutoMoveCandidate()
	if tok == nil {
		s.reconcile(sess, 0)
		return
	}
	if _, err := s.selectToken(sess, tok.Color, tok.Index); err != nil {
		s.logger.Warn("auto-move failed", zap.String("session", sess.ID), zap.Error(err))
	}
}

func (s *gameServiceImpl) autoRoll(sess *Session) {
	if !sess.Engine.AutoRollDue() {
		s.reconcile(sess, 0)
		return
	}
	if _, err := s.roll(sess, sess.Engine.Roll); err != nil {
		s.logger.Warn("auto-roll failed", zap.String("session", sess.ID), zap.Error(err))
	}
}
