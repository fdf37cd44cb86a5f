package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"clock-tutor-service/internal/clock"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/logging"
	"clock-tutor-service/internal/puzzle"
)

const (
	phraseWelcome     = "Chào mừng bé %s đến với trò chơi học xem giờ!"
	phraseCorrect     = "Đúng rồi!"
	phraseWrong       = "Chưa chính xác"
	phraseRetry       = "Chưa chính xác. Bé thử lại nhé!"
	phraseMatchRetry  = "Chưa chính xác. Bé hãy thử lại nhé!"
	phraseAllComplete = "Tuyệt vời! Bé đã hoàn thành tất cả các chặng rồi!"

	leaderboardSize = 3
)

// Rules are the tunable parts of lesson progression.
type Rules struct {
	RewardStars        int
	FinalStage         int
	AdvanceDelay       time.Duration
	MatchCompleteDelay time.Duration
	StageAdvanceDelay  time.Duration
}

func DefaultRules() Rules {
	return Rules{
		RewardStars:        5,
		FinalStage:         domain.FinalStage,
		AdvanceDelay:       1500 * time.Millisecond,
		MatchCompleteDelay: time.Second,
		StageAdvanceDelay:  time.Second,
	}
}

// Presenter receives everything a session wants the child to hear or see.
// Render is only called for changes the caller did not trigger directly,
// such as a delayed advance; direct calls return their View.
type Presenter interface {
	Speak(text string)
	Render(view View)
}

// LessonService creates lesson sessions bound to one storage gateway.
type LessonService struct {
	gateway   *Gateway
	players   *PlayerFactory
	scheduler Scheduler
	rules     Rules
	log       *logging.Logger
}

func NewLessonService(gateway *Gateway, players *PlayerFactory, scheduler Scheduler, rules Rules, log *logging.Logger) *LessonService {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &LessonService{gateway: gateway, players: players, scheduler: scheduler, rules: rules, log: log}
}

// NewSession opens a session on the player-select screen.
func (s *LessonService) NewSession(id string, presenter Presenter) *Session {
	return &Session{
		id:        id,
		svc:       s,
		presenter: presenter,
		phase:     PhasePlayerSelect,
		log:       s.log.With("session", id),
	}
}

// Session is one child's walk through the game. All methods are safe for
// concurrent use; delayed transitions run on the service scheduler and are
// dropped when the child navigates away first.
type Session struct {
	id        string
	svc       *LessonService
	presenter Presenter
	log       *logging.Logger

	mu        sync.Mutex
	phase     Phase
	roster    []domain.Player
	player    *domain.Player
	stage     int
	questions []domain.Question
	index     int
	input     domain.ClockTime
	board     *puzzle.Board
	feedback  Feedback
	notice    string

	generation uint64
	cancel     func()
	pending    bool
	closed     bool
}

func (s *Session) ID() string { return s.id }

// Start loads the roster and returns the player-select view.
func (s *Session) Start(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshRosterLocked(ctx); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// SelectPlayer picks an existing profile and greets the child.
func (s *Session) SelectPlayer(ctx context.Context, playerID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlayerSelect {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	player, err := s.svc.gateway.Player(ctx, playerID)
	if err != nil {
		return s.viewLocked(), err
	}
	s.enterPlayerLocked(player)
	return s.viewLocked(), nil
}

// CreatePlayer stores a new profile and selects it.
func (s *Session) CreatePlayer(ctx context.Context, name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlayerSelect {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	player, err := s.svc.players.New(name)
	if err != nil {
		return s.viewLocked(), err
	}
	if err := s.svc.gateway.SavePlayer(ctx, player); err != nil {
		return s.viewLocked(), err
	}
	s.log.Info("player created", "player", player.ID)
	s.enterPlayerLocked(player)
	return s.viewLocked(), nil
}

func (s *Session) enterPlayerLocked(player domain.Player) {
	s.resetLocked()
	s.player = &player
	s.phase = PhaseStageSelect
	s.speakLocked(fmt.Sprintf(phraseWelcome, player.Name))
}

// LeavePlayer returns to the player-select screen from anywhere.
func (s *Session) LeavePlayer(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.player = nil
	s.phase = PhasePlayerSelect
	if err := s.refreshRosterLocked(ctx); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// StartStage loads a stage's questions and shows the first one. A stage
// with no questions keeps the child on stage-select with a notice.
func (s *Session) StartStage(ctx context.Context, stage int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseStageSelect {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	err := s.startStageLocked(ctx, stage)
	return s.viewLocked(), err
}

func (s *Session) startStageLocked(ctx context.Context, stage int) error {
	if _, ok := domain.LookupStage(stage); !ok {
		return domain.ErrStageNotFound
	}
	questions, err := s.svc.gateway.StageQuestions(ctx, stage)
	if err != nil {
		return err
	}
	s.resetLocked()
	if len(questions) == 0 {
		s.phase = PhaseStageSelect
		s.notice = NoticeStageEmpty
		return nil
	}
	s.stage = stage
	s.questions = questions
	s.index = 0
	s.phase = PhaseInQuestion
	s.enterQuestionLocked()
	return nil
}

// ExitStage abandons the current stage without reward.
func (s *Session) ExitStage() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInQuestion && s.phase != PhaseStageComplete {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	s.resetLocked()
	s.phase = PhaseStageSelect
	return s.viewLocked(), nil
}

func (s *Session) enterQuestionLocked() {
	q := s.questions[s.index]
	s.input = domain.ClockTime{Hour: clock.DefaultHour, Minute: clock.DefaultMinute}
	s.feedback = Feedback{}
	s.board = nil
	if p, ok := q.Payload.(domain.MatchPayload); ok {
		s.board = puzzle.NewBoard(p)
	}
	s.speakLocked(q.Text)
}

// AdjustHour moves the hour hand forward one step, wrapping 12 to 1.
func (s *Session) AdjustHour() (View, error) {
	return s.adjust(func(t domain.ClockTime) domain.ClockTime {
		t.Hour = clock.NextHour(t.Hour)
		return t
	})
}

// ToggleMinute flips the minute hand between quarter and half past.
func (s *Session) ToggleMinute() (View, error) {
	return s.adjust(func(t domain.ClockTime) domain.ClockTime {
		t.Minute = clock.ToggleMinute(t.Minute)
		return t
	})
}

func (s *Session) adjust(fn func(domain.ClockTime) domain.ClockTime) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.currentLocked()
	if !ok || q.Type != domain.TypeClockAdjust {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	if s.pending {
		return s.viewLocked(), nil
	}
	s.input = fn(s.input)
	s.feedback = Feedback{}
	return s.viewLocked(), nil
}

// SubmitClock checks the adjustable clock against the question target.
func (s *Session) SubmitClock() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.currentLocked()
	if !ok || q.Type != domain.TypeClockAdjust {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	s.submitLocked(q, domain.ClockAnswer(s.input))
	return s.viewLocked(), nil
}

// Choose answers a multiple-choice question with the option at index.
func (s *Session) Choose(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.currentLocked()
	if !ok {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	var answer domain.Answer
	switch p := q.Payload.(type) {
	case domain.ClockChoicePayload:
		if index < 0 || index >= len(p.Options) {
			return s.viewLocked(), domain.ErrOptionNotFound
		}
		answer = domain.IndexAnswer(index)
	case domain.TextChoicePayload:
		if index < 0 || index >= len(p.Options) {
			return s.viewLocked(), domain.ErrOptionNotFound
		}
		answer = domain.TextAnswer(p.Options[index])
	default:
		return s.viewLocked(), domain.ErrWrongPhase
	}
	s.submitLocked(q, answer)
	return s.viewLocked(), nil
}

// Submit checks an arbitrary answer against the current question. Match
// questions only complete through ClickMatch.
func (s *Session) Submit(answer domain.Answer) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.currentLocked()
	if !ok || q.Type == domain.TypeMatch {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	s.submitLocked(q, answer)
	return s.viewLocked(), nil
}

func (s *Session) submitLocked(q domain.Question, answer domain.Answer) {
	if s.pending {
		return
	}
	if !q.Check(answer) {
		s.feedback = Feedback{Kind: FeedbackError, Message: phraseWrong}
		s.speakLocked(phraseRetry)
		return
	}
	s.feedback = Feedback{Kind: FeedbackSuccess, Message: phraseCorrect}
	if q.Type == domain.TypeClockAdjust {
		s.feedback.Reveal = fmt.Sprintf("%d:%02d", q.Time.Hour, q.Time.Minute)
	}
	s.speakLocked(phraseCorrect)
	s.scheduleLocked(s.svc.rules.AdvanceDelay, s.advanceLocked)
}

// ClickMatch forwards a card click to the pairing puzzle.
func (s *Session) ClickMatch(itemID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.currentLocked(); !ok || s.board == nil {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	if s.pending {
		return s.viewLocked(), nil
	}
	out, err := s.board.Click(itemID)
	if err != nil {
		return s.viewLocked(), err
	}
	switch out.Result {
	case puzzle.Connected:
		s.feedback = Feedback{}
		s.speakLocked(phraseCorrect)
	case puzzle.Mismatched:
		s.feedback = Feedback{Kind: FeedbackError, Message: phraseWrong}
		s.speakLocked(phraseMatchRetry)
	}
	if out.Complete {
		s.feedback = Feedback{Kind: FeedbackSuccess, Message: phraseCorrect}
		s.scheduleLocked(s.svc.rules.MatchCompleteDelay, s.advanceLocked)
	}
	return s.viewLocked(), nil
}

// ReplayPrompt reads the current question aloud again.
func (s *Session) ReplayPrompt() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.currentLocked()
	if !ok {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	s.speakLocked(q.Text)
	return s.viewLocked(), nil
}

// SpeakOption reads one answer option aloud.
func (s *Session) SpeakOption(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.currentLocked()
	if !ok {
		return s.viewLocked(), domain.ErrWrongPhase
	}
	switch p := q.Payload.(type) {
	case domain.TextChoicePayload:
		if index < 0 || index >= len(p.Options) {
			return s.viewLocked(), domain.ErrOptionNotFound
		}
		s.speakLocked(p.Options[index])
	case domain.ClockChoicePayload:
		if index < 0 || index >= len(p.Options) {
			return s.viewLocked(), domain.ErrOptionNotFound
		}
		opt := p.Options[index]
		s.speakLocked(clock.Spoken(opt.Hour, opt.Minute))
	default:
		return s.viewLocked(), domain.ErrWrongPhase
	}
	return s.viewLocked(), nil
}

// View returns the current screen.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Close cancels any pending transition. Later timer callbacks are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.closed = true
}

func (s *Session) advanceLocked(ctx context.Context) {
	if s.index+1 < len(s.questions) {
		s.index++
		s.enterQuestionLocked()
		return
	}
	s.completeStageLocked(ctx)
}

func (s *Session) completeStageLocked(ctx context.Context) {
	stage := s.stage
	if s.player != nil {
		s.player.Stars += s.svc.rules.RewardStars
		s.player.CompletedStages = append(s.player.CompletedStages, strconv.Itoa(stage))
		if err := s.svc.gateway.SavePlayer(ctx, *s.player); err != nil {
			s.log.Error("save player progress", "player", s.player.ID, "stage", stage, "err", err)
		}
		s.log.Info("stage completed", "player", s.player.ID, "stage", stage, "stars", s.player.Stars)
	}
	if err := s.refreshRosterLocked(ctx); err != nil {
		s.log.Warn("refresh roster", "err", err)
	}

	s.questions = nil
	s.index = 0
	s.board = nil
	s.feedback = Feedback{}
	if stage >= s.svc.rules.FinalStage {
		s.stage = 0
		s.phase = PhaseStageSelect
		s.notice = NoticeAllComplete
		s.speakLocked(phraseAllComplete)
		return
	}
	s.phase = PhaseStageComplete
	s.notice = NoticeStageComplete
	next := stage + 1
	s.scheduleLocked(s.svc.rules.StageAdvanceDelay, func(ctx context.Context) {
		s.phase = PhaseStageSelect
		if err := s.startStageLocked(ctx, next); err != nil {
			s.log.Error("start next stage", "stage", next, "err", err)
		}
	})
}

// scheduleLocked arms a single delayed transition. The callback only runs
// if no navigation happened in between.
func (s *Session) scheduleLocked(d time.Duration, fn func(ctx context.Context)) {
	s.cancelLocked()
	gen := s.generation
	s.pending = true
	s.cancel = s.svc.scheduler.After(d, func() {
		s.mu.Lock()
		if s.closed || s.generation != gen {
			s.mu.Unlock()
			return
		}
		s.cancel = nil
		s.pending = false
		fn(context.Background())
		view := s.viewLocked()
		s.mu.Unlock()
		if s.presenter != nil {
			s.presenter.Render(view)
		}
	})
}

func (s *Session) cancelLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = false
}

// resetLocked drops all stage state and any pending transition.
func (s *Session) resetLocked() {
	s.cancelLocked()
	s.stage = 0
	s.questions = nil
	s.index = 0
	s.board = nil
	s.feedback = Feedback{}
	s.notice = ""
}

func (s *Session) currentLocked() (domain.Question, bool) {
	if s.phase != PhaseInQuestion || s.index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

func (s *Session) refreshRosterLocked(ctx context.Context) error {
	players, err := s.svc.gateway.Players(ctx)
	if err != nil {
		return err
	}
	s.roster = players
	return nil
}

func (s *Session) speakLocked(text string) {
	if s.presenter != nil && text != "" {
		s.presenter.Speak(text)
	}
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID:       s.id,
		Phase:           s.phase,
		Stage:           s.stage,
		QuestionIndex:   s.index,
		QuestionCount:   len(s.questions),
		Feedback:        s.feedback,
		Notice:          s.notice,
		AwaitingAdvance: s.pending,
	}
	if s.player != nil {
		p := *s.player
		p.CompletedStages = append([]string(nil), s.player.CompletedStages...)
		v.Player = &p
	}
	switch s.phase {
	case PhasePlayerSelect:
		v.Players = append([]domain.Player{}, s.roster...)
		v.Leaderboard = topPlayers(s.roster, leaderboardSize)
	case PhaseStageSelect, PhaseStageComplete:
		v.Stages = domain.Stages()
	case PhaseInQuestion:
		q := s.questions[s.index]
		v.Question = newQuestionView(q)
		if q.Type == domain.TypeClockAdjust {
			face := clock.NewFace(s.input.Hour, s.input.Minute)
			v.Input = &face
		}
		if s.board != nil {
			snap := s.board.Snapshot(puzzle.DefaultLayout)
			v.Board = &snap
		}
	}
	return v
}
