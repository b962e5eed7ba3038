package quiz

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/logger"
)

type Phase string

const (
	PhaseAnswering   Phase = "answering"
	PhaseExplanation Phase = "explanation"
	PhaseFinished    Phase = "finished"
)

type Question struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// ParseQuestions decodes a game's question set from its catalog JSON.
func ParseQuestions(raw []byte) ([]Question, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("game has no questions")
	}
	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("invalid question data: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("game has no questions")
	}
	return questions, nil
}

// CompletionFunc receives the final percentage score and elapsed seconds.
// It fires exactly once when a session finishes, from the manual path or the
// time-limit path; a session reaped for inactivity never finishes and never
// fires it.
type CompletionFunc func(score int, timeElapsedSeconds int)

type Snapshot struct {
	SessionID       uuid.UUID `json:"session_id"`
	Phase           Phase     `json:"phase"`
	QuestionIndex   int       `json:"question_index"`
	TotalQuestions  int       `json:"total_questions"`
	Question        *Question `json:"question,omitempty"`
	SelectedOption  *int      `json:"selected_option,omitempty"`
	CorrectCount    int       `json:"correct_count"`
	ElapsedSeconds  int       `json:"elapsed_seconds"`
	TimeLimitSecs   int       `json:"time_limit_seconds,omitempty"`
	FinalScore      *int      `json:"final_score,omitempty"`
}

// Session is one play-through:
// AnsweringQuestion(i) -> ShowingExplanation(i) -> AnsweringQuestion(i+1) | Finished.
// A one-second tick advances elapsed time; reaching the configured limit
// force-finishes, abandoning the in-progress question uncounted. Finished is
// terminal and the completion callback fires once, whichever of the timer
// path and the manual path gets there first.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID
	GameID uuid.UUID

	mu         sync.Mutex
	questions  []Question
	current    int
	correct    int
	selected   *int
	phase      Phase
	elapsed    int
	idle       int
	timeLimit  int
	idleLimit  int
	finished   bool
	finalScore int
	onComplete CompletionFunc
	done       chan struct{}

	tickInterval time.Duration
	log          *logger.Logger
}

// defaultIdleLimitSeconds bounds how long a session with no time limit can
// sit untouched before its ticker is stopped and it becomes reapable.
const defaultIdleLimitSeconds = 30 * 60

type SessionConfig struct {
	UserID           uuid.UUID
	GameID           uuid.UUID
	Questions        []Question
	TimeLimitSeconds int
	// IdleLimitSeconds expires a session after that many seconds without an
	// answer or advance; zero means thirty minutes.
	IdleLimitSeconds int
	OnComplete       CompletionFunc
	// TickInterval overrides the one-second tick; zero means one second.
	TickInterval time.Duration
}

func NewSession(log *logger.Logger, cfg SessionConfig) (*Session, error) {
	if len(cfg.Questions) == 0 {
		return nil, fmt.Errorf("session requires at least one question")
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	idleLimit := cfg.IdleLimitSeconds
	if idleLimit <= 0 {
		idleLimit = defaultIdleLimitSeconds
	}
	s := &Session{
		ID:           uuid.New(),
		UserID:       cfg.UserID,
		GameID:       cfg.GameID,
		questions:    cfg.Questions,
		phase:        PhaseAnswering,
		timeLimit:    cfg.TimeLimitSeconds,
		idleLimit:    idleLimit,
		onComplete:   cfg.OnComplete,
		done:         make(chan struct{}),
		tickInterval: tick,
		log:          log.With("component", "QuizSession"),
	}
	return s, nil
}

// Start launches the elapsed-time ticker. Writes issued by the completion
// callback are not retracted if the caller goes away; the session runs to
// Finished on its own once started.
func (s *Session) Start() {
	go s.run()
}

func (s *Session) run() {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Session) tick() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.elapsed++
	s.idle++
	expired := s.timeLimit > 0 && s.elapsed >= s.timeLimit
	abandoned := !expired && s.idle >= s.idleLimit
	s.mu.Unlock()
	if expired {
		s.finish()
		return
	}
	if abandoned {
		s.expire()
	}
}

// Answer records the selected option for the current question. Re-selection
// while the explanation is showing is a no-op, as is any call after Finished.
func (s *Session) Answer(optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return nil
	}
	if s.selected != nil {
		return nil
	}
	q := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("option index out of range")
	}
	idx := optionIndex
	s.selected = &idx
	if idx == q.CorrectIndex {
		s.correct++
	}
	s.phase = PhaseExplanation
	s.idle = 0
	return nil
}

// Advance moves past the explanation to the next question, or finishes the
// session after the last one.
func (s *Session) Advance() {
	s.mu.Lock()
	if s.phase != PhaseExplanation {
		s.mu.Unlock()
		return
	}
	s.selected = nil
	s.current++
	s.idle = 0
	if s.current < len(s.questions) {
		s.phase = PhaseAnswering
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.finish()
}

// finish transitions to the terminal state and fires the completion callback
// exactly once. The guard covers the race between the ticker goroutine and a
// manual advance off the last question.
func (s *Session) finish() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.phase = PhaseFinished
	s.selected = nil
	total := len(s.questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(s.correct) / float64(total) * 100))
	}
	s.finalScore = score
	elapsed := s.elapsed
	callback := s.onComplete
	close(s.done)
	s.mu.Unlock()

	if callback != nil {
		callback(score, elapsed)
	}
}

// expire abandons an idle session: the ticker stops and the session becomes
// reapable, but no score is recorded and the completion callback never fires.
func (s *Session) expire() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.phase = PhaseFinished
	s.selected = nil
	close(s.done)
	s.mu.Unlock()
	s.log.Debug("Quiz session expired for inactivity", "session_id", s.ID, "user_id", s.UserID)
}

// Done is closed when the session reaches its terminal state, whether it
// finished or expired.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SessionID:      s.ID,
		Phase:          s.phase,
		QuestionIndex:  s.current,
		TotalQuestions: len(s.questions),
		CorrectCount:   s.correct,
		ElapsedSeconds: s.elapsed,
		TimeLimitSecs:  s.timeLimit,
	}
	if s.selected != nil {
		idx := *s.selected
		snap.SelectedOption = &idx
	}
	if s.finished {
		score := s.finalScore
		snap.FinalScore = &score
	} else if s.current < len(s.questions) {
		q := s.questions[s.current]
		snap.Question = &q
	}
	return snap
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}
