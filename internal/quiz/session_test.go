package quiz

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func threeQuestions() []Question {
	return []Question{
		{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1, Explanation: "basic addition"},
		{Prompt: "capital of France?", Options: []string{"Paris", "Lyon"}, CorrectIndex: 0, Explanation: "geography"},
		{Prompt: "H2O is?", Options: []string{"salt", "water"}, CorrectIndex: 1, Explanation: "chemistry"},
	}
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{name: "valid", raw: `[{"prompt":"q","options":["a","b"],"correct_index":0,"explanation":"e"}]`, wantLen: 1},
		{name: "empty payload", raw: ``, wantErr: true},
		{name: "empty array", raw: `[]`, wantErr: true},
		{name: "malformed", raw: `{"not":"an array"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := ParseQuestions([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuestions: %v", err)
			}
			if len(questions) != tt.wantLen {
				t.Fatalf("questions = %d, want %d", len(questions), tt.wantLen)
			}
		})
	}
}

func TestSessionAllCorrect(t *testing.T) {
	done := make(chan int, 1)
	session, err := NewSession(testLogger(t), SessionConfig{
		UserID:    uuid.New(),
		GameID:    uuid.New(),
		Questions: threeQuestions(),
		OnComplete: func(score, elapsed int) {
			done <- score
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	answers := []int{1, 0, 1}
	for i, answer := range answers {
		if err := session.Answer(answer); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		snap := session.Snapshot()
		if snap.Phase != PhaseExplanation {
			t.Fatalf("after answer %d phase = %s, want %s", i, snap.Phase, PhaseExplanation)
		}
		session.Advance()
	}

	select {
	case score := <-done:
		if score != 100 {
			t.Fatalf("final score = %d, want 100", score)
		}
	case <-time.After(time.Second):
		t.Fatal("completion callback never fired")
	}

	snap := session.Snapshot()
	if snap.Phase != PhaseFinished {
		t.Errorf("phase = %s, want %s", snap.Phase, PhaseFinished)
	}
	if snap.FinalScore == nil || *snap.FinalScore != 100 {
		t.Error("snapshot missing final score")
	}
}

func TestSessionAllWrong(t *testing.T) {
	done := make(chan int, 1)
	session, err := NewSession(testLogger(t), SessionConfig{
		Questions: threeQuestions(),
		OnComplete: func(score, elapsed int) {
			done <- score
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for range threeQuestions() {
		if err := session.Answer(0); err != nil {
			t.Fatalf("answer: %v", err)
		}
		session.Advance()
	}
	// First question's wrong answer is option 0, but question 2's correct
	// answer is also option 0, so one of three is right.
	score := <-done
	if score != 33 {
		t.Fatalf("final score = %d, want 33", score)
	}
}

func TestSessionReSelectionIgnored(t *testing.T) {
	session, err := NewSession(testLogger(t), SessionConfig{Questions: threeQuestions()})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.Answer(0); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	// Switching to the correct option during the explanation must not count.
	if err := session.Answer(1); err != nil {
		t.Fatalf("re-selection should be a silent no-op: %v", err)
	}
	snap := session.Snapshot()
	if snap.CorrectCount != 0 {
		t.Fatalf("correct count = %d, want 0 after locked-in wrong answer", snap.CorrectCount)
	}
	if snap.SelectedOption == nil || *snap.SelectedOption != 0 {
		t.Fatal("selected option changed after lock-in")
	}
}

func TestSessionAnswerOutOfRange(t *testing.T) {
	session, err := NewSession(testLogger(t), SessionConfig{Questions: threeQuestions()})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.Answer(5); err == nil {
		t.Fatal("expected error for out-of-range option")
	}
	if err := session.Answer(-1); err == nil {
		t.Fatal("expected error for negative option")
	}
	if snap := session.Snapshot(); snap.Phase != PhaseAnswering {
		t.Fatalf("phase = %s, want still %s", snap.Phase, PhaseAnswering)
	}
}

func TestSessionTimeLimitForcesFinish(t *testing.T) {
	var calls atomic.Int32
	done := make(chan int, 1)
	session, err := NewSession(testLogger(t), SessionConfig{
		Questions:        threeQuestions(),
		TimeLimitSeconds: 3,
		TickInterval:     time.Millisecond,
		OnComplete: func(score, elapsed int) {
			calls.Add(1)
			done <- score
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	// One correct answer before the clock runs out.
	if err := session.Answer(1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	session.Advance()
	session.Start()

	select {
	case score := <-done:
		if score != 33 {
			t.Fatalf("forced-finish score = %d, want 33 (in-progress question uncounted)", score)
		}
	case <-time.After(time.Second):
		t.Fatal("time limit never fired")
	}
	if !session.Finished() {
		t.Fatal("session not finished after time limit")
	}

	// Manual path after the timer must not fire the callback again.
	session.Advance()
	time.Sleep(10 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("completion callback fired %d times, want exactly 1", got)
	}
}

func TestSessionCallbackOnceOnManualFinish(t *testing.T) {
	var calls atomic.Int32
	session, err := NewSession(testLogger(t), SessionConfig{
		Questions:        threeQuestions()[:1],
		TimeLimitSeconds: 1,
		TickInterval:     time.Millisecond,
		OnComplete: func(score, elapsed int) {
			calls.Add(1)
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.Start()
	if err := session.Answer(1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	session.Advance()

	deadline := time.After(time.Second)
	for !session.Finished() {
		select {
		case <-deadline:
			t.Fatal("session never finished")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	time.Sleep(10 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("completion callback fired %d times, want exactly 1", got)
	}
}

func TestManagerReapsTimerFinishedSession(t *testing.T) {
	manager := NewManager(testLogger(t))
	manager.retention = 20 * time.Millisecond
	session, err := manager.StartSession(SessionConfig{
		Questions:        threeQuestions(),
		TimeLimitSeconds: 1,
		TickInterval:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	select {
	case <-session.Done():
	case <-time.After(time.Second):
		t.Fatal("time limit never finished the session")
	}
	if !session.Finished() {
		t.Fatal("session not finished after time limit")
	}

	// The session was never advanced by a client; the manager must still
	// drop it after the retention window.
	deadline := time.After(time.Second)
	for {
		if _, err := manager.Get(session.ID); err != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timer-finished session still registered in manager")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestManagerReapsIdleSession(t *testing.T) {
	var calls atomic.Int32
	manager := NewManager(testLogger(t))
	manager.retention = 20 * time.Millisecond
	session, err := manager.StartSession(SessionConfig{
		Questions:        threeQuestions(),
		IdleLimitSeconds: 2,
		TickInterval:     time.Millisecond,
		OnComplete: func(score, elapsed int) {
			calls.Add(1)
		},
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	select {
	case <-session.Done():
	case <-time.After(time.Second):
		t.Fatal("abandoned session never expired")
	}
	if !session.Finished() {
		t.Fatal("session not terminal after idle expiry")
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("idle expiry fired the completion callback %d times, want 0", got)
	}

	deadline := time.After(time.Second)
	for {
		if _, err := manager.Get(session.ID); err != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("expired session still registered in manager")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSessionAnswerResetsIdleClock(t *testing.T) {
	session, err := NewSession(testLogger(t), SessionConfig{
		Questions:        threeQuestions(),
		IdleLimitSeconds: 3,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.tick()
	session.tick()
	if err := session.Answer(1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	session.tick()
	session.tick()
	if session.Finished() {
		t.Fatal("session expired despite recent activity")
	}
	session.Advance()
	session.tick()
	session.tick()
	session.tick()
	if !session.Finished() {
		t.Fatal("session did not expire after idle limit with no further activity")
	}
}

func TestManagerLifecycle(t *testing.T) {
	manager := NewManager(testLogger(t))
	session, err := manager.StartSession(SessionConfig{Questions: threeQuestions()})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	got, err := manager.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != session {
		t.Fatal("Get returned a different session")
	}
	manager.Remove(session.ID)
	if _, err := manager.Get(session.ID); err == nil {
		t.Fatal("expected error after Remove")
	}
	// Stop the ticker goroutine.
	session.finish()
}
