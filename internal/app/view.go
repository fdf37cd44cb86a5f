package app

import (
	"clock-tutor-service/internal/clock"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/puzzle"
)

// Phase is the screen a lesson session is on.
type Phase string

const (
	PhasePlayerSelect  Phase = "player-select"
	PhaseStageSelect   Phase = "stage-select"
	PhaseInQuestion    Phase = "in-question"
	PhaseStageComplete Phase = "stage-complete"
)

// Notices shown alongside a phase.
const (
	NoticeStageEmpty    = "stage-empty"
	NoticeStageComplete = "stage-complete"
	NoticeAllComplete   = "all-complete"
)

// FeedbackKind is the outcome banner shown under a question.
type FeedbackKind string

const (
	FeedbackNone    FeedbackKind = ""
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

type Feedback struct {
	Kind    FeedbackKind `json:"type,omitempty"`
	Message string       `json:"message,omitempty"`
	// Reveal is the reference time shown after a correct clock adjustment.
	Reveal string `json:"reveal,omitempty"`
}

// View is everything a client needs to draw the current screen.
type View struct {
	SessionID       string           `json:"sessionId"`
	Phase           Phase            `json:"phase"`
	Players         []domain.Player  `json:"players,omitempty"`
	Leaderboard     []domain.Player  `json:"leaderboard,omitempty"`
	Player          *domain.Player   `json:"player,omitempty"`
	Stages          []domain.Stage   `json:"stages,omitempty"`
	Stage           int              `json:"stage,omitempty"`
	QuestionIndex   int              `json:"questionIndex"`
	QuestionCount   int              `json:"questionCount,omitempty"`
	Question        *QuestionView    `json:"question,omitempty"`
	Input           *clock.Face      `json:"input,omitempty"`
	Board           *puzzle.Snapshot `json:"board,omitempty"`
	Feedback        Feedback         `json:"feedback"`
	Notice          string           `json:"notice,omitempty"`
	AwaitingAdvance bool             `json:"awaitingAdvance"`
}

type QuestionView struct {
	ID       string              `json:"id"`
	Type     domain.QuestionType `json:"type"`
	Text     string              `json:"text"`
	Hint     string              `json:"hint,omitempty"`
	ImageURL string              `json:"imageUrl,omitempty"`
	// Face is the reference clock drawn above select questions.
	Face    *clock.Face  `json:"face,omitempty"`
	Options []OptionView `json:"options,omitempty"`
}

type OptionView struct {
	Index int         `json:"index"`
	Label string      `json:"label,omitempty"`
	Face  *clock.Face `json:"face,omitempty"`
}

func newQuestionView(q domain.Question) *QuestionView {
	v := &QuestionView{
		ID:       q.ID,
		Type:     q.Type,
		Text:     q.Text,
		Hint:     q.Hint,
		ImageURL: q.ImageURL,
	}
	if q.Type == domain.TypeSelect {
		face := clock.NewFace(q.Time.Hour, q.Time.Minute)
		v.Face = &face
	}
	switch p := q.Payload.(type) {
	case domain.TextChoicePayload:
		for i, opt := range p.Options {
			v.Options = append(v.Options, OptionView{Index: i, Label: opt})
		}
	case domain.ClockChoicePayload:
		for i, opt := range p.Options {
			face := clock.NewFace(opt.Hour, opt.Minute)
			v.Options = append(v.Options, OptionView{Index: i, Face: &face})
		}
	}
	return v
}
