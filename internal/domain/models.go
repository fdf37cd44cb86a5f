package domain

// Player is a child profile and their accumulated progress.
type Player struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Avatar          string   `json:"avatar"`
	Stars           int      `json:"stars"`
	CompletedStages []string `json:"completedStages"`
}

// ClockTime is an hour/minute pair shown on, or set with, an analog clock.
type ClockTime struct {
	Hour   int `json:"hour" validate:"min=1,max=12"`
	Minute int `json:"minute" validate:"min=0,max=59"`
}

// QuestionType is the closed set of question shapes.
type QuestionType string

const (
	TypeSelect      QuestionType = "select"
	TypeClockAdjust QuestionType = "clock-adjust"
	TypeMatch       QuestionType = "match"
	TypeActivity    QuestionType = "activity"
)

// Question is one item in the question bank. Payload carries the
// type-dependent options and correct answer.
type Question struct {
	ID       string       `validate:"required"`
	StageID  int          `validate:"min=1"`
	Type     QuestionType `validate:"oneof=select clock-adjust match activity"`
	Text     string       `validate:"required"`
	Time     ClockTime
	Hint     string
	ImageURL string `validate:"omitempty,url"`
	Payload  Payload `validate:"required"`
}

// Check reports whether answer is correct for this question.
func (q Question) Check(answer Answer) bool {
	if q.Payload == nil {
		return false
	}
	return q.Payload.Check(answer)
}

// Stage is a lesson unit. Stages are implied by Question.StageID; the
// catalogue only adds titles.
type Stage struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Theme string `json:"theme"`
}

// FinalStage is the last stage of the shipped lesson plan.
const FinalStage = 3

// Stages returns the stage catalogue in play order.
func Stages() []Stage {
	return []Stage{
		{ID: 1, Title: "Đồng hồ kim", Theme: "analog"},
		{ID: 2, Title: "Đồng hồ số", Theme: "digital"},
		{ID: 3, Title: "Vận dụng", Theme: "applied"},
	}
}

// LookupStage finds a stage in the catalogue.
func LookupStage(id int) (Stage, bool) {
	for _, s := range Stages() {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}
