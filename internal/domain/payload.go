package domain

// Payload is the type-specific part of a question. The set of
// implementations is closed to this package.
type Payload interface {
	Check(answer Answer) bool
	fits(t QuestionType) bool
	validate() error
}

// ClockAdjustPayload asks the player to set the clock to Target.
type ClockAdjustPayload struct {
	Target ClockTime
}

// TextChoicePayload offers labelled options; the answer is the label itself.
type TextChoicePayload struct {
	Options []string
	Answer  string
}

// ClockChoicePayload offers clock faces; the answer is the index of the right one.
type ClockChoicePayload struct {
	Options []ClockTime
	Answer  int
}

// MatchSide tells which column a match node belongs to.
type MatchSide string

const (
	SideAnalog  MatchSide = "analog"
	SideDigital MatchSide = "digital"
)

// MatchNode is one card of the pairing puzzle. Analog nodes carry a time,
// digital nodes a label.
type MatchNode struct {
	ID     string
	Side   MatchSide
	Time   ClockTime
	Text   string
	PairID string
}

// MatchPayload is the pairing puzzle. Pairs is the number of connections
// needed to finish.
type MatchPayload struct {
	Nodes []MatchNode
	Pairs int
}

// Left returns the analog nodes in stored order.
func (p MatchPayload) Left() []MatchNode { return p.side(SideAnalog) }

// Right returns the digital nodes in stored order.
func (p MatchPayload) Right() []MatchNode { return p.side(SideDigital) }

func (p MatchPayload) side(side MatchSide) []MatchNode {
	out := make([]MatchNode, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.Side == side {
			out = append(out, n)
		}
	}
	return out
}

// Answer is a candidate answer. The set of implementations is closed to
// this package.
type Answer interface {
	isAnswer()
}

// ClockAnswer is the time the player set on an interactive clock.
type ClockAnswer ClockTime

// IndexAnswer picks an option by position.
type IndexAnswer int

// TextAnswer picks an option by its label.
type TextAnswer string

// MatchCompleted is submitted when the pairing puzzle reports completion.
type MatchCompleted struct{}

func (ClockAnswer) isAnswer()    {}
func (IndexAnswer) isAnswer()    {}
func (TextAnswer) isAnswer()     {}
func (MatchCompleted) isAnswer() {}

func (p ClockAdjustPayload) Check(answer Answer) bool {
	a, ok := answer.(ClockAnswer)
	return ok && a.Hour == p.Target.Hour && a.Minute == p.Target.Minute
}

func (p TextChoicePayload) Check(answer Answer) bool {
	a, ok := answer.(TextAnswer)
	return ok && string(a) == p.Answer
}

func (p ClockChoicePayload) Check(answer Answer) bool {
	a, ok := answer.(IndexAnswer)
	return ok && int(a) == p.Answer
}

func (p MatchPayload) Check(answer Answer) bool {
	_, ok := answer.(MatchCompleted)
	return ok
}

func (ClockAdjustPayload) fits(t QuestionType) bool { return t == TypeClockAdjust }
func (TextChoicePayload) fits(t QuestionType) bool  { return t == TypeSelect || t == TypeActivity }
func (ClockChoicePayload) fits(t QuestionType) bool { return t == TypeSelect }
func (MatchPayload) fits(t QuestionType) bool       { return t == TypeMatch }
