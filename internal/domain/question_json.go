package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// questionDoc is the stored and exported shape of a question. options and
// correctAnswer vary with the type tag.
type questionDoc struct {
	ID            string          `json:"id"`
	StageID       int             `json:"stageId"`
	Type          QuestionType    `json:"type"`
	QuestionText  string          `json:"questionText"`
	Hour          int             `json:"hour"`
	Minute        int             `json:"minute"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Hint          string          `json:"hint"`
	ImageURL      string          `json:"imageUrl,omitempty"`
}

type matchNodeDoc struct {
	ID     string    `json:"id"`
	Type   MatchSide `json:"type"`
	Hour   *int      `json:"hour,omitempty"`
	Minute *int      `json:"minute,omitempty"`
	Text   string    `json:"text,omitempty"`
	PairID string    `json:"pairId"`
}

// MarshalJSON writes the question in document form.
func (q Question) MarshalJSON() ([]byte, error) {
	doc := questionDoc{
		ID:           q.ID,
		StageID:      q.StageID,
		Type:         q.Type,
		QuestionText: q.Text,
		Hour:         q.Time.Hour,
		Minute:       q.Time.Minute,
		Hint:         q.Hint,
		ImageURL:     q.ImageURL,
	}

	var options, answer any
	switch p := q.Payload.(type) {
	case ClockAdjustPayload:
		answer = p.Target
	case TextChoicePayload:
		options, answer = p.Options, p.Answer
	case ClockChoicePayload:
		options, answer = p.Options, p.Answer
	case MatchPayload:
		nodes := make([]matchNodeDoc, 0, len(p.Nodes))
		for _, n := range p.Nodes {
			nodes = append(nodes, n.doc())
		}
		options, answer = nodes, p.Pairs
	case nil:
		return nil, fmt.Errorf("question %s: %w: no payload", q.ID, ErrInvalidQuestion)
	}

	var err error
	if options != nil {
		if doc.Options, err = json.Marshal(options); err != nil {
			return nil, err
		}
	}
	if doc.CorrectAnswer, err = json.Marshal(answer); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads the document form and decodes options/correctAnswer
// into the payload variant that matches the type tag.
func (q *Question) UnmarshalJSON(data []byte) error {
	var doc questionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	payload, err := decodePayload(doc)
	if err != nil {
		return fmt.Errorf("question %q: %w", doc.ID, err)
	}

	*q = Question{
		ID:       doc.ID,
		StageID:  doc.StageID,
		Type:     doc.Type,
		Text:     doc.QuestionText,
		Time:     ClockTime{Hour: doc.Hour, Minute: doc.Minute},
		Hint:     doc.Hint,
		ImageURL: doc.ImageURL,
		Payload:  payload,
	}
	return nil
}

func decodePayload(doc questionDoc) (Payload, error) {
	switch doc.Type {
	case TypeClockAdjust:
		var target ClockTime
		if err := json.Unmarshal(doc.CorrectAnswer, &target); err != nil {
			return nil, fmt.Errorf("correctAnswer: %w", err)
		}
		return ClockAdjustPayload{Target: target}, nil

	case TypeSelect, TypeActivity:
		var raw []json.RawMessage
		if err := json.Unmarshal(doc.Options, &raw); err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		if doc.Type == TypeSelect && len(raw) > 0 && isObject(raw[0]) {
			p := ClockChoicePayload{}
			if err := json.Unmarshal(doc.Options, &p.Options); err != nil {
				return nil, fmt.Errorf("options: %w", err)
			}
			if err := json.Unmarshal(doc.CorrectAnswer, &p.Answer); err != nil {
				return nil, fmt.Errorf("correctAnswer: %w", err)
			}
			return p, nil
		}
		p := TextChoicePayload{}
		if err := json.Unmarshal(doc.Options, &p.Options); err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		if err := json.Unmarshal(doc.CorrectAnswer, &p.Answer); err != nil {
			return nil, fmt.Errorf("correctAnswer: %w", err)
		}
		return p, nil

	case TypeMatch:
		var nodes []matchNodeDoc
		if err := json.Unmarshal(doc.Options, &nodes); err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		p := MatchPayload{Nodes: make([]MatchNode, 0, len(nodes))}
		for _, n := range nodes {
			p.Nodes = append(p.Nodes, n.node())
		}
		if err := json.Unmarshal(doc.CorrectAnswer, &p.Pairs); err != nil {
			return nil, fmt.Errorf("correctAnswer: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, doc.Type)
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func (n MatchNode) doc() matchNodeDoc {
	d := matchNodeDoc{ID: n.ID, Type: n.Side, PairID: n.PairID}
	if n.Side == SideAnalog {
		hour, minute := n.Time.Hour, n.Time.Minute
		d.Hour, d.Minute = &hour, &minute
	} else {
		d.Text = n.Text
	}
	return d
}

func (d matchNodeDoc) node() MatchNode {
	n := MatchNode{ID: d.ID, Side: d.Type, Text: d.Text, PairID: d.PairID}
	if d.Hour != nil {
		n.Time.Hour = *d.Hour
	}
	if d.Minute != nil {
		n.Time.Minute = *d.Minute
	}
	return n
}
