package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateQuestion checks field ranges and the payload invariants of q.
func ValidateQuestion(q Question) error {
	if err := validatorInstance().Struct(q); err != nil {
		return fmt.Errorf("question %q: %w: %v", q.ID, ErrInvalidQuestion, err)
	}
	if !q.Payload.fits(q.Type) {
		return fmt.Errorf("question %q: %w: %T does not fit type %s", q.ID, ErrInvalidQuestion, q.Payload, q.Type)
	}
	if err := q.Payload.validate(); err != nil {
		return fmt.Errorf("question %q: %w: %v", q.ID, ErrInvalidQuestion, err)
	}
	return nil
}

// ValidateQuestions validates every question and rejects duplicate ids.
func ValidateQuestions(questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if err := ValidateQuestion(q); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("question %q: %w: duplicate id", q.ID, ErrInvalidQuestion)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

func (p ClockAdjustPayload) validate() error {
	return validatorInstance().Struct(p.Target)
}

func (p TextChoicePayload) validate() error {
	if len(p.Options) == 0 {
		return fmt.Errorf("no options")
	}
	for _, opt := range p.Options {
		if opt == p.Answer {
			return nil
		}
	}
	return fmt.Errorf("answer %q is not an option", p.Answer)
}

func (p ClockChoicePayload) validate() error {
	if len(p.Options) == 0 {
		return fmt.Errorf("no options")
	}
	for _, opt := range p.Options {
		if err := validatorInstance().Struct(opt); err != nil {
			return err
		}
	}
	if p.Answer < 0 || p.Answer >= len(p.Options) {
		return fmt.Errorf("answer index %d out of range", p.Answer)
	}
	return nil
}

// validate requires a perfect matching: every analog node points at a
// distinct digital node that points back.
func (p MatchPayload) validate() error {
	left, right := p.Left(), p.Right()
	if len(left) == 0 || len(left) != len(right) || len(left)+len(right) != len(p.Nodes) {
		return fmt.Errorf("need equal, non-empty analog and digital columns")
	}
	rights := make(map[string]MatchNode, len(right))
	for _, n := range right {
		if _, dup := rights[n.ID]; dup {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		rights[n.ID] = n
	}
	taken := make(map[string]bool, len(left))
	seenLeft := make(map[string]bool, len(left))
	for _, n := range left {
		if seenLeft[n.ID] || rights[n.ID].ID != "" {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		seenLeft[n.ID] = true
		if err := validatorInstance().Struct(n.Time); err != nil {
			return fmt.Errorf("node %q: %v", n.ID, err)
		}
		partner, ok := rights[n.PairID]
		if !ok {
			return fmt.Errorf("node %q pairs with missing %q", n.ID, n.PairID)
		}
		if partner.PairID != n.ID {
			return fmt.Errorf("node %q and %q do not pair both ways", n.ID, partner.ID)
		}
		if taken[partner.ID] {
			return fmt.Errorf("node %q is paired twice", partner.ID)
		}
		taken[partner.ID] = true
	}
	if p.Pairs != len(left) {
		return fmt.Errorf("expected %d pairs, got %d", len(left), p.Pairs)
	}
	return nil
}
