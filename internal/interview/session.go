package interview

import (
	"errors"
	"fmt"
)

// ErrAnswerIndex is returned by SetAnswer for a position outside the question list.
var ErrAnswerIndex = errors.New("answer index out of range")

// Session holds the questions of the current interview round and the
// candidate's answers, index aligned. It is not safe for concurrent use.
type Session struct {
	input     Input
	questions []string
	answers   []string
}

func NewSession() *Session {
	return &Session{}
}

// Start replaces any previous round: the input is pinned, questions are
// copied and every answer is reset to an empty string.
func (s *Session) Start(in Input, questions []string) {
	s.input = in
	s.questions = append([]string(nil), questions...)
	s.answers = make([]string, len(questions))
}

// SetAnswer overwrites the answer at index.
func (s *Session) SetAnswer(index int, text string) error {
	if index < 0 || index >= len(s.answers) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrAnswerIndex, index, len(s.answers))
	}
	s.answers[index] = text
	return nil
}

func (s *Session) Active() bool {
	return len(s.questions) > 0
}

func (s *Session) Len() int {
	return len(s.questions)
}

func (s *Session) Input() Input {
	return s.input
}

func (s *Session) Questions() []string {
	return append([]string(nil), s.questions...)
}

func (s *Session) Answers() []string {
	return append([]string(nil), s.answers...)
}
