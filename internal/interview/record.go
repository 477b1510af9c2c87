package interview

import (
	"errors"
	"fmt"
	"time"

	"github.com/spigell/quasivo/internal/recorder"
)

// ErrMisaligned is returned when scores do not line up with the session's questions.
var ErrMisaligned = errors.New("questions, answers and scores are not aligned")

// NewRecord builds the transcript of a scored session.
func NewRecord(s *Session, scores []int, at time.Time) (*recorder.Record, error) {
	if s == nil || !s.Active() {
		return nil, ErrNoQuestions
	}

	questions := s.Questions()
	answers := s.Answers()

	if len(answers) != len(questions) || len(scores) != len(questions) {
		return nil, fmt.Errorf("%w: %d questions, %d answers, %d scores",
			ErrMisaligned, len(questions), len(answers), len(scores))
	}

	in := s.Input()

	return &recorder.Record{
		Timestamp:      at.UTC().Format(time.RFC3339),
		JobDescription: in.JobDescription,
		Resume:         in.Resume,
		Questions:      questions,
		Answers:        answers,
		Scores:         append([]int(nil), scores...),
	}, nil
}
