// Package interview generates interview questions from a job description and a
// résumé, keeps the candidate's answers and scores them with a text model.
package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/quasivo/internal/ai"
	"github.com/spigell/quasivo/internal/logger"
	"github.com/spigell/quasivo/internal/prompt"

	"go.uber.org/zap"
)

// ErrNoQuestions is returned when scoring is requested before questions exist.
var ErrNoQuestions = errors.New("no interview questions generated yet")

type Interviewer struct {
	generator ai.Generator
	logger    *zap.Logger
}

func New(generator ai.Generator, log *zap.Logger) *Interviewer {
	return &Interviewer{
		generator: generator,
		logger:    logger.WithFields(log, logger.StringFields(logger.StringField{Key: logger.FieldModel, Value: generator.Model()})...),
	}
}

// GenerateQuestions asks the model for questions about the input. A model
// failure is returned as is; callers decide how to show it.
func (i *Interviewer) GenerateQuestions(ctx context.Context, in Input) ([]string, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	raw, err := i.generator.GenerateContent(ctx, prompt.Questions(in.JobDescription, in.Resume))
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}

	questions := SelectQuestions(raw)

	i.logger.Debug("questions parsed",
		zap.Strings("parsed", ParseQuestions(raw)),
		zap.Strings("selected", questions),
	)

	return questions, nil
}

// ScoreAnswers scores every answer of the session, one model call at a time.
// A failed call counts as an empty completion and scores 0.
func (i *Interviewer) ScoreAnswers(ctx context.Context, s *Session) ([]int, error) {
	if s == nil || !s.Active() {
		return nil, ErrNoQuestions
	}

	in := s.Input()
	answers := s.Answers()
	scores := make([]int, 0, s.Len())

	for idx, question := range s.Questions() {
		scores = append(scores, i.ScoreAnswer(ctx, in, idx, question, answers[idx]))
	}

	return scores, nil
}

// ScoreAnswer scores a single answer; idx is only used for logging.
func (i *Interviewer) ScoreAnswer(ctx context.Context, in Input, idx int, question, answer string) int {
	raw, err := i.generator.GenerateContent(ctx, prompt.Score(in.JobDescription, in.Resume, question, answer))
	if err != nil {
		i.logger.Warn("scoring failed, counting as unparseable",
			logger.Question(idx),
			zap.Error(err),
		)
		raw = ""
	}

	score := ParseScore(raw)
	i.logger.Debug("answer scored", logger.Question(idx), zap.Int("score", score))

	return score
}
