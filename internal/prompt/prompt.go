// Package prompt renders the two instructions sent to the model: one asking for
// interview questions and one asking to score a single answer.
package prompt

import (
	_ "embed"
	"strings"
)

// QuestionCount is how many questions the question prompt asks for.
const QuestionCount = 3

const (
	jobDescriptionPlaceholder = "{{JOB_DESCRIPTION}}"
	resumePlaceholder         = "{{RESUME}}"
	questionPlaceholder       = "{{QUESTION}}"
	answerPlaceholder         = "{{ANSWER}}"
)

//go:embed questions.md
var questionsTemplate string

//go:embed score.md
var scoreTemplate string

// Questions embeds the job description and résumé verbatim into the question template.
func Questions(jobDescription, resume string) string {
	return render(questionsTemplate,
		jobDescriptionPlaceholder, jobDescription,
		resumePlaceholder, resume,
	)
}

// Score embeds the inputs and one question/answer pair into the scoring template.
func Score(jobDescription, resume, question, answer string) string {
	return render(scoreTemplate,
		jobDescriptionPlaceholder, jobDescription,
		resumePlaceholder, resume,
		questionPlaceholder, question,
		answerPlaceholder, answer,
	)
}

// render substitutes all placeholders in a single pass so that input text
// containing a placeholder token is never expanded a second time.
func render(template string, oldnew ...string) string {
	return strings.NewReplacer(oldnew...).Replace(template)
}
