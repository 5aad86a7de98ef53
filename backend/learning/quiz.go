package learning

import "learning-platform/backend/models"

// Evaluation is the outcome of scoring one quiz attempt.
type Evaluation struct {
	RawScore           int     `json:"raw_score"`
	QuestionCount      int     `json:"question_count"`
	ScorePercentage    float64 `json:"score_percentage"`
	RequiredPercentage int     `json:"required_percentage"`
	Passed             bool    `json:"passed"`
}

// Unanswered marks a question the student skipped.
const Unanswered = -1

// EvaluateQuiz scores selected option indices, one per question in question order.
// Missing, negative, or out-of-range selections count as wrong.
func EvaluateQuiz(set models.QuizSet, selected []int, settings models.QuizSettings) Evaluation {
	raw := 0
	for i, q := range set.Questions {
		if i >= len(selected) {
			break
		}
		s := selected[i]
		if s < 0 || s >= len(q.Options) {
			continue
		}
		if s == q.CorrectAnswer {
			raw++
		}
	}
	return evaluate(raw, len(set.Questions), settings)
}

// ScorePasses reports whether a stored raw score clears the pass mark for a quiz of questionCount.
func ScorePasses(rawScore, questionCount int, settings models.QuizSettings) bool {
	return evaluate(rawScore, questionCount, settings).Passed
}

// RequiredPercentage is the pass mark in force, 0 when the pass mark is not enforced.
func RequiredPercentage(settings models.QuizSettings) int {
	if !settings.EnforcePassMark {
		return 0
	}
	return settings.PassMarkPercentage
}

func evaluate(raw, count int, settings models.QuizSettings) Evaluation {
	ev := Evaluation{
		RawScore:           raw,
		QuestionCount:      count,
		RequiredPercentage: RequiredPercentage(settings),
	}
	if count == 0 {
		// nothing to fail
		ev.ScorePercentage = 100
		ev.Passed = true
		return ev
	}
	ev.ScorePercentage = float64(raw*100) / float64(count)
	// integer comparison keeps 7/10 against 70% exact
	ev.Passed = raw*100 >= ev.RequiredPercentage*count
	return ev
}
