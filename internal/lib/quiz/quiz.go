// Package quiz тесты из раздела ресурсов: встроенный каталог и подсчёт результата.
package quiz

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/quizzes.yaml
var catalogYAML []byte

// Question вопрос с одним правильным вариантом.
type Question struct {
	ID            int      `yaml:"id" json:"id"`
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correct_answer" json:"correctAnswer"`
	Explanation   string   `yaml:"explanation" json:"explanation"`
	Difficulty    string   `yaml:"difficulty" json:"difficulty"`
}

// Quiz тест. TimeLimit в минутах, PassingScore в процентах.
type Quiz struct {
	ID           int        `yaml:"id" json:"id"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description" json:"description"`
	Topic        string     `yaml:"topic" json:"topic"`
	Difficulty   string     `yaml:"difficulty" json:"difficulty"`
	TimeLimit    int        `yaml:"time_limit" json:"timeLimit"`
	PassingScore int        `yaml:"passing_score" json:"passingScore"`
	Questions    []Question `yaml:"questions" json:"questions"`
}

// PublicQuestion вопрос без ответа и пояснения.
type PublicQuestion struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

// PublicQuiz тест в том виде, в каком его видит проходящий.
type PublicQuiz struct {
	ID           int              `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Topic        string           `json:"topic"`
	Difficulty   string           `json:"difficulty"`
	TimeLimit    int              `json:"timeLimit"`
	PassingScore int              `json:"passingScore"`
	Questions    []PublicQuestion `json:"questions"`
}

// Public скрывает правильные ответы.
func (q Quiz) Public() PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, qu := range q.Questions {
		questions = append(questions, PublicQuestion{
			ID:         qu.ID,
			Question:   qu.Question,
			Options:    qu.Options,
			Difficulty: qu.Difficulty,
		})
	}
	return PublicQuiz{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		Topic:        q.Topic,
		Difficulty:   q.Difficulty,
		TimeLimit:    q.TimeLimit,
		PassingScore: q.PassingScore,
		Questions:    questions,
	}
}

// Result итог прохождения. TimeSpent в целых минутах.
type Result struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"totalQuestions"`
	CorrectAnswers int  `json:"correctAnswers"`
	TimeSpent      int  `json:"timeSpent"`
	Passed         bool `json:"passed"`
}

// Score считает процент правильных ответов. answers[i] индекс выбранного
// варианта для i-го вопроса; недостающие ответы считаются неверными.
// Время на результат не влияет.
func Score(q Quiz, answers []int, started, finished time.Time) Result {
	correct := 0
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectAnswer {
			correct++
		}
	}

	total := len(q.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(correct) / float64(total)))
	}

	spent := int(math.Round(finished.Sub(started).Minutes()))
	if spent < 0 {
		spent = 0
	}

	return Result{
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeSpent:      spent,
		Passed:         score >= q.PassingScore,
	}
}

// Catalog встроенный набор тестов.
type Catalog struct {
	quizzes []Quiz
	byID    map[int]Quiz
}

// Load разбирает встроенный YAML.
func Load() (*Catalog, error) {
	return parse(catalogYAML)
}

func parse(data []byte) (*Catalog, error) {
	const op = "quiz.Load"

	var quizzes []Quiz
	if err := yaml.Unmarshal(data, &quizzes); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byID := make(map[int]Quiz, len(quizzes))
	for _, q := range quizzes {
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate quiz id %d", op, q.ID)
		}
		for _, question := range q.Questions {
			if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
				return nil, fmt.Errorf("%s: quiz %d question %d: answer out of range", op, q.ID, question.ID)
			}
		}
		byID[q.ID] = q
	}
	return &Catalog{quizzes: quizzes, byID: byID}, nil
}

// All возвращает все тесты в порядке объявления.
func (c *Catalog) All() []Quiz {
	return c.quizzes
}

// Get ищет тест по id.
func (c *Catalog) Get(id int) (Quiz, bool) {
	q, ok := c.byID[id]
	return q, ok
}
