// Package daily derives each calendar day's quiz and current-affairs content.
//
// Everything here is a pure function of the date and the injected pools. The bot's
// dispatcher and the gkctl tool both link this package, which is what keeps a day's
// notifications identical to what any other consumer renders for that day.
package daily

import (
	"fmt"
	"time"
)

// Labels used when a current-affairs line is presented as a quiz item.
const (
	CurrentAffairsQuestion = "Today's Current Affairs"
	CurrentAffairsCategory = "Current Affairs"
)

// QuizItem is a single question with its answer.
type QuizItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"category"`
}

// Selector picks the content for a day from two fixed pools.
type Selector struct {
	quiz           []QuizItem
	currentAffairs []string
	quizRate       PoolRate
	caRate         PoolRate
}

// Option customises a Selector.
type Option func(*Selector)

// WithQuizRate overrides DefaultQuizRate.
func WithQuizRate(r PoolRate) Option {
	return func(s *Selector) { s.quizRate = r }
}

// WithCurrentAffairsRate overrides DefaultCurrentAffairsRate.
func WithCurrentAffairsRate(r PoolRate) Option {
	return func(s *Selector) { s.caRate = r }
}

// NewSelector copies the pools and validates them against the configured rates.
func NewSelector(quiz []QuizItem, currentAffairs []string, opts ...Option) (*Selector, error) {
	s := &Selector{
		quiz:           append([]QuizItem(nil), quiz...),
		currentAffairs: append([]string(nil), currentAffairs...),
		quizRate:       DefaultQuizRate,
		caRate:         DefaultCurrentAffairsRate,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := Address(0, len(s.quiz), s.quizRate.ItemsPerDay); err != nil {
		return nil, fmt.Errorf("quiz pool: %w", err)
	}
	if _, err := Address(0, len(s.currentAffairs), s.caRate.ItemsPerDay); err != nil {
		return nil, fmt.Errorf("current affairs pool: %w", err)
	}
	return s, nil
}

// ForDate returns the content for t's UTC calendar day.
func (s *Selector) ForDate(t time.Time) []QuizItem {
	return s.ForDay(DayIndex(t))
}

// ForDay returns the day's quiz items followed by its current-affairs item.
func (s *Selector) ForDay(dayIndex int) []QuizItem {
	// Pools were validated in NewSelector, Address cannot fail past this point.
	quiz, _, _ := pick(s.quiz, dayIndex, s.quizRate)
	ca, _, _ := pick(s.currentAffairs, dayIndex, s.caRate)

	items := make([]QuizItem, 0, len(quiz)+len(ca))
	items = append(items, quiz...)
	for _, text := range ca {
		items = append(items, QuizItem{
			Question: CurrentAffairsQuestion,
			Answer:   text,
			Category: CurrentAffairsCategory,
		})
	}
	return items
}

// PoolPlan describes where a day falls within one pool's cycle.
type PoolPlan struct {
	Slot
	Seed     uint32 `json:"seed"`
	PoolSize int    `json:"pool_size"`
}

// DayPlan is the addressing detail behind ForDay.
type DayPlan struct {
	DayIndex       int      `json:"day_index"`
	Date           string   `json:"date"`
	Quiz           PoolPlan `json:"quiz"`
	CurrentAffairs PoolPlan `json:"current_affairs"`
}

// Plan reports the epoch, slot and seed each pool uses on dayIndex.
func (s *Selector) Plan(dayIndex int) DayPlan {
	qs, _ := Address(dayIndex, len(s.quiz), s.quizRate.ItemsPerDay)
	cs, _ := Address(dayIndex, len(s.currentAffairs), s.caRate.ItemsPerDay)
	return DayPlan{
		DayIndex:       dayIndex,
		Date:           DateForIndex(dayIndex).Format(DateLayout),
		Quiz:           PoolPlan{Slot: qs, Seed: s.quizRate.Seed(qs.Epoch), PoolSize: len(s.quiz)},
		CurrentAffairs: PoolPlan{Slot: cs, Seed: s.caRate.Seed(cs.Epoch), PoolSize: len(s.currentAffairs)},
	}
}
