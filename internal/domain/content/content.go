// Package content holds the built-in quiz and current-affairs pools.
//
// The pools are compiled into the binary. They are parsed once, on first use, and the
// result is shared read-only by every caller.
package content

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"gk_notification_bot/internal/domain/daily"
)

//go:embed pools.yaml
var poolsYAML []byte

// Pools is the parsed form of pools.yaml.
type Pools struct {
	Quiz           []daily.QuizItem `yaml:"quiz"`
	CurrentAffairs []string         `yaml:"current_affairs"`
}

var (
	loadOnce sync.Once
	builtin  Pools
	loadErr  error
)

// Builtin returns the pools compiled into the binary.
func Builtin() (Pools, error) {
	loadOnce.Do(func() {
		builtin, loadErr = Parse(poolsYAML)
	})
	return builtin, loadErr
}

// Parse decodes and validates a pools document.
func Parse(data []byte) (Pools, error) {
	var p Pools
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pools{}, fmt.Errorf("failed to decode content pools: %w", err)
	}
	for i, item := range p.Quiz {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			return Pools{}, fmt.Errorf("quiz item %d has an empty question or answer", i)
		}
		if item.Category == "" {
			p.Quiz[i].Category = "General"
		}
	}
	for i, text := range p.CurrentAffairs {
		if strings.TrimSpace(text) == "" {
			return Pools{}, fmt.Errorf("current affairs item %d is empty", i)
		}
	}
	return p, nil
}

// NewSelector builds a daily.Selector over the built-in pools.
func NewSelector(opts ...daily.Option) (*daily.Selector, error) {
	p, err := Builtin()
	if err != nil {
		return nil, err
	}
	return daily.NewSelector(p.Quiz, p.CurrentAffairs, opts...)
}
