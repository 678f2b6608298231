package kv

import (
	"fmt"

	"github.com/gobwas/glob"
)

// matcher 编译 Keys 使用的 glob 模式，空模式匹配全部.
type matcher struct {
	g   glob.Glob
	all bool
}

func newMatcher(pattern string) (*matcher, error) {
	if pattern == "" || pattern == "*" {
		return &matcher{all: true}, nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
	}

	return &matcher{g: g}, nil
}

func (m *matcher) Match(key string) bool {
	return m.all || m.g.Match(key)
}
