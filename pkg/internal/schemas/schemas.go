// Package schemas 编译内嵌的 JSON Schema，用于校验横幅配置与联系请求的请求体.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// 内置的 schema 名称.
const (
	Hero    = "hero"
	Contact = "contact"
)

//go:embed json/*.json
var files embed.FS

var (
	compiled map[string]*jsonschema.Schema
	initErr  error
	once     sync.Once
)

// load 编译全部 schema，只执行一次.
func load() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	names := make([]string, 0)

	initErr = fs.WalkDir(files, "json", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}

		f, err := files.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := compiler.AddResource(p, f); err != nil {
			return fmt.Errorf("add schema resource %s: %w", p, err)
		}

		names = append(names, p)

		return nil
	})
	if initErr != nil {
		return
	}

	compiled = make(map[string]*jsonschema.Schema, len(names))

	for _, p := range names {
		s, err := compiler.Compile(p)
		if err != nil {
			initErr = fmt.Errorf("compile schema %s: %w", p, err)
			return
		}

		compiled[strings.TrimSuffix(path.Base(p), ".json")] = s
	}
}

// Names 返回已编译的 schema 名称.
func Names() []string {
	once.Do(load)

	out := make([]string, 0, len(compiled))
	for k := range compiled {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// Validate 用指定 schema 校验已解码的 JSON 值，返回可读的违规列表.
// 第二个返回值只在 schema 本身不可用时非空.
func Validate(name string, v any) ([]string, error) {
	once.Do(load)

	if initErr != nil {
		return nil, initErr
	}

	s, ok := compiled[name]
	if !ok {
		return nil, fmt.Errorf("schema %q not found", name)
	}

	err := s.Validate(v)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}

	return flatten(ve), nil
}

// flatten 展开嵌套的错误，只保留叶子节点.
func flatten(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}

		return []string{loc + ": " + ve.Message}
	}

	var out []string
	for _, c := range ve.Causes {
		out = append(out, flatten(c)...)
	}

	return out
}
