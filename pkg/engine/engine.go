// Package engine provides a scripted surface over the tagging core. It
// wraps zygomys in a sandboxed environment whose builtins resolve
// endpoints, cast shadows, and run tagging passes against a model
// session.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/mepkit/ducttag/pkg/model"
	"github.com/mepkit/ducttag/pkg/tag"
)

// EvalError represents a non-fatal error encountered during script
// evaluation, such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Session is the model context a script runs against. It is passed
// explicitly into every run; the engine holds no global model state.
type Session struct {
	Elements []model.Element
	Services tag.Services
}

// Element looks up a session element by ID.
func (s *Session) Element(id string) (model.Element, bool) {
	for _, el := range s.Elements {
		if el.ID() == id {
			return el, true
		}
	}
	return nil, false
}

// Result accumulates what a script did: tagging outcomes and any lines
// the script emitted.
type Result struct {
	Outcomes []tag.Outcome
	Output   []string
}

// Engine wraps the zygomys interpreter. Each run gets a fresh sandbox
// for determinism; the engine itself is safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Run evaluates script source against a session.
//
// Return semantics:
//   - On success: result + nil errors + nil error
//   - On parse/eval failure: nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Run(source string, session *Session) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan runResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- runResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		res, evalErrs, err := e.run(source, session)
		ch <- runResult{result: res, errors: evalErrs, err: err}
	}()

	return e.await(ch, gen)
}

func (e *Engine) run(source string, session *Session) (*Result, []EvalError, error) {
	result := &Result{}
	if strings.TrimSpace(source) == "" {
		return result, nil, nil
	}

	// Sandbox mode keeps user scripts away from the filesystem and
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, session, result)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygoError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygoError(err), nil
	}
	return result, nil, nil
}

// linePattern matches zygomys errors of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches the simpler "line N: ..." form.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygoError converts a zygomys error into EvalError values,
// extracting line numbers when the message carries them.
func parseZygoError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
