// Package engine evaluates vehicle definition scripts. It wraps zygomys in
// a sandboxed environment whose builtins drive the geom builder API, so a
// script produces a live geometry tree in a fresh kernel model.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-logr/logr"

	"github.com/chazu/vspwrap/pkg/geom"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the output of a successful evaluation: the model the script
// built and the root components it created, in creation order.
type Result struct {
	Env   *geom.Env
	Roots []geom.Component
}

// EnvFactory creates the model a single evaluation builds into.
type EnvFactory func() (*geom.Env, error)

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandbox and a fresh model.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	factory EnvFactory
	timeout time.Duration
	log     logr.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout replaces EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an Engine that builds into models from factory.
func NewEngine(factory EnvFactory, opts ...Option) *Engine {
	e := &Engine{factory: factory, timeout: EvalTimeout, log: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs a vehicle definition script.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic, model creation): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	env, err := e.factory()
	if err != nil {
		return nil, nil, fmt.Errorf("engine: create model: %w", err)
	}
	b := &builder{env: env}

	// Empty source is a valid program that builds nothing.
	if strings.TrimSpace(source) == "" {
		return b.result(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	zl := zygo.NewZlispSandbox()
	defer zl.Stop()
	registerBuiltins(zl, b)

	if err := zl.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := zl.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	e.log.V(1).Info("script evaluated", "roots", len(b.roots))
	return b.result(), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
