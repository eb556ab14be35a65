// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package descent implements first-order iterative minimizers:
//   - Nesterov : momentum accelerated full gradient descent
//   - SGD : randomized coordinate descent over sparse gradient samples
//
// Both run a fixed number of iterations with no early stopping.
package descent

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	// ErrArgument reports an invalid optimizer setting.
	ErrArgument = errors.New("invalid argument")
	// ErrDimension reports a start point whose length differs from the problem dimension.
	ErrDimension = errors.New("dimension mismatch")
	// ErrCapability reports a problem that lacks the gradient an optimizer needs.
	ErrCapability = errors.New("problem lacks required capability")
	// ErrNonFinite reports a NaN or Inf reached while guarding the iteration.
	ErrNonFinite = errors.New("non-finite value encountered")
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line at the last iteration
	LogLast LogLevel = 0
	// LogEval print also f every `level` iterations for any (0 < level < 100)
	LogEval LogLevel = 1
	// LogVerbose print f and x of every iteration (level ≥ 100)
	LogVerbose LogLevel = 100
)

// Logger handles logging output for the optimizer.
// Note the writers must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
	Out   io.Writer // Writer for output data.
}

func newLogger(logger *Logger) Logger {
	if logger == nil {
		return Logger{Level: LogNoop}
	}
	l := *logger
	if l.Msg == nil {
		l.Msg = os.Stdout
	}
	if l.Out == nil {
		l.Out = os.Stderr
	}
	return l
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

// every reports whether iteration k (1-based) is due for a progress line.
func (l *Logger) every(k int) bool {
	switch {
	case l.Level >= LogVerbose:
		return true
	case l.Level >= LogEval:
		return k%int(l.Level) == 0
	default:
		return false
	}
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

func (l *Logger) out(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

// Status is the final state of a run.
type Status int

const (
	// Completed all iterations ran and the final point and value are finite.
	Completed Status = iota
	// NonFinite the point or the objective became NaN or Inf.
	NonFinite
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case NonFinite:
		return "non-finite"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result contains the final result of the optimization process.
type Result struct {
	OK      bool      // Whether the run completed with finite values.
	F       float64   // Final function value.
	X       []float64 // Final solution.
	Summary           // Optimization summary.
}

// Summary contains a summary of the optimization process.
type Summary struct {
	Status  Status // Final status after optimization.
	NumIter int    // Number of iterations performed.
	NumGrad int    // Number of gradient (or gradient sample) evaluations.
}

func finite(x ...float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkReal(name string, v float64) error {
	if !finite(v) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrArgument, name, v)
	}
	return nil
}

// finish evaluates the objective at x and fills the result status.
func finish(f func([]float64) float64, x []float64, sum Summary) *Result {
	r := &Result{X: x, F: f(x), Summary: sum}
	if r.Status == Completed && !(finite(r.F) && finite(x...)) {
		r.Status = NonFinite
	}
	r.OK = r.Status == Completed
	return r
}
