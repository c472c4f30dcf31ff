// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scriptlog

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Placeholder values used when caller resolution degrades. Degradation is
// never fatal; formatting continues with these substitutes.
const (
	mainScriptName  = "MainScript"
	unknownFunction = "<Unknown>"
	unknownScript   = "UnknownScript"
)

const (
	// maxCallChain bounds how many resolved frames a provider returns.
	maxCallChain = 16
	// maxStackPCs bounds the raw program counters captured per call.
	maxStackPCs = 64
	// chainDumpDepth is how many frames the debug diagnostic dump prints.
	chainDumpDepth = 5
)

// Frame is one entry in the live call chain, ordered innermost first.
type Frame struct {
	Function string // Fully qualified function name, e.g. "main.run"
	File     string // Source file path
	Line     int
}

// FrameProvider supplies the live call chain so caller attribution can be
// faked deterministically in tests. The returned slice is ordered innermost
// first and begins with the frame that invoked the logger's public API; the
// production implementation trims logger-internal and runtime frames before
// that point.
type FrameProvider interface {
	CallChain(max int) []Frame
}

// CallerInfo identifies the originating source location of a log call. It is
// recomputed on every call so it always reflects the current call site.
type CallerInfo struct {
	ScriptFileName string
	FunctionName   string
	LineNumber     int // 0 when resolution degraded
	ThroughWrapper bool
	WrapperName    string
}

// Ref returns the composite caller descriptor recorded in the CSV CallerInfo
// column, e.g. "deploy.go:rollOut:41 (via logStep)".
func (ci CallerInfo) Ref() string {
	ref := fmt.Sprintf("%s:%s:%d", ci.ScriptFileName, ci.FunctionName, ci.LineNumber)
	if ci.ThroughWrapper {
		ref += " (via " + ci.WrapperName + ")"
	}
	return ref
}

// runtimeFrameProvider reads the goroutine's real call stack via the runtime.
type runtimeFrameProvider struct{}

// CallChain captures the current stack and returns up to max frames starting
// with the first frame outside this library, slog, and the runtime.
func (runtimeFrameProvider) CallChain(max int) []Frame {
	if max <= 0 || max > maxCallChain {
		max = maxCallChain
	}

	pcs := make([]uintptr, maxStackPCs)
	n := runtime.Callers(2, pcs) // skip runtime.Callers and CallChain itself
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, max)
	skipping := true
	for {
		fr, more := frames.Next()
		if fr.Function == "" {
			if !more {
				break
			}
			continue
		}
		if skipping && skipInternalFrame(fr.Function) {
			if !more {
				break
			}
			continue
		}
		skipping = false
		out = append(out, Frame{Function: fr.Function, File: fr.File, Line: fr.Line})
		if len(out) >= max || !more {
			break
		}
	}
	return out
}

// skipInternalFrame reports whether a stack frame belongs to scriptlog, slog,
// net/http plumbing, or runtime internals and should be skipped when locating
// the true call site.
func skipInternalFrame(funcName string) bool {
	if funcName == "" {
		return false
	}
	if strings.HasPrefix(funcName, "runtime.") {
		return true
	}
	if strings.HasPrefix(funcName, "github.com/pjscruggs/scriptlog.") ||
		strings.HasPrefix(funcName, "github.com/pjscruggs/scriptlog/") ||
		strings.HasPrefix(funcName, "log/slog.") ||
		strings.HasPrefix(funcName, "net/http.") {
		return true
	}
	return false
}

// resolveCaller determines the true originating frame from the call chain,
// accounting for at most one level of wrapper indirection. Deeper wrapper
// chains resolve to the wrapper's caller, not the true origin; that is a
// documented limitation of the design, not an oversight.
func resolveCaller(chain []Frame, wrappers map[string]struct{}) CallerInfo {
	if len(chain) == 0 {
		return CallerInfo{
			ScriptFileName: unknownScript,
			FunctionName:   unknownFunction,
			LineNumber:     0,
		}
	}

	ci := CallerInfo{}
	frame := chain[0]
	if len(chain) >= 2 {
		if name := shortFuncName(chain[0].Function); isWrapperName(name, wrappers) {
			// The immediate caller is a known wrapper: attribute the call to
			// the wrapper's own caller, whose line number is the line in that
			// caller, not inside the wrapper body.
			ci.ThroughWrapper = true
			ci.WrapperName = name
			frame = chain[1]
		}
	}

	ci.LineNumber = frame.Line
	ci.ScriptFileName = scriptFileName(frame.File)

	switch fn := shortFuncName(frame.Function); {
	case isMainEntry(frame.Function):
		// No named function on the stack: substitute the wrapper's name when
		// the call went through one, otherwise the script entry placeholder.
		if ci.ThroughWrapper {
			ci.FunctionName = ci.WrapperName
		} else {
			ci.FunctionName = mainScriptName
		}
	case fn == "":
		ci.FunctionName = unknownFunction
	default:
		ci.FunctionName = fn
	}

	return ci
}

// isWrapperName reports whether name is in the registered wrapper set.
// Matching is case-insensitive on the bare function name.
func isWrapperName(name string, wrappers map[string]struct{}) bool {
	if name == "" || len(wrappers) == 0 {
		return false
	}
	_, ok := wrappers[strings.ToLower(name)]
	return ok
}

// isMainEntry reports whether the frame is the top-level script entry point.
func isMainEntry(funcName string) bool {
	return funcName == "main.main"
}

// shortFuncName strips the package path and package name from a fully
// qualified function name: "github.com/x/y.(*T).M" becomes "(*T).M" and
// "main.run" becomes "run".
func shortFuncName(full string) string {
	if full == "" {
		return ""
	}
	base := full
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.IndexByte(base, '.'); idx >= 0 {
		base = base[idx+1:]
	}
	return base
}

// scriptFileName returns the bare source file name for a frame.
func scriptFileName(file string) string {
	if file == "" {
		return unknownScript
	}
	return filepath.Base(file)
}

// callingScriptFromChain derives the calling script name (the session-wide
// name embedded in file paths) from the outermost resolved frame: the source
// file name without its extension.
func callingScriptFromChain(chain []Frame) string {
	if len(chain) == 0 {
		return unknownScript
	}
	base := filepath.Base(chain[0].File)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return unknownScript
	}
	return name
}

// formatChainDump renders the first few frames of the call chain for the
// verbose diagnostic emitted when line-number resolution fails.
func formatChainDump(chain []Frame) string {
	var sb strings.Builder
	n := len(chain)
	if n > chainDumpDepth {
		n = chainDumpDepth
	}
	for i := 0; i < n; i++ {
		fr := chain[i]
		sb.WriteString("  #")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(' ')
		sb.WriteString(fr.Function)
		sb.WriteByte(' ')
		sb.WriteString(fr.File)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(fr.Line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stackTracer defines an interface errors can implement to provide their own
// stack trace in the form of program counters. Compatible with
// github.com/pkg/errors-style errors.
type stackTracer interface {
	StackTrace() []uintptr
}

// extractOriginStack attempts to get a stack trace via the stackTracer
// interface implemented by the error (or one it wraps) and formats it as
// "function\n\tfile:line" pairs. It returns an empty string if the interface
// is not found or provides no program counters.
func extractOriginStack(err error) string {
	var st stackTracer
	if !errors.As(err, &st) {
		return ""
	}
	pcs := st.StackTrace()
	if len(pcs) == 0 {
		return ""
	}
	if len(pcs) > maxStackPCs {
		pcs = pcs[:maxStackPCs]
	}

	var sb strings.Builder
	sb.Grow(len(pcs) * 64)
	frames := runtime.CallersFrames(pcs)
	for {
		fr, more := frames.Next()
		if fr.Function == "" {
			if !more {
				break
			}
			continue
		}
		sb.WriteString(fr.Function)
		sb.WriteString("\n\t")
		sb.WriteString(fr.File)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(fr.Line))
		sb.WriteByte('\n')
		if !more {
			break
		}
	}
	return sb.String()
}
