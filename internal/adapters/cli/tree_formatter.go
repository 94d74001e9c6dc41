package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// TreeFormatter renders the function catalog as a tree of functions and
// their parameters
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatFunctions renders every function followed by its parameters
func (f *TreeFormatter) FormatFunctions(functions []daemon.FunctionInfo) string {
	if len(functions) == 0 {
		return "(no functions)\n"
	}

	var builder strings.Builder
	for i, fn := range functions {
		f.formatFunction(&builder, fn, i == len(functions)-1)
	}
	builder.WriteString(f.FormatSummary(functions))
	builder.WriteString("\n")
	return builder.String()
}

func (f *TreeFormatter) formatFunction(builder *strings.Builder, fn daemon.FunctionInfo, isLast bool) {
	linePrefix, childPrefix := "├── ", "│   "
	if isLast {
		linePrefix, childPrefix = "└── ", "    "
	}

	builder.WriteString(fmt.Sprintf("%s%s%s%s\n", linePrefix, f.color("\033[1m"), fn.Name, f.colorReset()))
	if fn.Description != "" {
		builder.WriteString(fmt.Sprintf("%s    %s\n", childPrefix, firstLine(fn.Description)))
	}

	for i, p := range fn.Parameters {
		paramPrefix := childPrefix + "├── "
		if i == len(fn.Parameters)-1 {
			paramPrefix = childPrefix + "└── "
		}
		builder.WriteString(fmt.Sprintf("%s%s (%s)%s%s\n",
			paramPrefix, p.Name, p.Type, f.requiredText(p), f.defaultText(p)))
	}
}

func (f *TreeFormatter) requiredText(p daemon.ParameterInfo) string {
	if !p.Required {
		return ""
	}
	return " " + f.color("\033[33m") + "required" + f.colorReset()
}

func (f *TreeFormatter) defaultText(p daemon.ParameterInfo) string {
	if p.Default == nil {
		return ""
	}
	return fmt.Sprintf(" default=%v", p.Default)
}

// FormatSummary creates a one-line count of functions and parameters
func (f *TreeFormatter) FormatSummary(functions []daemon.FunctionInfo) string {
	params, required := 0, 0
	for _, fn := range functions {
		params += len(fn.Parameters)
		for _, p := range fn.Parameters {
			if p.Required {
				required++
			}
		}
	}
	return fmt.Sprintf("%d functions, %d parameters (%d required)", len(functions), params, required)
}

func (f *TreeFormatter) color(code string) string {
	if !f.useColors {
		return ""
	}
	return code
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
