package config

import (
	"strconv"
	"strings"
)

// ValidateOptions selects which client-side checks run.
type ValidateOptions struct {
	Syntax     bool
	References bool
	Conflicts  bool
}

// DefaultValidateOptions enables all checks.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{Syntax: true, References: true, Conflicts: true}
}

// Issue severities. Errors invalidate the change set; warnings flag
// statements the device may still accept.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Line      int    `json:"line"` // 1-based position in the input
	Statement string `json:"statement"`
	Message   string `json:"message"`
}

// ValidationReport summarizes client-side validation of raw config lines.
// These checks catch what the device would reject anyway, before any
// session is opened, keeping bad change sets out of candidate mode
// entirely.
type ValidationReport struct {
	Valid  bool    `json:"valid"`
	Total  int     `json:"total_statements"`
	Issues []Issue `json:"issues,omitempty"`
}

// Errors returns the error-severity issues.
func (r *ValidationReport) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *ValidationReport) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *ValidationReport) filter(severity string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == severity {
			out = append(out, i)
		}
	}
	return out
}

func (r *ValidationReport) add(issue Issue) {
	if issue.Severity == SeverityError {
		r.Valid = false
	}
	r.Issues = append(r.Issues, issue)
}

// parsedLine pairs a statement with its input position; st is only
// meaningful when ok is true.
type parsedLine struct {
	line int
	raw  string
	st   Statement
	ok   bool
}

// Validate runs the selected checks over raw configuration lines. Blank
// lines and #-comments are skipped and do not count toward Total.
func Validate(lines []string, opts ValidateOptions) *ValidationReport {
	report := &ValidationReport{Valid: true}

	var parsed []parsedLine
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		report.Total++

		p := parsedLine{line: i + 1, raw: trimmed}
		st, err := ParseStatement(trimmed)
		switch {
		case err != nil:
			if opts.Syntax {
				report.add(Issue{Rule: "syntax", Severity: SeverityError, Line: p.line, Statement: trimmed, Message: err.Error()})
			}
		case strings.Count(st.Args, `"`)%2 != 0:
			if opts.Syntax {
				report.add(Issue{Rule: "syntax", Severity: SeverityError, Line: p.line, Statement: trimmed, Message: "unbalanced quotes"})
			}
		default:
			p.st, p.ok = st, true
		}
		parsed = append(parsed, p)
	}

	if opts.Conflicts {
		checkConflicts(parsed, report)
	}
	if opts.References {
		checkReferences(parsed, report)
	}
	return report
}

// checkConflicts flags statements contradicted within the same change set:
// a delete at or above an earlier set's path nullifies it, and two sets of
// the same path with different values fight each other.
func checkConflicts(parsed []parsedLine, report *ValidationReport) {
	for i, a := range parsed {
		if !a.ok || a.st.Action != ActionSet {
			continue
		}
		for _, b := range parsed[i+1:] {
			if !b.ok {
				continue
			}
			if b.st.Action == ActionDelete && underPath(a.st.Args, b.st.Args) {
				report.add(Issue{
					Rule: "conflict", Severity: SeverityError, Line: b.line, Statement: b.raw,
					Message: "delete removes the path set at line " + strconv.Itoa(a.line),
				})
			}
			if b.st.Action == ActionSet && samePathDifferentValue(a.st.Args, b.st.Args) {
				report.add(Issue{
					Rule: "conflict", Severity: SeverityWarning, Line: b.line, Statement: b.raw,
					Message: "overrides the value set at line " + strconv.Itoa(a.line),
				})
			}
		}
	}
}

// checkReferences flags network-instance interface bindings whose interface
// the same change set deletes, or never mentions at all.
func checkReferences(parsed []parsedLine, report *ValidationReport) {
	defined := make(map[string]bool)
	deleted := make(map[string]bool)
	for _, p := range parsed {
		if !p.ok {
			continue
		}
		fields := strings.Fields(p.st.Args)
		if len(fields) >= 3 && fields[1] == "interface" {
			name := strings.SplitN(fields[2], ".", 2)[0]
			if p.st.Action == ActionSet {
				defined[name] = true
			} else {
				deleted[name] = true
			}
		}
	}

	for _, p := range parsed {
		if !p.ok || p.st.Action != ActionSet {
			continue
		}
		name, ok := boundInterface(p.st.Args)
		if !ok {
			continue
		}
		base := strings.SplitN(name, ".", 2)[0]
		switch {
		case deleted[base]:
			report.add(Issue{
				Rule: "reference", Severity: SeverityError, Line: p.line, Statement: p.raw,
				Message: "binds interface " + name + " which this change set deletes",
			})
		case !defined[base]:
			report.add(Issue{
				Rule: "reference", Severity: SeverityWarning, Line: p.line, Statement: p.raw,
				Message: "interface " + name + " is not configured by this change set; it must already exist",
			})
		}
	}
}

// boundInterface extracts the interface bound by a
// "/ network-instance <name> interface <if>" statement.
func boundInterface(args string) (string, bool) {
	fields := strings.Fields(args)
	for i, f := range fields {
		if f == "network-instance" && i+3 < len(fields) && fields[i+2] == "interface" {
			return fields[i+3], true
		}
	}
	return "", false
}

// underPath reports whether child sits at or under parent (token-aligned).
func underPath(child, parent string) bool {
	c := normalize(child)
	p := normalize(parent)
	return c == p || strings.HasPrefix(c, p+" ")
}

// samePathDifferentValue treats the final token as the value and the rest
// as the path; two sets collide when paths match but values differ.
func samePathDifferentValue(a, b string) bool {
	fa := strings.Fields(a)
	fb := strings.Fields(b)
	if len(fa) < 2 || len(fa) != len(fb) {
		return false
	}
	for i := 0; i < len(fa)-1; i++ {
		if fa[i] != fb[i] {
			return false
		}
	}
	return fa[len(fa)-1] != fb[len(fb)-1]
}
