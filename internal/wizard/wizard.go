// Package wizard implements the interactive terminal flow of the setup
// command: pick a workspace, pick a subset of its tables, confirm the
// deployment. All prompting reads line-at-a-time from the wizard's input so
// the flow is scriptable and testable.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// Terminal styles, shared across the wizard's output.
var (
	brand  = color.New(color.FgCyan, color.Bold)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	subtle = color.New(color.Faint)
)

// Wizard drives the prompt loop over one input/output pair.
type Wizard struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Wizard reading prompts from in and writing to out.
func New(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{in: bufio.NewScanner(in), out: out}
}

// Banner prints the wizard section header.
func (w *Wizard) Banner(title string) {
	fmt.Fprintf(w.out, "\n  %s\n\n", brand.Sprint(title))
}

// Infof prints a plain informational line.
func (w *Wizard) Infof(format string, args ...any) {
	fmt.Fprintf(w.out, "  "+format+"\n", args...)
}

// Successf prints a green confirmation line.
func (w *Wizard) Successf(format string, args ...any) {
	fmt.Fprintf(w.out, "  %s\n", good.Sprintf(format, args...))
}

// Errorf prints a red error line.
func (w *Wizard) Errorf(format string, args ...any) {
	fmt.Fprintf(w.out, "  %s\n", bad.Sprintf(format, args...))
}

// readLine blocks for one line of input. io.EOF means the operator closed
// the input.
func (w *Wizard) readLine() (string, error) {
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(w.in.Text()), nil
}

// Prompt asks for one free-form value. An empty answer is returned as-is;
// the caller decides whether empty is acceptable.
func (w *Wizard) Prompt(label string) (string, error) {
	fmt.Fprintf(w.out, "  %s: ", label)
	return w.readLine()
}

// PickWorkspace lists the workspaces and prompts for one.
func (w *Wizard) PickWorkspace(workspaces []schemas.Workspace) (schemas.Workspace, error) {
	if len(workspaces) == 0 {
		return schemas.Workspace{}, fmt.Errorf("wizard: no workspaces visible to this token")
	}
	if len(workspaces) == 1 {
		w.Infof("Using workspace %s", brand.Sprint(workspaces[0].Name))
		return workspaces[0], nil
	}

	w.Banner("workspaces")
	for i, ws := range workspaces {
		fmt.Fprintf(w.out, "  %d. %s %s\n", i+1, brand.Sprint(ws.Name), subtle.Sprintf("(id %d)", ws.ID))
	}
	for {
		fmt.Fprintf(w.out, "\n  Pick a workspace (1-%d): ", len(workspaces))
		input, err := w.readLine()
		if err != nil {
			return schemas.Workspace{}, err
		}
		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(workspaces) {
			w.Errorf("not a valid choice: %q", input)
			continue
		}
		return workspaces[choice-1], nil
	}
}

// PickTables lists the workspace's tables and prompts for a subset.
func (w *Wizard) PickTables(tables []schemas.Table) ([]schemas.Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("wizard: the workspace has no tables")
	}

	w.Banner("tables")
	for i, t := range tables {
		desc := ""
		if t.Description != "" {
			desc = " " + subtle.Sprint("— "+t.Description)
		}
		fmt.Fprintf(w.out, "  %d. %s%s\n", i+1, t.Name, desc)
	}
	for {
		fmt.Fprintf(w.out, "\n  Pick tables (e.g. 1,3-5 or 'all'): ")
		input, err := w.readLine()
		if err != nil {
			return nil, err
		}
		indices, err := ParseSelection(input, len(tables))
		if err != nil {
			w.Errorf("%v", err)
			continue
		}
		selected := make([]schemas.Table, 0, len(indices))
		for _, i := range indices {
			selected = append(selected, tables[i])
		}
		return selected, nil
	}
}

// Confirm asks a yes/no question; only an explicit yes proceeds.
func (w *Wizard) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(w.out, "  %s [y/N]: ", prompt)
	input, err := w.readLine()
	if err != nil {
		return false, err
	}
	input = strings.ToLower(input)
	return input == "y" || input == "yes", nil
}

// ParseSelection parses a table selection like "1,3-5" or "all" into
// zero-based indices, deduplicated, in selection order. n is the number of
// listed items.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return nil, fmt.Errorf("nothing selected")
	}
	if input == "all" || input == "*" {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)
	add := func(i int) error {
		if i < 1 || i > n {
			return fmt.Errorf("selection %d is out of range 1-%d", i, n)
		}
		if !seen[i] {
			seen[i] = true
			indices = append(indices, i-1)
		}
		return nil
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err1 := strconv.Atoi(strings.TrimSpace(lo))
			end, err2 := strconv.Atoi(strings.TrimSpace(hi))
			if err1 != nil || err2 != nil || start > end {
				return nil, fmt.Errorf("bad range %q", part)
			}
			for i := start; i <= end; i++ {
				if err := add(i); err != nil {
					return nil, err
				}
			}
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad selection %q", part)
		}
		if err := add(i); err != nil {
			return nil, err
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("nothing selected")
	}
	return indices, nil
}
