// Package prompt reads the optional date bounds interactively.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danielolaszy/glissues/internal/filter"
)

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Date asks for a YYYY-MM-DD date until the answer is blank or valid and
// returns the raw answer. End of input counts as a blank answer.
func (p *Prompter) Date(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s (YYYY-MM-DD): ", label)

		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		answer := strings.TrimSpace(line)

		if _, perr := filter.ParseDate(answer); perr == nil {
			return answer, nil
		}
		fmt.Fprintln(p.out, "Formato de fecha inválido. Use YYYY-MM-DD (ejemplo: 2024-01-15)")

		if errors.Is(err, io.EOF) {
			return "", nil
		}
	}
}

// Range asks for both bounds and validates them together. A start date after
// the end date restarts the questions.
func (p *Prompter) Range() (filter.Range, error) {
	fmt.Fprintln(p.out, "Ingrese el rango de fechas para filtrar los issues:")
	fmt.Fprintln(p.out, "(Deje en blanco para no filtrar por fecha)")

	for {
		start, err := p.Date("Fecha de inicio")
		if err != nil {
			return filter.Range{}, err
		}
		end, err := p.Date("Fecha de fin")
		if err != nil {
			return filter.Range{}, err
		}

		r, err := filter.NewRange(start, end)
		if err == nil {
			return r, nil
		}
		fmt.Fprintln(p.out, err)
	}
}
