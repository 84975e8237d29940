package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// PathData serializes commands into an SVG path d attribute, for example
// "M100 150 L300 150 Z".
func PathData(cmds []document.Command) (string, error) {
	var sb strings.Builder
	for i, c := range cmds {
		if n := c.Cmd.Arity(); n < 0 {
			return "", errors.New(errors.ErrCodeInvalidPath, "command %d: unknown command %q", i, c.Cmd)
		} else if n != len(c.Coords) {
			return "", errors.New(errors.ErrCodeInvalidPath, "command %d: %s expects %d coordinates, got %d", i, c.Cmd, n, len(c.Coords))
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(c.Cmd))
		for j, v := range c.Coords {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(num(v))
		}
	}
	return sb.String(), nil
}

// num formats v with at most four decimals and without trailing zeros.
func num(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var pathArity = map[byte]int{'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Q': 4, 'C': 6}

// ParsePathData parses an SVG path d attribute into absolute commands.
//
// M, L, C, Q and Z are read as they are; H and V become L, relative
// (lowercase) commands are made absolute, and implicit repetitions ("M0 0 10
// 10" or "L1 2 3 4") are expanded. Arcs and smooth curves are not supported.
func ParsePathData(d string) ([]document.Command, error) {
	tokens := tokenizePath(d)
	var (
		cmds           []document.Command
		op             byte
		cx, cy, sx, sy float64
	)
	for i := 0; i < len(tokens); {
		if t := tokens[i]; isCommand(t) {
			op = t[0]
			i++
		} else if op == 0 {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path data must start with a command, got %q", t)
		}

		upper := op &^ 0x20
		rel := op != upper
		if upper == 'Z' {
			cmds = append(cmds, document.Command{Cmd: document.ClosePath, Coords: []float64{}})
			cx, cy = sx, sy
			op = 0
			continue
		}

		n := pathArity[upper]
		if n == 0 {
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported path command %q", string(op))
		}
		vals, err := readNumbers(tokens, i, n)
		if err != nil {
			return nil, err
		}
		i += n

		switch upper {
		case 'H':
			if rel {
				vals[0] += cx
			}
			vals = []float64{vals[0], cy}
			upper = 'L'
		case 'V':
			if rel {
				vals[0] += cy
			}
			vals = []float64{cx, vals[0]}
			upper = 'L'
		default:
			if rel {
				for j := range vals {
					if j%2 == 0 {
						vals[j] += cx
					} else {
						vals[j] += cy
					}
				}
			}
		}

		cmds = append(cmds, document.Command{Cmd: document.Op(upper), Coords: vals})
		cx, cy = vals[len(vals)-2], vals[len(vals)-1]
		if upper == 'M' {
			sx, sy = cx, cy
			// Pairs following a moveto are implicit linetos.
			if rel {
				op = 'l'
			} else {
				op = 'L'
			}
		}
	}
	return cmds, nil
}

func readNumbers(tokens []string, at, n int) ([]float64, error) {
	if at+n > len(tokens) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path data ends after %d of %d coordinates", len(tokens)-at, n)
	}
	out := make([]float64, n)
	for j := range out {
		t := tokens[at+j]
		v, err := strconv.ParseFloat(t, 64)
		if err != nil || isCommand(t) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "invalid number %q in path data", t)
		}
		out[j] = v
	}
	return out, nil
}

func isCommand(t string) bool {
	if len(t) != 1 {
		return false
	}
	c := t[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// tokenizePath splits path data into single-letter commands and numbers.
// Numbers may run together ("10-5", ".5.5") and carry exponents ("1e-3").
func tokenizePath(d string) []string {
	var (
		tokens  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	last := func() byte {
		s := current.String()
		if s == "" {
			return 0
		}
		return s[len(s)-1]
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			flush()
		case (c == 'e' || c == 'E') && current.Len() > 0 && !strings.ContainsAny(current.String(), "eE"):
			current.WriteByte(c)
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			flush()
			tokens = append(tokens, string(c))
		case c == '-' || c == '+':
			if l := last(); l != 'e' && l != 'E' {
				flush()
			}
			current.WriteByte(c)
		case c == '.':
			if s := current.String(); strings.Contains(s, ".") || strings.ContainsAny(s, "eE") {
				flush()
			}
			current.WriteByte(c)
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return tokens
}
