// Package hashcat provides an in-process RuleEngine speaking the
// hashcat rule syntax.
//
// Commands on a rule line are concatenated with no separator, each a
// single opcode character followed by its arguments, so `lu$1` parses
// as lowercase, uppercase, append "1". Positions are decimal integers
// and may span several digits (`T10`). Ranges take either the `N:M`
// form or exactly two raw digits (`x1:3`, `x13`).
//
// Transform commands:
//
//   - `:`  no operation
//   - `l`  lowercase, `u` uppercase
//   - `c`  capitalize, `C` invert capitalization of the first letter
//   - `t`  toggle case of all characters, `TN` toggle at position N
//   - `r`  reverse, `d` duplicate, `pN` duplicate N extra times, `f` reflect
//   - `{`  rotate left, `}` rotate right
//   - `$C` append C, `^C` prepend C
//   - `[`  delete first character, `]` delete last character
//   - `DN` delete at position N, `'N` truncate to N characters
//   - `xN:M` extract M characters from position N
//   - `ON:M` omit M characters from position N
//   - `iCN` insert C at position N, `oNC` overwrite position N with C
//   - `sXY` substitute all X with Y, `@C` purge all C
//   - `zN` repeat the first character N times, `ZN` the last
//   - `q`  duplicate every character
//   - `k`  swap the first two characters, `K` the last two
//   - `*N:M` swap positions N and M
//   - `LN`/`RN` bitwise shift every byte left/right by N
//   - `+N`/`-N` add/subtract N from every byte
//   - `.N` copy the next character onto position N, `,N` the previous
//   - `yN` prepend the first N characters, `YN` append the last N
//
// Reject commands drop the word for the current rule line:
//
//   - `<N` reject longer than N, `>N` reject shorter than N
//   - `_N` reject unless exactly N long
//   - `!C` reject if C present, `/C` reject if C absent
//   - `(C` reject unless starting with C, `)C` reject unless ending with C
//   - `=NC` reject unless position N holds C
//   - `%NC` reject with fewer than N instances of C
//
// Transform commands never drop a word: one that cannot apply, such as
// a position past the end of the word, leaves the word unchanged.
package hashcat

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
	"github.com/hackerman70000/cbwg/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.RuleEngine = (*Engine)(nil)

// Engine applies parsed rule lines to word batches.
type Engine struct{}

// New creates a rule engine.
func New() *Engine {
	return &Engine{}
}

// command is one parsed rule operation. a and b hold numeric arguments,
// s and t single-character arguments.
type command struct {
	op   rune
	a, b int
	s, t string
}

// Apply runs every rule line over all words before moving to the next
// line, so output order is rule-major. Blank and comment lines emit
// nothing; unparseable lines are logged and skipped. Words are dropped
// only by reject commands.
func (e *Engine) Apply(rules []string, words []string) ([]string, error) {
	var output []string

	for _, line := range rules {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		commands, err := parseLine(trimmed)
		if err != nil {
			logger.Warn("rule engine: skipping rule %q: %v", line, err)
			continue
		}
		if len(commands) == 0 {
			continue
		}

		for _, word := range words {
			if result, ok := runCommands(commands, word); ok {
				output = append(output, result)
			}
		}
	}

	return output, nil
}

// parseLine parses a line of concatenated commands. A `#` ends the line;
// everything after it is a comment.
func parseLine(line string) ([]command, error) {
	rs := []rune(line)
	var commands []command

	i := 0
	for i < len(rs) {
		op := rs[i]
		i++
		cmd := command{op: op}

		switch op {
		case '#':
			return commands, nil

		case ':', 'l', 'u', 'c', 'C', 't', 'r', 'd', 'f', '{', '}', '[', ']', 'q', 'k', 'K':
			// no argument

		case 'T', 'p', 'D', '\'', 'z', 'Z', 'L', 'R', '+', '-', '.', ',', 'y', 'Y', '<', '>', '_':
			n, next, err := parseUint(rs, i)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", op, err)
			}
			cmd.a, i = n, next

		case '$', '^', '@', '!', '/', '(', ')':
			if i >= len(rs) {
				return nil, fmt.Errorf("command %q needs one character", op)
			}
			cmd.s = string(rs[i])
			i++

		case 's':
			if i+1 >= len(rs) {
				return nil, fmt.Errorf("command %q needs two characters", op)
			}
			cmd.s, cmd.t = string(rs[i]), string(rs[i+1])
			i += 2

		case 'x', 'O', '*':
			a, b, next, err := parseRange(rs, i)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", op, err)
			}
			cmd.a, cmd.b, i = a, b, next

		case 'i':
			// character first, then the position
			if i >= len(rs) {
				return nil, fmt.Errorf("command %q needs a character", op)
			}
			cmd.s = string(rs[i])
			i++
			n, next, err := parseUint(rs, i)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", op, err)
			}
			cmd.a, i = n, next

		case 'o', '=', '%':
			// position first, then the character
			n, next, err := parseUint(rs, i)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", op, err)
			}
			cmd.a, i = n, next
			if i >= len(rs) {
				return nil, fmt.Errorf("command %q needs a character", op)
			}
			cmd.s = string(rs[i])
			i++

		default:
			return nil, fmt.Errorf("unknown command %q", op)
		}

		commands = append(commands, cmd)
	}

	return commands, nil
}

// parseUint consumes a run of decimal digits starting at i.
func parseUint(rs []rune, i int) (int, int, error) {
	start := i
	for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
		i++
	}
	if i == start {
		return 0, 0, fmt.Errorf("expected a number")
	}
	n, err := strconv.Atoi(string(rs[start:i]))
	if err != nil {
		return 0, 0, err
	}
	return n, i, nil
}

// parseRange consumes either `N:M` or exactly two raw digits.
func parseRange(rs []rune, i int) (int, int, int, error) {
	if a, next, err := parseUint(rs, i); err == nil && next < len(rs) && rs[next] == ':' {
		b, next, err := parseUint(rs, next+1)
		if err != nil {
			return 0, 0, 0, err
		}
		return a, b, next, nil
	}
	if i+1 >= len(rs) || !isDigit(rs[i]) || !isDigit(rs[i+1]) {
		return 0, 0, 0, fmt.Errorf("expected a position range")
	}
	return int(rs[i] - '0'), int(rs[i+1] - '0'), i + 2, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// runCommands applies commands in sequence. Returns false when a reject
// command drops the word for this rule line.
func runCommands(commands []command, word string) (string, bool) {
	for _, cmd := range commands {
		var ok bool
		word, ok = runCommand(cmd, word)
		if !ok {
			return "", false
		}
	}
	return word, true
}

func runCommand(cmd command, word string) (string, bool) {
	switch cmd.op {
	case ':':
		return word, true

	case 'l':
		return strings.ToLower(word), true

	case 'u':
		return strings.ToUpper(word), true

	case 'c':
		rs := []rune(word)
		if len(rs) == 0 {
			return word, true
		}
		return strings.ToUpper(string(rs[:1])) + strings.ToLower(string(rs[1:])), true

	case 'C':
		rs := []rune(word)
		if len(rs) == 0 {
			return word, true
		}
		return strings.ToLower(string(rs[:1])) + strings.ToUpper(string(rs[1:])), true

	case 't':
		return strings.Map(toggleRune, word), true

	case 'T':
		rs := []rune(word)
		if cmd.a < len(rs) {
			rs[cmd.a] = toggleRune(rs[cmd.a])
		}
		return string(rs), true

	case 'r':
		return reverse(word), true

	case 'd':
		return word + word, true

	case 'p':
		return strings.Repeat(word, cmd.a+1), true

	case 'f':
		return word + reverse(word), true

	case '{':
		rs := []rune(word)
		if len(rs) < 2 {
			return word, true
		}
		return string(rs[1:]) + string(rs[:1]), true

	case '}':
		rs := []rune(word)
		if len(rs) < 2 {
			return word, true
		}
		return string(rs[len(rs)-1:]) + string(rs[:len(rs)-1]), true

	case '$':
		return word + cmd.s, true

	case '^':
		return cmd.s + word, true

	case '[':
		rs := []rune(word)
		if len(rs) == 0 {
			return word, true
		}
		return string(rs[1:]), true

	case ']':
		rs := []rune(word)
		if len(rs) == 0 {
			return word, true
		}
		return string(rs[:len(rs)-1]), true

	case 'D':
		rs := []rune(word)
		if cmd.a >= len(rs) {
			return word, true
		}
		return string(rs[:cmd.a]) + string(rs[cmd.a+1:]), true

	case 'x':
		rs := []rune(word)
		start := min(cmd.a, len(rs))
		end := min(start+cmd.b, len(rs))
		return string(rs[start:end]), true

	case 'O':
		rs := []rune(word)
		start := min(cmd.a, len(rs))
		end := min(cmd.a+cmd.b, len(rs))
		return string(rs[:start]) + string(rs[end:]), true

	case 'i':
		rs := []rune(word)
		pos := min(cmd.a, len(rs))
		return string(rs[:pos]) + cmd.s + string(rs[pos:]), true

	case 'o':
		rs := []rune(word)
		head := rs[:min(cmd.a, len(rs))]
		var tail []rune
		if cmd.a+1 < len(rs) {
			tail = rs[cmd.a+1:]
		}
		return string(head) + cmd.s + string(tail), true

	case '\'':
		rs := []rune(word)
		if cmd.a >= len(rs) {
			return word, true
		}
		return string(rs[:cmd.a]), true

	case 's':
		return strings.ReplaceAll(word, cmd.s, cmd.t), true

	case '@':
		return strings.ReplaceAll(word, cmd.s, ""), true

	case 'z':
		rs := []rune(word)
		if len(rs) == 0 {
			return word, true
		}
		return strings.Repeat(string(rs[0]), cmd.a) + word, true

	case 'Z':
		rs := []rune(word)
		if len(rs) == 0 {
			return word, true
		}
		return word + strings.Repeat(string(rs[len(rs)-1]), cmd.a), true

	case 'q':
		var b strings.Builder
		b.Grow(2 * len(word))
		for _, r := range word {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String(), true

	case 'k':
		rs := []rune(word)
		if len(rs) < 2 {
			return word, true
		}
		rs[0], rs[1] = rs[1], rs[0]
		return string(rs), true

	case 'K':
		rs := []rune(word)
		if len(rs) < 2 {
			return word, true
		}
		rs[len(rs)-2], rs[len(rs)-1] = rs[len(rs)-1], rs[len(rs)-2]
		return string(rs), true

	case '*':
		rs := []rune(word)
		lo, hi := min(cmd.a, cmd.b), max(cmd.a, cmd.b)
		if hi >= len(rs) {
			return word, true
		}
		rs[lo], rs[hi] = rs[hi], rs[lo]
		return string(rs), true

	case 'L':
		return mapBytes(word, func(c byte) byte { return c << cmd.a }), true

	case 'R':
		return mapBytes(word, func(c byte) byte { return c >> cmd.a }), true

	case '+':
		return mapBytes(word, func(c byte) byte { return c + byte(cmd.a) }), true

	case '-':
		return mapBytes(word, func(c byte) byte { return c - byte(cmd.a) }), true

	case '.':
		rs := []rune(word)
		if cmd.a+1 < len(rs) {
			rs[cmd.a] = rs[cmd.a+1]
		}
		return string(rs), true

	case ',':
		rs := []rune(word)
		if cmd.a > 0 && cmd.a < len(rs) {
			rs[cmd.a] = rs[cmd.a-1]
		}
		return string(rs), true

	case 'y':
		rs := []rune(word)
		n := min(cmd.a, len(rs))
		return string(rs[:n]) + word, true

	case 'Y':
		rs := []rune(word)
		n := min(cmd.a, len(rs))
		return word + string(rs[len(rs)-n:]), true

	// Reject commands. Length checks compare byte length.
	case '<':
		return word, len(word) <= cmd.a

	case '>':
		return word, len(word) >= cmd.a

	case '_':
		return word, len(word) == cmd.a

	case '!':
		return word, !strings.Contains(word, cmd.s)

	case '/':
		return word, strings.Contains(word, cmd.s)

	case '(':
		return word, strings.HasPrefix(word, cmd.s)

	case ')':
		return word, strings.HasSuffix(word, cmd.s)

	case '=':
		rs := []rune(word)
		return word, cmd.a < len(rs) && string(rs[cmd.a]) == cmd.s

	case '%':
		return word, strings.Count(word, cmd.s) >= cmd.a

	default:
		return word, true
	}
}

func toggleRune(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	return unicode.ToUpper(r)
}

// mapBytes applies f to every character narrowed to a byte, matching
// the byte-level arithmetic commands.
func mapBytes(word string, f func(byte) byte) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		b.WriteRune(rune(f(byte(r))))
	}
	return b.String()
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
