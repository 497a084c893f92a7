package command

import "strings"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
}

// Parse splits a text line into a command and arguments. Everything from the first
// '#' onward is a comment, so command scripts can be annotated.
//
// Postcondition: Returns a ParseResult. If line is empty or only a comment, Command is empty.
func Parse(line string) ParseResult {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	rest := strings.TrimSpace(line[len(fields[0]):])

	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}

	return ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
	}
}

// stepArg reports whether arg names a cycling step and, if so, its direction.
func stepArg(arg string) (forward, ok bool) {
	switch strings.ToLower(arg) {
	case "next", "n", "+":
		return true, true
	case "prev", "previous", "p", "-":
		return false, true
	default:
		return false, false
	}
}

// noneArg reports whether arg asks for an empty selection.
func noneArg(arg string) bool {
	switch strings.ToLower(arg) {
	case "none", "empty", "-1":
		return true
	default:
		return false
	}
}
