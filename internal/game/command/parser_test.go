package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("show")
	assert.Equal(t, "show", result.Command)
	assert.Nil(t, result.Args)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("COMMIT")
	assert.Equal(t, "commit", result.Command)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("vehicle Hauler")
	assert.Equal(t, "vehicle", result.Command)
	assert.Equal(t, []string{"Hauler"}, result.Args, "arguments keep their case")
	assert.Equal(t, "Hauler", result.RawArgs)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  list   vehicles   now  ")
	assert.Equal(t, "list", result.Command)
	assert.Equal(t, []string{"vehicles", "now"}, result.Args)
	assert.Equal(t, "vehicles   now", result.RawArgs)
}

func TestParse_TabSeparated(t *testing.T) {
	result := Parse("slot\t2")
	assert.Equal(t, "slot", result.Command)
	assert.Equal(t, []string{"2"}, result.Args)
}

func TestParse_Comment(t *testing.T) {
	result := Parse("slot 2 # the buggy")
	assert.Equal(t, "slot", result.Command)
	assert.Equal(t, []string{"2"}, result.Args)

	assert.Equal(t, "", Parse("# only a comment").Command)
}

func TestStepArg(t *testing.T) {
	for _, arg := range []string{"next", "NEXT", "n", "+"} {
		forward, ok := stepArg(arg)
		assert.True(t, ok, arg)
		assert.True(t, forward, arg)
	}
	for _, arg := range []string{"prev", "previous", "p", "-"} {
		forward, ok := stepArg(arg)
		assert.True(t, ok, arg)
		assert.False(t, forward, arg)
	}
	_, ok := stepArg("2")
	assert.False(t, ok)
}

func TestNoneArg(t *testing.T) {
	assert.True(t, noneArg("none"))
	assert.True(t, noneArg("Empty"))
	assert.True(t, noneArg("-1"))
	assert.False(t, noneArg("0"))
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

func TestPropertyParseNonEmptyInputHasCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "word")
		result := Parse(word)
		if result.Command == "" {
			t.Fatalf("non-empty input %q produced empty command", word)
		}
	})
}

func TestPropertyParseArgsMatchFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cmd := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "cmd")
		args := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9]{1,8}`), 0, 4).Draw(t, "args")
		line := cmd
		for _, a := range args {
			line += "  " + a
		}
		result := Parse(line)
		if result.Command != cmd {
			t.Fatalf("command: got %q want %q", result.Command, cmd)
		}
		if len(result.Args) != len(args) {
			t.Fatalf("args: got %v want %v", result.Args, args)
		}
		for i := range args {
			if result.Args[i] != args[i] {
				t.Fatalf("arg %d: got %q want %q", i, result.Args[i], args[i])
			}
		}
	})
}
