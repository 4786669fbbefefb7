package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		words    []string
		expected Command
	}{
		{
			"plain argv",
			[]string{"ls", "-l"},
			Command{Argv: []string{"ls", "-l"}},
		},
		{
			"write redirection with background",
			[]string{"ls", "-l", ">", "out.txt", "&"},
			Command{
				Argv:       []string{"ls", "-l"},
				Redirs:     []Redirection{{Kind: RedirWrite, Target: "out.txt"}},
				Background: true,
			},
		},
		{
			"read redirection",
			[]string{"sort", "<", "in.txt"},
			Command{
				Argv:   []string{"sort"},
				Redirs: []Redirection{{Kind: RedirRead, Target: "in.txt"}},
			},
		},
		{
			"append redirection",
			[]string{"echo", "hi", ">>", "log"},
			Command{
				Argv:   []string{"echo", "hi"},
				Redirs: []Redirection{{Kind: RedirAppend, Target: "log"}},
			},
		},
		{
			"multiple redirections keep order",
			[]string{"tr", "<", "in", ">", "out", "a", "b"},
			Command{
				Argv: []string{"tr", "a", "b"},
				Redirs: []Redirection{
					{Kind: RedirRead, Target: "in"},
					{Kind: RedirWrite, Target: "out"},
				},
			},
		},
		{
			"ampersand in the middle stays literal",
			[]string{"echo", "&", "done"},
			Command{Argv: []string{"echo", "&", "done"}},
		},
		{
			"redirection target looks like operator",
			[]string{"echo", ">", ">>"},
			Command{
				Argv:   []string{"echo"},
				Redirs: []Redirection{{Kind: RedirWrite, Target: ">>"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Parse(tc.words)
			require.NoError(t, err)
			assert.Equal(t, &tc.expected, cmd)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name     string
		words    []string
		expected error
	}{
		{"no words", nil, ErrEmptyCommand},
		{"only background marker", []string{"&"}, ErrEmptyCommand},
		{"only redirection", []string{">", "out"}, ErrEmptyCommand},
		{"missing write target", []string{"ls", ">"}, ErrMissingRedirectTarget},
		{"missing read target", []string{"ls", "<"}, ErrMissingRedirectTarget},
		{"missing append target", []string{"ls", ">>"}, ErrMissingRedirectTarget},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Parse(tc.words)
			assert.Nil(t, cmd)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestRedirKindString(t *testing.T) {
	assert.Equal(t, "<", RedirRead.String())
	assert.Equal(t, ">", RedirWrite.String())
	assert.Equal(t, ">>", RedirAppend.String())
}
