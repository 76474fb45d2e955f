package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestEvalCommand(t *testing.T) {
	type testdata struct {
		args     []string
		contains []string
		absent   []string
		expErr   bool
	}
	cases := []testdata{
		{
			args:     []string{"eval", "XXXX.XXXXX"},
			contains: []string{"mode:             normal", "score:", "hold: -  garbage: 0"},
			absent:   []string{"Equity"},
		},
		{
			args:     []string{"eval", "-queue", "I", "-threads", "1", "XXXX.XXXXX"},
			contains: []string{"queue: I", "score:", "Equity", "  1: "},
		},
		{
			args:   []string{"eval", "XXXX?XXXXX"},
			expErr: true,
		},
		{
			args:   []string{"eval", "-no-such-setting", "1"},
			expErr: true,
		},
	}
	for _, c := range cases {
		is := is.New(t)
		var out, errOut bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&errOut)
		rootCmd.SetArgs(c.args)
		err := rootCmd.Execute()
		if c.expErr {
			is.True(err != nil)
			continue
		}
		is.NoErr(err)
		for _, s := range c.contains {
			is.True(strings.Contains(out.String(), s)) // missing expected output
		}
		for _, s := range c.absent {
			is.True(!strings.Contains(out.String(), s)) // unexpected output
		}
	}
}

func TestAnalyzeNeedsOneFile(t *testing.T) {
	is := is.New(t)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"analyze"})
	err := rootCmd.Execute()
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "usage"))
}
