package main

import "testing"

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"crlf to lf",
			"a\r\nb\r\n",
			"a\nb\n",
		},
		{
			"smart quotes",
			`print(“hi”, ‘x’)`,
			"print(\"hi\", 'x')\n",
		},
		{
			"tabs become four spaces",
			"def f():\n\treturn 1",
			"def f():\n    return 1\n",
		},
		{
			"trailing whitespace stripped",
			"a   \nb\t\n",
			"a\nb\n",
		},
		{
			"blank runs collapse to one blank line",
			"a\n\n\n\n\nb",
			"a\n\nb\n",
		},
		{
			"exactly one trailing newline",
			"a\n\n\n",
			"a\n",
		},
		{
			"non-breaking space",
			"a b",
			"a b\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeCode(tc.in); got != tc.want {
				t.Errorf("normalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeCodeIdempotent(t *testing.T) {
	inputs := []string{
		"a\r\nb\t“c”\n\n\n\nd   \n",
		"class Solution:\n\tdef twoSum(self):\n\t\tpass\n",
		"",
	}
	for _, in := range inputs {
		once := normalizeCode(in)
		twice := normalizeCode(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
