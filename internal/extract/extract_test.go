// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

func TestExtract_TrackCallWithProperties(t *testing.T) {
	got := Extract(`analytics.track('User Signed Up', { user_id: 1 })`, "src/signup.js")

	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, "User Signed Up", c.Name)
	assert.Equal(t, types.ClassTrack, c.Classification())
	assert.Equal(t, map[string]any{"user_id": float64(1)}, c.UserProperties())
	assert.Equal(t, types.Location{File: "src/signup.js", Line: 1}, c.Location)
}

func TestExtract_ConstantDefinitionKeepsStringValue(t *testing.T) {
	got := Extract(`const GREETING_SENT = "Greeting Sent";`, "src/constants.ts")

	require.Len(t, got, 1)
	assert.Equal(t, "Greeting Sent", got[0].Name)
	assert.Equal(t, types.ClassConstant, got[0].Classification())
	assert.Empty(t, got[0].UserProperties())
}

func TestExtract_Classifications(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantName  string
		wantClass types.Classification
		wantProps map[string]any
	}{
		{
			name:      "bare track call",
			line:      `  track('Panel Opened');`,
			wantName:  "Panel Opened",
			wantClass: types.ClassTrack,
			wantProps: map[string]any{},
		},
		{
			name:      "segment object style",
			line:      `analytics.track({ userId: id, event: 'Order Completed', properties: { total: 10 } })`,
			wantName:  "Order Completed",
			wantClass: types.ClassTrack,
			wantProps: map[string]any{"total": float64(10)},
		},
		{
			name:      "trait bracket",
			line:      `traits['plan'] = 'pro';`,
			wantName:  "plan",
			wantClass: types.ClassTrait,
			wantProps: map[string]any{},
		},
		{
			name:      "trait dot",
			line:      `traits.plan = 'pro';`,
			wantName:  "plan",
			wantClass: types.ClassTrait,
			wantProps: map[string]any{},
		},
		{
			name:      "suspicious bracket",
			line:      `payload["CheckoutEvent"] = true;`,
			wantName:  "CheckoutEvent",
			wantClass: types.ClassProperty,
			wantProps: map[string]any{},
		},
		{
			name:      "screaming constant reference is camel cased",
			line:      `logEvent(USER_SIGNED_UP);`,
			wantName:  "userSignedUp",
			wantClass: types.ClassConstant,
			wantProps: map[string]any{},
		},
		{
			name:      "object key with string value",
			line:      `  SIGN_UP: 'Sign Up',`,
			wantName:  "Sign Up",
			wantClass: types.ClassProperty,
			wantProps: map[string]any{},
		},
		{
			name:      "named tracking library",
			line:      `mixpanel.track('Video Played', { duration: 30, autoplay: false })`,
			wantName:  "Video Played",
			wantClass: types.ClassThirdParty,
			wantProps: map[string]any{"duration": float64(30), "autoplay": false},
		},
		{
			name:      "event tag",
			line:      `gtag('event', 'sign_up', { method: 'Google' });`,
			wantName:  "sign_up",
			wantClass: types.ClassThirdParty,
			wantProps: map[string]any{"method": "Google"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.line, "src/app.js")
			require.Len(t, got, 1, "candidates: %+v", got)
			assert.Equal(t, tt.wantName, got[0].Name)
			assert.Equal(t, tt.wantClass, got[0].Classification())
			assert.Equal(t, tt.wantProps, got[0].UserProperties())
		})
	}
}

func TestExtract_UnparseablePropertiesDegradeToEmpty(t *testing.T) {
	got := Extract(`analytics.track('Plan Changed', { plan: user.plan })`, "a.js")

	require.Len(t, got, 1)
	assert.Equal(t, "Plan Changed", got[0].Name)
	assert.Empty(t, got[0].UserProperties())
	assert.False(t, got[0].ParseError())
}

func TestExtract_PriorityLiteralsWinTheLine(t *testing.T) {
	e := New(Options{PriorityLiterals: true})
	lines := []string{
		`analytics.track('User Signed Up', { user_id: 1 })`,
		`const GREETING_SENT = "Greeting Sent";`,
		`mixpanel.track('Video Played')`,
		`track("checkout:start")`,
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			got := e.Extract(line, "src/app.js")
			require.Len(t, got, 1)
			assert.Equal(t, types.ClassExactMatch, got[0].Classification())
			assert.Equal(t, TagDirect, got[0].Context())
		})
	}
}

func TestExtract_PriorityLiteralKeepsCallProperties(t *testing.T) {
	e := New(Options{PriorityLiterals: true})

	got := e.Extract(`analytics.track('User Signed Up', { user_id: 1 })`, "src/signup.js")

	require.Len(t, got, 1)
	assert.Equal(t, types.ClassExactMatch, got[0].Classification())
	assert.Equal(t, map[string]any{"user_id": float64(1)}, got[0].UserProperties())
}

func TestExtract_PriorityLiteralsSkipPlainWords(t *testing.T) {
	e := New(Options{PriorityLiterals: true})

	assert.Empty(t, e.Extract(`import x from 'lodash';`, "a.js"))
	assert.Empty(t, e.Extract(`const a = 'ok';`, "a.js"))

	got := e.Extract(`label = 'Invitation';`, "a.js")
	require.Len(t, got, 1)
	assert.Equal(t, "Invitation", got[0].Name)
}

func TestExtract_ContextTags(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		line     int
		want     string
	}{
		{
			name: "method with guard",
			content: strings.Join([]string{
				"class Checkout {",
				"  submit() {",
				"    if (ok) {",
				"      analytics.track('Order Submitted');",
				"    }",
				"  }",
				"}",
			}, "\n"),
			filename: "src/checkout.js",
			line:     4,
			want:     "in_function,conditional",
		},
		{
			name: "class field",
			content: strings.Join([]string{
				"export class Tracker {",
				"  handler = analytics.track('Panel Opened');",
				"}",
			}, "\n"),
			filename: "src/tracker.js",
			line:     2,
			want:     "in_class",
		},
		{
			name: "switch case",
			content: strings.Join([]string{
				"switch (action) {",
				"  case 'open':",
				"    track('Panel Opened');",
				"}",
			}, "\n"),
			filename: "src/reducer.js",
			line:     3,
			want:     "in_switch_case",
		},
		{
			name:     "analytics file",
			content:  "track('App Opened');",
			filename: "src/analytics.js",
			line:     1,
			want:     "analytics_file",
		},
		{
			name:     "top level",
			content:  "track('App Opened');",
			filename: "src/index.js",
			line:     1,
			want:     "direct",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content, tt.filename)
			var found bool
			for _, c := range got {
				if c.Location.Line == tt.line {
					found = true
					assert.Equal(t, tt.want, c.Context())
				}
			}
			assert.True(t, found, "no candidate on line %d: %+v", tt.line, got)
		})
	}
}

func TestExtract_LineNumbersAndOrder(t *testing.T) {
	content := "// header\n\ntrack('First Event');\nconst x = 1;\ntrack('Second Event');\n"

	got := Extract(content, "src/index.js")

	require.Len(t, got, 2)
	assert.Equal(t, "First Event", got[0].Name)
	assert.Equal(t, 3, got[0].Location.Line)
	assert.Equal(t, "Second Event", got[1].Name)
	assert.Equal(t, 5, got[1].Location.Line)
}

func TestExtract_Deterministic(t *testing.T) {
	content := "track('A Event', { a: 1 });\nlogEvent(B_EVENT);\nconst C_EVENT = 'C Event';"
	assert.Equal(t, Extract(content, "x.js"), Extract(content, "x.js"))
}

func TestExtract_EmptyContent(t *testing.T) {
	assert.Empty(t, Extract("", "x.js"))
	assert.Empty(t, Extract("\n\n   \n", "x.js"))
}

func TestExtract_FailingMatchEmitsFallback(t *testing.T) {
	e := New(Options{Patterns: []Pattern{{
		Name:      "boom",
		Re:        regexp.MustCompile(`emit\('(?P<name>[^']+)'\)`),
		Class:     types.ClassTrack,
		NameGroup: "name",
		Reject:    func(map[string]string) bool { panic("boom") },
	}}})

	got := e.Extract("emit('Broken Event')\nemit('Other Event')", "x.js")

	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, types.ClassUnknown, c.Classification())
		assert.True(t, c.ParseError())
	}
	assert.Equal(t, "Broken Event", got[0].Name)
	assert.Equal(t, "Other Event", got[1].Name)
}

func TestExtract_NeverEmitsEmptyNames(t *testing.T) {
	got := Extract("track('');\ntraits[''] = 1;\nconst EMPTY = '';", "x.js")
	for _, c := range got {
		assert.NotEmpty(t, c.Name)
	}
}

func TestDedupe(t *testing.T) {
	mk := func(name string, class types.Classification, line int) types.Candidate {
		return types.Candidate{
			Name:       name,
			Properties: map[string]any{types.KeyClassification: class},
			Location:   types.Location{File: "f.js", Line: line},
		}
	}
	in := []types.Candidate{
		mk("a", types.ClassTrack, 1),
		mk("a", types.ClassConstant, 1),
		mk("b", types.ClassTrack, 1),
		mk("x", types.ClassTrack, 2),
		mk("Exact One", types.ClassExactMatch, 2),
		mk("Exact Two", types.ClassExactMatch, 2),
	}

	got := Dedupe(in)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, types.ClassTrack, got[0].Classification())
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "Exact One", got[2].Name)
}

func TestExtract_OneCandidatePerNameAndLine(t *testing.T) {
	content := "track('A Event'); track('A Event'); track('B Event');\ntrack('A Event');"

	got := Extract(content, "src/index.js")

	require.Len(t, got, 3)
	assert.Equal(t, "A Event", got[0].Name)
	assert.Equal(t, 1, got[0].Location.Line)
	assert.Equal(t, "B Event", got[1].Name)
	assert.Equal(t, 1, got[1].Location.Line)
	assert.Equal(t, "A Event", got[2].Name)
	assert.Equal(t, 2, got[2].Location.Line)
	assert.Equal(t, got, Dedupe(got), "extraction output is already deduplicated")
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"USER_SIGNED_UP": "userSignedUp",
		"user_signed_up": "userSignedUp",
		"_LEADING":       "leading",
		"ONE":            "one",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelCase(in), in)
	}
}

func TestFileType(t *testing.T) {
	tests := map[string]string{
		"src/analytics/index.ts":       "analytics",
		"src/lib/tracking.js":          "tracking",
		"src/components/Button.tsx":    "component",
		"src/pages/home.vue":           "page",
		"src/__tests__/button.test.js": "test",
		"src/utils/format.js":          "js",
		"Makefile":                     "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, fileType(in), in)
	}
}
