// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// Pattern describes one rule of the extraction cascade. The classification
// travels with the pattern, so the order of DefaultPatterns decides only
// which interpretation is emitted first on a line.
type Pattern struct {
	// Name identifies the rule in tests and debug output.
	Name string

	Re *regexp.Regexp

	Class types.Classification

	// NameGroup is the capture group holding the event name.
	NameGroup string

	// ValueGroup, when set, holds a string literal used as the event name
	// instead of NameGroup. Names taken from it are never re-cased.
	ValueGroup string

	// PropsGroup holds an object-literal fragment to parse as properties.
	PropsGroup string

	// Reject drops a match based on its named groups.
	Reject func(groups map[string]string) bool
}

const (
	ident     = `[A-Za-z_$][\w$]*`
	quoteBody = `'[^'\n]*'|"[^"\n]*"|` + "`[^`\\n]*`"
	propsOpt  = `(?:\s*,\s*(?P<props>\{.*))?`
)

// quoted returns a capture group matching one single-, double- or
// backtick-quoted literal, quotes included.
func quoted(group string) string {
	return `(?P<` + group + `>` + quoteBody + `)`
}

// suspiciousSuffix lists the key endings that make a bracket assignment look
// like an event name.
const suspiciousSuffix = `(?:Manager|Event|Action|Click|View|Submit|Complete|Start|End|Track)`

// thirdPartyReceivers are claimed by the third-party rule rather than the
// generic method-call rule.
var thirdPartyReceivers = map[string]bool{
	"mixpanel":        true,
	"amplitude":       true,
	"posthog":         true,
	"heap":            true,
	"rudderanalytics": true,
	"rudderstack":     true,
	"segment":         true,
	"snowplow":        true,
	"intercom":        true,
	"fullstory":       true,
	"plausible":       true,
}

// DefaultPatterns is the extraction cascade in application order.
var DefaultPatterns = []Pattern{
	{
		// track(AnalyticsEvents.USER_SIGNED_UP, {...})
		Name:       "enum-track",
		Re:         regexp.MustCompile(`\btrack(?:Event)?\(\s*(?:[A-Z][\w$]*(?:Events?|Names|Types))\.(?P<name>` + ident + `)` + propsOpt),
		Class:      types.ClassTrack,
		NameGroup:  "name",
		PropsGroup: "props",
	},
	{
		// track('Signed Up') as a bare function call.
		Name:       "legacy-track",
		Re:         regexp.MustCompile(`(?:^|[^\w$.])track(?:Event)?\(\s*` + quoted("name") + propsOpt),
		Class:      types.ClassTrack,
		NameGroup:  "name",
		PropsGroup: "props",
	},
	{
		// analytics.track('Signed Up', {...})
		Name:       "method-track",
		Re:         regexp.MustCompile(`(?P<receiver>` + ident + `)\s*\.\s*track(?:Event)?\(\s*` + quoted("name") + propsOpt),
		Class:      types.ClassTrack,
		NameGroup:  "name",
		PropsGroup: "props",
		Reject: func(g map[string]string) bool {
			return thirdPartyReceivers[strings.ToLower(g["receiver"])]
		},
	},
	{
		// analytics.track({ userId, event: 'Signed Up', properties: {...} })
		Name:       "object-track",
		Re:         regexp.MustCompile(`\.track\(\s*\{[^}]*?\bevent\s*:\s*` + quoted("name") + `(?:[^{}]*?\bproperties\s*:\s*(?P<props>\{.*))?`),
		Class:      types.ClassTrack,
		NameGroup:  "name",
		PropsGroup: "props",
	},
	{
		Name:      "trait-bracket",
		Re:        regexp.MustCompile(`\btraits?\s*\[\s*` + quoted("name") + `\s*\]\s*=[^=]`),
		Class:     types.ClassTrait,
		NameGroup: "name",
	},
	{
		Name:      "trait-dot",
		Re:        regexp.MustCompile(`\btraits?\.(?P<name>` + ident + `)\s*=[^=]`),
		Class:     types.ClassTrait,
		NameGroup: "name",
	},
	{
		// props['CheckoutEvent'] = ...
		Name: "suspicious-bracket",
		Re: regexp.MustCompile(`\[\s*(?P<name>'[^'\n]*` + suspiciousSuffix + `'|"[^"\n]*` + suspiciousSuffix + `")` +
			`\s*\]\s*=[^=]`),
		Class:     types.ClassProperty,
		NameGroup: "name",
	},
	{
		// analytics.plan = 'pro'
		Name:      "analytics-property",
		Re:        regexp.MustCompile(`\b(?:analytics|tracking|tracker)(?:Props|Properties|Data)?\.(?P<name>` + ident + `)\s*=[^=]`),
		Class:     types.ClassProperty,
		NameGroup: "name",
	},
	{
		// AnalyticsEvents.USER_SIGNED_UP
		Name:      "enum-reference",
		Re:        regexp.MustCompile(`\b(?:[A-Z][\w$]*Events?|EventNames|EventTypes)\.(?P<name>[A-Z][\w$]*)`),
		Class:     types.ClassConstant,
		NameGroup: "name",
	},
	{
		// logEvent(USER_SIGNED_UP)
		Name:      "screaming-reference",
		Re:        regexp.MustCompile(`\b(?:track|trackEvent|logEvent|sendEvent|emit)\(\s*(?P<name>[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+)\b`),
		Class:     types.ClassConstant,
		NameGroup: "name",
	},
	{
		// const GREETING_SENT = "Greeting Sent"
		Name:       "constant-definition",
		Re:         regexp.MustCompile(`\b(?P<symbol>[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)*)\s*=\s*` + quoted("value")),
		Class:      types.ClassConstant,
		NameGroup:  "symbol",
		ValueGroup: "value",
	},
	{
		// { SIGN_UP: 'Sign Up' }
		Name:       "object-key-value",
		Re:         regexp.MustCompile(`(?:^|[{,\s])(?P<symbol>[A-Z][A-Z0-9_]+|[a-z][\w$]*Event)\s*:\s*` + quoted("value")),
		Class:      types.ClassProperty,
		NameGroup:  "symbol",
		ValueGroup: "value",
	},
	{
		Name: "third-party-library",
		Re: regexp.MustCompile(`(?i:\b(?:mixpanel|amplitude|posthog|heap|rudderanalytics|rudderstack|segment|snowplow|intercom|fullstory|plausible))` +
			`\s*\.\s*(?:track|trackEvent|logEvent|capture)\(\s*` + quoted("name") + propsOpt),
		Class:      types.ClassThirdParty,
		NameGroup:  "name",
		PropsGroup: "props",
	},
	{
		// gtag('event', 'sign_up', {...})
		Name:       "event-tag",
		Re:         regexp.MustCompile(`\bgtag\(\s*['"]event['"]\s*,\s*` + quoted("name") + propsOpt),
		Class:      types.ClassThirdParty,
		NameGroup:  "name",
		PropsGroup: "props",
	},
	{
		Name:       "send-event",
		Re:         regexp.MustCompile(`\b(?:sendEvent|logEvent|trackCustomEvent|sendAnalyticsEvent)\(\s*` + quoted("name") + propsOpt),
		Class:      types.ClassThirdParty,
		NameGroup:  "name",
		PropsGroup: "props",
	},
}

// groups returns the named groups of a submatch as a map.
func groups(re *regexp.Regexp, m []string) map[string]string {
	out := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		out[name] = m[i]
	}
	return out
}

// unquote strips the surrounding quote characters from a captured literal.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
