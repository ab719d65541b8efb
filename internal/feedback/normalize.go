package feedback

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type section int

const (
	sectionScore section = iota
	sectionMissing
	sectionSuggestions
	sectionSummary
)

// Headings the prompt asks the model to emit, in the requested order.
var headingLabels = map[section]string{
	sectionScore:       "ATS Match Score",
	sectionMissing:     "Missing Skills/Keywords",
	sectionSuggestions: "Suggestions to Improve Resume",
	sectionSummary:     "Feedback Summary",
}

// headingPattern matches one section label. lenient only accepts the label at the
// start of a line, optionally after a bullet or markdown heading marker, with bold
// markers, colon placement and letter case all free. exact is the bold form the
// prompt asks for and wins when a label appears more than once.
type headingPattern struct {
	lenient *regexp.Regexp
	exact   *regexp.Regexp
}

var headingPatterns = func() map[section]headingPattern {
	out := make(map[section]headingPattern, len(headingLabels))
	for s, label := range headingLabels {
		quoted := regexp.QuoteMeta(label)
		out[s] = headingPattern{
			lenient: regexp.MustCompile(`(?im)^[ \t]*(?:[-*+•][ \t]*)?(?:#{1,6}[ \t]*)?\*{0,2}[ \t]*` +
				quoted + `[ \t]*\*{0,2}[ \t]*:[ \t]*\*{0,2}`),
			exact: regexp.MustCompile(`\*\*` + quoted + `(?::\*\*|\*\*:)`),
		}
	}
	return out
}()

var (
	scorePattern  = regexp.MustCompile(`^\s*(\d+)\s*%`)
	numberedPoint = regexp.MustCompile(`^\d+[.)]\s+`)
)

type heading struct {
	section    section
	start, end int
}

// Normalize parses a raw model response into a Record. It never fails: sections are
// located independently, so a missing or reordered heading only empties its own field.
// When no heading is present at all, a JSON object response is decoded instead.
func Normalize(raw string) Record {
	record := newRecord(raw)

	headings := locateHeadings(raw)
	if len(headings) == 0 {
		if decoded, ok := decodeJSON(raw); ok {
			return decoded
		}
		return record
	}

	for i, h := range headings {
		stop := len(raw)
		if i+1 < len(headings) {
			stop = headings[i+1].start
		}
		body := raw[h.end:stop]

		switch h.section {
		case sectionScore:
			record.Score = parseScore(body)
		case sectionMissing:
			record.MissingSkills = parseList(body)
		case sectionSuggestions:
			record.Suggestions = parseList(body)
		case sectionSummary:
			record.Summary = strings.TrimSpace(body)
		}
	}

	return record
}

// locateHeadings picks one occurrence of every known heading, ordered by position:
// the first exact bold one if any, otherwise the first lenient one.
func locateHeadings(raw string) []heading {
	found := make([]heading, 0, len(headingPatterns))
	for s, p := range headingPatterns {
		if loc := pickHeading(raw, p); loc != nil {
			found = append(found, heading{section: s, start: loc[0], end: loc[1]})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	// A heading nested inside an earlier match cannot start a section of its own.
	out := found[:0]
	lastEnd := -1
	for _, h := range found {
		if h.start < lastEnd {
			continue
		}
		out = append(out, h)
		lastEnd = h.end
	}
	return out
}

func pickHeading(raw string, p headingPattern) []int {
	locs := p.lenient.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return nil
	}
	for _, loc := range locs {
		if p.exact.MatchString(raw[loc[0]:loc[1]]) {
			return loc
		}
	}
	return locs[0]
}

func parseScore(body string) *int {
	m := scorePattern.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	return boundedScore(m[1])
}

func boundedScore(digits string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil || v < 0 || v > 100 {
		return nil
	}
	return &v
}

// parseList splits a section body into items, stripping bullet and numbering markers.
func parseList(body string) []string {
	items := []string{}
	for _, line := range strings.Split(body, "\n") {
		if item := cleanItem(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// cleanItem drops dashes and whitespace around a line, then one "*", "•" or "+"
// bullet and a "1." style number. Bold text such as "**Docker**" is kept intact.
func cleanItem(line string) string {
	item := strings.Trim(line, "- \t\r")
	for _, bullet := range []string{"* ", "• ", "+ "} {
		if strings.HasPrefix(item, bullet) {
			item = strings.TrimLeft(item[len(bullet):], " \t")
			break
		}
	}
	item = numberedPoint.ReplaceAllString(item, "")
	return strings.TrimSpace(item)
}

type jsonFeedback struct {
	MissingSkills []string `mapstructure:"missing_skills"`
	Suggestions   []string `mapstructure:"suggestions"`
	Summary       string   `mapstructure:"summary"`
}

var jsonKeyAliases = map[string]string{
	"score":           "score",
	"atsmatchscore":   "score",
	"matchscore":      "score",
	"missingskills":   "missing_skills",
	"missingkeywords": "missing_skills",
	"suggestions":     "suggestions",
	"summary":         "summary",
	"feedbacksummary": "summary",
}

// decodeJSON recovers a record from a JSON object response, optionally fenced in a code block.
func decodeJSON(raw string) (Record, bool) {
	record := newRecord(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return record, false
	}

	canonical := make(map[string]any, len(data))
	for key, value := range data {
		folded := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(key))
		if name, ok := jsonKeyAliases[folded]; ok {
			canonical[name] = value
		}
	}
	if len(canonical) == 0 {
		return record, false
	}

	var out jsonFeedback
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return record, false
	}
	if err := decoder.Decode(canonical); err != nil {
		return record, false
	}

	record.Score = coerceScore(canonical["score"])
	record.MissingSkills = cleanItems(out.MissingSkills)
	record.Suggestions = cleanItems(out.Suggestions)
	record.Summary = strings.TrimSpace(out.Summary)
	return record, true
}

func cleanItems(items []string) []string {
	out := []string{}
	for _, item := range items {
		if cleaned := cleanItem(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func coerceScore(v any) *int {
	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) {
			return nil
		}
		return boundedScore(strconv.Itoa(int(val)))
	case string:
		return boundedScore(strings.TrimSuffix(strings.TrimSpace(val), "%"))
	case nil:
		return nil
	default:
		return boundedScore(fmt.Sprint(val))
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
