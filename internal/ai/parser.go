package ai

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/recruitflow/recruiter/internal/utils"
)

const (
	MarkerResumeSummary    = "RESUME_SUMMARY"
	MarkerFitScore         = "FIT_SCORE"
	MarkerBestMatch        = "BEST_MATCH"
	MarkerMatchPercentages = "MATCH_PERCENTAGES"
	MarkerEvaluation       = "EVALUACIÓN DETALLADA"
)

var (
	markerPatterns = map[string]*regexp.Regexp{
		MarkerResumeSummary:    markerPattern(MarkerResumeSummary),
		MarkerFitScore:         markerPattern(MarkerFitScore),
		MarkerBestMatch:        markerPattern(MarkerBestMatch),
		MarkerMatchPercentages: markerPattern(MarkerMatchPercentages),
		MarkerEvaluation:       markerPattern(MarkerEvaluation),
	}

	integerPattern    = regexp.MustCompile(`-?\d+`)
	percentagePattern = regexp.MustCompile(`^\s*[-*•]\s*(.+?)\s*:\s*(-?\d+)\s*%`)
)

// markerPattern matches the marker literally, tolerating markdown emphasis
// around it, e.g. "**FIT_SCORE:** 80".
func markerPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\*{0,2}` + regexp.QuoteMeta(name) + `\*{0,2}\s*:\*{0,2}`)
}

type markerSpan struct {
	name  string
	start int
	end   int
}

// ParseReply extracts an EvaluationResult from the model's free-text reply.
// Fields are extracted independently; a missing or malformed marker only
// degrades its own field to the documented default.
func ParseReply(raw string) *EvaluationResult {
	spans := locateMarkers(raw)

	return &EvaluationResult{
		ResumeSummary:    parseResumeSummary(section(raw, spans, MarkerResumeSummary)),
		FitScore:         parseFitScore(section(raw, spans, MarkerFitScore)),
		BestMatch:        parseBestMatch(section(raw, spans, MarkerBestMatch)),
		MatchPercentages: parseMatchPercentages(section(raw, spans, MarkerMatchPercentages)),
		EvaluationText:   parseEvaluationText(raw, spans),
	}
}

// locateMarkers returns the first occurrence of each marker, ordered by position.
func locateMarkers(raw string) []markerSpan {
	spans := make([]markerSpan, 0, len(markerPatterns))
	for name, re := range markerPatterns {
		loc := re.FindStringIndex(raw)
		if loc == nil {
			continue
		}
		spans = append(spans, markerSpan{name: name, start: loc[0], end: loc[1]})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// section returns the text after the named marker up to the next marker, or
// the end of the reply. ok is false when the marker is absent.
func section(raw string, spans []markerSpan, name string) (text string, ok bool) {
	for i, span := range spans {
		if span.name != name {
			continue
		}
		end := len(raw)
		for _, next := range spans[i+1:] {
			if next.start >= span.end {
				end = next.start
				break
			}
		}
		return raw[span.end:end], true
	}
	return "", false
}

func parseResumeSummary(text string, ok bool) string {
	summary := strings.TrimSpace(text)
	if !ok || summary == "" {
		return DefaultResumeSummary
	}
	return summary
}

func parseFitScore(text string, ok bool) int {
	if !ok {
		return DefaultFitScore
	}

	match := integerPattern.FindString(text)
	if match == "" {
		return DefaultFitScore
	}

	score, err := strconv.Atoi(match)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return DefaultFitScore
		}
		if strings.HasPrefix(match, "-") {
			return 0
		}
		return 100
	}

	return utils.Clamp(score, 0, 100)
}

func parseBestMatch(text string, ok bool) string {
	if !ok {
		return DefaultBestMatch
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line != "" {
			return line
		}
	}

	return DefaultBestMatch
}

// parseMatchPercentages reads "- <title>: <n>%" lines. Other lines are skipped.
// Values are kept as reported by the model.
func parseMatchPercentages(text string, ok bool) map[string]int {
	percentages := map[string]int{}
	if !ok {
		return percentages
	}

	for _, line := range strings.Split(text, "\n") {
		m := percentagePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		label := strings.TrimSpace(strings.Trim(m[1], "*"))
		if label == "" {
			continue
		}

		value, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		percentages[label] = value
	}

	return percentages
}

// parseEvaluationText keeps everything after the evaluation marker. Without
// the marker, or with nothing after it, the whole reply is kept verbatim.
func parseEvaluationText(raw string, spans []markerSpan) string {
	for _, span := range spans {
		if span.name != MarkerEvaluation {
			continue
		}
		if text := strings.TrimSpace(raw[span.end:]); text != "" {
			return text
		}
		break
	}

	return raw
}
