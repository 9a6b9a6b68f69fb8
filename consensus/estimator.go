// Package consensus estimates how aligned the recent discussion is.
// The default strategy is deliberate keyword counting, not NLP; it hides
// behind contract.ConsensusStrategy so a model-based scorer can replace
// it without touching the bus or the facilitator.
package consensus

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"

	"collab-lab/domain"
)

const (
	// WindowSize bounds the trailing history slice that gets scored.
	WindowSize = 10

	// Agreement above this records a convergence point; below the lower
	// bound a disagreement. In between the group is still building.
	achievedThreshold     = 0.7
	disagreementThreshold = 0.5

	fallbackLang = "en"
)

// matcher pairs one polarity's automaton with its pattern list so hits
// can be mapped back to the keywords that caused them.
type matcher struct {
	machine  *goahocorasick.Machine
	patterns []string
}

// KeywordEstimator scans a trailing window of messages for agreement and
// disagreement keywords and turns the ratio into a [0,1] level. The window
// language is detected per estimation pass; unknown languages fall back
// to English.
type KeywordEstimator struct {
	agreement    map[string]matcher
	disagreement map[string]matcher
	log          *slog.Logger
}

func NewKeywordEstimator(log *slog.Logger) (*KeywordEstimator, error) {
	loader := NewLexiconLoader(lexiconFolder)

	agreementLex, err := loader.Load("lexicons/agreement")
	if err != nil {
		return nil, err
	}
	disagreementLex, err := loader.Load("lexicons/disagreement")
	if err != nil {
		return nil, err
	}

	agreement, err := buildMatchers(agreementLex)
	if err != nil {
		return nil, err
	}
	disagreement, err := buildMatchers(disagreementLex)
	if err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("%d agreement lexicons loaded [%s]",
		len(agreementLex.Languages), strings.Join(agreementLex.Languages, ",")))
	log.Info(fmt.Sprintf("%d disagreement lexicons loaded [%s]",
		len(disagreementLex.Languages), strings.Join(disagreementLex.Languages, ",")))

	return &KeywordEstimator{agreement: agreement, disagreement: disagreement, log: log}, nil
}

func buildMatchers(lexicon *Lexicon) (map[string]matcher, error) {
	matchers := make(map[string]matcher, len(lexicon.WordsByLang))
	for lang, words := range lexicon.WordsByLang {
		patterns := make([][]rune, len(words))
		for i, w := range words {
			patterns[i] = []rune(w)
		}
		m := new(goahocorasick.Machine)
		if err := m.Build(patterns); err != nil {
			return nil, err
		}
		matchers[lang] = matcher{machine: m, patterns: words}
	}
	return matchers, nil
}

// Estimate scores the trailing window of the given history.
// Histories shorter than two messages yield a zero report: there is no
// signal to score yet, only an opening statement.
func (e *KeywordEstimator) Estimate(history []domain.AgentMessage) domain.ConsensusReport {
	if len(history) < 2 {
		return domain.ConsensusReport{
			AgreementLevel: 0,
			Status:         domain.ConsensusBuilding,
			NextSteps:      "Need more input from participants before estimating consensus",
		}
	}

	window := history
	if len(window) > WindowSize {
		window = window[len(window)-WindowSize:]
	}

	lang := e.detectLanguage(window)

	var agreementHits, disagreementHits []string
	for _, msg := range window {
		content := strings.ToLower(msg.Content)
		// A message can contribute to both counts.
		agreementHits = append(agreementHits, e.scan(e.agreement, lang, content)...)
		disagreementHits = append(disagreementHits, e.scan(e.disagreement, lang, content)...)
	}

	level := 0.5 // neutral: no signal either way
	if total := len(agreementHits) + len(disagreementHits); total > 0 {
		level = float64(len(agreementHits)) / float64(total)
	}

	report := domain.ConsensusReport{AgreementLevel: level}
	switch {
	case level > achievedThreshold:
		report.Status = domain.ConsensusAchieved
		report.ConvergencePoints = lo.Uniq(agreementHits)
		report.NextSteps = "Consensus reached, ready to proceed to decisions"
	case level < disagreementThreshold:
		report.Status = domain.ConsensusDisagreement
		report.RemainingDisagreements = lo.Uniq(disagreementHits)
		report.NextSteps = "Surface and address the open disagreements"
	default:
		report.Status = domain.ConsensusBuilding
		report.NextSteps = "Continue the discussion to build consensus"
	}
	return report
}

// scan counts keyword occurrences of one polarity in the given content.
func (e *KeywordEstimator) scan(matchers map[string]matcher, lang, content string) []string {
	m, ok := matchers[lang]
	if !ok {
		m = matchers[fallbackLang]
	}

	spans := m.machine.MultiPatternSearch([]rune(content), false)
	hits := make([]string, 0, len(spans))
	for _, span := range spans {
		hits = append(hits, string(span.Word))
	}
	return hits
}

// detectLanguage picks the lexicon language for the whole window rather
// than per message, so a single borrowed word does not flip the lexicon.
func (e *KeywordEstimator) detectLanguage(window []domain.AgentMessage) string {
	joined := strings.Join(lo.Map(window, func(m domain.AgentMessage, _ int) string {
		return m.Content
	}), " ")

	info := whatlanggo.Detect(joined)
	lang := info.Lang.Iso6391()
	if _, ok := e.agreement[lang]; !ok {
		return fallbackLang
	}
	return lang
}
