package validator

import (
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/designer"
	"github.com/SAP-F-2025/challenge-service/internal/errors"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/go-playground/validator/v10"
)

// ChallengeValidator checks the authored content of challenges against the
// rules players rely on. Evaluators never fail on bad content, they just
// never complete, so this is where authors learn what is wrong.
type ChallengeValidator struct {
	structValidator *validator.Validate
}

func NewChallengeValidator(structValidator *validator.Validate) *ChallengeValidator {
	return &ChallengeValidator{structValidator: structValidator}
}

type collector struct {
	prefix string
	errs   ValidationErrors
}

func (c *collector) add(field, rule, format string, args ...any) {
	c.errs = append(c.errs, *errors.NewValidationErrorWithRule(c.prefix+field, fmt.Sprintf(format, args...), rule, nil))
}

// ValidateProject validates every test of the project
func (v *ChallengeValidator) ValidateProject(project *models.Project) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(project.Tests))
	for i, test := range project.Tests {
		prefix := fmt.Sprintf("tests[%d]", i)
		if seen[test.ID] {
			errs = append(errs, *errors.NewValidationErrorWithRule(prefix+".id", "must be unique within the project", "unique", test.ID))
		}
		seen[test.ID] = true
		errs = append(errs, v.validateTest(prefix+".", test)...)
	}
	return errs
}

// ValidateTest validates every challenge of the test and checks that their
// ids are unique
func (v *ChallengeValidator) ValidateTest(test models.Test) ValidationErrors {
	return v.validateTest("", test)
}

func (v *ChallengeValidator) validateTest(prefix string, test models.Test) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(test.Challenges))
	for i, ch := range test.Challenges {
		chPrefix := fmt.Sprintf("%schallenges[%d].", prefix, i)
		if seen[ch.ID] {
			errs = append(errs, *errors.NewValidationErrorWithRule(chPrefix+"id", "must be unique within the test", "unique", ch.ID))
		}
		seen[ch.ID] = true
		errs = append(errs, v.validate(chPrefix, ch)...)
	}
	return errs
}

// Validate returns every problem found in ch, or nil
func (v *ChallengeValidator) Validate(ch models.Challenge) ValidationErrors {
	return v.validate("", ch)
}

func (v *ChallengeValidator) validate(prefix string, ch models.Challenge) ValidationErrors {
	c := &collector{prefix: prefix}

	if ch.ID == "" {
		c.add("id", "required", "is required")
	}
	if !ch.Type.Valid() {
		c.add("type", "challenge_type", "must be a valid challenge type")
		return c.errs
	}
	if ch.Content == nil {
		c.add("content", "required", "is required")
		return c.errs
	}
	if ch.Content.ChallengeType() != ch.Type {
		c.add("content", "content_type", "must be %s content, got %s", ch.Type, ch.Content.ChallengeType())
		return c.errs
	}

	if err := v.structValidator.Struct(ch.Content); err != nil {
		for _, fe := range ToValidationErrors(err) {
			fe.Field = prefix + "content." + fe.Field
			c.errs = append(c.errs, fe)
		}
	}

	c.prefix = prefix + "content."
	switch content := ch.Content.(type) {
	case models.SelectAnswerContent:
		validateSelectAnswer(c, content)
	case models.TrueOrFalseContent:
	case models.FillGapsContent:
		validateFillGaps(c, content)
	case models.MatchContent:
		validateMatch(c, content)
	case models.SortContent:
		validateSort(c, content)
	case models.ClassifyContent:
		validateClassify(c, content)
	case models.FillTableContent:
		validateFillTable(c, content)
	case models.TheOddOneContent:
		validateTheOddOne(c, content)
	}
	return c.errs
}

func validateSelectAnswer(c *collector, content models.SelectAnswerContent) {
	if len(content.Answers) != models.SelectAnswerOptionCount {
		c.add("answers", "len", "must have exactly %d answers", models.SelectAnswerOptionCount)
		return
	}
	for i, a := range content.Answers {
		if a.Text == "" {
			c.add(fmt.Sprintf("answers[%d].text", i), "required", "is required")
		}
	}
	valid := len(content.ValidIndices())
	switch {
	case valid == 0:
		c.add("answers", "valid_answer", "must have at least one valid answer")
	case valid > 1 && !content.Config.Multiselect:
		c.add("answers", "single_valid", "must have exactly one valid answer unless multiselect is enabled")
	}
}

func validateFillGaps(c *collector, content models.FillGapsContent) {
	if len(content.Sentences) != content.Config.SentenceCount {
		c.add("sentences", "count", "must have %d sentences", content.Config.SentenceCount)
	}
	hidden := 0
	for i, s := range content.Sentences {
		words := utils.SplitSentence(s.Text)
		if len(words) == 0 {
			c.add(fmt.Sprintf("sentences[%d].text", i), "required", "is required")
			continue
		}
		if !designer.WellFormed(s.HiddenExpressions, len(words)) {
			c.add(fmt.Sprintf("sentences[%d].hiddenExpressions", i), "hidden_expressions",
				"must be sorted, non-overlapping and inside the sentence")
			continue
		}
		for j, h := range s.HiddenExpressions {
			for _, alt := range h.Alternatives {
				if alt == "" {
					c.add(fmt.Sprintf("sentences[%d].hiddenExpressions[%d].alternatives", i, j), "required",
						"must not contain empty alternatives")
					break
				}
			}
		}
		hidden += len(s.HiddenExpressions)
	}
	if hidden == 0 {
		c.add("sentences", "hidden_expressions", "must hide at least one expression")
	}
}

func validateMatch(c *collector, content models.MatchContent) {
	if len(content.Pairs) != content.Config.PairCount {
		c.add("pairs", "count", "must have %d pairs", content.Config.PairCount)
	}
	sources := make(map[string]bool, len(content.Pairs))
	destinations := make(map[string]bool, len(content.Pairs))
	for i, p := range content.Pairs {
		if p.Source == "" || p.Destination == "" {
			c.add(fmt.Sprintf("pairs[%d]", i), "required", "source and destination are required")
			continue
		}
		if sources[p.Source] || destinations[p.Destination] {
			c.add(fmt.Sprintf("pairs[%d]", i), "unique", "source and destination must be unique")
		}
		sources[p.Source] = true
		destinations[p.Destination] = true
	}
}

func validateSort(c *collector, content models.SortContent) {
	if len(content.Items) != content.Config.ItemCount {
		c.add("items", "count", "must have %d items", content.Config.ItemCount)
	}
	for i, item := range content.Items {
		if item == "" {
			c.add(fmt.Sprintf("items[%d]", i), "required", "is required")
		}
	}
}

func validateClassify(c *collector, content models.ClassifyContent) {
	if len(content.Groups) != content.Config.GroupCount {
		c.add("groups", "count", "must have %d groups", content.Config.GroupCount)
	}
	names := make(map[string]bool, len(content.Groups))
	items := make(map[string]bool)
	for i, g := range content.Groups {
		if g.Name == "" {
			c.add(fmt.Sprintf("groups[%d].name", i), "required", "is required")
		} else if names[g.Name] {
			c.add(fmt.Sprintf("groups[%d].name", i), "unique", "must be unique")
		}
		names[g.Name] = true

		for _, item := range g.Items {
			if item == "" {
				c.add(fmt.Sprintf("groups[%d].items", i), "required", "must not contain empty items")
				continue
			}
			if items[item] {
				c.add(fmt.Sprintf("groups[%d].items", i), "unique", "item %q already belongs to a group", item)
			}
			items[item] = true
		}
	}
	if len(items) == 0 {
		c.add("groups", "items", "must contain at least one item")
	}
}

func validateFillTable(c *collector, content models.FillTableContent) {
	cfg := content.Config
	if len(content.Items) != cfg.RowCount {
		c.add("items", "count", "must have %d rows", cfg.RowCount)
	}
	hidden := 0
	for r, row := range content.Items {
		if len(row) != cfg.ColumnCount {
			c.add(fmt.Sprintf("items[%d]", r), "count", "must have %d columns", cfg.ColumnCount)
		}
		for col, cell := range row {
			if cfg.IsFixed(r, col) {
				continue
			}
			if cell.Text == "" {
				c.add(fmt.Sprintf("items[%d][%d].text", r, col), "required", "is required")
			}
			if cell.Hidden {
				hidden++
			}
		}
	}
	if hidden == 0 {
		c.add("items", "hidden", "must hide at least one cell outside the fixed headers")
	}
}

func validateTheOddOne(c *collector, content models.TheOddOneContent) {
	cfg := content.Config
	if len(content.Series) != cfg.SeriesCount {
		c.add("series", "count", "must have %d series", cfg.SeriesCount)
	}
	for i, s := range content.Series {
		if len(s.Elements) != cfg.ElementCount {
			c.add(fmt.Sprintf("series[%d].elements", i), "count", "must have %d elements", cfg.ElementCount)
		}
		if s.TheOddOneIndex < 0 || s.TheOddOneIndex >= len(s.Elements) {
			c.add(fmt.Sprintf("series[%d].theOddOneIndex", i), "range", "must point at one of the elements")
		}
		for j, e := range s.Elements {
			if e == "" {
				c.add(fmt.Sprintf("series[%d].elements[%d]", i, j), "required", "is required")
			}
		}
	}
}
