package parsers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/recipe-genie/server/internal/agent/model"
	errx "github.com/recipe-genie/server/internal/core/error"
	logx "github.com/recipe-genie/server/pkg/logger"
)

const (
	recDelim = "##"
	tupDelim = "<||>"
	endDelim = "<|COMPLETE|>"
)

// Delimiters exposes the tuple markers so the prompt and parser stay in sync.
var Delimiters = struct{ Record, Tuple, Complete string }{recDelim, tupDelim, endDelim}

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 32 * 1024 // 32KB
	maxRecords    = 50        // maximum number of records to process
	maxTupleLen   = 4 * 1024  // 4KB per tuple
	maxErrSnippet = 200       // limit error snippet size
	maxListItems  = 20
)

type rawTuple struct {
	Type  string
	Parts []string
}

func parseRawTuple(s string) (*rawTuple, error) {
	if s == "" {
		return nil, fmt.Errorf("empty tuple")
	}
	if len(s) > maxTupleLen {
		return nil, fmt.Errorf("tuple too large")
	}

	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("invalid tuple parens")
	}
	// remove the outermost parens only
	inner := s[1 : len(s)-1]
	// at most 3 segments so slot values may contain the delimiter
	parts := strings.SplitN(inner, tupDelim, 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid tuple parts")
	}
	return &rawTuple{Type: strings.ToLower(strings.TrimSpace(parts[0])), Parts: parts}, nil
}

func parseFloatInRange(s, name string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s invalid number", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s out of range", name)
	}
	return v, nil
}

// ParseIntent turns classifier output into an Intent. Well-formed tuples are
// preferred; when none carry a known label the raw text is scanned for the
// labels in TerminalActions order. An Intent with ActionNone is not an error.
func ParseIntent(content string) (intent *model.Intent, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "intent_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("intent parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			intent = nil
		}
	}()

	intent = &model.Intent{ParsingMetadata: map[string]any{}}
	addErr := func(msg string) {
		v, _ := intent.ParsingMetadata["parsing_errors"].([]string)
		intent.ParsingMetadata["parsing_errors"] = append(v, msg)
	}

	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
		addErr("invalid utf8 replaced")
	}
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "intent_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
		intent.ParsingMetadata["truncated"] = true
	}
	// honor completion delimiter if present
	if idx := strings.Index(content, endDelim); idx >= 0 {
		content = content[:idx]
	}

	bestConf := -1.0
	processed := 0
	for _, rec := range strings.Split(content, recDelim) {
		if processed >= maxRecords {
			intent.ParsingMetadata["records_capped"] = true
			break
		}
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		processed++

		rt, rerr := parseRawTuple(rec)
		if rerr != nil {
			addErr(fmt.Sprintf("bad_record: %s", safeSnippet(rec)))
			continue
		}

		switch rt.Type {
		case "intent":
			action, ok := model.ParseAction(rt.Parts[1])
			if !ok {
				addErr(fmt.Sprintf("intent: unknown label %q", safeSnippet(rt.Parts[1])))
				continue
			}
			conf := 1.0
			if len(rt.Parts) >= 3 {
				c, err := parseFloatInRange(rt.Parts[2], "intent.confidence", 0, 1)
				if err != nil {
					addErr("intent: invalid confidence")
					continue
				}
				conf = c
			}
			if conf > bestConf {
				bestConf = conf
				intent.Action = action
				intent.Confidence = conf
			}

		case "slot":
			if len(rt.Parts) < 3 {
				addErr("slot: insufficient parts")
				continue
			}
			if err := applySlot(&intent.Slots, rt.Parts[1], rt.Parts[2]); err != nil {
				addErr(err.Error())
			}

		default:
			addErr("unknown tuple type")
		}
	}

	if intent.Action == model.ActionNone {
		lower := strings.ToLower(content)
		for _, a := range model.TerminalActions {
			if strings.Contains(lower, string(a)) {
				intent.Action = a
				intent.ParsingMetadata["fallback_scan"] = true
				break
			}
		}
	}

	return intent, nil
}

func applySlot(s *model.Slots, name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") || strings.EqualFold(value, "null") {
		return nil
	}

	switch name {
	case "ingredients":
		s.Ingredients = capList(model.SplitList(value))
	case "cuisine":
		s.Cuisine = value
	case "diet", "dietary_restrictions":
		s.DietaryRestrictions = capList(model.SplitList(value))
	case "meal_type":
		s.MealType = value
	case "dish":
		s.Dish = value
	case "recipe_title":
		s.RecipeTitle = value
	case "food", "food_description":
		s.FoodDescription = value
	case "max_calories":
		n, err := parseFloatInRange(value, "slot.max_calories", 0, 100000)
		if err != nil {
			return fmt.Errorf("slot: invalid max_calories")
		}
		s.MaxCalories = int(n)
	default:
		return fmt.Errorf("slot: unknown name %q", safeSnippet(name))
	}
	return nil
}

// --- helpers ---

func capList(in []string) []string {
	if len(in) > maxListItems {
		return in[:maxListItems]
	}
	return in
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
