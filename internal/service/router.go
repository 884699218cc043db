package service

import (
	"regexp"
	"strings"
)

// Intent names the single tool a question is dispatched to in direct mode
type Intent string

const (
	IntentCalculate Intent = "calculate"
	IntentLookup    Intent = "lookup"
	IntentReason    Intent = "reason"
)

var calculateKeywords = []string{
	"calculate", "compute", "sum of", "product of", "plus", "minus",
	"times", "divided", "multiply", "multiplied", "subtract", "square root",
	"percent", "percentage", "how much is", "what is the result",
	"+", "*", "/", "^", "=",
}

var lookupKeywords = []string{
	"who is", "who was", "who were", "what is the capital", "where is",
	"when was", "when did", "born", "founded", "history of", "wikipedia",
	"invented", "discovered", "population", "president", "country",
	"city", "tell me about", "biography", "capital of",
}

var reasonKeywords = []string{
	"why", "explain", "how does", "how do", "should", "compare",
	"difference between", "reason", "logic", "opinion", "pros and cons",
}

// arithmetic matches "<number> <operator> <number>" anywhere in the text
var reArithmetic = regexp.MustCompile(`\d\s*[-+*/^%x×÷]\s*\d`)

// RoutingResult contains intent routing info
type RoutingResult struct {
	Intent      Intent
	Confidence  float64
	CalcScore   int
	LookupScore int
	ReasonScore int
	Reasoning   string
}

// IntentRouter classifies questions into one of the tool intents
type IntentRouter struct{}

func NewIntentRouter() *IntentRouter {
	return &IntentRouter{}
}

// Route analyses the question and returns the best matching intent
func (r *IntentRouter) Route(question string) RoutingResult {
	lower := strings.ToLower(question)

	calcScore := countKeywords(lower, calculateKeywords)
	if reArithmetic.MatchString(lower) {
		calcScore += 2
	}
	lookupScore := countKeywords(lower, lookupKeywords)
	reasonScore := countKeywords(lower, reasonKeywords)

	res := RoutingResult{
		CalcScore:   calcScore,
		LookupScore: lookupScore,
		ReasonScore: reasonScore,
	}

	total := calcScore + lookupScore + reasonScore
	if total == 0 {
		res.Intent = IntentReason
		res.Confidence = 0.5
		res.Reasoning = "no strong keywords, defaulting to reasoning"
		return res
	}

	switch {
	case calcScore > lookupScore && calcScore >= reasonScore:
		res.Intent = IntentCalculate
		res.Confidence = float64(calcScore) / float64(total)
		res.Reasoning = "question contains arithmetic"
	case lookupScore >= reasonScore && lookupScore > 0:
		res.Intent = IntentLookup
		res.Confidence = float64(lookupScore) / float64(total)
		res.Reasoning = "question asks for factual information"
	default:
		res.Intent = IntentReason
		res.Confidence = float64(reasonScore) / float64(total)
		res.Reasoning = "question asks for an explanation"
	}
	return res
}

func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
