package tools

import (
	"context"
)

// Searcher runs a free-text lookup and returns plain-text summaries
type Searcher interface {
	Run(ctx context.Context, query string) (string, error)
}

// WikipediaTool looks topics up on Wikipedia
func WikipediaTool(wiki Searcher) Tool {
	return Tool{
		Name:        WikipediaName,
		Description: "Use this tool to search Wikipedia for factual information about topics, people, places, or events.",
		Execute: func(ctx context.Context, input string) (string, error) {
			return wiki.Run(ctx, input)
		},
	}
}
