package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/flight-intent/internal/llm"
)

const (
	passengerMaxTokens   = 150
	passengerTemperature = 0.1
	passengerTopP        = 0.9
)

const passengerSystemPrompt = `You extract passenger counts from travel requests. Reply with ONLY a JSON object of the form {"adults": N, "children": N, "infants": N} and no explanation.

RULES:
- Adults are 18 or older: the speaker, wife, husband, partner, parents, friends.
- Children are 2 to 17 years old: kids, son, daughter, child.
- Infants are under 2 years old: baby, infant, newborn.
- "I with my wife" means 2 adults in total.
- "our 3 children" means 3 children.
- An age always overrides the role word. "2 20 year old children" means 2 adults.
- There is at least 1 adult whenever children or infants travel.

EXAMPLES:
"I want to travel with my wife and our 3 children" -> {"adults": 2, "children": 3, "infants": 0}
"family of 4" -> {"adults": 2, "children": 2, "infants": 0}
"2 adults and 1 baby" -> {"adults": 2, "children": 0, "infants": 1}`

type passengerReply struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// ExtractPassengers asks the configured LLM for the passenger breakdown and
// falls back to FallbackPassengers when there is no client, the call fails,
// times out or returns something that is not the expected JSON. The only
// error returned is the caller's own context error.
func (e *Extractor) ExtractPassengers(ctx context.Context, text string) (PassengerResult, error) {
	result := PassengerResult{Detected: hasPassengerLanguage(text)}

	if e.llm != nil {
		p, err := e.passengersFromLLM(ctx, text)
		if err == nil {
			result.Passengers = p
			result.Source = PassengerSourceLLM
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PassengerResult{}, ctxErr
		}
		e.logger.Warn("passenger llm failed, using fallback", "error", err)
		result.LLMErr = err
	}

	result.Passengers = FallbackPassengers(text)
	result.Source = PassengerSourceFallback
	return result, nil
}

func (e *Extractor) passengersFromLLM(ctx context.Context, text string) (Passengers, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()

	resp, err := e.llm.Complete(callCtx, llm.Request{
		Model:  e.llmModel,
		System: []string{passengerSystemPrompt},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Now extract from: %q\n\nReturn only JSON:", strings.TrimSpace(text))},
		},
		MaxTokens:   passengerMaxTokens,
		Temperature: passengerTemperature,
		TopP:        passengerTopP,
	})
	if err != nil {
		return Passengers{}, fmt.Errorf("extraction: passenger llm call: %w", err)
	}

	var reply passengerReply
	if err := llm.DecodeJSON(resp.Text, &reply); err != nil {
		return Passengers{}, fmt.Errorf("extraction: passenger llm reply: %w", err)
	}
	e.logger.Debug("passenger llm reply", "adults", reply.Adults, "children", reply.Children, "infants", reply.Infants)

	return Passengers{
		Adults:   uint(max(reply.Adults, 0)),
		Children: uint(max(reply.Children, 0)),
		Infants:  uint(max(reply.Infants, 0)),
	}.Validate(), nil
}
