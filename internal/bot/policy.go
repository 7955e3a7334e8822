package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/advisor"
	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/table"
)

const policySystemPrompt = `You are a tight-aggressive Texas hold'em player. ` +
	`Respond with a single JSON object of the form ` +
	`{"action": "<fold|check|call|raise>", "amount": <int>, "reason": "<short>"} ` +
	`and nothing else. Only choose from the listed valid actions.`

// Policy asks an external advisor for each decision and strictly
// revalidates the reply. Anything unparseable or illegal degrades to
// the safe default; the hand never stalls on a bad completion.
type Policy struct {
	advisor advisor.Advisor
	logger  *log.Logger
}

// NewPolicy creates a policy agent backed by the given advisor
func NewPolicy(a advisor.Advisor, logger *log.Logger) *Policy {
	return &Policy{advisor: a, logger: logger.WithPrefix("policy")}
}

// advice is the reply shape the policy agent expects
type advice struct {
	Action string  `json:"action"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// Decide prompts the advisor and validates its reply
func (p *Policy) Decide(ctx context.Context, v View) Request {
	text, err := p.advisor.Advise(ctx, policySystemPrompt, p.prompt(v))
	if err != nil {
		p.logger.Warn("advisor unavailable, taking safe default", "err", err)
		return SafeDefault(v.Info)
	}

	adv, err := parseAdvice(text)
	if err != nil {
		p.logger.Warn("unparseable advice, taking safe default", "err", err)
		return SafeDefault(v.Info)
	}

	req, err := p.validate(adv, v)
	if err != nil {
		p.logger.Warn("illegal advice, taking safe default", "action", adv.Action, "err", err)
		return SafeDefault(v.Info)
	}

	p.logger.Debug("advice accepted", "action", req.Action, "amount", req.Amount, "reason", adv.Reason)
	return req
}

// prompt renders the seat's view as a compact state description
func (p *Policy) prompt(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stage: %s\n", v.Stage)
	fmt.Fprintf(&b, "Your hole cards: %s\n", cardNames(v.Hole))
	if len(v.Board) > 0 {
		fmt.Fprintf(&b, "Community cards: %s\n", cardNames(v.Board))
	} else {
		b.WriteString("Community cards: none\n")
	}
	fmt.Fprintf(&b, "Pot: %d\n", v.Pot)
	fmt.Fprintf(&b, "Your chips: %d\n", v.Chips)
	fmt.Fprintf(&b, "To call: %d\n", v.ToCall)
	fmt.Fprintf(&b, "Opponents still in: %d\n", v.Opponents)

	names := make([]string, len(v.Info.Valid))
	for i, a := range v.Info.Valid {
		names[i] = a.String()
	}
	fmt.Fprintf(&b, "Valid actions: %s\n", strings.Join(names, ", "))
	if v.Info.Allows(table.Raise) {
		fmt.Fprintf(&b, "Raise range: %d to %d\n", v.Info.MinRaise, v.Info.MaxRaise)
	}

	return b.String()
}

// parseAdvice decodes the completion, tolerating surrounding prose by
// retrying on the outermost braces
func parseAdvice(text string) (advice, error) {
	var adv advice
	if err := json.Unmarshal([]byte(text), &adv); err == nil {
		return adv, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return advice{}, fmt.Errorf("no JSON object in advice")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &adv); err != nil {
		return advice{}, fmt.Errorf("decoding advice: %w", err)
	}
	return adv, nil
}

// validate converts advice into a request, rejecting anything outside
// the view's legal action set
func (p *Policy) validate(adv advice, v View) (Request, error) {
	action, ok := table.ParseAction(strings.ToLower(strings.TrimSpace(adv.Action)))
	if !ok {
		return Request{}, fmt.Errorf("unknown action %q", adv.Action)
	}
	if !v.Info.Allows(action) {
		return Request{}, fmt.Errorf("action %s not currently valid", action)
	}

	req := Request{Action: action}
	if action == table.Raise {
		amount := int(adv.Amount)
		if amount < v.Info.MinRaise || amount > v.Info.MaxRaise {
			return Request{}, fmt.Errorf("raise %d outside [%d, %d]", amount, v.Info.MinRaise, v.Info.MaxRaise)
		}
		req.Amount = amount
	}
	return req, nil
}

func cardNames(cards []deck.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Rank.String() + c.Suit.Name()[:1]
	}
	return strings.Join(names, " ")
}
