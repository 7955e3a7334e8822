package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablestakes/holdem/internal/table"
)

// scriptedAdvisor returns a fixed completion for every prompt
type scriptedAdvisor struct {
	text string
	err  error
}

func (s scriptedAdvisor) Advise(ctx context.Context, system, prompt string) (string, error) {
	return s.text, s.err
}

func policyWith(text string, err error) *Policy {
	return NewPolicy(scriptedAdvisor{text: text, err: err}, testLogger())
}

func TestPolicyFollowsValidAdvice(t *testing.T) {
	p := policyWith(`{"action": "call", "amount": 0, "reason": "pot odds"}`, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Call}, req)
}

func TestPolicyFollowsValidRaise(t *testing.T) {
	p := policyWith(`{"action": "raise", "amount": 60, "reason": "value"}`, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Raise, Amount: 60}, req)
}

func TestPolicyExtractsJSONFromProse(t *testing.T) {
	text := "Here's my analysis:\n```json\n{\"action\": \"fold\", \"reason\": \"dominated\"}\n```\nGood luck!"
	p := policyWith(text, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, table.Fold, req.Action)
}

func TestPolicyNormalizesActionCase(t *testing.T) {
	p := policyWith(`{"action": " CALL ", "amount": 0}`, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, table.Call, req.Action)
}

func TestPolicySafeDefaultOnGarbageAmount(t *testing.T) {
	p := policyWith(`{"action": "raise", "amount": "banana"}`, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Call}, req)
}

func TestPolicySafeDefaultOnUnknownAction(t *testing.T) {
	p := policyWith(`{"action": "shove", "amount": 1000}`, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Call}, req)
}

func TestPolicySafeDefaultOnDisallowedAction(t *testing.T) {
	v := facingBetView()
	v.Info.Valid = []table.Action{table.Fold, table.Call}

	p := policyWith(`{"action": "raise", "amount": 60}`, nil)
	req := p.Decide(context.Background(), v)
	assert.Equal(t, Request{Action: table.Call}, req)
}

func TestPolicySafeDefaultOnRaiseOutOfRange(t *testing.T) {
	p := policyWith(`{"action": "raise", "amount": 5}`, nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Call}, req)

	p = policyWith(`{"action": "raise", "amount": 999999}`, nil)
	req = p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Call}, req)
}

func TestPolicySafeDefaultOnNoJSON(t *testing.T) {
	p := policyWith("I would probably just call here.", nil)
	req := p.Decide(context.Background(), facingBetView())
	assert.Equal(t, Request{Action: table.Call}, req)
}

func TestPolicySafeDefaultOnAdvisorError(t *testing.T) {
	p := policyWith("", errors.New("connection refused"))
	req := p.Decide(context.Background(), checkedToView())
	assert.Equal(t, Request{Action: table.Check}, req)
}

func TestPolicyPromptListsState(t *testing.T) {
	p := policyWith(`{"action": "call"}`, nil)
	v := facingBetView()
	v.Hole = mustParse(t, "Ah Kd")
	v.Board = mustParse(t, "2c 7d 9h")

	prompt := p.prompt(v)
	assert.Contains(t, prompt, "Ah Kd")
	assert.Contains(t, prompt, "2c 7d 9h")
	assert.Contains(t, prompt, "To call: 10")
	assert.Contains(t, prompt, "fold, call, raise")
	assert.Contains(t, prompt, "Raise range: 20 to 1000")
}
