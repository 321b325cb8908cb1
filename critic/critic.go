// Package critic implements the stateless auditor that reviews every
// generated deconstruction for logical integrity before it reaches the
// user.
package critic

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/model"
)

// SystemPrompt is the auditor instruction. It is distinct from the
// Generator's instruction and pins the model to two literal output forms.
const SystemPrompt = `You are an Auditor. Your sole purpose is to review a Substrate Deconstruction and verify its logical integrity.

## YOUR TASK
Review the provided Substrate Deconstruction. Specifically look for:
1. **Logical leaps** — conclusions that do not follow from stated premises.
2. **Fake economic principles** — invented or misapplied economic laws.
3. **Hallucinated facts** — statistics, studies, or claims presented as factual without basis.
4. **Circular reasoning** — arguments that assume their own conclusion.
5. **Missing causal mechanisms** — claimed effects without a clear mechanism.

## YOUR OUTPUT FORMAT
- If the deconstruction is logically sound, output EXACTLY: ` + "`PASS`" + `
- If the deconstruction is flawed, output EXACTLY: ` + "`FAIL: [Specific Reason]`" + `

You must output ONLY one of these two formats. No preamble, no commentary, no markdown formatting.`

// sampling pins temperature to zero for verdict stability.
var sampling = model.SamplingParams{
	Temperature: 0.0,
	TopP:        0.8,
}

// Critic audits candidate answers with a single model invocation per
// audit. It holds no state between audits.
type Critic struct {
	model model.Model
}

// New creates a Critic backed by the given model.
func New(m model.Model) *Critic {
	return &Critic{model: m}
}

// Audit reviews a candidate deconstruction. A transport failure is
// returned untouched; there are no retries here. Anything the model
// actually answers is parsed with ParseVerdict.
func (c *Critic) Audit(ctx context.Context, candidate string) (core.AuditResult, error) {
	prompt := fmt.Sprintf(
		"Review the following Substrate Deconstruction for logical integrity. "+
			"Output PASS if sound, or FAIL: [reason] if flawed.\n\n"+
			"--- BEGIN DECONSTRUCTION ---\n%s\n--- END DECONSTRUCTION ---",
		candidate,
	)

	raw, err := c.model.Generate(ctx, SystemPrompt, []core.Message{core.UserMessage(prompt)}, sampling)
	if err != nil {
		return core.AuditResult{}, err
	}

	result := ParseVerdict(raw)
	log.Debugf("[CRITIC] Verdict: passed=%v reason=%q", result.Passed, result.Reason)
	return result, nil
}

// ParseVerdict interprets the model's raw verdict text:
//
//   - a response beginning with PASS (case-insensitive) passes;
//   - a response beginning with FAIL fails, with the reason taken from
//     the text after the first colon (or the whole response if there is
//     no colon);
//   - anything else passes with an empty reason. An unparseable verdict
//     must never block the user, so the Critic fails open.
func ParseVerdict(raw string) core.AuditResult {
	verdict := strings.TrimSpace(raw)
	upper := strings.ToUpper(verdict)

	switch {
	case strings.HasPrefix(upper, "PASS"):
		return core.AuditResult{Passed: true}

	case strings.HasPrefix(upper, "FAIL"):
		reason := verdict
		if i := strings.Index(verdict, ":"); i >= 0 {
			reason = strings.TrimSpace(verdict[i+1:])
		}
		return core.AuditResult{Passed: false, Reason: reason}

	default:
		return core.AuditResult{Passed: true}
	}
}
