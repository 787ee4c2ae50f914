// Package insight turns failing checks into a short narrative using a
// language model provider.
package insight

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/selimozcann/seoaudit/internal/logging"
	"github.com/selimozcann/seoaudit/internal/model"
)

// MaxFailedChecks bounds how many failing checks go into a prompt.
const MaxFailedChecks = 10

// Generator produces the ai_summary of an audit. It never fails: nil means no
// provider is configured, and a runtime failure is reported inside the text.
type Generator interface {
	Generate(ctx context.Context, url string, overall int, failed []model.CheckResult) *string
}

// Provider completes a single prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Narrator is the Generator backed by a Provider.
type Narrator struct {
	provider Provider
}

// New returns a Narrator for p. A nil provider yields a Narrator whose
// summaries are always nil.
func New(p Provider) *Narrator {
	return &Narrator{provider: p}
}

// Generate implements Generator.
func (n *Narrator) Generate(ctx context.Context, url string, overall int, failed []model.CheckResult) *string {
	if n == nil || n.provider == nil {
		return nil
	}
	text, err := n.provider.Complete(ctx, BuildPrompt(url, overall, failed))
	if err != nil {
		logging.Debugf("insight for %s failed: %v", url, err)
		text = fmt.Sprintf("AI insights unavailable: %v", err)
	}
	return &text
}

// Close releases the provider when it holds a client.
func (n *Narrator) Close() error {
	if n == nil {
		return nil
	}
	if c, ok := n.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// BuildPrompt renders the request sent to the model. Only the first
// MaxFailedChecks failing checks are listed, in execution order.
func BuildPrompt(url string, overall int, failed []model.CheckResult) string {
	if len(failed) > MaxFailedChecks {
		failed = failed[:MaxFailedChecks]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these SEO audit results for %s and provide:\n", url)
	b.WriteString("1. A brief summary (2-3 sentences)\n")
	b.WriteString("2. Top 3 priority fixes\n")
	b.WriteString("3. Quick wins that can be implemented immediately\n\n")
	b.WriteString("Failed checks:\n")
	for i, c := range failed {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s (expected: %s)", c.Title, c.CurrentValue, c.ExpectedValue)
	}
	fmt.Fprintf(&b, "\n\nOverall score: %d/100\n", overall)
	return b.String()
}
