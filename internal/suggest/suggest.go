package suggest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

const (
	DefaultCount = 5
	MaxCount     = 10

	// duplicateDistance is the largest edit distance at which a suggestion
	// is considered the same as an existing activity.
	duplicateDistance = 3
)

// Request describes what to suggest activities for.
type Request struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time

	// Day is the 1-based itinerary day, zero for the whole trip.
	Day  int
	Date time.Time

	Interests []string

	// Existing holds the titles already on the itinerary.
	Existing []string

	Count int
}

// Suggester turns trip context into a short list of activity titles.
type Suggester struct {
	provider Provider
	timeout  time.Duration
}

// New returns a Suggester. A nil provider makes every call fail with
// ErrDisabled.
func New(provider Provider, timeout time.Duration) *Suggester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Suggester{provider: provider, timeout: timeout}
}

// Enabled reports whether a provider is configured.
func (s *Suggester) Enabled() bool {
	return s != nil && s.provider != nil
}

// Suggest asks the provider for activities and returns at most req.Count
// distinct titles that are not already on the itinerary.
func (s *Suggester) Suggest(ctx context.Context, req Request) ([]string, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	req.Count = clampCount(req.Count)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Complete(ctx, systemPrompt, BuildPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseSuggestions(text, req.Existing, req.Count), nil
}

const systemPrompt = "You are a travel planning assistant. Answer with one activity per line, " +
	"each a short title of at most ten words. No numbering, no commentary."

// BuildPrompt renders the user prompt for req.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d activities for a trip to %s", clampCount(req.Count), req.Destination)
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() {
		fmt.Fprintf(&b, " from %s to %s", req.StartDate.Format("January 2, 2006"), req.EndDate.Format("January 2, 2006"))
	}
	b.WriteString(".\n")
	if req.Day > 0 {
		fmt.Fprintf(&b, "They are for day %d", req.Day)
		if !req.Date.IsZero() {
			fmt.Fprintf(&b, " (%s)", req.Date.Format("Monday, January 2"))
		}
		b.WriteString(".\n")
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "The travellers are interested in: %s.\n", strings.Join(req.Interests, ", "))
	}
	if len(req.Existing) > 0 {
		b.WriteString("Already planned, do not repeat:\n")
		for _, title := range req.Existing {
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}
	return b.String()
}

// listMarker matches bullets and numbering such as "-", "*", "•", "1.", "2)".
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s*`)

// ParseSuggestions splits a completion into titles: one per non-empty line,
// list markers and surrounding quotes removed. Lines close to an existing
// title or to an earlier line are dropped. At most limit titles are returned.
func ParseSuggestions(text string, existing []string, limit int) []string {
	seen := make([]string, 0, len(existing)+limit)
	for _, title := range existing {
		seen = append(seen, normalize(title))
	}

	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if len(out) >= limit {
			break
		}
		title := listMarker.ReplaceAllString(line, "")
		title = strings.Trim(strings.TrimSpace(title), `"'*`)
		if title == "" {
			continue
		}
		key := normalize(title)
		if isDuplicate(key, seen) {
			continue
		}
		seen = append(seen, key)
		out = append(out, title)
	}
	return out
}

func isDuplicate(key string, seen []string) bool {
	for _, s := range seen {
		if levenshtein.ComputeDistance(key, s) <= duplicateDistance {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func clampCount(n int) int {
	if n <= 0 {
		return DefaultCount
	}
	return min(n, MaxCount)
}
