package collaborations

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Verdict is the outcome of the safety gate for an accepted message.
// Flagging is advisory: a flagged message is still stored and delivered.
type Verdict struct {
	Flagged    bool
	FlagReason string
}

type patternClass struct {
	name  string
	match func(text string) bool
}

var codeExecRe = regexp.MustCompile(`(?i)(\beval\s*\(|\bexec\s*\(|\bexecute\s*\(|\bsystem\s*\(|__import__|\bsubprocess\b)`)

var scriptInjectionRe = regexp.MustCompile(`(?i)(<script|javascript:|\bonerror\s*=)`)

var secretTokenRe = regexp.MustCompile(`(sk-[A-Za-z0-9]{20,}|AKIA[0-9A-Z]{16}|-----BEGIN [A-Z ]*PRIVATE KEY-----)`)

var toolRequestRe = regexp.MustCompile(`(?i)(use|call|run|invoke)\s+(the\s+)?tool\b`)

// patternClasses is the fixed inspection list. Order determines which class
// names the flag reason when multiple match.
var patternClasses = []patternClass{
	{name: "code_execution", match: codeExecRe.MatchString},
	{name: "script_injection", match: scriptInjectionRe.MatchString},
	{name: "secret_token", match: secretTokenRe.MatchString},
	{name: "excessive_tool_requests", match: func(text string) bool {
		return len(toolRequestRe.FindAllStringIndex(text, -1)) >= 5
	}},
}

// Gate runs every message through the safety checks before storage: length
// cap, sliding-window rate limit, then pattern inspection. Length and rate
// violations reject the message; pattern hits only annotate it.
type Gate struct {
	maxLength int
	limiter   *RateLimiter
	logger    *slog.Logger
}

// NewGate creates a safety gate.
func NewGate(maxLength, rateLimit int, rateWindow time.Duration, logger *slog.Logger) *Gate {
	return &Gate{
		maxLength: maxLength,
		limiter:   NewRateLimiter(rateLimit, rateWindow),
		logger:    logger.With("system", "safety"),
	}
}

// Check gates one message. The returned verdict is meaningful only when the
// error is nil.
func (g *Gate) Check(senderID, collabID, content string) (Verdict, error) {
	if len([]rune(content)) > g.maxLength {
		return Verdict{}, ErrMessageTooLong
	}

	if ok, retryAfter := g.limiter.Allow(senderID, collabID, time.Now()); !ok {
		return Verdict{}, &RateLimitError{RetryAfter: retryAfter}
	}

	return g.inspect(senderID, collabID, content), nil
}

func (g *Gate) inspect(senderID, collabID, content string) Verdict {
	var matched []string
	for _, pc := range patternClasses {
		if pc.match(content) {
			matched = append(matched, pc.name)
		}
	}

	if len(matched) == 0 {
		return Verdict{}
	}

	reason := strings.Join(matched, ",")
	g.logger.Warn("message flagged",
		"sender_id", senderID,
		"collab_id", collabID,
		"flag_reason", reason,
	)
	return Verdict{Flagged: true, FlagReason: reason}
}
