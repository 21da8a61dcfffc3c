package replyparse

import (
	"regexp"
	"strings"

	"github.com/Almyria/VillagerGPT/internal/vglog"
)

// Package replyparse extracts the structured directives a villager's
// generated reply may carry: at most one trade offer in the
// TRADE[[...],[...]]ENDTRADE span format, and any number of
// ACTION:{NAME} tags. Whatever remains is the text shown to the player.

const (
	tradeStartToken = `TRADE[`
	tradeEndToken   = `ENDTRADE`
)

var actionTagPattern = regexp.MustCompile(`ACTION:([A-Z_]+)`)

// Reply is the interpreted form of one generated response.
type Reply struct {
	DisplayText string
	Offer       *TradeOffer // nil when absent or malformed
	Actions     []Action    // in order of appearance
}

// Parse interprets raw generated text. It never fails: malformed trade
// offers are dropped (the span is still stripped), unrecognized action
// tags are stripped without producing a directive.
func Parse(text string) Reply {

	var reply Reply

	display, spans := stripTradeSpans(text)

	// Only the first span is honored; later ones are stripped as noise.
	if len(spans) > 0 {
		offer, err := parseOffer(spans[0])
		if err != nil {
			vglog.Debug("ReplyParse", "offer", "discarding malformed trade offer", "err", err.Error())
		} else {
			reply.Offer = offer
		}
	}

	display = actionTagPattern.ReplaceAllStringFunc(display, func(tag string) string {
		name := strings.TrimPrefix(tag, `ACTION:`)
		if action, ok := knownActions[name]; ok {
			reply.Actions = append(reply.Actions, action)
		} else {
			vglog.Debug("ReplyParse", "action", "ignoring unknown action tag", "name", name)
		}
		return ` `
	})

	reply.DisplayText = normalizeWhitespace(display)

	return reply
}

// stripTradeSpans removes every TRADE..ENDTRADE span from text and
// returns the remaining text plus each span's body (the text between
// the tokens). An unterminated start token is left in place.
func stripTradeSpans(text string) (string, []string) {

	var out strings.Builder
	var bodies []string

	for {
		start := strings.Index(text, tradeStartToken)
		if start == -1 {
			break
		}

		rest := text[start+len(tradeStartToken):]
		end := strings.Index(rest, tradeEndToken)
		if end == -1 {
			break
		}

		// Body includes the bracket consumed by the start token match.
		bodies = append(bodies, text[start+len(tradeStartToken)-1:start+len(tradeStartToken)+end])

		out.WriteString(text[:start])
		out.WriteByte(' ')
		text = rest[end+len(tradeEndToken):]
	}

	out.WriteString(text)
	return out.String(), bodies
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), ` `)
}
