package replyparse

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	MinQuantity = 1
	MaxQuantity = 64
)

// ItemStack is a quantity of one item type. The item identifier is an
// opaque host token and may carry nested metadata (e.g. NBT braces).
type ItemStack struct {
	Item     string
	Quantity int
}

// TradeOffer is a proposed barter. Ingredients are what the villager
// receives; Result is the single stack the player receives.
type TradeOffer struct {
	Ingredients []ItemStack
	Result      ItemStack
}

// parseOffer parses a trade span body of the form
// [["{qty} {item}",...],["{qty} {item}"]]. Item identifiers are quoted
// strings and may contain brackets, braces and escaped quotes, so the
// scanner only treats structure characters as structure outside quotes.
func parseOffer(body string) (*TradeOffer, error) {

	s := &scanner{src: body}

	s.skipSpace()
	if !s.consume('[') {
		return nil, errors.New(`expected '[' to open offer`)
	}

	ingredientStrs, err := s.parseStringArray()
	if err != nil {
		return nil, errors.Wrap(err, `first array`)
	}

	s.skipSpace()
	if !s.consume(',') {
		return nil, errors.New(`expected ',' between arrays`)
	}

	resultStrs, err := s.parseStringArray()
	if err != nil {
		return nil, errors.Wrap(err, `second array`)
	}

	s.skipSpace()
	if !s.consume(']') {
		return nil, errors.New(`expected ']' to close offer`)
	}

	s.skipSpace()
	if !s.done() {
		return nil, errors.New(`trailing content after offer`)
	}

	if len(ingredientStrs) == 0 {
		return nil, errors.New(`offer has no ingredients`)
	}
	if len(resultStrs) != 1 {
		return nil, errors.Errorf(`offer must have exactly one result, got %d`, len(resultStrs))
	}

	offer := &TradeOffer{}

	for _, raw := range ingredientStrs {
		stack, err := parseStack(raw)
		if err != nil {
			return nil, err
		}
		offer.Ingredients = append(offer.Ingredients, stack)
	}

	result, err := parseStack(resultStrs[0])
	if err != nil {
		return nil, err
	}
	offer.Result = result

	return offer, nil
}

// parseStack parses a "{qty} {item}" entry.
func parseStack(raw string) (ItemStack, error) {

	qtyStr, item, found := strings.Cut(raw, ` `)
	if !found || item == `` {
		return ItemStack{}, errors.Errorf(`malformed stack %q`, raw)
	}

	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return ItemStack{}, errors.Wrapf(err, `quantity in %q`, raw)
	}

	if qty < MinQuantity || qty > MaxQuantity {
		return ItemStack{}, errors.Errorf(`quantity %d out of range in %q`, qty, raw)
	}

	return ItemStack{Item: item, Quantity: qty}, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) consume(c byte) bool {
	if s.peek() != c {
		return false
	}
	s.pos++
	return true
}

func (s *scanner) skipSpace() {
	for !s.done() {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

// parseStringArray parses ["...", "...", ...] and returns the unescaped
// string values. An empty array is valid.
func (s *scanner) parseStringArray() ([]string, error) {

	s.skipSpace()
	if !s.consume('[') {
		return nil, errors.New(`expected '['`)
	}

	values := []string{}

	s.skipSpace()
	if s.consume(']') {
		return values, nil
	}

	for {
		s.skipSpace()
		value, err := s.parseQuoted()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume(']') {
			return values, nil
		}
		return nil, errors.New(`expected ',' or ']' after string`)
	}
}

// parseQuoted parses a double-quoted string honoring backslash escapes,
// so item metadata like {id:\"minecraft:unbreaking\"} survives intact.
func (s *scanner) parseQuoted() (string, error) {

	if !s.consume('"') {
		return ``, errors.New(`expected '"'`)
	}

	var sb strings.Builder
	for !s.done() {
		c := s.src[s.pos]
		s.pos++

		switch c {
		case '\\':
			if s.done() {
				return ``, errors.New(`dangling escape`)
			}
			sb.WriteByte(s.src[s.pos])
			s.pos++
		case '"':
			return sb.String(), nil
		default:
			sb.WriteByte(c)
		}
	}

	return ``, errors.New(`unterminated string`)
}
