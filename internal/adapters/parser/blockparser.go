package parser

import (
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// LineSource is the minimal interface BlockParser needs from a Spooler,
// narrow enough that tests can supply a canned sequence of lines.
type LineSource interface {
	ReadLine() (string, bool, error)
	CurrentLineNumber() int
}

// BlockParser reads lines from a LineSource until a terminator is reached,
// matching each line's "FIELDNAME=values" prefix against a fixed set of
// field descriptors and recording typed occurrences (spec §4.2).
type BlockParser struct {
	fields      []entities.FieldDescriptor
	terminator  string
	occurrences map[string][]entities.FieldOccurrence
}

// NewBlockParser returns a parser for fields, ending at the line exactly
// equal to terminator (e.g. "END INFO").
func NewBlockParser(fields []entities.FieldDescriptor, terminator string) *BlockParser {
	return &BlockParser{fields: fields, terminator: terminator}
}

// Parse consumes lines from src until the terminator, validating arity and
// per-value types, and returns a FileFormat error citing the line on the
// first problem; an unterminated block yields UnexpectedEOF.
func (p *BlockParser) Parse(src LineSource) error {
	p.occurrences = make(map[string][]entities.FieldOccurrence, len(p.fields))

	for {
		line, ok, err := src.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return entities.New(entities.KindUnexpectedEOF, "unterminated block, expected %q", p.terminator)
		}
		if line == p.terminator {
			break
		}

		desc, values, err := p.matchLine(line, src.CurrentLineNumber())
		if err != nil {
			return err
		}
		p.occurrences[desc.Name] = append(p.occurrences[desc.Name], entities.FieldOccurrence{
			Line:   src.CurrentLineNumber(),
			Values: values,
		})
	}

	return p.validateArity(src.CurrentLineNumber())
}

func (p *BlockParser) matchLine(line string, lineNo int) (entities.FieldDescriptor, []string, error) {
	key, rest, found := strings.Cut(line, "=")
	if !found {
		return entities.FieldDescriptor{}, nil, entities.NewAtLine(entities.KindFileFormat, lineNo, "expected FIELD=value, got %q", line)
	}
	key = strings.TrimSpace(key)

	for _, desc := range p.fields {
		if strings.EqualFold(desc.Name, key) {
			values := splitValues(rest)
			for _, v := range values {
				if err := entities.ValidateType(desc.Type, v); err != nil {
					return entities.FieldDescriptor{}, nil, entities.NewAtLine(entities.KindFileFormat, lineNo, "field %s: %v", desc.Name, err)
				}
			}
			return desc, values, nil
		}
	}
	return entities.FieldDescriptor{}, nil, entities.NewAtLine(entities.KindFileFormat, lineNo, "unrecognized field %q", key)
}

// splitValues breaks a field's right-hand side on commas and/or whitespace,
// trimming each token.
func splitValues(rest string) []string {
	rest = strings.ReplaceAll(rest, ",", " ")
	return strings.Fields(rest)
}

// validateArity checks every descriptor's occurrence count once the block is
// complete; errors cite lineNo, the line of the block's terminator.
func (p *BlockParser) validateArity(lineNo int) error {
	for _, desc := range p.fields {
		occs := p.occurrences[desc.Name]
		if desc.Required && len(occs) < 1 {
			return entities.NewAtLine(entities.KindFileFormat, lineNo, "required field %s not found", desc.Name)
		}
		if desc.Min > 0 && len(occs) < desc.Min {
			return entities.NewAtLine(entities.KindFileFormat, lineNo, "field %s occurred %d times, minimum is %d", desc.Name, len(occs), desc.Min)
		}
		if desc.Max > 0 && len(occs) > desc.Max {
			return entities.NewAtLine(entities.KindFileFormat, lineNo, "field %s occurred %d times, maximum is %d", desc.Name, len(occs), desc.Max)
		}
	}
	return nil
}

// Occurrences returns every recorded occurrence of fieldName, in the order
// encountered.
func (p *BlockParser) Occurrences(fieldName string) []entities.FieldOccurrence {
	return p.occurrences[fieldName]
}

// Value returns the first value of the first occurrence of fieldName, or
// ok=false if the field was never seen.
func (p *BlockParser) Value(fieldName string) (string, bool) {
	occs := p.occurrences[fieldName]
	if len(occs) == 0 || len(occs[0].Values) == 0 {
		return "", false
	}
	return occs[0].Values[0], true
}

// Values returns every value of the first occurrence of fieldName.
func (p *BlockParser) Values(fieldName string) []string {
	occs := p.occurrences[fieldName]
	if len(occs) == 0 {
		return nil
	}
	return occs[0].Values
}
