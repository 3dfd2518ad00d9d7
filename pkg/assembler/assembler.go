// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

// Index of the parameter each storing opcode writes to.
var destinations = map[machine.Word]int{
	machine.OP_ADD: 2,
	machine.OP_MUL: 2,
	machine.OP_IN:  0,
	machine.OP_LT:  2,
	machine.OP_EQ:  2,
}

func parseDirective(ident string) DirectiveType {
	if strings.EqualFold(ident, ".DATA") {
		return DIRECTIVE_DATA
	} else if strings.EqualFold(ident, ".ZERO") {
		return DIRECTIVE_ZERO
	}

	return DIRECTIVE_INVALID
}

func parseInstruction(ident string) (machine.Word, bool) {
	return machine.Opcode(strings.ToUpper(ident))
}

func parseOperand(token *Token) (Operand, error) {
	operand := Operand{Mode: machine.MODE_POSITION, Position: token.Position}
	value := token.Value

	if strings.HasPrefix(value, "#") {
		operand.Mode = machine.MODE_IMMEDIATE
		value = value[1:]
	} else if strings.HasPrefix(value, "@") {
		operand.Mode = machine.MODE_RELATIVE
		value = value[1:]
	}

	switch token.Type {
	case TOKEN_LITERAL:
		literal, err := encoding.DecodeWord(value)

		if err != nil {
			return operand, &InvalidLiteralError{token.Position}
		}

		operand.Value = literal

	case TOKEN_IDENT:
		operand.Label = value

	default:
		return operand, &InvalidOperandError{
			token.Position,
			[]TokenType{TOKEN_LITERAL, TOKEN_IDENT},
			token.Type,
		}
	}

	return operand, nil
}

// Splits a line into tokens. Errors are reported against cursor, which holds
// the line number and byte offset of the line's first character.
func tokenize(line string, cursor Cursor) (tokens []Token, errs []error) {
	var builder strings.Builder
	var tokenStart int
	var tokenType TokenType = TOKEN_NONE
	var prefixed bool

	flush := func() {
		if builder.Len() > 0 {
			if tokenType == TOKEN_NONE {
				// A lone '#' or '@'
				errs = append(errs, &InvalidLiteralError{cursor})
			} else {
				tokens = append(tokens, Token{
					Type: tokenType,
					Position: Cursor{
						Line:     cursor.Line,
						Column:   tokenStart,
						Byte:     cursor.LineByte + int64(tokenStart-1),
						Size:     int64(builder.Len()),
						LineByte: cursor.LineByte,
					},
					Value: builder.String(),
				})
			}
		}

		builder.Reset()
		tokenType = TOKEN_NONE
		prefixed = false
	}

	for column, char := range line {
		cursor.Column = column + 1

		if tokenType == TOKEN_NONE && !prefixed {
			tokenStart = cursor.Column
		}

		switch {
		// Whitespace
		case unicode.IsSpace(char):
			flush()
			continue

		// Comments
		case char == ';':
			flush()
			return

		// Operand Separator
		case char == ',':
			if builder.Len() == 0 && len(tokens) == 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

			flush()

			if strings.TrimSpace(line[column+1:]) == "" {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

			continue

		// Label Declaration
		case char == ':':
			if tokenType != TOKEN_IDENT || prefixed || len(tokens) > 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			tokenType = TOKEN_LABEL
			flush()
			continue

		// Assembler Directives
		case char == '.':
			if builder.Len() != 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			tokenType = TOKEN_DIRECTIVE

		// Immediate (#5) and Relative (@-1) Operands
		case char == '#' || char == '@':
			if builder.Len() != 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			prefixed = true

		// Numeric Sign
		case char == '-':
			if tokenType != TOKEN_NONE {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
				continue
			}

			tokenType = TOKEN_LITERAL

		// Numeric Literal
		case unicode.IsDigit(char):
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_LITERAL
			}

		// Identifier
		case char == '_' || (unicode.IsLetter(char) && char <= unicode.MaxASCII):
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_IDENT
			}

		default:
			errs = append(errs, &UnexpectedCharacterError{cursor, char})
			continue
		}

		builder.WriteRune(char)
	}

	flush()
	return
}

// Assembles Intcode source into a program image. When symtable is not nil it
// is filled with the source offset of every statement and the address of
// every label.
func AssembleSource(input io.Reader, symtable *SymTable) (result []machine.Word, errs []error) {
	type LabelRef struct {
		Label    string
		Addr     machine.Word
		Position Cursor
	}

	var labels = make(map[string]machine.Word)
	var labelRefs []LabelRef

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1}

	result = make([]machine.Word, 0, 256)
	errs = make([]error, 0)

	for ; scanner.Scan(); cursor.Line++ {
		line := scanner.Text()
		cursor.Column = 0
		cursor.Size = int64(len(line))

		tokens, lineErrs := tokenize(line, cursor)
		cursor.LineByte += int64(len(line) + 1)
		cursor.Byte = cursor.LineByte

		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
			continue
		}

		if len(tokens) == 0 {
			continue
		}

		// Label declarations: "name:" or a bare identifier that is not a
		// mnemonic.
		if tokens[0].Type == TOKEN_LABEL ||
			(tokens[0].Type == TOKEN_IDENT && len(tokens) > 1 &&
				!isKeyword(&tokens[0])) {
			label := &tokens[0]
			addr := machine.Word(len(result))

			if _, exists := labels[label.Value]; exists {
				errs = append(
					errs, &RedeclaredLabelError{label.Position, label.Value},
				)
			} else {
				labels[label.Value] = addr

				if symtable != nil {
					symtable.Addrs[label.Value] = addr

					if _, taken := symtable.Labels[addr]; !taken {
						symtable.Labels[addr] = label.Value
					}
				}
			}

			tokens = tokens[1:]

			if len(tokens) == 0 {
				continue
			}
		}

		keyword := &tokens[0]
		operands := tokens[1:]
		addr := machine.Word(len(result))

		if symtable != nil {
			symtable.Symbols[addr] = keyword.Position.LineByte
		}

		if keyword.Type == TOKEN_DIRECTIVE {
			switch parseDirective(keyword.Value) {
			// .DATA # [, # ...]
			case DIRECTIVE_DATA:
				if len(operands) == 0 {
					errs = append(
						errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
					)
					break
				}

				for i := range operands {
					operand, err := parseOperand(&operands[i])

					if err != nil {
						errs = append(errs, err)
						continue
					}

					if operand.Mode == machine.MODE_RELATIVE {
						errs = append(
							errs, &InvalidModeError{operand.Position, operand.Mode},
						)
						continue
					}

					if operand.Label != "" {
						labelRefs = append(labelRefs, LabelRef{
							operand.Label, machine.Word(len(result)), operand.Position,
						})
					}

					result = append(result, operand.Value)
				}

			// .ZERO #
			case DIRECTIVE_ZERO:
				if count := len(operands); count != 1 {
					errs = append(
						errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
					)
					break
				}

				operand, err := parseOperand(&operands[0])

				if err != nil {
					errs = append(errs, err)
					break
				}

				if operand.Label != "" || operand.Value < 0 ||
					operand.Value > machine.Word(machine.DEFAULT_CAPACITY-len(result)) {
					errs = append(errs, &InvalidLiteralError{operand.Position})
					break
				}

				result = append(result, make([]machine.Word, operand.Value)...)

			default:
				errs = append(
					errs, &UnknownIdentifierError{keyword.Position, keyword.Value},
				)
			}

			continue
		}

		opcode, ok := parseInstruction(keyword.Value)

		if keyword.Type != TOKEN_IDENT || !ok {
			errs = append(
				errs, &UnknownIdentifierError{keyword.Position, keyword.Value},
			)
			continue
		}

		arity, _ := machine.Arity(opcode)

		if count := len(operands); count != arity {
			errs = append(
				errs, &InvalidNumArgumentsError{keyword.Position, arity, count},
			)
			continue
		}

		dest, stores := destinations[opcode]
		instruction := opcode
		params := make([]machine.Word, arity)
		failed := false

		for i := range operands {
			operand, err := parseOperand(&operands[i])

			if err != nil {
				errs = append(errs, err)
				failed = true
				continue
			}

			if stores && i == dest && operand.Mode == machine.MODE_IMMEDIATE {
				errs = append(
					errs, &InvalidModeError{operand.Position, operand.Mode},
				)
				failed = true
				continue
			}

			if operand.Label != "" {
				labelRefs = append(labelRefs, LabelRef{
					operand.Label, addr + 1 + machine.Word(i), operand.Position,
				})
			}

			instruction += machine.Word(operand.Mode) * modeScale[i]
			params[i] = operand.Value
		}

		if failed {
			continue
		}

		result = append(result, instruction)
		result = append(result, params...)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
		return result, errs
	}

	for _, ref := range labelRefs {
		if addr, exists := labels[ref.Label]; exists {
			result[ref.Addr] = addr
		} else {
			errs = append(errs, &UnknownLabelError{ref.Position, ref.Label})
		}
	}

	return result, errs
}

// Multiplier applied to the mode of each parameter when encoding.
var modeScale = [...]machine.Word{100, 1000, 10000}

func isKeyword(token *Token) bool {
	_, ok := parseInstruction(token.Value)
	return ok
}
