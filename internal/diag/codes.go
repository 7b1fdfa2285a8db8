package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexUnterminatedChar    Code = 1003
	LexBadEscape           Code = 1004
	LexBadCharLiteral      Code = 1005
	LexNonASCIICharLiteral Code = 1006

	// Синтаксические
	SynUnexpectedToken  Code = 2001
	SynExpectIdentifier Code = 2002
	SynExpectType       Code = 2003
	SynExpectExpression Code = 2004
	SynExpectStatement  Code = 2005
	SynExpectKeyword    Code = 2006
	SynTrailingInput    Code = 2007
	SynBadAssignTarget  Code = 2008

	// Семантические
	SemaUndefinedIdent       Code = 3001
	SemaUndefinedFunction    Code = 3002
	SemaTypeMismatch         Code = 3003
	SemaRedeclaration        Code = 3004
	SemaDuplicateParam       Code = 3005
	SemaDuplicateFunction    Code = 3006
	SemaIllegalArrayAccess   Code = 3007
	SemaInvalidReturn        Code = 3008
	SemaIntLiteralOutOfRange Code = 3009
	SemaUnreachableCode      Code = 3010
	SemaMissingReturn        Code = 3011
	SemaInconsistentReturn   Code = 3012
	SemaReturnTypeMismatch   Code = 3013
	SemaArgCount             Code = 3014
	SemaInvalidOperand       Code = 3015
	SemaUntypedPairElem      Code = 3016

	// Ошибки I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexUnknownChar:           "Unknown character",
	LexUnterminatedString:    "Unterminated string literal",
	LexUnterminatedChar:      "Unterminated character literal",
	LexBadEscape:             "Invalid escape sequence",
	LexBadCharLiteral:        "Invalid character literal",
	LexNonASCIICharLiteral:   "Character literal is not ASCII",
	SynUnexpectedToken:       "Unexpected token",
	SynExpectIdentifier:      "Expected identifier",
	SynExpectType:            "Expected type",
	SynExpectExpression:      "Expected expression",
	SynExpectStatement:       "Expected statement",
	SynExpectKeyword:         "Expected keyword",
	SynTrailingInput:         "Input after end of program",
	SynBadAssignTarget:       "Invalid assignment target",
	SemaUndefinedIdent:       "Undefined identifier",
	SemaUndefinedFunction:    "Undefined function",
	SemaTypeMismatch:         "Type mismatch",
	SemaRedeclaration:        "Variable redeclared in the same scope",
	SemaDuplicateParam:       "Duplicate parameter name",
	SemaDuplicateFunction:    "Function redeclared",
	SemaIllegalArrayAccess:   "Illegal array access",
	SemaInvalidReturn:        "Return outside of a function",
	SemaIntLiteralOutOfRange: "Integer literal out of range",
	SemaUnreachableCode:      "Unreachable code",
	SemaMissingReturn:        "Missing return",
	SemaInconsistentReturn:   "Inconsistent return types",
	SemaReturnTypeMismatch:   "Return type mismatch",
	SemaArgCount:             "Wrong number of arguments",
	SemaInvalidOperand:       "Invalid operand",
	SemaUntypedPairElem:      "Element of untyped pair",
	IOLoadFileError:          "I/O load file error",
}

// Class groups codes into the coarse categories the driver maps to exit codes.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassLexical
	ClassSyntactic
	ClassSemantic
	ClassIO
)

func (c Class) String() string {
	switch c {
	case ClassLexical:
		return "lexical"
	case ClassSyntactic:
		return "syntactic"
	case ClassSemantic:
		return "semantic"
	case ClassIO:
		return "io"
	}
	return "unknown"
}

func (c Code) Class() Class {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return ClassLexical
	case ic >= 2000 && ic < 3000:
		return ClassSyntactic
	case ic >= 3000 && ic < 4000:
		return ClassSemantic
	case ic >= 4000 && ic < 5000:
		return ClassIO
	}
	return ClassUnknown
}

func (c Code) ID() string {
	switch c.Class() {
	case ClassLexical:
		return fmt.Sprintf("LEX%04d", int(c))
	case ClassSyntactic:
		return fmt.Sprintf("SYN%04d", int(c))
	case ClassSemantic:
		return fmt.Sprintf("SEM%04d", int(c))
	case ClassIO:
		return fmt.Sprintf("IO%04d", int(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
