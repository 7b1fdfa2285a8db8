package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	CharLit
	StringLit

	// keywords
	KwBegin
	KwEnd
	KwIs
	KwSkip
	KwRead
	KwFree
	KwReturn
	KwExit
	KwPrint
	KwPrintln
	KwIf
	KwThen
	KwElse
	KwFi
	KwWhile
	KwDo
	KwDone
	KwFor
	KwNewpair
	KwCall
	KwFst
	KwSnd
	KwInt
	KwBool
	KwChar
	KwString
	KwPair
	KwTrue
	KwFalse
	KwNull
	KwLen
	KwOrd
	KwChr

	// punctuation and operators
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	Comma    // ,
	Semicolon
	Assign // =
	Bang   // !
	Plus
	Minus
	Star
	Slash
	Percent
	Gt
	GtEq
	Lt
	LtEq
	EqEq
	BangEq
	AndAnd
	OrOr
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of file",
	Ident:     "identifier",
	IntLit:    "integer literal",
	CharLit:   "character literal",
	StringLit: "string literal",
	KwBegin:   "begin",
	KwEnd:     "end",
	KwIs:      "is",
	KwSkip:    "skip",
	KwRead:    "read",
	KwFree:    "free",
	KwReturn:  "return",
	KwExit:    "exit",
	KwPrint:   "print",
	KwPrintln: "println",
	KwIf:      "if",
	KwThen:    "then",
	KwElse:    "else",
	KwFi:      "fi",
	KwWhile:   "while",
	KwDo:      "do",
	KwDone:    "done",
	KwFor:     "for",
	KwNewpair: "newpair",
	KwCall:    "call",
	KwFst:     "fst",
	KwSnd:     "snd",
	KwInt:     "int",
	KwBool:    "bool",
	KwChar:    "char",
	KwString:  "string",
	KwPair:    "pair",
	KwTrue:    "true",
	KwFalse:   "false",
	KwNull:    "null",
	KwLen:     "len",
	KwOrd:     "ord",
	KwChr:     "chr",
	LParen:    "(",
	RParen:    ")",
	LBracket:  "[",
	RBracket:  "]",
	Comma:     ",",
	Semicolon: ";",
	Assign:    "=",
	Bang:      "!",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Gt:        ">",
	GtEq:      ">=",
	Lt:        "<",
	LtEq:      "<=",
	EqEq:      "==",
	BangEq:    "!=",
	AndAnd:    "&&",
	OrOr:      "||",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwBegin && k <= KwChr
}

// IsBaseType reports whether k names one of the base types.
func (k Kind) IsBaseType() bool {
	switch k {
	case KwInt, KwBool, KwChar, KwString:
		return true
	}
	return false
}
