package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexBadEscape                Code = 1006

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynExpectSemicolon     Code = 2003
	SynExpectIdentifier    Code = 2004
	SynExpectType          Code = 2005
	SynExpectExpression    Code = 2006
	SynExpectColon         Code = 2007
	SynUnexpectedTopLevel  Code = 2008
	SynIllegalItemInExtern Code = 2009
	SynTrailingInput       Code = 2010
	SynAttributeNotAllowed Code = 2011

	// Генерация обёрток
	ThkInfo                Code = 3000
	ThkAnnotationShape     Code = 3001
	ThkIndexOutOfRange     Code = 3002
	ThkDuplicateAnnotation Code = 3003
	ThkReceiverAnnotated   Code = 3004
	ThkLifetimeOnReturn    Code = 3005
	ThkForeignMapping      Code = 3006
	ThkPointerType         Code = 3007
	ThkCountReference      Code = 3008
	ThkReturnType          Code = 3009
	ThkCountExpression     Code = 3010
	ThkNoAnnotations       Code = 3011
	ThkUnknownDeclaration  Code = 3012

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	ProjInfo           Code = 5000
	ProjConfigInvalid  Code = 5001
	ProjUnknownKey     Code = 5002
	ProjSidecarInvalid Code = 5003

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	FutEndedByNotSupported Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexTokenTooLong:             "Token too long",
		LexBadEscape:                "Invalid escape sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectType:               "Expected type",
		SynExpectExpression:         "Expected expression",
		SynExpectColon:              "Expected colon",
		SynUnexpectedTopLevel:       "Unexpected top-level item",
		SynIllegalItemInExtern:      "Illegal item inside extern block",
		SynTrailingInput:            "Trailing input after expression",
		SynAttributeNotAllowed:      "Attribute not allowed here",
		ThkInfo:                     "Wrapper synthesis information",
		ThkAnnotationShape:          "Malformed safethunk annotation",
		ThkIndexOutOfRange:          "Pointer index out of bounds",
		ThkDuplicateAnnotation:      "Multiple annotations for one position",
		ThkReceiverAnnotated:        "Annotation targets the receiver",
		ThkLifetimeOnReturn:         "Lifetime dependence on return value",
		ThkForeignMapping:           "Unresolvable foreign type mapping",
		ThkPointerType:              "Unexpected pointer type",
		ThkCountReference:           "Unknown count parameter",
		ThkReturnType:               "Return type required",
		ThkCountExpression:          "Malformed count expression",
		ThkNoAnnotations:            "Declaration has no annotations",
		ThkUnknownDeclaration:       "Sidecar annotation names unknown declaration",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		ProjInfo:                    "Project information",
		ProjConfigInvalid:           "Invalid safethunk.toml",
		ProjUnknownKey:              "Unknown key in safethunk.toml",
		ProjSidecarInvalid:          "Invalid sidecar annotation",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		FutEndedByNotSupported:      "endedBy is not yet implemented",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("THK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("FUT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
