package sqlb

import (
	"github.com/mitranim/sqlp"
)

/*
Shortcut for `StrQ{text, List(args)}`. Parameters must be ordinal: "$1", "$2"
and so on.
*/
func ListQ(text string, args ...any) StrQ {
	if len(args) == 0 {
		return StrQ{text, nil}
	}
	return StrQ{text, List(args)}
}

// Shortcut for `StrQ{text, Dict(args)}`. Parameters must be named: ":name".
func DictQ(text string, args map[string]any) StrQ {
	if len(args) == 0 {
		return StrQ{text, nil}
	}
	return StrQ{text, Dict(args)}
}

/*
Short for "string query". Represents an SQL query with parameters such as "$1"
or ":param". When used as an `Expr`, parses the text, replaces parameters with
arguments from the dictionary and renumerates ordinal parameters. Arguments
that implement `Expr` are inlined as sub-expressions; other arguments are
appended to the output args. Parsing is cached per distinct text.

Panics if a parameter has no argument, if an argument is unused (when the
dictionary implements `OrdinalRanger` or `NamedRanger`), or if the text has no
parameters but the dictionary is non-empty.
*/
type StrQ struct {
	Text string
	Args ArgDict
}

// Implement the `Expr` interface, making this a sub-expression.
func (self StrQ) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Preparse(self.Text).AppendParamExpr(text, args, self.Args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self StrQ) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self StrQ) String() string { return exprString(self) }

var prepCache = cacheOf(func(src string) *Prep {
	out := &Prep{Source: src}
	out.Parse()
	return out
})

/*
Returns a parsed `Prep` for the given source string. Uses an internal cache,
so each distinct source is tokenized only once per process.
*/
func Preparse(val string) *Prep { return prepCache.Get(val) }

/*
Short for "preparsed" or "prepared". Partially parsed representation of
parametrized SQL text. Expressions that need to parse SQL text should use
`Preparse` and call `(*Prep).AppendParamExpr` for each use.
*/
type Prep struct {
	Source    string
	Tokens    []sqlp.Node
	HasParams bool
}

// Parses `self.Source`, modifying the receiver. Panics on malformed input.
func (self *Prep) Parse() {
	tokenizer := sqlp.Tokenizer{Source: self.Source}
	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node.(type) {
		case sqlp.NodeOrdinalParam, sqlp.NodeNamedParam:
			self.HasParams = true
		}
		self.Tokens = append(self.Tokens, node)
	}
}

/*
Appends the parsed text to the buffer, replacing parameters with arguments
from the dictionary. Repeated parameters share one output argument.
*/
func (self *Prep) AppendParamExpr(text []byte, args []any, dict ArgDict) ([]byte, []any) {
	if !self.HasParams {
		if dict != nil && !dict.IsEmpty() {
			panic(errUnexpectedArgs(`building SQL expression from non-parametrized text`, dict))
		}
		return appendMaybeSpaced(text, self.Source), args
	}

	if dict == nil {
		panic(errMissingArgs(`building SQL expression from parametrized text`))
	}

	bui := Bui{text, args}
	if !hasDelimPrefix(self.Source) {
		bui.Space()
	}

	track := argTracker{dict: dict}
	for _, node := range self.Tokens {
		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			track.ordinal(&bui, OrdinalParam(node))
		case sqlp.NodeNamedParam:
			track.named(&bui, string(node))
		default:
			node.Append(&bui.Text)
		}
	}

	track.validate()
	return bui.Get()
}

/*
Maps source parameters to output parameters while building. Also remembers
which arguments were used, for detecting unused ones.
*/
type argTracker struct {
	dict     ArgDict
	ordinals map[OrdinalParam]OrdinalParam
	names    map[string]OrdinalParam
}

func (self *argTracker) ordinal(bui *Bui, key OrdinalParam) {
	val, ok := self.dict.GotOrdinal(key.Index())
	if !ok {
		panic(errMissingOrdinal(key))
	}

	if ord := self.ordinals[key]; ord != 0 {
		bui.Text = ord.Append(bui.Text)
		return
	}

	if self.ordinals == nil {
		self.ordinals = map[OrdinalParam]OrdinalParam{}
	}
	self.ordinals[key] = self.appendArg(bui, val)
}

func (self *argTracker) named(bui *Bui, key string) {
	val, ok := self.dict.GotNamed(key)
	if !ok {
		panic(errMissingNamed(key))
	}

	if ord := self.names[key]; ord != 0 {
		bui.Text = ord.Append(bui.Text)
		return
	}

	if self.names == nil {
		self.names = map[string]OrdinalParam{}
	}
	self.names[key] = self.appendArg(bui, val)
}

// Inlined expressions are tracked with a zero param and inlined again on
// reuse.
func (self *argTracker) appendArg(bui *Bui, val any) OrdinalParam {
	impl, _ := val.(Expr)
	if impl != nil {
		bui.Set(impl.AppendExpr(bui.Get()))
		return 0
	}
	ord := bui.OrphanArg(val)
	bui.Text = ord.Append(bui.Text)
	return ord
}

func (self *argTracker) validate() {
	if impl, ok := self.dict.(OrdinalRanger); ok {
		impl.RangeOrdinal(func(ind int) {
			key := OrdinalParam(ind).FromIndex()
			if _, ok := self.ordinals[key]; !ok {
				panic(errUnusedOrdinal(key))
			}
		})
	}

	if impl, ok := self.dict.(NamedRanger); ok {
		impl.RangeNamed(func(key string) {
			if _, ok := self.names[key]; !ok {
				panic(errUnusedNamed(key))
			}
		})
	}
}
