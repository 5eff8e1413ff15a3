package sqlb

/*
Prealloc tool. Makes a `Bui` with the specified capacity of the text and args
buffers.
*/
func MakeBui(textCap, argsCap int) Bui {
	return Bui{
		make([]byte, 0, textCap),
		make([]any, 0, argsCap),
	}
}

/*
Short for "builder". Tiny shortcut for building SQL expressions. Used internally
by most `Expr` implementations in this package. The text is always in the
canonical form; see `Expr`.
*/
type Bui struct {
	Text []byte
	Args []any
}

// Returns text and args as-is. Useful shortcut for passing them to
// `AppendExpr`.
func (self Bui) Get() ([]byte, []any) { return self.Text, self.Args }

/*
Replaces text and args with the inputs. The following idiom is equivalent to
`bui.Expr` but avoids an interface-induced allocation when the expression type
is concrete:

	bui.Set(SomeExpr{}.AppendExpr(bui.Get()))
*/
func (self *Bui) Set(text []byte, args []any) {
	self.Text = text
	self.Args = args
}

// Shortcut for `self.String(), self.Args`. Returns the canonical form; use
// `Dialect.Reify` to target a specific database.
func (self Bui) Reify() (string, []any) { return self.String(), self.Args }

// Returns inner text as a string, performing a free cast.
func (self Bui) String() string { return bytesToMutableString(self.Text) }

// Increases the capacity (not length) of the text and args buffers by the
// specified amounts. If there's already enough capacity, avoids allocation.
func (self *Bui) Grow(textLen, argsLen int) {
	self.Text = growBytes(self.Text, textLen)
	self.Args = growAnys(self.Args, argsLen)
}

// Adds a space if the preceding text doesn't already end with a terminator.
func (self *Bui) Space() { self.Text = maybeAppendSpace(self.Text) }

// Appends the provided string, delimiting it from the previous text with a
// space if necessary.
func (self *Bui) Str(val string) { self.Text = appendMaybeSpaced(self.Text, val) }

/*
Appends an expression, delimited from the preceding text by a space, if
necessary. Nil input is a nop: nothing will be appended.
*/
func (self *Bui) Expr(val Expr) {
	if val != nil {
		self.Space()
		self.Set(val.AppendExpr(self.Get()))
	}
}

// Appends a sub-expression wrapped in parens. Nil input is a nop.
func (self *Bui) SubExpr(val Expr) {
	if val != nil {
		self.Str(`(`)
		self.Expr(val)
		self.Str(`)`)
	}
}

// Appends each expr by calling `(*Bui).Expr`. They will be space-separated as
// necessary.
func (self *Bui) Exprs(vals ...Expr) {
	for _, val := range vals {
		self.Expr(val)
	}
}

// Same as `(*Bui).Exprs` but catches panics. Since many functions in this
// package use panics, this should be used for final reification by apps that
// insist on errors-as-values.
func (self *Bui) CatchExprs(vals ...Expr) (err error) {
	defer rec(&err)
	self.Exprs(vals...)
	return
}

/*
Appends an ordinal parameter such as "$1", space-separated from previous text if
necessary. Does not verify the existence of the corresponding argument.
*/
func (self *Bui) Param(val OrdinalParam) {
	self.Space()
	self.Text = val.Append(self.Text)
}

/*
Appends an arg to the inner slice of args, returning the corresponding ordinal
parameter without appending it to the text.
*/
func (self *Bui) OrphanArg(val any) OrdinalParam {
	self.Args = append(self.Args, val)
	return OrdinalParam(len(self.Args))
}

// Appends an argument to `.Args` and a corresponding ordinal parameter to
// `.Text`.
func (self *Bui) Arg(val any) { self.Param(self.OrphanArg(val)) }

/*
Appends an arbitrary value. If the value implements `Expr`, this calls
`(*Bui).Expr`. Otherwise, appends an argument and the corresponding ordinal
parameter.
*/
func (self *Bui) Any(val any) {
	impl, _ := val.(Expr)
	if impl != nil {
		self.Expr(impl)
		return
	}
	self.Arg(val)
}

// Like `(*Bui).Any`, but sub-expressions are parenthesized.
func (self *Bui) SubAny(val any) {
	impl, _ := val.(Expr)
	if impl != nil {
		self.SubExpr(impl)
		return
	}
	self.Arg(val)
}
