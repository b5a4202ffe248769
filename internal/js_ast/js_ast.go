package js_ast

import (
	"github.com/evanw/classvars/internal/logger"
)

// Every file is parsed into a separate AST data structure. The parser also
// resolves all scopes and binds all symbols in the tree.
//
// Identifiers in the tree are referenced by a Ref, which is an index into the
// symbol table for the file. The symbol table is stored as a top-level field
// in the AST so it can be accessed without traversing the tree. For example,
// renaming a binding only means changing its symbol's name.
//
// Instance variable references ("this::x") are not bound by the parser. They
// are resolved by the lowering pass, which knows which class declares which
// name.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) UnaryAssignTarget() AssignTarget {
	if op >= UnOpPreDec && op <= UnOpPostInc {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

func (op OpCode) BinaryAssignTarget() AssignTarget {
	if op == BinOpAssign {
		return AssignTargetReplace
	}
	if op > BinOpAssign {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

// Maps a compound assignment operator such as "+=" to the binary operator it
// applies, such as "+". The logical assignment operators are not included
// because they short-circuit.
func (op OpCode) CompoundAssignBase() (OpCode, bool) {
	switch op {
	case BinOpAddAssign:
		return BinOpAdd, true
	case BinOpSubAssign:
		return BinOpSub, true
	case BinOpMulAssign:
		return BinOpMul, true
	case BinOpDivAssign:
		return BinOpDiv, true
	case BinOpRemAssign:
		return BinOpRem, true
	case BinOpPowAssign:
		return BinOpPow, true
	case BinOpShlAssign:
		return BinOpShl, true
	case BinOpShrAssign:
		return BinOpShr, true
	case BinOpUShrAssign:
		return BinOpUShr, true
	case BinOpBitwiseOrAssign:
		return BinOpBitwiseOr, true
	case BinOpBitwiseAndAssign:
		return BinOpBitwiseAnd, true
	case BinOpBitwiseXorAssign:
		return BinOpBitwiseXor, true
	}
	return 0, false
}

type AssignTarget uint8

const (
	AssignTargetNone    AssignTarget = iota
	AssignTargetReplace              // "a = b"
	AssignTargetUpdate               // "a += b"
)

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

type LocRef struct {
	Loc logger.Loc
	Ref Ref
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread

	// "foo = 1;" and "static foo;" in a class body. These are parsed so they
	// can be reported, but they are never lowered.
	PropertyField

	// "let x = 1;" and "const y;" in a class body. The key is the private name
	// and there is no symbol for it. Several declarators in one member become
	// several properties.
	PropertyInstanceVar

	// "static let x = 1;" in a class body. The name is a lexical binding that
	// is visible by its bare name inside the class body.
	PropertyClassVar
)

type PropertyFlags uint8

const (
	PropertyIsComputed PropertyFlags = 1 << iota
	PropertyIsMethod
	PropertyIsStatic
	PropertyWasShorthand

	// Set for "let" instance and class variables, cleared for "const"
	PropertyIsMutable
)

func (flags PropertyFlags) Has(flag PropertyFlags) bool {
	return (flags & flag) != 0
}

type Property struct {
	Decorators []Expr

	// This is "EString" for identifier and string keys, "ENumber" for numeric
	// keys, or any expression when "PropertyIsComputed" is set.
	Key Expr

	// This is omitted for class fields and variables
	ValueOrNil Expr

	// This is used for class fields and variables, and for default values in
	// object binding patterns
	InitializerOrNil Expr

	// The binding for a class variable. Unused for other kinds.
	VarRef Ref

	// The type annotation, if any. It is kept as a source range because the
	// lowering pass never looks inside types.
	TypeRange logger.Range

	Loc   logger.Loc
	Kind  PropertyKind
	Flags PropertyFlags
}

type Arg struct {
	Binding      Binding
	DefaultOrNil Expr
	TypeRange    logger.Range
}

type Fn struct {
	Name       *LocRef
	Args       []Arg
	Body       FnBody
	HasRestArg bool

	// The scope for the arguments. The body scope is its only child.
	Scope *Scope
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Class struct {
	Decorators    []Expr
	Name          *LocRef
	ExtendsOrNil  Expr
	BodyLoc       logger.Loc
	CloseBraceLoc logger.Loc
	Properties    []Property

	// The scope of the class body. Class variables are declared here.
	BodyScope *Scope
}

type Binding struct {
	Loc  logger.Loc
	Data B
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

type BMissing struct{}

type BIdentifier struct{ Ref Ref }

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}

type Expr struct {
	Loc  logger.Loc
	Data E
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

type EArray struct {
	Items        []Expr
	IsSingleLine bool
}

type EUnary struct {
	Op    OpCode
	Value Expr
}

type EBinary struct {
	Left  Expr
	Right Expr
	Op    OpCode
}

type EBoolean struct{ Value bool }

type ESuper struct{}

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type ENew struct {
	Target Expr
	Args   []Expr
}

type ECall struct {
	Target Expr
	Args   []Expr
}

type EDot struct {
	Target  Expr
	Name    string
	NameLoc logger.Loc
}

type EIndex struct {
	Target Expr
	Index  Expr
}

// "receiver::name" refers to the instance variable "name" declared by an
// enclosing class. The lowering pass replaces every one of these.
type EPrivateMember struct {
	Target  Expr
	Name    string
	NameLoc logger.Loc
}

type EArrow struct {
	Args       []Arg
	Body       FnBody
	HasRestArg bool
	PreferExpr bool // Use shorthand if true and "Body" is a single return statement

	// The scope for the arguments. The body scope is its only child.
	Scope *Scope
}

type EFunction struct{ Fn Fn }

type EClass struct{ Class Class }

type EIdentifier struct {
	Ref Ref
}

type EMissing struct{}

type ENumber struct{ Value float64 }

type EString struct {
	Value string
}

type EObject struct {
	Properties   []Property
	IsSingleLine bool
}

type ESpread struct{ Value Expr }

type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

func (*EArray) isExpr()         {}
func (*EUnary) isExpr()         {}
func (*EBinary) isExpr()        {}
func (*EBoolean) isExpr()       {}
func (*ESuper) isExpr()         {}
func (*ENull) isExpr()          {}
func (*EUndefined) isExpr()     {}
func (*EThis) isExpr()          {}
func (*ENew) isExpr()           {}
func (*ECall) isExpr()          {}
func (*EDot) isExpr()           {}
func (*EIndex) isExpr()         {}
func (*EPrivateMember) isExpr() {}
func (*EArrow) isExpr()         {}
func (*EFunction) isExpr()      {}
func (*EClass) isExpr()         {}
func (*EIdentifier) isExpr()    {}
func (*EMissing) isExpr()       {}
func (*ENumber) isExpr()        {}
func (*EString) isExpr()        {}
func (*EObject) isExpr()        {}
func (*ESpread) isExpr()        {}
func (*EIf) isExpr()            {}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

type SBlock struct {
	Stmts         []Stmt
	CloseBraceLoc logger.Loc
}

type SEmpty struct{}

type SExpr struct {
	Value Expr
}

type SFunction struct {
	Fn Fn
}

type SClass struct {
	Class Class
}

type SReturn struct {
	ValueOrNil Expr
}

type SThrow struct {
	Value Expr
}

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil Stmt
}

type SFor struct {
	InitOrNil   Stmt // May be a SLocal or SExpr
	TestOrNil   Expr
	UpdateOrNil Expr
	Body        Stmt
}

type SForOf struct {
	Init  Stmt // May be a SLocal or SExpr
	Value Expr
	Body  Stmt
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SBreak struct{}

type SContinue struct{}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type SLocal struct {
	Decls []Decl
	Kind  LocalKind
}

type Decl struct {
	Binding    Binding
	ValueOrNil Expr
	TypeRange  logger.Range
}

func (*SBlock) isStmt()    {}
func (*SEmpty) isStmt()    {}
func (*SExpr) isStmt()     {}
func (*SFunction) isStmt() {}
func (*SClass) isStmt()    {}
func (*SReturn) isStmt()   {}
func (*SThrow) isStmt()    {}
func (*SIf) isStmt()       {}
func (*SFor) isStmt()      {}
func (*SForOf) isStmt()    {}
func (*SWhile) isStmt()    {}
func (*SBreak) isStmt()    {}
func (*SContinue) isStmt() {}
func (*SLocal) isStmt()    {}

type Ref struct {
	InnerIndex uint32
}

var InvalidRef = Ref{^uint32(0)}

type SymbolKind uint8

const (
	// An unbound symbol is one that isn't declared in the file it's referenced
	// in. For example, using "window" without declaring it will be unbound.
	SymbolUnbound SymbolKind = iota

	// This has special merging behavior. You're allowed to re-declare these
	// symbols more than once in the same scope. These symbols are also hoisted
	// out of the scope they are declared in to the closest containing function
	// or module scope. These are the symbols with this kind:
	//
	// - Function arguments
	// - Function statements
	// - Variables declared using "var"
	//
	SymbolHoisted
	SymbolHoistedFunction

	// Classes can merge with TypeScript namespaces, but only that
	SymbolClass

	// Variables declared using "const" and class variables declared using
	// "static const"
	SymbolConst

	// Instance variable storage and memoized receivers created by the
	// lowering pass
	SymbolGenerated

	// This annotates all other symbols that don't have special behavior
	SymbolOther
)

type Symbol struct {
	// This is the name that came from the parser. Printed names are always
	// the original name, so renaming a binding means changing this field.
	OriginalName string

	// An estimate of the number of uses of this symbol
	UseCountEstimate uint32

	Kind SymbolKind
}

type ScopeKind uint8

const (
	ScopeBlock ScopeKind = iota
	ScopeClassName
	ScopeClassBody

	// The scopes below stop hoisted variables from extending into parent scopes
	ScopeEntry // This is a module or a function
	ScopeFunctionArgs
	ScopeFunctionBody
)

func (kind ScopeKind) StopsHoisting() bool {
	return kind >= ScopeEntry
}

type ScopeMember struct {
	Ref Ref
	Loc logger.Loc
}

type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope
	Members  map[string]ScopeMember
}

type AST struct {
	Stmts       []Stmt
	Symbols     []Symbol
	ModuleScope *Scope
}
