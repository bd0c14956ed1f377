package phpast

// Kind tags a node in the tree.
type Kind uint8

const (
	KindFile Kind = iota
	KindNamespace
	KindUse
	KindClass
	KindTraitUse
	KindProperty
	KindConst
	KindEnumCase
	KindMethod
	KindFunction
	KindReturn
	KindExprStmt
	KindBlock

	KindVariable
	KindName
	KindString
	KindNumber
	KindArray
	KindArrayItem
	KindMethodCall
	KindStaticCall
	KindFuncCall
	KindClassConstFetch
	KindPropertyFetch
	KindStaticPropertyFetch
	KindNew
	KindClosure
	KindArrowFunction
	KindNamedArg
	KindExpr
)

var kindNames = [...]string{
	KindFile:                "File",
	KindNamespace:           "Namespace",
	KindUse:                 "Use",
	KindClass:               "Class",
	KindTraitUse:            "TraitUse",
	KindProperty:            "Property",
	KindConst:               "Const",
	KindEnumCase:            "EnumCase",
	KindMethod:              "Method",
	KindFunction:            "Function",
	KindReturn:              "Return",
	KindExprStmt:            "ExprStmt",
	KindBlock:               "Block",
	KindVariable:            "Variable",
	KindName:                "Name",
	KindString:              "String",
	KindNumber:              "Number",
	KindArray:               "Array",
	KindArrayItem:           "ArrayItem",
	KindMethodCall:          "MethodCall",
	KindStaticCall:          "StaticCall",
	KindFuncCall:            "FuncCall",
	KindClassConstFetch:     "ClassConstFetch",
	KindPropertyFetch:       "PropertyFetch",
	KindStaticPropertyFetch: "StaticPropertyFetch",
	KindNew:                 "New",
	KindClosure:             "Closure",
	KindArrowFunction:       "ArrowFunction",
	KindNamedArg:            "NamedArg",
	KindExpr:                "Expr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Flags carry declaration modifiers and node specific markers.
type Flags uint16

const (
	FlagPublic Flags = 1 << iota
	FlagProtected
	FlagPrivate
	FlagStatic
	FlagAbstract
	FlagFinal
	FlagReadonly
	FlagHasKey
	FlagByRef
	FlagSpread
	FlagNullsafe
	FlagInterface
	FlagTrait
	FlagEnum
	FlagUseFunction
	FlagUseConst
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// NodeID indexes the tree arena.
type NodeID int32

// NoNode marks an absent node.
const NoNode NodeID = -1

// Comment is a doc comment with its byte span.
type Comment struct {
	Text  string
	Start int
	End   int
}

// Param is a function-like parameter.
type Param struct {
	Name string
	Type string
}

// Node is a tagged union; which fields are meaningful depends on Kind.
//
//	Namespace, Class, Method, Function, Property, Const: Name
//	Use: Name is the imported name, Alias the local alias
//	Class: Extends holds the parent as written
//	Variable: Name without the dollar sign
//	Name: Name as written, possibly with a leading separator
//	String, Number: Value
//	MethodCall, StaticCall, PropertyFetch, ClassConstFetch: Name is the member,
//	  Children[0] the receiver or class, call arguments follow
//	FuncCall, New: Children[0] is the callee or class, arguments follow
//	ArrayItem: Children holds [value] or [key, value] when FlagHasKey is set
//	Expr: Value is the operator or keyword
type Node struct {
	Kind     Kind
	Name     string
	Alias    string
	Value    string
	Extends  string
	Type     string
	Flags    Flags
	Doc      *Comment
	Params   []Param
	Children []NodeID
	Start    int
	End      int
}
