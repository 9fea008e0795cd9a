package syntax

// TypeKind is the kind tag of a declared type. The numeric values follow
// clang's CXTypeKind so databases produced by this tool line up with ones
// produced by libclang-based extractors.
type TypeKind int

const (
	TypeInvalid         TypeKind = 0
	TypeUnexposed       TypeKind = 1
	TypeVoid            TypeKind = 2
	TypeBool            TypeKind = 3
	TypeCharU           TypeKind = 4
	TypeUChar           TypeKind = 5
	TypeUShort          TypeKind = 8
	TypeUInt            TypeKind = 9
	TypeULong           TypeKind = 10
	TypeULongLong       TypeKind = 11
	TypeCharS           TypeKind = 13
	TypeShort           TypeKind = 16
	TypeInt             TypeKind = 17
	TypeLong            TypeKind = 18
	TypeLongLong        TypeKind = 19
	TypeFloat           TypeKind = 21
	TypeDouble          TypeKind = 22
	TypeLongDouble      TypeKind = 23
	TypePointer         TypeKind = 101
	TypeLValueReference TypeKind = 103
	TypeRValueReference TypeKind = 104
	TypeRecord          TypeKind = 105
	TypeEnum            TypeKind = 106
	TypeTypedef         TypeKind = 107
	TypeFunctionProto   TypeKind = 111
	TypeConstantArray   TypeKind = 112
	TypeIncompleteArray TypeKind = 114
	TypeElaborated      TypeKind = 119
)

var typeKindNames = map[TypeKind]string{
	TypeInvalid:         "Invalid",
	TypeUnexposed:       "Unexposed",
	TypeVoid:            "Void",
	TypeBool:            "Bool",
	TypeCharU:           "Char_U",
	TypeUChar:           "UChar",
	TypeUShort:          "UShort",
	TypeUInt:            "UInt",
	TypeULong:           "ULong",
	TypeULongLong:       "ULongLong",
	TypeCharS:           "Char_S",
	TypeShort:           "Short",
	TypeInt:             "Int",
	TypeLong:            "Long",
	TypeLongLong:        "LongLong",
	TypeFloat:           "Float",
	TypeDouble:          "Double",
	TypeLongDouble:      "LongDouble",
	TypePointer:         "Pointer",
	TypeLValueReference: "LValueReference",
	TypeRValueReference: "RValueReference",
	TypeRecord:          "Record",
	TypeEnum:            "Enum",
	TypeTypedef:         "Typedef",
	TypeFunctionProto:   "FunctionProto",
	TypeConstantArray:   "ConstantArray",
	TypeIncompleteArray: "IncompleteArray",
	TypeElaborated:      "Elaborated",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "Unexposed"
}

// primitiveTypeKinds maps normalized builtin type spellings to their kind.
// Keys have qualifiers removed and words separated by single spaces.
var primitiveTypeKinds = map[string]TypeKind{
	"void":                   TypeVoid,
	"bool":                   TypeBool,
	"_Bool":                  TypeBool,
	"char":                   TypeCharS,
	"signed char":            TypeCharS,
	"unsigned char":          TypeUChar,
	"short":                  TypeShort,
	"short int":              TypeShort,
	"signed short":           TypeShort,
	"unsigned short":         TypeUShort,
	"unsigned short int":     TypeUShort,
	"int":                    TypeInt,
	"signed":                 TypeInt,
	"signed int":             TypeInt,
	"unsigned":               TypeUInt,
	"unsigned int":           TypeUInt,
	"long":                   TypeLong,
	"long int":               TypeLong,
	"signed long":            TypeLong,
	"unsigned long":          TypeULong,
	"unsigned long int":      TypeULong,
	"long long":              TypeLongLong,
	"long long int":          TypeLongLong,
	"unsigned long long":     TypeULongLong,
	"unsigned long long int": TypeULongLong,
	"float":                  TypeFloat,
	"double":                 TypeDouble,
	"long double":            TypeLongDouble,
}

// PrimitiveTypeKind returns the kind of a builtin type spelling such as
// "unsigned int". The second result is false for non-builtin spellings.
func PrimitiveTypeKind(spelling string) (TypeKind, bool) {
	k, ok := primitiveTypeKinds[spelling]
	return k, ok
}
