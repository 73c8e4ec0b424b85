package wire

// TypeCode is the single byte that precedes every Value on the wire and
// identifies which variant follows.
type TypeCode int8

const (
	CodeByte          TypeCode = 1
	CodeShort         TypeCode = 2
	CodeInt           TypeCode = 3
	CodeLong          TypeCode = 4
	CodeFloat         TypeCode = 5
	CodeDouble        TypeCode = 6
	CodeChar          TypeCode = 7
	CodeBool          TypeCode = 8
	CodeString        TypeCode = 9
	CodeUUID          TypeCode = 10
	CodeDate          TypeCode = 11
	CodeArrByte       TypeCode = 12
	CodeArrShort      TypeCode = 13
	CodeArrInt        TypeCode = 14
	CodeArrLong       TypeCode = 15
	CodeArrFloat      TypeCode = 16
	CodeArrDouble     TypeCode = 17
	CodeArrChar       TypeCode = 18
	CodeArrBool       TypeCode = 19
	CodeArrString     TypeCode = 20
	CodeArrUUID       TypeCode = 21
	CodeArrDate       TypeCode = 22
	CodeArrObject     TypeCode = 23
	CodeCollection    TypeCode = 24
	CodeMap           TypeCode = 25
	CodeWrappedData   TypeCode = 27
	CodeEnum          TypeCode = 28
	CodeArrEnum       TypeCode = 29
	CodeDecimal       TypeCode = 30
	CodeArrDecimal    TypeCode = 31
	CodeTimestamp     TypeCode = 33
	CodeArrTimestamp  TypeCode = 34
	CodeTime          TypeCode = 36
	CodeArrTime       TypeCode = 37
	CodeBinaryEnum    TypeCode = 38
	CodeComplexObject TypeCode = 103
	CodeNull          TypeCode = 101
)

// CollectionKind distinguishes the Java collection flavor carried alongside
// a Collection Value; the protocol passes this through unmodified.
type CollectionKind int8

const (
	CollectionUserSet       CollectionKind = -1
	CollectionUserCol       CollectionKind = 0
	CollectionArrList       CollectionKind = 1
	CollectionLinkedList    CollectionKind = 2
	CollectionHashSet       CollectionKind = 3
	CollectionLinkedHashSet CollectionKind = 4
	CollectionSingletonList CollectionKind = 5
)

// MapKind distinguishes the Java map flavor carried alongside a Map Value.
type MapKind int8

const (
	MapHashMap       MapKind = 1
	MapLinkedHashMap MapKind = 2
)

// ComplexObject header flags.
const (
	FlagUserType      int16 = 0x0001
	FlagHasSchema     int16 = 0x0002
	FlagHasRawData    int16 = 0x0004
	FlagOffsetOneByte int16 = 0x0008
	FlagOffsetTwoByte int16 = 0x0010
	FlagCompactFooter int16 = 0x0020
)

const complexObjectHeaderMagic uint8 = 103

// ComplexObjectHeaderLen is the fixed byte length of the complex-object
// header, before field data and the schema footer.
const ComplexObjectHeaderLen = 24
