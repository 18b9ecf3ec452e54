package shesmu

type TypeOfBool struct{}

func (*TypeOfBool) Kind() Kind         { return BoolKind }
func (*TypeOfBool) Descriptor() string { return "b" }
func (*TypeOfBool) Name() string       { return "boolean" }

type TypeOfInt struct{}

func (*TypeOfInt) Kind() Kind         { return IntKind }
func (*TypeOfInt) Descriptor() string { return "i" }
func (*TypeOfInt) Name() string       { return "integer" }

type TypeOfFloat struct{}

func (*TypeOfFloat) Kind() Kind         { return FloatKind }
func (*TypeOfFloat) Descriptor() string { return "f" }
func (*TypeOfFloat) Name() string       { return "float" }

type TypeOfString struct{}

func (*TypeOfString) Kind() Kind         { return StringKind }
func (*TypeOfString) Descriptor() string { return "s" }
func (*TypeOfString) Name() string       { return "string" }

type TypeOfDate struct{}

func (*TypeOfDate) Kind() Kind         { return DateKind }
func (*TypeOfDate) Descriptor() string { return "d" }
func (*TypeOfDate) Name() string       { return "date" }

type TypeOfPath struct{}

func (*TypeOfPath) Kind() Kind         { return PathKind }
func (*TypeOfPath) Descriptor() string { return "p" }
func (*TypeOfPath) Name() string       { return "path" }

type TypeOfJSON struct{}

func (*TypeOfJSON) Kind() Kind         { return JSONKind }
func (*TypeOfJSON) Descriptor() string { return "j" }
func (*TypeOfJSON) Name() string       { return "json" }

// TypeOfBad is the type of an expression that failed analysis.  It has no
// descriptor.
type TypeOfBad struct{}

func (*TypeOfBad) Kind() Kind         { return BadKind }
func (*TypeOfBad) Descriptor() string { return "" }
func (*TypeOfBad) Name() string       { return "<bad>" }

// TypeOfEmpty is the type of the empty list literal.
type TypeOfEmpty struct{}

func (*TypeOfEmpty) Kind() Kind         { return EmptyKind }
func (*TypeOfEmpty) Descriptor() string { return "A" }
func (*TypeOfEmpty) Name() string       { return "[]" }

// TypeOfNothing is the type of the empty optional literal.
type TypeOfNothing struct{}

func (*TypeOfNothing) Kind() Kind         { return NothingKind }
func (*TypeOfNothing) Descriptor() string { return "Q" }
func (*TypeOfNothing) Name() string       { return "nothing" }
