package scope

// Keywords is the reserved-word set of the target Python syntax (spec §3
// "captured snapshot of the keyword set"). It includes the hard keywords
// plus the soft keywords the grammar treats specially in contexts relevant
// here (`match`, `case`, `_`, `type`), since spec §4.3 excludes any
// "reserved word of the target Python syntax" from renaming and §4.4
// forbids the name generator from emitting one.
var Keywords = buildSet([]string{
	"False", "None", "True",
	"and", "as", "assert", "async", "await",
	"break",
	"class", "continue",
	"def", "del",
	"elif", "else", "except",
	"finally", "for", "from",
	"global",
	"if", "import", "in", "is",
	"lambda",
	"nonlocal", "not",
	"or",
	"pass",
	"raise", "return",
	"try",
	"while", "with",
	"yield",
	"match", "case", "_", "type",
})

// Builtins is a snapshot of Python's builtin namespace (spec §3 "captured
// snapshot of ... the builtin set"): functions, types, and exceptions
// available without import. A function-local binding that shadows one of
// these is recorded as excluded rather than renamed, and the name generator
// never emits one.
var Builtins = buildSet([]string{
	// builtin functions
	"abs", "aiter", "anext", "all", "any", "ascii", "bin", "bool",
	"breakpoint", "bytearray", "bytes", "callable", "chr", "classmethod",
	"compile", "complex", "delattr", "dict", "dir", "divmod", "enumerate",
	"eval", "exec", "filter", "float", "format", "frozenset", "getattr",
	"globals", "hasattr", "hash", "help", "hex", "id", "input", "int",
	"isinstance", "issubclass", "iter", "len", "list", "locals", "map",
	"max", "memoryview", "min", "next", "object", "oct", "open", "ord",
	"pow", "print", "property", "range", "repr", "reversed", "round",
	"set", "setattr", "slice", "sorted", "staticmethod", "str", "sum",
	"super", "tuple", "type", "vars", "zip", "__import__",
	// builtin constants
	"NotImplemented", "Ellipsis", "__debug__",
	// builtin exceptions and warnings
	"BaseException", "BaseExceptionGroup", "Exception", "ArithmeticError",
	"AssertionError", "AttributeError", "BlockingIOError",
	"BrokenPipeError", "BufferError", "BytesWarning", "ChildProcessError",
	"ConnectionAbortedError", "ConnectionError", "ConnectionRefusedError",
	"ConnectionResetError", "DeprecationWarning", "EOFError",
	"Exception", "ExceptionGroup", "FileExistsError", "FileNotFoundError",
	"FloatingPointError", "FutureWarning", "GeneratorExit", "IOError",
	"ImportError", "ImportWarning", "IndentationError", "IndexError",
	"InterruptedError", "IsADirectoryError", "KeyError",
	"KeyboardInterrupt", "LookupError", "MemoryError",
	"ModuleNotFoundError", "NameError", "NotADirectoryError",
	"NotImplementedError", "OSError", "OverflowError",
	"PendingDeprecationWarning", "PermissionError", "ProcessLookupError",
	"RecursionError", "ReferenceError", "ResourceWarning", "RuntimeError",
	"RuntimeWarning", "StopAsyncIteration", "StopIteration", "SyntaxError",
	"SyntaxWarning", "SystemError", "SystemExit", "TabError", "TimeoutError",
	"TypeError", "UnboundLocalError", "UnicodeDecodeError",
	"UnicodeEncodeError", "UnicodeError", "UnicodeTranslateError",
	"UnicodeWarning", "UserWarning", "ValueError", "Warning",
	"ZeroDivisionError",
	// dunder names commonly present in module scope
	"__name__", "__file__", "__doc__", "__package__", "__spec__",
	"__loader__", "__builtins__", "__annotations__", "__dict__",
})

func buildSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsDunder reports whether name matches the dunder pattern `__x__`.
func IsDunder(name string) bool {
	if len(name) < 5 {
		return false
	}
	return name[:2] == "__" && name[len(name)-2:] == "__"
}
