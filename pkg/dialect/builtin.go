package dialect

// Python is the Earth Engine Python client dialect. It is registered
// automatically when the package is loaded.
var Python = New("python").
	Declarations("var", "let", "const").
	MemberRenames(map[string]string{
		// Map widget calls differ between the code editor and geemap.
		"Map.addLayer":     "add_ee_layer",
		"Map.centerObject": "center_object",
		"Map.setCenter":    "set_center",
		"Map.setOptions":   "set_options",
	}).
	LiteralRenames(map[string]string{
		"true":      "True",
		"false":     "False",
		"null":      "None",
		"undefined": "None",
	}).
	OperatorRenames(map[string]string{
		"===": "==",
		"!==": "!=",
		"&&":  "and",
		"||":  "or",
		"!":   "not",
	}).
	Callbacks("map", "filter").
	UnsupportedKeywords(CategoryControlFlow,
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "try", "catch", "finally", "throw").
	UnsupportedKeywords(CategoryFunction, "function").
	UnsupportedKeywords(CategoryConstructor, "new").
	UnsupportedKeywords(CategoryReflection, "typeof", "instanceof", "delete", "this").
	UnsupportedOperators(CategoryConditional, "?", "??").
	UnsupportedOperators(CategoryIncrement, "++", "--").
	UnsupportedOperators(CategorySpread, "...").
	CommentPrefix("#").
	Quote('\'').
	TrailingCommas(TrailingCommaRemove).
	Continuation(ContinuationParens).
	Indent(2).
	Lambda("lambda").
	Header("import ee", "ee.Initialize()").
	Build()

func init() {
	Register(Python)
}
