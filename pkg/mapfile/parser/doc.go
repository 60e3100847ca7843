// Package parser converts Valve/Quake .map text into an ast.Document.
//
// The grammar is small and LL(1): every choice (property or brush inside an
// entity, Standard or Valve 220 alignment on a face) is made by peeking at a
// single byte. Each grammar function takes a cursor by value and returns the
// advanced cursor and its result, or a failure; a failed branch never
// consumes input visible to its caller. Because no alternative is tried
// after a failure, the failure returned is the furthest point the parse
// reached.
//
// # Grammar
//
//	document = ws* entity* ws*
//	entity   = "{" ws* (property | brush)* "}" ws*
//	property = qstring ws+ qstring ws*
//	brush    = "{" ws* face+ "}" ws*
//	face     = plane ws* texname ws+ (std_uv | valve_uv) ws*
//	std_uv   = number ws+ number ws+ number ws+ number ws+ number
//	valve_uv = uvaxis ws* uvaxis ws* number ws+ number ws+ number
//	plane    = point ws* point ws* point
//	point    = "(" ws* number ws+ number ws+ number ws* ")"
//	uvaxis   = "[" ws* number ws+ number ws+ number ws+ number ws* "]"
//	qstring  = '"' [^"]* '"'
//	texname  = [^ \t\r\n]+
//	number   = "-"? digit+ ("." digit+)? (("e"|"E") ("-"|"+")? digit+)?
//	ws       = " " | "\t" | "\r" | "\n" | "//" [^\n]* ("\n" | EOF)
//
// Quoted strings have no escape sequences. A leading UTF-8 byte order mark
// is skipped.
//
// # Basic Usage
//
//	p := parser.NewParser()
//	doc, err := p.Parse("maps/e1m1.map")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("entities:", len(doc.Entities))
//
// Parse from memory:
//
//	doc, err := p.ParseString(`{"classname" "worldspawn"}`, "memory://inline")
//
// # Configuration
//
//	p := parser.NewParser().
//	    WithMaxFileSize(8 * 1024 * 1024). // 8MB limit
//	    WithEditorKeys(false)             // drop TrenchBroom _tb_* keys
//
// Errors are *errors.Error values carrying the byte offset, line and column
// of the failure and the construct that was expected there.
package parser
