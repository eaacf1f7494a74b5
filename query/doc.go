// Package query evaluates expressions against decoded API responses.
//
// Expressions use the expr language (github.com/expr-lang/expr). The decoded
// response body is available as `body` and the HTTP status as `status`; when
// the body is a JSON object its top-level fields are also available directly.
// Besides the expr builtins (len, filter, map, upper, lower, now, ...) the
// helpers icontains, istartsWith, iendsWith, parseTime and daysSince are
// available:
//
//	compiler := query.NewCompiler(query.WithCache(32))
//	q, err := compiler.Compile(`filter(accounts, {icontains(.accountName, "demo")})`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := q.Evaluate(query.Input{Status: 200, Body: decoded})
package query
