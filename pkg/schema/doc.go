// Package schema matches decoded JSON values against a declarative schema tree.
//
// A schema is built from five kinds of node:
//
//   - Fields: an ordered set of required keys, each with a child node.
//     Keys present in the data but not declared are ignored.
//   - List: a list pattern. An empty pattern accepts any list, a single
//     element pattern constrains every element, and a longer pattern is
//     matched positionally and requires at least that many elements.
//   - Type: a primitive type tag (String, Int, Float, Bool, Null).
//   - Predicate: a named func(any) bool.
//   - Literal: an exact scalar, compared by value.
//
// Basic usage:
//
//	s := schema.Object(
//	    schema.Field("name", schema.String),
//	    schema.Field("ports", schema.ListOf(schema.Int)),
//	    schema.Field("owner", schema.Object(
//	        schema.Field("email", schema.Pred("is_email", isEmail)),
//	    )),
//	)
//
//	if err := schema.ValidateJSON(s, text); err != nil {
//	    var verr *schema.Error
//	    if errors.As(err, &verr) {
//	        fmt.Println(verr.Kind, verr.Path)
//	    }
//	}
//
// Matching is fail-fast: the first violation found in schema declaration
// order is returned as a single *Error carrying the Path of the offending
// value. Schema nodes are immutable once built and may be shared between
// goroutines.
//
// Schemas can also be read from YAML documents where leaves are tagged:
//
//	v1:
//	  seed: !type string
//	  admin:
//	    email: !pred is_email
//	  version: 1
//
// Untagged scalars are literals. See ParseYAML.
package schema
