// Package dsl builds goshape schemas from declarative YAML or JSON
// definitions, so schemas can live next to the documents they check.
//
// Example (YAML)
//
//	type: object
//	noUnknown: true
//	fields:
//	  name: {type: string, required: true, trim: true, min: 2}
//	  age: {type: number, integer: true, min: 0}
//	  password: {type: string, min: 8}
//	  confirm:
//	    type: string
//	    when:
//	      key: password
//	      is: {exists: true}
//	      then: {required: true}
//	    rules:
//	      - expr: value == parent.password
//	        message: passwords must match
//	  tags:
//	    type: array
//	    max: 5
//	    of: {type: string}
//	    rules:
//	      - uniqueBy: ""
//
// Field keys are declared in lexical order; fields that read siblings
// through `ref`, `when` or a reference bound are ordered after them.
// `then` and `otherwise` branches add their settings to the enclosing
// definition.
package dsl
