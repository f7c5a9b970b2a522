// Package goshape builds immutable, composable schemas that cast loosely typed
// values (records, sequences and scalars as produced by JSON or YAML decoders)
// into a declared shape and validate them.
//
//   - Schemas are values: every configuring call returns a new schema, so a
//     schema can be shared across goroutines and extended without affecting
//     earlier versions.
//   - Object fields may read their siblings through references (Ref) and
//     conditions (When); fields are cast and validated in dependency order.
//   - Validation is fail-fast by default (AbortEarly) or collects every error
//     into one aggregate *ValidationError.
//   - Tests marked Async may block; Validate runs them concurrently while
//     ValidateSync rejects them.
//   - Lazy schemas pick their shape per value, which allows recursive shapes.
//
// Design policy:
//   - Keep only public APIs in the root package; put helpers under internal/.
//   - Decoders live under source/, struct binding under bind/, exports under
//     jsonschema/ and openapi/, reusable tests under rules/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := goshape.Object(
//		goshape.Key("name", goshape.String().Required()),
//		goshape.Key("age", goshape.Number().Integer().Min(0)),
//		goshape.Key("tags", goshape.Array(goshape.String()).Max(5)),
//	)
//	v, err := user.Validate(ctx, doc, goshape.AbortEarly(false))
//	if ve, ok := goshape.AsValidationError(err); ok {
//		for _, leaf := range ve.Leaves() {
//			fmt.Println(leaf.Path, leaf.Message)
//		}
//	}
package goshape
