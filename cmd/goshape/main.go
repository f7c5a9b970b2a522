// Command goshape validates, casts and describes documents with schemas
// declared in the goshape DSL or imported from OpenAPI.
package main

func main() {
	Execute()
}
