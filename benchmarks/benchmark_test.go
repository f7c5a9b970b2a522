package benchmarks_test

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"testing"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dsl"
	"github.com/reoring/goshape/source"
)

// ---- Helpers ----

func userSchema() *goshape.ObjectSchema {
	return goshape.Object(
		goshape.Key("id", goshape.String().Required().Matches(regexp.MustCompile(`^u_\d+$`), false)),
		goshape.Key("name", goshape.String().Trim().Min(1)),
		goshape.Key("age", goshape.Number().Integer().Min(0)),
		goshape.Key("active", goshape.Boolean().Default(true)),
		goshape.Key("meta", goshape.Object(goshape.Key("score", goshape.Number()))),
	)
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":" alice ","age":"30","meta":{"score":1}}`)
}

// generateUsersJSON returns a JSON array of numObjects users, each carrying
// extraFields undeclared keys.
func generateUsersJSON(numObjects, extraFields int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"id":"u_%d","name":"n%d","age":%d,"meta":{"score":%d}`, i, i, i%90, i)
		for k := 0; k < extraFields; k++ {
			fmt.Fprintf(&buf, `,"k%d":"v%d"`, k, k)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// ---- Benchmarks ----

func BenchmarkCast_SmallObject(b *testing.B) {
	s := userSchema()
	doc, err := goshape.JSONBytes(smallUserJSON()).Decode(context.Background())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.Cast(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidateSync_SmallObject(b *testing.B) {
	s := userSchema()
	doc, err := goshape.JSONBytes(smallUserJSON()).Decode(context.Background())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.ValidateSync(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate_Array(b *testing.B) {
	for _, n := range []int{10, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			s := goshape.Array(userSchema().NoUnknown(true))
			data := generateUsersJSON(n, 4)
			ctx := context.Background()
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := goshape.Parse(ctx, s, goshape.JSONBytes(data), goshape.StripUnknown(true)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkValidate_CollectAllErrors(b *testing.B) {
	s := goshape.Array(userSchema())
	doc, err := goshape.JSONBytes([]byte(`[{"name":""},{"id":"x","age":-1},{"id":"u_1","age":1.5}]`)).Decode(context.Background())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.ValidateSync(doc, goshape.AbortEarly(false)); err == nil {
			b.Fatal("expected errors")
		}
	}
}

func BenchmarkSource_StrictJSONvsJSON(b *testing.B) {
	data := generateUsersJSON(500, 8)
	ctx := context.Background()
	b.Run("json", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		for b.Loop() {
			if _, err := goshape.JSONBytes(data).Decode(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("strict", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		for b.Loop() {
			if _, err := source.StrictJSON(data).Decode(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkDSL_Load(b *testing.B) {
	def := []byte(`
type: object
noUnknown: true
fields:
  id: {type: string, required: true, matches: "^u_\\d+$"}
  name: {type: string, trim: true, min: 1}
  age: {type: number, integer: true, min: 0}
  tags: {type: array, of: {type: string}, max: 10}
`)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := dsl.Load(def); err != nil {
			b.Fatal(err)
		}
	}
}
