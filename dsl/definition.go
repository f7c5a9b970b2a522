package dsl

// Definition describes one schema node.
type Definition struct {
	// Type is one of mixed, string, number, boolean, array, object. When a
	// definition is used as a `then`/`otherwise` branch, an empty Type
	// inherits the type of the enclosing definition.
	Type     string `mapstructure:"type"`
	Label    string `mapstructure:"label"`
	Required bool   `mapstructure:"required"`
	Defined  bool   `mapstructure:"defined"`
	Nullable bool   `mapstructure:"nullable"`
	Default  any    `mapstructure:"default"`
	Strip    bool   `mapstructure:"strip"`
	Strict   bool   `mapstructure:"strict"`
	OneOf    []any  `mapstructure:"oneOf"`
	NotOneOf []any  `mapstructure:"notOneOf"`
	// Min, Max and Length accept a number or a reference string such as
	// "minLength" or "$limits.max".
	Min    any `mapstructure:"min"`
	Max    any `mapstructure:"max"`
	Length any `mapstructure:"length"`

	// String
	Matches   string `mapstructure:"matches"`
	Trim      bool   `mapstructure:"trim"`
	Lowercase bool   `mapstructure:"lowercase"`

	// Number
	Integer bool `mapstructure:"integer"`

	// Array
	Of      *Definition `mapstructure:"of"`
	Compact bool        `mapstructure:"compact"`
	Ensure  bool        `mapstructure:"ensure"`

	// Object
	Fields    map[string]*Definition `mapstructure:"fields"`
	NoUnknown bool                   `mapstructure:"noUnknown"`
	// Exclude lists field pairs whose mutual references are not
	// dependencies.
	Exclude [][2]string `mapstructure:"exclude"`
	// KeyCase renames input keys before casting: camel, snake or constant.
	KeyCase string `mapstructure:"keyCase"`

	// Ref makes an object field copy another value instead of declaring a
	// schema.
	Ref string `mapstructure:"ref"`

	When  *When          `mapstructure:"when"`
	Rules []Rule         `mapstructure:"rules"`
	Meta  map[string]any `mapstructure:"meta"`
}

// When switches the definition on the value at Key.
type When struct {
	Key string `mapstructure:"key"`
	// Is is the value to compare with, or {exists: true|false}.
	Is        any         `mapstructure:"is"`
	Then      *Definition `mapstructure:"then"`
	Otherwise *Definition `mapstructure:"otherwise"`
}

// Rule declares a reusable test from the rules package.
type Rule struct {
	Name    string `mapstructure:"name"`
	Message string `mapstructure:"message"`
	// Expr is an expr-lang expression over value, parent, context and path.
	Expr string `mapstructure:"expr"`
	// UniqueBy requires array elements to be unique by a relative key path.
	UniqueBy *string `mapstructure:"uniqueBy"`
	// InSet and NotInSet name Redis sets the value must (not) belong to.
	// They need WithSetChecker.
	InSet    string `mapstructure:"inSet"`
	NotInSet string `mapstructure:"notInSet"`
}
