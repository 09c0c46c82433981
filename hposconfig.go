package hposconfig

import (
	"github.com/aretw0/hpos-config/pkg/registry"
	"github.com/aretw0/hpos-config/pkg/schema"
)

// ConfigFile is the conventional file name, also used as the root label of
// every reported path.
const ConfigFile = "hpos-config.json"

// RootLabel is rendered in front of paths reported by Check.
const RootLabel = ConfigFile + ": "

// IsEmail reports whether v is a string containing "@".
func IsEmail(v any) bool {
	return registry.IsEmail(v)
}

// Schema is the expected shape of an hpos-config document.
// Treat it as read-only.
var Schema = schema.Object(
	schema.Field("v1", schema.Object(
		schema.Field("seed", schema.String),
		schema.Field("settings", schema.Object(
			schema.Field("admin", schema.Object(
				schema.Field("email", schema.Pred("is_email", IsEmail)),
				schema.Field("public_key", schema.String),
			)),
		)),
	)),
)

var validator = schema.NewValidator(schema.WithRoot(RootLabel))

// Check validates already decoded data against Schema.
func Check(data any) error {
	return validator.Validate(Schema, data)
}

// CheckJSON decodes text and validates it against Schema.
func CheckJSON(text string) error {
	return validator.ValidateJSON(Schema, text)
}

// CheckBytes is CheckJSON for raw file contents.
func CheckBytes(data []byte) error {
	return validator.ValidateBytes(Schema, data)
}
