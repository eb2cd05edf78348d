package models

import (
	"github.com/invopop/jsonschema"
)

// StoreSchema describes a backing document holding ActionMapping records
// under table.
func StoreSchema(table string) *jsonschema.Schema {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	item := r.Reflect(&ActionMapping{})
	item.Version = ""
	item.AdditionalProperties = jsonschema.FalseSchema

	props := jsonschema.NewProperties()
	props.Set(table, &jsonschema.Schema{Type: "array", Items: item})
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "ActionMapping store",
		Type:        "object",
		Properties:  props,
		Required:    []string{table},
		Description: "Tables of the backing document. Only " + table + " is read by the server.",
	}
}
