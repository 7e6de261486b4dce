package registry

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const versionsSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"propertyNames": {
		"pattern": "^v?\\d+\\.\\d+\\.\\d+(-[0-9A-Za-z.-]+)?(\\+[0-9A-Za-z.-]+)?$"
	},
	"additionalProperties": { "type": "object" }
}`

const metadataSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "version"],
	"properties": {
		"name": { "type": "string", "minLength": 1 },
		"version": { "type": "string", "minLength": 1 },
		"displayName": { "type": "string" },
		"actions": { "type": ["object", "null"] },
		"triggers": { "type": ["object", "null"] }
	}
}`

var (
	versionsSchema = mustCompile("versions", versionsSchemaJSON)
	metadataSchema = mustCompile("metadata", metadataSchemaJSON)
)

func mustCompile(name, schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemaURL := fmt.Sprintf("https://piecesync.schemas.local/registry/%s.schema.json", name)
	if err := c.AddResource(schemaURL, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("registry: load %s schema: %v", name, err))
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("registry: compile %s schema: %v", name, err))
	}
	return compiled
}
