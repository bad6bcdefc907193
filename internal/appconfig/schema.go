// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the structural shape of the configuration file.
// Value-level rules (overlap < size, host references, required keys per
// router mode) live in Config.Validate.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "hosts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "url": {"type": "string"},
          "type": {"type": "string", "enum": ["ollama", "openai"]}
        },
        "required": ["name", "type"]
      }
    },
    "chatHost": {"type": "string"},
    "chatModel": {"type": "string"},
    "embeddingHost": {"type": "string"},
    "embeddingModel": {"type": "string"},
    "temperature": {"type": "number"},
    "sources": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "path": {"type": "string"},
          "description": {"type": "string"},
          "maxResults": {"type": "integer", "minimum": 1},
          "minScore": {"type": "number", "minimum": 0, "maximum": 1}
        },
        "required": ["name", "path"]
      }
    },
    "routerMode": {"type": "string", "enum": ["topic", "static", "model"]},
    "routerTopic": {"type": "string"},
    "webSearch": {"type": "boolean"},
    "segmentSize": {"type": "integer", "minimum": 1},
    "segmentOverlap": {"type": "integer", "minimum": 0},
    "maxResults": {"type": "integer", "minimum": 1},
    "minScore": {"type": "number", "minimum": 0, "maximum": 1},
    "historyWindow": {"type": "integer", "minimum": 1},
    "exitWord": {"type": "string"},
    "storeType": {"type": "string", "enum": ["memory", "postgres"]},
    "postgres": {
      "type": "object",
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer"},
        "user": {"type": "string"},
        "dbname": {"type": "string"},
        "sslmode": {"type": "string"}
      }
    },
    "debug": {"type": "boolean"},
    "logFile": {"type": "string"},
    "timeout": {"type": "integer", "minimum": 1}
  },
  "additionalProperties": false
}`

// validateSchema checks raw config JSON against the embedded schema and
// reports every violation in one error.
func validateSchema(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
