package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig is returned when a configuration payload does not match the
// role's schema.
var ErrInvalidConfig = errors.New("invalid node configuration")

const baseConfigSchema = `{
	"type": "object",
	"properties": {
		"api_endpoint":    {"type": "string"},
		"log_data":        {"type": "string"},
		"recipient_email": {"type": "string"},
		"email_subject":   {"type": "string"},
		"email_body":      {"type": "string"}
	},
	"additionalProperties": false
}`

// Configuration fields each role actually reads. The schema accepts any known
// field for any role (unused fields are ignored at execution time), so this
// table only drives RelevantFields for the palette.
var roleFields = map[models.NodeRole][]string{
	models.RoleServer:     {"api_endpoint"},
	models.RoleServerLogs: {"log_data"},
	models.RoleSendMail:   {"recipient_email", "email_subject", "email_body"},
}

var configSchema = gojsonschema.NewStringLoader(baseConfigSchema)

// ValidateConfig checks a raw configuration payload against the config schema.
// It rejects unknown fields and wrong types; it does not enforce presence,
// since all configuration is optional until execution preflight.
func ValidateConfig(payload map[string]any) error {
	result, err := gojsonschema.Validate(configSchema, gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("config schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(details, "; "))
}

// RelevantFields returns the configuration fields meaningful for a role, or
// nil when the role carries no configuration.
func RelevantFields(role models.NodeRole) []string {
	return roleFields[role]
}
