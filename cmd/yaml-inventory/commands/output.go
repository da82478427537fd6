package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/openfroyo/yamlinventory/pkg/inventory"
)

// extraVar is a key=value pair injected at the top level of the output.
type extraVar struct {
	key   string
	value string
}

// parseExtraVar splits s on its first '='. An empty s yields nil.
func parseExtraVar(s string) (*extraVar, error) {
	if s == "" {
		return nil, nil
	}

	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return nil, inventory.NewInvalidArgumentError("extra vars must be key=value", s)
	}
	return &extraVar{key: key, value: value}, nil
}

func (e *extraVar) apply(result map[string]any) {
	if e == nil {
		return
	}
	result[e.key] = e.value
}

// writeJSON encodes v with sorted keys, indented by four spaces when pretty.
func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
