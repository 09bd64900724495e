package respconfig

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchema(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = loadSchema
}

// validate checks raw against the embedded config schema. An empty or
// absent config file is valid by construction and never reaches here.
func validate(raw json.RawMessage) error {
	sch, err := jsonschema.Compile("embedFS://schemas/config.schema.json")
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
