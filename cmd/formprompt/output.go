package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-formprompt"
	"github.com/goliatone/go-formprompt/pkg/export"
	"github.com/goliatone/go-formprompt/pkg/model"
	"github.com/goliatone/go-formprompt/pkg/preview"
)

const (
	formatJSON    = "json"
	formatOpenAPI = "openapi"
	formatHTML    = "html"
)

var formats = []string{formatJSON, formatOpenAPI, formatHTML}

func validFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want %s)", format, strings.Join(formats, ", "))
}

// writeSchema renders schema in the requested format. JSON output uses the
// response envelope; OpenAPI and HTML fall back to it when nothing was
// understood.
func writeSchema(w io.Writer, format, prompt string, schema model.ResolvedSchema) error {
	if schema.Empty() && format != formatHTML {
		format = formatJSON
	}
	switch format {
	case formatOpenAPI:
		doc, err := export.OpenAPIDocument(schema, "")
		if err != nil {
			return err
		}
		data, err := export.MarshalJSON(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatHTML:
		r, err := preview.New()
		if err != nil {
			return err
		}
		title := ""
		if schema.Empty() {
			title = formprompt.TitleFailed
		}
		_, err = r.Render(schema, title, w)
		return err
	default:
		return writeJSON(w, formprompt.NewResponse(prompt, schema))
	}
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
