package transfer

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// WriteYAML writes items as a YAML sequence. Unlike the tabular formats
// it keeps every field, so it doubles as a backup format.
func WriteYAML(w io.Writer, items []catalog.Item) error {
	if items == nil {
		items = []catalog.Item{}
	}
	data, err := yaml.MarshalWithOptions(items, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapIO("marshal", "yaml", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "yaml", err)
	}
	return nil
}

// ReadYAML reads a YAML sequence of items. An empty document yields no items.
func ReadYAML(r io.Reader) ([]catalog.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "yaml", err)
	}
	var items []catalog.Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, errors.NewParseError("yaml", "", "invalid item list", err)
	}
	return items, nil
}
