// Package i18n resolves message ids and named values to display strings.
package i18n

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed en.toml
var defaultMessages []byte

// Values are the named values substituted into {name} placeholders
type Values map[string]any

// Catalog maps message ids to templates
type Catalog struct {
	messages map[string]string
}

// Default returns the built-in English catalog
func Default() *Catalog {
	messages, err := Parse(defaultMessages)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded catalog is invalid: %v", err))
	}
	return &Catalog{messages: messages}
}

// Load returns the built-in catalog overlaid with the messages in path.
// An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	overlay, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse messages file %s: %w", path, err)
	}
	for id, msg := range overlay {
		c.messages[id] = msg
	}
	return c, nil
}

// Parse decodes a flat TOML table of id = "template" pairs
func Parse(data []byte) (map[string]string, error) {
	messages := make(map[string]string)
	if err := toml.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Has reports whether id is in the catalog
func (c *Catalog) Has(id string) bool {
	_, ok := c.messages[id]
	return ok
}

// T renders id with values. Unknown ids render as the id itself, which lets
// raw messages from the lookup service pass through unchanged.
func (c *Catalog) T(id string, values Values) string {
	msg, ok := c.messages[id]
	if !ok {
		return id
	}
	if len(values) == 0 || !strings.Contains(msg, "{") {
		return msg
	}

	pairs := make([]string, 0, len(values)*2)
	for name, v := range values {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
