package vault

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// splitFrontmatter separates a leading YAML block from the rest of the note.
func splitFrontmatter(content string) (header, body string, ok bool) {
	first, rest, found := strings.Cut(content, "\n")
	if !found || strings.TrimRight(first, "\r") != fence {
		return "", content, false
	}

	offset := 0
	for {
		line, next, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimRight(line, "\r") == fence {
			header = rest[:offset]
			if more {
				return header, next, true
			}
			return header, "", true
		}
		if !more {
			return "", content, false
		}
		offset += len(line) + 1
	}
}

// ParseFrontmatter decodes the YAML block at the top of content. A note
// without one yields a nil map.
func ParseFrontmatter(content string) (map[string]any, error) {
	header, _, ok := splitFrontmatter(content)
	if !ok {
		return nil, nil
	}
	var fm map[string]any
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, nil
}

// Frontmatter reads and decodes the frontmatter of a note.
func (v *Vault) Frontmatter(id string) (map[string]any, error) {
	content, err := v.Read(id)
	if err != nil {
		return nil, err
	}
	fm, err := ParseFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return fm, nil
}

// SetField sets a string field in the frontmatter of content. Existing keys
// keep their order and a missing frontmatter block is created.
func SetField(content, key, value string) (string, error) {
	header, body, ok := splitFrontmatter(content)
	if !ok {
		body = content
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return "", fmt.Errorf("parse frontmatter: %w", err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return "", fmt.Errorf("frontmatter is not a mapping")
	}

	scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if scalar.ShortTag() != "!!str" {
		// timestamps, numbers and booleans would not read back as strings
		scalar.Style = yaml.DoubleQuotedStyle
	}
	replaced := false
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = scalar
			replaced = true
			break
		}
	}
	if !replaced {
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, scalar)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	return fence + "\n" + buf.String() + fence + "\n" + body, nil
}
