package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/nickng/bibtex"
)

// Library holds the papers parsed from a Zotero export. It is the source of
// the research-context summary fed to the scorer.
type Library struct {
	path   string
	papers []*Paper
}

// LoadLibrary parses a Zotero export file (.bib or .json). An empty path is
// valid and yields an empty library, which simply weakens the prompt.
func LoadLibrary(path string) (*Library, error) {
	lib := &Library{path: path}

	if strings.TrimSpace(path) == "" {
		return lib, nil
	}

	switch suffix := strings.ToLower(filepath.Ext(path)); suffix {
	case ".bib":
		if err := lib.parseBibtex(); err != nil {
			return nil, fmt.Errorf("parse bibtex library: %w", err)
		}
	case ".json":
		if err := lib.parseJSON(); err != nil {
			return nil, fmt.Errorf("parse json library: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported library format %q: use .bib or .json", suffix)
	}

	return lib, nil
}

func (l *Library) Papers() []*Paper {
	return l.papers
}

func (l *Library) Len() int {
	return len(l.papers)
}

func (l *Library) parseBibtex() error {
	file, err := os.Open(l.path)
	if err != nil {
		return err
	}
	defer file.Close()

	bib, err := bibtex.Parse(file)
	if err != nil {
		return err
	}

	for _, entry := range bib.Entries {
		field := func(name string) string {
			value, ok := entry.Fields[name]
			if !ok || value == nil {
				return ""
			}
			return strings.TrimSpace(value.String())
		}

		l.papers = append(l.papers, &Paper{
			ID:       entry.CiteName,
			Title:    field("title"),
			Abstract: field("abstract"),
			Authors:  field("author"),
			Year:     field("year"),
			Keywords: field("keywords"),
		})
	}

	return nil
}

// zoteroItem mirrors the fields of interest in a Zotero JSON export item.
type zoteroItem struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	AbstractNote string `json:"abstractNote"`
	Date         string `json:"date"`
	URL          string `json:"url"`
	Creators     []struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"creators"`
	Tags []any `json:"tags"`
}

func (l *Library) parseJSON() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Zotero exports either a bare list of items or an object with an
	// "items" key, depending on the exporter version.
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["items"].([]any); ok {
			items = list
		}
	}

	for _, rawItem := range items {
		var item zoteroItem
		cfg := &mapstructure.DecoderConfig{
			Result:  &item,
			TagName: "json",
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return err
		}
		if err := decoder.Decode(rawItem); err != nil {
			// Malformed items are skipped, not fatal to the library.
			continue
		}

		l.papers = append(l.papers, &Paper{
			ID:       item.Key,
			Title:    item.Title,
			Abstract: item.AbstractNote,
			Authors:  formatCreators(item.Creators),
			Year:     yearFromDate(item.Date),
			Keywords: formatTags(item.Tags),
			URL:      item.URL,
		})
	}

	return nil
}

func formatCreators(creators []struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}) string {
	names := make([]string, 0, len(creators))
	for _, c := range creators {
		if c.LastName == "" {
			continue
		}
		names = append(names, strings.TrimSpace(c.FirstName+" "+c.LastName))
	}
	return strings.Join(names, ", ")
}

func yearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// formatTags joins Zotero tags, which appear either as plain strings or as
// {"tag": "..."} objects depending on the export.
func formatTags(tags []any) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		switch v := tag.(type) {
		case string:
			names = append(names, v)
		case map[string]any:
			if name, ok := v["tag"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ", ")
}
