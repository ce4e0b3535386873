package library

import (
	"encoding/json"
	"os"
	"time"
)

// SeenPapers records papers already processed by previous digest runs so they
// are not fetched and scored again.
type SeenPapers struct {
	Items []*SeenPaper
}

type SeenPaper struct {
	ID     string    `json:"id"`
	Title  string    `json:"title,omitempty"`
	URL    string    `json:"url,omitempty"`
	SeenAt time.Time `json:"seen_at"`
}

// GetSeenPapersFromFile loads the seen file. A missing or empty file yields an
// empty record set, since the first run starts from nothing.
func GetSeenPapersFromFile(path string) (*SeenPapers, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SeenPapers{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &SeenPapers{}, nil
	}

	var seen SeenPapers
	if err := json.NewDecoder(file).Decode(&seen); err != nil {
		return nil, err
	}
	return &seen, nil
}

func (s *SeenPapers) Append(other *SeenPapers) {
	s.Items = append(s.Items, other.Items...)
}

func (s *SeenPapers) IDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, paper := range s.Items {
		ids = append(ids, paper.ID)
	}
	return ids
}

func (s *SeenPapers) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ToSeen converts the full fetched batch into seen-file records, so papers
// below the relevance threshold are not rescored on the next run.
func (p *Papers) ToSeen() *SeenPapers {
	seen := &SeenPapers{}
	for _, paper := range p.Items {
		seen.Items = append(seen.Items, &SeenPaper{
			ID:     paper.ID,
			Title:  paper.Title,
			URL:    paper.URL,
			SeenAt: time.Now().UTC(),
		})
	}
	return seen
}
