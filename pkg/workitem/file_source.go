package workitem

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Items []RawItem `yaml:"items"`
}

// FileSource reads raw cards from a YAML export, re-reading the file on every
// fetch so the export can be replaced while the service runs.
type FileSource struct {
	path     string
	location *time.Location
}

func NewFileSource(path string, location *time.Location) *FileSource {
	return &FileSource{path: path, location: location}
}

// FetchItems returns the file's items; when the query names a list only
// cards of that list are kept.
func (s *FileSource) FetchItems(ctx context.Context, query burn.Query) ([]burn.WorkItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse items file %s: %w", s.path, err)
	}

	raw := doc.Items
	if query.ListId != "" {
		raw = make([]RawItem, 0, len(doc.Items))
		for _, item := range doc.Items {
			if item.List == query.ListId {
				raw = append(raw, item)
			}
		}
	}
	log.Debugf("Read %d of %d items from %s", len(raw), len(doc.Items), s.path)
	return Normalize(raw, s.location), nil
}
