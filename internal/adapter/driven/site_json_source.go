package driven

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alorle/m3u8-grabber/internal/site"
)

// SiteJSONSource implements the SiteSource port by reading the site list
// from a JSON file.
type SiteJSONSource struct {
	path string
}

// NewSiteJSONSource creates a source reading path.
func NewSiteJSONSource(path string) *SiteJSONSource {
	return &SiteJSONSource{path: path}
}

type variableDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type channelDTO struct {
	Name      string        `json:"name"`
	Variables []variableDTO `json:"variables"`
}

type siteDTO struct {
	Slug         string            `json:"slug"`
	URL          string            `json:"url"`
	Pattern      string            `json:"pattern"`
	Mode         string            `json:"mode"`
	OutputFilter string            `json:"output_filter"`
	Bandwidth    int               `json:"bandwidth"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	Body         json.RawMessage   `json:"body"`
	Channels     []channelDTO      `json:"channels"`
}

// LoadSites reads, decodes and validates every site. Any invalid site fails
// the whole load.
func (s *SiteJSONSource) LoadSites(ctx context.Context) ([]site.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}

	var dtos []siteDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse site file %s: %w", s.path, err)
	}

	sites := make([]site.Site, 0, len(dtos))
	for i, dto := range dtos {
		st, err := dtoToSite(dto)
		if err != nil {
			return nil, fmt.Errorf("site %d (%s): %w", i, dto.Slug, err)
		}
		sites = append(sites, st)
	}

	return sites, nil
}

func dtoToSite(dto siteDTO) (site.Site, error) {
	channels := make([]site.Channel, 0, len(dto.Channels))
	for _, c := range dto.Channels {
		vars := make([]site.Variable, 0, len(c.Variables))
		for _, v := range c.Variables {
			vars = append(vars, site.Variable{Name: v.Name, Value: v.Value})
		}
		channels = append(channels, site.NewChannel(c.Name, vars))
	}

	var body []byte
	if len(dto.Body) > 0 && string(dto.Body) != "null" {
		body = dto.Body
	}

	return site.NewSite(site.Params{
		Slug:         dto.Slug,
		URL:          dto.URL,
		Pattern:      dto.Pattern,
		Mode:         dto.Mode,
		OutputFilter: dto.OutputFilter,
		Bandwidth:    dto.Bandwidth,
		Method:       dto.Method,
		Headers:      dto.Headers,
		Body:         body,
		Channels:     channels,
	})
}
