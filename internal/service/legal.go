package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vibeshare/vibeshare/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type LegalPage struct {
	Title       string
	Slug        string
	Content     string
	LastUpdated string
}

// LegalService serves markdown pages from CONTENT_PATH/legal, falling back
// to the embedded defaults. Pages are read on every request so edits show
// up without a restart.
type LegalService struct {
	sources []fs.FS
	parser  *markdown.Parser
}

func NewLegalService(contentDir string, defaults fs.FS) *LegalService {
	var sources []fs.FS
	if contentDir != "" {
		sources = append(sources, os.DirFS(contentDir))
	}
	if defaults != nil {
		sources = append(sources, defaults)
	}
	return &LegalService{
		sources: sources,
		parser:  markdown.NewParser(),
	}
}

func (s *LegalService) Page(slug string) (*LegalPage, error) {
	if !slugPattern.MatchString(slug) {
		return nil, ErrPageNotFound
	}

	name := path.Join("legal", slug+".md")
	for _, src := range s.sources {
		content, err := fs.ReadFile(src, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var modTime time.Time
		info, err := fs.Stat(src, name)
		if err == nil {
			modTime = info.ModTime()
		}
		return s.render(slug, content, modTime)
	}

	return nil, ErrPageNotFound
}

// Slugs lists every available page across all sources.
func (s *LegalService) Slugs() []string {
	seen := map[string]bool{}
	for _, src := range s.sources {
		entries, err := fs.ReadDir(src, "legal")
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), ".md")] = true
		}
	}

	slugs := make([]string, 0, len(seen))
	for slug := range seen {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

func (s *LegalService) render(slug string, content []byte, modTime time.Time) (*LegalPage, error) {
	html, meta, err := s.parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	lastUpdated := parseDate(meta["lastUpdated"])
	if lastUpdated == "" && !modTime.IsZero() {
		lastUpdated = modTime.Format("January 2, 2006")
	}

	return &LegalPage{
		Title:       title,
		Slug:        slug,
		Content:     string(html),
		LastUpdated: lastUpdated,
	}, nil
}

func parseDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("January 2, 2006")
	case string:
		for _, layout := range []string{"2006-01-02", "2006/01/02", "January 2, 2006", time.RFC3339} {
			t, err := time.Parse(layout, v)
			if err == nil {
				return t.Format("January 2, 2006")
			}
		}
		return v
	}
	return ""
}
