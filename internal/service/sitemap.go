package service

import (
	"encoding/xml"
	"strings"
	"time"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// The feed needs a session, so only the landing and legal pages are listed.
type SitemapService struct {
	legal   *LegalService
	baseURL string
}

func NewSitemapService(legal *LegalService, baseURL string) *SitemapService {
	return &SitemapService{
		legal:   legal,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	today := time.Now().Format("2006-01-02")

	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: s.baseURL + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
		},
	}
	for _, slug := range s.legal.Slugs() {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.baseURL + "/legal/" + slug,
			LastMod:    today,
			ChangeFreq: "monthly",
			Priority:   "0.3",
		})
	}

	output, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}
