package model

// WebsiteData holds the text signals scraped from a company website
type WebsiteData struct {
	OriginalURL string   `json:"originalUrl"`
	LogoURL     *string  `json:"logoUrl"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Headings    []string `json:"headings,omitempty"`
	Paragraphs  []string `json:"paragraphs,omitempty"`
	Content     string   `json:"content"` // all signals joined for classification
}

// EmptyWebsiteData is the fallback used when scraping fails
func EmptyWebsiteData(originalURL string) *WebsiteData {
	return &WebsiteData{OriginalURL: originalURL}
}

// WebsiteAnalysis is a cached scrape and classification of one site
type WebsiteAnalysis struct {
	Website        WebsiteData          `json:"website"`
	Classification *BrandClassification `json:"classification,omitempty"`
}
