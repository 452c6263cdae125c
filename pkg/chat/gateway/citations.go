package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// domainNames maps source hosts to reader-friendly labels. Hosts not
// listed here fall back to the bare domain.
var domainNames = map[string]string{
	"mayoclinic.org":       "Mayo Clinic",
	"webmd.com":            "WebMD",
	"nih.gov":              "NIH",
	"ncbi.nlm.nih.gov":     "PubMed",
	"medlineplus.gov":      "MedlinePlus",
	"cdc.gov":              "CDC",
	"who.int":              "WHO",
	"clevelandclinic.org":  "Cleveland Clinic",
	"hopkinsmedicine.org":  "Johns Hopkins Medicine",
	"healthline.com":       "Healthline",
	"medicalnewstoday.com": "Medical News Today",
	"health.harvard.edu":   "Harvard Health",
	"nhs.uk":               "NHS",
	"drugs.com":            "Drugs.com",
	"fda.gov":              "FDA",
	"wikipedia.org":        "Wikipedia",
}

// FormatCitations appends a Sources section listing each URL as
// "[n] [Label](url)". With no URLs the text is returned untouched; a
// sources section is never fabricated.
func FormatCitations(text string, urls []string) string {
	if len(urls) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(text, "\n"))
	b.WriteString("\n\n**Sources:**\n")
	for i, u := range urls {
		fmt.Fprintf(&b, "[%d] [%s](%s)\n", i+1, readableLabel(u), u)
	}
	return strings.TrimRight(b.String(), "\n")
}

func readableLabel(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")

	if name, ok := domainNames[host]; ok {
		return name
	}
	// Try the registrable parent, e.g. en.wikipedia.org -> wikipedia.org.
	if parts := strings.Split(host, "."); len(parts) > 2 {
		parent := strings.Join(parts[len(parts)-2:], ".")
		if name, ok := domainNames[parent]; ok {
			return name
		}
	}
	return host
}
