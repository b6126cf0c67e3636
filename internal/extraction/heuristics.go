package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

// KeywordTableVersion changes whenever serviceKeywords, knownCities or the
// priority lists change, so leads can be traced back to the rules that built them.
const KeywordTableVersion = "v1"

const GenericService = "Generel rengøring"

type serviceRule struct {
	Service  string
	Keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var serviceKeywords = []serviceRule{
	{"Kontorrengøring", []string{"kontor", "office", "arbejdsplads", "firma"}},
	{"Hjemmerengøring", []string{"hjem", "lejlighed", "hus", "bolig", "privat"}},
	{"Vinduespolering", []string{"vinduer", "ruder", "vinduespolering"}},
	{"Dybderengøring", []string{"dybde", "grundig", "flytterengøring", "totalrengøring"}},
	{"Erhvervsrengøring", []string{"erhverv", "butik", "restaurant", "hotel"}},
}

var knownCities = []string{
	"København", "Aarhus", "Odense", "Aalborg", "Esbjerg",
	"Randers", "Kolding", "Horsens", "Vejle", "Roskilde",
}

var (
	highPriorityKeywords = []string{"akut", "hurtigt", "i dag", "asap", "vigtigt", "deadline"}
	lowPriorityKeywords  = []string{"når det passer", "ikke travlt", "fleksibel"}
)

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)mit navn er ([a-zA-ZæøåÆØÅ\s]+)`),
		regexp.MustCompile(`(?i)jeg hedder ([a-zA-ZæøåÆØÅ\s]+)`),
		regexp.MustCompile(`(?i)fra ([a-zA-ZæøåÆØÅ\s]+)`),
	}
	emailPattern  = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\+45\s?\d{2}\s?\d{2}\s?\d{2}\s?\d{2})`),
		regexp.MustCompile(`(\d{8})`),
		regexp.MustCompile(`(\d{2}\s?\d{2}\s?\d{2}\s?\d{2})`),
	}
	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)adresse[:\s]+([^,\n]+)`),
		regexp.MustCompile(`(?i)bor på ([^,\n]+)`),
		regexp.MustCompile(`([a-zA-ZæøåÆØÅ\s]+\d+[a-zA-Z]?)`),
	}
	postalCodePattern = regexp.MustCompile(`\b(\d{4})\s+[A-ZÆØÅ][a-zæøå]+`)
	hoursPattern      = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*timer?`)
	areaPattern       = regexp.MustCompile(`(?i)(\d+)\s*(?:m2|kvm)`)
)

// heuristicDraft is the AI-free path. Every field it can not find stays empty
// and is filled by applyDefaults afterwards.
func heuristicDraft(raw string, defaultHours float64) *LeadDraft {
	return &LeadDraft{
		CustomerName:   firstSubmatch(namePatterns, raw),
		CustomerEmail:  firstSubmatch([]*regexp.Regexp{emailPattern}, raw),
		CustomerPhone:  firstSubmatch(phonePatterns, raw),
		Address:        firstSubmatch(addressPatterns, raw),
		City:           detectCity(raw),
		PostalCode:     firstSubmatch([]*regexp.Regexp{postalCodePattern}, raw),
		ServiceType:    DetectServiceType(raw),
		EstimatedHours: EstimateHours(raw, defaultHours),
		Priority:       DetectPriority(raw),
		Notes:          truncateRunes(strings.TrimSpace(raw), 100),
		Analysis:       "Lead kræver manuel gennemgang.",
	}
}

func firstSubmatch(patterns []*regexp.Regexp, content string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(content); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func detectCity(content string) string {
	lower := strings.ToLower(content)
	for _, city := range knownCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

func DetectServiceType(content string) string {
	lower := strings.ToLower(content)
	for _, rule := range serviceKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Service
			}
		}
	}
	return GenericService
}

// EstimateHours prefers an explicit "N timer", then floor area at roughly
// 25 m2 per hour, then per-service defaults, then fallback.
func EstimateHours(content string, fallback float64) float64 {
	if m := hoursPattern.FindStringSubmatch(content); m != nil {
		if h, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil && h > 0 {
			return h
		}
	}
	if m := areaPattern.FindStringSubmatch(content); m != nil {
		if area, err := strconv.Atoi(m[1]); err == nil && area > 0 {
			return math.Ceil(float64(area) / 25)
		}
	}

	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "kontor"):
		return 6
	case strings.Contains(lower, "hjem"), strings.Contains(lower, "lejlighed"):
		return 3
	case strings.Contains(lower, "vinduer"):
		return 2
	case strings.Contains(lower, "dybde"):
		return 8
	}
	return fallback
}

func DetectPriority(content string) entity.Priority {
	lower := strings.ToLower(content)
	for _, kw := range highPriorityKeywords {
		if strings.Contains(lower, kw) {
			return entity.PriorityHigh
		}
	}
	for _, kw := range lowPriorityKeywords {
		if strings.Contains(lower, kw) {
			return entity.PriorityLow
		}
	}
	return entity.PriorityMedium
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
