package extraction

import (
	"fmt"
	"strings"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

// Schema is the JSON-schema subset the structured-output providers accept.
// Types are lowercase ("string", "number", "object"); adapters translate them.
type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Enum        []string          `json:"enum,omitempty"`
}

var LeadSchema = Schema{
	Type: "object",
	Properties: map[string]Schema{
		"customerName":   {Type: "string", Description: "Kundens fulde navn"},
		"customerEmail":  {Type: "string", Description: "Kundens email"},
		"customerPhone":  {Type: "string", Description: "Kundens telefonnummer"},
		"serviceType":    {Type: "string", Description: "Type af rengøring"},
		"address":        {Type: "string", Description: "Gade og husnummer"},
		"city":           {Type: "string"},
		"postalCode":     {Type: "string"},
		"estimatedHours": {Type: "number", Description: "Estimeret antal timer"},
		"priority":       {Type: "string", Enum: []string{"low", "medium", "high"}},
		"notes":          {Type: "string"},
		"analysis":       {Type: "string", Description: "Kort vurdering af henvendelsen"},
		"confidence":     {Type: "number", Description: "Sikkerhed 0-100"},
	},
	Required: []string{"customerName", "serviceType", "estimatedHours", "priority"},
}

func BuildPrompt(raw string, source entity.Source) string {
	var b strings.Builder
	b.WriteString("Du er assistent for et dansk rengøringsfirma. ")
	b.WriteString("Udtræk kundeoplysninger fra henvendelsen nedenfor og svar kun med JSON efter skemaet.\n")
	b.WriteString("Regler:\n")
	b.WriteString("- Brug tom streng for felter der ikke står i teksten, gæt aldrig.\n")
	b.WriteString("- estimatedHours er et positivt tal; brug 25 m2 pr. time hvis kun arealet er oplyst.\n")
	b.WriteString("- priority er high ved akutte ønsker, low ved fleksible, ellers medium.\n")
	b.WriteString("- confidence er din sikkerhed fra 0 til 100.\n\n")
	fmt.Fprintf(&b, "Kilde: %s\n", source)
	b.WriteString("Henvendelse:\n\"\"\"\n")
	b.WriteString(strings.TrimSpace(raw))
	b.WriteString("\n\"\"\"\n")
	return b.String()
}
