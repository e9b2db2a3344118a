package extract

import "strings"

// Section headers used when assembling the composite document.
const (
	businessHeader   = "=== Business Section ==="
	riskHeader       = "=== Risk Factors Section ==="
	mdaHeader        = "=== MDA Section ==="
	propertiesHeader = "=== Properties Section ==="
)

// Composite assembles one document per issuer from a raw filing: the
// business section always, plus the first present of risk factors, MD&A,
// and properties, in that priority order. Appending only one supplementary
// section is a deliberate policy carried over from the index this replaces;
// changing it would invalidate every stored document.
func Composite(raw string) string {
	text := CleanText(raw)
	text = StripTableOfContents(text)

	business := section(text, BusinessSpec)

	var b strings.Builder
	b.WriteString(businessHeader)
	b.WriteString("\n")
	b.WriteString(business)

	if risks := section(text, RiskFactorsSpec); risks != "" {
		b.WriteString("\n\n")
		b.WriteString(riskHeader)
		b.WriteString("\n")
		b.WriteString(risks)
	} else if mda := section(text, MDASpec); mda != "" {
		b.WriteString("\n\n")
		b.WriteString(mdaHeader)
		b.WriteString("\n")
		b.WriteString(mda)
	} else if props := section(text, PropertiesSpec); props != "" {
		b.WriteString("\n\n")
		b.WriteString(propertiesHeader)
		b.WriteString("\n")
		b.WriteString(props)
	}

	return strings.TrimSpace(b.String())
}
