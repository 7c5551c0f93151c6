// Package catalog maps service identifiers to the long descriptions shown on
// hosted checkout pages.
package catalog

var descriptions = map[string]string{
	"website":             "Full stack website development with hosting setup, responsive design, and modern framework implementation.",
	"website-logo":        "Complete website development package including custom logo design, brand guidelines, and all website features.",
	"basic-maintenance":   "Monthly website maintenance including security updates, content updates (2 hrs), and basic monitoring.",
	"pro-maintenance":     "Enhanced monthly maintenance with performance reports, SEO monitoring, and content updates (5 hrs).",
	"oncall-maintenance": "Premium 24/7 support with unlimited updates, custom development, and dedicated account management.",
}

const defaultDescription = "Professional web development service"

func Description(serviceID string) string {
	if desc, ok := descriptions[serviceID]; ok {
		return desc
	}
	return defaultDescription
}
