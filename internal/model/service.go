package model

import "strings"

// AllowedServices lists the service slugs accepted by the audit API.
var AllowedServices = []string{
	"pest_control",
	"termite_treatment",
	"rodent_control",
	"mosquito_control",
	"wildlife_removal",
	"general_pest_management",
	"fumigation",
	"bed_bug_treatment",
	"ant_control",
	"cockroach_control",
	"bee_control",
}

// serviceReadable maps service slugs to customer-facing display names.
var serviceReadable = map[string]string{
	"pest_control":            "pest control",
	"termite_treatment":       "termite treatment",
	"rodent_control":          "rodent control",
	"mosquito_control":        "mosquito control",
	"wildlife_removal":        "wildlife removal",
	"general_pest_management": "pest management",
	"fumigation":              "fumigation",
	"bed_bug_treatment":       "bed bug treatment",
	"ant_control":             "ant control",
	"cockroach_control":       "cockroach control",
	"bee_control":             "bee removal",
}

// IsAllowedService reports whether slug is a known service.
func IsAllowedService(slug string) bool {
	_, ok := serviceReadable[slug]
	return ok
}

// ServiceDisplayName returns the readable name for a service slug.
// Unknown slugs fall back to the slug with underscores replaced by spaces.
func ServiceDisplayName(slug string) string {
	if name, ok := serviceReadable[slug]; ok {
		return name
	}
	return strings.ReplaceAll(slug, "_", " ")
}
