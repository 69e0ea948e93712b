package sllm

import "strings"

// domainNames maps the domain tags stored on meetings to the canonical
// names the summarizer was trained on.
var domainNames = map[string]string{
	"마케팅": "Marketing / Economy",
	"IT":  "IT",
	"디자인": "Design",
	"회계":  "Accounting",
}

// CanonicalDomain returns the domain list sent to the summarizer. Unmapped
// tags pass through unchanged and an empty tag sends no domain.
func CanonicalDomain(tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return []string{}
	}
	if name, ok := domainNames[tag]; ok {
		return []string{name}
	}
	return []string{tag}
}
