package config

// NewTemplatesWithPath builds a Templates config for testing
func NewTemplatesWithPath(path string) *Templates {
	return &Templates{path: path}
}
