package tools

// ReadOnlyAnnotations suits every tool in this server: the data set is
// read-only at serve time and queries have no side effects.
func ReadOnlyAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    true,
		"destructiveHint": false,
		"idempotentHint":  true,
		"openWorldHint":   false,
	}
}
