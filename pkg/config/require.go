package config

import "fmt"

// MustNonEmpty returns an error naming every env variable whose value is
// empty. Pairs are given as value, name, value, name...
func MustNonEmpty(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == "" {
			missing = append(missing, pairs[i+1])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env %v", missing)
	}
	return nil
}
