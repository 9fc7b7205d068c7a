package digest

import "fmt"

// UnsupportedAlgorithmError is returned when an algorithm name resolves to no known hash function and neither does
// the DefaultAlgorithm fallback.
//
// This indicates a misconfiguration to be fixed by the operator rather than a transient condition; nothing retries
// past it.
type UnsupportedAlgorithmError struct {
	// Name is the algorithm name as requested, before any fallback attempt.
	Name string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("no hash algorithm for '%s'", e.Name)
}
