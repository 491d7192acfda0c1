package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxSide bounds the number of nodes on one side of a generated graph.
// It keeps L*R well inside a 64-bit int.
const MaxSide = 1 << 20

// ValidateSides checks that both side sizes are non-negative and within MaxSide.
func ValidateSides(left, right int) error {
	if left < 0 || right < 0 {
		return New(ErrCodeInvalidInput, "side sizes must be non-negative (left=%d, right=%d)", left, right)
	}
	if left > MaxSide || right > MaxSide {
		return New(ErrCodeInvalidInput, "side sizes must not exceed %d (left=%d, right=%d)", MaxSide, left, right)
	}
	return nil
}

// ValidateEdgeCount checks that m distinct edges can be drawn from a left×right
// index space. It returns an INVALID_SAMPLE_SIZE error when m is negative or
// exceeds left*right.
func ValidateEdgeCount(left, right, m int) error {
	if err := ValidateSides(left, right); err != nil {
		return err
	}
	if m < 0 {
		return New(ErrCodeInvalidSampleSize, "edge count must be non-negative, got %d", m)
	}
	if n := PairCount(left, right); m > n {
		return New(ErrCodeInvalidSampleSize, "cannot draw %d distinct edges from %d×%d = %d pairs", m, left, right, n)
	}
	return nil
}

// PairCount returns left*right, saturating at math.MaxInt.
func PairCount(left, right int) int {
	if left == 0 || right == 0 {
		return 0
	}
	if left > math.MaxInt/right {
		return math.MaxInt
	}
	return left * right
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - No null bytes or control characters
//   - Maximum length of 4096 characters
//
// An empty path is valid and means standard output.
func ValidateOutputPath(path string) error {
	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a backend URL string for the given schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL %q must use one of the schemes: %s", rawURL, strings.Join(schemes, ", "))
}
