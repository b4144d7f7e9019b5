package auth

import "regexp"

var (
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// StrengthLabels names each PasswordStrength score.
var StrengthLabels = [...]string{"Very Weak", "Weak", "Fair", "Good", "Strong"}

// PasswordStrength scores pw from 0 to 4, one point each for reaching
// MinPasswordLength, mixing upper and lower case, containing a digit and
// containing anything outside ASCII letters and digits.
func PasswordStrength(pw string) (score int, label string) {
	if len(pw) >= MinPasswordLength {
		score++
	}
	if lowerPattern.MatchString(pw) && upperPattern.MatchString(pw) {
		score++
	}
	if digitPattern.MatchString(pw) {
		score++
	}
	if specialPattern.MatchString(pw) {
		score++
	}
	return score, StrengthLabels[score]
}
