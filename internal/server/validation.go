package server

import "regexp"

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Пароль должен быть не короче 8 символов и содержать минимум два
// класса символов: буквы, цифры, спецсимволы.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	classes := 0
	for _, pattern := range []*regexp.Regexp{letterPattern, digitPattern, symbolPattern} {
		if pattern.MatchString(password) {
			classes++
		}
	}
	return classes >= 2
}
