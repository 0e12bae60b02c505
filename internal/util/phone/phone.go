package phone

// Normalize отбрасывает все символы, кроме цифр.
func Normalize(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	return string(digits)
}

// Validate проверяет, что после нормализации остаётся ровно 10 цифр.
func Validate(raw string) bool {
	return len(Normalize(raw)) == 10
}
