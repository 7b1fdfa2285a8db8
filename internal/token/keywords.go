package token

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, int(KwChr-KwBegin)+1)
	for k := KwBegin; k <= KwChr; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
