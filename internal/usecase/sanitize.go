package usecase

import (
	"html"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Mesmo limite das colunas VARCHAR(190).
const maxFieldRunes = 190

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText remove HTML, caracteres de controle e espaços repetidos.
// Nunca rejeita: o pior caso é string vazia.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = stripControl(s)
	s = strings.Join(strings.Fields(s), " ")
	return truncateRunes(s, maxFieldRunes)
}

// SanitizeEmail devolve o endereço normalizado ou "" quando não parece um email.
func SanitizeEmail(s string) string {
	s = strings.TrimSpace(stripControl(s))
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return ""
	}
	if len(addr.Address) > maxFieldRunes {
		return ""
	}
	return addr.Address
}

// Landing é só um identificador da página; URLs longas de campanha cabem.
const maxLandingRunes = 2048

// SanitizeLanding remove caracteres de controle e espaços nas pontas e
// devolve o valor, que pode ser relativo ("/lp1"). Só mexe em URLs absolutas
// http(s) (esquema em minúsculas) e em "dominio.com/lp", que ganha http://.
// Devolve "" apenas quando não sobra nada.
func SanitizeLanding(s string) string {
	s = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
	if s == "" {
		return ""
	}
	s = truncateRunes(s, maxLandingRunes)

	switch s[0] {
	case '/', '#', '?':
		return s
	}

	if i := strings.Index(s, "://"); i > 0 {
		scheme := strings.ToLower(s[:i])
		if scheme != "http" && scheme != "https" {
			return s
		}
		u, err := url.Parse(s)
		if err != nil {
			return s
		}
		u.Scheme = scheme
		return u.String()
	}

	if looksLikeHost(s) {
		return "http://" + s
	}
	return s
}

// looksLikeHost: "x.com/lp1" ou "www.x.com", sem esquema e sem espaços.
func looksLikeHost(s string) bool {
	if strings.ContainsAny(s, " :") {
		return false
	}
	host := s
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		host = s[:i]
	}
	dot := strings.LastIndexByte(host, '.')
	return dot > 0 && dot < len(host)-1
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return -1
		}
		return r
	}, s)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
