package render

import (
	"html"
	"regexp"
	"strings"
)

// allowedSchemes lists the URL schemes kept by escapeURL.
var allowedSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "ftps": true, "mailto": true,
	"news": true, "irc": true, "ircs": true, "gopher": true, "nntp": true,
	"feed": true, "telnet": true, "mms": true, "rtsp": true, "sms": true,
	"svn": true, "tel": true, "fax": true, "xmpp": true, "webcal": true, "urn": true,
}

var (
	percentOctet    = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	classDisallowed = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	bareFileRef     = regexp.MustCompile(`(?i)^[a-z0-9-]+?\.php`)
)

// escapeURL cleans a link URL for an href attribute. It returns "" when
// the URL is empty or uses a scheme outside allowedSchemes.
func escapeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	u = strings.ReplaceAll(u, " ", "%20")
	u = strings.Map(func(r rune) rune {
		if r >= 0x80 || isURLChar(byte(r)) {
			return r
		}
		return -1
	}, u)
	if u == "" {
		return ""
	}

	// Bare host names ("example.com/path") are promoted to http.
	if !strings.Contains(u, ":") && !strings.ContainsAny(u[:1], "/#?") && !bareFileRef.MatchString(u) {
		u = "http://" + u
	}

	if scheme, ok := urlScheme(u); ok && !allowedSchemes[strings.ToLower(scheme)] {
		return ""
	}

	return html.EscapeString(html.UnescapeString(u))
}

// urlScheme returns the scheme of u, if any. A colon that appears after
// a path, query or fragment delimiter does not start a scheme.
func urlScheme(u string) (string, bool) {
	i := strings.IndexByte(u, ':')
	if i <= 0 {
		return "", false
	}
	if strings.ContainsAny(u[:i], "/?#") {
		return "", false
	}
	return u[:i], true
}

func isURLChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("-~+_.?#=!&;,/:%@$|*'()[]", c) >= 0
}

// escapeAttr escapes s for a double-quoted attribute without
// double-encoding entities already present.
func escapeAttr(s string) string {
	return html.EscapeString(html.UnescapeString(s))
}

// sanitizeHTMLClass reduces every whitespace separated token of classes
// to [A-Za-z0-9_-], dropping percent-encoded octets first.
func sanitizeHTMLClass(classes string) string {
	tokens := strings.Fields(classes)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = percentOctet.ReplaceAllString(tok, "")
		tok = classDisallowed.ReplaceAllString(tok, "")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}
