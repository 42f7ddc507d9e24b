package line

// CookieKind identifies a cookie slot.
type CookieKind int

// Cookie kinds used by the bundled analyzers. Callers may define more.
const (
	CookieLexerState CookieKind = iota + 1
	CookieFoldLevel
	CookieSpellCheck
)

// Cookies live under their own lock so that analyzers can read and write
// them without taking the line lock.

// Cookie returns the cookie of the given kind, or nil.
func (h *Handle) Cookie(kind CookieKind) any {
	c, _ := h.LookupCookie(kind)
	return c
}

// LookupCookie returns the cookie of the given kind and whether it is set.
func (h *Handle) LookupCookie(kind CookieKind) (any, bool) {
	h.cookieMu.RLock()
	defer h.cookieMu.RUnlock()
	c, ok := h.cookies[kind]
	return c, ok
}

// SetCookie stores a cookie, replacing any previous value. Setting a
// cookie on a destroyed handle is a no-op.
func (h *Handle) SetCookie(kind CookieKind, value any) {
	h.cookieMu.Lock()
	defer h.cookieMu.Unlock()
	if h.destroyed.Load() {
		return
	}
	if h.cookies == nil {
		h.cookies = make(map[CookieKind]any)
	}
	h.cookies[kind] = value
}

// HasCookie reports whether a cookie of the given kind is set.
func (h *Handle) HasCookie(kind CookieKind) bool {
	_, ok := h.LookupCookie(kind)
	return ok
}

// RemoveCookie deletes a cookie and reports whether it existed.
func (h *Handle) RemoveCookie(kind CookieKind) bool {
	h.cookieMu.Lock()
	defer h.cookieMu.Unlock()
	if _, ok := h.cookies[kind]; !ok {
		return false
	}
	delete(h.cookies, kind)
	return true
}
