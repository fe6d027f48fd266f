package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys, and query parameter names, whose value
// is always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,

	"password":      true,
	"passwd":        true,
	"pwd":           true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"key":           true,
	"access_token":  true,
	"refresh_token": true,
	"id_token":      true,
	"client_secret": true,
	"signature":     true,
	"sig":           true,

	"session":    true,
	"session_id": true,
	"sessionid":  true,
	"sid":        true,
	"jsessionid": true,
	"phpsessid":  true,

	"credential":  true,
	"credentials": true,
	"auth":        true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
// The bare word "key" is left out: it would catch "primary_key" or "monkey".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "session", "cookie",
}

// RedactingHandler wraps an slog.Handler and masks secrets in attributes:
//   - attributes whose key is sensitive are replaced by MaskValue
//   - string attributes holding an absolute URL keep the URL but lose the
//     userinfo password and the values of sensitive query parameters
//   - error attributes are rendered and treated like strings, since URL
//     errors quote the URL they failed on
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler creates a RedactingHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, redactText(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a handler whose preset attributes are already redacted.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redactText(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, redactText(err.Error()))
		}
	}
	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// redactText redacts every whitespace-separated word of s that is an absolute URL.
func redactText(s string) string {
	if !strings.Contains(s, "://") {
		return s
	}
	words := strings.Fields(s)
	changed := false
	for i, w := range words {
		trimmed := strings.Trim(w, `"'()<>,;:`)
		if r := RedactURL(trimmed); r != trimmed {
			words[i] = strings.Replace(w, trimmed, r, 1)
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(words, " ")
}

// RedactURL masks the password and the sensitive query values of an
// absolute URL. Anything that is not an absolute URL is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	changed := false
	maskPassword := false
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.User(u.User.Username())
			maskPassword = true
			changed = true
		}
	}

	if u.RawQuery != "" {
		params := strings.Split(u.RawQuery, "&")
		for i, param := range params {
			name, _, _ := strings.Cut(param, "=")
			if unescaped, err := url.QueryUnescape(name); err == nil && isSensitiveKey(unescaped) {
				params[i] = name + "=" + MaskValue
				changed = true
			}
		}
		u.RawQuery = strings.Join(params, "&")
	}

	if !changed {
		return raw
	}
	redacted := u.String()
	if maskPassword {
		// url.Userinfo would percent-encode the mask.
		prefix := u.Scheme + "://" + u.User.String()
		redacted = prefix + ":" + MaskValue + strings.TrimPrefix(redacted, prefix)
	}
	return redacted
}

// NewLogger creates a text logger writing to w through a RedactingHandler.
// The level is Debug when verbose is set and Warn otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})))
}

// NewJSONLogger is NewLogger with JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})))
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
